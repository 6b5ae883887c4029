package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
)

func TestNewServer_BodyReadsFollowRequestTimeout(t *testing.T) {
	t.Parallel()

	s := NewServer(config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           8080,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   120 * time.Second,
		RequestTimeout: 90 * time.Second,
	}, http.NotFoundHandler(), nil)

	if s.srv.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 5s", s.srv.ReadHeaderTimeout)
	}
	if s.srv.ReadTimeout != 90*time.Second {
		t.Errorf("ReadTimeout = %v, want the request timeout", s.srv.ReadTimeout)
	}
	if s.srv.ErrorLog == nil {
		t.Error("ErrorLog is nil, want a slog-backed logger")
	}
}

func TestNewServer_WithoutRequestTimeoutKeepsReadTimeout(t *testing.T) {
	t.Parallel()

	s := NewServer(config.ServerConfig{ReadTimeout: 5 * time.Second}, http.NotFoundHandler(), nil)

	if s.srv.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", s.srv.ReadTimeout)
	}
}
