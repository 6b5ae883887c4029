// Package memory keeps uploaded documents in process and hands out
// HMAC-signed, time-limited retrieval URLs served by the HTTP adapter.
package memory

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface check.
var _ ports.ObjectStore = (*Store)(nil)

// PathPrefix is the route under which objects are served.
const PathPrefix = "/objects/"

type object struct {
	Data     []byte
	MIMEType string
}

// Store is a map-backed ObjectStore.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	key     []byte
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store whose URLs start with baseURL. An empty signingKey
// generates a random one, so URLs do not survive a restart.
func New(baseURL, signingKey string, opts ...Option) (*Store, error) {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
	}
	s := &Store{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put stores a copy of data under key. The key is the reference.
func (s *Store) Put(_ context.Context, key string, data []byte, mimeType string) (string, error) {
	if key == "" {
		return "", domain.NewValidationError("key", domain.MsgRequired)
	}
	s.mu.Lock()
	s.objects[key] = object{Data: append([]byte(nil), data...), MIMEType: mimeType}
	s.mu.Unlock()
	return key, nil
}

// URL returns a signed URL for ref valid for ttl.
func (s *Store) URL(_ context.Context, ref string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[ref]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %s: %w", ref, domain.ErrNotFound)
	}

	expires := strconv.FormatInt(s.now().Add(ttl).Unix(), 10)
	q := url.Values{}
	q.Set("expires", expires)
	q.Set("signature", s.sign(ref, expires))
	return s.baseURL + PathPrefix + ref + "?" + q.Encode(), nil
}

// Delete removes ref. Unknown refs are ignored.
func (s *Store) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	delete(s.objects, ref)
	s.mu.Unlock()
	return nil
}

// Open verifies a signed request for ref and returns the object's bytes
// and MIME type. Returns domain.ErrForbidden for a bad or expired
// signature and domain.ErrNotFound for an unknown ref.
func (s *Store) Open(ref, expires, signature string) ([]byte, string, error) {
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return nil, "", fmt.Errorf("malformed expiry: %w", domain.ErrForbidden)
	}
	want := s.sign(ref, expires)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return nil, "", fmt.Errorf("bad signature: %w", domain.ErrForbidden)
	}
	if !s.now().Before(time.Unix(unix, 0)) {
		return nil, "", fmt.Errorf("link expired: %w", domain.ErrForbidden)
	}

	s.mu.RLock()
	obj, ok := s.objects[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("object %s: %w", ref, domain.ErrNotFound)
	}
	return obj.Data, obj.MIMEType, nil
}

func (s *Store) sign(ref, expires string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(ref))
	mac.Write([]byte{0})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}
