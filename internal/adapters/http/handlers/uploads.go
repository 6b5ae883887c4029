package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// multipartMemory is the part of a multipart body kept in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart reads the form within limit bytes and returns its file
// parts as payloads together with the optional "context" field.
func parseMultipart(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]dto.DocumentPayload, *transaction.Context, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		msg := "invalid multipart form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "too large"
		}
		return nil, nil, domain.NewValidationError("body", msg)
	}
	form := r.MultipartForm

	files := form.File[field]
	types := form.Value["declared_type"]
	switch {
	case len(files) == 0:
		return nil, nil, domain.NewValidationError(field, domain.MsgRequired)
	case len(types) > 1 && len(types) != len(files):
		return nil, nil, domain.NewValidationError("declared_type",
			fmt.Sprintf("must be given once or once per file (%d files)", len(files)))
	}

	payloads := make([]dto.DocumentPayload, 0, len(files))
	for i, fh := range files {
		content, err := readPart(fh)
		if err != nil {
			return nil, nil, err
		}
		p := dto.DocumentPayload{
			FileName: fh.Filename,
			MIMEType: partMIMEType(fh.Header.Get("Content-Type"), content),
			Content:  content,
		}
		switch {
		case len(types) == 1:
			p.DeclaredType = types[0]
		case len(types) > 1:
			p.DeclaredType = types[i]
		}
		payloads = append(payloads, p)
	}

	var tx *transaction.Context
	if raw := strings.TrimSpace(r.FormValue("context")); raw != "" {
		tx = &transaction.Context{}
		if err := json.Unmarshal([]byte(raw), tx); err != nil {
			return nil, nil, domain.NewValidationError("context", "invalid JSON")
		}
	}
	return payloads, tx, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part %q: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading part %q: %w", fh.Filename, err)
	}
	return content, nil
}

// partMIMEType prefers the declared part type and sniffs the content when
// the client sent none or a generic one.
func partMIMEType(declared string, content []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(content))
	return mediaType
}
