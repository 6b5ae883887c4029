package dto

import (
	"fmt"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"

	// maxUserTextLength bounds one user message in runes.
	maxUserTextLength = 4000
	// maxHistoryTurns bounds the conversation history a client may send.
	maxHistoryTurns = 50
	// maxBatchDocuments bounds one batch submission.
	maxBatchDocuments = 20
)

// TurnRequest is the JSON body of POST /transactions/{id}/turns.
type TurnRequest struct {
	UserText string               `json:"user_text"`
	Context  *transaction.Context `json:"context,omitempty"`
	History  []ports.Turn         `json:"history,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *TurnRequest) Validate() error {
	fields := make(map[string]string)

	switch text := strings.TrimSpace(r.UserText); {
	case text == "":
		fields["user_text"] = msgRequired
	case len([]rune(text)) > maxUserTextLength:
		fields["user_text"] = fmt.Sprintf("must be at most %d characters", maxUserTextLength)
	}
	if len(r.History) > maxHistoryTurns {
		fields["history"] = fmt.Sprintf("must have at most %d turns", maxHistoryTurns)
	}
	for i, t := range r.History {
		if t.Role != "user" && t.Role != "assistant" {
			fields[fmt.Sprintf("history[%d].role", i)] = "must be one of: user, assistant"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToPort converts the request for the workflow service.
func (r *TurnRequest) ToPort(id string) ports.TurnRequest {
	return ports.TurnRequest{
		TransactionID: id,
		UserText:      strings.TrimSpace(r.UserText),
		Context:       r.Context,
		History:       r.History,
	}
}

// DocumentPayload is one document sent as JSON. Content is base64 in the
// wire format.
type DocumentPayload struct {
	FileName     string `json:"file_name"`
	MIMEType     string `json:"mime_type"`
	DeclaredType string `json:"declared_type"`
	Content      []byte `json:"content"`
}

func (p *DocumentPayload) validate(prefix string, fields map[string]string) {
	if len(p.Content) == 0 {
		fields[prefix+"content"] = msgRequired
	}
	if strings.TrimSpace(p.MIMEType) == "" {
		fields[prefix+"mime_type"] = msgRequired
	}
	if err := ValidateDeclaredType(p.DeclaredType); err != "" {
		fields[prefix+"declared_type"] = err
	}
}

// ToUpload converts the payload for the document service.
func (p *DocumentPayload) ToUpload() ports.DocumentUpload {
	return ports.DocumentUpload{
		FileName:     p.FileName,
		Content:      p.Content,
		MIMEType:     strings.TrimSpace(p.MIMEType),
		DeclaredType: document.ParseType(p.DeclaredType),
	}
}

// ValidateDeclaredType returns a field message for an unknown document
// type, or "" when it is valid.
func ValidateDeclaredType(s string) string {
	if strings.TrimSpace(s) == "" {
		return msgRequired
	}
	if !document.ParseType(s).IsValid() {
		names := make([]string, 0, len(document.Types()))
		for _, t := range document.Types() {
			names = append(names, t.String())
		}
		return "must be one of: " + strings.Join(names, ", ")
	}
	return ""
}

// DocumentRequest is the JSON body of POST /transactions/{id}/documents.
type DocumentRequest struct {
	DocumentPayload
	Context *transaction.Context `json:"context,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *DocumentRequest) Validate() error {
	fields := make(map[string]string)
	r.validate("", fields)
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// BatchRequest is the JSON body of POST /transactions/{id}/documents:batch.
type BatchRequest struct {
	Documents []DocumentPayload    `json:"documents"`
	Context   *transaction.Context `json:"context,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *BatchRequest) Validate() error {
	fields := make(map[string]string)

	switch {
	case len(r.Documents) == 0:
		fields["documents"] = msgMustNotEmpty
	case len(r.Documents) > maxBatchDocuments:
		fields["documents"] = fmt.Sprintf("must have at most %d entries", maxBatchDocuments)
	}
	for i := range r.Documents {
		r.Documents[i].validate(fmt.Sprintf("documents[%d].", i), fields)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToPort converts the request for the document service.
func (r *BatchRequest) ToPort(id string) ports.BatchRequest {
	uploads := make([]ports.DocumentUpload, len(r.Documents))
	for i := range r.Documents {
		uploads[i] = r.Documents[i].ToUpload()
	}
	return ports.BatchRequest{TransactionID: id, Documents: uploads, Context: r.Context}
}

// ContextRequest is the optional JSON body of the state and document-model
// endpoints. Without a context the stored one is used.
type ContextRequest struct {
	Context *transaction.Context `json:"context,omitempty"`
}

// Validate accepts any body; a supplied context is checked by the service.
func (r *ContextRequest) Validate() error {
	return nil
}
