// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
//
// Service results (turn, document, state and document-model results) are
// already shaped for the wire and are written as they are; this package
// adds what only the HTTP surface needs.
package dto

import (
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// DocumentView is one recorded document with a retrieval link.
type DocumentView struct {
	Hash      string `json:"hash"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Passes    int    `json:"passes"`
	Failure   string `json:"failure,omitempty"`
	At        string `json:"at"`
	URL       string `json:"url,omitempty"`
	URLExpiry string `json:"url_expires_at,omitempty"`
}

// TransactionResponse is the body of GET /transactions/{id}.
type TransactionResponse struct {
	TransactionID string               `json:"transaction_id"`
	Context       *transaction.Context `json:"context"`
	Summary       stage.Summary        `json:"stage_summary"`
	Documents     []DocumentView       `json:"documents"`
}

// ToTransactionResponse builds the response from a state result. urlFor
// returns a retrieval URL for a stored ref, or "" when none is available.
func ToTransactionResponse(res *ports.StateResult, urlFor func(ref string) string, expires time.Time) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: res.Context.TransactionID,
		Context:       res.Context,
		Summary:       res.Summary,
		Documents:     make([]DocumentView, 0, len(res.Context.Documents)),
	}
	for _, d := range res.Context.Documents {
		view := DocumentView{
			Hash:    d.Hash,
			Type:    d.Type,
			Status:  string(d.Status),
			Passes:  d.Passes,
			Failure: d.Failure,
			At:      d.At.Format(time.RFC3339),
		}
		if d.ObjectRef != "" && urlFor != nil {
			if u := urlFor(d.ObjectRef); u != "" {
				view.URL = u
				view.URLExpiry = expires.UTC().Format(time.RFC3339)
			}
		}
		resp.Documents = append(resp.Documents, view)
	}
	return resp
}
