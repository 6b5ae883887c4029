package dto_test

import (
	"testing"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

func TestToTransactionResponse(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	expires := at.Add(15 * time.Minute)

	tx := transaction.New("tx-7", "preaviso")
	tx.Documents = []transaction.DocumentRecord{
		{Hash: "aa", Type: "registry", Status: transaction.DocumentExtracted, Passes: 1, ObjectRef: "tx-7/aa", At: at},
		{Hash: "bb", Type: "identification", Status: transaction.DocumentFailed, Passes: 2, Failure: "illegible", At: at},
	}
	res := &ports.StateResult{Context: tx, Summary: stage.Summary{CurrentStage: "parties"}}

	got := dto.ToTransactionResponse(res, func(ref string) string {
		return "https://files.example/objects/" + ref
	}, expires)

	if got.TransactionID != "tx-7" || got.Summary.CurrentStage != "parties" {
		t.Errorf("header = %+v", got)
	}
	if len(got.Documents) != 2 {
		t.Fatalf("len(Documents) = %d, want 2", len(got.Documents))
	}

	first := got.Documents[0]
	if first.URL != "https://files.example/objects/tx-7/aa" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.URLExpiry != "2026-03-04T10:15:00Z" {
		t.Errorf("URLExpiry = %q", first.URLExpiry)
	}
	if first.At != "2026-03-04T10:00:00Z" || first.Status != "extracted" {
		t.Errorf("first = %+v", first)
	}

	second := got.Documents[1]
	if second.URL != "" || second.URLExpiry != "" {
		t.Errorf("document without object ref got URL %q", second.URL)
	}
	if second.Failure != "illegible" || second.Passes != 2 {
		t.Errorf("second = %+v", second)
	}
}

func TestToTransactionResponse_NoURLBuilder(t *testing.T) {
	t.Parallel()

	tx := transaction.New("tx-8", "preaviso")
	tx.Documents = []transaction.DocumentRecord{{Hash: "cc", ObjectRef: "tx-8/cc"}}

	got := dto.ToTransactionResponse(&ports.StateResult{Context: tx}, nil, time.Time{})
	if got.Documents[0].URL != "" {
		t.Errorf("URL = %q, want empty without a builder", got.Documents[0].URL)
	}
}

func TestToTransactionResponse_EmptyDocumentsIsNotNil(t *testing.T) {
	t.Parallel()

	got := dto.ToTransactionResponse(&ports.StateResult{Context: transaction.New("tx-9", "")}, nil, time.Time{})
	if got.Documents == nil {
		t.Error("Documents = nil, want empty slice")
	}
}
