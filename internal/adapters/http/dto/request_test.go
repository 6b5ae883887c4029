package dto_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// requireValidationField asserts err wraps ErrValidation and the resulting
// ValidationError contains the expected field key.
func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestTurnRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       dto.TurnRequest
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid request passes",
			req:     dto.TurnRequest{UserText: "el comprador es Juan Pérez"},
			wantErr: false,
		},
		{
			name: "valid request with history",
			req: dto.TurnRequest{
				UserText: "sí",
				History: []ports.Turn{
					{Role: "assistant", Text: "¿Es crédito Infonavit?"},
					{Role: "user", Text: "sí"},
				},
			},
			wantErr: false,
		},
		{
			name:      "blank text",
			req:       dto.TurnRequest{UserText: "   "},
			wantErr:   true,
			wantField: "user_text",
		},
		{
			name:      "text too long",
			req:       dto.TurnRequest{UserText: strings.Repeat("á", 4001)},
			wantErr:   true,
			wantField: "user_text",
		},
		{
			name: "unknown role",
			req: dto.TurnRequest{
				UserText: "hola",
				History:  []ports.Turn{{Role: "system", Text: "x"}},
			},
			wantErr:   true,
			wantField: "history[0].role",
		},
		{
			name:      "history too long",
			req:       dto.TurnRequest{UserText: "hola", History: make([]ports.Turn, 51)},
			wantErr:   true,
			wantField: "history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			requireValidationField(t, err, tt.wantField)
		})
	}
}

func TestTurnRequest_ToPortTrimsText(t *testing.T) {
	t.Parallel()

	req := dto.TurnRequest{UserText: "  contado \n"}
	got := req.ToPort("tx-1")
	if got.TransactionID != "tx-1" || got.UserText != "contado" {
		t.Errorf("ToPort() = %+v", got)
	}
}

func TestDocumentRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := dto.DocumentRequest{DocumentPayload: dto.DocumentPayload{
		FileName:     "folio.pdf",
		MIMEType:     "application/pdf",
		DeclaredType: "registry",
		Content:      []byte("%PDF-1.7"),
	}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name      string
		mutate    func(*dto.DocumentRequest)
		wantField string
	}{
		{"missing content", func(r *dto.DocumentRequest) { r.Content = nil }, "content"},
		{"missing mime", func(r *dto.DocumentRequest) { r.MIMEType = " " }, "mime_type"},
		{"missing type", func(r *dto.DocumentRequest) { r.DeclaredType = "" }, "declared_type"},
		{"unknown type", func(r *dto.DocumentRequest) { r.DeclaredType = "passport" }, "declared_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid
			tt.mutate(&req)
			requireValidationField(t, req.Validate(), tt.wantField)
		})
	}
}

func TestDocumentPayload_ContentIsBase64(t *testing.T) {
	t.Parallel()

	var req dto.DocumentRequest
	body := `{"file_name":"ine.png","mime_type":"image/png","declared_type":"identification","content":"iVBORw=="}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	up := req.ToUpload()
	if up.DeclaredType != document.ParseType("identification") {
		t.Errorf("DeclaredType = %v", up.DeclaredType)
	}
	if len(up.Content) != 4 || up.Content[0] != 0x89 {
		t.Errorf("Content = %v, want decoded PNG magic", up.Content)
	}
}

func TestValidateDeclaredType_ListsKnownTypes(t *testing.T) {
	t.Parallel()

	msg := dto.ValidateDeclaredType("pasaporte")
	for _, typ := range document.Types() {
		if !strings.Contains(msg, typ.String()) {
			t.Errorf("message %q does not list %q", msg, typ)
		}
	}
	if got := dto.ValidateDeclaredType("marriage_certificate"); got != "" {
		t.Errorf("ValidateDeclaredType(valid) = %q, want empty", got)
	}
}
