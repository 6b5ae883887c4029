package facts

import (
	"errors"
	"testing"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("error = nil, want validation error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("errors.Is(err, ErrValidation) = false, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}

func TestDefault_Loads(t *testing.T) {
	t.Parallel()

	v := Default()
	if len(v.Institutions()) == 0 {
		t.Fatal("embedded vocabulary has no institutions")
	}
	if Default() != v {
		t.Error("Default() returned a different instance on second call")
	}
}

func TestLoad_RejectsUnknownEnumValue(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
marital_status:
  engaged: [PROMETIDO]
tax_id_patterns:
  natural_person: '^x$'
  legal_entity: '^y$'
`))
	if err == nil {
		t.Fatal("Load() error = nil, want error for unknown marital status value")
	}
}

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "  José   Pérez ", want: "JOSE PEREZ"},
		{in: "MARÍA", want: "MARIA"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain name", in: "juan  pérez lópez", want: "JUAN PÉREZ LÓPEZ"},
		{name: "empty", in: "  ", wantErr: true},
		{name: "too short", in: "ab", wantErr: true},
		{name: "reply word", in: "si", wantErr: true},
		{name: "digits in person name", in: "juan 23", wantErr: true},
		{name: "company may carry digits", in: "Inmobiliaria 2000 SA de CV", want: "INMOBILIARIA 2000 SA DE CV"},
		{name: "invalid characters", in: "juan@perez", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := v.ValidateName("buyer.name", tt.in)
			if tt.wantErr {
				requireValidationError(t, err, "buyer.name")
				return
			}
			if err != nil {
				t.Fatalf("ValidateName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreferName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   string
		candidate string
		want      string
	}{
		{name: "empty candidate keeps current", current: "JUAN PEREZ", candidate: "", want: "JUAN PEREZ"},
		{name: "empty current takes candidate", current: "", candidate: "juan", want: "JUAN"},
		{name: "superset wins", current: "JUAN PEREZ", candidate: "Juan Perez Lopez", want: "JUAN PEREZ LOPEZ"},
		{name: "subset loses", current: "JUAN PEREZ LOPEZ", candidate: "juan perez", want: "JUAN PEREZ LOPEZ"},
		{name: "accent variant keeps current", current: "JOSE PEREZ", candidate: "José Pérez", want: "JOSE PEREZ"},
		{name: "unrelated longer wins", current: "ANA", candidate: "MARIA FERNANDA", want: "MARIA FERNANDA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PreferName(tt.current, tt.candidate); got != tt.want {
				t.Errorf("PreferName(%q, %q) = %q, want %q", tt.current, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestValidateInstitution(t *testing.T) {
	t.Parallel()

	v := Default()

	got, err := v.ValidateInstitution("institution", "bancomer")
	if err != nil || got != "BBVA" {
		t.Errorf("ValidateInstitution(bancomer) = %q, %v; want BBVA", got, err)
	}

	got, err = v.ValidateInstitution("institution", "Caja Popular Tepa")
	if err != nil || got != "CAJA POPULAR TEPA" {
		t.Errorf("ValidateInstitution(unknown plausible) = %q, %v", got, err)
	}

	_, err = v.ValidateInstitution("institution", "sí")
	requireValidationError(t, err, "institution")

	_, err = v.ValidateInstitution("institution", "12345")
	requireValidationError(t, err, "institution")
}

func TestMatchInstitution_WordBoundaries(t *testing.T) {
	t.Parallel()

	v := Default()
	if got, ok := v.MatchInstitution("el crédito es con Banorte"); !ok || got != "BANORTE" {
		t.Errorf("MatchInstitution() = %q, %v; want BANORTE", got, ok)
	}
	if _, ok := v.MatchInstitution("HSBCX"); ok {
		t.Error("MatchInstitution matched inside a longer word")
	}
}

func TestParseMaritalStatus(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		in   string
		want transaction.MaritalStatus
	}{
		{in: "married", want: transaction.MaritalMarried},
		{in: "Casada", want: transaction.MaritalMarried},
		{in: "no estoy casado", want: transaction.MaritalSingle},
		{in: "viudo", want: transaction.MaritalWidowed},
	}
	for _, tt := range tests {
		got, err := v.ParseMaritalStatus("marital_status", tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMaritalStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	_, err := v.ParseMaritalStatus("marital_status", "complicated")
	requireValidationError(t, err, "marital_status")
}

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		in   string
		want transaction.PaymentMethod
	}{
		{in: "de contado", want: transaction.PaymentCash},
		{in: "con crédito hipotecario", want: transaction.PaymentCredit},
		{in: "credito y contado", want: transaction.PaymentMixed},
		{in: "mixed", want: transaction.PaymentMixed},
	}
	for _, tt := range tests {
		got, err := v.ParsePaymentMethod("payment.method", tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePaymentMethod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestInferPartyKind(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		in   string
		want transaction.PartyKind
	}{
		{in: "Desarrollos del Norte S.A. de C.V.", want: transaction.KindLegalEntity},
		{in: "Inmobiliaria Sol SA DE CV", want: transaction.KindLegalEntity},
		{in: "Juan Pérez", want: transaction.KindNaturalPerson},
		{in: "", want: transaction.KindUnknown},
	}
	for _, tt := range tests {
		if got := v.InferPartyKind(tt.in); got != tt.want {
			t.Errorf("InferPartyKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateTaxID(t *testing.T) {
	t.Parallel()

	v := Default()

	id, kind, err := v.ValidateTaxID("tax_id", "pepj-800101-ab1")
	if err != nil || id != "PEPJ800101AB1" || kind != transaction.KindNaturalPerson {
		t.Errorf("ValidateTaxID(person) = %q, %q, %v", id, kind, err)
	}

	id, kind, err = v.ValidateTaxID("tax_id", "ACM010101AB1")
	if err != nil || id != "ACM010101AB1" || kind != transaction.KindLegalEntity {
		t.Errorf("ValidateTaxID(entity) = %q, %q, %v", id, kind, err)
	}

	_, _, err = v.ValidateTaxID("tax_id", "12345")
	requireValidationError(t, err, "tax_id")

	if got, ok := v.FindTaxID("mi rfc es pepj800101ab1 gracias"); !ok || got != "PEPJ800101AB1" {
		t.Errorf("FindTaxID() = %q, %v", got, ok)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "$1,500,000.00", want: 1500000, wantOK: true},
		{in: "son 2.5 millones", want: 2500000, wantOK: true},
		{in: "800 mil pesos", want: 800000, wantOK: true},
		{in: "no sé", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := v.ParseAmount(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPolarity_UsesPromptCues(t *testing.T) {
	t.Parallel()

	v := Default()
	tests := []struct {
		name   string
		reply  string
		prompt string
		want   transaction.TriState
	}{
		{name: "yes to positive question", reply: "sí", prompt: "¿El inmueble tiene algún gravamen o hipoteca vigente?", want: transaction.Yes},
		{name: "yes to lien-free question", reply: "Sí", prompt: "¿El inmueble está libre de gravamen?", want: transaction.No},
		{name: "no to lien-free question", reply: "no", prompt: "Is the property lien-free?", want: transaction.Yes},
		{name: "confirmed", reply: "confirmado.", prompt: "Does a lien exist?", want: transaction.Yes},
		{name: "long message is not a short reply", reply: "si pero la hipoteca ya se pagó hace años", prompt: "", want: transaction.Unknown},
		{name: "not a reply", reply: "Banorte", prompt: "", want: transaction.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := v.ReplyTriState(tt.reply, tt.prompt); got != tt.want {
				t.Errorf("ReplyTriState(%q, %q) = %q, want %q", tt.reply, tt.prompt, got, tt.want)
			}
		})
	}
}
