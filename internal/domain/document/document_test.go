package document

import (
	"reflect"
	"testing"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, typ := range Types() {
		if got := ParseType(typ.String()); got != typ {
			t.Errorf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if got := ParseType("  Registry "); got != TypeRegistry {
		t.Errorf("ParseType is case sensitive: got %v", got)
	}
	if got := ParseType("passport-ish"); got != TypeUnknown {
		t.Errorf("ParseType(unknown) = %v", got)
	}
	if Type(99).String() != "unknown" {
		t.Errorf("out of range type should stringify as unknown")
	}
}

func TestJudge(t *testing.T) {
	t.Parallel()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	th := DefaultThresholds()

	tests := []struct {
		name    string
		typ     Type
		ex      Extracted
		reasons []string
	}{
		{
			name: "complete registry",
			typ:  TypeRegistry,
			ex: Extracted{
				Folios: []string{"12345"},
				Units:  []Unit{{Identifier: "A-1", Folio: "12345", SurveyedArea: "80 m2"}},
				Text:   string(long),
			},
		},
		{
			name:    "one identifier",
			typ:     TypeRegistry,
			ex:      Extracted{Folios: []string{"12345"}, Text: string(long)},
			reasons: []string{ReasonFewIdentifiers},
		},
		{
			name: "thin details and short text",
			typ:  TypeRegistry,
			ex: Extracted{
				Units: []Unit{{Identifier: "A-1"}, {Identifier: "A-2", Folio: "2", SurveyedArea: "1"}},
				Text:  "short",
			},
			reasons: []string{ReasonLowDetail, ReasonShortText},
		},
		{
			name: "units partially detected",
			typ:  TypeRegistry,
			ex: Extracted{
				Folios:        []string{"1", "2"},
				ExpectedUnits: 3,
				Units:         []Unit{{Identifier: "A-1", Folio: "1", SurveyedArea: "1"}},
				Text:          string(long),
			},
			reasons: []string{ReasonPartialUnits},
		},
		{
			name: "identification never needs a second pass",
			typ:  TypeIdentification,
			ex:   Extracted{People: []Person{{Name: "JUAN PEREZ"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Judge(tt.typ, tt.ex, th)
			if !reflect.DeepEqual(d.Reasons, tt.reasons) {
				t.Errorf("Reasons = %v, want %v", d.Reasons, tt.reasons)
			}
			if d.Sufficient() != (len(tt.reasons) == 0) {
				t.Errorf("Sufficient() = %v", d.Sufficient())
			}
		})
	}
}

func TestMerge_UnionsPasses(t *testing.T) {
	t.Parallel()

	first := Extracted{
		Folios: []string{"12345"},
		Units:  []Unit{{Identifier: "A-1", Folio: "12345"}},
		People: []Person{{Name: "JUAN PÉREZ"}},
		Text:   "short",
	}
	second := Extracted{
		Folios:        []string{"12345", "67890"},
		Units:         []Unit{{Identifier: "a-1", SurveyedArea: "80 m2"}, {Identifier: "A-2", Folio: "67890"}},
		People:        []Person{{Name: "juan perez", TaxID: "PEPJ800101AB1"}},
		ExpectedUnits: 2,
		Text:          "a longer transcription",
	}

	got := Merge(first, second)
	if !reflect.DeepEqual(got.Folios, []string{"12345", "67890"}) {
		t.Errorf("Folios = %v", got.Folios)
	}
	if len(got.Units) != 2 || got.Units[0].SurveyedArea != "80 m2" || got.Units[0].Folio != "12345" {
		t.Errorf("Units = %+v", got.Units)
	}
	if len(got.People) != 1 || got.People[0].TaxID != "PEPJ800101AB1" {
		t.Errorf("People = %+v", got.People)
	}
	if got.ExpectedUnits != 2 || got.Text != "a longer transcription" {
		t.Errorf("ExpectedUnits = %d, Text = %q", got.ExpectedUnits, got.Text)
	}
	if len(first.Units) != 1 || first.Units[0].SurveyedArea != "" {
		t.Errorf("Merge modified its input: %+v", first.Units)
	}
}

func TestHandlerFor_Registry(t *testing.T) {
	t.Parallel()

	tx := transaction.New("tx-1", "purchase_sale")
	tx.Parties.Sellers = []transaction.Party{{
		ID: "s1", Kind: transaction.KindNaturalPerson, Primary: true,
		Person: &transaction.NaturalPerson{Name: "LUIS MARTÍNEZ"},
	}}

	ex := Extracted{
		Folios:       []string{"12345"},
		Units:        []Unit{{Identifier: "A-1", Folio: "67890"}},
		TitleHolders: []string{"LUIS MARTINEZ"},
		Address:      "Calle 1",
		Liens:        []Lien{{Institution: "BANORTE"}, {Institution: " "}},
		People: []Person{
			{Name: "Luis Martinez", TaxID: "MASL800101AB1"},
			{Name: "Rosa Díaz"},
		},
	}

	got := HandlerFor(TypeRegistry).Commands(ex, tx, "hash-1")
	want := []command.Payload{
		command.RegisterFolioCandidates{Folios: []string{"12345", "67890"}},
		command.SetPropertyDetails{Address: "Calle 1"},
		command.SetTitleHolders{Names: []string{"LUIS MARTINEZ"}},
		command.SetLienDetails{Institution: "BANORTE"},
		command.SetPartyTaxID{Side: transaction.SideSeller, PartyID: "s1", TaxID: "MASL800101AB1"},
		command.RegisterDetectedPeople{People: []transaction.UnresolvedPerson{
			{Name: "Rosa Díaz", SourceDocument: "hash-1"},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestHandlerFor_MarriageCertificateSuggestsSpouse(t *testing.T) {
	t.Parallel()

	ex := Extracted{People: []Person{{Name: "Ana López"}}}
	got := HandlerFor(TypeMarriageCertificate).Commands(ex, nil, "h")
	if len(got) != 1 {
		t.Fatalf("Commands() = %v", got)
	}
	parked, ok := got[0].(command.RegisterDetectedPeople)
	if !ok || parked.People[0].SuggestedRole != "spouse" {
		t.Errorf("Commands() = %#v", got[0])
	}
}

func TestHandlerFor_EveryTypeHasInstructions(t *testing.T) {
	t.Parallel()

	for _, typ := range append(Types(), TypeUnknown, Type(42)) {
		h := HandlerFor(typ)
		if h.Instructions == "" {
			t.Errorf("%v has no instructions", typ)
		}
	}
	if HandlerFor(TypeRegistry).FollowUp == "" {
		t.Error("registry handler needs follow-up instructions")
	}
}
