package command

import (
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Payload is the sealed set of command bodies.
type Payload interface {
	Kind() Kind
	sealed()
}

// SetSellerName names a seller. An empty PartyID targets the primary seller.
type SetSellerName struct {
	PartyID string `json:"party_id,omitempty"`
	Name    string `json:"name"`
}

// SetBuyerName names a buyer. An empty PartyID targets the primary buyer.
type SetBuyerName struct {
	PartyID string `json:"party_id,omitempty"`
	Name    string `json:"name"`
}

// SetPartyKind declares whether a party is a person or a company.
type SetPartyKind struct {
	Side      transaction.Side      `json:"side"`
	PartyID   string                `json:"party_id,omitempty"`
	PartyKind transaction.PartyKind `json:"kind"`
}

// SetPartyTaxID records a party's tax identifier.
type SetPartyTaxID struct {
	Side    transaction.Side `json:"side"`
	PartyID string           `json:"party_id,omitempty"`
	TaxID   string           `json:"tax_id"`
}

// SetMaritalStatus records a natural person's marital status. Side
// defaults to the buyer.
type SetMaritalStatus struct {
	Side    transaction.Side `json:"side,omitempty"`
	PartyID string           `json:"party_id,omitempty"`
	Status  string           `json:"status"`
}

// SetSpouseName names the spouse of a married buyer.
type SetSpouseName struct {
	PartyID string `json:"party_id,omitempty"`
	Name    string `json:"name"`
}

// SetSpouseParticipation records whether the buyer's spouse takes part.
type SetSpouseParticipation struct {
	PartyID      string               `json:"party_id,omitempty"`
	Participates transaction.TriState `json:"participates"`
}

// SetPaymentMethod records how the buyer pays.
type SetPaymentMethod struct {
	Method string `json:"method"`
}

// SetCreditInstitution names the lender of a credit. An empty CreditID
// targets the first credit, creating it when none exists.
type SetCreditInstitution struct {
	CreditID    string `json:"credit_id,omitempty"`
	Institution string `json:"institution"`
}

// SetCreditAmount records a credit's amount.
type SetCreditAmount struct {
	CreditID string   `json:"credit_id,omitempty"`
	Amount   *float64 `json:"amount"`
}

// AddCreditParticipant adds a borrower to a credit.
type AddCreditParticipant struct {
	CreditID string                   `json:"credit_id,omitempty"`
	Role     transaction.BorrowerRole `json:"role"`
	PartyID  string                   `json:"party_id,omitempty"`
	Name     string                   `json:"name,omitempty"`
}

// SetEncumbranceExists answers whether the property carries liens.
type SetEncumbranceExists struct {
	Exists transaction.TriState `json:"exists"`
}

// SetLienDetails creates or updates a lien record. An empty LienID targets
// the single lien, creating it when none exists.
type SetLienDetails struct {
	LienID                string               `json:"lien_id,omitempty"`
	Institution           string               `json:"institution,omitempty"`
	Amount                *float64             `json:"amount,omitempty"`
	CancellationConfirmed transaction.TriState `json:"cancellation_confirmed"`
}

// ConfirmLienCancellation answers whether a lien's cancellation is
// confirmed.
type ConfirmLienCancellation struct {
	LienID    string               `json:"lien_id,omitempty"`
	Confirmed transaction.TriState `json:"confirmed"`
}

// RegisterFolioCandidates records registry folios found in a document.
type RegisterFolioCandidates struct {
	Folios []string `json:"folios"`
}

// SelectFolio confirms one folio.
type SelectFolio struct {
	Folio string `json:"folio"`
}

// SetPropertyDetails merges descriptive property fields.
type SetPropertyDetails struct {
	Address       string                  `json:"address,omitempty"`
	SurveyedArea  string                  `json:"surveyed_area,omitempty"`
	CadastralRefs []string                `json:"cadastral_refs,omitempty"`
	BookEntries   []transaction.BookEntry `json:"book_entries,omitempty"`
}

// SetTitleHolders records the registry title holders.
type SetTitleHolders struct {
	Names []string `json:"names"`
}

// RegisterDetectedPeople parks people found in a document until their role
// is resolved.
type RegisterDetectedPeople struct {
	People []transaction.UnresolvedPerson `json:"people"`
}

// ResolutionRole is the role an unresolved person is attributed to.
type ResolutionRole string

const (
	ResolveAsSeller     ResolutionRole = "seller"
	ResolveAsBuyer      ResolutionRole = "buyer"
	ResolveAsSpouse     ResolutionRole = "spouse"
	ResolveAsCoBorrower ResolutionRole = "co_borrower"
	ResolveAsIgnored    ResolutionRole = "ignore"
)

// IsValid returns true if the role is one of the defined constants.
func (r ResolutionRole) IsValid() bool {
	switch r {
	case ResolveAsSeller, ResolveAsBuyer, ResolveAsSpouse, ResolveAsCoBorrower, ResolveAsIgnored:
		return true
	default:
		return false
	}
}

// ResolveDetectedPerson attributes a parked person to a role.
type ResolveDetectedPerson struct {
	Name string         `json:"name"`
	Role ResolutionRole `json:"role"`
}

// ApplyContextDelta deep-merges a free-form delta into the context. Only
// top-level paths listed in AllowedPaths are applied.
type ApplyContextDelta struct {
	Delta        map[string]any `json:"delta"`
	AllowedPaths []string       `json:"allowed_paths"`
}

// RecordStageTransition stores the stage observed at the end of a turn.
type RecordStageTransition struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Valid bool      `json:"valid"`
	Rule  string    `json:"rule,omitempty"`
	At    time.Time `json:"at"`
}

// RecordDocument stores the outcome of processing an uploaded document.
type RecordDocument struct {
	Record transaction.DocumentRecord `json:"record"`
}

func (SetSellerName) Kind() Kind           { return KindSetSellerName }
func (SetBuyerName) Kind() Kind            { return KindSetBuyerName }
func (SetPartyKind) Kind() Kind            { return KindSetPartyKind }
func (SetPartyTaxID) Kind() Kind           { return KindSetPartyTaxID }
func (SetMaritalStatus) Kind() Kind        { return KindSetMaritalStatus }
func (SetSpouseName) Kind() Kind           { return KindSetSpouseName }
func (SetSpouseParticipation) Kind() Kind  { return KindSetSpouseParticipation }
func (SetPaymentMethod) Kind() Kind        { return KindSetPaymentMethod }
func (SetCreditInstitution) Kind() Kind    { return KindSetCreditInstitution }
func (SetCreditAmount) Kind() Kind         { return KindSetCreditAmount }
func (AddCreditParticipant) Kind() Kind    { return KindAddCreditParticipant }
func (SetEncumbranceExists) Kind() Kind    { return KindSetEncumbranceExists }
func (SetLienDetails) Kind() Kind          { return KindSetLienDetails }
func (ConfirmLienCancellation) Kind() Kind { return KindConfirmLienCancellation }
func (RegisterFolioCandidates) Kind() Kind { return KindRegisterFolioCandidates }
func (SelectFolio) Kind() Kind             { return KindSelectFolio }
func (SetPropertyDetails) Kind() Kind      { return KindSetPropertyDetails }
func (SetTitleHolders) Kind() Kind         { return KindSetTitleHolders }
func (RegisterDetectedPeople) Kind() Kind  { return KindRegisterDetectedPeople }
func (ResolveDetectedPerson) Kind() Kind   { return KindResolveDetectedPerson }
func (ApplyContextDelta) Kind() Kind       { return KindApplyContextDelta }
func (RecordStageTransition) Kind() Kind   { return KindRecordStageTransition }
func (RecordDocument) Kind() Kind          { return KindRecordDocument }

func (SetSellerName) sealed()           {}
func (SetBuyerName) sealed()            {}
func (SetPartyKind) sealed()            {}
func (SetPartyTaxID) sealed()           {}
func (SetMaritalStatus) sealed()        {}
func (SetSpouseName) sealed()           {}
func (SetSpouseParticipation) sealed()  {}
func (SetPaymentMethod) sealed()        {}
func (SetCreditInstitution) sealed()    {}
func (SetCreditAmount) sealed()         {}
func (AddCreditParticipant) sealed()    {}
func (SetEncumbranceExists) sealed()    {}
func (SetLienDetails) sealed()          {}
func (ConfirmLienCancellation) sealed() {}
func (RegisterFolioCandidates) sealed() {}
func (SelectFolio) sealed()             {}
func (SetPropertyDetails) sealed()      {}
func (SetTitleHolders) sealed()         {}
func (RegisterDetectedPeople) sealed()  {}
func (ResolveDetectedPerson) sealed()   {}
func (ApplyContextDelta) sealed()       {}
func (RecordStageTransition) sealed()   {}
func (RecordDocument) sealed()          {}
