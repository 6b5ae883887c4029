package transaction

// Side selects the sellers or the buyers of the transaction.
type Side string

const (
	SideSeller Side = "seller"
	SideBuyer  Side = "buyer"
)

// IsValid returns true if the side is one of the defined constants.
func (s Side) IsValid() bool {
	return s == SideSeller || s == SideBuyer
}

// PartyKind tags the Party union.
type PartyKind string

const (
	KindUnknown       PartyKind = ""
	KindNaturalPerson PartyKind = "natural_person"
	KindLegalEntity   PartyKind = "legal_entity"
)

// IsValid returns true for a known, non-empty kind.
func (k PartyKind) IsValid() bool {
	return k == KindNaturalPerson || k == KindLegalEntity
}

// MaritalStatus of a natural person.
type MaritalStatus string

const (
	MaritalUnknown  MaritalStatus = ""
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// IsValid returns true for a known, non-empty status.
func (m MaritalStatus) IsValid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
		return true
	default:
		return false
	}
}

// Party is a seller or buyer. It is a tagged union over Kind: Person is set
// for natural persons and Entity for legal entities. While Kind is unknown,
// whichever sub-record received data is kept.
type Party struct {
	ID      string         `json:"id"`
	Kind    PartyKind      `json:"kind,omitempty"`
	Primary bool           `json:"primary"`
	Person  *NaturalPerson `json:"person,omitempty"`
	Entity  *LegalEntity   `json:"entity,omitempty"`
}

// NaturalPerson carries the identity of an individual.
type NaturalPerson struct {
	Name          string        `json:"name,omitempty"`
	TaxID         string        `json:"tax_id,omitempty"`
	NationalID    string        `json:"national_id,omitempty"`
	MaritalStatus MaritalStatus `json:"marital_status,omitempty"`
	Spouse        *Spouse       `json:"spouse,omitempty"`
}

// Spouse is a sub-record of a natural person, not an independent party.
type Spouse struct {
	Name         string   `json:"name,omitempty"`
	Participates TriState `json:"participates"`
}

// LegalEntity carries the identity of a company.
type LegalEntity struct {
	Name  string `json:"name,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
}

// Name returns the party's display name regardless of kind.
func (p *Party) Name() string {
	switch {
	case p.Kind == KindLegalEntity && p.Entity != nil:
		return p.Entity.Name
	case p.Person != nil && p.Person.Name != "":
		return p.Person.Name
	case p.Entity != nil:
		return p.Entity.Name
	default:
		return ""
	}
}

// TaxID returns the party's tax identifier regardless of kind.
func (p *Party) TaxID() string {
	switch {
	case p.Kind == KindLegalEntity && p.Entity != nil:
		return p.Entity.TaxID
	case p.Person != nil:
		return p.Person.TaxID
	case p.Entity != nil:
		return p.Entity.TaxID
	default:
		return ""
	}
}

// Married reports whether the party is a natural person declared married.
func (p *Party) Married() bool {
	return p.Kind != KindLegalEntity && p.Person != nil && p.Person.MaritalStatus == MaritalMarried
}

// SpouseName returns the declared spouse's name, if any.
func (p *Party) SpouseName() string {
	if p.Person == nil || p.Person.Spouse == nil {
		return ""
	}
	return p.Person.Spouse.Name
}

// Parties groups both sides of the transaction.
type Parties struct {
	Sellers []Party `json:"sellers"`
	Buyers  []Party `json:"buyers"`
}

// Side returns the slice for the given side.
func (p *Parties) Side(s Side) []Party {
	if s == SideSeller {
		return p.Sellers
	}
	return p.Buyers
}

// SetSide replaces the slice for the given side.
func (p *Parties) SetSide(s Side, parties []Party) {
	if s == SideSeller {
		p.Sellers = parties
		return
	}
	p.Buyers = parties
}

// Primary returns the primary party of a side, or nil. When no party is
// flagged primary the first party is used.
func (p *Parties) Primary(s Side) *Party {
	list := p.Side(s)
	for i := range list {
		if list[i].Primary {
			return &list[i]
		}
	}
	if len(list) > 0 {
		return &list[0]
	}
	return nil
}

func (p *Party) clone() Party {
	out := *p
	if p.Person != nil {
		person := *p.Person
		if p.Person.Spouse != nil {
			spouse := *p.Person.Spouse
			person.Spouse = &spouse
		}
		out.Person = &person
	}
	if p.Entity != nil {
		entity := *p.Entity
		out.Entity = &entity
	}
	return out
}

func cloneParties(in []Party) []Party {
	if in == nil {
		return nil
	}
	out := make([]Party, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}
