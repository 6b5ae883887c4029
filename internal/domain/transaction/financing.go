package transaction

// PaymentMethod is how the buyer pays for the property.
type PaymentMethod string

const (
	PaymentUnknown PaymentMethod = ""
	PaymentCash    PaymentMethod = "cash"
	PaymentCredit  PaymentMethod = "credit"
	PaymentMixed   PaymentMethod = "mixed"
)

// IsValid returns true for a known, non-empty method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCredit || m == PaymentMixed
}

// UsesCredit reports whether the method involves at least one credit.
func (m PaymentMethod) UsesCredit() bool {
	return m == PaymentCredit || m == PaymentMixed
}

// Payment groups payment facts.
type Payment struct {
	Method PaymentMethod `json:"method,omitempty"`
}

// BorrowerRole is a participant's role within a credit.
type BorrowerRole string

const (
	RolePrimaryBorrower BorrowerRole = "primary_borrower"
	RoleCoBorrower      BorrowerRole = "co_borrower"
)

// IsValid returns true if the role is one of the defined constants.
func (r BorrowerRole) IsValid() bool {
	return r == RolePrimaryBorrower || r == RoleCoBorrower
}

// Participant is a borrower in a credit, linked to a party or named directly.
type Participant struct {
	Role    BorrowerRole `json:"role"`
	PartyID string       `json:"party_id,omitempty"`
	Name    string       `json:"name,omitempty"`
}

// Credit is a loan used to pay for the property.
type Credit struct {
	ID           string        `json:"id"`
	Institution  string        `json:"institution,omitempty"`
	Amount       *float64      `json:"amount"`
	Participants []Participant `json:"participants,omitempty"`
}

// HasPrimary reports whether a primary borrower is present.
func (c *Credit) HasPrimary() bool {
	for _, p := range c.Participants {
		if p.Role == RolePrimaryBorrower {
			return true
		}
	}
	return false
}

// Financing holds the credits that pay for the property.
type Financing struct {
	Credits []Credit `json:"credits"`
}

// Lien is a pre-existing charge against the property.
type Lien struct {
	ID                    string   `json:"id"`
	Institution           string   `json:"institution,omitempty"`
	Amount                *float64 `json:"amount"`
	CancellationConfirmed TriState `json:"cancellation_confirmed"`
}

// Encumbrance records whether liens exist and which ones.
type Encumbrance struct {
	Exists TriState `json:"exists"`
	Liens  []Lien   `json:"liens"`
}

func (f *Financing) clone() Financing {
	if f.Credits == nil {
		return Financing{}
	}
	out := Financing{Credits: make([]Credit, len(f.Credits))}
	for i, c := range f.Credits {
		c.Amount = cloneFloat(c.Amount)
		if c.Participants != nil {
			c.Participants = append([]Participant(nil), c.Participants...)
		}
		out.Credits[i] = c
	}
	return out
}

func (e *Encumbrance) clone() Encumbrance {
	out := Encumbrance{Exists: e.Exists}
	if e.Liens != nil {
		out.Liens = make([]Lien, len(e.Liens))
		for i, l := range e.Liens {
			l.Amount = cloneFloat(l.Amount)
			out.Liens[i] = l
		}
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
