package preaviso

import (
	"fmt"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Template is the renderer template the document model fills.
const Template = "preaviso_compraventa_v1"

// Model is the data section of the pre-filing document model.
type Model struct {
	Folio        string                  `json:"folio"`
	BookEntries  []transaction.BookEntry `json:"book_entries,omitempty"`
	Address      string                  `json:"address,omitempty"`
	SurveyedArea string                  `json:"surveyed_area,omitempty"`
	TitleHolders []string                `json:"title_holders,omitempty"`
	Sellers      []ModelParty            `json:"sellers"`
	Buyers       []ModelParty            `json:"buyers"`
	Payment      string                  `json:"payment_method"`
	Credits      []ModelCredit           `json:"credits,omitempty"`
	Liens        []ModelLien             `json:"liens,omitempty"`
	Acts         []string                `json:"acts"`
}

// ModelParty is one party as rendered.
type ModelParty struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	TaxID         string `json:"tax_id,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	Spouse        string `json:"spouse,omitempty"`
	SpouseSigns   bool   `json:"spouse_signs,omitempty"`
}

// ModelCredit is one credit as rendered.
type ModelCredit struct {
	Institution string   `json:"institution"`
	Amount      *float64 `json:"amount,omitempty"`
	Primary     string   `json:"primary_borrower"`
	CoBorrowers []string `json:"co_borrowers,omitempty"`
}

// ModelLien is one lien to cancel.
type ModelLien struct {
	Institution string   `json:"institution"`
	Amount      *float64 `json:"amount,omitempty"`
}

// Acts named in the pre-filing notice.
const (
	ActSale             = "compraventa"
	ActMortgage         = "apertura de crédito con garantía hipotecaria"
	ActLienCancellation = "cancelación de hipoteca"
)

// Validate reports whether tx is ready for the document model. The error
// wraps domain.ErrNotReady together with either a conflict or the missing
// fields.
func Validate(tx *transaction.Context) error {
	s := stage.Derive(table, tx)
	if len(s.BlockingReasons) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotReady, s.BlockingReasons[0].Err())
	}
	if s.Ready() {
		return nil
	}
	fields := make(map[string]string, len(s.MissingFields))
	for _, f := range s.MissingFields {
		fields[f] = domain.MsgRequired
	}
	if len(fields) == 0 {
		fields[s.CurrentStage] = "stage is pending"
	}
	return fmt.Errorf("%w: stage %s: %w", domain.ErrNotReady, s.CurrentStage, &domain.ValidationError{Fields: fields})
}

// BuildDocumentModel validates tx and renders it for the external renderer.
func BuildDocumentModel(tx *transaction.Context, now time.Time) (*ports.DocumentModel, error) {
	if err := Validate(tx); err != nil {
		return nil, err
	}

	m := Model{
		Folio:        tx.Property.Folio,
		BookEntries:  tx.Property.BookEntries,
		Address:      tx.Property.Address,
		SurveyedArea: tx.Property.SurveyedArea,
		TitleHolders: tx.Property.TitleHolders,
		Sellers:      modelParties(tx.Parties.Sellers),
		Buyers:       modelParties(tx.Parties.Buyers),
		Payment:      string(tx.Payment.Method),
		Acts:         []string{ActSale},
	}
	if tx.Payment.Method.UsesCredit() {
		for _, c := range tx.Financing.Credits {
			m.Credits = append(m.Credits, modelCredit(tx, c))
		}
		m.Acts = append(m.Acts, ActMortgage)
	}
	if tx.Encumbrance.Exists.IsYes() {
		for _, l := range tx.Encumbrance.Liens {
			m.Liens = append(m.Liens, ModelLien{Institution: l.Institution, Amount: l.Amount})
		}
		m.Acts = append(m.Acts, ActLienCancellation)
	}

	return &ports.DocumentModel{
		TransactionID: tx.TransactionID,
		Type:          tx.TransactionType,
		Template:      Template,
		Data:          m,
		GeneratedAt:   now.UTC(),
	}, nil
}

func modelParties(parties []transaction.Party) []ModelParty {
	out := make([]ModelParty, 0, len(parties))
	for i := range parties {
		p := &parties[i]
		mp := ModelParty{Name: p.Name(), Kind: string(p.Kind), TaxID: p.TaxID()}
		if mp.Kind == "" {
			mp.Kind = string(transaction.KindNaturalPerson)
		}
		if p.Person != nil && p.Kind != transaction.KindLegalEntity {
			mp.MaritalStatus = string(p.Person.MaritalStatus)
			if p.Person.Spouse != nil {
				mp.Spouse = p.Person.Spouse.Name
				mp.SpouseSigns = p.Person.Spouse.Participates.IsYes()
			}
		}
		out = append(out, mp)
	}
	return out
}

func modelCredit(tx *transaction.Context, c transaction.Credit) ModelCredit {
	mc := ModelCredit{Institution: c.Institution, Amount: c.Amount}
	for _, p := range c.Participants {
		name := participantName(tx, p)
		if p.Role == transaction.RolePrimaryBorrower {
			mc.Primary = name
			continue
		}
		mc.CoBorrowers = append(mc.CoBorrowers, name)
	}
	return mc
}

func participantName(tx *transaction.Context, p transaction.Participant) string {
	if p.PartyID != "" {
		for i := range tx.Parties.Buyers {
			if tx.Parties.Buyers[i].ID == p.PartyID {
				return tx.Parties.Buyers[i].Name()
			}
		}
	}
	return p.Name
}
