package document

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Handler describes how one document type is extracted and what commands
// its extraction produces.
type Handler struct {
	Type Type
	// Instructions drive the first extraction pass.
	Instructions string
	// FollowUp drives the second pass, when coverage asks for one.
	FollowUp string
	commands func(ex Extracted, tx *transaction.Context, hash string) []command.Payload
}

// Commands maps an extraction to the commands it produces against tx.
// tx is only read.
func (h Handler) Commands(ex Extracted, tx *transaction.Context, hash string) []command.Payload {
	if h.commands == nil {
		return nil
	}
	return h.commands(ex, tx, hash)
}

var handlers = [typeCount]Handler{
	TypeUnknown: {
		Type:         TypeUnknown,
		Instructions: "Transcribe the document and list every person named in it.",
		commands:     peopleCommands(""),
	},
	TypeRegistry: {
		Type: TypeRegistry,
		Instructions: "Extract the registry folios, book entries, title holders, property address, surveyed area, " +
			"cadastral references, recorded liens, and a per-unit list of identifiers with their folio and area.",
		FollowUp: "Re-read every page. List each unit identifier with its own folio and surveyed area, " +
			"report how many units the document references, and transcribe the full text.",
		commands: registryCommands,
	},
	TypeIdentification: {
		Type:         TypeIdentification,
		Instructions: "Extract the holder's full name, national identifier, and tax identifier if printed.",
		commands:     peopleCommands(""),
	},
	TypeMarriageCertificate: {
		Type:         TypeMarriageCertificate,
		Instructions: "Extract both spouses' full names and the marriage regime.",
		commands:     peopleCommands("spouse"),
	},
	TypeTaxCertificate: {
		Type:         TypeTaxCertificate,
		Instructions: "Extract the taxpayer's name or company name and tax identifier.",
		commands:     peopleCommands(""),
	},
	TypeDeed: {
		Type: TypeDeed,
		Instructions: "Extract the acquiring owners, registry folio, book entries, property address, " +
			"surveyed area and cadastral references.",
		commands: registryCommands,
	},
}

// HandlerFor returns the handler for t. Out-of-range types get the unknown
// handler.
func HandlerFor(t Type) Handler {
	if t < 0 || t >= typeCount {
		return handlers[TypeUnknown]
	}
	return handlers[t]
}

func registryCommands(ex Extracted, tx *transaction.Context, hash string) []command.Payload {
	var out []command.Payload

	folios := append([]string(nil), ex.Folios...)
	for _, u := range ex.Units {
		if u.Folio != "" {
			folios = append(folios, u.Folio)
		}
	}
	if len(folios) > 0 {
		out = append(out, command.RegisterFolioCandidates{Folios: folios})
	}

	details := command.SetPropertyDetails{
		Address:       ex.Address,
		SurveyedArea:  ex.SurveyedArea,
		CadastralRefs: ex.CadastralRefs,
		BookEntries:   ex.BookEntries,
	}
	if details.Address != "" || details.SurveyedArea != "" || len(details.CadastralRefs) > 0 || len(details.BookEntries) > 0 {
		out = append(out, details)
	}

	if len(ex.TitleHolders) > 0 {
		out = append(out, command.SetTitleHolders{Names: ex.TitleHolders})
	}

	for _, l := range ex.Liens {
		if strings.TrimSpace(l.Institution) == "" {
			continue
		}
		out = append(out, command.SetLienDetails{Institution: l.Institution, Amount: l.Amount})
	}

	return append(out, peopleCommands("")(ex, tx, hash)...)
}

// peopleCommands parks every person a document names and records tax
// identifiers of people who already match a party. Nobody is promoted to a
// role from a document.
func peopleCommands(suggestedRole string) func(Extracted, *transaction.Context, string) []command.Payload {
	return func(ex Extracted, tx *transaction.Context, hash string) []command.Payload {
		var out []command.Payload
		var parked []transaction.UnresolvedPerson
		for _, p := range ex.People {
			if strings.TrimSpace(p.Name) == "" {
				continue
			}
			side, id, matched := matchParty(tx, p.Name)
			if matched {
				if p.TaxID != "" {
					out = append(out, command.SetPartyTaxID{Side: side, PartyID: id, TaxID: p.TaxID})
				}
				continue
			}
			role := p.Role
			if role == "" {
				role = suggestedRole
			}
			parked = append(parked, transaction.UnresolvedPerson{
				Name:           p.Name,
				TaxID:          p.TaxID,
				SourceDocument: hash,
				SuggestedRole:  role,
			})
		}
		if len(parked) > 0 {
			out = append(out, command.RegisterDetectedPeople{People: parked})
		}
		return out
	}
}

func matchParty(tx *transaction.Context, name string) (transaction.Side, string, bool) {
	if tx == nil {
		return "", "", false
	}
	for _, side := range []transaction.Side{transaction.SideSeller, transaction.SideBuyer} {
		for _, p := range tx.Parties.Side(side) {
			if n := p.Name(); n != "" && facts.SameName(n, name) {
				return side, p.ID, true
			}
		}
	}
	return "", "", false
}
