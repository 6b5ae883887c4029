package handler

import (
	"strings"
	"unicode"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// NormalizeFolio canonicalizes a registry folio: upper case without inner
// whitespace.
func NormalizeFolio(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func validFolio(f string) bool {
	if len(f) < 2 || len(f) > 40 {
		return false
	}
	for _, r := range f {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func (a *apply) registerFolioCandidates(p command.RegisterFolioCandidates) error {
	var found []string
	for _, f := range p.Folios {
		if f = NormalizeFolio(f); validFolio(f) {
			found = merge.Strings(found, []string{f})
		}
	}
	if len(found) == 0 {
		return nil
	}

	prop := &a.tx.Property
	if prop.FolioConfirmed() {
		if len(found) > 1 || found[0] != prop.Folio {
			a.emit(EventFolioCandidatesIgnore)
		}
		return nil
	}

	prop.FolioCandidates = merge.Strings(prop.FolioCandidates, found)
	if len(prop.FolioCandidates) == 1 {
		prop.Folio = prop.FolioCandidates[0]
		prop.FolioCandidates = nil
		a.emit(EventFolioAutoConfirmed)
		return nil
	}
	a.emit(EventFolioAmbiguous)
	return nil
}

func (a *apply) selectFolio(p command.SelectFolio) error {
	folio := NormalizeFolio(p.Folio)
	if folio == "" {
		return domain.NewValidationError(transaction.FieldFolio, domain.MsgRequired)
	}

	prop := &a.tx.Property
	if len(prop.FolioCandidates) > 0 {
		match := ""
		for _, c := range prop.FolioCandidates {
			if c == folio {
				match = c
				break
			}
		}
		if match == "" {
			return domain.NewValidationError(transaction.FieldFolio, "is not one of the detected candidates")
		}
		folio = match
	} else if !validFolio(folio) {
		return domain.NewValidationError(transaction.FieldFolio, "is not a plausible registry folio")
	}

	prop.Folio = folio
	prop.FolioCandidates = nil
	a.emit(EventFolioSelected)
	return nil
}

func (a *apply) setPropertyDetails(p command.SetPropertyDetails) error {
	prop := &a.tx.Property
	before := *prop

	prop.Address = merge.String(prop.Address, strings.TrimSpace(p.Address))
	prop.SurveyedArea = merge.String(prop.SurveyedArea, strings.TrimSpace(p.SurveyedArea))
	prop.CadastralRefs = merge.Strings(prop.CadastralRefs, p.CadastralRefs)
	for _, e := range p.BookEntries {
		if strings.TrimSpace(e.Entry) == "" {
			continue
		}
		prop.BookEntries = mergeBookEntry(prop.BookEntries, e)
	}

	if prop.Address != before.Address || prop.SurveyedArea != before.SurveyedArea ||
		len(prop.CadastralRefs) != len(before.CadastralRefs) || len(prop.BookEntries) != len(before.BookEntries) {
		a.emit("property.details_set")
	}
	return nil
}

func mergeBookEntry(list []transaction.BookEntry, e transaction.BookEntry) []transaction.BookEntry {
	for i := range list {
		if facts.Fold(list[i].Entry) == facts.Fold(e.Entry) {
			list[i].Book = merge.String(list[i].Book, e.Book)
			list[i].Section = merge.String(list[i].Section, e.Section)
			return list
		}
	}
	return append(list, e)
}

func (a *apply) setTitleHolders(p command.SetTitleHolders) error {
	var names []string
	for _, raw := range p.Names {
		if name, err := a.d.vocab.ValidateName("property.title_holders", raw); err == nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	a.tx.Property.TitleHolders = merge.Strings(a.tx.Property.TitleHolders, names)
	a.emit("property.title_holders_set")
	return nil
}
