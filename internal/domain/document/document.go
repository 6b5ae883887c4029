// Package document describes uploaded source documents: their types, the
// data extracted from them, the coverage heuristic that decides whether a
// second extraction pass is needed, and the commands each type produces.
package document

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Type is the declared kind of an uploaded document.
type Type int

const (
	TypeUnknown Type = iota
	TypeRegistry
	TypeIdentification
	TypeMarriageCertificate
	TypeTaxCertificate
	TypeDeed

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown:             "unknown",
	TypeRegistry:            "registry",
	TypeIdentification:      "identification",
	TypeMarriageCertificate: "marriage_certificate",
	TypeTaxCertificate:      "tax_certificate",
	TypeDeed:                "deed",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return typeNames[TypeUnknown]
	}
	return typeNames[t]
}

// IsValid returns true for a known, non-unknown type.
func (t Type) IsValid() bool {
	return t > TypeUnknown && t < typeCount
}

// ParseType maps a wire name to a Type. Unknown names map to TypeUnknown.
func ParseType(s string) Type {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == s {
			return Type(i)
		}
	}
	return TypeUnknown
}

// Types lists the valid document types.
func Types() []Type {
	out := make([]Type, 0, typeCount-1)
	for t := TypeUnknown + 1; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Person is someone named in a document.
type Person struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id,omitempty"`
	NationalID    string `json:"national_id,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Unit is a per-unit record of a registry document (apartment, lot).
type Unit struct {
	Identifier   string `json:"identifier"`
	Folio        string `json:"folio,omitempty"`
	SurveyedArea string `json:"surveyed_area,omitempty"`
}

// Lien is a charge recorded in a document.
type Lien struct {
	Institution string   `json:"institution"`
	Amount      *float64 `json:"amount,omitempty"`
}

// Extracted is the structured output of one or more extraction passes.
type Extracted struct {
	Folios        []string                `json:"folios,omitempty"`
	BookEntries   []transaction.BookEntry `json:"book_entries,omitempty"`
	Units         []Unit                  `json:"units,omitempty"`
	ExpectedUnits int                     `json:"expected_units,omitempty"`
	TitleHolders  []string                `json:"title_holders,omitempty"`
	People        []Person                `json:"people,omitempty"`
	Address       string                  `json:"address,omitempty"`
	SurveyedArea  string                  `json:"surveyed_area,omitempty"`
	CadastralRefs []string                `json:"cadastral_refs,omitempty"`
	Liens         []Lien                  `json:"liens,omitempty"`
	Text          string                  `json:"text,omitempty"`
}

// Merge combines two passes over the same document. Lists are unioned and
// scalar fields keep the first non-empty value, except Text which keeps the
// longer transcription.
func Merge(first, second Extracted) Extracted {
	out := first
	out.Folios = merge.Strings(first.Folios, second.Folios)
	out.TitleHolders = merge.Strings(first.TitleHolders, second.TitleHolders)
	out.CadastralRefs = merge.Strings(first.CadastralRefs, second.CadastralRefs)
	out.Address = merge.String(second.Address, first.Address)
	out.SurveyedArea = merge.String(second.SurveyedArea, first.SurveyedArea)
	if second.ExpectedUnits > out.ExpectedUnits {
		out.ExpectedUnits = second.ExpectedUnits
	}
	if len(second.Text) > len(out.Text) {
		out.Text = second.Text
	}

	out.BookEntries = append([]transaction.BookEntry(nil), first.BookEntries...)
	for _, e := range second.BookEntries {
		if !containsEntry(out.BookEntries, e) {
			out.BookEntries = append(out.BookEntries, e)
		}
	}

	out.Units = append([]Unit(nil), first.Units...)
	for _, u := range second.Units {
		if i := unitIndex(out.Units, u.Identifier); i >= 0 {
			out.Units[i].Folio = merge.String(out.Units[i].Folio, u.Folio)
			out.Units[i].SurveyedArea = merge.String(out.Units[i].SurveyedArea, u.SurveyedArea)
			continue
		}
		out.Units = append(out.Units, u)
	}

	out.People = append([]Person(nil), first.People...)
	for _, p := range second.People {
		if i := personIndex(out.People, p.Name); i >= 0 {
			out.People[i].TaxID = merge.String(out.People[i].TaxID, p.TaxID)
			out.People[i].NationalID = merge.String(out.People[i].NationalID, p.NationalID)
			out.People[i].MaritalStatus = merge.String(out.People[i].MaritalStatus, p.MaritalStatus)
			out.People[i].Role = merge.String(out.People[i].Role, p.Role)
			continue
		}
		out.People = append(out.People, p)
	}

	out.Liens = append([]Lien(nil), first.Liens...)
	for _, l := range second.Liens {
		if !containsLien(out.Liens, l) {
			out.Liens = append(out.Liens, l)
		}
	}
	return out
}

func containsEntry(list []transaction.BookEntry, e transaction.BookEntry) bool {
	for _, existing := range list {
		if strings.EqualFold(existing.Entry, e.Entry) {
			return true
		}
	}
	return false
}

func unitIndex(list []Unit, id string) int {
	for i, u := range list {
		if id != "" && strings.EqualFold(u.Identifier, id) {
			return i
		}
	}
	return -1
}

func personIndex(list []Person, name string) int {
	for i, p := range list {
		if facts.SameName(p.Name, name) {
			return i
		}
	}
	return -1
}

func containsLien(list []Lien, l Lien) bool {
	for _, existing := range list {
		if strings.EqualFold(existing.Institution, l.Institution) {
			return true
		}
	}
	return false
}
