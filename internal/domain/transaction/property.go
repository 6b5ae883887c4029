package transaction

// Property identifies the real estate being transferred.
//
// Folio is only set once a single registry folio is confirmed. While more
// than one candidate is known, the candidates sit in FolioCandidates and
// Folio stays empty until a selection command is applied.
type Property struct {
	Folio           string      `json:"folio,omitempty"`
	FolioCandidates []string    `json:"folio_candidates,omitempty"`
	BookEntries     []BookEntry `json:"book_entries,omitempty"`
	Address         string      `json:"address,omitempty"`
	SurveyedArea    string      `json:"surveyed_area,omitempty"`
	CadastralRefs   []string    `json:"cadastral_refs,omitempty"`
	TitleHolders    []string    `json:"title_holders,omitempty"`
}

// BookEntry is a registry book reference ("partida").
type BookEntry struct {
	Book    string `json:"book,omitempty"`
	Section string `json:"section,omitempty"`
	Entry   string `json:"entry"`
}

// FolioConfirmed reports whether a folio has been confirmed.
func (p *Property) FolioConfirmed() bool {
	return p.Folio != ""
}

func (p *Property) clone() Property {
	out := *p
	out.FolioCandidates = cloneStrings(p.FolioCandidates)
	out.CadastralRefs = cloneStrings(p.CadastralRefs)
	out.TitleHolders = cloneStrings(p.TitleHolders)
	if p.BookEntries != nil {
		out.BookEntries = append([]BookEntry(nil), p.BookEntries...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
