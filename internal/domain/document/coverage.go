package document

import (
	"strings"
	"unicode/utf8"
)

// Coverage reasons.
const (
	ReasonFewIdentifiers = "few_identifiers"
	ReasonLowDetail      = "low_detail_coverage"
	ReasonShortText      = "short_text"
	ReasonPartialUnits   = "partial_units"
)

// Thresholds tunes the coverage heuristic.
type Thresholds struct {
	MinDistinctIdentifiers int
	MinDetailCoverage      float64
	MinTextLength          int
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{MinDistinctIdentifiers: 2, MinDetailCoverage: 0.8, MinTextLength: 200}
}

// Decision is the outcome of judging one extraction pass.
type Decision struct {
	Identifiers    int      `json:"identifiers"`
	DetailCoverage float64  `json:"detail_coverage"`
	TextLength     int      `json:"text_length"`
	Reasons        []string `json:"reasons,omitempty"`
}

// Sufficient reports whether the pass needs no follow-up.
func (d Decision) Sufficient() bool { return len(d.Reasons) == 0 }

// Judge applies the coverage heuristic to an extraction of the given type.
// Only registry documents can require a second pass; every other type is
// sufficient once it parsed.
func Judge(t Type, ex Extracted, th Thresholds) Decision {
	d := Decision{
		Identifiers:    distinctIdentifiers(ex),
		DetailCoverage: detailCoverage(ex),
		TextLength:     utf8.RuneCountInString(strings.TrimSpace(ex.Text)),
	}
	if t != TypeRegistry {
		return d
	}

	if d.Identifiers < th.MinDistinctIdentifiers {
		d.Reasons = append(d.Reasons, ReasonFewIdentifiers)
	}
	if d.DetailCoverage < th.MinDetailCoverage {
		d.Reasons = append(d.Reasons, ReasonLowDetail)
	}
	if d.TextLength < th.MinTextLength {
		d.Reasons = append(d.Reasons, ReasonShortText)
	}
	if ex.ExpectedUnits > 0 && identifiedUnits(ex) < ex.ExpectedUnits {
		d.Reasons = append(d.Reasons, ReasonPartialUnits)
	}
	return d
}

// distinctIdentifiers counts folios, book entries and unit identifiers,
// ignoring case and repeats.
func distinctIdentifiers(ex Extracted) int {
	seen := make(map[string]struct{})
	add := func(prefix, s string) {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			seen[prefix+s] = struct{}{}
		}
	}
	for _, f := range ex.Folios {
		add("f:", f)
	}
	for _, e := range ex.BookEntries {
		add("e:", e.Entry)
	}
	for _, u := range ex.Units {
		add("u:", u.Identifier)
		add("f:", u.Folio)
	}
	return len(seen)
}

// detailCoverage is the share of units that carry both a folio and a
// surveyed area. A document without units is fully covered.
func detailCoverage(ex Extracted) float64 {
	if len(ex.Units) == 0 {
		return 1
	}
	detailed := 0
	for _, u := range ex.Units {
		if strings.TrimSpace(u.Folio) != "" && strings.TrimSpace(u.SurveyedArea) != "" {
			detailed++
		}
	}
	return float64(detailed) / float64(len(ex.Units))
}

func identifiedUnits(ex Extracted) int {
	n := 0
	for _, u := range ex.Units {
		if strings.TrimSpace(u.Identifier) != "" {
			n++
		}
	}
	return n
}
