package facts

import (
	"strings"
	"unicode"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
)

const maxInstitutionLength = 120

// MatchInstitution finds a known lender mentioned in text and returns its
// canonical name.
func (v *Vocabulary) MatchInstitution(text string) (string, bool) {
	p, ok := findPhrase(v.instPhrases, text)
	return p.value, ok
}

// ValidateInstitution returns the canonical institution name. Known lenders
// resolve to their canonical spelling; unknown names are accepted when they
// look like an organisation name rather than a reply or a number.
func (v *Vocabulary) ValidateInstitution(field, s string) (string, error) {
	name := NormalizeName(s)
	if name == "" {
		return "", domain.NewValidationError(field, domain.MsgRequired)
	}
	if canonical, ok := v.MatchInstitution(name); ok {
		return canonical, nil
	}
	if len([]rune(name)) > maxInstitutionLength {
		return "", domain.NewValidationError(field, "is too long to be an institution")
	}
	if _, stop := v.stopwords[Fold(name)]; stop {
		return "", domain.NewValidationError(field, "is a reply, not an institution")
	}
	if v.Polarity(name, "") != 0 {
		return "", domain.NewValidationError(field, "is a reply, not an institution")
	}

	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 2 {
		return "", domain.NewValidationError(field, "is not a plausible institution")
	}
	return strings.TrimSpace(name), nil
}
