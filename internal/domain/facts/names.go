package facts

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

const (
	minNameLength = 3
	maxNameLength = 160
	maxNameWords  = 12
)

// Fold returns the comparison key of s: accents removed, upper-cased,
// whitespace collapsed. Two spellings of the same name fold equally.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}

// NormalizeName upper-cases a name and collapses its whitespace. Accents are
// kept; use Fold for comparisons.
func NormalizeName(s string) string {
	s = strings.Trim(s, " \t\r\n.,;:\"'")
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// SameName reports whether two names refer to the same spelling.
func SameName(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	return fa != "" && fa == fb
}

// ValidateName checks that s is a plausible person or company name and
// returns it normalized. field names the offending field in the error.
func (v *Vocabulary) ValidateName(field, s string) (string, error) {
	name := NormalizeName(s)
	switch {
	case name == "":
		return "", domain.NewValidationError(field, domain.MsgRequired)
	case len([]rune(name)) < minNameLength:
		return "", domain.NewValidationError(field, "is too short to be a name")
	case len([]rune(name)) > maxNameLength:
		return "", domain.NewValidationError(field, "is too long to be a name")
	case len(strings.Fields(name)) > maxNameWords:
		return "", domain.NewValidationError(field, "has too many words to be a name")
	}

	if _, stop := v.stopwords[Fold(name)]; stop {
		return "", domain.NewValidationError(field, "is a reply, not a name")
	}

	letters := 0
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			if v.InferPartyKind(name) != transaction.KindLegalEntity {
				return "", domain.NewValidationError(field, "must not contain digits")
			}
		case r == ' ' || r == '.' || r == ',' || r == '-' || r == '\'' || r == '&':
		default:
			return "", domain.NewValidationError(field, "contains invalid characters")
		}
	}
	if letters < minNameLength {
		return "", domain.NewValidationError(field, "is too short to be a name")
	}
	return name, nil
}

// PreferName returns the more complete of two candidate spellings of the
// same person. An empty candidate never replaces an existing name. When one
// name's words are a subset of the other's, the superset wins; otherwise the
// longer string wins and ties keep the current value.
func PreferName(current, candidate string) string {
	current = NormalizeName(current)
	candidate = NormalizeName(candidate)
	switch {
	case candidate == "":
		return current
	case current == "":
		return candidate
	case SameName(current, candidate):
		return current
	}

	cw, nw := wordSet(current), wordSet(candidate)
	switch {
	case subset(cw, nw):
		return candidate
	case subset(nw, cw):
		return current
	case len([]rune(candidate)) > len([]rune(current)):
		return candidate
	default:
		return current
	}
}

// NamesOverlap reports whether two names share the same words in either
// direction, e.g. "JUAN PEREZ" and "JUAN PEREZ LOPEZ".
func NamesOverlap(a, b string) bool {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return false
	}
	return subset(wa, wb) || subset(wb, wa)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(Fold(s)) {
		out[w] = struct{}{}
	}
	return out
}

func subset(a, b map[string]struct{}) bool {
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}
