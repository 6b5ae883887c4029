package facts

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

var (
	amountPattern = regexp.MustCompile(`(?i)\$?\s*(\d{1,3}(?:[,\s]\d{3})+|\d+)(?:\.(\d+))?\s*([A-Za-zÁÉÍÓÚáéíóú]+)?`)
	taxIDToken    = regexp.MustCompile(`\b[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}\b`)
)

// ValidateTaxID normalizes a tax identifier and reports which kind of party
// its shape belongs to.
func (v *Vocabulary) ValidateTaxID(field, s string) (string, transaction.PartyKind, error) {
	id := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	id = strings.ReplaceAll(id, "-", "")
	switch {
	case id == "":
		return "", transaction.KindUnknown, domain.NewValidationError(field, domain.MsgRequired)
	case v.taxNatural.MatchString(id):
		return id, transaction.KindNaturalPerson, nil
	case v.taxEntity.MatchString(id):
		return id, transaction.KindLegalEntity, nil
	default:
		return "", transaction.KindUnknown, domain.NewValidationError(field, "is not a valid tax identifier")
	}
}

// FindTaxID returns the first tax-identifier shaped token in text.
func (v *Vocabulary) FindTaxID(text string) (string, bool) {
	for _, tok := range taxIDToken.FindAllString(strings.ToUpper(text), -1) {
		if id, _, err := v.ValidateTaxID("tax_id", tok); err == nil {
			return id, true
		}
	}
	return "", false
}

// ParseAmount extracts the first monetary amount in text. Grouping commas
// and multiplier words ("2.5 millones", "800 mil") are understood.
func (v *Vocabulary) ParseAmount(text string) (float64, bool) {
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		digits := strings.NewReplacer(",", "", " ", "").Replace(m[1])
		if m[2] != "" {
			digits += "." + m[2]
		}
		amount, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			continue
		}
		if factor, ok := v.multipliers[Fold(m[3])]; ok && m[3] != "" {
			amount *= factor
		}
		if amount > 0 {
			return amount, true
		}
	}
	return 0, false
}

// ValidateAmount rejects non-positive amounts.
func ValidateAmount(field string, amount *float64) error {
	if amount != nil && *amount <= 0 {
		return domain.NewValidationError(field, "must be positive")
	}
	return nil
}
