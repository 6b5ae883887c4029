package facts

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// ParseMaritalStatus maps a value or synonym to a marital status. Canonical
// values ("married") and vocabulary synonyms ("casada") are both accepted.
func (v *Vocabulary) ParseMaritalStatus(field, s string) (transaction.MaritalStatus, error) {
	if ms := transaction.MaritalStatus(strings.ToLower(strings.TrimSpace(s))); ms.IsValid() {
		return ms, nil
	}
	if p, ok := findPhrase(v.marital, s); ok {
		return transaction.MaritalStatus(p.value), nil
	}
	if strings.TrimSpace(s) == "" {
		return "", domain.NewValidationError(field, domain.MsgRequired)
	}
	return "", domain.NewValidationError(field, "is not a known marital status")
}

// FindMaritalStatus looks for a marital status mentioned anywhere in text.
func (v *Vocabulary) FindMaritalStatus(text string) (transaction.MaritalStatus, bool) {
	p, ok := findPhrase(v.marital, text)
	return transaction.MaritalStatus(p.value), ok
}

// ParsePaymentMethod maps a value or synonym to a payment method.
func (v *Vocabulary) ParsePaymentMethod(field, s string) (transaction.PaymentMethod, error) {
	if m := transaction.PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m.IsValid() {
		return m, nil
	}
	if p, ok := findPhrase(v.payment, s); ok {
		return transaction.PaymentMethod(p.value), nil
	}
	if strings.TrimSpace(s) == "" {
		return "", domain.NewValidationError(field, domain.MsgRequired)
	}
	return "", domain.NewValidationError(field, "is not a known payment method")
}

// FindPaymentMethod looks for a payment method mentioned anywhere in text.
func (v *Vocabulary) FindPaymentMethod(text string) (transaction.PaymentMethod, bool) {
	p, ok := findPhrase(v.payment, text)
	return transaction.PaymentMethod(p.value), ok
}

// ParsePartyKind accepts the canonical kind values.
func ParsePartyKind(field, s string) (transaction.PartyKind, error) {
	k := transaction.PartyKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", domain.NewValidationError(field, "must be natural_person or legal_entity")
	}
	return k, nil
}

// InferPartyKind guesses whether a name belongs to a company. Names carrying
// a corporate marker ("S.A. DE C.V.", "SOCIEDAD") are legal entities;
// everything else is assumed to be a natural person.
func (v *Vocabulary) InferPartyKind(name string) transaction.PartyKind {
	folded := " " + Fold(name) + " "
	if strings.TrimSpace(folded) == "" {
		return transaction.KindUnknown
	}
	for _, m := range v.entityMarkers {
		if containsWords(folded, m) {
			return transaction.KindLegalEntity
		}
	}
	return transaction.KindNaturalPerson
}
