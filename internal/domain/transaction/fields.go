package transaction

import (
	"sort"
	"strconv"
	"strings"
)

// Field paths name the facts that stages require. They are the keys of the
// Sources map and the entries of a stage summary's missing-field list.
const (
	FieldFolio              = "property.folio"
	FieldTitleHolders       = "property.title_holders"
	FieldSellerName         = "seller.name"
	FieldSellerKind         = "seller.kind"
	FieldPaymentMethod      = "payment.method"
	FieldBuyerName          = "buyer.name"
	FieldBuyerKind          = "buyer.kind"
	FieldBuyerMaritalStatus = "buyer.marital_status"
	FieldSpouseName         = "spouse.name"
	FieldSpouseParticipates = "spouse.participates"
	FieldCreditInstitution  = "financing.institution"
	FieldCreditAmount       = "financing.amount"
	FieldPrimaryBorrower    = "financing.primary_borrower"
	FieldEncumbranceExists  = "encumbrance.exists"
	FieldLienInstitution    = "lien.institution"
	FieldLienCancellation   = "lien.cancellation_confirmed"
)

// Fields lists every field path FieldValue understands.
var Fields = []string{
	FieldFolio,
	FieldTitleHolders,
	FieldSellerName,
	FieldSellerKind,
	FieldPaymentMethod,
	FieldBuyerName,
	FieldBuyerKind,
	FieldBuyerMaritalStatus,
	FieldSpouseName,
	FieldSpouseParticipates,
	FieldCreditInstitution,
	FieldCreditAmount,
	FieldPrimaryBorrower,
	FieldEncumbranceExists,
	FieldLienInstitution,
	FieldLienCancellation,
}

// FieldValue renders a field path as a string, or "" when the fact is not
// known. Collection fields (credits, liens) are known only when every entry
// carries the value.
func (c *Context) FieldValue(path string) string {
	switch path {
	case FieldFolio:
		return c.Property.Folio
	case FieldTitleHolders:
		return strings.Join(c.Property.TitleHolders, "; ")
	case FieldSellerName:
		return partyValue(c.Parties.Primary(SideSeller), (*Party).Name)
	case FieldSellerKind:
		return partyValue(c.Parties.Primary(SideSeller), func(p *Party) string { return string(p.Kind) })
	case FieldPaymentMethod:
		return string(c.Payment.Method)
	case FieldBuyerName:
		return partyValue(c.Parties.Primary(SideBuyer), (*Party).Name)
	case FieldBuyerKind:
		return partyValue(c.Parties.Primary(SideBuyer), func(p *Party) string { return string(p.Kind) })
	case FieldBuyerMaritalStatus:
		return partyValue(c.Parties.Primary(SideBuyer), func(p *Party) string {
			if p.Person == nil {
				return ""
			}
			return string(p.Person.MaritalStatus)
		})
	case FieldSpouseName:
		return partyValue(c.Parties.Primary(SideBuyer), (*Party).SpouseName)
	case FieldSpouseParticipates:
		return partyValue(c.Parties.Primary(SideBuyer), func(p *Party) string {
			if p.Person == nil || p.Person.Spouse == nil || !p.Person.Spouse.Participates.Known() {
				return ""
			}
			return p.Person.Spouse.Participates.String()
		})
	case FieldCreditInstitution:
		return each(c.Financing.Credits, func(cr *Credit) string { return cr.Institution })
	case FieldCreditAmount:
		return each(c.Financing.Credits, func(cr *Credit) string {
			if cr.Amount == nil {
				return ""
			}
			return formatAmount(*cr.Amount)
		})
	case FieldPrimaryBorrower:
		return each(c.Financing.Credits, func(cr *Credit) string {
			for _, p := range cr.Participants {
				if p.Role == RolePrimaryBorrower {
					if p.PartyID != "" {
						return p.PartyID
					}
					return p.Name
				}
			}
			return ""
		})
	case FieldEncumbranceExists:
		if !c.Encumbrance.Exists.Known() {
			return ""
		}
		return c.Encumbrance.Exists.String()
	case FieldLienInstitution:
		return each(c.Encumbrance.Liens, func(l *Lien) string { return l.Institution })
	case FieldLienCancellation:
		return each(c.Encumbrance.Liens, func(l *Lien) string {
			if !l.CancellationConfirmed.Known() {
				return ""
			}
			return l.CancellationConfirmed.String()
		})
	default:
		return ""
	}
}

// FieldValues renders every known field path.
func (c *Context) FieldValues() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		if v := c.FieldValue(f); v != "" {
			out[f] = v
		}
	}
	return out
}

// ChangedFields returns the sorted field paths whose value differs between
// two contexts.
func ChangedFields(before, after *Context) []string {
	var out []string
	for _, f := range Fields {
		if before.FieldValue(f) != after.FieldValue(f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func partyValue(p *Party, fn func(*Party) string) string {
	if p == nil {
		return ""
	}
	return fn(p)
}

func each[T any](items []T, fn func(*T) string) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for i := range items {
		v := fn(&items[i])
		if v == "" {
			return ""
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "; ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
