package preaviso

import (
	"regexp"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/app/interpret"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/handler"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// maxShortReply bounds the length of a reply treated as a bare value
// (a folio, a name) rather than a sentence.
const maxShortReply = 80

var (
	reResolve    = regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:es|será|seria|sería)\s+(?:el|la|su)?\s*(vendedora?|compradora?|esposa|esposo|c[oó]nyuge|coacreditad[oa]|co-acreditad[oa]|nadie|ninguno)\s*\.?\s*$`)
	reFolioToken = regexp.MustCompile(`\b[0-9A-Z][0-9A-Z-]*[0-9][0-9A-Z-]*\b`)
	reOrdinal    = regexp.MustCompile(`(?i)\b(primer[oa]?|segund[oa]|tercer[oa]?|[uú]ltim[oa])\b`)
	reFolioSaid  = regexp.MustCompile(`(?i)folio(?:\s+real)?(?:\s+(?:es|n[uú]mero|no\.?))?\s*[:#]?\s*([0-9A-Z][0-9A-Z-]*)`)
	reTaxID      = regexp.MustCompile(`(?i)\b[A-ZÑ&]{3,4}[\s-]?[0-9]{6}[\s-]?[A-Z0-9]{3}\b`)
	reMarital    = regexp.MustCompile(`(?i)solter|casad|divorciad|viud|married|single|divorced|widow`)
	rePayment    = regexp.MustCompile(`(?i)contado|efectivo|recursos propios|cr[eé]dito|hipoteca|financiamiento|mixto|cash|credit|mortgage|loan`)
	reShortReply = regexp.MustCompile(`(?i)^\s*(s[ií]|no|yes|ok|correcto|confirmo|confirmado|claro|afirmativo|negativo|ninguno|ninguna|exacto|as[ií] es|no hay|no tiene)(?:[^\pL]|$)`)
	reAmount     = regexp.MustCompile(`(?i)\$\s*\d|\d\s*(mil|millones|mill[oó]n|mdp|k)\b|\d{1,3}(,\d{3})+`)
	reBuyerSelf  = regexp.MustCompile(`(?i)\b(el comprador|la compradora|el mismo|la misma|[eé]l mismo|ella misma|yo)\b`)
	reCoBorrower = regexp.MustCompile(`(?i)coacreditad|co-acreditad|tambi[eé]n\s+(?:su|la|el)\s+(?:esposa|esposo|c[oó]nyuge)|junto con`)
	reSellerName = regexp.MustCompile(`(?i)^\s*(?:el\s+vendedor(?:a)?\s+(?:es|se\s+llama)|la\s+vendedora\s+(?:es|se\s+llama)|vende)\s+(.+?)\s*\.?\s*$`)
	reBuyerName  = regexp.MustCompile(`(?i)^\s*(?:el\s+comprador\s+(?:es|se\s+llama)|la\s+compradora\s+(?:es|se\s+llama)|compra)\s+(.+?)(?:,\s*(.+?))?\s*\.?\s*$`)
	reSpouseName = regexp.MustCompile(`(?i)^\s*(?:(?:su|mi)\s+(?:esposa|esposo|c[oó]nyuge)\s+(?:es|se\s+llama)|(?:la\s+esposa|el\s+esposo|el\s+c[oó]nyuge)\s+(?:es|se\s+llama))\s+(.+?)\s*\.?\s*$`)
	reBareName   = regexp.MustCompile(`^\s*([\pL][\pL .,'&-]+?)\s*\.?\s*$`)
)

// Rules returns the pre-filing conversation rules, highest priority first.
func Rules() []interpret.Rule {
	return []interpret.Rule{
		{Name: "resolve_detected_person", Pattern: reResolve, Applies: hasUnresolved, Extract: resolvePerson},
		{Name: "folio_select", Pattern: regexp.MustCompile(`\S`), Applies: choosingFolio, Extract: selectCandidate},
		{Name: "folio_direct", Pattern: reFolioSaid, Applies: atStage(StageProperty), Extract: folioSaid},
		{Name: "folio_bare", Pattern: reFolioToken, Applies: bareFolio, Extract: folioBare},
		{Name: "tax_id", Pattern: reTaxID, Applies: atStage(StageSeller, StageBuyer), Extract: taxID},
		{Name: "marital_status", Pattern: reMarital, Applies: askingMarital, Extract: maritalStatus},
		{Name: "payment_method", Pattern: rePayment, Applies: atStage(StagePayment), Extract: paymentMethod},
		{Name: "encumbrance_polarity", Pattern: reShortReply, Applies: atStage(StageLien), Extract: encumbrancePolarity},
		{Name: "cancellation_polarity", Pattern: reShortReply, Applies: askingCancellation, Extract: cancellationPolarity},
		{Name: "primary_borrower_polarity", Pattern: reShortReply, Applies: askingPrimary, Extract: primaryPolarity},
		{Name: "credit_institution", Pattern: regexp.MustCompile(`\pL{2,}`), Applies: askingInstitution, Extract: creditInstitution},
		{Name: "lien_institution", Pattern: regexp.MustCompile(`\pL{2,}`), Applies: askingLienInstitution, Extract: lienInstitution},
		{Name: "credit_amount", Pattern: reAmount, Applies: atStage(StageFinancing), Extract: creditAmount},
		{Name: "primary_borrower", Pattern: reBuyerSelf, Applies: askingPrimary, Extract: primaryBorrower},
		{Name: "co_borrower", Pattern: reCoBorrower, Applies: atStage(StageFinancing), Extract: coBorrower},
		{Name: "seller_name", Pattern: reSellerName, Applies: atStage(StageSeller), Extract: namedSeller},
		{Name: "buyer_name", Pattern: reBuyerName, Applies: atStage(StageBuyer), Extract: namedBuyer},
		{Name: "spouse_name", Pattern: reSpouseName, Applies: atStage(StageSpouse), Extract: namedSpouse},
		{Name: "bare_name", Pattern: reBareName, Applies: askingName, Extract: bareName},
	}
}

func atStage(ids ...string) func(interpret.Input) bool {
	return func(in interpret.Input) bool { return in.Stage(ids...) }
}

func hasUnresolved(in interpret.Input) bool {
	return len(in.Context.Unresolved) > 0
}

func resolvePerson(in interpret.Input, m []string) []command.Payload {
	var role command.ResolutionRole
	switch w := facts.Fold(m[2]); {
	case strings.HasPrefix(w, "VENDEDOR"):
		role = command.ResolveAsSeller
	case strings.HasPrefix(w, "COMPRADOR"):
		role = command.ResolveAsBuyer
	case strings.HasPrefix(w, "ESPOS"), strings.HasPrefix(w, "CONYUGE"):
		role = command.ResolveAsSpouse
	case strings.Contains(w, "ACREDITAD"):
		role = command.ResolveAsCoBorrower
	default:
		role = command.ResolveAsIgnored
	}
	for _, u := range in.Context.Unresolved {
		if facts.NamesOverlap(u.Name, m[1]) {
			return []command.Payload{command.ResolveDetectedPerson{Name: u.Name, Role: role}}
		}
	}
	return nil
}

func choosingFolio(in interpret.Input) bool {
	return in.Stage(StageProperty) && len(in.Context.Property.FolioCandidates) > 1
}

// selectCandidate picks a folio candidate named in the reply, either
// verbatim or by ordinal position.
func selectCandidate(in interpret.Input, _ []string) []command.Payload {
	candidates := in.Context.Property.FolioCandidates
	for _, tok := range reFolioToken.FindAllString(strings.ToUpper(in.Text), -1) {
		tok = handler.NormalizeFolio(tok)
		for _, c := range candidates {
			if c == tok {
				return []command.Payload{command.SelectFolio{Folio: c}}
			}
		}
	}

	m := reOrdinal.FindStringSubmatch(in.Text)
	if m == nil {
		return nil
	}
	idx := -1
	switch w := facts.Fold(m[1]); {
	case strings.HasPrefix(w, "PRIMER"):
		idx = 0
	case strings.HasPrefix(w, "SEGUND"):
		idx = 1
	case strings.HasPrefix(w, "TERCER"):
		idx = 2
	case strings.HasPrefix(w, "ULTIM"):
		idx = len(candidates) - 1
	}
	if idx < 0 || idx >= len(candidates) {
		return nil
	}
	return []command.Payload{command.SelectFolio{Folio: candidates[idx]}}
}

func folioSaid(_ interpret.Input, m []string) []command.Payload {
	if !strings.ContainsAny(m[1], "0123456789") {
		return nil
	}
	return []command.Payload{command.SelectFolio{Folio: m[1]}}
}

// bareFolio accepts a reply that is only a folio when the folio was asked.
func bareFolio(in interpret.Input) bool {
	return in.Stage(StageProperty) && in.Missing(transaction.FieldFolio) &&
		len(in.Text) <= 40 && len(strings.Fields(in.Text)) == 1
}

func folioBare(_ interpret.Input, m []string) []command.Payload {
	return []command.Payload{command.SelectFolio{Folio: m[0]}}
}

func taxID(in interpret.Input, m []string) []command.Payload {
	id, _, err := in.Vocab.ValidateTaxID("tax_id", m[0])
	if err != nil {
		return nil
	}
	side := transaction.SideBuyer
	if in.Stage(StageSeller) {
		side = transaction.SideSeller
	}
	return []command.Payload{command.SetPartyTaxID{Side: side, TaxID: id}}
}

// askingMarital holds once the buyer is named. A reply carrying both a name
// and a status is left to the name rules.
// askingMarital leaves spouse introductions to the spouse_name rule, since
// surnames such as Casado or Soltero match the status words.
func askingMarital(in interpret.Input) bool {
	if reSpouseName.MatchString(in.Text) {
		return false
	}
	return in.Stage(StageSpouse) ||
		in.Missing(transaction.FieldBuyerMaritalStatus) && !in.Missing(transaction.FieldBuyerName)
}

func maritalStatus(in interpret.Input, _ []string) []command.Payload {
	status, ok := in.Vocab.FindMaritalStatus(in.Text)
	if !ok {
		return nil
	}
	return []command.Payload{command.SetMaritalStatus{Side: transaction.SideBuyer, Status: string(status)}}
}

func paymentMethod(in interpret.Input, _ []string) []command.Payload {
	method, ok := in.Vocab.FindPaymentMethod(in.Text)
	if !ok {
		return nil
	}
	return []command.Payload{command.SetPaymentMethod{Method: string(method)}}
}

func encumbrancePolarity(in interpret.Input, _ []string) []command.Payload {
	ts := in.Vocab.ReplyTriState(in.Text, in.LastPrompt)
	if !ts.Known() {
		return nil
	}
	return []command.Payload{command.SetEncumbranceExists{Exists: ts}}
}

func askingCancellation(in interpret.Input) bool {
	return in.Stage(StageLienCancellation) && in.Missing(transaction.FieldLienCancellation) &&
		in.Asked("cancelaci", "cancela", "cancellation")
}

func cancellationPolarity(in interpret.Input, _ []string) []command.Payload {
	ts := in.Vocab.ReplyTriState(in.Text, in.LastPrompt)
	if !ts.Known() || len(in.Context.Encumbrance.Liens) > 1 {
		return nil
	}
	return []command.Payload{command.ConfirmLienCancellation{Confirmed: ts}}
}

func askingPrimary(in interpret.Input) bool {
	return in.Stage(StageFinancing) && in.Missing(transaction.FieldPrimaryBorrower) &&
		!in.Missing(transaction.FieldCreditInstitution)
}

func primaryPolarity(in interpret.Input, _ []string) []command.Payload {
	if in.Vocab.Polarity(in.Text, in.LastPrompt) != 1 {
		return nil
	}
	return primaryBorrower(in, nil)
}

func primaryBorrower(in interpret.Input, _ []string) []command.Payload {
	buyer := in.Context.Parties.Primary(transaction.SideBuyer)
	if buyer == nil {
		return nil
	}
	return []command.Payload{command.AddCreditParticipant{Role: transaction.RolePrimaryBorrower, PartyID: buyer.ID}}
}

func coBorrower(in interpret.Input, _ []string) []command.Payload {
	buyer := in.Context.Parties.Primary(transaction.SideBuyer)
	if buyer == nil || buyer.SpouseName() == "" {
		return nil
	}
	return []command.Payload{command.AddCreditParticipant{Role: transaction.RoleCoBorrower, Name: buyer.SpouseName()}}
}

// askingInstitution holds while the financing stage still needs a lender
// and the last prompt asked for one.
func askingInstitution(in interpret.Input) bool {
	return in.Stage(StageFinancing) && in.Missing(transaction.FieldCreditInstitution) &&
		in.Asked("instituci", "banco", "crédito", "credito", "lender")
}

func creditInstitution(in interpret.Input, _ []string) []command.Payload {
	name, ok := in.Vocab.MatchInstitution(in.Text)
	if !ok {
		return nil
	}
	out := []command.Payload{command.SetCreditInstitution{Institution: name}}
	if amount, ok := in.Vocab.ParseAmount(in.Text); ok && reAmount.MatchString(in.Text) {
		out = append(out, command.SetCreditAmount{Amount: &amount})
	}
	return out
}

func askingLienInstitution(in interpret.Input) bool {
	return in.Stage(StageLienCancellation) && in.Missing(transaction.FieldLienInstitution) &&
		in.Asked("instituci", "banco", "acreedor", "lender")
}

func lienInstitution(in interpret.Input, _ []string) []command.Payload {
	name, ok := in.Vocab.MatchInstitution(in.Text)
	if !ok {
		return nil
	}
	return []command.Payload{command.SetLienDetails{Institution: name}}
}

func creditAmount(in interpret.Input, _ []string) []command.Payload {
	amount, ok := in.Vocab.ParseAmount(in.Text)
	if !ok || len(in.Context.Financing.Credits) > 1 {
		return nil
	}
	return []command.Payload{command.SetCreditAmount{Amount: &amount}}
}

func validName(in interpret.Input, field, raw string) (string, bool) {
	name, err := in.Vocab.ValidateName(field, raw)
	return name, err == nil
}

func namedSeller(in interpret.Input, m []string) []command.Payload {
	name, ok := validName(in, transaction.FieldSellerName, m[1])
	if !ok {
		return nil
	}
	return []command.Payload{command.SetSellerName{Name: name}}
}

// namedBuyer handles "el comprador es X" with an optional trailing marital
// status ("..., casado").
func namedBuyer(in interpret.Input, m []string) []command.Payload {
	name, ok := validName(in, transaction.FieldBuyerName, m[1])
	if !ok {
		return nil
	}
	out := []command.Payload{command.SetBuyerName{Name: name}}
	if m[2] != "" {
		if status, ok := in.Vocab.FindMaritalStatus(m[2]); ok {
			out = append(out, command.SetMaritalStatus{Side: transaction.SideBuyer, Status: string(status)})
		}
	}
	return out
}

func namedSpouse(in interpret.Input, m []string) []command.Payload {
	name, ok := validName(in, transaction.FieldSpouseName, m[1])
	if !ok {
		return nil
	}
	return []command.Payload{command.SetSpouseName{Name: name}}
}

// askingName holds when the current stage's first missing field is a name
// and the reply is short enough to be one.
func askingName(in interpret.Input) bool {
	if len(in.Text) > maxShortReply || len(in.Summary.MissingFields) == 0 {
		return false
	}
	switch in.Summary.MissingFields[0] {
	case transaction.FieldSellerName, transaction.FieldBuyerName, transaction.FieldSpouseName:
		return true
	default:
		return false
	}
}

// bareName takes the reply as the asked name. For the buyer a trailing
// ", casado" is read as the marital status.
func bareName(in interpret.Input, m []string) []command.Payload {
	field := in.Summary.MissingFields[0]
	raw, rest, _ := strings.Cut(m[1], ",")
	name, ok := validName(in, field, raw)
	if !ok {
		return nil
	}
	switch field {
	case transaction.FieldSellerName:
		return []command.Payload{command.SetSellerName{Name: name}}
	case transaction.FieldBuyerName:
		out := []command.Payload{command.SetBuyerName{Name: name}}
		if status, ok := in.Vocab.FindMaritalStatus(rest); ok && rest != "" {
			out = append(out, command.SetMaritalStatus{Side: transaction.SideBuyer, Status: string(status)})
		}
		return out
	default:
		return []command.Payload{command.SetSpouseName{Name: name}}
	}
}
