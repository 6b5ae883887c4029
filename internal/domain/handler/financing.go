package handler

import (
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func (a *apply) setPaymentMethod(p command.SetPaymentMethod) error {
	method, err := a.d.vocab.ParsePaymentMethod(transaction.FieldPaymentMethod, p.Method)
	if err != nil {
		return err
	}
	a.tx.Payment.Method = method
	a.emit("payment.method_set")
	return nil
}

// credit resolves the target credit. An explicit id must exist; an empty id
// picks the first credit and creates one when there is none.
func (a *apply) credit(id string) (*transaction.Credit, error) {
	credits := a.tx.Financing.Credits
	if id != "" {
		for i := range credits {
			if credits[i].ID == id {
				return &credits[i], nil
			}
		}
		return nil, domain.NewValidationError("financing.credit_id", "does not match a registered credit")
	}
	if len(credits) > 0 {
		return &credits[0], nil
	}
	a.tx.Financing.Credits = append(credits, transaction.Credit{ID: a.d.newID()})
	a.emit(EventCreditCreated)
	return &a.tx.Financing.Credits[len(a.tx.Financing.Credits)-1], nil
}

func (a *apply) setCreditInstitution(p command.SetCreditInstitution) error {
	inst, err := a.d.vocab.ValidateInstitution(transaction.FieldCreditInstitution, p.Institution)
	if err != nil {
		return err
	}
	credit, err := a.credit(p.CreditID)
	if err != nil {
		return err
	}
	credit.Institution = inst
	a.emit("financing.institution_set")
	return nil
}

func (a *apply) setCreditAmount(p command.SetCreditAmount) error {
	if err := facts.ValidateAmount(transaction.FieldCreditAmount, p.Amount); err != nil {
		return err
	}
	if p.Amount == nil {
		return nil
	}
	credit, err := a.credit(p.CreditID)
	if err != nil {
		return err
	}
	credit.Amount = merge.Float(credit.Amount, p.Amount)
	a.emit("financing.amount_set")
	return nil
}

func (a *apply) addCreditParticipant(p command.AddCreditParticipant) error {
	if !p.Role.IsValid() {
		return domain.NewValidationError("financing.participant.role", "must be primary_borrower or co_borrower")
	}

	participant := transaction.Participant{Role: p.Role, PartyID: p.PartyID}
	switch {
	case p.PartyID != "":
		party := a.findParty(p.PartyID)
		if party == nil {
			return domain.NewValidationError("financing.participant.party_id", "does not match a registered party")
		}
		participant.Name = party.Name()
	case p.Name != "":
		name, err := a.d.vocab.ValidateName("financing.participant.name", p.Name)
		if err != nil {
			return err
		}
		participant.Name = name
		if party := a.findPartyByName(name); party != nil {
			participant.PartyID = party.ID
			participant.Name = party.Name()
		}
	default:
		return domain.NewValidationError("financing.participant", "needs a party_id or a name")
	}

	credit, err := a.credit(p.CreditID)
	if err != nil {
		return err
	}

	if i := participantIndex(credit.Participants, participant); i >= 0 {
		existing := &credit.Participants[i]
		existing.PartyID = merge.String(existing.PartyID, participant.PartyID)
		existing.Name = facts.PreferName(existing.Name, participant.Name)
		if participant.Role == transaction.RolePrimaryBorrower {
			existing.Role = participant.Role
		}
	} else {
		credit.Participants = append(credit.Participants, participant)
	}
	a.emit("financing.participant_added")

	if credit.HasPrimary() {
		return nil
	}
	buyer := a.tx.Parties.Primary(transaction.SideBuyer)
	if buyer == nil || buyer.ID == participant.PartyID {
		a.emit(EventPrimaryMissing)
		return nil
	}
	primary := transaction.Participant{
		Role:    transaction.RolePrimaryBorrower,
		PartyID: buyer.ID,
		Name:    buyer.Name(),
	}
	credit.Participants = append([]transaction.Participant{primary}, credit.Participants...)
	a.emit(EventPrimaryAutoInserted)
	return nil
}

func participantIndex(list []transaction.Participant, p transaction.Participant) int {
	for i, existing := range list {
		if p.PartyID != "" && existing.PartyID == p.PartyID {
			return i
		}
		if facts.SameName(existing.Name, p.Name) {
			return i
		}
	}
	return -1
}

func (a *apply) findParty(id string) *transaction.Party {
	for _, side := range []transaction.Side{transaction.SideBuyer, transaction.SideSeller} {
		list := a.tx.Parties.Side(side)
		for i := range list {
			if list[i].ID == id {
				return &list[i]
			}
		}
	}
	return nil
}

func (a *apply) findPartyByName(name string) *transaction.Party {
	list := a.tx.Parties.Buyers
	for i := range list {
		if facts.SameName(list[i].Name(), name) {
			return &list[i]
		}
	}
	return nil
}

func (a *apply) setEncumbranceExists(p command.SetEncumbranceExists) error {
	if !p.Exists.Known() {
		return domain.NewValidationError(transaction.FieldEncumbranceExists, "must be true or false")
	}
	a.tx.Encumbrance.Exists = p.Exists
	if p.Exists.IsNo() && len(a.tx.Encumbrance.Liens) > 0 {
		a.tx.Encumbrance.Liens = nil
		delete(a.tx.Sources, transaction.FieldLienInstitution)
		delete(a.tx.Sources, transaction.FieldLienCancellation)
		a.emit(EventLiensCleared)
	}
	a.emit("encumbrance.exists_set")
	return nil
}

// lien resolves the target lien. An explicit id must exist; an empty id
// picks the first lien and creates one when there is none.
func (a *apply) lien(id string) (*transaction.Lien, error) {
	liens := a.tx.Encumbrance.Liens
	if id != "" {
		for i := range liens {
			if liens[i].ID == id {
				return &liens[i], nil
			}
		}
		return nil, domain.NewValidationError("lien.lien_id", "does not match a registered lien")
	}
	if len(liens) > 0 {
		return &liens[0], nil
	}
	a.tx.Encumbrance.Liens = append(liens, transaction.Lien{ID: a.d.newID()})
	a.emit(EventLienCreated)
	return &a.tx.Encumbrance.Liens[len(a.tx.Encumbrance.Liens)-1], nil
}

func (a *apply) setLienDetails(p command.SetLienDetails) error {
	var inst string
	if p.Institution != "" {
		var err error
		if inst, err = a.d.vocab.ValidateInstitution(transaction.FieldLienInstitution, p.Institution); err != nil {
			return err
		}
	}
	if err := facts.ValidateAmount("lien.amount", p.Amount); err != nil {
		return err
	}
	if inst == "" && p.Amount == nil && !p.CancellationConfirmed.Known() {
		return nil
	}
	// Only the user can overturn their own answer that the property is
	// unencumbered.
	if a.tx.Encumbrance.Exists.IsNo() && (a.src == transaction.SourceDocument || a.src == transaction.SourceLLM) {
		return &domain.ConflictError{
			Code:     CodeEncumbranceDeniedLienReported,
			Field:    transaction.FieldEncumbranceExists,
			Declared: "no",
			Recorded: merge.String("lien", inst),
		}
	}

	lien, err := a.lien(p.LienID)
	if err != nil {
		return err
	}
	lien.Institution = merge.String(lien.Institution, inst)
	lien.Amount = merge.Float(lien.Amount, p.Amount)
	lien.CancellationConfirmed = merge.TriState(lien.CancellationConfirmed, p.CancellationConfirmed)

	// Details about a lien imply that one exists.
	if !a.tx.Encumbrance.Exists.IsYes() {
		a.tx.Encumbrance.Exists = transaction.Yes
		a.emit("encumbrance.exists_implied")
	}
	a.emit("lien.details_set")
	return nil
}

func (a *apply) confirmLienCancellation(p command.ConfirmLienCancellation) error {
	if !p.Confirmed.Known() {
		return domain.NewValidationError(transaction.FieldLienCancellation, "must be true or false")
	}
	if !a.tx.Encumbrance.Exists.IsYes() && len(a.tx.Encumbrance.Liens) == 0 {
		return domain.NewValidationError(transaction.FieldLienCancellation, "no lien has been declared")
	}
	lien, err := a.lien(p.LienID)
	if err != nil {
		return err
	}
	lien.CancellationConfirmed = p.Confirmed
	a.emit("lien.cancellation_set")
	return nil
}
