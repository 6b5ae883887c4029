package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// protectedPaths are never writable through a free-form delta, whatever
// the caller allows.
var protectedPaths = []string{"transaction_id", "transaction_type", "stage_meta", "documents", "sources", "pending_unresolved_people"}

func (a *apply) applyContextDelta(p command.ApplyContextDelta) error {
	if len(p.AllowedPaths) == 0 {
		return domain.NewValidationError("delta.allowed_paths", domain.MsgRequired)
	}
	var allowed []string
	for _, path := range p.AllowedPaths {
		if !isProtected(path) {
			allowed = append(allowed, path)
		}
	}

	kept, dropped := merge.Restrict(p.Delta, allowed)
	if len(dropped) > 0 {
		a.emit(EventDeltaPathsDropped)
	}
	if len(kept) == 0 {
		return nil
	}

	current, err := toValue(a.tx)
	if err != nil {
		return err
	}
	merged := merge.Value(current, kept)

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encoding merged context: %w", err)
	}
	var next transaction.Context
	if err := json.Unmarshal(raw, &next); err != nil {
		return domain.NewValidationError("delta", "does not fit the context shape: "+err.Error())
	}
	if err := a.validateDelta(&next); err != nil {
		return err
	}
	if err := a.reconcileNames(&next); err != nil {
		return err
	}

	a.normalize(&next)
	*a.tx = next
	a.emit("context.delta_applied")
	return nil
}

func isProtected(path string) bool {
	for _, p := range protectedPaths {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

func toValue(tx *transaction.Context) (map[string]any, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encoding context: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding context: %w", err)
	}
	return out, nil
}

// validateDelta checks enum fields a delta may have written.
func (a *apply) validateDelta(tx *transaction.Context) error {
	fields := make(map[string]string)
	if m := tx.Payment.Method; m != "" && !m.IsValid() {
		fields[transaction.FieldPaymentMethod] = "is not a known payment method"
	}
	for _, side := range []transaction.Side{transaction.SideSeller, transaction.SideBuyer} {
		for _, p := range tx.Parties.Side(side) {
			if p.Kind != "" && !p.Kind.IsValid() {
				fields[fieldFor(side, "kind")] = "must be natural_person or legal_entity"
			}
			if p.Person != nil && p.Person.MaritalStatus != "" && !p.Person.MaritalStatus.IsValid() {
				fields[fieldFor(side, "marital_status")] = "is not a known marital status"
			}
		}
	}
	for _, c := range tx.Financing.Credits {
		for _, part := range c.Participants {
			if !part.Role.IsValid() {
				fields["financing.participant.role"] = "must be primary_borrower or co_borrower"
			}
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// reconcileNames holds names a delta wrote to the rules the name commands
// enforce. A changed name must pass validation and never replaces a more
// complete spelling, and a buyer cannot carry their own spouse's name.
func (a *apply) reconcileNames(next *transaction.Context) error {
	for _, side := range []transaction.Side{transaction.SideSeller, transaction.SideBuyer} {
		list := next.Parties.Side(side)
		for i := range list {
			p := &list[i]
			prev := partyByID(a.tx.Parties.Side(side), p.ID)
			if err := a.reconcileParty(side, prev, p); err != nil {
				return err
			}
		}
	}

	buyers := next.Parties.Side(transaction.SideBuyer)
	for i := range buyers {
		for j := range buyers {
			if facts.SameName(buyers[i].Name(), buyers[j].SpouseName()) {
				return domain.NewValidationError(fieldFor(transaction.SideBuyer, "name"), "matches the declared spouse of this buyer")
			}
		}
	}

	for i := range next.Financing.Credits {
		c := &next.Financing.Credits[i]
		var known []transaction.Participant
		if prev := creditByID(a.tx.Financing.Credits, c.ID); prev != nil {
			known = prev.Participants
		}
		for j := range c.Participants {
			part := &c.Participants[j]
			if part.Name == "" || participantNamed(known, part.Name) {
				continue
			}
			name, err := a.d.vocab.ValidateName("financing.participant.name", part.Name)
			if err != nil {
				return err
			}
			part.Name = name
		}
	}
	return nil
}

func (a *apply) reconcileParty(side transaction.Side, prev, p *transaction.Party) error {
	var was transaction.Party
	if prev != nil {
		was = *prev
	}
	if side == transaction.SideBuyer {
		name, spouse := p.Name(), p.SpouseName()
		if facts.SameName(name, spouse) || facts.SameName(name, was.SpouseName()) || facts.SameName(spouse, was.Name()) {
			return domain.NewValidationError(fieldFor(side, "name"), "matches the declared spouse of this buyer")
		}
	}
	var err error
	if p.Person != nil {
		var before string
		if was.Person != nil {
			before = was.Person.Name
		}
		if p.Person.Name, err = a.reconcileName(fieldFor(side, "name"), before, p.Person.Name); err != nil {
			return err
		}
	}
	if p.Entity != nil {
		var before string
		if was.Entity != nil {
			before = was.Entity.Name
		}
		if p.Entity.Name, err = a.reconcileName(fieldFor(side, "name"), before, p.Entity.Name); err != nil {
			return err
		}
	}

	spouse := p.SpouseName()
	if spouse == "" {
		return nil
	}
	before := was.SpouseName()
	if p.Person.Spouse.Name, err = a.reconcileName(transaction.FieldSpouseName, before, spouse); err != nil {
		return err
	}
	if !facts.SameName(before, spouse) && !p.Married() {
		return domain.NewValidationError(transaction.FieldSpouseName, "requires a buyer declared married")
	}
	return nil
}

// reconcileName returns the name to keep when a delta moves a field from
// prev to next.
func (a *apply) reconcileName(field, prev, next string) (string, error) {
	if next == "" {
		return prev, nil
	}
	if facts.SameName(prev, next) {
		return facts.PreferName(prev, next), nil
	}
	name, err := a.d.vocab.ValidateName(field, next)
	if err != nil {
		return "", err
	}
	return facts.PreferName(prev, name), nil
}

func partyByID(list []transaction.Party, id string) *transaction.Party {
	if id == "" {
		return nil
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func creditByID(list []transaction.Credit, id string) *transaction.Credit {
	if id == "" {
		return nil
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func participantNamed(list []transaction.Participant, name string) bool {
	for _, p := range list {
		if facts.SameName(p.Name, name) {
			return true
		}
	}
	return false
}

// normalize restores the structural rules a delta can break: every entry
// has an id, one primary per side, a denied encumbrance has no liens, and an
// ambiguous folio is not confirmed implicitly.
func (a *apply) normalize(tx *transaction.Context) {
	for _, side := range []transaction.Side{transaction.SideSeller, transaction.SideBuyer} {
		list := tx.Parties.Side(side)
		primarySeen := false
		for i := range list {
			if list[i].ID == "" {
				list[i].ID = a.d.newID()
			}
			if list[i].Kind == transaction.KindUnknown && list[i].Name() != "" {
				list[i].Kind = a.d.vocab.InferPartyKind(list[i].Name())
			}
			if list[i].Primary {
				if primarySeen {
					list[i].Primary = false
				}
				primarySeen = true
			}
		}
		if !primarySeen && len(list) > 0 {
			list[0].Primary = true
		}
	}
	for i := range tx.Financing.Credits {
		if tx.Financing.Credits[i].ID == "" {
			tx.Financing.Credits[i].ID = a.d.newID()
		}
	}
	for i := range tx.Encumbrance.Liens {
		if tx.Encumbrance.Liens[i].ID == "" {
			tx.Encumbrance.Liens[i].ID = a.d.newID()
		}
	}
	if tx.Encumbrance.Exists.IsNo() {
		tx.Encumbrance.Liens = nil
	}
	if a.tx.Property.Folio == "" && len(tx.Property.FolioCandidates) > 1 {
		tx.Property.Folio = ""
	}
}

func (a *apply) recordStageTransition(p command.RecordStageTransition) {
	meta := &a.tx.StageMeta
	if meta.ReaskCounts == nil {
		meta.ReaskCounts = make(map[string]int)
	}
	if p.From == p.To && p.To != "" {
		meta.ReaskCounts[p.To]++
	} else {
		if p.From != "" {
			meta.PreviousStage = p.From
		}
		meta.ReaskCounts[p.To] = 0
	}
	meta.CurrentStage = p.To
	at := p.At
	if at.IsZero() {
		at = a.at
	}
	meta.LastTransition = &transaction.Transition{From: p.From, To: p.To, Valid: p.Valid, Rule: p.Rule, At: at}
	a.emit(EventStageRecorded)
}

func (a *apply) recordDocument(p command.RecordDocument) error {
	rec := p.Record
	if rec.Hash == "" {
		return domain.NewValidationError("document.hash", domain.MsgRequired)
	}
	if rec.At.IsZero() {
		rec.At = a.at
	}
	if existing := a.tx.Document(rec.Hash); existing != nil {
		// A later failure never overwrites a successful extraction.
		if existing.Status == transaction.DocumentExtracted && rec.Status != transaction.DocumentExtracted {
			return nil
		}
		rec.ObjectRef = merge.String(existing.ObjectRef, rec.ObjectRef)
		*existing = rec
	} else {
		a.tx.Documents = append(a.tx.Documents, rec)
	}
	a.emit(EventDocumentRecorded)
	return nil
}
