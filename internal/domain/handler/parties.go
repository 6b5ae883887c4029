package handler

import (
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func fieldFor(side transaction.Side, name string) string {
	return string(side) + "." + name
}

// party resolves the target party of a side. An explicit id must exist. An
// empty id picks the party whose name matches hint, then the primary party,
// and creates a primary party when the side is empty and create is set.
func (a *apply) party(side transaction.Side, id, hint string, create bool) (*transaction.Party, error) {
	list := a.tx.Parties.Side(side)
	if id != "" {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
		return nil, domain.NewValidationError(fieldFor(side, "party_id"), "does not match a registered party")
	}

	if hint != "" {
		for i := range list {
			if facts.NamesOverlap(list[i].Name(), hint) {
				return &list[i], nil
			}
		}
	}
	if p := a.tx.Parties.Primary(side); p != nil {
		return p, nil
	}
	if !create {
		return nil, domain.NewValidationError(fieldFor(side, "party_id"), "no party registered yet")
	}

	list = append(list, transaction.Party{ID: a.d.newID(), Primary: true})
	a.tx.Parties.SetSide(side, list)
	a.emit(EventPartyCreated)
	return &list[len(list)-1], nil
}

func (a *apply) setPartyName(side transaction.Side, id, raw string) error {
	field := fieldFor(side, "name")
	name, err := a.d.vocab.ValidateName(field, raw)
	if err != nil {
		return err
	}

	p, err := a.party(side, id, name, true)
	if err != nil {
		return err
	}
	if side == transaction.SideBuyer && facts.SameName(p.SpouseName(), name) {
		return domain.NewValidationError(field, "matches the declared spouse of this buyer")
	}

	if p.Kind == transaction.KindUnknown {
		p.Kind = a.d.vocab.InferPartyKind(name)
		a.emit(EventKindInferred)
	}

	var kept string
	if p.Kind == transaction.KindLegalEntity {
		if p.Entity == nil {
			p.Entity = &transaction.LegalEntity{}
		}
		p.Entity.Name = facts.PreferName(p.Entity.Name, name)
		kept = p.Entity.Name
	} else {
		if p.Person == nil {
			p.Person = &transaction.NaturalPerson{}
		}
		p.Person.Name = facts.PreferName(p.Person.Name, name)
		kept = p.Person.Name
	}
	if facts.SameName(kept, name) {
		a.emit(string(side) + ".name_set")
	} else {
		a.emit(EventNameKept)
	}
	return nil
}

func (a *apply) setPartyKind(p command.SetPartyKind) error {
	side := p.Side
	if !side.IsValid() {
		return domain.NewValidationError("side", "must be seller or buyer")
	}
	kind, err := facts.ParsePartyKind(fieldFor(side, "kind"), string(p.PartyKind))
	if err != nil {
		return err
	}
	party, err := a.party(side, p.PartyID, "", true)
	if err != nil {
		return err
	}

	party.Kind = kind
	switch kind {
	case transaction.KindLegalEntity:
		if party.Entity == nil {
			party.Entity = &transaction.LegalEntity{}
		}
		if party.Person != nil {
			party.Entity.Name = merge.String(party.Person.Name, party.Entity.Name)
			party.Entity.TaxID = merge.String(party.Person.TaxID, party.Entity.TaxID)
		}
	case transaction.KindNaturalPerson:
		if party.Person == nil {
			party.Person = &transaction.NaturalPerson{}
		}
		if party.Entity != nil {
			party.Person.Name = merge.String(party.Entity.Name, party.Person.Name)
			party.Person.TaxID = merge.String(party.Entity.TaxID, party.Person.TaxID)
		}
	}
	a.emit(string(side) + ".kind_set")
	return nil
}

func (a *apply) setPartyTaxID(p command.SetPartyTaxID) error {
	side := p.Side
	if !side.IsValid() {
		return domain.NewValidationError("side", "must be seller or buyer")
	}
	field := fieldFor(side, "tax_id")
	id, shape, err := a.d.vocab.ValidateTaxID(field, p.TaxID)
	if err != nil {
		return err
	}
	party, err := a.party(side, p.PartyID, "", true)
	if err != nil {
		return err
	}

	switch {
	case party.Kind == transaction.KindUnknown:
		party.Kind = shape
		a.emit(EventKindInferred)
	case party.Kind != shape:
		return domain.NewValidationError(field, "does not match the party's kind")
	}

	if party.Kind == transaction.KindLegalEntity {
		if party.Entity == nil {
			party.Entity = &transaction.LegalEntity{}
		}
		party.Entity.TaxID = id
	} else {
		if party.Person == nil {
			party.Person = &transaction.NaturalPerson{}
		}
		party.Person.TaxID = id
	}
	a.emit(string(side) + ".tax_id_set")
	return nil
}

func (a *apply) setMaritalStatus(p command.SetMaritalStatus) error {
	side := p.Side
	if side == "" {
		side = transaction.SideBuyer
	}
	if !side.IsValid() {
		return domain.NewValidationError("side", "must be seller or buyer")
	}
	field := fieldFor(side, "marital_status")
	status, err := a.d.vocab.ParseMaritalStatus(field, p.Status)
	if err != nil {
		return err
	}
	party, err := a.party(side, p.PartyID, "", true)
	if err != nil {
		return err
	}
	if party.Kind == transaction.KindLegalEntity {
		return domain.NewValidationError(field, "does not apply to a legal entity")
	}

	if party.Kind == transaction.KindUnknown {
		party.Kind = transaction.KindNaturalPerson
	}
	if party.Person == nil {
		party.Person = &transaction.NaturalPerson{}
	}
	party.Person.MaritalStatus = status
	a.emit(field + "_set")
	return nil
}

func (a *apply) setSpouseName(partyID, raw string) error {
	name, err := a.d.vocab.ValidateName(transaction.FieldSpouseName, raw)
	if err != nil {
		return err
	}
	buyer, err := a.party(transaction.SideBuyer, partyID, "", false)
	if err != nil {
		return err
	}
	if !buyer.Married() {
		return domain.NewValidationError(transaction.FieldSpouseName, "requires a buyer declared married")
	}
	if facts.SameName(buyer.Name(), name) {
		return domain.NewValidationError(transaction.FieldSpouseName, "must differ from the buyer's own name")
	}

	if buyer.Person.Spouse == nil {
		buyer.Person.Spouse = &transaction.Spouse{}
	}
	buyer.Person.Spouse.Name = facts.PreferName(buyer.Person.Spouse.Name, name)
	a.dropUnresolved(name)
	a.emit(EventSpouseSet)
	return nil
}

func (a *apply) setSpouseParticipation(p command.SetSpouseParticipation) error {
	if !p.Participates.Known() {
		return domain.NewValidationError(transaction.FieldSpouseParticipates, "must be true or false")
	}
	buyer, err := a.party(transaction.SideBuyer, p.PartyID, "", false)
	if err != nil {
		return err
	}
	if !buyer.Married() {
		return domain.NewValidationError(transaction.FieldSpouseParticipates, "requires a buyer declared married")
	}
	if buyer.Person.Spouse == nil {
		buyer.Person.Spouse = &transaction.Spouse{}
	}
	buyer.Person.Spouse.Participates = merge.TriState(buyer.Person.Spouse.Participates, p.Participates)
	a.emit("spouse.participation_set")
	return nil
}

func (a *apply) registerDetectedPeople(p command.RegisterDetectedPeople) error {
	parked := 0
	for _, person := range p.People {
		name, err := a.d.vocab.ValidateName("people.name", person.Name)
		if err != nil {
			continue
		}
		if a.knownPerson(name) {
			continue
		}
		person.Name = name
		a.tx.Unresolved = append(a.tx.Unresolved, person)
		parked++
	}
	if parked > 0 {
		a.emit(EventPeopleParked)
	}
	return nil
}

// knownPerson reports whether name already appears as a party, a spouse or
// a parked person.
func (a *apply) knownPerson(name string) bool {
	for _, side := range []transaction.Side{transaction.SideSeller, transaction.SideBuyer} {
		for _, p := range a.tx.Parties.Side(side) {
			if facts.SameName(p.Name(), name) || facts.SameName(p.SpouseName(), name) {
				return true
			}
		}
	}
	for _, u := range a.tx.Unresolved {
		if facts.SameName(u.Name, name) {
			return true
		}
	}
	return false
}

func (a *apply) dropUnresolved(name string) {
	kept := a.tx.Unresolved[:0]
	for _, u := range a.tx.Unresolved {
		if !facts.SameName(u.Name, name) {
			kept = append(kept, u)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	a.tx.Unresolved = kept
}

func (a *apply) resolveDetectedPerson(p command.ResolveDetectedPerson) error {
	if !p.Role.IsValid() {
		return domain.NewValidationError("role", "is not a known role")
	}
	var found *transaction.UnresolvedPerson
	for i := range a.tx.Unresolved {
		if facts.SameName(a.tx.Unresolved[i].Name, p.Name) {
			person := a.tx.Unresolved[i]
			found = &person
			break
		}
	}
	if found == nil {
		return domain.NewValidationError("name", "is not a pending detected person")
	}

	var err error
	switch p.Role {
	case command.ResolveAsSeller:
		err = a.addParty(transaction.SideSeller, *found)
	case command.ResolveAsBuyer:
		err = a.addParty(transaction.SideBuyer, *found)
	case command.ResolveAsSpouse:
		err = a.setSpouseName("", found.Name)
	case command.ResolveAsCoBorrower:
		err = a.addCreditParticipant(command.AddCreditParticipant{
			Role: transaction.RoleCoBorrower,
			Name: found.Name,
		})
	case command.ResolveAsIgnored:
	}
	if err != nil {
		return err
	}
	a.dropUnresolved(found.Name)
	a.emit(EventPersonResolved)
	return nil
}

// addParty attaches a detected person to a side. The first party of a side
// becomes primary; later ones are added alongside.
func (a *apply) addParty(side transaction.Side, person transaction.UnresolvedPerson) error {
	list := a.tx.Parties.Side(side)
	for _, existing := range list {
		if facts.NamesOverlap(existing.Name(), person.Name) {
			return nil
		}
	}
	if side == transaction.SideBuyer {
		if b := a.tx.Parties.Primary(side); b != nil && facts.SameName(b.SpouseName(), person.Name) {
			return domain.NewValidationError("buyer.name", "matches the declared spouse of this buyer")
		}
	}

	party := transaction.Party{
		ID:      a.d.newID(),
		Primary: len(list) == 0,
		Kind:    a.d.vocab.InferPartyKind(person.Name),
	}
	if party.Kind == transaction.KindLegalEntity {
		party.Entity = &transaction.LegalEntity{Name: person.Name, TaxID: person.TaxID}
	} else {
		party.Person = &transaction.NaturalPerson{Name: person.Name, TaxID: person.TaxID}
	}
	a.tx.Parties.SetSide(side, append(list, party))
	a.emit(EventPartyCreated)
	return nil
}
