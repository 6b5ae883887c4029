// Package handler applies commands to a transaction context.
//
// Every command kind has exactly one handler, selected by an exhaustive type
// switch over the sealed command.Payload set. Handlers validate their
// payload with the facts package before touching the context, and every
// mutation follows the merge rule: a null or empty value never erases a
// confirmed one.
package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Event tags emitted by handlers. They describe what changed and are
// reported in turn diagnostics.
const (
	EventPartyCreated          = "party.created"
	EventNameKept              = "name.kept_longer"
	EventKindInferred          = "party.kind_inferred"
	EventSpouseSet             = "spouse.set"
	EventCreditCreated         = "credit.created"
	EventPrimaryAutoInserted   = "financing.primary_auto_inserted"
	EventPrimaryMissing        = "financing.primary_missing"
	EventLiensCleared          = "encumbrance.liens_cleared"
	EventLienCreated           = "lien.created"
	EventFolioAutoConfirmed    = "folio.auto_confirmed"
	EventFolioAmbiguous        = "folio.ambiguous"
	EventFolioSelected         = "folio.selected"
	EventFolioCandidatesIgnore = "folio.candidates_ignored"
	EventPeopleParked          = "people.parked"
	EventPersonResolved        = "people.resolved"
	EventDeltaPathsDropped     = "delta.paths_dropped"
	EventStageRecorded         = "stage.recorded"
	EventDocumentRecorded      = "document.recorded"
	EventNoChange              = "no_change"
)

// CodeEncumbranceDeniedLienReported marks lien details extracted after the
// user said the property carries no encumbrance.
const CodeEncumbranceDeniedLienReported = "encumbrance_denied_lien_reported"

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	vocab *facts.Vocabulary
	newID func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIDGenerator overrides how ids for new parties, credits and liens are
// minted.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

// New creates a Dispatcher over the given vocabulary.
func New(vocab *facts.Vocabulary, opts ...Option) *Dispatcher {
	d := &Dispatcher{vocab: vocab, newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Apply runs the handler for cmd against a copy of tx and returns the new
// context and the emitted event tags. tx itself is never modified. On error
// the returned context is nil.
func (d *Dispatcher) Apply(cmd command.Command, tx *transaction.Context) (*transaction.Context, []string, error) {
	if tx == nil {
		return nil, nil, fmt.Errorf("applying %s: nil context", cmd.Kind())
	}
	work := tx.Clone()
	a := &apply{d: d, tx: work, src: cmd.Source(), at: cmd.Timestamp()}

	var err error
	switch p := cmd.Payload().(type) {
	case command.SetSellerName:
		err = a.setPartyName(transaction.SideSeller, p.PartyID, p.Name)
	case command.SetBuyerName:
		err = a.setPartyName(transaction.SideBuyer, p.PartyID, p.Name)
	case command.SetPartyKind:
		err = a.setPartyKind(p)
	case command.SetPartyTaxID:
		err = a.setPartyTaxID(p)
	case command.SetMaritalStatus:
		err = a.setMaritalStatus(p)
	case command.SetSpouseName:
		err = a.setSpouseName(p.PartyID, p.Name)
	case command.SetSpouseParticipation:
		err = a.setSpouseParticipation(p)
	case command.SetPaymentMethod:
		err = a.setPaymentMethod(p)
	case command.SetCreditInstitution:
		err = a.setCreditInstitution(p)
	case command.SetCreditAmount:
		err = a.setCreditAmount(p)
	case command.AddCreditParticipant:
		err = a.addCreditParticipant(p)
	case command.SetEncumbranceExists:
		err = a.setEncumbranceExists(p)
	case command.SetLienDetails:
		err = a.setLienDetails(p)
	case command.ConfirmLienCancellation:
		err = a.confirmLienCancellation(p)
	case command.RegisterFolioCandidates:
		err = a.registerFolioCandidates(p)
	case command.SelectFolio:
		err = a.selectFolio(p)
	case command.SetPropertyDetails:
		err = a.setPropertyDetails(p)
	case command.SetTitleHolders:
		err = a.setTitleHolders(p)
	case command.RegisterDetectedPeople:
		err = a.registerDetectedPeople(p)
	case command.ResolveDetectedPerson:
		err = a.resolveDetectedPerson(p)
	case command.ApplyContextDelta:
		err = a.applyContextDelta(p)
	case command.RecordStageTransition:
		a.recordStageTransition(p)
	case command.RecordDocument:
		err = a.recordDocument(p)
	case nil:
		err = fmt.Errorf("command has no payload")
	default:
		err = fmt.Errorf("no handler for %T", p)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, field := range transaction.ChangedFields(tx, a.tx) {
		if a.tx.FieldValue(field) != "" {
			a.tx.SetSource(field, a.src)
		}
	}
	if len(a.events) == 0 {
		a.events = append(a.events, EventNoChange)
	}
	return a.tx, a.events, nil
}

// apply carries the state of one handler invocation.
type apply struct {
	d      *Dispatcher
	tx     *transaction.Context
	src    transaction.Source
	at     time.Time
	events []string
}

func (a *apply) emit(events ...string) {
	a.events = append(a.events, events...)
}
