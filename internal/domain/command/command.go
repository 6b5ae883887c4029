package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Command is an immutable mutation intent. Build one with New; the zero
// value carries no payload and is rejected by the handlers.
type Command struct {
	payload   Payload
	source    transaction.Source
	timestamp time.Time
}

// New wraps a payload.
func New(p Payload, src transaction.Source, at time.Time) Command {
	return Command{payload: p, source: src, timestamp: at.UTC()}
}

// Kind returns the payload's kind, or "" for the zero Command.
func (c Command) Kind() Kind {
	if c.payload == nil {
		return ""
	}
	return c.payload.Kind()
}

// Payload returns the command body.
func (c Command) Payload() Payload { return c.payload }

// Source returns where the command came from.
func (c Command) Source() transaction.Source { return c.source }

// Timestamp returns when the command was created.
func (c Command) Timestamp() time.Time { return c.timestamp }

type wireCommand struct {
	Kind      Kind               `json:"kind"`
	Payload   json.RawMessage    `json:"payload"`
	Source    transaction.Source `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
}

// MarshalJSON encodes the command as {kind, payload, source, timestamp}.
func (c Command) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(c.payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", c.Kind(), err)
	}
	return json.Marshal(wireCommand{
		Kind:      c.Kind(),
		Payload:   body,
		Source:    c.source,
		Timestamp: c.timestamp,
	})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (c *Command) UnmarshalJSON(data []byte) error {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p, err := Decode(w.Kind, w.Payload)
	if err != nil {
		return err
	}
	*c = Command{payload: p, source: w.Source, timestamp: w.Timestamp}
	return nil
}

// Decode builds the payload for kind from its JSON body.
func Decode(kind Kind, raw json.RawMessage) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch kind {
	case KindSetSellerName:
		p, err = decodeInto[SetSellerName](raw)
	case KindSetBuyerName:
		p, err = decodeInto[SetBuyerName](raw)
	case KindSetPartyKind:
		p, err = decodeInto[SetPartyKind](raw)
	case KindSetPartyTaxID:
		p, err = decodeInto[SetPartyTaxID](raw)
	case KindSetMaritalStatus:
		p, err = decodeInto[SetMaritalStatus](raw)
	case KindSetSpouseName:
		p, err = decodeInto[SetSpouseName](raw)
	case KindSetSpouseParticipation:
		p, err = decodeInto[SetSpouseParticipation](raw)
	case KindSetPaymentMethod:
		p, err = decodeInto[SetPaymentMethod](raw)
	case KindSetCreditInstitution:
		p, err = decodeInto[SetCreditInstitution](raw)
	case KindSetCreditAmount:
		p, err = decodeInto[SetCreditAmount](raw)
	case KindAddCreditParticipant:
		p, err = decodeInto[AddCreditParticipant](raw)
	case KindSetEncumbranceExists:
		p, err = decodeInto[SetEncumbranceExists](raw)
	case KindSetLienDetails:
		p, err = decodeInto[SetLienDetails](raw)
	case KindConfirmLienCancellation:
		p, err = decodeInto[ConfirmLienCancellation](raw)
	case KindRegisterFolioCandidates:
		p, err = decodeInto[RegisterFolioCandidates](raw)
	case KindSelectFolio:
		p, err = decodeInto[SelectFolio](raw)
	case KindSetPropertyDetails:
		p, err = decodeInto[SetPropertyDetails](raw)
	case KindSetTitleHolders:
		p, err = decodeInto[SetTitleHolders](raw)
	case KindRegisterDetectedPeople:
		p, err = decodeInto[RegisterDetectedPeople](raw)
	case KindResolveDetectedPerson:
		p, err = decodeInto[ResolveDetectedPerson](raw)
	case KindApplyContextDelta:
		p, err = decodeInto[ApplyContextDelta](raw)
	case KindRecordStageTransition:
		p, err = decodeInto[RecordStageTransition](raw)
	case KindRecordDocument:
		p, err = decodeInto[RecordDocument](raw)
	default:
		return nil, fmt.Errorf("unknown command kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return p, nil
}

func decodeInto[T Payload](raw json.RawMessage) (Payload, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
