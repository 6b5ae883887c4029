package preaviso

import (
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/app/interpret"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Name is the transaction type stored on pre-filing contexts.
const Name = "property_transfer"

// Preaviso bundles the pre-filing stage table, rules and prompts.
type Preaviso struct {
	det *interpret.Deterministic
}

// New creates the pre-filing transaction type.
func New(opts ...interpret.Option) *Preaviso {
	return &Preaviso{det: interpret.NewDeterministic(Rules(), opts...)}
}

// Name returns the transaction type name.
func (*Preaviso) Name() string { return Name }

// Stages returns the stage table.
func (*Preaviso) Stages() stage.Table { return table }

// SystemPrompt returns the model instructions for free-text turns.
func (*Preaviso) SystemPrompt() string { return SystemPrompt }

// RuleNames lists the deterministic rules in priority order.
func (p *Preaviso) RuleNames() []string { return p.det.Rules() }

// Validate reports whether tx is ready for the document model.
func (*Preaviso) Validate(tx *transaction.Context) error { return Validate(tx) }

// BuildDocumentModel renders a ready context.
func (*Preaviso) BuildDocumentModel(tx *transaction.Context, now time.Time) (*ports.DocumentModel, error) {
	return BuildDocumentModel(tx, now)
}

// InterpretFreeText runs the deterministic rules.
func (p *Preaviso) InterpretFreeText(in interpret.Input) (interpret.Result, bool) {
	return p.det.Interpret(in)
}

// Prompt returns the next question.
func (*Preaviso) Prompt(s stage.Summary, tx *transaction.Context, guidance bool) string {
	return Prompt(s, tx, guidance)
}

// FallbackPrompt asks again after a failed interpretation.
func (*Preaviso) FallbackPrompt(s stage.Summary, tx *transaction.Context) string {
	return FallbackPrompt(s, tx)
}
