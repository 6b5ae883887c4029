// Package stage derives where a transaction stands from its context.
//
// A Table is an ordered list of stage Definitions owned by a transaction
// type. Derive evaluates every definition against a context and produces a
// Summary: per-stage statuses, the current stage, the fields it still
// needs, blocking conflicts and the actions that are legal next. Derive and
// ValidateTransition are pure.
package stage

import (
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Ready is the id of the implicit final stage.
const Ready = "ready"

// Status is the completion status of one stage.
type Status string

const (
	StatusAutomatic     Status = "automatic"
	StatusIncomplete    Status = "incomplete"
	StatusCompleted     Status = "completed"
	StatusNotApplicable Status = "not_applicable"
	StatusPending       Status = "pending"
	StatusReady         Status = "ready"
)

// Done reports statuses that let the workflow move past a stage.
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusAutomatic || s == StatusNotApplicable
}

// Applicability is the answer of a stage's applicability predicate.
type Applicability int

const (
	Applicable Applicability = iota
	NotApplicable
	// Pending means applicability depends on a fact that is still unknown.
	Pending
)

// Conflict is a disagreement between two facts that blocks progress until
// the user clarifies it.
type Conflict struct {
	Code     string `json:"code"`
	Field    string `json:"field"`
	Declared string `json:"declared"`
	Recorded string `json:"recorded"`
}

// Err returns the conflict as a domain.ConflictError.
func (c Conflict) Err() error {
	return &domain.ConflictError{Code: c.Code, Field: c.Field, Declared: c.Declared, Recorded: c.Recorded}
}

// Definition declares one stage.
type Definition struct {
	ID             string
	RequiredFields []string
	// DependsOn lists the facts Applicability reads. They are reported as
	// missing while the stage is pending.
	DependsOn []string
	// Applicability decides whether the stage applies. Nil means always.
	Applicability func(tx *transaction.Context) Applicability
	// Completion returns the missing fields. Nil means every required field
	// whose value is unknown.
	Completion func(tx *transaction.Context) []string
	// Conflicts returns blocking disagreements. Nil means none.
	Conflicts       func(tx *transaction.Context) []Conflict
	AllowedCommands []command.Kind
	// DeltaPaths are the top-level context paths a model delta may write
	// while this stage is current.
	DeltaPaths []string
	// Questions maps a field path to the question that asks for it.
	Questions map[string]string
	// Example is shown with the question when the user appears stuck.
	Example string
}

// Table is an ordered stage-definition table. The Ready stage is implicit.
type Table []Definition

// Lookup returns the definition with the given id.
func (t Table) Lookup(id string) (Definition, bool) {
	for _, def := range t {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Index returns the position of id in the table, len(t) for Ready, or -1.
func (t Table) Index(id string) int {
	if id == Ready {
		return len(t)
	}
	for i, def := range t {
		if def.ID == id {
			return i
		}
	}
	return -1
}

func (d Definition) applicability(tx *transaction.Context) Applicability {
	if d.Applicability == nil {
		return Applicable
	}
	return d.Applicability(tx)
}

func (d Definition) missing(tx *transaction.Context) []string {
	if d.Completion != nil {
		return d.Completion(tx)
	}
	return MissingFields(tx, d.RequiredFields...)
}

// MissingFields returns the paths whose value is unknown, in order.
func MissingFields(tx *transaction.Context, paths ...string) []string {
	var out []string
	for _, p := range paths {
		if tx.FieldValue(p) == "" {
			out = append(out, p)
		}
	}
	return out
}
