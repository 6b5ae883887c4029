// Package txtype is the closed set of transaction types the workflow
// supports. Each Type indexes a static table of implementations built at
// package initialization; there is no runtime registration.
package txtype

import (
	"fmt"
	"strings"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/app/interpret"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/preaviso"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Implementation is what a transaction type provides to the workflow.
type Implementation interface {
	Name() string
	Stages() stage.Table
	SystemPrompt() string
	RuleNames() []string
	Validate(tx *transaction.Context) error
	BuildDocumentModel(tx *transaction.Context, now time.Time) (*ports.DocumentModel, error)
	InterpretFreeText(in interpret.Input) (interpret.Result, bool)
	Prompt(s stage.Summary, tx *transaction.Context, guidance bool) string
	FallbackPrompt(s stage.Summary, tx *transaction.Context) string
}

// Type selects a transaction type.
type Type int

const (
	PropertyTransfer Type = iota
	typeCount
)

var implementations = [typeCount]Implementation{
	PropertyTransfer: preaviso.New(),
}

// Compile-time check that the pre-filing type satisfies Implementation.
var _ Implementation = (*preaviso.Preaviso)(nil)

// Parse resolves a transaction type name. The empty string selects the
// default type.
func Parse(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return PropertyTransfer, nil
	}
	for t := range typeCount {
		if implementations[t].Name() == name {
			return t, nil
		}
	}
	return 0, domain.NewValidationError("transaction_type", fmt.Sprintf("unknown transaction type %q", s))
}

// String returns the type's name.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return implementations[t].Name()
}

// Impl returns the implementation of t. It panics on a value outside the
// enum, which only a programming error can produce.
func (t Type) Impl() Implementation {
	return implementations[t]
}

// All returns every supported type in declaration order.
func All() []Type {
	out := make([]Type, 0, typeCount)
	for t := range typeCount {
		out = append(out, t)
	}
	return out
}
