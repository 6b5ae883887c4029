// Package interpret turns a user message into commands.
//
// The Deterministic interpreter runs a prioritized list of rules without any
// model call. When it abstains, the Hybrid interpreter asks the language
// model, restricted to the operations the current stage allows. Both produce
// the same Result, so the rest of the turn does not care which one ran.
package interpret

import (
	"regexp"
	"strings"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Interpreter names reported in diagnostics.
const (
	NameDeterministic = "deterministic"
	NameHybrid        = "hybrid"
	NameNone          = "none"
)

// Input is what a rule sees.
type Input struct {
	Text       string
	LastPrompt string
	Context    *transaction.Context
	Summary    stage.Summary
	Vocab      *facts.Vocabulary
}

// Stage reports whether the current stage is one of ids.
func (in Input) Stage(ids ...string) bool {
	for _, id := range ids {
		if in.Summary.CurrentStage == id {
			return true
		}
	}
	return false
}

// Missing reports whether the current stage still needs field.
func (in Input) Missing(field string) bool {
	for _, f := range in.Summary.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

// Asked reports whether the last prompt mentions any of the cue words,
// compared accent- and case-insensitively.
func (in Input) Asked(cues ...string) bool {
	prompt := facts.Fold(in.LastPrompt)
	for _, cue := range cues {
		if strings.Contains(prompt, facts.Fold(cue)) {
			return true
		}
	}
	return false
}

// Rule is one deterministic interpretation rule. It fires only when Pattern
// matches the text and Applies (when set) holds.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Applies func(in Input) bool
	Extract func(in Input, match []string) []command.Payload
}

// Result is the outcome of interpretation.
type Result struct {
	Interpreter string
	Rule        string
	Commands    []command.Command
	Reply       string
}

// Deterministic runs rules in priority order.
type Deterministic struct {
	rules []Rule
	now   func() time.Time
}

// Option configures a Deterministic interpreter.
type Option func(*Deterministic)

// WithClock overrides the command timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Deterministic) { d.now = now }
}

// NewDeterministic creates an interpreter over rules, highest priority first.
func NewDeterministic(rules []Rule, opts ...Option) *Deterministic {
	d := &Deterministic{rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Interpret returns the commands of the first rule that fires and produces
// at least one command. It reports false when every rule abstains.
func (d *Deterministic) Interpret(in Input) (Result, bool) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Result{}, false
	}
	in.Text = text

	for _, r := range d.rules {
		match := r.Pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if r.Applies != nil && !r.Applies(in) {
			continue
		}
		payloads := r.Extract(in, match)
		if len(payloads) == 0 {
			continue
		}

		at := d.now()
		cmds := make([]command.Command, 0, len(payloads))
		for _, p := range payloads {
			cmds = append(cmds, command.New(p, transaction.SourceDeterministic, at))
		}
		return Result{Interpreter: NameDeterministic, Rule: r.Name, Commands: cmds}, true
	}
	return Result{}, false
}

// Rules returns the interpreter's rule names in priority order.
func (d *Deterministic) Rules() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.Name
	}
	return names
}
