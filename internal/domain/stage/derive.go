package stage

import (
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Action types, in the order they are offered.
const (
	ActionClarifyConflict = "CLARIFY_CONFLICT"
	ActionAskForData      = "ASK_FOR_DATA"
	ActionResolvePeople   = "RESOLVE_DETECTED_PEOPLE"
	ActionBuildDocument   = "BUILD_DOCUMENT"
)

// Action is a legal next step.
type Action struct {
	Type  string `json:"type"`
	Stage string `json:"stage,omitempty"`
	Field string `json:"field,omitempty"`
}

// StageStatus is the evaluated status of one stage.
type StageStatus struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	Missing   []string   `json:"missing,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Blocking is a conflict attributed to the stage that reported it.
type Blocking struct {
	Stage string `json:"stage"`
	Conflict
}

// Summary is the derived state of a transaction.
type Summary struct {
	CurrentStage    string         `json:"current_stage"`
	Statuses        []StageStatus  `json:"statuses"`
	MissingFields   []string       `json:"missing_fields"`
	BlockingReasons []Blocking     `json:"blocking_reasons"`
	AllowedActions  []Action       `json:"allowed_actions"`
	AllowedCommands []command.Kind `json:"allowed_commands"`
}

// Status returns the status of the stage with the given id.
func (s Summary) Status(id string) (Status, bool) {
	for _, st := range s.Statuses {
		if st.ID == id {
			return st.Status, true
		}
	}
	return "", false
}

// Ready reports whether every stage is done and nothing blocks.
func (s Summary) Ready() bool {
	return s.CurrentStage == Ready && len(s.BlockingReasons) == 0
}

// Derive evaluates table against tx. A stage is current when it is the first
// one that is incomplete, pending, or carries a conflict. tx is only read.
func Derive(table Table, tx *transaction.Context) Summary {
	s := Summary{
		Statuses:        make([]StageStatus, 0, len(table)+1),
		MissingFields:   []string{},
		BlockingReasons: []Blocking{},
		AllowedActions:  []Action{},
	}

	current := -1
	for i, def := range table {
		st := evaluate(def, tx)
		s.Statuses = append(s.Statuses, st)
		for _, c := range st.Conflicts {
			s.BlockingReasons = append(s.BlockingReasons, Blocking{Stage: def.ID, Conflict: c})
		}
		if current < 0 && (!st.Status.Done() || len(st.Conflicts) > 0) {
			current = i
		}
	}

	if current < 0 {
		s.CurrentStage = Ready
		s.Statuses = append(s.Statuses, StageStatus{ID: Ready, Status: StatusReady})
		for _, def := range table {
			s.AllowedCommands = appendKinds(s.AllowedCommands, def.AllowedCommands)
		}
	} else {
		s.CurrentStage = table[current].ID
		s.Statuses = append(s.Statuses, StageStatus{ID: Ready, Status: StatusIncomplete})
		s.MissingFields = append(s.MissingFields, s.Statuses[current].Missing...)
		s.AllowedCommands = appendKinds(nil, table[current].AllowedCommands)
	}

	for _, b := range s.BlockingReasons {
		s.AllowedActions = append(s.AllowedActions, Action{Type: ActionClarifyConflict, Stage: b.Stage, Field: b.Field})
	}
	for _, f := range s.MissingFields {
		s.AllowedActions = append(s.AllowedActions, Action{Type: ActionAskForData, Stage: s.CurrentStage, Field: f})
	}
	if len(tx.Unresolved) > 0 {
		s.AllowedActions = append(s.AllowedActions, Action{Type: ActionResolvePeople})
	}
	if s.Ready() {
		s.AllowedActions = append(s.AllowedActions, Action{Type: ActionBuildDocument, Stage: Ready})
	}
	return s
}

func evaluate(def Definition, tx *transaction.Context) StageStatus {
	st := StageStatus{ID: def.ID}
	switch def.applicability(tx) {
	case NotApplicable:
		st.Status = StatusNotApplicable
		return st
	case Pending:
		st.Status = StatusPending
		st.Missing = MissingFields(tx, def.DependsOn...)
		return st
	}

	if def.Conflicts != nil {
		st.Conflicts = def.Conflicts(tx)
	}
	st.Missing = def.missing(tx)
	switch {
	case len(st.Missing) > 0:
		st.Status = StatusIncomplete
	case documentSourced(tx, def.RequiredFields):
		st.Status = StatusAutomatic
	default:
		st.Status = StatusCompleted
	}
	return st
}

// documentSourced reports whether every required field came from a
// document.
func documentSourced(tx *transaction.Context, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if tx.SourceOf(f) != transaction.SourceDocument {
			return false
		}
	}
	return true
}

func appendKinds(dst, src []command.Kind) []command.Kind {
	for _, k := range src {
		dup := false
		for _, existing := range dst {
			if existing == k {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, k)
		}
	}
	return dst
}
