package stage

// Transition rules.
const (
	RuleInitial    = "initial"
	RuleStay       = "stay"
	RuleAdvance    = "advance"
	RuleSkip       = "skip_unfinished"
	RuleCorrection = "correction"
	RuleConflict   = "conflict_raised"
	RuleRegression = "regression"
	RuleUnknown    = "unknown_stage"
)

// Transition is the verdict on a move between two derived stages. It is
// used for diagnostics and never blocks a turn.
type Transition struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Valid bool   `json:"valid"`
	Rule  string `json:"rule"`
}

// ValidateTransition judges the move from before.CurrentStage to
// after.CurrentStage. changed lists the field paths the turn modified.
//
// Moving forward is legitimate when every stage passed over is done in
// after. Moving back is legitimate when the turn changed a required field
// of the stage it returns to, or when that stage now carries a conflict.
func ValidateTransition(table Table, before, after Summary, changed []string) Transition {
	tr := Transition{From: before.CurrentStage, To: after.CurrentStage}
	switch {
	case tr.From == "":
		tr.Valid, tr.Rule = true, RuleInitial
		return tr
	case tr.From == tr.To:
		tr.Valid, tr.Rule = true, RuleStay
		return tr
	}

	from, to := table.Index(tr.From), table.Index(tr.To)
	if from < 0 || to < 0 {
		tr.Rule = RuleUnknown
		return tr
	}

	if to > from {
		for i := from; i < to; i++ {
			if st := after.Statuses[i]; !st.Status.Done() || len(st.Conflicts) > 0 {
				tr.Rule = RuleSkip
				return tr
			}
		}
		tr.Valid, tr.Rule = true, RuleAdvance
		return tr
	}

	if len(after.Statuses[to].Conflicts) > 0 {
		tr.Valid, tr.Rule = true, RuleConflict
		return tr
	}
	def := table[to]
	for _, f := range changed {
		if contains(def.RequiredFields, f) || contains(def.DependsOn, f) {
			tr.Valid, tr.Rule = true, RuleCorrection
			return tr
		}
	}
	tr.Rule = RuleRegression
	return tr
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
