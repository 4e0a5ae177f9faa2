package selection

// State is the controller state of a selection run.
type State int

const (
	// Init computes the baseline model.
	Init State = iota
	// EvaluatingRound fits every unselected candidate.
	EvaluatingRound
	// Committing scans the round's AIC table for a winner.
	Committing
	// Converged is terminal: no candidate improved the AIC enough.
	Converged
	// FullModel is terminal: every column was selected.
	FullModel
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case EvaluatingRound:
		return "evaluating_round"
	case Committing:
		return "committing"
	case Converged:
		return "converged"
	case FullModel:
		return "full_model"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Converged || s == FullModel
}
