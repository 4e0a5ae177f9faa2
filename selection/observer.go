package selection

import "time"

// Observer receives progress events from a ForwardSelector.
//
// OnCandidate is called from worker goroutines and must be safe for
// concurrent use. The other hooks are called from the goroutine running Fit.
type Observer interface {
	// OnRoundStart is called before the candidates of a round are evaluated.
	OnRoundStart(round, candidates int)

	// OnCandidate is called once per candidate fit.
	OnCandidate(round, feature int, aic float64, elapsed time.Duration)

	// OnCommit is called after a round is decided, whether or not a feature
	// was accepted.
	OnCommit(step Step)

	// OnFinish is called once with the final result.
	OnFinish(res *Result)
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// some of the hooks.
type NopObserver struct{}

func (NopObserver) OnRoundStart(int, int)                         {}
func (NopObserver) OnCandidate(int, int, float64, time.Duration) {}
func (NopObserver) OnCommit(Step)                                 {}
func (NopObserver) OnFinish(*Result)                              {}

type observers []Observer

func (obs observers) OnRoundStart(round, candidates int) {
	for _, o := range obs {
		o.OnRoundStart(round, candidates)
	}
}

func (obs observers) OnCandidate(round, feature int, aic float64, elapsed time.Duration) {
	for _, o := range obs {
		o.OnCandidate(round, feature, aic, elapsed)
	}
}

func (obs observers) OnCommit(step Step) {
	for _, o := range obs {
		o.OnCommit(step)
	}
}

func (obs observers) OnFinish(res *Result) {
	for _, o := range obs {
		o.OnFinish(res)
	}
}
