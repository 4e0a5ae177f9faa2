// Package selection implements forward stepwise feature selection for linear
// regression driven by the Akaike Information Criterion.
package selection

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/core/model"
	"github.com/YuminosukeSato/steplm/core/parallel"
	"github.com/YuminosukeSato/steplm/linear"
	"github.com/YuminosukeSato/steplm/pkg/errors"
	"github.com/YuminosukeSato/steplm/pkg/log"
)

// Step records one selection round.
type Step struct {
	// Round is 1-based.
	Round int

	// AICTable holds the AIC of {selected ∪ j} at index j-1 for every
	// candidate column j. Columns selected before this round are NaN.
	AICTable []float64

	// Feature is the accepted column (1-based), or 0 if none was accepted.
	Feature int

	// BestAIC is the best AIC after the round.
	BestAIC float64
}

// Accepted reports whether the round added a feature.
func (s Step) Accepted() bool {
	return s.Feature != 0
}

// Result is the outcome of a selection run.
type Result struct {
	// Selected lists the accepted columns (1-based) in selection order.
	Selected []int

	// Model is the final refit with statistics, or the baseline model when
	// nothing was selected.
	Model *linear.FittedModel

	BaselineAIC float64
	Steps       []Step
	State       State

	Intercept linear.InterceptMode
	NFeatures int
	NSamples  int
}

// AIC returns the AIC of the final model.
func (r *Result) AIC() float64 {
	return r.Model.AIC
}

// ForwardSelector は AIC に基づく前進ステップワイズ変数選択を行う
type ForwardSelector struct {
	model.BaseEstimator

	intercept linear.InterceptMode
	threshold float64
	strategy  Strategy
	workers   int
	logger    log.Logger
	observers observers

	mu     sync.RWMutex
	state  State
	result *Result
}

// NewForwardSelector は新しいForwardSelectorを作成し、設定を検証する
//
// 使用例:
//
//	sel, err := selection.NewForwardSelector(
//	    selection.WithIntercept(linear.WithIntercept),
//	    selection.WithThreshold(0.01),
//	)
//	res, err := sel.Fit(ctx, X, y)
func NewForwardSelector(opts ...Option) (*ForwardSelector, error) {
	s := &ForwardSelector{
		intercept: linear.NoIntercept,
		threshold: DefaultThreshold,
		strategy:  Forward,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	s.logger = s.logger.With(log.ComponentKey, "selection", log.ModelNameKey, "ForwardSelector")

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the configuration.
func (s *ForwardSelector) Validate() error {
	if s.strategy != Forward {
		return errors.NewConfigurationError("dir", "only forward selection is supported", string(s.strategy))
	}
	if !s.intercept.Valid() {
		return errors.NewConfigurationError("icpt", "must be 0, 1 or 2", int(s.intercept))
	}
	if math.IsNaN(s.threshold) || math.IsInf(s.threshold, 0) || s.threshold < 0 {
		return errors.NewConfigurationError("thr", "must be a finite non-negative number", s.threshold)
	}
	return nil
}

// State returns the current controller state.
func (s *ForwardSelector) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ForwardSelector) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Result returns the result of the last successful Fit.
func (s *ForwardSelector) Result() (*Result, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ForwardSelector", "Result")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, nil
}

// Fit は X (n×m) と y (n) に対して前進選択を行う。
//
// 各ラウンドで未選択の全候補を並列にフィットし、ラウンド開始時の best に対して
// (best - aic) > |threshold·best| を満たす候補のうち AIC が最小のものを選ぶ。
// 同じ AIC なら列番号の小さい方を選ぶ。
// 勝者がいなければ収束、全列が選択されれば終了する。
// いずれかの候補で正規方程式が特異になった場合、実行全体が失敗する。
func (s *ForwardSelector) Fit(ctx context.Context, X mat.Matrix, y mat.Vector) (*Result, error) {
	start := time.Now()
	s.Reset()
	s.setState(Init)

	n, m := X.Dims()
	if n == 0 || m == 0 {
		return nil, errors.NewModelError("ForwardSelector.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("ForwardSelector.Fit", n, y.Len(), 0)
	}
	if err := errors.CheckMatrix("ForwardSelector.Fit", X, 0); err != nil {
		return nil, err
	}
	if err := errors.CheckVector("ForwardSelector.Fit", y, 0); err != nil {
		return nil, err
	}

	logger := s.logger.With(log.OperationKey, log.OperationFit)

	baseline, err := linear.Baseline(y, s.intercept)
	if err != nil {
		return nil, err
	}
	logger.Info("baseline computed",
		log.SamplesKey, n,
		log.FeaturesKey, m,
		log.InterceptKey, int(s.intercept),
		log.ThresholdKey, s.threshold,
		log.AICKey, baseline.AIC,
	)

	ols := linear.NewOLS(s.intercept)
	best := baseline.AIC
	selected := make([]int, 0, m)
	var steps []Step
	final := Converged

	for round := 1; len(selected) < m; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.setState(EvaluatingRound)
		candidates := unselected(m, selected)
		s.observers.OnRoundStart(round, len(candidates))

		aics, err := s.evaluate(ctx, ols, X, y, selected, candidates, round)
		if err != nil {
			logger.Error("candidate evaluation failed", err, log.RoundKey, round, log.SelectedKey, selected)
			return nil, err
		}

		s.setState(Committing)
		winner, aic := commit(candidates, aics, best, s.threshold)

		step := Step{
			Round:    round,
			AICTable: make([]float64, m),
			Feature:  winner,
			BestAIC:  best,
		}
		for j := range step.AICTable {
			step.AICTable[j] = math.NaN()
		}
		for i, c := range candidates {
			step.AICTable[c-1] = aics[i]
		}
		if winner != 0 {
			best = aic
			step.BestAIC = aic
			selected = append(selected, winner)
		}
		steps = append(steps, step)
		s.observers.OnCommit(step)

		if winner == 0 {
			logger.Info("no candidate improves AIC", log.RoundKey, round, log.AICKey, best)
			final = Converged
			break
		}
		logger.Info("feature selected",
			log.RoundKey, round,
			log.FeatureKey, winner,
			log.AICKey, aic,
			log.CandidatesKey, len(candidates),
		)
		if len(selected) == m {
			final = FullModel
		}
	}

	fitted := baseline
	if len(selected) > 0 {
		fitted, err = ols.FitSubset(X, y, selected, true)
		if err != nil {
			logger.Error("final refit failed", err, log.SelectedKey, selected)
			return nil, err
		}
	}

	res := &Result{
		Selected:    selected,
		Model:       fitted,
		BaselineAIC: baseline.AIC,
		Steps:       steps,
		State:       final,
		Intercept:   s.intercept,
		NFeatures:   m,
		NSamples:    n,
	}

	s.mu.Lock()
	s.state = final
	s.result = res
	s.mu.Unlock()
	s.SetFitted(m, n)

	logger.Info("selection finished",
		log.StateKey, final.String(),
		log.SelectedKey, selected,
		log.AICKey, fitted.AIC,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	s.observers.OnFinish(res)
	return res, nil
}

// evaluate fits selected ∪ {c} for every candidate c on the worker pool.
// aics[i] belongs to candidates[i] and is written only by task i.
func (s *ForwardSelector) evaluate(ctx context.Context, ols *linear.OLS, X mat.Matrix, y mat.Vector, selected, candidates []int, round int) ([]float64, error) {
	aics := make([]float64, len(candidates))
	debug := s.logger.Enabled(ctx, log.LevelDebug)

	err := parallel.ForEach(ctx, len(candidates), s.workers, func(_ context.Context, i int) error {
		return errors.SafeExecute("selection.evaluate", func() error {
			started := time.Now()
			subset := append(slices.Clone(selected), candidates[i])
			fm, err := ols.FitSubset(X, y, subset, false)
			if err != nil {
				return err
			}
			aics[i] = fm.AIC
			elapsed := time.Since(started)
			s.observers.OnCandidate(round, candidates[i], fm.AIC, elapsed)
			if debug {
				s.logger.Debug("candidate evaluated",
					log.OperationKey, log.OperationEvaluate,
					log.RoundKey, round,
					log.FeatureKey, candidates[i],
					log.AICKey, fm.AIC,
				)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return aics, nil
}

// commit returns the candidate with the strictly lowest AIC among those that
// improve on best, the AIC at the start of the round, by more than
// |thr·best|. Ties keep the lower column. It returns 0 and best when nothing
// qualifies.
func commit(candidates []int, aics []float64, best, thr float64) (int, float64) {
	winner, minAIC := 0, best
	for i, c := range candidates {
		if !(best-aics[i] > math.Abs(thr*best)) {
			continue
		}
		if winner == 0 || aics[i] < minAIC {
			winner, minAIC = c, aics[i]
		}
	}
	return winner, minAIC
}

// unselected returns the 1-based columns not in selected, ascending.
func unselected(m int, selected []int) []int {
	out := make([]int, 0, m-len(selected))
	for j := 1; j <= m; j++ {
		if !slices.Contains(selected, j) {
			out = append(out, j)
		}
	}
	return out
}
