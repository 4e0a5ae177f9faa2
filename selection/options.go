package selection

import (
	"github.com/YuminosukeSato/steplm/linear"
	"github.com/YuminosukeSato/steplm/pkg/log"
)

// Strategy は探索方向
type Strategy string

const (
	// Forward は空のモデルから1列ずつ追加する前進選択
	Forward Strategy = "forward"
)

// DefaultThreshold は AIC の相対改善量のデフォルト閾値
const DefaultThreshold = 0.01

// Option is a function that configures a ForwardSelector
type Option func(*ForwardSelector)

// WithIntercept sets the intercept mode (0, 1 or 2)
func WithIntercept(mode linear.InterceptMode) Option {
	return func(s *ForwardSelector) {
		s.intercept = mode
	}
}

// WithThreshold sets the minimum relative AIC improvement needed to accept a feature
func WithThreshold(thr float64) Option {
	return func(s *ForwardSelector) {
		s.threshold = thr
	}
}

// WithStrategy sets the search direction. Only "forward" is supported.
func WithStrategy(strategy Strategy) Option {
	return func(s *ForwardSelector) {
		s.strategy = strategy
	}
}

// WithWorkers sets the size of the candidate worker pool; <= 0 means one per CPU
func WithWorkers(n int) Option {
	return func(s *ForwardSelector) {
		s.workers = n
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(s *ForwardSelector) {
		s.logger = l
	}
}

// WithObserver registers an observer. It may be given several times.
func WithObserver(o Observer) Option {
	return func(s *ForwardSelector) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}
