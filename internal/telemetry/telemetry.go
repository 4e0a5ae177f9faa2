// Package telemetry exports selection progress as Prometheus metrics.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/steplm/selection"
)

// Collector is a selection.Observer that records run metrics into its own
// registry.
type Collector struct {
	registry *prometheus.Registry

	rounds            prometheus.Counter
	candidates        *prometheus.CounterVec
	candidateDuration prometheus.Histogram
	accepted          prometheus.Counter
	bestAIC           prometheus.Gauge
	selected          prometheus.Gauge
	runs              *prometheus.CounterVec
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "steplm_rounds_total",
			Help: "Total number of selection rounds evaluated",
		}),
		candidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steplm_candidate_fits_total",
				Help: "Total number of candidate models fitted",
			},
			[]string{"round"},
		),
		candidateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "steplm_candidate_fit_duration_seconds",
			Help:    "Duration of single candidate fits",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "steplm_features_accepted_total",
			Help: "Total number of features accepted",
		}),
		bestAIC: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steplm_best_aic",
			Help: "Best AIC after the latest round",
		}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steplm_selected_features",
			Help: "Number of features in the final model",
		}),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steplm_runs_total",
				Help: "Completed selection runs by terminal state",
			},
			[]string{"state"},
		),
	}
	c.registry.MustRegister(c.rounds, c.candidates, c.candidateDuration, c.accepted, c.bestAIC, c.selected, c.runs)
	return c
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) OnRoundStart(int, int) {
	c.rounds.Inc()
}

func (c *Collector) OnCandidate(round, _ int, _ float64, elapsed time.Duration) {
	c.candidates.WithLabelValues(strconv.Itoa(round)).Inc()
	c.candidateDuration.Observe(elapsed.Seconds())
}

func (c *Collector) OnCommit(step selection.Step) {
	if step.Accepted() {
		c.accepted.Inc()
	}
	c.bestAIC.Set(step.BestAIC)
}

func (c *Collector) OnFinish(res *selection.Result) {
	c.selected.Set(float64(len(res.Selected)))
	c.bestAIC.Set(res.AIC())
	c.runs.WithLabelValues(res.State.String()).Inc()
}

// WriteTextfile writes the metrics in the Prometheus text format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

var _ selection.Observer = (*Collector)(nil)
