package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/selection"
)

func TestCollector_RecordsRun(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		2, 0,
		3, 0,
		4, 1,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 5})

	c := NewCollector()
	sel, err := selection.NewForwardSelector(selection.WithObserver(c))
	require.NoError(t, err)
	res, err := sel.Fit(context.Background(), X, y)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rounds))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.candidates.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.candidates.WithLabelValues("2")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.accepted))
	assert.Equal(t, float64(len(res.Selected)), testutil.ToFloat64(c.selected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("full_model")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	c.OnRoundStart(1, 3)
	c.OnCommit(selection.Step{Round: 1, Feature: 2, BestAIC: -12.5})

	path := filepath.Join(t.TempDir(), "steplm.prom")
	require.NoError(t, c.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "steplm_rounds_total 1")
	assert.Contains(t, string(raw), "steplm_best_aic -12.5")
	assert.Contains(t, string(raw), "steplm_features_accepted_total 1")
}
