package report

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/linear"
	"github.com/YuminosukeSato/steplm/metrics"
	"github.com/YuminosukeSato/steplm/pkg/log"
	"github.com/YuminosukeSato/steplm/selection"
)

func fitData(t *testing.T, mode linear.InterceptMode, thr float64) (*mat.Dense, *mat.VecDense, *selection.Result) {
	t.Helper()
	rng := rand.New(rand.NewPCG(5, 9))
	n, m := 150, 5
	X := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			X.Set(i, j, rng.NormFloat64()*float64(j+1))
		}
	}
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		y.SetVec(i, 2*X.At(i, 3)-0.7*X.At(i, 1)+4+0.05*rng.NormFloat64())
	}

	sel, err := selection.NewForwardSelector(selection.WithIntercept(mode), selection.WithThreshold(thr))
	require.NoError(t, err)
	res, err := sel.Fit(context.Background(), X, y)
	require.NoError(t, err)
	return X, y, res
}

func TestReconstruct_RoundTrip(t *testing.T) {
	for _, mode := range []linear.InterceptMode{linear.NoIntercept, linear.WithIntercept, linear.WithInterceptStandardized} {
		t.Run(mode.String(), func(t *testing.T) {
			X, y, res := fitData(t, mode, 0.01)
			require.NotEmpty(t, res.Selected)

			coef, err := Reconstruct(res)
			require.NoError(t, err)

			rows, cols := coef.Values.Dims()
			wantRows := 5
			wantCols := 1
			if mode.HasIntercept() {
				wantRows++
			}
			if mode == linear.WithInterceptStandardized {
				wantCols = 2
			}
			assert.Equal(t, wantRows, rows)
			assert.Equal(t, wantCols, cols)

			for j := 1; j <= 5; j++ {
				isSelected := false
				for _, c := range res.Selected {
					isSelected = isSelected || c == j
				}
				if !isSelected {
					assert.Equal(t, 0.0, coef.Values.At(j-1, 0), "column %d", j)
				}
			}

			// X·β_orig (+ intercept) reproduces the fitted values y - residual
			pred, err := coef.Predict(X)
			require.NoError(t, err)
			var fitted mat.VecDense
			fitted.SubVec(y, res.Model.Residual)
			assert.True(t, floats.EqualApprox(pred.RawVector().Data, fitted.RawVector().Data, 1e-8))
		})
	}
}

func TestReconstruct_EmptySelection(t *testing.T) {
	tests := []struct {
		mode       linear.InterceptMode
		rows, cols int
	}{
		{linear.NoIntercept, 5, 1},
		{linear.WithIntercept, 6, 1},
		{linear.WithInterceptStandardized, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			_, y, res := fitData(t, tt.mode, 1e6)
			require.Empty(t, res.Selected)

			rep, err := Build(res)
			require.NoError(t, err)

			rows, cols := rep.Coefficients.Values.Dims()
			assert.Equal(t, tt.rows, rows)
			assert.Equal(t, tt.cols, cols)
			assert.Nil(t, rep.Statistics)
			assert.True(t, mat.Equal(mat.NewDense(1, 1, []float64{0}), rep.SelectionMatrix()))

			if tt.mode.HasIntercept() {
				mean := floats.Sum(y.RawVector().Data) / float64(y.Len())
				for j := 0; j < cols; j++ {
					assert.InDelta(t, mean, rep.Coefficients.Values.At(rows-1, j), 1e-12)
				}
			}
		})
	}
}

func TestReporter_EmitOrder(t *testing.T) {
	_, _, res := fitData(t, linear.WithIntercept, 0.01)

	sink := &MemorySink{}
	logger, _ := log.NewTestLogger(log.LevelInfo)
	rep, err := NewReporter(sink, logger).Emit(res)
	require.NoError(t, err)

	assert.Equal(t, []string{"selection", "coefficients", "statistics"}, sink.Order)
	r, _ := sink.Selection.Dims()
	assert.Equal(t, len(res.Selected), r)
	for i, c := range res.Selected {
		assert.Equal(t, float64(c), sink.Selection.At(i, 0))
	}

	// 9 statistics with an intercept, in report order
	require.Len(t, sink.Statistics, 9)
	assert.Equal(t, metrics.AvgTotY, sink.Statistics[0].Name)
	assert.Equal(t, metrics.AdjustedR2NoBias, sink.Statistics[8].Name)
	assert.Equal(t, rep.Statistics, sink.Statistics)
	assert.True(t, logger.ContainsMessage("report written"))
}

func TestReporter_EmptySelectionOmitsStatistics(t *testing.T) {
	_, _, res := fitData(t, linear.NoIntercept, 1e6)

	sink := &MemorySink{}
	_, err := NewReporter(sink, nil).Emit(res)
	require.NoError(t, err)

	assert.Equal(t, []string{"selection", "coefficients"}, sink.Order)
	assert.Equal(t, 0.0, sink.Selection.At(0, 0))
	assert.Nil(t, sink.Statistics)
}

type failingSink struct {
	MemorySink
}

func (f *failingSink) WriteCoefficients(mat.Matrix) error {
	return fmt.Errorf("disk full")
}

func TestReporter_SinkError(t *testing.T) {
	_, _, res := fitData(t, linear.WithIntercept, 0.01)

	_, err := NewReporter(&failingSink{}, nil).Emit(res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write coefficients")
	assert.Contains(t, err.Error(), "disk full")
}

func TestCoefficients_PredictDimension(t *testing.T) {
	_, _, res := fitData(t, linear.WithIntercept, 0.01)
	coef, err := Reconstruct(res)
	require.NoError(t, err)

	_, err = coef.Predict(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}
