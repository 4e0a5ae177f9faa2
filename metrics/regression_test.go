package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &got
}

func TestAIC(t *testing.T) {
	tests := []struct {
		name string
		rss  float64
		n, k int
		want float64
	}{
		{"no predictors", 39, 4, 0, 4 * math.Log(39.0/4)},
		{"one predictor", 0.5, 4, 1, 2 + 4*math.Log(0.5/4)},
		{"perfect fit", 0, 4, 2, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AIC(tt.rss, tt.n, tt.k)
			if math.IsInf(tt.want, -1) {
				assert.True(t, math.IsInf(got, -1))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSummarize_NoIntercept(t *testing.T) {
	captureWarnings(t)

	// y = [1,2,3,5] regressed on x = [1,2,3,4] without intercept
	beta := 34.0 / 30.0
	x := []float64{1, 2, 3, 4}
	yv := []float64{1, 2, 3, 5}
	res := make([]float64, 4)
	for i := range res {
		res[i] = yv[i] - beta*x[i]
	}
	y := mat.NewVecDense(4, yv)
	r := mat.NewVecDense(4, res)

	s, err := Summarize(y, r, 1, false)
	require.NoError(t, err)

	rss := 39 - 34.0*34.0/30.0
	avgRes := (res[0] + res[1] + res[2] + res[3]) / 4
	ssAvgTot := 39 - 4*2.75*2.75
	varTot := ssAvgTot / 3
	varRes := (rss - 4*avgRes*avgRes) / 2

	assert.InDelta(t, rss, s.RSS, 1e-12)
	assert.InDelta(t, 2.75, s.AvgTotY, 1e-12)
	assert.InDelta(t, math.Sqrt(varTot), s.StdevTotY, 1e-12)
	assert.InDelta(t, avgRes, s.AvgResY, 1e-12)
	assert.InDelta(t, math.Sqrt(varRes), s.StdevResY, 1e-12)
	assert.InDelta(t, rss/3, s.Dispersion, 1e-12)
	assert.InDelta(t, 1-rss/ssAvgTot, s.PlainR2, 1e-12)
	assert.InDelta(t, 1-(rss/3)/varTot, s.AdjustedR2, 1e-12)
	assert.InDelta(t, 1-(rss-4*avgRes*avgRes)/ssAvgTot, s.PlainR2NoBias, 1e-12)
	assert.InDelta(t, 1-varRes/varTot, s.AdjustedR2NoBias, 1e-12)
	assert.InDelta(t, 1-rss/39, s.PlainR2Vs0, 1e-12)
	assert.InDelta(t, 1-(rss/3)/(39.0/4), s.AdjustedR2Vs0, 1e-12)
	assert.Empty(t, s.Undefined)

	ordered := s.Ordered()
	require.Len(t, ordered, 11)
	names := make([]string, len(ordered))
	for i, st := range ordered {
		names[i] = st.Name
	}
	assert.Equal(t, []string{
		AvgTotY, StdevTotY, AvgResY, StdevResY, Dispersion, PlainR2, AdjustedR2,
		PlainR2NoBias, AdjustedR2NoBias, PlainR2Vs0, AdjustedR2Vs0,
	}, names)
}

func TestSummarize_InterceptOmitsVsZero(t *testing.T) {
	captureWarnings(t)

	y := mat.NewVecDense(5, []float64{1, 3, 2, 5, 4})
	r := mat.NewVecDense(5, []float64{0.1, -0.2, 0.05, 0.1, -0.05})

	s, err := Summarize(y, r, 1, true)
	require.NoError(t, err)
	assert.Len(t, s.Ordered(), 9)
	assert.True(t, math.IsNaN(s.PlainR2Vs0))
}

func TestSummarize_DegenerateDegreesOfFreedom(t *testing.T) {
	warnings := captureWarnings(t)

	// n = 2, one feature plus intercept: n == m_ext
	y := mat.NewVecDense(2, []float64{1, 3})
	r := mat.NewVecDense(2, []float64{0, 0})

	s, err := Summarize(y, r, 1, true)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(s.Dispersion))
	assert.True(t, math.IsNaN(s.AdjustedR2))
	assert.True(t, math.IsNaN(s.StdevResY))
	assert.True(t, math.IsNaN(s.AdjustedR2NoBias))
	assert.InDelta(t, 1.0, s.PlainR2, 1e-12)
	assert.ElementsMatch(t, []string{Dispersion, AdjustedR2, StdevResY, AdjustedR2NoBias}, s.Undefined)
	assert.Len(t, *warnings, 4)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(&mat.VecDense{}, &mat.VecDense{}, 0, false)
	assert.Error(t, err)

	_, err = Summarize(mat.NewVecDense(3, nil), mat.NewVecDense(2, nil), 0, false)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
