package plotting

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/steplm/selection"
)

func sampleResult() *selection.Result {
	return &selection.Result{
		Selected:    []int{2, 1},
		BaselineAIC: 12,
		NFeatures:   3,
		State:       selection.Converged,
		Steps: []selection.Step{
			{Round: 1, AICTable: []float64{5, 3, 9}, Feature: 2, BestAIC: 3},
			{Round: 2, AICTable: []float64{math.Inf(-1), math.NaN(), 4}, Feature: 1, BestAIC: math.Inf(-1)},
			{Round: 3, AICTable: []float64{math.NaN(), math.NaN(), 1}, BestAIC: math.Inf(-1)},
		},
	}
}

func TestAICPlot(t *testing.T) {
	p, err := AICPlot(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "2 of 3")

	_, err = AICPlot(nil)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(sampleResult(), &buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, Write(sampleResult(), &bytes.Buffer{}, "bogus"))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aic.png")
	require.NoError(t, Save(sampleResult(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, "png", FormatOf(path))
}
