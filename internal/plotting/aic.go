// Package plotting renders the AIC trajectory of a selection run.
package plotting

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/steplm/pkg/errors"
	"github.com/YuminosukeSato/steplm/selection"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// AICPlot builds a chart with the best AIC per round (round 0 is the
// baseline) and every candidate AIC as a scatter. Non-finite AIC values, such
// as those of exact fits, are left out.
func AICPlot(res *selection.Result) (*plot.Plot, error) {
	if res == nil {
		return nil, errors.NewValueError("plotting.AICPlot", "nil selection result")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Forward selection (%d of %d features)", len(res.Selected), res.NFeatures)
	p.X.Label.Text = "round"
	p.Y.Label.Text = "AIC"
	p.Add(plotter.NewGrid())

	best := plotter.XYs{{X: 0, Y: res.BaselineAIC}}
	var candidates plotter.XYs
	for _, step := range res.Steps {
		if finite(step.BestAIC) {
			best = append(best, plotter.XY{X: float64(step.Round), Y: step.BestAIC})
		}
		for _, aic := range step.AICTable {
			if finite(aic) {
				candidates = append(candidates, plotter.XY{X: float64(step.Round), Y: aic})
			}
		}
	}

	if len(candidates) > 0 {
		sc, err := plotter.NewScatter(candidates)
		if err != nil {
			return nil, errors.Wrap(err, "candidate scatter")
		}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add("candidates", sc)
	}

	line, points, err := plotter.NewLinePoints(best)
	if err != nil {
		return nil, errors.Wrap(err, "best AIC line")
	}
	line.Width = vg.Points(1.5)
	p.Add(line, points)
	p.Legend.Add("best", line, points)
	p.Legend.Top = true

	return p, nil
}

// Save writes the chart to path; the image format follows the extension
// (png, svg, pdf, ...).
func Save(res *selection.Result, path string) error {
	p, err := AICPlot(res)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}

// Write renders the chart to w in the given format, e.g. "png" or "svg".
func Write(res *selection.Result, w io.Writer, format string) error {
	p, err := AICPlot(res)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, strings.TrimPrefix(strings.ToLower(format), "."))
	if err != nil {
		return errors.Wrapf(err, "plot format %s", format)
	}
	_, err = wt.WriteTo(w)
	return err
}

// FormatOf returns the image format implied by path.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
