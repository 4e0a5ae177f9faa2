// Package metrics computes the goodness-of-fit statistics and the Akaike
// Information Criterion used by stepwise selection.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// Statistic names, in report order.
const (
	AvgTotY          = "AVG_TOT_Y"
	StdevTotY        = "STDEV_TOT_Y"
	AvgResY          = "AVG_RES_Y"
	StdevResY        = "STDEV_RES_Y"
	Dispersion       = "DISPERSION"
	PlainR2          = "PLAIN_R2"
	AdjustedR2       = "ADJUSTED_R2"
	PlainR2NoBias    = "PLAIN_R2_NOBIAS"
	AdjustedR2NoBias = "ADJUSTED_R2_NOBIAS"
	PlainR2Vs0       = "PLAIN_R2_VS_0"
	AdjustedR2Vs0    = "ADJUSTED_R2_VS_0"
)

// Statistic is one named value of a report.
type Statistic struct {
	Name  string
	Value float64
}

// Summary holds the descriptive statistics of a fitted model.
// Values that are undefined for lack of degrees of freedom are NaN and their
// names are listed in Undefined.
type Summary struct {
	AvgTotY          float64
	StdevTotY        float64
	AvgResY          float64
	StdevResY        float64
	Dispersion       float64
	PlainR2          float64
	AdjustedR2       float64
	PlainR2NoBias    float64
	AdjustedR2NoBias float64
	PlainR2Vs0       float64
	AdjustedR2Vs0    float64

	// RSS is the residual sum of squares.
	RSS float64

	// Intercept reports whether the model had an intercept column; the
	// "_VS_0" pair is only reported without one.
	Intercept bool

	Undefined []string
}

// AIC returns 2k + n·ln(rss/n).
func AIC(rss float64, n, k int) float64 {
	return 2*float64(k) + float64(n)*math.Log(rss/float64(n))
}

// RSS returns the residual sum of squares Σr².
func RSS(residual mat.Vector) float64 {
	return mat.Dot(residual, residual)
}

// Summarize computes the fit statistics of a model with m non-intercept
// columns, given the response y and the residual y - Xβ.
//
// Degenerate denominators (n <= m_ext, n-m-1 <= 0, n <= m) yield NaN and an
// UndefinedMetricWarning through errors.Warn; the remaining statistics are
// still computed.
func Summarize(y, residual mat.Vector, m int, intercept bool) (*Summary, error) {
	n := y.Len()
	if n == 0 {
		return nil, errors.NewValueError("metrics.Summarize", "empty vector")
	}
	if residual.Len() != n {
		return nil, errors.NewDimensionError("metrics.Summarize", n, residual.Len(), 0)
	}
	if m < 0 {
		return nil, errors.NewValueError("metrics.Summarize", fmt.Sprintf("negative column count %d", m))
	}

	mExt := m
	if intercept {
		mExt++
	}
	nf := float64(n)

	yv := vecData(y)
	rv := vecData(residual)

	s := &Summary{Intercept: intercept}

	s.AvgTotY = floats.Sum(yv) / nf
	ssTot := floats.Dot(yv, yv)
	ssAvgTot := ssTot - nf*s.AvgTotY*s.AvgTotY
	varTot := s.undefinedUnless(n > 1, StdevTotY, "n <= 1", func() float64 { return ssAvgTot / (nf - 1) })
	s.StdevTotY = math.Sqrt(varTot)

	s.AvgResY = floats.Sum(rv) / nf
	s.RSS = floats.Dot(rv, rv)
	ssAvgRes := s.RSS - nf*s.AvgResY*s.AvgResY

	s.PlainR2 = 1 - s.RSS/ssAvgTot
	s.PlainR2NoBias = 1 - ssAvgRes/ssAvgTot

	cond := fmt.Sprintf("n = %d <= m_ext = %d", n, mExt)
	s.Dispersion = s.undefinedUnless(n > mExt, Dispersion, cond, func() float64 {
		return s.RSS / float64(n-mExt)
	})
	s.AdjustedR2 = s.undefinedUnless(n > mExt, AdjustedR2, cond, func() float64 {
		return 1 - s.Dispersion/varTot
	})

	degFreedom := n - m - 1
	cond = fmt.Sprintf("n - m - 1 = %d <= 0", degFreedom)
	varRes := s.undefinedUnless(degFreedom > 0, StdevResY, cond, func() float64 {
		return ssAvgRes / float64(degFreedom)
	})
	s.StdevResY = math.Sqrt(varRes)
	s.AdjustedR2NoBias = s.undefinedUnless(degFreedom > 0, AdjustedR2NoBias, cond, func() float64 {
		return 1 - varRes/varTot
	})

	s.PlainR2Vs0 = math.NaN()
	s.AdjustedR2Vs0 = math.NaN()
	if !intercept {
		s.PlainR2Vs0 = 1 - s.RSS/ssTot
		s.AdjustedR2Vs0 = s.undefinedUnless(n > m, AdjustedR2Vs0, fmt.Sprintf("n = %d <= m = %d", n, m), func() float64 {
			return 1 - (s.RSS/float64(n-m))/(ssTot/nf)
		})
	}

	return s, nil
}

// undefinedUnless evaluates fn when ok, and otherwise records name as
// undefined, raises a warning and returns NaN.
func (s *Summary) undefinedUnless(ok bool, name, condition string, fn func() float64) float64 {
	if ok {
		return fn()
	}
	s.Undefined = append(s.Undefined, name)
	errors.Warn(errors.NewUndefinedMetricWarning(name, condition, math.NaN()))
	return math.NaN()
}

// Ordered returns the statistics in report order. The "_VS_0" pair is
// omitted for models with an intercept.
func (s *Summary) Ordered() []Statistic {
	out := []Statistic{
		{AvgTotY, s.AvgTotY},
		{StdevTotY, s.StdevTotY},
		{AvgResY, s.AvgResY},
		{StdevResY, s.StdevResY},
		{Dispersion, s.Dispersion},
		{PlainR2, s.PlainR2},
		{AdjustedR2, s.AdjustedR2},
		{PlainR2NoBias, s.PlainR2NoBias},
		{AdjustedR2NoBias, s.AdjustedR2NoBias},
	}
	if !s.Intercept {
		out = append(out,
			Statistic{PlainR2Vs0, s.PlainR2Vs0},
			Statistic{AdjustedR2Vs0, s.AdjustedR2Vs0},
		)
	}
	return out
}

func vecData(v mat.Vector) []float64 {
	if vd, ok := v.(*mat.VecDense); ok && vd.RawVector().Inc == 1 {
		return vd.RawVector().Data[:vd.Len()]
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
