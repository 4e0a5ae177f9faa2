// Package report turns a selection result into its three outputs: the
// selected column list, the coefficients in original column space and the
// fit statistics of the final model.
package report

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/linear"
	"github.com/YuminosukeSato/steplm/metrics"
	"github.com/YuminosukeSato/steplm/pkg/errors"
	"github.com/YuminosukeSato/steplm/pkg/log"
	"github.com/YuminosukeSato/steplm/selection"
)

// Coefficients は元の列空間に戻した係数。
// Values は m_orig 行（切片ありの場合は最後に切片行を追加）で、
// 標準化時は2列（0列目が元のスケール、1列目が標準化空間）。
// 選択されなかった列の係数は0。
type Coefficients struct {
	Values    *mat.Dense
	Intercept linear.InterceptMode
	NFeatures int
}

// Reconstruct は選択された部分集合の係数を元の列位置に配置する
func Reconstruct(res *selection.Result) (*Coefficients, error) {
	if res == nil || res.Model == nil {
		return nil, errors.NewValueError("report.Reconstruct", "nil selection result")
	}

	beta := res.Model.Beta
	betaRows, cols := beta.Dims()
	if betaRows == 0 {
		// 切片なしの空モデル
		cols = 1
	}

	k := len(res.Selected)
	want := k
	if res.Intercept.HasIntercept() {
		want++
	}
	if betaRows != want {
		return nil, errors.NewDimensionError("report.Reconstruct", want, betaRows, 0)
	}

	rows := res.NFeatures
	if res.Intercept.HasIntercept() {
		rows++
	}
	values := mat.NewDense(rows, cols, nil)
	for i, c := range res.Selected {
		if c < 1 || c > res.NFeatures {
			return nil, errors.NewValueError("report.Reconstruct", "selected column out of range")
		}
		for j := 0; j < cols; j++ {
			values.Set(c-1, j, beta.At(i, j))
		}
	}
	if res.Intercept.HasIntercept() {
		for j := 0; j < cols; j++ {
			values.Set(rows-1, j, beta.At(k, j))
		}
	}

	return &Coefficients{
		Values:    values,
		Intercept: res.Intercept,
		NFeatures: res.NFeatures,
	}, nil
}

// Predict applies the original-scale coefficients to X (n × m_orig).
func (c *Coefficients) Predict(X mat.Matrix) (*mat.VecDense, error) {
	n, m := X.Dims()
	if m != c.NFeatures {
		return nil, errors.NewDimensionError("Coefficients.Predict", c.NFeatures, m, 1)
	}

	w := c.Values.Slice(0, c.NFeatures, 0, 1)
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(X, w.(*mat.Dense).ColView(0))

	if c.Intercept.HasIntercept() {
		icpt := c.Values.At(c.NFeatures, 0)
		for i := 0; i < n; i++ {
			pred.SetVec(i, pred.AtVec(i)+icpt)
		}
	}
	return pred, nil
}

// Report is the emitted output of one run.
type Report struct {
	// Selected is the ordered list of selected columns; empty when nothing
	// was selected.
	Selected []int

	Coefficients *Coefficients

	// Statistics is nil when nothing was selected.
	Statistics []metrics.Statistic
}

// Build assembles a Report from a selection result.
func Build(res *selection.Result) (*Report, error) {
	coef, err := Reconstruct(res)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Selected:     append([]int(nil), res.Selected...),
		Coefficients: coef,
	}
	if len(res.Selected) > 0 && res.Model.Statistics != nil {
		r.Statistics = res.Model.Statistics.Ordered()
	}
	return r, nil
}

// SelectionMatrix returns the selected columns as a k×1 matrix, or the 1×1
// matrix [0] when nothing was selected.
func (r *Report) SelectionMatrix() *mat.Dense {
	if len(r.Selected) == 0 {
		return mat.NewDense(1, 1, []float64{0})
	}
	data := make([]float64, len(r.Selected))
	for i, c := range r.Selected {
		data[i] = float64(c)
	}
	return mat.NewDense(len(data), 1, data)
}

// Sink receives the outputs of a run, in order: selection, coefficients,
// statistics.
type Sink interface {
	WriteSelection(m mat.Matrix) error
	WriteCoefficients(m mat.Matrix) error
	WriteStatistics(stats []metrics.Statistic) error
}

// Reporter emits reports to a Sink.
type Reporter struct {
	sink   Sink
	logger log.Logger
}

// NewReporter creates a Reporter. A nil logger uses the process logger.
func NewReporter(sink Sink, logger log.Logger) *Reporter {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Reporter{
		sink:   sink,
		logger: logger.With(log.ComponentKey, "report", log.OperationKey, log.OperationReport),
	}
}

// Emit builds the report for res and writes it. Statistics are skipped when
// nothing was selected.
func (r *Reporter) Emit(res *selection.Result) (*Report, error) {
	rep, err := Build(res)
	if err != nil {
		return nil, err
	}

	if err := r.sink.WriteSelection(rep.SelectionMatrix()); err != nil {
		return nil, errors.Wrap(err, "write selection")
	}
	if err := r.sink.WriteCoefficients(rep.Coefficients.Values); err != nil {
		return nil, errors.Wrap(err, "write coefficients")
	}
	if rep.Statistics != nil {
		if err := r.sink.WriteStatistics(rep.Statistics); err != nil {
			return nil, errors.Wrap(err, "write statistics")
		}
	}

	r.logger.Info("report written",
		log.SelectedKey, rep.Selected,
		"report.statistics", len(rep.Statistics),
	)
	return rep, nil
}

// MemorySink keeps the emitted outputs in memory, in emission order.
type MemorySink struct {
	Selection    *mat.Dense
	Coefficients *mat.Dense
	Statistics   []metrics.Statistic
	Order        []string
}

func (s *MemorySink) WriteSelection(m mat.Matrix) error {
	s.Selection = mat.DenseCopyOf(m)
	s.Order = append(s.Order, "selection")
	return nil
}

func (s *MemorySink) WriteCoefficients(m mat.Matrix) error {
	s.Coefficients = mat.DenseCopyOf(m)
	s.Order = append(s.Order, "coefficients")
	return nil
}

func (s *MemorySink) WriteStatistics(stats []metrics.Statistic) error {
	s.Statistics = append([]metrics.Statistic(nil), stats...)
	s.Order = append(s.Order, "statistics")
	return nil
}
