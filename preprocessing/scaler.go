package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/steplm/core/model"
	"github.com/YuminosukeSato/steplm/core/parallel"
	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// 列数がこの値以下の場合は逐次処理を使用する
const parallelColumnThreshold = 64

// ColumnScaler は各列を平均0・分散1に標準化するためのスケール(scale)と
// シフト(shift)を保持する。標準化後の列は x*scale + shift で表される。
//
// withIntercept の場合、最後の列は切片列（全て1）とみなされ、
// scale = 1, shift = 0 に固定される。シフトは切片列を通して
// 正規方程式に吸収されるため、標準化行列を実体化せずに済む。
type ColumnScaler struct {
	model.BaseEstimator

	// Mean は各列の平均値
	Mean []float64

	// Variance は各列の標本分散（分母 n-1）
	Variance []float64

	// Scale は 1/sqrt(Variance)。分散が0以下の列は1
	Scale []float64

	// Shift は -Mean*Scale
	Shift []float64

	// Unsafe は分散が0以下だった列の番号（0始まり）
	Unsafe []int

	withIntercept bool
}

// NewColumnScaler は新しいColumnScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewColumnScaler(true)
//	err := scaler.Fit(XWithIntercept)
//	A, b, err = scaler.TransformNormalEquations(A, b)
func NewColumnScaler(withIntercept bool) *ColumnScaler {
	return &ColumnScaler{withIntercept: withIntercept}
}

// Fit は各列の平均と標本分散からスケールとシフトを計算する。
// 分散が0以下の列（定数列）はゼロ除算を避けるため scale = 1 とする。
func (s *ColumnScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("ColumnScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Variance = make([]float64, c)
	s.Scale = make([]float64, c)
	s.Shift = make([]float64, c)
	s.Unsafe = s.Unsafe[:0]

	last := s.interceptColumn(c)
	unsafe := make([]bool, c)

	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			if j == last {
				s.Scale[j] = 1
				s.Shift[j] = 0
				continue
			}
			mat.Col(col, j, X)
			mean, variance := meanVariance(col)
			s.Mean[j] = mean
			s.Variance[j] = variance

			scale := 1.0
			if variance > 0 {
				scale = 1 / math.Sqrt(variance)
			} else {
				unsafe[j] = true
			}
			s.Scale[j] = scale
			s.Shift[j] = -mean * scale
		}
	})

	for j, u := range unsafe {
		if u {
			s.Unsafe = append(s.Unsafe, j)
		}
	}

	s.SetFitted(c, r)
	return nil
}

// meanVariance は平均と標本分散を返す。1行のみの場合、分散は0とする。
func meanVariance(col []float64) (mean, variance float64) {
	if len(col) < 2 {
		return stat.Mean(col, nil), 0
	}
	return stat.MeanVariance(col, nil)
}

func (s *ColumnScaler) interceptColumn(c int) int {
	if s.withIntercept {
		return c - 1
	}
	return -1
}

// Transform は学習済みのスケールとシフトで X を明示的に標準化した行列を返す
func (s *ColumnScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnScaler", "Transform")
	}
	r, c := X.Dims()
	if c != len(s.Scale) {
		return nil, errors.NewDimensionError("ColumnScaler.Transform", len(s.Scale), c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Shift[j]
	}, X)
	return result, nil
}

// TransformNormalEquations は A = XᵀX, b = Xᵀy を標準化後の X に対する
// 正規方程式 TᵀAT, Tᵀb に変換する。T = diag(Scale) + e_last·Shiftᵀ であり、
// 最後の列が切片列であることを前提とする。
func (s *ColumnScaler) TransformNormalEquations(A mat.Symmetric, b *mat.VecDense) (*mat.SymDense, *mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, nil, errors.NewNotFittedError("ColumnScaler", "TransformNormalEquations")
	}
	if !s.withIntercept {
		return nil, nil, errors.NewValueError("ColumnScaler.TransformNormalEquations", "standardization requires an intercept column")
	}
	k := A.SymmetricDim()
	if k != len(s.Scale) || b.Len() != k {
		return nil, nil, errors.NewDimensionError("ColumnScaler.TransformNormalEquations", len(s.Scale), k, 1)
	}

	// TᵀA を計算し、転置してもう一度左から Tᵀ を掛ける
	left := mat.DenseCopyOf(A)
	s.applyRows(left)
	var both mat.Dense
	both.CloneFrom(left.T())
	s.applyRows(&both)

	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, 0.5*(both.At(i, j)+both.At(j, i)))
		}
	}

	bOut := mat.NewVecDense(k, nil)
	last := k - 1
	for i := 0; i < k; i++ {
		bOut.SetVec(i, s.Scale[i]*b.AtVec(i)+s.Shift[i]*b.AtVec(last))
	}
	return out, bOut, nil
}

// applyRows は M ← diag(Scale)·M + Shift·M[last,:] をその場で計算する。
// 最後の行は scale = 1, shift = 0 なので変化しない。
func (s *ColumnScaler) applyRows(M *mat.Dense) {
	r, _ := M.Dims()
	last := r - 1
	lastRow := mat.Row(nil, last, M)
	for i := 0; i < last; i++ {
		row := M.RawRowView(i)
		for j := range row {
			row[j] = s.Scale[i]*row[j] + s.Shift[i]*lastRow[j]
		}
	}
}

// InverseCoefficients は標準化空間の係数を元のスケールに戻す:
// β = Scale∘β_std とし、切片係数に Shiftᵀβ_std を加える。
func (s *ColumnScaler) InverseCoefficients(betaStd mat.Vector) (*mat.VecDense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnScaler", "InverseCoefficients")
	}
	k := betaStd.Len()
	if k != len(s.Scale) {
		return nil, errors.NewDimensionError("ColumnScaler.InverseCoefficients", len(s.Scale), k, 0)
	}

	beta := mat.NewVecDense(k, nil)
	var shiftDot float64
	for i := 0; i < k; i++ {
		beta.SetVec(i, s.Scale[i]*betaStd.AtVec(i))
		shiftDot += s.Shift[i] * betaStd.AtVec(i)
	}
	if last := s.interceptColumn(k); last >= 0 {
		beta.SetVec(last, beta.AtVec(last)+shiftDot)
	}
	return beta, nil
}
