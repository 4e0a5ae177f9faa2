package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/metrics"
	"github.com/YuminosukeSato/steplm/pkg/errors"
	"github.com/YuminosukeSato/steplm/preprocessing"
)

// InterceptMode は切片と標準化の扱いを指定する
type InterceptMode int

const (
	// NoIntercept は切片なし・スケーリングなし
	NoIntercept InterceptMode = 0
	// WithIntercept は切片列を追加する
	WithIntercept InterceptMode = 1
	// WithInterceptStandardized は切片列を追加し、それ以外の列を平均0・分散1に標準化する
	WithInterceptStandardized InterceptMode = 2
)

// Valid reports whether m is one of 0, 1, 2.
func (m InterceptMode) Valid() bool {
	return m >= NoIntercept && m <= WithInterceptStandardized
}

// HasIntercept reports whether a column of ones is appended.
func (m InterceptMode) HasIntercept() bool {
	return m == WithIntercept || m == WithInterceptStandardized
}

func (m InterceptMode) String() string {
	switch m {
	case NoIntercept:
		return "none"
	case WithIntercept:
		return "intercept"
	case WithInterceptStandardized:
		return "intercept+standardize"
	default:
		return fmt.Sprintf("InterceptMode(%d)", int(m))
	}
}

// FittedModel は1回の最小二乗フィットの結果
type FittedModel struct {
	// Beta は m_ext×1 の係数行列。標準化時は m_ext×2 で、
	// 0列目が元のスケールの係数、1列目が標準化空間の係数。
	// 切片係数は常に最後の行。
	Beta *mat.Dense

	// AIC = 2·m_ext + n·ln(RSS/n)
	AIC float64

	// RSS は残差平方和
	RSS float64

	// DegreesOfFreedom は切片を含むモデル列数 m_ext
	DegreesOfFreedom int

	// Mode はフィット時の切片モード
	Mode InterceptMode

	// Residual は y - Xβ。統計量を計算した場合のみ保持する
	Residual *mat.VecDense

	// Statistics は computeStatistics が true の場合のみ設定される
	Statistics *metrics.Summary

	// Scaler は標準化時のスケールとシフト
	Scaler *preprocessing.ColumnScaler
}

// Coefficients は元のスケールの係数ベクトルを返す
func (f *FittedModel) Coefficients() *mat.VecDense {
	return mat.VecDenseCopyOf(f.Beta.ColView(0))
}

// StandardizedCoefficients は標準化空間の係数を返す。標準化していない場合は nil
func (f *FittedModel) StandardizedCoefficients() *mat.VecDense {
	if _, c := f.Beta.Dims(); c < 2 {
		return nil
	}
	return mat.VecDenseCopyOf(f.Beta.ColView(1))
}

// OLS は正規方程式を直接解く線形回帰エンジン
type OLS struct {
	mode InterceptMode
}

// NewOLS は新しいOLSエンジンを作成する
func NewOLS(mode InterceptMode) *OLS {
	return &OLS{mode: mode}
}

// Mode returns the engine's intercept mode.
func (o *OLS) Mode() InterceptMode {
	return o.mode
}

// FitSubset は X の列 cols（1始まり、選択順）だけを使ってフィットする。
// エラーは部分集合を特定できる形で返される。
func (o *OLS) FitSubset(X mat.Matrix, y mat.Vector, cols []int, computeStatistics bool) (*FittedModel, error) {
	sub, err := SelectColumns(X, cols)
	if err != nil {
		return nil, err
	}
	fm, err := o.fit(sub, y, computeStatistics)
	if err != nil {
		if errors.Is(err, errors.ErrSingularMatrix) {
			var singErr *errors.SingularMatrixError
			if errors.As(err, &singErr) {
				return nil, errors.NewSingularMatrixError("linear.FitSubset", cols, singErr.Err)
			}
		}
		return nil, err
	}
	return fm, nil
}

// Fit は X（部分集合の計画行列 n×k）と y に対して最小二乗フィットを行う。
//
// アルゴリズム:
//  1. 切片モード 1, 2 では最後に1の列を追加する
//  2. モード 2 では各列の平均と標本分散からスケールとシフトを計算する
//  3. A = XᵀX, b = Xᵀy を作り、モード 2 では標準化空間に変換する
//  4. Cholesky 分解で Aβ = b を解く（失敗は SingularMatrixError）
//  5. モード 2 では係数を元のスケールに戻す
//  6. 残差、RSS、AIC を計算する
func (o *OLS) Fit(X mat.Matrix, y mat.Vector, computeStatistics bool) (*FittedModel, error) {
	return o.fit(X, y, computeStatistics)
}

func (o *OLS) fit(X mat.Matrix, y mat.Vector, computeStatistics bool) (*FittedModel, error) {
	if !o.mode.Valid() {
		return nil, errors.NewConfigurationError("intercept", "must be 0, 1 or 2", int(o.mode))
	}
	n, k := X.Dims()
	if n == 0 {
		return nil, errors.NewModelError("linear.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("linear.Fit", n, y.Len(), 0)
	}

	design := Design(X, o.mode)
	_, mExt := design.Dims()

	fm := &FittedModel{
		DegreesOfFreedom: mExt,
		Mode:             o.mode,
	}

	var beta, betaStd *mat.VecDense
	if mExt > 0 {
		var A mat.SymDense
		A.SymOuterK(1, design.T())
		b := mat.NewVecDense(mExt, nil)
		b.MulVec(design.T(), y)

		var sys mat.Symmetric = &A
		if o.mode == WithInterceptStandardized {
			fm.Scaler = preprocessing.NewColumnScaler(true)
			if err := fm.Scaler.Fit(design); err != nil {
				return nil, err
			}
			Astd, bStd, err := fm.Scaler.TransformNormalEquations(&A, b)
			if err != nil {
				return nil, err
			}
			sys, b = Astd, bStd
		}

		solved, err := solveSPD(sys, b)
		if err != nil {
			return nil, err
		}

		if fm.Scaler != nil {
			betaStd = solved
			beta, err = fm.Scaler.InverseCoefficients(betaStd)
			if err != nil {
				return nil, err
			}
		} else {
			beta = solved
		}
	} else {
		beta = &mat.VecDense{}
	}

	cols := 1
	if betaStd != nil {
		cols = 2
	}
	if mExt > 0 {
		fm.Beta = mat.NewDense(mExt, cols, nil)
		fm.Beta.SetCol(0, beta.RawVector().Data)
		if betaStd != nil {
			fm.Beta.SetCol(1, betaStd.RawVector().Data)
		}
	} else {
		fm.Beta = &mat.Dense{}
	}

	residual := mat.VecDenseCopyOf(y)
	if mExt > 0 {
		var pred mat.VecDense
		pred.MulVec(design, beta)
		residual.SubVec(residual, &pred)
	}

	fm.RSS = metrics.RSS(residual)
	fm.AIC = metrics.AIC(fm.RSS, n, mExt)

	if computeStatistics {
		fm.Residual = residual
		stats, err := metrics.Summarize(y, residual, k, o.mode.HasIntercept())
		if err != nil {
			return nil, err
		}
		fm.Statistics = stats
	}

	return fm, nil
}

// solveSPD は対称正定値系 Aβ = b を Cholesky 分解で解く
func solveSPD(A mat.Symmetric, b *mat.VecDense) (*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(A); !ok {
		return nil, errors.NewSingularMatrixError("linear.Fit", nil, fmt.Errorf("normal equations are not positive definite"))
	}

	beta := mat.NewVecDense(b.Len(), nil)
	if err := chol.SolveVecTo(beta, b); err != nil {
		// mat.Condition: 条件数が許容値を超えている
		return nil, errors.NewSingularMatrixError("linear.Fit", nil, err)
	}

	raw := beta.RawVector().Data
	if floats.HasNaN(raw) || math.IsInf(floats.Max(raw), 0) || math.IsInf(floats.Min(raw), 0) {
		return nil, errors.NewSingularMatrixError("linear.Fit", nil, fmt.Errorf("solution is not finite"))
	}
	return beta, nil
}

// Baseline は予測変数を含まないモデルを返す。
// 切片ありの場合は β = mean(y)、AIC = 2 + n·ln(Σ(β-y)²/n)。
// 切片なしの場合は β = 0、AIC = n·ln(Σy²/n)。
func Baseline(y mat.Vector, mode InterceptMode) (*FittedModel, error) {
	n := y.Len()
	if n == 0 {
		return nil, errors.NewModelError("linear.Baseline", "empty data", errors.ErrEmptyData)
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = y.AtVec(i)
	}

	fm := &FittedModel{Mode: mode}
	if !mode.HasIntercept() {
		fm.Beta = &mat.Dense{}
		fm.RSS = floats.Dot(data, data)
		fm.AIC = metrics.AIC(fm.RSS, n, 0)
		return fm, nil
	}

	mean := floats.Sum(data) / float64(n)
	var rss float64
	for _, v := range data {
		rss += (mean - v) * (mean - v)
	}

	cols := 1
	if mode == WithInterceptStandardized {
		cols = 2
	}
	fm.Beta = mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		fm.Beta.Set(0, j, mean)
	}
	fm.RSS = rss
	fm.AIC = metrics.AIC(rss, n, 1)
	fm.DegreesOfFreedom = 1
	return fm, nil
}
