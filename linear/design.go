package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// SelectColumns は X から cols（1始まり）の列を順に取り出した n×len(cols) 行列を返す。
// cols が空の場合は n×0 の行列を返す。
func SelectColumns(X mat.Matrix, cols []int) (mat.Matrix, error) {
	n, m := X.Dims()
	for _, c := range cols {
		if c < 1 || c > m {
			return nil, errors.NewValueError("linear.SelectColumns", fmt.Sprintf("column %d out of range [1, %d]", c, m))
		}
	}
	if len(cols) == 0 {
		return emptyColumns{rows: n}, nil
	}

	out := mat.NewDense(n, len(cols), nil)
	col := make([]float64, n)
	for j, c := range cols {
		mat.Col(col, c-1, X)
		out.SetCol(j, col)
	}
	return out, nil
}

// Design は切片モードに従って X の最後に1の列を追加した計画行列を返す
func Design(X mat.Matrix, mode InterceptMode) *mat.Dense {
	n, k := X.Dims()
	cols := k
	if mode.HasIntercept() {
		cols++
	}
	if cols == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(n, cols, nil)
	if k > 0 {
		out.Slice(0, n, 0, k).(*mat.Dense).Copy(X)
	}
	if mode.HasIntercept() {
		for i := 0; i < n; i++ {
			out.Set(i, k, 1)
		}
	}
	return out
}

// emptyColumns は列を持たない n×0 行列
type emptyColumns struct {
	rows int
}

func (e emptyColumns) Dims() (int, int) { return e.rows, 0 }

func (e emptyColumns) At(i, j int) float64 {
	panic(mat.ErrColAccess)
}

func (e emptyColumns) T() mat.Matrix { return mat.Transpose{Matrix: e} }
