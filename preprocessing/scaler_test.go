package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// withOnes appends a trailing column of ones.
func withOnes(X *mat.Dense) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j))
		}
		out.Set(i, c, 1)
	}
	return out
}

func TestColumnScaler_Fit(t *testing.T) {
	X := withOnes(mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	}))

	s := NewColumnScaler(true)
	require.NoError(t, s.Fit(X))

	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, 5.0/3.0, s.Variance[0], 1e-12) // sample variance, n-1 denominator
	assert.InDelta(t, 1/math.Sqrt(5.0/3.0), s.Scale[0], 1e-12)
	assert.InDelta(t, -2.5/math.Sqrt(5.0/3.0), s.Shift[0], 1e-12)

	// constant column: unsafe guard keeps scale at 1
	assert.Equal(t, 1.0, s.Scale[1])
	assert.Equal(t, -5.0, s.Shift[1])
	assert.Equal(t, []int{1}, s.Unsafe)

	// intercept column is left alone
	assert.Equal(t, 1.0, s.Scale[2])
	assert.Equal(t, 0.0, s.Shift[2])
}

func TestColumnScaler_TransformNormalEquationsMatchesExplicit(t *testing.T) {
	X := withOnes(mat.NewDense(6, 2, []float64{
		1.0, 10,
		2.5, 12,
		3.1, 9,
		4.7, 15,
		5.2, 11,
		6.9, 13,
	}))
	y := mat.NewVecDense(6, []float64{3, 5, 6, 9, 10, 14})

	s := NewColumnScaler(true)
	require.NoError(t, s.Fit(X))

	var A mat.SymDense
	A.SymOuterK(1, X.T())
	var b mat.VecDense
	b.MulVec(X.T(), y)

	Astd, bStd, err := s.TransformNormalEquations(&A, &b)
	require.NoError(t, err)

	Xstd, err := s.Transform(X)
	require.NoError(t, err)
	var want mat.Dense
	want.Mul(Xstd.T(), Xstd)
	var wantB mat.VecDense
	wantB.MulVec(Xstd.T(), y)

	assert.True(t, mat.EqualApprox(Astd, &want, 1e-9), "A:\n%v\nwant:\n%v", mat.Formatted(Astd), mat.Formatted(&want))
	assert.True(t, mat.EqualApprox(bStd, &wantB, 1e-9))
}

func TestColumnScaler_InverseCoefficients(t *testing.T) {
	X := withOnes(mat.NewDense(5, 1, []float64{2, 4, 6, 8, 10}))
	s := NewColumnScaler(true)
	require.NoError(t, s.Fit(X))

	betaStd := mat.NewVecDense(2, []float64{1.5, 7})
	beta, err := s.InverseCoefficients(betaStd)
	require.NoError(t, err)

	// predictions must agree between the standardized and original design
	Xstd, err := s.Transform(X)
	require.NoError(t, err)
	var p1, p2 mat.VecDense
	p1.MulVec(Xstd, betaStd)
	p2.MulVec(X, beta)
	assert.True(t, mat.EqualApprox(&p1, &p2, 1e-10))
}

func TestColumnScaler_Errors(t *testing.T) {
	s := NewColumnScaler(true)
	_, err := s.Transform(mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err, "transform before fit")

	assert.Error(t, s.Fit(&mat.Dense{}))

	noIcpt := NewColumnScaler(false)
	require.NoError(t, noIcpt.Fit(mat.NewDense(3, 1, []float64{1, 2, 3})))
	var A mat.SymDense
	A.SymOuterK(1, mat.NewDense(1, 1, []float64{1}))
	_, _, err = noIcpt.TransformNormalEquations(&A, mat.NewVecDense(1, []float64{1}))
	assert.Error(t, err)
}
