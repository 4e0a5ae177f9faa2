package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64, round int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, round)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for NaN or Inf.
// At most 10 offending values are collected for the error message.
func CheckMatrix(operation string, m mat.Matrix, round int) error {
	rows, cols := m.Dims()
	var unstable []float64

	for i := 0; i < rows && len(unstable) < 10; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				unstable = append(unstable, v)
				if len(unstable) >= 10 {
					break
				}
			}
		}
	}

	if len(unstable) > 0 {
		return NewNumericalInstabilityError(operation, unstable, round)
	}
	return nil
}

// CheckVector checks all values in a vector for NaN or Inf.
func CheckVector(operation string, v mat.Vector, round int) error {
	var unstable []float64
	for i := 0; i < v.Len() && len(unstable) < 10; i++ {
		if x := v.AtVec(i); math.IsNaN(x) || math.IsInf(x, 0) {
			unstable = append(unstable, x)
		}
	}
	if len(unstable) > 0 {
		return NewNumericalInstabilityError(operation, unstable, round)
	}
	return nil
}
