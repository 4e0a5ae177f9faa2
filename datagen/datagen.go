// Package datagen generates random design matrices and linear responses for
// experiments and benchmarks.
package datagen

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/steplm/core/parallel"
	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// PDF は乱数の分布
type PDF string

const (
	// Uniform は [Min, Max) の一様分布
	Uniform PDF = "uniform"
	// Normal は標準正規分布。Min と Max は使用しない
	Normal PDF = "normal"
)

// 行ブロックごとに独立したシードを使うため、結果はワーカー数に依存しない
const blockRows = 1024

// Spec はランダム行列の生成条件
type Spec struct {
	Rows, Cols int
	Min, Max   float64

	// Sparsity は非ゼロ要素の割合 (0, 1]
	Sparsity float64

	PDF  PDF
	Seed uint64
}

// DefaultSpec returns a dense uniform [0, 1) spec.
func DefaultSpec(rows, cols int) Spec {
	return Spec{Rows: rows, Cols: cols, Min: 0, Max: 1, Sparsity: 1, PDF: Uniform, Seed: 1}
}

// Validate checks the spec.
func (s Spec) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return errors.NewConfigurationError("rows/cols", "must be positive", [2]int{s.Rows, s.Cols})
	}
	if !(s.Sparsity > 0 && s.Sparsity <= 1) {
		return errors.NewConfigurationError("sparsity", "must be in (0, 1]", s.Sparsity)
	}
	switch s.PDF {
	case Uniform:
		if !(s.Min <= s.Max) {
			return errors.NewConfigurationError("min/max", "min must not exceed max", [2]float64{s.Min, s.Max})
		}
	case Normal:
	default:
		return errors.NewConfigurationError("pdf", "must be uniform or normal", string(s.PDF))
	}
	return nil
}

// Matrix generates a Rows×Cols matrix. Each cell is non-zero with
// probability Sparsity and drawn from PDF. The same Spec always yields the
// same matrix.
func Matrix(s Spec) (*mat.Dense, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m := mat.NewDense(s.Rows, s.Cols, nil)
	blocks := (s.Rows + blockRows - 1) / blockRows

	parallel.ParallelizeWithThreshold(blocks, 1, func(start, end int) {
		for b := start; b < end; b++ {
			src := rand.NewPCG(s.Seed, uint64(b))
			mask := rand.New(rand.NewPCG(^s.Seed, uint64(b)))
			dist := s.distribution(src)

			lo := b * blockRows
			hi := min(lo+blockRows, s.Rows)
			for i := lo; i < hi; i++ {
				row := m.RawRowView(i)
				for j := range row {
					if s.Sparsity < 1 && mask.Float64() >= s.Sparsity {
						continue
					}
					row[j] = dist.Rand()
				}
			}
		}
	})
	return m, nil
}

type sampler interface {
	Rand() float64
}

func (s Spec) distribution(src rand.Source) sampler {
	if s.PDF == Normal {
		return distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	}
	if s.Min == s.Max {
		return constant(s.Min)
	}
	return distuv.Uniform{Min: s.Min, Max: s.Max, Src: src}
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

// LinearResponse returns y = X·beta + intercept + ε with ε ~ N(0, noise²).
func LinearResponse(X mat.Matrix, beta []float64, intercept, noise float64, seed uint64) (*mat.VecDense, error) {
	n, m := X.Dims()
	if len(beta) != m {
		return nil, errors.NewDimensionError("datagen.LinearResponse", m, len(beta), 1)
	}
	if noise < 0 {
		return nil, errors.NewConfigurationError("noise", "must be non-negative", noise)
	}

	y := mat.NewVecDense(n, nil)
	y.MulVec(X, mat.NewVecDense(m, append([]float64(nil), beta...)))

	var eps sampler = constant(0)
	if noise > 0 {
		eps = distuv.Normal{Mu: 0, Sigma: noise, Src: rand.NewPCG(seed, seed)}
	}
	for i := 0; i < n; i++ {
		y.SetVec(i, y.AtVec(i)+intercept+eps.Rand())
	}
	return y, nil
}
