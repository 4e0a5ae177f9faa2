package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.VecDense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	// y = 1 + Σ 0.5(j+1)·x_j + 小さなノイズ
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * float64(j+1) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.SetVec(i, sum)
	}

	return X, y
}

func BenchmarkOLSFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Medium_2000x10", 2000, 10},
		{"Large_10000x20", 10000, 20},
		{"XLarge_50000x50", 50000, 50},
	}

	for _, mode := range []InterceptMode{NoIntercept, WithIntercept, WithInterceptStandardized} {
		for _, size := range sizes {
			b.Run(mode.String()+"/"+size.name, func(b *testing.B) {
				X, y := createBenchmarkData(size.rows, size.cols)
				ols := NewOLS(mode)

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := ols.Fit(X, y, false); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkSelectColumns は部分集合の抽出のみを測定する
func BenchmarkSelectColumns(b *testing.B) {
	X, _ := createBenchmarkData(10000, 50)
	cols := []int{50, 3, 17, 8, 41}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SelectColumns(X, cols); err != nil {
			b.Fatal(err)
		}
	}
}
