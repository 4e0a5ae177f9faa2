// Package steplm selects linear-regression predictors by forward stepwise
// search on the Akaike Information Criterion.
//
// Starting from the empty model (intercept only, when requested), every
// round fits one candidate model per unselected column, in parallel, and
// admits the column whose model lowers the AIC by more than a relative
// threshold. The search stops when no candidate qualifies or every column is
// selected. The final model is refit with full summary statistics.
//
//	AIC = 2·k + n·ln(RSS/n)
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/YuminosukeSato/steplm/linear"
//	    "github.com/YuminosukeSato/steplm/report"
//	    "github.com/YuminosukeSato/steplm/selection"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 2, []float64{1, 0, 2, 1, 3, 0, 4, 1, 5, 0, 6, 1})
//	    y := mat.NewVecDense(6, []float64{3.1, 4.9, 7.2, 8.8, 11.1, 12.9})
//
//	    sel, err := selection.NewForwardSelector(
//	        selection.WithIntercept(linear.WithIntercept),
//	        selection.WithThreshold(0.01),
//	    )
//	    if err != nil {
//	        panic(err)
//	    }
//	    res, err := sel.Fit(context.Background(), X, y)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    rep, _ := report.Build(res)
//	    fmt.Println("selected:", rep.Selected)
//	    fmt.Println("coefficients:", mat.Formatted(rep.Coefficients.Values))
//	}
//
// # Packages
//
//   - linear: least-squares engine (normal equations, Cholesky), AIC, intercept modes
//   - selection: forward selection controller, trace and observer hooks
//   - report: coefficient reconstruction and emission to sinks
//   - metrics: summary statistics of a fitted model
//   - preprocessing: column scaling for the standardized intercept mode
//   - dataio: matrix files (csv, npy, text; zstd, gzip, lz4) and file sinks
//   - datagen: random design matrices and linear responses
//   - core/parallel: bounded worker pool
//   - core/model: fitted state and model persistence
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The steplm command (cmd/steplm) wraps the same pipeline:
//
//	steplm gen --rows 1000 --cols 20 --out X.csv --response y.csv
//	steplm fit --X X.csv --Y y.csv --B B.csv --S S.csv --icpt 1
package steplm
