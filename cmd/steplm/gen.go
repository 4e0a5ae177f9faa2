package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/steplm/datagen"
	"github.com/YuminosukeSato/steplm/dataio"
	"github.com/YuminosukeSato/steplm/pkg/log"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a random feature matrix and, optionally, a linear response",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		rows, _ := f.GetInt("rows")
		cols, _ := f.GetInt("cols")
		lo, _ := f.GetFloat64("min")
		hi, _ := f.GetFloat64("max")
		sparsity, _ := f.GetFloat64("sparsity")
		pdf, _ := f.GetString("pdf")
		seed, _ := f.GetUint64("seed")
		out, _ := f.GetString("out")
		yOut, _ := f.GetString("response")
		beta, _ := f.GetFloat64Slice("beta")
		intercept, _ := f.GetFloat64("intercept")
		noise, _ := f.GetFloat64("noise")
		format, _ := f.GetString("fmt")

		logger, err := setupLogging(cmd, "", "")
		if err != nil {
			return err
		}
		fallback, err := dataio.ParseFormat(format)
		if err != nil {
			return err
		}

		X, err := datagen.Matrix(datagen.Spec{
			Rows: rows, Cols: cols,
			Min: lo, Max: hi,
			Sparsity: sparsity,
			PDF:      datagen.PDF(pdf),
			Seed:     seed,
		})
		if err != nil {
			return err
		}
		if err := dataio.WriteMatrix(out, X, fallback); err != nil {
			return err
		}
		logger.Info("matrix generated", log.SamplesKey, rows, log.FeaturesKey, cols, "path", out)

		if yOut == "" {
			return nil
		}
		if len(beta) == 0 {
			beta = make([]float64, cols)
			for j := range beta {
				beta[j] = 1
			}
		}
		y, err := datagen.LinearResponse(X, beta, intercept, noise, seed+1)
		if err != nil {
			return err
		}
		if err := dataio.WriteMatrix(yOut, y, fallback); err != nil {
			return err
		}
		logger.Info("response generated", "path", yOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().Int("rows", 100, "Number of rows")
	genCmd.Flags().Int("cols", 10, "Number of columns")
	genCmd.Flags().Float64("min", 0, "Minimum value (uniform)")
	genCmd.Flags().Float64("max", 1, "Maximum value (uniform)")
	genCmd.Flags().Float64("sparsity", 1, "Fraction of non-zero cells")
	genCmd.Flags().String("pdf", string(datagen.Uniform), "Distribution: uniform or normal")
	genCmd.Flags().Uint64("seed", 1, "Random seed")
	genCmd.Flags().StringP("out", "o", "X.csv", "Output path for the matrix")
	genCmd.Flags().String("response", "", "Also write y = X·beta + intercept + noise to this path")
	genCmd.Flags().Float64Slice("beta", nil, "Coefficients of the response (default all ones)")
	genCmd.Flags().Float64("intercept", 0, "Intercept of the response")
	genCmd.Flags().Float64("noise", 0.1, "Standard deviation of the response noise")
	genCmd.Flags().String("fmt", string(dataio.CSV), "Format for paths without extension: text, csv or npy")
}
