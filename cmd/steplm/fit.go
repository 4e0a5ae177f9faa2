package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/steplm/core/model"
	"github.com/YuminosukeSato/steplm/dataio"
	"github.com/YuminosukeSato/steplm/internal/config"
	"github.com/YuminosukeSato/steplm/internal/plotting"
	"github.com/YuminosukeSato/steplm/internal/telemetry"
	"github.com/YuminosukeSato/steplm/pkg/log"
	"github.com/YuminosukeSato/steplm/report"
	"github.com/YuminosukeSato/steplm/selection"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Select features and fit the final linear model",
	Long: `Reads X and Y, runs forward selection and writes the coefficients (B),
the selected columns (S) and the fit statistics (O, stdout when omitted).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		applyFitFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := setupLogging(cmd, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		sink := dataio.NewFileSink(cfg.S, cfg.B, cfg.O, cfg.OutputFormat())
		sink.Stdout = cmd.OutOrStdout()
		return runFit(cmd.Context(), cfg, sink, logger)
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().String("config", "", "YAML or JSON run configuration")
	fitCmd.Flags().String("X", "", "Input matrix of features")
	fitCmd.Flags().String("Y", "", "Input response vector")
	fitCmd.Flags().String("B", "", "Output coefficients")
	fitCmd.Flags().String("S", "", "Output selected columns")
	fitCmd.Flags().String("O", "", "Output statistics (stdout when omitted)")
	fitCmd.Flags().Int("icpt", 0, "Intercept: 0 none, 1 intercept, 2 intercept with standardization")
	fitCmd.Flags().Float64("thr", selection.DefaultThreshold, "Minimum relative AIC improvement to accept a feature")
	fitCmd.Flags().String("dir", string(selection.Forward), "Search direction")
	fitCmd.Flags().String("fmt", string(dataio.Text), "Output format for paths without extension: text, csv or npy")
	fitCmd.Flags().Int("workers", 0, "Candidate worker pool size (0 = one per CPU)")
	fitCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	fitCmd.Flags().String("plot", "", "Write the AIC trajectory chart to this image file")
	fitCmd.Flags().String("model", "", "Save the fitted coefficients for steplm predict")
}

// applyFitFlags overrides cfg with every flag given on the command line.
func applyFitFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	str("X", &cfg.X)
	str("Y", &cfg.Y)
	str("B", &cfg.B)
	str("S", &cfg.S)
	str("O", &cfg.O)
	str("dir", &cfg.Direction)
	str("fmt", &cfg.Format)
	str("metrics-file", &cfg.MetricsFile)
	str("plot", &cfg.PlotFile)
	str("model", &cfg.ModelFile)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	if f.Changed("icpt") {
		cfg.Intercept, _ = f.GetInt("icpt")
	}
	if f.Changed("thr") {
		cfg.Threshold, _ = f.GetFloat64("thr")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
}

func runFit(ctx context.Context, cfg config.Config, sink report.Sink, logger log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	X, err := dataio.ReadMatrix(cfg.X)
	if err != nil {
		return err
	}
	y, err := dataio.ReadVector(cfg.Y)
	if err != nil {
		return err
	}

	n, m := X.Dims()
	logger = logger.With(log.FingerprintKey, dataio.FingerprintHex(X, y))
	logger.Info("data loaded", log.SamplesKey, n, log.FeaturesKey, m)

	opts := append(cfg.SelectorOptions(), selection.WithLogger(logger))
	var collector *telemetry.Collector
	if cfg.MetricsFile != "" {
		collector = telemetry.NewCollector()
		opts = append(opts, selection.WithObserver(collector))
	}

	sel, err := selection.NewForwardSelector(opts...)
	if err != nil {
		return err
	}
	res, err := sel.Fit(ctx, X, y)
	if err != nil {
		return err
	}

	rep, err := report.NewReporter(sink, logger).Emit(res)
	if err != nil {
		return err
	}
	if cfg.ModelFile != "" {
		if err := model.SaveModel(rep.Coefficients, cfg.ModelFile); err != nil {
			return err
		}
	}

	if cfg.PlotFile != "" {
		if err := plotting.Save(res, cfg.PlotFile); err != nil {
			return err
		}
	}
	if collector != nil {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}
