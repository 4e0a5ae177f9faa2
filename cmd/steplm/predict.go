package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/steplm/core/model"
	"github.com/YuminosukeSato/steplm/dataio"
	"github.com/YuminosukeSato/steplm/pkg/log"
	"github.com/YuminosukeSato/steplm/report"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Apply coefficients saved by steplm fit --model to a feature matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		modelPath, _ := f.GetString("model")
		xPath, _ := f.GetString("X")
		out, _ := f.GetString("out")
		format, _ := f.GetString("fmt")

		logger, err := setupLogging(cmd, "", "")
		if err != nil {
			return err
		}
		fallback, err := dataio.ParseFormat(format)
		if err != nil {
			return err
		}
		return runPredict(modelPath, xPath, out, fallback, logger)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("model", "", "Coefficients saved by steplm fit --model")
	predictCmd.Flags().String("X", "", "Input matrix of features")
	predictCmd.Flags().StringP("out", "o", "", "Output predictions")
	predictCmd.Flags().String("fmt", string(dataio.CSV), "Format for paths without extension: text, csv or npy")
	_ = predictCmd.MarkFlagRequired("model")
	_ = predictCmd.MarkFlagRequired("X")
	_ = predictCmd.MarkFlagRequired("out")
}

func runPredict(modelPath, xPath, out string, format dataio.Format, logger log.Logger) error {
	var coef report.Coefficients
	if err := model.LoadModel(&coef, modelPath); err != nil {
		return err
	}
	X, err := dataio.ReadMatrix(xPath)
	if err != nil {
		return err
	}
	yhat, err := coef.Predict(X)
	if err != nil {
		return err
	}
	if err := dataio.WriteMatrix(out, yhat, format); err != nil {
		return err
	}

	n, _ := X.Dims()
	logger.Info("predictions written", log.SamplesKey, n, log.FeaturesKey, coef.NFeatures, "path", out)
	return nil
}
