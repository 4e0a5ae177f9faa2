package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/steplm/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "steplm",
	Short: "Forward stepwise feature selection for linear regression",
	Long: `steplm selects linear-regression predictors greedily by the Akaike
Information Criterion, starting from the empty model and adding one column
per round while the relative AIC improvement exceeds a threshold.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: json or console")
}

// setupLogging installs the process logger from the persistent flags unless
// the caller already chose values.
func setupLogging(cmd *cobra.Command, level, format string) (log.Logger, error) {
	if cmd.Flags().Changed("log-level") || level == "" {
		level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") || format == "" {
		format, _ = cmd.Flags().GetString("log-format")
	}
	if err := log.SetupLogger(level, format); err != nil {
		return nil, err
	}
	return log.GetLogger(), nil
}
