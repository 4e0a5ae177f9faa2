// Package config holds the run configuration of the steplm command.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/steplm/dataio"
	"github.com/YuminosukeSato/steplm/linear"
	"github.com/YuminosukeSato/steplm/pkg/errors"
	"github.com/YuminosukeSato/steplm/selection"
)

// Config is the configuration of one selection run. Keys match the CLI
// flag names of steplm fit.
type Config struct {
	X string `yaml:"X" json:"X"`
	Y string `yaml:"Y" json:"Y"`
	B string `yaml:"B" json:"B"`
	S string `yaml:"S" json:"S"`
	O string `yaml:"O" json:"O"`

	Intercept int     `yaml:"icpt" json:"icpt"`
	Threshold float64 `yaml:"thr" json:"thr"`
	Direction string  `yaml:"dir" json:"dir"`
	Format    string  `yaml:"fmt" json:"fmt"`
	Workers   int     `yaml:"workers" json:"workers"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
	PlotFile    string `yaml:"plot_file" json:"plot_file"`
	ModelFile   string `yaml:"model_file" json:"model_file"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Intercept: 0,
		Threshold: selection.DefaultThreshold,
		Direction: string(selection.Forward),
		Format:    string(dataio.Text),
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads a configuration file (YAML, or JSON by extension) on top of the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	}
	return cfg, nil
}

// ValidationError lists every invalid field of a Config.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("steplm: invalid configuration: %s", strings.Join(msgs, "; "))
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []error
	add := func(param, reason string, value any) {
		problems = append(problems, &errors.ConfigurationError{ParamName: param, Reason: reason, Value: value})
	}

	if c.X == "" {
		add("X", "input matrix path is required", c.X)
	}
	if c.Y == "" {
		add("Y", "response path is required", c.Y)
	}
	if c.B == "" {
		add("B", "coefficient output path is required", c.B)
	}
	if !linear.InterceptMode(c.Intercept).Valid() {
		add("icpt", "must be 0, 1 or 2", c.Intercept)
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		add("thr", "must be a finite non-negative number", c.Threshold)
	}
	if selection.Strategy(c.Direction) != selection.Forward {
		add("dir", "only forward selection is supported", c.Direction)
	}
	if _, err := dataio.ParseFormat(c.Format); err != nil {
		add("fmt", "must be csv, npy or text", c.Format)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "":
	default:
		add("log_level", "must be one of debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console", "":
	default:
		add("log_format", "must be json or console", c.LogFormat)
	}

	if len(problems) > 0 {
		return errors.WithStack(&ValidationError{Problems: problems})
	}
	return nil
}

// SelectorOptions converts the configuration into selector options.
func (c Config) SelectorOptions() []selection.Option {
	return []selection.Option{
		selection.WithIntercept(linear.InterceptMode(c.Intercept)),
		selection.WithThreshold(c.Threshold),
		selection.WithStrategy(selection.Strategy(c.Direction)),
		selection.WithWorkers(c.Workers),
	}
}

// OutputFormat returns the parsed output format.
func (c Config) OutputFormat() dataio.Format {
	f, err := dataio.ParseFormat(c.Format)
	if err != nil {
		return dataio.Text
	}
	return f
}
