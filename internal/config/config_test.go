package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/steplm/dataio"
	"github.com/YuminosukeSato/steplm/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
X: data/X.csv
Y: data/y.csv
B: out/B.csv
icpt: 2
thr: 0.05
fmt: csv
workers: 4
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/X.csv", cfg.X)
	assert.Equal(t, 2, cfg.Intercept)
	assert.Equal(t, 0.05, cfg.Threshold)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
	// defaults survive for keys not in the file
	assert.Equal(t, "forward", cfg.Direction)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, dataio.CSV, cfg.OutputFormat())
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.SelectorOptions(), 4)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "run.json", `{"X": "x.npy", "Y": "y.npy", "B": "b.npy", "icpt": 1}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "x.npy", cfg.X)
	assert.Equal(t, 1, cfg.Intercept)
	assert.Equal(t, 0.01, cfg.Threshold)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Intercept = 5
	cfg.Threshold = -1
	cfg.Direction = "both"
	cfg.Format = "xml"
	cfg.LogLevel = "verbose"

	err := cfg.Validate()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))

	params := make([]string, 0, len(vErr.Problems))
	for _, p := range vErr.Problems {
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(p, &cfgErr))
		params = append(params, cfgErr.ParamName)
	}
	assert.Equal(t, []string{"X", "Y", "B", "icpt", "thr", "dir", "fmt", "log_level"}, params)
	assert.Contains(t, err.Error(), "icpt")
}
