package dataio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/metrics"
	"github.com/YuminosukeSato/steplm/pkg/errors"
)

func sample() *mat.Dense {
	return mat.NewDense(3, 2, []float64{
		1.5, 0,
		-2, 3.25,
		0, 0,
	})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		comp   Compression
	}{
		{"x.csv", CSV, NoCompression},
		{"x.npy", NPY, NoCompression},
		{"x.txt", Text, NoCompression},
		{"x.csv.zst", CSV, Zstd},
		{"dir/x.NPY.gz", NPY, Gzip},
		{"x.ijv.lz4", Text, LZ4},
		{"x.mtx", Text, NoCompression},
		{"x.gz", Text, Gzip},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, c := Detect(tt.path, Text)
			assert.Equal(t, tt.format, f)
			assert.Equal(t, tt.comp, c)
		})
	}

	_, err := ParseFormat("parquet")
	var cfgErr *errors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestMatrixRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sample()

	for _, ext := range []string{"csv", "npy", "txt"} {
		for _, comp := range []string{"", ".zst", ".gz", ".lz4"} {
			name := "m." + ext + comp
			t.Run(name, func(t *testing.T) {
				path := filepath.Join(dir, name)
				require.NoError(t, WriteMatrix(path, want, CSV))

				got, err := ReadMatrix(path)
				require.NoError(t, err)
				assert.True(t, mat.Equal(want, got), "got\n%v", mat.Formatted(got))
			})
		}
	}
}

func TestDecodeCSV_Header(t *testing.T) {
	in := "a,b\n1, 2\n3,4\n"
	m, err := Decode(strings.NewReader(in), CSV)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), m))

	_, err = Decode(strings.NewReader("1,2\n3,x\n"), CSV)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("a,b\n"), CSV)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), Text))
	assert.Equal(t, "1 1 1.5\n2 1 -2\n2 2 3.25\n3 2 0\n", buf.String())

	_, err := Decode(strings.NewReader("1 1\n"), Text)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("0 1 2\n"), Text)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("\n"), Text)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestAsVector(t *testing.T) {
	v, err := AsVector(mat.NewDense(3, 1, []float64{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v.RawVector().Data)

	v, err = AsVector(mat.NewDense(1, 2, []float64{4, 5}))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	_, err = AsVector(sample())
	assert.Error(t, err)
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	sink := &FileSink{
		SelectionPath:    filepath.Join(dir, "S"),
		CoefficientsPath: filepath.Join(dir, "B.csv"),
		Format:           Text,
		Stdout:           &stdout,
	}

	require.NoError(t, sink.WriteSelection(mat.NewDense(2, 1, []float64{3, 1})))
	require.NoError(t, sink.WriteCoefficients(sample()))
	require.NoError(t, sink.WriteStatistics([]metrics.Statistic{
		{Name: metrics.AvgTotY, Value: 2.5},
		{Name: metrics.Dispersion, Value: math.NaN()},
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "S"))
	require.NoError(t, err)
	assert.Equal(t, "1 1 3\n2 1 1\n", string(raw))

	got, err := ReadMatrix(filepath.Join(dir, "B.csv"))
	require.NoError(t, err)
	assert.True(t, mat.Equal(sample(), got))

	assert.Equal(t, "AVG_TOT_Y,2.5\nDISPERSION,NaN\n", stdout.String())

	sink.StatisticsPath = filepath.Join(dir, "O.csv.gz")
	require.NoError(t, sink.WriteStatistics([]metrics.Statistic{{Name: metrics.PlainR2, Value: 0.75}}))
	rc, err := OpenReader(sink.StatisticsPath, Gzip)
	require.NoError(t, err)
	defer rc.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(rc)
	require.NoError(t, err)
	assert.Equal(t, "PLAIN_R2,0.75\n", out.String())

	sink.CoefficientsPath = ""
	assert.Error(t, sink.WriteCoefficients(sample()))
}

func TestFingerprint(t *testing.T) {
	a := sample()
	b := sample()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, FingerprintHex(a), 16)

	b.Set(0, 0, 1.5000001)
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	// shape is part of the fingerprint
	flat := mat.NewDense(2, 3, []float64{1.5, 0, -2, 3.25, 0, 0})
	assert.NotEqual(t, Fingerprint(a), Fingerprint(flat))

	y := mat.NewVecDense(3, []float64{1, 2, 3})
	assert.NotEqual(t, Fingerprint(a), Fingerprint(a, y))
}
