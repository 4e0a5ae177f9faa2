// Package dataio reads and writes matrices and run outputs.
//
// Supported matrix formats, chosen by file extension:
//
//	.csv        comma separated values, one row per line
//	.npy        NumPy array (float64)
//	.txt, .ijv  "row col value" triples, 1-based, zeros omitted
//
// Any of them may be compressed by appending .zst, .gz or .lz4.
package dataio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// Compression is a stream compression codec.
type Compression string

const (
	NoCompression Compression = ""
	Zstd          Compression = "zst"
	Gzip          Compression = "gz"
	LZ4           Compression = "lz4"
)

// Format is a matrix encoding.
type Format string

const (
	CSV  Format = "csv"
	NPY  Format = "npy"
	Text Format = "text"
)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "csv":
		return CSV, nil
	case "npy":
		return NPY, nil
	case "text", "txt", "ijv":
		return Text, nil
	default:
		return "", errors.NewConfigurationError("fmt", "must be csv, npy or text", name)
	}
}

// Detect splits path into its matrix format and compression codec, e.g.
// "x.csv.zst" is (CSV, Zstd). Paths without a recognized extension fall back
// to fallback.
func Detect(path string, fallback Format) (Format, Compression) {
	comp := NoCompression
	base := path
	switch strings.ToLower(filepath.Ext(base)) {
	case ".zst", ".zstd":
		comp = Zstd
	case ".gz":
		comp = Gzip
	case ".lz4":
		comp = LZ4
	}
	if comp != NoCompression {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if f, err := ParseFormat(filepath.Ext(base)); err == nil {
		return f, comp
	}
	return fallback, comp
}

// OpenReader opens path and wraps it in a decompressor when comp requires one.
func OpenReader(path string, comp Compression) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	rc, err := NewReader(f, comp)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stackedCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
}

// CreateWriter creates path and wraps it in a compressor when comp requires
// one. Closing the writer flushes the compressor and closes the file.
func CreateWriter(path string, comp Compression) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	wc, err := NewWriter(f, comp)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stackedCloser{Writer: wc, closers: []io.Closer{wc, f}}, nil
}

// NewReader wraps r in a decompressor.
func NewReader(r io.Reader, comp Compression) (io.ReadCloser, error) {
	switch comp {
	case NoCompression:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrap(err, "zstd reader")
		}
		return dec.IOReadCloser(), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "gzip reader")
		}
		return zr, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, errors.NewConfigurationError("compression", "must be zst, gz or lz4", string(comp))
	}
}

// NewWriter wraps w in a compressor.
func NewWriter(w io.Writer, comp Compression) (io.WriteCloser, error) {
	switch comp {
	case NoCompression:
		return nopWriteCloser{w}, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, errors.Wrap(err, "zstd writer")
		}
		return enc, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, errors.NewConfigurationError("compression", "must be zst, gz or lz4", string(comp))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// stackedCloser closes the codec before the underlying file.
type stackedCloser struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
