package dataio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/metrics"
	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// FileSink writes run outputs to files. It implements report.Sink.
//
// Statistics are written as "NAME,value" lines. When StatisticsPath is empty
// they go to Stdout; when SelectionPath is empty the selection is not
// written.
type FileSink struct {
	SelectionPath    string
	CoefficientsPath string
	StatisticsPath   string

	// Format is used for paths without a recognized matrix extension.
	Format Format

	Stdout io.Writer
}

// NewFileSink creates a FileSink writing to os.Stdout when no statistics
// path is given.
func NewFileSink(selection, coefficients, statistics string, format Format) *FileSink {
	return &FileSink{
		SelectionPath:    selection,
		CoefficientsPath: coefficients,
		StatisticsPath:   statistics,
		Format:           format,
		Stdout:           os.Stdout,
	}
}

func (s *FileSink) WriteSelection(m mat.Matrix) error {
	if s.SelectionPath == "" {
		return nil
	}
	return WriteMatrix(s.SelectionPath, m, s.Format)
}

func (s *FileSink) WriteCoefficients(m mat.Matrix) error {
	if s.CoefficientsPath == "" {
		return errors.NewConfigurationError("B", "coefficient output path is required", "")
	}
	return WriteMatrix(s.CoefficientsPath, m, s.Format)
}

func (s *FileSink) WriteStatistics(stats []metrics.Statistic) (err error) {
	if s.StatisticsPath == "" {
		out := s.Stdout
		if out == nil {
			out = os.Stdout
		}
		return EncodeStatistics(out, stats)
	}

	_, comp := Detect(s.StatisticsPath, CSV)
	wc, err := CreateWriter(s.StatisticsPath, comp)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return EncodeStatistics(wc, stats)
}

// EncodeStatistics writes one "NAME,value" line per statistic.
func EncodeStatistics(w io.Writer, stats []metrics.Statistic) error {
	bw := bufio.NewWriter(w)
	for _, st := range stats {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", st.Name, strconv.FormatFloat(st.Value, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
