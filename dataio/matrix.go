package dataio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// ReadMatrix reads a matrix from path. The format and compression are taken
// from the extension; unknown extensions are read as CSV.
func ReadMatrix(path string) (*mat.Dense, error) {
	format, comp := Detect(path, CSV)
	rc, err := OpenReader(path, comp)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := Decode(rc, format)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return m, nil
}

// ReadVector reads an n×1 or 1×n matrix from path as a vector.
func ReadVector(path string) (*mat.VecDense, error) {
	m, err := ReadMatrix(path)
	if err != nil {
		return nil, err
	}
	return AsVector(m)
}

// AsVector converts an n×1 or 1×n matrix to a vector.
func AsVector(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	switch {
	case c == 1:
		return mat.VecDenseCopyOf(mat.DenseCopyOf(m).ColView(0)), nil
	case r == 1:
		return mat.VecDenseCopyOf(mat.DenseCopyOf(m).RowView(0)), nil
	default:
		return nil, errors.NewValueError("dataio.AsVector", fmt.Sprintf("expected a single row or column, got %d×%d", r, c))
	}
}

// WriteMatrix writes m to path. The format comes from the extension, or
// fallback when the extension is not recognized.
func WriteMatrix(path string, m mat.Matrix, fallback Format) (err error) {
	format, comp := Detect(path, fallback)
	wc, err := CreateWriter(path, comp)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return Encode(wc, m, format)
}

// Decode reads a matrix in the given format.
func Decode(r io.Reader, format Format) (*mat.Dense, error) {
	switch format {
	case CSV:
		return decodeCSV(r)
	case NPY:
		m := &mat.Dense{}
		if err := npyio.Read(r, m); err != nil {
			return nil, errors.Wrap(err, "npy")
		}
		return m, nil
	case Text:
		return decodeText(r)
	default:
		return nil, errors.NewConfigurationError("fmt", "must be csv, npy or text", string(format))
	}
}

// Encode writes m in the given format.
func Encode(w io.Writer, m mat.Matrix, format Format) error {
	switch format {
	case CSV:
		return encodeCSV(w, m)
	case NPY:
		return npyio.Write(w, mat.DenseCopyOf(m))
	case Text:
		return encodeText(w, m)
	default:
		return errors.NewConfigurationError("fmt", "must be csv, npy or text", string(format))
	}
}

// decodeCSV reads a numeric CSV. A first record that does not parse as
// numbers is treated as a header and skipped.
func decodeCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}
	if len(records) > 0 {
		if _, err := parseRecord(records[0]); err != nil {
			records = records[1:]
		}
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataio.decodeCSV", "no data rows", errors.ErrEmptyData)
	}

	cols := len(records[0])
	data := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		row, err := parseRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "csv line %d", i+1)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(records), cols, data), nil
}

func parseRecord(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for j, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		row[j] = v
	}
	return row, nil
}

func encodeCSV(w io.Writer, m mat.Matrix) error {
	r, c := m.Dims()
	cw := csv.NewWriter(w)
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// decodeText reads "row col value" triples. The matrix is sized by the
// largest indices seen.
func decodeText(r io.Reader) (*mat.Dense, error) {
	type cell struct {
		i, j int
		v    float64
	}
	var cells []cell
	rows, cols := 0, 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, errors.Newf("text line %d: expected 3 fields, got %d", line, len(fields))
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil || i < 1 {
			return nil, errors.Newf("text line %d: bad row index %q", line, fields[0])
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil || j < 1 {
			return nil, errors.Newf("text line %d: bad column index %q", line, fields[1])
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "text line %d", line)
		}
		cells = append(cells, cell{i - 1, j - 1, v})
		rows = max(rows, i)
		cols = max(cols, j)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "text")
	}
	if rows == 0 {
		return nil, errors.NewModelError("dataio.decodeText", "no cells", errors.ErrEmptyData)
	}

	m := mat.NewDense(rows, cols, nil)
	for _, c := range cells {
		m.Set(c.i, c.j, c.v)
	}
	return m, nil
}

// encodeText writes non-zero cells as 1-based "row col value" triples. The
// bottom-right cell is always written so that the shape survives.
func encodeText(w io.Writer, m mat.Matrix) error {
	bw := bufio.NewWriter(w)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if v == 0 && (i != r-1 || j != c-1) {
				continue
			}
			if _, err := fmt.Fprintf(bw, "%d %d %s\n", i+1, j+1, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
