package matrix

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// The binary record layout is the model wire format:
// [rows:int32][cols:int32][rows*cols float64 values in column-major
// order], little-endian, no version tag. WriteBinary and ReadBinary
// must agree exactly; a model file is a plain concatenation of these
// records.

// WriteBinary writes m to w in the binary record layout.
func (m *Matrix) WriteBinary(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(m.Rows)); err != nil {
		return errors.Wrap(err, "Matrix.WriteBinary: rows")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(m.Cols)); err != nil {
		return errors.Wrap(err, "Matrix.WriteBinary: cols")
	}
	if err := binary.Write(w, binary.LittleEndian, m.Data); err != nil {
		return errors.Wrap(err, "Matrix.WriteBinary: data")
	}
	return nil
}

// ReadBinary reads one binary matrix record from r. A record that ends
// early is reported as ErrTruncatedRecord rather than read as garbage.
func ReadBinary(r io.Reader) (*Matrix, error) {
	var rows, cols int32
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(errors.ErrTruncatedRecord, "matrix.ReadBinary: rows")
		}
		return nil, errors.Wrap(err, "matrix.ReadBinary: rows")
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(errors.ErrTruncatedRecord, "matrix.ReadBinary: cols")
		}
		return nil, errors.Wrap(err, "matrix.ReadBinary: cols")
	}
	if rows < 0 || cols < 0 {
		return nil, errors.NewValidationError("rows/cols",
			"matrix header dimensions must be non-negative", [2]int32{rows, cols})
	}

	m := New(int(rows), int(cols))
	if err := binary.Read(r, binary.LittleEndian, m.Data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(errors.ErrTruncatedRecord, "matrix.ReadBinary: data")
		}
		return nil, errors.Wrap(err, "matrix.ReadBinary: data")
	}
	return m, nil
}

// WriteText writes m to w in text form: a "rows cols" header line
// followed by one whitespace-separated line per row.
func (m *Matrix) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.Rows, m.Cols); err != nil {
		return errors.Wrap(err, "Matrix.WriteText")
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if _, err := fmt.Fprintf(bw, "%g ", m.At(i, j)); err != nil {
				return errors.Wrap(err, "Matrix.WriteText")
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return errors.Wrap(err, "Matrix.WriteText")
		}
	}
	return errors.Wrap(bw.Flush(), "Matrix.WriteText")
}

// ReadText reads a matrix in the text form produced by WriteText.
func ReadText(r io.Reader) (*Matrix, error) {
	var rows, cols int
	if _, err := fmt.Fscan(r, &rows, &cols); err != nil {
		return nil, errors.Wrap(err, "matrix.ReadText: header")
	}
	if rows < 0 || cols < 0 {
		return nil, errors.NewValidationError("rows/cols",
			"matrix header dimensions must be non-negative", [2]int{rows, cols})
	}

	m := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var v float64
			if _, err := fmt.Fscan(r, &v); err != nil {
				return nil, errors.Wrap(err, "matrix.ReadText: data")
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}
