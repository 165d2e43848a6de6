package matrix

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

func TestBinaryRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := Random(5, 3, rng)

	var buf bytes.Buffer
	if err := m.WriteBinary(&buf); err != nil {
		t.Fatalf("WriteBinary() error = %v", err)
	}

	// header plus payload, nothing more
	wantLen := 4 + 4 + 8*5*3
	if buf.Len() != wantLen {
		t.Errorf("record length = %d, want %d", buf.Len(), wantLen)
	}

	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("ReadBinary() error = %v", err)
	}
	if got.Rows != m.Rows || got.Cols != m.Cols {
		t.Fatalf("dims = %dx%d, want %dx%d", got.Rows, got.Cols, m.Rows, m.Cols)
	}
	// bit-exact round trip
	for i := range m.Data {
		if got.Data[i] != m.Data[i] {
			t.Fatalf("Data[%d] = %v, want %v", i, got.Data[i], m.Data[i])
		}
	}
}

func TestBinaryLayout(t *testing.T) {
	m, _ := NewFromRows(2, 2, []float64{
		1, 3,
		2, 4,
	})

	var buf bytes.Buffer
	if err := m.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()

	if rows := int32(binary.LittleEndian.Uint32(b[0:4])); rows != 2 {
		t.Errorf("header rows = %d, want 2", rows)
	}
	if cols := int32(binary.LittleEndian.Uint32(b[4:8])); cols != 2 {
		t.Errorf("header cols = %d, want 2", cols)
	}
	// values follow in column-major order: 1, 2, 3, 4
	for i, want := range []float64{1, 2, 3, 4} {
		bits := binary.LittleEndian.Uint64(b[8+8*i : 16+8*i])
		if got := math.Float64frombits(bits); got != want {
			t.Errorf("element %d = %v, want %v", i, got, want)
		}
	}
}

func TestReadBinaryTruncated(t *testing.T) {
	m := Ones(4, 4)
	var buf bytes.Buffer
	if err := m.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}

	cut := buf.Bytes()[:buf.Len()-8]
	if _, err := ReadBinary(bytes.NewReader(cut)); !errors.Is(err, errors.ErrTruncatedRecord) {
		t.Errorf("ReadBinary() on a truncated record: error = %v, want ErrTruncatedRecord", err)
	}

	headerOnly := buf.Bytes()[:4]
	if _, err := ReadBinary(bytes.NewReader(headerOnly)); !errors.Is(err, errors.ErrTruncatedRecord) {
		t.Errorf("ReadBinary() on a bare header: error = %v, want ErrTruncatedRecord", err)
	}

	// a read past the last record is a truncation too: callers that
	// expect another block must see the same sentinel
	if _, err := ReadBinary(bytes.NewReader(nil)); !errors.Is(err, errors.ErrTruncatedRecord) {
		t.Errorf("ReadBinary() on an exhausted stream: error = %v, want ErrTruncatedRecord", err)
	}
}

func TestReadBinaryNegativeDims(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, int32(-1))
	_ = binary.Write(&buf, binary.LittleEndian, int32(2))

	if _, err := ReadBinary(&buf); err == nil {
		t.Error("ReadBinary() with a negative dimension: expected error")
	}
}

func TestBinaryConcatenatedRecords(t *testing.T) {
	a := Ones(2, 3)
	b := Identity(4)

	var buf bytes.Buffer
	if err := a.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}

	gotA, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	gotB, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if !gotA.ApproxEqual(a, 0) || !gotB.ApproxEqual(b, 0) {
		t.Error("concatenated records did not round-trip")
	}
}

func TestTextRoundTrip(t *testing.T) {
	m, _ := NewFromRows(2, 3, []float64{
		1.5, -2, 3,
		0, 5.25, -6,
	})

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	got, err := ReadText(&buf)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if !got.ApproxEqual(m, 0) {
		t.Error("text round trip mismatch")
	}
}
