package imageset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pranayyadav/face-recognition/matrix"
)

func testImage(channels, height, width int) *Image {
	img := &Image{
		Channels: channels,
		Height:   height,
		Width:    width,
		Pixels:   make([]uint8, channels*height*width),
	}
	for i := range img.Pixels {
		img.Pixels[i] = uint8(i * 7 % 256)
	}
	return img
}

func TestPNMRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		magic    string
	}{
		{"grayscale PGM", 1, "P5"},
		{"color PPM", 3, "P6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := testImage(tt.channels, 4, 3)

			var buf bytes.Buffer
			if err := EncodePNM(&buf, img); err != nil {
				t.Fatalf("EncodePNM() error = %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.magic) {
				t.Errorf("encoded magic = %q, want prefix %q", buf.String()[:2], tt.magic)
			}

			got, err := DecodePNM(&buf)
			if err != nil {
				t.Fatalf("DecodePNM() error = %v", err)
			}
			if got.Channels != img.Channels || got.Height != img.Height || got.Width != img.Width {
				t.Fatalf("decoded %dch %dx%d, want %dch %dx%d",
					got.Channels, got.Width, got.Height, img.Channels, img.Width, img.Height)
			}
			if !bytes.Equal(got.Pixels, img.Pixels) {
				t.Error("pixel data did not round-trip")
			}
		})
	}
}

func TestDecodePNMComments(t *testing.T) {
	raw := "P5\n# created by a scanner\n2 2\n# another comment\n255\nabcd"
	img, err := DecodePNM(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodePNM() error = %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("dims = %dx%d, want 2x2", img.Width, img.Height)
	}
	if string(img.Pixels) != "abcd" {
		t.Errorf("pixels = %q, want \"abcd\"", img.Pixels)
	}
}

func TestDecodePNMRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"wrong magic", "P3\n2 2\n255\nabcd"},
		{"zero width", "P5\n0 2\n255\n"},
		{"16-bit maxval", "P5\n2 2\n65535\nabcdabcd"},
		{"short pixel data", "P5\n2 2\n255\nab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePNM(strings.NewReader(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.pgm")

	img := testImage(1, 6, 5)
	if err := Write(path, img); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got.Pixels, img.Pixels) {
		t.Error("file round-trip changed pixel data")
	}
}

func TestGrayscale(t *testing.T) {
	rgb := &Image{Channels: 3, Height: 1, Width: 2, Pixels: []uint8{
		255, 255, 255,
		255, 0, 0,
	}}

	gray := Grayscale(rgb)
	if gray.Channels != 1 || len(gray.Pixels) != 2 {
		t.Fatalf("Grayscale dims = %dch %d pixels, want 1ch 2 pixels", gray.Channels, len(gray.Pixels))
	}
	if gray.Pixels[0] != 254 && gray.Pixels[0] != 255 {
		t.Errorf("white pixel = %d, want 255", gray.Pixels[0])
	}
	// red maps to the BT.601 luma weight
	if gray.Pixels[1] < 74 || gray.Pixels[1] > 78 {
		t.Errorf("red pixel = %d, want about 76", gray.Pixels[1])
	}

	// grayscale input passes through untouched
	g := testImage(1, 2, 2)
	if Grayscale(g) != g {
		t.Error("grayscale input should be returned unchanged")
	}
}

func TestResize(t *testing.T) {
	img := testImage(1, 8, 8)

	small, err := Resize(img, 4, 4)
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if small.Width != 4 || small.Height != 4 || len(small.Pixels) != 16 {
		t.Errorf("resized to %dx%d with %d pixels, want 4x4 with 16", small.Width, small.Height, len(small.Pixels))
	}

	if _, err := Resize(testImage(3, 4, 4), 2, 2); err == nil {
		t.Error("Resize() of a color image: expected error")
	}
}

func TestColumnBridging(t *testing.T) {
	img := testImage(1, 3, 2)
	m := matrix.New(img.Size(), 2)

	if err := ToColumn(m, 1, img); err != nil {
		t.Fatalf("ToColumn() error = %v", err)
	}
	for i, p := range img.Pixels {
		if m.At(i, 1) != float64(p) {
			t.Fatalf("column element %d = %v, want %d", i, m.At(i, 1), p)
		}
	}

	back := &Image{Channels: 1, Height: 3, Width: 2, Pixels: make([]uint8, 6)}
	if err := FromColumn(m, 1, back); err != nil {
		t.Fatalf("FromColumn() error = %v", err)
	}
	if !bytes.Equal(back.Pixels, img.Pixels) {
		t.Error("column round-trip changed pixel data")
	}

	short := matrix.New(3, 1)
	if err := ToColumn(short, 0, img); err == nil {
		t.Error("ToColumn() with mismatched size: expected error")
	}
	if err := FromColumn(short, 0, back); err == nil {
		t.Error("FromColumn() with mismatched size: expected error")
	}
}
