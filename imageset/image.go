// Package imageset provides the image and corpus collaborators of the
// recognition database: a PGM/PPM codec (the native corpus format),
// decoding of common formats into pixel buffers, directory scanning
// into ordered catalogs, and the filename-based class identity used to
// score recognition runs.
package imageset

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// Image is a fixed-size pixel buffer. Pixels are stored
// channel-interleaved in row-major order, Channels is 1 for grayscale
// (PGM) and 3 for RGB (PPM). All images in one corpus must share
// dimensions.
type Image struct {
	Channels int
	Height   int
	Width    int
	Pixels   []uint8
}

// Size returns the length of the image as a column vector.
func (img *Image) Size() int {
	return img.Channels * img.Height * img.Width
}

// Read loads an image from path. PGM and PPM files are decoded
// natively; PNG, JPEG, GIF and BMP inputs are decoded with the image
// registry and converted to grayscale.
func Read(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "imageset.Read")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pgm", ".ppm":
		img, err := DecodePNM(f)
		if err != nil {
			return nil, errors.Wrapf(err, "imageset.Read: %s", path)
		}
		return img, nil
	default:
		decoded, _, err := image.Decode(f)
		if err != nil {
			return nil, errors.Wrapf(err, "imageset.Read: %s", path)
		}
		return fromImage(decoded), nil
	}
}

// Write stores an image at path in PGM (1 channel) or PPM (3 channels)
// format.
func Write(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "imageset.Write")
	}
	defer f.Close()

	if err := EncodePNM(f, img); err != nil {
		return errors.Wrapf(err, "imageset.Write: %s", path)
	}
	return nil
}

// DecodePNM reads a binary PGM (P5) or PPM (P6) image.
func DecodePNM(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := pnmToken(br)
	if err != nil {
		return nil, err
	}

	var channels int
	switch magic {
	case "P5":
		channels = 1
	case "P6":
		channels = 3
	default:
		return nil, errors.NewValidationError("magic", "expected P5 or P6", magic)
	}

	var width, height, maxval int
	for _, dst := range []*int{&width, &height, &maxval} {
		tok, err := pnmToken(br)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Sscan(tok, dst); err != nil {
			return nil, errors.Wrap(err, "imageset.DecodePNM: header")
		}
	}
	if width <= 0 || height <= 0 {
		return nil, errors.NewValidationError("width/height",
			"image dimensions must be positive", [2]int{width, height})
	}
	if maxval <= 0 || maxval > 255 {
		return nil, errors.NewValidationError("maxval",
			"only 8-bit images are supported", maxval)
	}

	img := &Image{
		Channels: channels,
		Height:   height,
		Width:    width,
		Pixels:   make([]uint8, channels*height*width),
	}
	if _, err := io.ReadFull(br, img.Pixels); err != nil {
		return nil, errors.Wrap(err, "imageset.DecodePNM: pixel data")
	}
	return img, nil
}

// EncodePNM writes a binary PGM (P5) or PPM (P6) image.
func EncodePNM(w io.Writer, img *Image) error {
	var magic string
	switch img.Channels {
	case 1:
		magic = "P5"
	case 3:
		magic = "P6"
	default:
		return errors.NewValidationError("channels", "must be 1 or 3", img.Channels)
	}

	if _, err := fmt.Fprintf(w, "%s\n%d %d\n255\n", magic, img.Width, img.Height); err != nil {
		return errors.Wrap(err, "imageset.EncodePNM: header")
	}
	if _, err := w.Write(img.Pixels); err != nil {
		return errors.Wrap(err, "imageset.EncodePNM: pixel data")
	}
	return nil
}

// pnmToken returns the next whitespace-delimited header token, skipping
// comment lines starting with '#'.
func pnmToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", errors.Wrap(err, "imageset: PNM header")
		}
		switch {
		case b == '#':
			if _, err := br.ReadString('\n'); err != nil {
				return "", errors.Wrap(err, "imageset: PNM comment")
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(b)
		}
	}
}

// fromImage converts a decoded image to a grayscale pixel buffer.
func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), src, bounds.Min, draw.Src)

	return &Image{
		Channels: 1,
		Height:   bounds.Dy(),
		Width:    bounds.Dx(),
		Pixels:   gray.Pix,
	}
}

// Grayscale returns a single-channel copy of an RGB image using the
// BT.601 luma weights. Grayscale images are returned unchanged.
func Grayscale(img *Image) *Image {
	if img.Channels == 1 {
		return img
	}

	pixels := make([]uint8, img.Height*img.Width)
	for i := range pixels {
		r := float64(img.Pixels[3*i])
		g := float64(img.Pixels[3*i+1])
		b := float64(img.Pixels[3*i+2])
		pixels[i] = uint8(0.299*r + 0.587*g + 0.114*b)
	}
	return &Image{
		Channels: 1,
		Height:   img.Height,
		Width:    img.Width,
		Pixels:   pixels,
	}
}

// Resize returns a copy of a grayscale image scaled to width x height
// with bilinear interpolation. Corpora whose source images disagree in
// size must be resized to a common geometry before training.
func Resize(img *Image, width, height int) (*Image, error) {
	if img.Channels != 1 {
		return nil, errors.NewValidationError("channels",
			"resize supports grayscale images only", img.Channels)
	}

	src := &image.Gray{
		Pix:    img.Pixels,
		Stride: img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &Image{
		Channels: 1,
		Height:   height,
		Width:    width,
		Pixels:   dst.Pix,
	}, nil
}

// ToColumn writes the image's pixels into column col of m.
func ToColumn(m *matrix.Matrix, col int, img *Image) error {
	if m.Rows != img.Size() {
		return errors.NewDimensionError("imageset.ToColumn", m.Rows, img.Size(), 0)
	}
	dst := m.Data[col*m.Rows : (col+1)*m.Rows]
	for i, p := range img.Pixels {
		dst[i] = float64(p)
	}
	return nil
}

// FromColumn copies column col of m into the image's pixel buffer,
// truncating each value to a byte. Used to render mean faces and
// eigenfaces back out as images.
func FromColumn(m *matrix.Matrix, col int, img *Image) error {
	if m.Rows != img.Size() {
		return errors.NewDimensionError("imageset.FromColumn", m.Rows, img.Size(), 0)
	}
	src := m.Data[col*m.Rows : (col+1)*m.Rows]
	for i, v := range src {
		img.Pixels[i] = uint8(v)
	}
	return nil
}
