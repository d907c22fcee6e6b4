// Package codec encodes raw RGBA canvases into raster image files.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	ErrUnknownFormat = errors.New("codec: unknown image format")
	ErrSizeMismatch  = errors.New("codec: pixel data size mismatch")
	ErrEmptyImage    = errors.New("codec: image has zero area")
)

// Encoder writes an RGBA row-major buffer as an image file.
type Encoder interface {
	Encode(w io.Writer, pix []byte, width, height int) error
	// Ext is the file extension without the dot.
	Ext() string
}

type encodeFunc func(w io.Writer, img *image.RGBA) error

type imageEncoder struct {
	ext    string
	encode encodeFunc
}

func (e imageEncoder) Ext() string { return e.ext }

func (e imageEncoder) Encode(w io.Writer, pix []byte, width, height int) error {
	img, err := ToImage(pix, width, height)
	if err != nil {
		return err
	}
	return e.encode(w, img)
}

var encoders = map[string]imageEncoder{
	"png": {ext: "png", encode: encodePNG},
	"bmp": {ext: "bmp", encode: func(w io.Writer, img *image.RGBA) error { return bmp.Encode(w, img) }},
	"tiff": {ext: "tiff", encode: func(w io.Writer, img *image.RGBA) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}},
	"gif": {ext: "gif", encode: encodeGIF},
	"svg": {ext: "svg", encode: encodeSVG},
}

var aliases = map[string]string{
	"tif": "tiff",
}

// New returns the encoder for format: "png", "bmp", "tiff", "gif" or "svg".
func New(format string) (Encoder, error) {
	name := strings.ToLower(strings.TrimPrefix(format, "."))
	if a, ok := aliases[name]; ok {
		name = a
	}
	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, format, Formats())
	}
	return enc, nil
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToImage wraps pix as an *image.RGBA without copying.
func ToImage(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSizeMismatch, width*height*4, len(pix))
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

func encodePNG(w io.Writer, img *image.RGBA) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// encodeGIF quantizes to the Plan 9 palette without dithering so flat
// particle colors stay flat.
func encodeGIF(w io.Writer, img *image.RGBA) error {
	pal := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.Draw(pal, pal.Rect, img, img.Rect.Min, draw.Src)
	return gif.Encode(w, pal, &gif.Options{NumColors: len(palette.Plan9)})
}

// FrameName is the output file name of frame index, zero-padded so that
// lexical order is frame order.
func FrameName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s.%04d.%s", prefix, index, ext)
}
