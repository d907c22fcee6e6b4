package codec

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/png"
	"strings"
	"testing"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func testPixels(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = byte(i)
		pix[i+1] = 64
		pix[i+2] = 200
		pix[i+3] = 0xff
	}
	return pix
}

func TestEncodeDecodeDimensions(t *testing.T) {
	for _, format := range Formats() {
		if format == "svg" {
			continue
		}
		t.Run(format, func(t *testing.T) {
			enc, err := New(format)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			var buf bytes.Buffer
			if err := enc.Encode(&buf, testPixels(7, 5), 7, 5); err != nil {
				t.Fatalf("encode: %v", err)
			}
			cfg, name, err := image.DecodeConfig(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if name != enc.Ext() {
				t.Errorf("decoded as %s, expected %s", name, enc.Ext())
			}
			if cfg.Width != 7 || cfg.Height != 5 {
				t.Errorf("expected 7x5, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestPNGIsLossless(t *testing.T) {
	enc, _ := New("png")
	pix := testPixels(4, 3)
	var buf bytes.Buffer
	if err := enc.Encode(&buf, pix, 4, 3); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, _, err := image.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(1, 0).RGBA()
	if byte(r>>8) != pix[4] || byte(g>>8) != 64 || byte(b>>8) != 200 {
		t.Errorf("pixel changed: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New("jpeg2000"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if enc, err := New(".TIF"); err != nil || enc.Ext() != "tiff" {
		t.Errorf("expected tif alias, got %v", err)
	}
}

func TestEncodeErrors(t *testing.T) {
	enc, _ := New("png")
	var buf bytes.Buffer

	if err := enc.Encode(&buf, make([]byte, 10), 2, 2); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
	if err := enc.Encode(&buf, nil, 0, 10); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}

func TestFrameName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "frame.0000.png"},
		{42, "frame.0042.png"},
		{12345, "frame.12345.png"},
	}
	for _, tt := range tests {
		if got := FrameName("frame", tt.index, "png"); got != tt.want {
			t.Errorf("FrameName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
	if FrameName("f", 9, "png") >= FrameName("f", 10, "png") {
		t.Error("frame names do not sort in frame order")
	}
}

func TestSVGRuns(t *testing.T) {
	// 3x2: black background with a red run of two pixels on the second row.
	pix := make([]byte, 3*2*4)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
	for _, x := range []int{1, 2} {
		o := (3 + x) * 4
		pix[o] = 0xff
	}

	enc, err := New("svg")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, pix, 3, 2); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `width="3" height="2"`) {
		t.Errorf("missing dimensions: %s", out)
	}
	if !strings.Contains(out, `fill="#000000"`) {
		t.Errorf("missing background: %s", out)
	}
	if !strings.Contains(out, `<rect x="1" y="1" width="2" height="1" fill="#ff0000"/>`) {
		t.Errorf("missing red run: %s", out)
	}
	if strings.Count(out, "<rect") != 2 {
		t.Errorf("expected background plus one run, got %s", out)
	}
}
