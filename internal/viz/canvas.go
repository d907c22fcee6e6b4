package viz

import (
	"image/color"
	"io"

	"github.com/san-kum/trjrender/internal/geom"
)

const bytesPerPixel = 4

// Color is an opaque RGB color. Drawing never changes the alpha channel.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{r, g, b} }

// RGBA converts c to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA { return color.RGBA{c.R, c.G, c.B, 0xff} }

// Encoder writes a raw RGBA buffer in some raster format.
type Encoder interface {
	Encode(w io.Writer, pix []byte, width, height int) error
}

// Canvas is an RGBA pixel buffer with a pen-plotter style drawing API: a
// current position and a current color mutated by the drawing calls.
type Canvas struct {
	Width, Height int
	Pix           []byte

	cx, cy int
	color  Color
}

// Canvas allocations are bounded by these limits.
const (
	MaxSide   = 1 << 15
	MaxPixels = 1 << 27
)

// Fits reports whether a w x h canvas is within MaxSide and MaxPixels.
func Fits(w, h int) bool {
	return w >= 0 && h >= 0 && w <= MaxSide && h <= MaxSide && w*h <= MaxPixels
}

// NewCanvas allocates a w x h canvas filled with opaque white. Non-positive
// sizes, and sizes that do not fit, give an empty canvas on which every draw
// is a no-op.
func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if !Fits(w, h) {
		w, h = 0, 0
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Pix:    make([]byte, w*h*bytesPerPixel),
	}
	for i := range c.Pix {
		c.Pix[i] = 0xff
	}
	return c
}

// Set writes the current color at (x, y). Writes outside the canvas are
// dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	p := (y*c.Width + x) * bytesPerPixel
	c.Pix[p] = c.color.R
	c.Pix[p+1] = c.color.G
	c.Pix[p+2] = c.color.B
}

// At returns the color at (x, y) and false when the point is off canvas.
func (c *Canvas) At(x, y int) (color.RGBA, bool) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return color.RGBA{}, false
	}
	p := (y*c.Width + x) * bytesPerPixel
	return color.RGBA{c.Pix[p], c.Pix[p+1], c.Pix[p+2], c.Pix[p+3]}, true
}

func (c *Canvas) SetColor(col Color)      { c.color = col }
func (c *Canvas) SetRGB(r, g, b uint8)    { c.color = Color{r, g, b} }
func (c *Canvas) Color() Color            { return c.color }
func (c *Canvas) Position() (int, int)    { return c.cx, c.cy }
func (c *Canvas) MoveTo(x, y int)         { c.cx, c.cy = x, y }
func (c *Canvas) MoveToPoint(p geom.Vec2) { c.MoveTo(p.Ints()) }
func (c *Canvas) LineToPoint(p geom.Vec2) { c.LineTo(p.Ints()) }

// LineTo draws a line from the current position to (x, y) using Bresenham's
// algorithm and leaves the current position at (x, y).
func (c *Canvas) LineTo(x, y int) {
	x0, y0 := c.cx, c.cy
	dx := absInt(x - x0)
	dy := absInt(y - y0)
	sx := -1
	if x0 < x {
		sx = 1
	}
	sy := -1
	if y0 < y {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x && y0 == y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	c.cx, c.cy = x, y
}

// FillRect fills the w x h rectangle with top-left corner (x, y).
func (c *Canvas) FillRect(x, y, w, h int) {
	for iy := max(y, 0); iy < min(y+h, c.Height); iy++ {
		c.hspan(x, x+w-1, iy)
	}
}

// hspan sets (x0..x1, y) inclusive, clipped to the canvas.
func (c *Canvas) hspan(x0, x1, y int) {
	if y < 0 || y >= c.Height {
		return
	}
	for x := max(x0, 0); x <= min(x1, c.Width-1); x++ {
		c.Set(x, y)
	}
}

// vspan sets (x, y0..y1) inclusive, clipped to the canvas.
func (c *Canvas) vspan(x, y0, y1 int) {
	if x < 0 || x >= c.Width {
		return
	}
	for y := max(y0, 0); y <= min(y1, c.Height-1); y++ {
		c.Set(x, y)
	}
}

// DrawRect outlines the rectangle spanning (x, y) to (x+w, y+h) inclusive.
func (c *Canvas) DrawRect(x, y, w, h int) {
	for iy := y; iy <= y+h; iy++ {
		c.Set(x, iy)
		c.Set(x+w, iy)
	}
	for ix := x; ix <= x+w; ix++ {
		c.Set(ix, y)
		c.Set(ix, y+h)
	}
}

// FillCircle draws a filled disk of radius r centred on (x0, y0) with the
// midpoint circle recurrence, four horizontal/vertical spans per step.
func (c *Canvas) FillCircle(x0, y0, r int) {
	x, y := r, 0
	f := 3 - 2*r
	for x >= y {
		c.hspan(x0-x, x0+x, y0+y)
		c.hspan(x0-x, x0+x, y0-y)
		c.vspan(x0+y, y0-x, y0+x)
		c.vspan(x0-y, y0-x, y0+x)
		if f >= 0 {
			x--
			f -= 4 * x
		}
		y++
		f += 4*y + 2
	}
}

// DrawCircle outlines a circle of radius r centred on (x0, y0), eight
// symmetric points per step.
func (c *Canvas) DrawCircle(x0, y0, r int) {
	x, y := r, 0
	f := 3 - 2*r
	for x >= y {
		c.Set(x0+x, y0+y)
		c.Set(x0-x, y0+y)
		c.Set(x0+x, y0-y)
		c.Set(x0-x, y0-y)
		c.Set(x0+y, y0+x)
		c.Set(x0-y, y0+x)
		c.Set(x0+y, y0-x)
		c.Set(x0-y, y0-x)
		if f >= 0 {
			x--
			f -= 4 * x
		}
		y++
		f += 4*y + 2
	}
}

// Save hands the buffer to enc.
func (c *Canvas) Save(enc Encoder, w io.Writer) error {
	return enc.Encode(w, c.Pix, c.Width, c.Height)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
