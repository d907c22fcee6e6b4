package render

import (
	"errors"
	"fmt"

	"github.com/san-kum/trjrender/internal/viz"
)

// MaxTypes is the largest particle type with its own style entry.
const MaxTypes = 16

var ErrTypeOutOfRange = errors.New("render: particle type out of range")

// Style is how particles of one type are drawn. Radius is in world units and
// is multiplied by the projector scale.
type Style struct {
	Fill    viz.Color
	Outline viz.Color
	Radius  float64
}

var DefaultStyle = Style{
	Fill:    viz.RGB(64, 128, 255),
	Outline: viz.RGB(0, 0, 0),
	Radius:  0.5,
}

// StyleTable maps particle types 0..MaxTypes to styles. Other types use the
// fallback style.
type StyleTable struct {
	styles   [MaxTypes + 1]Style
	fallback Style
}

func NewStyleTable() *StyleTable {
	t := &StyleTable{fallback: DefaultStyle}
	for i := range t.styles {
		t.styles[i] = DefaultStyle
	}
	t.styles[1].Fill = viz.RGB(230, 64, 64)
	t.styles[2].Fill = viz.RGB(64, 200, 64)
	t.styles[3].Fill = viz.RGB(64, 100, 255)
	t.styles[4].Fill = viz.RGB(255, 210, 64)
	return t
}

func (t *StyleTable) Lookup(typ int) Style {
	if typ < 0 || typ > MaxTypes {
		return t.Fallback()
	}
	return t.styles[typ]
}

// Fallback is the style of types outside 0..MaxTypes.
func (t *StyleTable) Fallback() Style { return t.fallback }

func (t *StyleTable) Set(typ int, s Style) error {
	if typ < 0 || typ > MaxTypes {
		return fmt.Errorf("%w: %d (max %d)", ErrTypeOutOfRange, typ, MaxTypes)
	}
	t.styles[typ] = s
	return nil
}

func (t *StyleTable) SetRadius(typ int, r float64) error {
	s := t.Lookup(typ)
	s.Radius = r
	return t.Set(typ, s)
}

func (t *StyleTable) SetFill(typ int, c viz.Color) error {
	s := t.Lookup(typ)
	s.Fill = c
	return t.Set(typ, s)
}

func (t *StyleTable) SetOutline(typ int, c viz.Color) error {
	s := t.Lookup(typ)
	s.Outline = c
	return t.Set(typ, s)
}
