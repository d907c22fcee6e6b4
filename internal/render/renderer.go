package render

import (
	"slices"

	"github.com/san-kum/trjrender/internal/filter"
	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/projection"
	"github.com/san-kum/trjrender/internal/scene"
	"github.com/san-kum/trjrender/internal/viz"
)

// Options configure a Renderer. The zero value draws no box on a black
// background with the default style table.
type Options struct {
	Background viz.Color
	BoxLine    viz.Color
	DrawBox    bool
	Styles     *StyleTable
	Filters    filter.Chain
}

func DefaultOptions() Options {
	return Options{
		Background: viz.RGB(0, 0, 0),
		BoxLine:    viz.RGB(255, 255, 255),
		DrawBox:    true,
		Styles:     NewStyleTable(),
	}
}

// Stats summarises one rendered frame.
type Stats struct {
	Index     int
	Width     int
	Height    int
	Particles int
	Drawn     int
}

// Renderer composes frames with a three-pass painter's algorithm: hidden box
// edges, particles far to near, visible box edges.
//
// The projector supplies rotation and scale; each frame's own box is
// substituted at render time. The projector, style table and filters must not
// change while frames are being rendered, after which Render is safe for
// concurrent use.
type Renderer struct {
	proj *projection.Projector
	opts Options
}

func New(proj *projection.Projector, opts Options) *Renderer {
	if opts.Styles == nil {
		opts.Styles = NewStyleTable()
	}
	return &Renderer{proj: proj, opts: opts}
}

func (r *Renderer) Projector() *projection.Projector { return r.proj }
func (r *Renderer) Options() Options                 { return r.opts }

type depthSorted struct {
	p     scene.Particle
	depth float64
}

// Render draws f onto a freshly allocated canvas.
func (r *Renderer) Render(f *scene.Frame) (*viz.Canvas, Stats) {
	proj := r.proj.WithBox(f.Box)
	canvas := viz.NewCanvas(proj.PixelSize())
	sorted := r.sortParticles(proj, f.Particles)
	stats := Stats{
		Index:     f.Index,
		Width:     canvas.Width,
		Height:    canvas.Height,
		Particles: len(f.Particles),
		Drawn:     len(sorted),
	}
	if canvas.Width == 0 || canvas.Height == 0 {
		return canvas, stats
	}

	canvas.SetColor(r.opts.Background)
	canvas.FillRect(0, 0, canvas.Width, canvas.Height)

	var visible [12]bool
	if r.opts.DrawBox {
		visible = proj.VisibleEdges()
		r.drawBox(canvas, proj, visible, false)
	}

	r.drawParticles(canvas, proj, sorted)

	if r.opts.DrawBox {
		r.drawBox(canvas, proj, visible, true)
	}

	return canvas, stats
}

// drawBox draws the box edges whose visibility matches front.
func (r *Renderer) drawBox(c *viz.Canvas, proj *projection.Projector, visible [12]bool, front bool) {
	corners := proj.Box().Corners()
	c.SetColor(r.opts.BoxLine)
	for i, e := range geom.BoxEdges {
		if visible[i] != front {
			continue
		}
		c.MoveToPoint(proj.Project2D(corners[e[0]]))
		c.LineToPoint(proj.Project2D(corners[e[1]]))
	}
}

// sortParticles returns the particles passing the filters, far to near.
func (r *Renderer) sortParticles(proj *projection.Projector, particles []scene.Particle) []depthSorted {
	sorted := make([]depthSorted, 0, len(particles))
	for _, p := range particles {
		if !r.opts.Filters.Allow(p) {
			continue
		}
		sorted = append(sorted, depthSorted{p: p, depth: proj.Depth(p.Pos)})
	}
	slices.SortStableFunc(sorted, func(a, b depthSorted) int {
		switch {
		case a.depth < b.depth:
			return -1
		case a.depth > b.depth:
			return 1
		}
		return 0
	})
	return sorted
}

func (r *Renderer) drawParticles(c *viz.Canvas, proj *projection.Projector, sorted []depthSorted) {
	scale := proj.Scale()
	for _, d := range sorted {
		st := r.opts.Styles.Lookup(d.p.Type)
		radius := int(st.Radius * scale)
		x, y := proj.Project2D(d.p.Pos).Ints()

		c.SetColor(st.Fill)
		c.FillCircle(x, y, radius)
		c.SetColor(st.Outline)
		c.DrawCircle(x, y, radius)
	}
}
