package render_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trjrender/internal/filter"
	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/projection"
	"github.com/san-kum/trjrender/internal/render"
	"github.com/san-kum/trjrender/internal/scene"
	"github.com/san-kum/trjrender/internal/viz"
)

var (
	box      = geom.NewBox(0, 20, 0, 20, 0, 20)
	outline  = viz.RGB(1, 2, 3)
	redFill  = viz.RGB(230, 64, 64)
	bgColor  = viz.RGB(0, 0, 0)
	boxColor = viz.RGB(255, 255, 255)
)

func particle(typ int, x, y, z float64) scene.Particle {
	return scene.Particle{Type: typ, Pos: geom.Vec3{X: x, Y: y, Z: z}}
}

func pixel(c *viz.Canvas, x, y int) viz.Color {
	got, ok := c.At(x, y)
	Expect(ok).To(BeTrue(), "pixel (%d,%d) outside %dx%d", x, y, c.Width, c.Height)
	return viz.RGB(got.R, got.G, got.B)
}

var _ = Describe("Renderer", func() {
	var (
		proj *projection.Projector
		opts render.Options
	)

	BeforeEach(func() {
		proj = projection.New(box, 10)
		opts = render.DefaultOptions()
		Expect(opts.Styles.SetOutline(1, outline)).To(Succeed())
	})

	Context("with a single centred particle", func() {
		It("sizes the canvas from the projector and draws the particle at its center", func() {
			r := render.New(proj, opts)
			frame := &scene.Frame{Box: box, Particles: []scene.Particle{particle(1, 10, 10, 10)}}

			c, stats := r.Render(frame)
			Expect(c.Width).To(Equal(200))
			Expect(c.Height).To(Equal(200))
			Expect(stats.Drawn).To(Equal(1))

			Expect(pixel(c, 100, 100)).To(Equal(redFill))
			Expect(pixel(c, 103, 100)).To(Equal(redFill))
			Expect(pixel(c, 105, 100)).To(Equal(outline))
			Expect(pixel(c, 100, 95)).To(Equal(outline))
			Expect(pixel(c, 107, 100)).To(Equal(bgColor))
		})

		It("scales the disk radius with the configured type radius", func() {
			Expect(opts.Styles.SetRadius(1, 2)).To(Succeed())
			r := render.New(proj, opts)
			c, _ := r.Render(&scene.Frame{Box: box, Particles: []scene.Particle{particle(1, 10, 10, 10)}})

			Expect(pixel(c, 119, 100)).To(Equal(redFill))
			Expect(pixel(c, 120, 100)).To(Equal(outline))
			Expect(pixel(c, 121, 100)).To(Equal(bgColor))
		})
	})

	Context("with a filter chain", func() {
		It("draws only particles that pass every predicate", func() {
			opts.Filters = filter.Chain{filter.Above(geom.AxisX, 5)}
			r := render.New(proj, opts)
			frame := &scene.Frame{Box: box, Particles: []scene.Particle{
				particle(1, 3, 5, 10),
				particle(1, 7, 15, 10),
			}}

			c, stats := r.Render(frame)
			Expect(stats.Particles).To(Equal(2))
			Expect(stats.Drawn).To(Equal(1))
			Expect(pixel(c, 50, 100)).To(Equal(bgColor))
			Expect(pixel(c, 150, 100)).To(Equal(redFill))
		})

		It("produces a blank frame when everything is filtered out", func() {
			opts.Filters = filter.Chain{filter.Above(geom.AxisX, 100)}
			opts.DrawBox = false
			r := render.New(proj, opts)
			c, stats := r.Render(&scene.Frame{Box: box, Particles: []scene.Particle{particle(1, 10, 10, 10)}})

			Expect(stats.Drawn).To(BeZero())
			for i := 0; i < len(c.Pix); i += 4 {
				Expect(c.Pix[i : i+3]).To(Equal([]byte{0, 0, 0}))
			}
		})
	})

	Context("with overlapping particles", func() {
		It("paints the particle nearer the viewer last", func() {
			r := render.New(proj, opts)
			frame := &scene.Frame{Box: box, Particles: []scene.Particle{
				particle(2, 15, 10, 10),
				particle(1, 5, 10, 10),
			}}

			c, _ := r.Render(frame)
			Expect(pixel(c, 100, 100)).To(Equal(opts.Styles.Lookup(2).Fill))
		})

		It("uses the fallback style for types beyond the table", func() {
			r := render.New(proj, opts)
			c, _ := r.Render(&scene.Frame{Box: box, Particles: []scene.Particle{particle(render.MaxTypes+5, 10, 10, 10)}})
			Expect(pixel(c, 100, 100)).To(Equal(render.DefaultStyle.Fill))
		})
	})

	Context("with the box wireframe", func() {
		BeforeEach(func() {
			proj.Rotate(geom.AxisY, 45)
			proj.Rotate(geom.AxisZ, 30)
			proj.SetScale(5)
		})

		frontEdgesOnly := func(fill viz.Color) *viz.Canvas {
			p := proj.WithBox(box)
			w, h := p.PixelSize()
			c := viz.NewCanvas(w, h)
			c.SetColor(fill)
			c.FillRect(0, 0, w, h)
			c.SetColor(boxColor)
			corners := box.Corners()
			visible := p.VisibleEdges()
			for i, e := range geom.BoxEdges {
				if visible[i] {
					c.MoveToPoint(p.Project2D(corners[e[0]]))
					c.LineToPoint(p.Project2D(corners[e[1]]))
				}
			}
			return c
		}

		It("hides back edges behind particles and keeps front edges on top", func() {
			Expect(opts.Styles.SetRadius(1, 60)).To(Succeed())
			r := render.New(proj, opts)
			c, _ := r.Render(&scene.Frame{Box: box, Particles: []scene.Particle{particle(1, 10, 10, 10)}})

			Expect(c.Pix).To(Equal(frontEdgesOnly(redFill).Pix))
		})

		It("draws back edges when nothing covers them", func() {
			r := render.New(proj, opts)
			c, _ := r.Render(&scene.Frame{Box: box})

			front := frontEdgesOnly(bgColor)
			Expect(c.Pix).NotTo(Equal(front.Pix))

			boxPixels := func(cv *viz.Canvas) int {
				n := 0
				for y := 0; y < cv.Height; y++ {
					for x := 0; x < cv.Width; x++ {
						if pixel(cv, x, y) == boxColor {
							n++
						}
					}
				}
				return n
			}
			Expect(boxPixels(c)).To(BeNumerically(">", boxPixels(front)))
		})
	})

	It("renders the same frame to identical buffers", func() {
		proj.Rotate(geom.AxisX, 17)
		proj.Rotate(geom.AxisY, 41)
		r := render.New(proj, opts)
		frame := &scene.Frame{Box: box, Particles: []scene.Particle{
			particle(1, 2, 3, 4),
			particle(2, 2, 3, 4),
			particle(3, 18, 1, 9),
			particle(4, 10, 10, 10),
		}}

		a, _ := r.Render(frame)
		b, _ := r.Render(frame)
		Expect(bytes.Equal(a.Pix, b.Pix)).To(BeTrue())
	})

	It("renders a degenerate box to an empty canvas", func() {
		flat := geom.NewBox(0, 20, 5, 5, 0, 20)
		r := render.New(proj, opts)
		c, stats := r.Render(&scene.Frame{Box: flat, Particles: []scene.Particle{particle(1, 10, 5, 10)}})

		Expect(c.Width).To(BeZero())
		Expect(c.Pix).To(BeEmpty())
		Expect(stats.Drawn).To(Equal(1))
	})

	It("returns an empty canvas when the scale is too large to allocate", func() {
		r := render.New(projection.New(box, 1e10), opts)
		c, stats := r.Render(&scene.Frame{Box: box, Particles: []scene.Particle{particle(1, 10, 10, 10)}})

		Expect(c.Width).To(BeZero())
		Expect(c.Height).To(BeZero())
		Expect(c.Pix).To(BeEmpty())
		Expect(stats.Width).To(BeZero())
		Expect(stats.Drawn).To(Equal(1))
	})
})

var _ = Describe("StyleTable", func() {
	It("starts from the default palette", func() {
		t := render.NewStyleTable()
		Expect(t.Lookup(0)).To(Equal(render.DefaultStyle))
		Expect(t.Lookup(1).Fill).To(Equal(viz.RGB(230, 64, 64)))
		Expect(t.Lookup(4).Fill).To(Equal(viz.RGB(255, 210, 64)))
		Expect(t.Lookup(render.MaxTypes).Radius).To(Equal(0.5))
	})

	It("falls back for types outside the table", func() {
		t := render.NewStyleTable()
		Expect(t.Lookup(-1)).To(Equal(t.Fallback()))
		Expect(t.Lookup(render.MaxTypes + 1)).To(Equal(t.Fallback()))
	})

	It("rejects configuring types outside the table", func() {
		t := render.NewStyleTable()
		Expect(t.SetRadius(render.MaxTypes+1, 2)).To(MatchError(render.ErrTypeOutOfRange))
		Expect(t.SetFill(-1, viz.RGB(1, 1, 1))).To(MatchError(render.ErrTypeOutOfRange))
		Expect(t.SetRadius(3, 2)).To(Succeed())
		Expect(t.Lookup(3).Radius).To(Equal(2.0))
	})
})
