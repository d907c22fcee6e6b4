// Package projection maps world points through an accumulated rotation onto
// an orthographic image plane.
//
// View space is the world translated by the box center and rotated by the
// accumulated rotation. Its X axis is the depth axis (larger is nearer to the
// viewer) and its Y and Z axes span the image plane.
package projection

import (
	"math"

	"github.com/san-kum/trjrender/internal/geom"
)

// sizeTolerance absorbs floating-point drift before rounding canvas sizes up.
const sizeTolerance = 1e-9

// Projector owns a bounding box, an accumulated rotation and a scale.
// A Projector is not safe for concurrent mutation; once configured it may be
// read from several goroutines.
type Projector struct {
	box    geom.Box
	center geom.Vec3
	rot    geom.Mat3
	scale  float64
}

// New returns a projector for box with identity rotation. A negative scale
// means "auto-fit" and must be resolved by the caller, see FitScale.
func New(box geom.Box, scale float64) *Projector {
	return &Projector{
		box:    box,
		center: box.Center(),
		rot:    geom.Identity(),
		scale:  scale,
	}
}

// WithBox returns a projector for another box sharing p's rotation and scale.
func (p *Projector) WithBox(box geom.Box) *Projector {
	q := New(box, p.scale)
	q.rot = p.rot
	return q
}

func (p *Projector) Box() geom.Box       { return p.box }
func (p *Projector) Center() geom.Vec3   { return p.center }
func (p *Projector) Rotation() geom.Mat3 { return p.rot }
func (p *Projector) Scale() float64      { return p.scale }
func (p *Projector) SetScale(s float64)  { p.scale = s }
func (p *Projector) AutoFit() bool       { return p.scale < 0 }

// Rotate post-multiplies the accumulated rotation, so each call turns the
// current orientation rather than the original world axes.
func (p *Projector) Rotate(axis geom.Axis, degrees float64) {
	p.rot = p.rot.Mul(geom.Rotation(axis, degrees))
}

// ApplyRotation rotates a direction without translating it.
func (p *Projector) ApplyRotation(v geom.Vec3) geom.Vec3 {
	return p.rot.Apply(v)
}

func (p *Projector) ToView(world geom.Vec3) geom.Vec3 {
	return p.rot.Apply(world.Sub(p.center))
}

// Depth is the view-space X of world. Larger values are nearer the viewer, so
// drawing in ascending depth order paints far to near.
func (p *Projector) Depth(world geom.Vec3) float64 {
	return p.ToView(world).X
}

type extent struct {
	minY, maxY float64
	minZ, maxZ float64
}

func (e extent) width() float64  { return e.maxY - e.minY }
func (e extent) height() float64 { return e.maxZ - e.minZ }

// extent is the unscaled image-plane bounds of the rotated box.
func (p *Projector) extent() extent {
	e := extent{
		minY: math.Inf(1), maxY: math.Inf(-1),
		minZ: math.Inf(1), maxZ: math.Inf(-1),
	}
	for _, c := range p.box.Corners() {
		v := p.ToView(c)
		e.minY = math.Min(e.minY, v.Y)
		e.maxY = math.Max(e.maxY, v.Y)
		e.minZ = math.Min(e.minZ, v.Z)
		e.maxZ = math.Max(e.maxZ, v.Z)
	}
	return e
}

// CanvasSize returns the extent of the rotated box at the current scale,
// taken literally.
func (p *Projector) CanvasSize() (w, h float64) {
	e := p.extent()
	return e.width() * p.scale, e.height() * p.scale
}

// PixelSize rounds CanvasSize up so that every projected in-box point lies
// inside the integer canvas. Negative sizes clamp to zero and sizes beyond
// math.MaxInt32 clamp to it.
func (p *Projector) PixelSize() (int, int) {
	w, h := p.CanvasSize()
	return pixels(w), pixels(h)
}

func pixels(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(v - sizeTolerance))
}

// Project2D maps world to pixel coordinates with the rotated box centred in
// the canvas.
func (p *Projector) Project2D(world geom.Vec3) geom.Vec2 {
	v := p.ToView(world)
	e := p.extent()
	cy := 0.5 * (e.minY + e.maxY)
	cz := 0.5 * (e.minZ + e.maxZ)
	return geom.Vec2{
		X: (v.Y-cy)*p.scale + 0.5*e.width()*p.scale,
		Y: (v.Z-cz)*p.scale + 0.5*e.height()*p.scale,
	}
}

// FitScale returns the scale at which the larger canvas side is target pixels
// under the current rotation. A degenerate box yields 1.
func (p *Projector) FitScale(target float64) float64 {
	e := p.extent()
	m := math.Max(e.width(), e.height())
	if m <= 0 || target <= 0 {
		return 1
	}
	return target / m
}

// FrontFaces reports, per geom face index, whether the face is turned toward
// the viewer. The min face of an axis is in front when the rotated axis points
// away from the viewer (negative view X); the max face is then behind.
func (p *Projector) FrontFaces() [6]bool {
	var f [6]bool
	for i, a := range geom.Axes {
		away := p.ApplyRotation(a.Unit()).X < 0
		f[geom.FaceMinX+i] = away
		f[geom.FaceMaxX+i] = !away
	}
	return f
}

// VisibleEdges classifies the edges of geom.BoxEdges. An edge is visible when
// either of its two faces is in front.
func (p *Projector) VisibleEdges() [12]bool {
	faces := p.FrontFaces()
	var v [12]bool
	for i, ef := range geom.EdgeFaces {
		v[i] = faces[ef[0]] || faces[ef[1]]
	}
	return v
}
