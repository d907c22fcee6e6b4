package geom

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min, Max Vec3
}

func NewBox(xlo, xhi, ylo, yhi, zlo, zhi float64) Box {
	return Box{Min: Vec3{xlo, ylo, zlo}, Max: Vec3{xhi, yhi, zhi}}
}

func (b Box) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b Box) Size() Vec3   { return b.Max.Sub(b.Min) }

// Valid reports whether Min <= Max component-wise.
func (b Box) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Corners returns the 8 corners. Bit 0 of the index selects max X, bit 1 max
// Y and bit 2 max Z.
func (b Box) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := range c {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		c[i] = p
	}
	return c
}

// Face indices. A box face is identified by its outward normal.
const (
	FaceMinX = iota
	FaceMinY
	FaceMinZ
	FaceMaxX
	FaceMaxY
	FaceMaxZ
)

// BoxEdges lists the 12 edges of a box as pairs of Corners indices.
var BoxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// EdgeFaces names the two faces adjoining each edge of BoxEdges.
var EdgeFaces = [12][2]int{
	{FaceMinY, FaceMinZ}, {FaceMinZ, FaceMaxY}, {FaceMinY, FaceMaxZ}, {FaceMaxY, FaceMaxZ},
	{FaceMinX, FaceMinZ}, {FaceMinZ, FaceMaxX}, {FaceMinX, FaceMaxZ}, {FaceMaxX, FaceMaxZ},
	{FaceMinX, FaceMinY}, {FaceMinY, FaceMaxX}, {FaceMinX, FaceMaxY}, {FaceMaxX, FaceMaxY},
}
