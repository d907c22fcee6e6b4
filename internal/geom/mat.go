package geom

import "github.com/go-gl/mathgl/mgl64"

// Mat3 is a 3x3 rotation matrix. Storage is column-major as in mgl64.
type Mat3 mgl64.Mat3

func Identity() Mat3 { return Mat3(mgl64.Ident3()) }

// Rotation returns the right-handed rotation about axis by the given angle in
// degrees.
func Rotation(axis Axis, degrees float64) Mat3 {
	a := mgl64.DegToRad(degrees)
	switch axis {
	case AxisY:
		return Mat3(mgl64.Rotate3DY(a))
	case AxisZ:
		return Mat3(mgl64.Rotate3DZ(a))
	default:
		return Mat3(mgl64.Rotate3DX(a))
	}
}

// Mul returns m * o, i.e. o applied first when the product acts on a vector.
func (m Mat3) Mul(o Mat3) Mat3 {
	return Mat3(mgl64.Mat3(m).Mul3(mgl64.Mat3(o)))
}

func (m Mat3) Apply(v Vec3) Vec3 {
	r := mgl64.Mat3(m).Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return Vec3{r[0], r[1], r[2]}
}

func (m Mat3) At(row, col int) float64 { return mgl64.Mat3(m).At(row, col) }

func (m Mat3) Transpose() Mat3 { return Mat3(mgl64.Mat3(m).Transpose()) }

func (m Mat3) ApproxEqual(o Mat3, eps float64) bool {
	return mgl64.Mat3(m).ApproxEqualThreshold(mgl64.Mat3(o), eps)
}
