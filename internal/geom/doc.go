// Package geom provides the vector and matrix algebra used by the renderer:
//
//   - [Vec3] and [Vec2]: value-type points
//   - [Mat3]: 3x3 rotation matrices backed by mgl64
//   - [Box]: axis-aligned bounding boxes with a fixed corner, edge and face
//     numbering shared by the projector and the renderer
//
// Rotations use the right-handed convention with angles in degrees.
// Composition follows the accumulated-orientation rule:
//
//	acc = acc.Mul(geom.Rotation(geom.AxisY, 45))
package geom
