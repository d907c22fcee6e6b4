package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecNear(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestVecOps(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("add: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("scale: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("dot: got %f", got)
	}
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("cross: got %v", got)
	}
	if got := (Vec3{3, 0, 4}).Normalize(); !vecNear(got, Vec3{0.6, 0, 0.8}) {
		t.Errorf("normalize: got %v", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("expected zero vector, got %v", got)
	}
}

func TestRotationRightHanded(t *testing.T) {
	tests := []struct {
		axis Axis
		in   Vec3
		want Vec3
	}{
		{AxisX, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{AxisY, Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{AxisZ, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		got := Rotation(tt.axis, 90).Apply(tt.in)
		if !vecNear(got, tt.want) {
			t.Errorf("rotate %s by 90: got %v, want %v", tt.axis, got, tt.want)
		}
	}
}

func TestRotationComposition(t *testing.T) {
	acc := Identity().Mul(Rotation(AxisY, 45)).Mul(Rotation(AxisZ, 30))
	v := Vec3{1, 2, 3}

	want := Rotation(AxisY, 45).Apply(Rotation(AxisZ, 30).Apply(v))
	if got := acc.Apply(v); !vecNear(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// orthonormal: R * R^T = I
	if !acc.Mul(acc.Transpose()).ApproxEqual(Identity(), 1e-12) {
		t.Error("accumulated rotation is not orthonormal")
	}
}

func TestRotationInverse(t *testing.T) {
	for _, a := range Axes {
		m := Rotation(a, 37).Mul(Rotation(a, -37))
		if !m.ApproxEqual(Identity(), 1e-12) {
			t.Errorf("axis %s: rotation by +37 then -37 is not identity", a)
		}
	}
}

func TestParseAxis(t *testing.T) {
	for s, want := range map[string]Axis{"x": AxisX, "Y": AxisY, " z ": AxisZ} {
		got, err := ParseAxis(s)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseAxis("w"); err == nil {
		t.Error("expected error for unknown axis")
	}
}

func TestBoxCorners(t *testing.T) {
	b := NewBox(0, 1, 0, 2, 0, 3)
	c := b.Corners()

	if c[0] != b.Min || c[7] != b.Max {
		t.Errorf("unexpected extreme corners: %v %v", c[0], c[7])
	}
	if c[1] != (Vec3{1, 0, 0}) || c[2] != (Vec3{0, 2, 0}) || c[4] != (Vec3{0, 0, 3}) {
		t.Errorf("unexpected corner order: %v", c)
	}
	if b.Center() != (Vec3{0.5, 1, 1.5}) {
		t.Errorf("unexpected center %v", b.Center())
	}
}

func TestBoxEdgesLieOnTheirFaces(t *testing.T) {
	b := NewBox(0, 1, 0, 1, 0, 1)
	c := b.Corners()

	onFace := func(p Vec3, face int) bool {
		switch face {
		case FaceMinX:
			return p.X == b.Min.X
		case FaceMinY:
			return p.Y == b.Min.Y
		case FaceMinZ:
			return p.Z == b.Min.Z
		case FaceMaxX:
			return p.X == b.Max.X
		case FaceMaxY:
			return p.Y == b.Max.Y
		case FaceMaxZ:
			return p.Z == b.Max.Z
		}
		return false
	}

	for i, e := range BoxEdges {
		for _, f := range EdgeFaces[i] {
			if !onFace(c[e[0]], f) || !onFace(c[e[1]], f) {
				t.Errorf("edge %d %v does not lie on face %d", i, e, f)
			}
		}
	}
}
