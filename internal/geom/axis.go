package geom

import (
	"fmt"
	"strings"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the three axes in the order rotations are applied at setup.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Unit returns the world-space unit vector along a.
func (a Axis) Unit() Vec3 {
	switch a {
	case AxisY:
		return Vec3{0, 1, 0}
	case AxisZ:
		return Vec3{0, 0, 1}
	default:
		return Vec3{1, 0, 0}
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis: %q", s)
}

// UnmarshalText lets axes appear as "x", "y" or "z" in config files.
func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
