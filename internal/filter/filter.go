// Package filter selects which particles are drawn.
package filter

import (
	"fmt"
	"slices"

	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/scene"
)

// Predicate reports whether a particle should be drawn.
type Predicate func(scene.Particle) bool

// Chain is an ordered list of predicates combined with logical AND. The empty
// chain admits every particle.
type Chain []Predicate

func (c Chain) Allow(p scene.Particle) bool {
	for _, pred := range c {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Above admits particles whose coordinate along axis is strictly greater than v.
func Above(axis geom.Axis, v float64) Predicate {
	return func(p scene.Particle) bool { return p.Pos.Component(axis) > v }
}

// Below admits particles whose coordinate along axis is strictly less than v.
func Below(axis geom.Axis, v float64) Predicate {
	return func(p scene.Particle) bool { return p.Pos.Component(axis) < v }
}

// Types admits particles of the listed types.
func Types(types ...int) Predicate {
	set := slices.Clone(types)
	return func(p scene.Particle) bool { return slices.Contains(set, p.Type) }
}

// Spec is a declarative range on one axis. Nil bounds are open.
type Spec struct {
	Axis geom.Axis `yaml:"axis"`
	Min  *float64  `yaml:"min,omitempty"`
	Max  *float64  `yaml:"max,omitempty"`
}

func (s Spec) String() string {
	lo, hi := "-inf", "+inf"
	if s.Min != nil {
		lo = fmt.Sprintf("%g", *s.Min)
	}
	if s.Max != nil {
		hi = fmt.Sprintf("%g", *s.Max)
	}
	return fmt.Sprintf("%s < %s < %s", lo, s.Axis, hi)
}

// Range expands a spec into zero, one or two predicates.
func Range(s Spec) Chain {
	var c Chain
	if s.Min != nil {
		c = append(c, Above(s.Axis, *s.Min))
	}
	if s.Max != nil {
		c = append(c, Below(s.Axis, *s.Max))
	}
	return c
}

// FromSpecs builds a chain from specs in order.
func FromSpecs(specs []Spec) Chain {
	var c Chain
	for _, s := range specs {
		c = append(c, Range(s)...)
	}
	return c
}
