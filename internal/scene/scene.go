// Package scene defines the per-frame data handed from a frame source to the
// renderer.
package scene

import (
	"context"
	"errors"
	"io"

	"github.com/san-kum/trjrender/internal/geom"
)

// Particle is one point of a snapshot. Type is a small non-negative integer
// selecting the draw style.
type Particle struct {
	ID   int
	Type int
	Pos  geom.Vec3
}

// Frame is one snapshot: its bounding box and particles. Index is the
// zero-based position of the frame in its source and names the output file.
type Frame struct {
	Index     int
	Timestep  int64
	Box       geom.Box
	Particles []Particle
}

// Source yields frames in order. Next returns io.EOF after the last frame.
type Source interface {
	Next() (*Frame, error)
}

// ForEach pulls every remaining frame from src and calls fn on it. It stops at
// the first error from src or fn, or when ctx is done.
func ForEach(ctx context.Context, src Source, fn func(*Frame) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
}

// SliceSource serves frames from memory.
type SliceSource struct {
	frames []*Frame
	pos    int
}

func NewSliceSource(frames ...*Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

type prepended struct {
	first *Frame
	rest  Source
}

// Prepend returns a source that yields f and then the frames of rest.
func Prepend(f *Frame, rest Source) Source {
	return &prepended{first: f, rest: rest}
}

func (p *prepended) Next() (*Frame, error) {
	if f := p.first; f != nil {
		p.first = nil
		return f, nil
	}
	return p.rest.Next()
}
