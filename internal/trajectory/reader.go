// Package trajectory reads LAMMPS dump files (".lammpstrj") as a stream of
// frames.
//
// Each frame is a sequence of ITEM sections:
//
//	ITEM: TIMESTEP
//	100
//	ITEM: NUMBER OF ATOMS
//	2
//	ITEM: BOX BOUNDS pp pp pp
//	0 20
//	0 20
//	0 20
//	ITEM: ATOMS id type x y z
//	1 1 5.0 5.0 5.0
//	2 2 15.0 15.0 15.0
//
// Atom columns may be given as x y z, xu yu zu or scaled xs ys zs. Triclinic
// tilt factors are read and ignored.
package trajectory

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/scene"
)

const (
	maxLineSize = 1 << 20
	// particleHint caps the preallocation taken from an atom count.
	particleHint = 1 << 16
)

// MaxAtoms is the largest atom count a frame header may declare.
const MaxAtoms = 1 << 30

// ParseError reports malformed input with its line number.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trajectory: line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("trajectory: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader is a scene.Source over a LAMMPS dump stream.
type Reader struct {
	sc    *bufio.Scanner
	line  int
	index int

	// a section header read past the end of the previous frame
	pending string
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// File is a Reader over an opened file.
type File struct {
	*Reader
	closers []io.Closer
}

// Open opens path for reading. Files ending in ".gz" are decompressed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tf := &File{closers: []io.Closer{f}}
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		tf.closers = append(tf.closers, gz)
		r = gz
	}
	tf.Reader = NewReader(r)
	return tf, nil
}

func (f *File) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		errs = append(errs, f.closers[i].Close())
	}
	return errors.Join(errs...)
}

// Index is the index the next frame returned by Next will carry.
func (r *Reader) Index() int { return r.index }

func (r *Reader) errorf(format string, args ...any) error {
	return &ParseError{Line: r.line, Msg: fmt.Sprintf(format, args...)}
}

func (r *Reader) readLine() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", &ParseError{Line: r.line, Msg: "read failed", Err: err}
		}
		return "", io.EOF
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), nil
}

// nextItem returns the next "ITEM:" header, skipping blank lines.
func (r *Reader) nextItem() (string, error) {
	if r.pending != "" {
		h := r.pending
		r.pending = ""
		return h, nil
	}
	for {
		l, err := r.readLine()
		if err != nil {
			return "", err
		}
		if l == "" {
			continue
		}
		if !strings.HasPrefix(l, "ITEM:") {
			return "", r.errorf("expected ITEM header, got %q", l)
		}
		return strings.TrimSpace(strings.TrimPrefix(l, "ITEM:")), nil
	}
}

// dataLine reads a line inside a section; EOF there is an error.
func (r *Reader) dataLine(section string) (string, error) {
	l, err := r.readLine()
	if errors.Is(err, io.EOF) {
		return "", r.errorf("unexpected end of file in %s", section)
	}
	return l, err
}

type frameState struct {
	frame   scene.Frame
	natoms  int
	haveN   bool
	haveBox bool
}

// Next returns the next frame, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (*scene.Frame, error) {
	st := frameState{frame: scene.Frame{Index: r.index}}
	started := false
	for {
		item, err := r.nextItem()
		if errors.Is(err, io.EOF) {
			if started {
				return nil, r.errorf("frame %d ends before its ATOMS section", r.index)
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		started = true

		switch {
		case item == "TIMESTEP":
			if err := r.readTimestep(&st); err != nil {
				return nil, err
			}
		case item == "NUMBER OF ATOMS":
			if err := r.readCount(&st); err != nil {
				return nil, err
			}
		case strings.HasPrefix(item, "BOX BOUNDS"):
			if err := r.readBox(&st); err != nil {
				return nil, err
			}
		case strings.HasPrefix(item, "ATOMS"):
			if err := r.readAtoms(&st, strings.Fields(strings.TrimPrefix(item, "ATOMS"))); err != nil {
				return nil, err
			}
			r.index++
			f := st.frame
			return &f, nil
		default:
			if err := r.skipSection(); err != nil {
				return nil, err
			}
		}
	}
}

// Seek skips frames until the next call to Next returns frame index.
func (r *Reader) Seek(index int) error {
	if index < r.index {
		return fmt.Errorf("trajectory: cannot seek back to frame %d from %d", index, r.index)
	}
	for r.index < index {
		if _, err := r.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("trajectory: frame %d not found (%d frames): %w", index, r.index, io.EOF)
			}
			return err
		}
	}
	return nil
}

func (r *Reader) readTimestep(st *frameState) error {
	l, err := r.dataLine("TIMESTEP")
	if err != nil {
		return err
	}
	ts, err := strconv.ParseInt(l, 10, 64)
	if err != nil {
		return &ParseError{Line: r.line, Msg: "bad timestep", Err: err}
	}
	st.frame.Timestep = ts
	return nil
}

func (r *Reader) readCount(st *frameState) error {
	l, err := r.dataLine("NUMBER OF ATOMS")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(l)
	if err != nil || n < 0 {
		return &ParseError{Line: r.line, Msg: "bad atom count " + strconv.Quote(l), Err: err}
	}
	if n > MaxAtoms {
		return r.errorf("atom count %d exceeds limit %d", n, MaxAtoms)
	}
	st.natoms = n
	st.haveN = true
	return nil
}

func (r *Reader) readBox(st *frameState) error {
	var lo, hi [3]float64
	for i := 0; i < 3; i++ {
		l, err := r.dataLine("BOX BOUNDS")
		if err != nil {
			return err
		}
		f := strings.Fields(l)
		if len(f) < 2 {
			return r.errorf("box bounds need two values, got %q", l)
		}
		if lo[i], err = strconv.ParseFloat(f[0], 64); err != nil {
			return &ParseError{Line: r.line, Msg: "bad box bound", Err: err}
		}
		if hi[i], err = strconv.ParseFloat(f[1], 64); err != nil {
			return &ParseError{Line: r.line, Msg: "bad box bound", Err: err}
		}
	}
	box := geom.NewBox(lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	if !box.Valid() {
		return r.errorf("box bounds inverted: %v > %v", box.Min, box.Max)
	}
	st.frame.Box = box
	st.haveBox = true
	return nil
}

type columns struct {
	id, typ    int
	x, y, z    int
	scaled     bool
	minColumns int
}

func parseColumns(names []string) (columns, bool) {
	c := columns{id: -1, typ: -1, x: -1, y: -1, z: -1}
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	if i, ok := idx["id"]; ok {
		c.id = i
	}
	i, ok := idx["type"]
	if !ok {
		return c, false
	}
	c.typ = i

	for _, set := range [][3]string{{"x", "y", "z"}, {"xu", "yu", "zu"}, {"xs", "ys", "zs"}, {"xsu", "ysu", "zsu"}} {
		x, okx := idx[set[0]]
		y, oky := idx[set[1]]
		z, okz := idx[set[2]]
		if okx && oky && okz {
			c.x, c.y, c.z = x, y, z
			c.scaled = strings.HasPrefix(set[0], "xs")
			break
		}
	}
	if c.x < 0 {
		return c, false
	}
	c.minColumns = max(c.id, c.typ, c.x, c.y, c.z) + 1
	return c, true
}

func (r *Reader) readAtoms(st *frameState, names []string) error {
	if !st.haveN {
		return r.errorf("ATOMS section before NUMBER OF ATOMS")
	}
	if !st.haveBox {
		return r.errorf("ATOMS section before BOX BOUNDS")
	}
	cols, ok := parseColumns(names)
	if !ok {
		return r.errorf("ATOMS columns %v need type and x y z (or xu/xs variants)", names)
	}

	box := st.frame.Box
	size := box.Size()
	st.frame.Particles = make([]scene.Particle, 0, min(st.natoms, particleHint))
	for i := 0; i < st.natoms; i++ {
		l, err := r.dataLine("ATOMS")
		if err != nil {
			return err
		}
		f := strings.Fields(l)
		if len(f) < cols.minColumns {
			return r.errorf("atom line has %d columns, need %d", len(f), cols.minColumns)
		}

		p := scene.Particle{ID: i + 1}
		if cols.id >= 0 {
			if p.ID, err = strconv.Atoi(f[cols.id]); err != nil {
				return &ParseError{Line: r.line, Msg: "bad atom id", Err: err}
			}
		}
		if p.Type, err = strconv.Atoi(f[cols.typ]); err != nil {
			return &ParseError{Line: r.line, Msg: "bad atom type", Err: err}
		}
		var v [3]float64
		for k, c := range [3]int{cols.x, cols.y, cols.z} {
			if v[k], err = strconv.ParseFloat(f[c], 64); err != nil {
				return &ParseError{Line: r.line, Msg: "bad coordinate", Err: err}
			}
		}
		p.Pos = geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
		if cols.scaled {
			p.Pos = geom.Vec3{
				X: box.Min.X + p.Pos.X*size.X,
				Y: box.Min.Y + p.Pos.Y*size.Y,
				Z: box.Min.Z + p.Pos.Z*size.Z,
			}
		}
		st.frame.Particles = append(st.frame.Particles, p)
	}
	return nil
}

// skipSection discards lines up to the next ITEM header.
func (r *Reader) skipSection() error {
	for {
		l, err := r.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.HasPrefix(l, "ITEM:") {
			r.pending = strings.TrimSpace(strings.TrimPrefix(l, "ITEM:"))
			return nil
		}
	}
}
