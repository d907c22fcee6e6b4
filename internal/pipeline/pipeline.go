// Package pipeline renders the frames of a source concurrently and writes one
// image file per frame.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/trjrender/internal/codec"
	"github.com/san-kum/trjrender/internal/logger"
	"github.com/san-kum/trjrender/internal/render"
	"github.com/san-kum/trjrender/internal/scene"
)

// FrameResult is the outcome of one rendered frame. Path is empty when the
// canvas had zero area and nothing was written.
type FrameResult struct {
	render.Stats
	Timestep int64
	Path     string
}

type Pipeline struct {
	renderer *render.Renderer
	enc      codec.Encoder
	dir      string
	prefix   string
	workers  int

	// OnFrame, if set, is called after each frame is written. Calls may come
	// from several goroutines.
	OnFrame func(FrameResult)
}

func New(r *render.Renderer, enc codec.Encoder, dir, prefix string, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{renderer: r, enc: enc, dir: dir, prefix: prefix, workers: workers}
}

func (p *Pipeline) Workers() int { return p.workers }

// Run renders every frame of src. Frames are read sequentially; rendering and
// encoding run on up to p.workers goroutines. The first error stops the run.
// Results are ordered by frame index.
func (p *Pipeline) Run(ctx context.Context, src scene.Source) ([]FrameResult, error) {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return nil, fmt.Errorf("pipeline: create output dir: %w", err)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	var mu sync.Mutex
	results := make([]FrameResult, 0)

	readErr := scene.ForEach(gctx, src, func(f *scene.Frame) error {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.renderFrame(f)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			if p.OnFrame != nil {
				p.OnFrame(res)
			}
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	logger.Info("render complete",
		zap.Int("frames", len(results)),
		zap.Int("workers", p.workers),
		zap.String("dir", p.dir),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func (p *Pipeline) renderFrame(f *scene.Frame) (FrameResult, error) {
	canvas, stats := p.renderer.Render(f)
	res := FrameResult{Stats: stats, Timestep: f.Timestep}

	if stats.Width <= 0 || stats.Height <= 0 {
		logger.Warn("skipping zero-area frame",
			zap.Int("index", f.Index),
			zap.Int("width", stats.Width),
			zap.Int("height", stats.Height),
		)
		return res, nil
	}

	path := filepath.Join(p.dir, codec.FrameName(p.prefix, f.Index, p.enc.Ext()))
	if err := writeFile(path, func(w io.Writer) error { return canvas.Save(p.enc, w) }); err != nil {
		if errors.Is(err, codec.ErrEmptyImage) {
			logger.Warn("skipping empty image", zap.Int("index", f.Index))
			return res, nil
		}
		logger.Error("frame failed", zap.Int("index", f.Index), zap.String("file", path), zap.Error(err))
		return res, fmt.Errorf("pipeline: frame %d: %w", f.Index, err)
	}
	res.Path = path

	logger.Debug("frame written",
		zap.Int("index", f.Index),
		zap.Int64("timestep", f.Timestep),
		zap.String("file", path),
		zap.Int("drawn", stats.Drawn),
	)
	return res, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := fn(bw); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
