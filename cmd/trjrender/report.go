package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/trjrender/internal/config"
	"github.com/san-kum/trjrender/internal/filter"
	"github.com/san-kum/trjrender/internal/scene"
	"github.com/san-kum/trjrender/internal/trajectory"
	"github.com/san-kum/trjrender/internal/viz"
)

type frameSummary struct {
	index     int
	timestep  int64
	particles int
	selected  int
	outside   int
	box       string
}

type trajectorySummary struct {
	frames []frameSummary
	types  map[int]int
	first  *scene.Frame
}

// scan reads every frame of path, counting the particles that chain admits.
func scan(path string, chain filter.Chain) (*trajectorySummary, error) {
	tf, err := trajectory.Open(path)
	if err != nil {
		return nil, err
	}
	defer tf.Close()

	sum := &trajectorySummary{types: make(map[int]int)}
	err = scene.ForEach(context.Background(), tf, func(f *scene.Frame) error {
		if sum.first == nil {
			sum.first = f
			for _, p := range f.Particles {
				sum.types[p.Type]++
			}
		}
		fs := frameSummary{
			index:     f.Index,
			timestep:  f.Timestep,
			particles: len(f.Particles),
			box:       fmt.Sprintf("%v - %v", f.Box.Min, f.Box.Max),
		}
		for _, p := range f.Particles {
			if chain.Allow(p) {
				fs.selected++
			}
			if !f.Box.Contains(p.Pos) {
				fs.outside++
			}
		}
		sum.frames = append(sum.frames, fs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sum.first == nil {
		return nil, fmt.Errorf("%s: no frames", path)
	}
	return sum, nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	sum, err := scan(cfg.Input, nil)
	if err != nil {
		return err
	}

	s := viz.NewStyles(viz.GetTheme(themeName))
	first, last := sum.frames[0], sum.frames[len(sum.frames)-1]
	lo, hi := first.particles, first.particles
	outside := 0
	for _, f := range sum.frames {
		lo = min(lo, f.particles)
		hi = max(hi, f.particles)
		outside = max(outside, f.outside)
	}

	proj, err := cfg.Projector(sum.first.Box)
	if err != nil {
		return err
	}
	w, h := proj.PixelSize()

	fields := []viz.Field{
		{Label: "frames", Value: strconv.Itoa(len(sum.frames))},
		{Label: "timesteps", Value: fmt.Sprintf("%d .. %d", first.timestep, last.timestep)},
		{Label: "particles", Value: countRange(lo, hi)},
		{Label: "box", Value: first.box},
		{Label: "box size", Value: sum.first.Box.Size().String()},
		{Label: "view center", Value: proj.Center().String()},
		{Label: "outside box", Value: fmt.Sprintf("%d (max per frame)", outside)},
		{Label: "canvas", Value: fmt.Sprintf("%dx%d at scale %.3g", w, h, proj.Scale())},
		{Label: "types", Value: typeCounts(sum.types)},
	}

	fmt.Println(s.Gradient(cfg.Input, s.Theme.Primary, s.Theme.Accent))
	fmt.Println(s.Section("trajectory", s.Fields(fields)))
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	sum, err := scan(cfg.Input, opts.Filters)
	if err != nil {
		return err
	}

	total := make([]float64, len(sum.frames))
	selected := make([]float64, len(sum.frames))
	for i, f := range sum.frames {
		total[i] = float64(f.particles)
		selected[i] = float64(f.selected)
	}

	s := viz.NewStyles(viz.GetTheme(themeName))
	fmt.Println(s.Title.Render(cfg.Input))
	fmt.Printf("frames: %d\n\n", len(sum.frames))

	plot(s, total, "particles per frame")
	if len(opts.Filters) > 0 {
		plot(s, selected, "particles passing filters per frame")

		var nsel, ntotal int
		for _, f := range sum.frames {
			nsel += f.selected
			ntotal += f.particles
		}
		fmt.Printf("selected %s %d of %d\n", s.ProgressBar(nsel, ntotal, 30), nsel, ntotal)
	}
	return nil
}

func plot(s viz.Styles, data []float64, caption string) {
	if len(data) < 2 {
		fmt.Printf("%s: %s\n\n", caption, strconv.FormatFloat(data[0], 'f', -1, 64))
		return
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println(s.Muted.Render(viz.Sparkline(data, 40)))
	fmt.Println()
}

func countRange(lo, hi int) string {
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d .. %d", lo, hi)
}

func typeCounts(counts map[int]int) string {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d:%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func listPresets(cmd *cobra.Command, args []string) error {
	s := viz.NewStyles(viz.GetTheme(themeName))
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		rot := fmt.Sprintf("x=%g y=%g z=%g", p.Rotate.X, p.Rotate.Y, p.Rotate.Z)
		fmt.Printf("%-6s %s  %s\n", s.Title.Render(name), rot, s.Muted.Render(p.Description))
	}
	return nil
}
