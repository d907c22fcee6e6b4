package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/trjrender/internal/codec"
	"github.com/san-kum/trjrender/internal/config"
	"github.com/san-kum/trjrender/internal/filter"
	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/logger"
	"github.com/san-kum/trjrender/internal/pipeline"
	"github.com/san-kum/trjrender/internal/render"
	"github.com/san-kum/trjrender/internal/scene"
	"github.com/san-kum/trjrender/internal/storage"
	"github.com/san-kum/trjrender/internal/trajectory"
	"github.com/san-kum/trjrender/internal/viz"
)

// buildConfig layers the config file, the preset and the flags that were set
// explicitly over the defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if cfg.Input == "" {
		return nil, errors.New("no trajectory given")
	}

	flags := cmd.Flags()
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rx") {
		cfg.View.Rotate.X = rotX
	}
	if flags.Changed("ry") {
		cfg.View.Rotate.Y = rotY
	}
	if flags.Changed("rz") {
		cfg.View.Rotate.Z = rotZ
	}
	if flags.Changed("scale") {
		cfg.View.Scale = scale
	}
	if flags.Changed("auto-fit") {
		cfg.View.AutoFit = autoFit
	}

	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("prefix") {
		cfg.Output.Prefix = prefix
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("frame") {
		cfg.Frame = frameIdx
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if flags.Changed("no-box") {
		cfg.Style.DrawBox = !noBox
	}
	if flags.Changed("background") {
		cfg.Style.Background = background
	}
	if flags.Changed("box-color") {
		cfg.Style.BoxLine = boxColor
	}
	for _, r := range radii {
		typ, rad, err := parseRadius(r)
		if err != nil {
			return nil, err
		}
		if cfg.Style.Radius == nil {
			cfg.Style.Radius = make(map[int]float64)
		}
		cfg.Style.Radius[typ] = rad
	}

	for _, a := range geom.Axes {
		spec := filter.Spec{Axis: a}
		if flags.Changed(a.String() + "min") {
			v := lower[a]
			spec.Min = &v
		}
		if flags.Changed(a.String() + "max") {
			v := upper[a]
			spec.Max = &v
		}
		if spec.Min != nil || spec.Max != nil {
			cfg.Filters = append(cfg.Filters, spec)
		}
	}
	if flags.Changed("types") {
		cfg.Types = types
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	return cfg, cfg.Validate()
}

// parseRadius parses "type=radius".
func parseRadius(s string) (int, float64, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("radius %q: expected type=radius", s)
	}
	typ, err := strconv.Atoi(strings.TrimSpace(k))
	if err != nil {
		return 0, 0, fmt.Errorf("radius %q: bad type: %w", s, err)
	}
	rad, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("radius %q: bad radius: %w", s, err)
	}
	return typ, rad, nil
}

func initLogging(cfg *config.Config) error {
	return logger.Init(cfg.Logging.Level, cfg.Logging.File)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	enc, err := codec.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	tf, err := trajectory.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer tf.Close()

	if cfg.Frame != config.AllFrames {
		if err := tf.Seek(cfg.Frame); err != nil {
			return err
		}
	}
	first, err := tf.Next()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: no frames", cfg.Input)
	}
	if err != nil {
		return err
	}

	var src scene.Source = scene.Prepend(first, tf)
	if cfg.Frame != config.AllFrames {
		src = scene.NewSliceSource(first)
	}

	proj, err := cfg.Projector(first.Box)
	if err != nil {
		return err
	}
	w, h := proj.PixelSize()
	logger.Info("starting render",
		zap.String("input", cfg.Input),
		zap.Float64("scale", proj.Scale()),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.String("format", enc.Ext()),
	)

	p := pipeline.New(render.New(proj, opts), enc, cfg.Output.Dir, cfg.Output.Prefix, cfg.Workers)
	var done atomic.Int64
	p.OnFrame = func(pipeline.FrameResult) {
		fmt.Fprintf(os.Stderr, "\rrendered %d frames", done.Add(1))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := p.Run(ctx, src)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	records := make([]storage.FrameRecord, len(results))
	for i, r := range results {
		records[i] = storage.FrameRecord{
			Index:     r.Index,
			Timestep:  r.Timestep,
			File:      r.Path,
			Width:     r.Width,
			Height:    r.Height,
			Particles: r.Particles,
			Drawn:     r.Drawn,
		}
	}
	runID, err := st.Save(storage.RunMetadata{
		Input:     cfg.Input,
		OutputDir: cfg.Output.Dir,
		Format:    enc.Ext(),
		Rotation:  [3]float64{cfg.View.Rotate.X, cfg.View.Rotate.Y, cfg.View.Rotate.Z},
		Scale:     proj.Scale(),
		Workers:   cfg.Workers,
		Elapsed:   elapsed.Seconds(),
	}, records)
	if err != nil {
		return err
	}

	s := viz.NewStyles(viz.GetTheme(themeName))
	fmt.Println(s.Fields([]viz.Field{
		{Label: "run id", Value: runID},
		{Label: "frames", Value: strconv.Itoa(len(results))},
		{Label: "canvas", Value: fmt.Sprintf("%dx%d", w, h)},
		{Label: "output", Value: cfg.Output.Dir},
		{Label: "elapsed", Value: elapsed.Round(time.Millisecond).String()},
	}))
	return nil
}
