package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trjrender/internal/filter"
	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/projection"
	"github.com/san-kum/trjrender/internal/render"
	"github.com/san-kum/trjrender/internal/viz"
)

const (
	DefaultScale      = -1.0
	DefaultAutoFit    = 800.0
	DefaultPrefix     = "frame"
	DefaultFormat     = "png"
	DefaultOutputDir  = "."
	DefaultBackground = "#000000"
	DefaultBoxLine    = "#ffffff"
	AllFrames         = -1
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Input   string        `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	View    ViewConfig    `yaml:"view"`
	Style   StyleConfig   `yaml:"style"`
	Filters []filter.Spec `yaml:"filters"`
	Types   []int         `yaml:"types,omitempty"`
	Frame   int           `yaml:"frame"`
	Workers int           `yaml:"workers"`
	Logging LoggingConfig `yaml:"logging"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"`
}

// ViewConfig holds the rotation, applied X then Y then Z, and the scale. A
// negative scale fits the larger canvas side to AutoFit pixels.
type ViewConfig struct {
	Preset  string         `yaml:"preset"`
	Rotate  RotationConfig `yaml:"rotate"`
	Scale   float64        `yaml:"scale"`
	AutoFit float64        `yaml:"auto_fit"`
}

type RotationConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Degrees returns the rotation about axis a.
func (r RotationConfig) Degrees(a geom.Axis) float64 {
	switch a {
	case geom.AxisY:
		return r.Y
	case geom.AxisZ:
		return r.Z
	default:
		return r.X
	}
}

// StyleConfig overrides colors and per-type styles. Colors are hex strings
// such as "#e64040".
type StyleConfig struct {
	Background string          `yaml:"background"`
	BoxLine    string          `yaml:"box_line"`
	DrawBox    bool            `yaml:"draw_box"`
	Radius     map[int]float64 `yaml:"radius"`
	Fill       map[int]string  `yaml:"fill"`
	Outline    map[int]string  `yaml:"outline"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Prefix: DefaultPrefix,
			Format: DefaultFormat,
		},
		View: ViewConfig{
			Scale:   DefaultScale,
			AutoFit: DefaultAutoFit,
		},
		Style: StyleConfig{
			Background: DefaultBackground,
			BoxLine:    DefaultBoxLine,
			DrawBox:    true,
		},
		Frame:   AllFrames,
		Workers: 1,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. A view preset named in the file
// is applied first, so an explicit rotate section refines it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		View struct {
			Preset string `yaml:"preset"`
		} `yaml:"view"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if head.View.Preset != "" {
		if err := cfg.ApplyPreset(head.View.Preset); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset copies the rotation of the named view preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalid, name, ListPresets())
	}
	c.View.Preset = name
	c.View.Rotate = p.Rotate
	return nil
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if c.View.Scale == 0 {
		return fmt.Errorf("%w: scale must be non-zero", ErrInvalid)
	}
	if c.View.Scale < 0 && (c.View.AutoFit <= 0 || c.View.AutoFit > viz.MaxSide) {
		return fmt.Errorf("%w: auto_fit must be in (0, %d] when scale is negative, got %g", ErrInvalid, viz.MaxSide, c.View.AutoFit)
	}
	if c.Frame < AllFrames {
		return fmt.Errorf("%w: frame must be -1 (all) or an index, got %d", ErrInvalid, c.Frame)
	}
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	return nil
}

// ParseColor parses a hex color such as "#ff8800".
func ParseColor(s string) (viz.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return viz.Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalid, s, err)
	}
	r, g, b := c.RGB255()
	return viz.RGB(r, g, b), nil
}

// RenderOptions builds renderer options from the style and filter sections.
func (c *Config) RenderOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	opts.DrawBox = c.Style.DrawBox
	opts.Filters = filter.FromSpecs(c.Filters)
	if len(c.Types) > 0 {
		opts.Filters = append(opts.Filters, filter.Types(c.Types...))
	}

	var err error
	if opts.Background, err = ParseColor(c.Style.Background); err != nil {
		return opts, err
	}
	if opts.BoxLine, err = ParseColor(c.Style.BoxLine); err != nil {
		return opts, err
	}
	for typ, r := range c.Style.Radius {
		if r < 0 {
			return opts, fmt.Errorf("%w: negative radius %g for type %d", ErrInvalid, r, typ)
		}
		if err := opts.Styles.SetRadius(typ, r); err != nil {
			return opts, err
		}
	}
	for typ, s := range c.Style.Fill {
		col, err := ParseColor(s)
		if err != nil {
			return opts, err
		}
		if err := opts.Styles.SetFill(typ, col); err != nil {
			return opts, err
		}
	}
	for typ, s := range c.Style.Outline {
		col, err := ParseColor(s)
		if err != nil {
			return opts, err
		}
		if err := opts.Styles.SetOutline(typ, col); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Projector builds a projector for box with the configured rotations applied
// in X, Y, Z order. An auto-fit scale is resolved against box. The resulting
// canvas must fit within viz.MaxSide and viz.MaxPixels.
func (c *Config) Projector(box geom.Box) (*projection.Projector, error) {
	p := projection.New(box, c.View.Scale)
	for _, a := range geom.Axes {
		if deg := c.View.Rotate.Degrees(a); deg != 0 {
			p.Rotate(a, deg)
		}
	}
	if p.AutoFit() {
		p.SetScale(p.FitScale(c.View.AutoFit))
	}
	if w, h := p.PixelSize(); !viz.Fits(w, h) {
		return nil, fmt.Errorf("%w: canvas %dx%d at scale %g exceeds %d pixels per side or %d in total",
			ErrInvalid, w, h, p.Scale(), viz.MaxSide, viz.MaxPixels)
	}
	return p, nil
}
