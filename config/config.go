// Package config provides configuration loading and access for the
// visualization engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/render"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Domain    DomainConfig    `yaml:"domain"`
	Wind      WindConfig      `yaml:"wind"`
	Solver    SolverConfig    `yaml:"solver"`
	Particles ParticlesConfig `yaml:"particles"`
	Render    RenderConfig    `yaml:"render"`
	Output    OutputConfig    `yaml:"output"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DomainConfig describes the geographic area and the sampling grid laid
// over it.
type DomainConfig struct {
	Bounds     field.Bounds `yaml:"bounds"`
	GridWidth  int          `yaml:"grid_width"`
	GridHeight int          `yaml:"grid_height"`
}

// WindConfig selects the wind source and its prevailing conditions.
type WindConfig struct {
	// Generator is one of uniform, vortex, shear, gust, lbm.
	Generator string `yaml:"generator"`

	Speed   float64 `yaml:"speed"`    // m/s
	FromDeg float64 `yaml:"from_deg"` // meteorological direction

	// Gust generator tuning.
	Seed       int64   `yaml:"seed"`
	Turbulence float64 `yaml:"turbulence"`

	// RefreshSec re-runs the gust generator this often; 0 freezes the
	// field after the first snapshot.
	RefreshSec float64 `yaml:"refresh_sec"`
}

// SolverConfig tunes the lattice relaxation when the lbm generator is
// selected.
type SolverConfig struct {
	MaxIterations  int     `yaml:"max_iterations"`
	RelaxationRate float64 `yaml:"relaxation_rate"`
	InletSpeed     float64 `yaml:"inlet_speed"`

	// MaskPath points to an optional obstacle raster (PNG, dark pixels
	// are buildings). Empty means open terrain.
	MaskPath string `yaml:"mask_path"`
}

// ParticlesConfig holds the advection pool parameters.
type ParticlesConfig struct {
	Count      int     `yaml:"count"`
	MaxAgeSec  float64 `yaml:"max_age_sec"`
	SpeedScale float64 `yaml:"speed_scale"`
	Seed       int64   `yaml:"seed"`
}

// RenderConfig holds the drawing parameters shared by all layer modes.
type RenderConfig struct {
	// Mode is one of vectors, heatmap, streamlines, particles, combined.
	Mode string `yaml:"mode"`

	Opacity int `yaml:"opacity"` // 0-100
	Stride  int `yaml:"stride"`

	VectorScale     float64 `yaml:"vector_scale"`
	MinVectorLength float64 `yaml:"min_vector_length"`
	MaxVectorLength float64 `yaml:"max_vector_length"`

	TrailFade float64 `yaml:"trail_fade"`

	StreamlineSeedCount int     `yaml:"streamline_seed_count"`
	StreamlineMaxSteps  int     `yaml:"streamline_max_steps"`
	StreamlineStepSize  float64 `yaml:"streamline_step_size"`

	// Ramp is the list of hex color stops, low speed first.
	Ramp []string `yaml:"ramp"`
}

// OutputConfig controls run artifact export.
type OutputConfig struct {
	Dir string `yaml:"dir"`

	// VectorStride thins the CSV export grid.
	VectorStride int `yaml:"vector_stride"`

	// PerfLogEverySec is the interval between perf log lines; 0
	// disables them.
	PerfLogEverySec float64 `yaml:"perf_log_every_sec"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the engine cannot start with.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("config: screen %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Domain.GridWidth < 2 || c.Domain.GridHeight < 2 {
		return fmt.Errorf("config: grid %dx%d, need at least 2x2", c.Domain.GridWidth, c.Domain.GridHeight)
	}
	b := c.Domain.Bounds
	if b.North <= b.South || b.East <= b.West {
		return fmt.Errorf("config: degenerate bounds %+v", b)
	}

	switch c.Wind.Generator {
	case "uniform", "vortex", "shear", "gust", "lbm":
	default:
		return fmt.Errorf("config: unknown wind generator %q", c.Wind.Generator)
	}
	if c.Wind.Speed < 0 {
		return fmt.Errorf("config: negative wind speed %v", c.Wind.Speed)
	}

	if c.Particles.Count <= 0 {
		return fmt.Errorf("config: particle count %d", c.Particles.Count)
	}
	if c.Particles.MaxAgeSec <= 0 {
		return fmt.Errorf("config: particle max age %v", c.Particles.MaxAgeSec)
	}

	if _, err := render.ParseMode(c.Render.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.Opacity < 0 || c.Render.Opacity > 100 {
		return fmt.Errorf("config: opacity %d outside 0-100", c.Render.Opacity)
	}
	if c.Render.Stride < 1 {
		return fmt.Errorf("config: stride %d", c.Render.Stride)
	}
	if len(c.Render.Ramp) < 2 {
		return fmt.Errorf("config: ramp needs at least 2 stops, got %d", len(c.Render.Ramp))
	}
	if c.Render.TrailFade < 0 || c.Render.TrailFade > 1 {
		return fmt.Errorf("config: trail fade %v outside 0-1", c.Render.TrailFade)
	}

	return nil
}

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Opacity = float64(c.Render.Opacity)
	opts.Stride = c.Render.Stride
	opts.VectorScale = c.Render.VectorScale
	opts.MinVectorLength = c.Render.MinVectorLength
	opts.MaxVectorLength = c.Render.MaxVectorLength
	opts.TrailFade = c.Render.TrailFade
	opts.StreamlineSeedCount = c.Render.StreamlineSeedCount
	opts.StreamlineMaxSteps = c.Render.StreamlineMaxSteps
	opts.StreamlineStepSize = c.Render.StreamlineStepSize
	return opts
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
