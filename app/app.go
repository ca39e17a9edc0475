// Package app assembles the wind source, particle pool, renderer and
// engine into a runnable visualization, shared by the windowed viewer
// and the headless runner.
package app

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/config"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/engine"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/geo"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/particles"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/render"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/telemetry"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/windsim"
)

// Options holds runtime settings not covered by the config file.
type Options struct {
	Seed      int64
	OutputDir string
	Surface   render.Surface
}

// App owns the engine and its collaborators for one run.
type App struct {
	cfg *config.Config
	log *slog.Logger

	engine *engine.Engine
	gust   *windsim.GustField
	output *telemetry.OutputManager

	tick        int32
	simTime     float64
	gustElapsed float64
	perfElapsed float64
	windSpeed   float64
	windFromDeg float64
}

// New builds the full stack from configuration. The surface may be nil
// for headless runs; rendering becomes a no-op.
func New(cfg *config.Config, opts Options, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	snap, gust, err := BuildField(cfg)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Particles.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w, h := snap.GridSize()
	bounds := particles.Bounds{MaxX: float64(w - 1), MaxY: float64(h - 1)}
	system, err := particles.New(cfg.Particles.Count, bounds, cfg.Particles.MaxAgeSec, cfg.Particles.SpeedScale, rng)
	if err != nil {
		return nil, fmt.Errorf("building particle pool: %w", err)
	}

	ramp, err := render.ParseRamp(cfg.Render.Ramp)
	if err != nil {
		return nil, fmt.Errorf("building color ramp: %w", err)
	}
	renderer := render.New(ramp, cfg.RenderOptions())
	if opts.Surface != nil {
		renderer.SetSurface(opts.Surface)
	}

	eng := engine.New(system, renderer, log)
	eng.SetField(snap)

	mode, err := render.ParseMode(cfg.Render.Mode)
	if err != nil {
		return nil, err
	}
	eng.SetMode(mode)

	vp := geo.Viewport{
		Bounds:   cfg.Domain.Bounds,
		Zoom:     1,
		WidthPx:  float64(cfg.Screen.Width),
		HeightPx: float64(cfg.Screen.Height),
	}
	eng.SetViewport(vp, geo.Equirectangular{Viewport: vp})

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		engine:      eng,
		gust:        gust,
		output:      output,
		windSpeed:   cfg.Wind.Speed,
		windFromDeg: cfg.Wind.FromDeg,
	}

	log.Info("app ready",
		"generator", cfg.Wind.Generator,
		"grid", fmt.Sprintf("%dx%d", w, h),
		"particles", cfg.Particles.Count,
		"mode", cfg.Render.Mode,
		"seed", seed,
	)
	return a, nil
}

// BuildField constructs the initial snapshot from the configured wind
// source. For the gust generator it also returns the generator so the
// field can be refreshed over time.
func BuildField(cfg *config.Config) (*field.Field, *windsim.GustField, error) {
	d := cfg.Domain
	w := cfg.Wind

	switch w.Generator {
	case "uniform":
		f, err := windsim.Uniform(d.GridWidth, d.GridHeight, d.Bounds, w.Speed, w.FromDeg)
		return f, nil, err
	case "vortex":
		f, err := windsim.Vortex(d.GridWidth, d.GridHeight, d.Bounds, w.Speed)
		return f, nil, err
	case "shear":
		f, err := windsim.SinusoidShear(d.GridWidth, d.GridHeight, d.Bounds, w.Speed, w.Speed/2, 1)
		return f, nil, err
	case "gust":
		g := windsim.NewGustField(d.GridWidth, d.GridHeight, d.Bounds, w.Speed, w.FromDeg, w.Seed)
		if w.Turbulence > 0 {
			g.Turbulence = w.Turbulence
		}
		f, err := g.Snapshot(0)
		return f, g, err
	case "lbm":
		mask, err := LoadMask(cfg.Solver.MaskPath, d.GridWidth, d.GridHeight)
		if err != nil {
			return nil, nil, err
		}
		p := windsim.Params{
			MaxIterations:  cfg.Solver.MaxIterations,
			RelaxationRate: cfg.Solver.RelaxationRate,
			InletSpeed:     cfg.Solver.InletSpeed,
		}
		f, err := windsim.Simulate(mask, d.GridWidth, d.GridHeight, w.Speed, w.FromDeg, d.Bounds, p)
		return f, nil, err
	}
	return nil, nil, fmt.Errorf("unknown wind generator %q", w.Generator)
}

// LoadMask rasterizes an obstacle PNG onto the grid: pixels darker than
// half luminance become solid cells. An empty path means open terrain.
// The image row order is flipped because pixel row 0 is the top while
// grid row 0 is the south edge.
func LoadMask(path string, gridW, gridH int) ([]bool, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mask: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding mask: %w", err)
	}

	b := img.Bounds()
	mask := make([]bool, gridW*gridH)
	for row := 0; row < gridH; row++ {
		for col := 0; col < gridW; col++ {
			px := b.Min.X + col*b.Dx()/gridW
			py := b.Min.Y + (gridH-1-row)*b.Dy()/gridH
			mask[row*gridW+col] = isDark(img, px, py)
		}
	}
	return mask, nil
}

func isDark(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	// 16-bit channels; threshold at half brightness.
	lum := (299*r + 587*g + 114*b) / 1000
	return lum < 0x8000
}

// Step advances the run by dt seconds: refreshes the gust field when
// due, ticks the engine, and emits periodic perf lines.
func (a *App) Step(dt float64) {
	a.simTime += dt
	a.tick++

	if a.gust != nil && a.cfg.Wind.RefreshSec > 0 {
		a.gustElapsed += dt
		if a.gustElapsed >= a.cfg.Wind.RefreshSec {
			a.gustElapsed = 0
			f, err := a.gust.Snapshot(a.simTime)
			if err != nil {
				a.log.Warn("gust refresh failed", "error", err)
			} else {
				a.engine.SetField(f)
			}
		}
	}

	a.engine.Tick(dt)

	if a.cfg.Output.PerfLogEverySec > 0 {
		a.perfElapsed += dt
		if a.perfElapsed >= a.cfg.Output.PerfLogEverySec {
			a.perfElapsed = 0
			stats := a.engine.PerfStats()
			stats.LogStats()
			if err := a.output.WritePerf(stats, a.tick); err != nil {
				a.log.Warn("perf export failed", "error", err)
			}
		}
	}
}

// SetViewport installs a new view rectangle, e.g. after a pan or zoom.
func (a *App) SetViewport(vp geo.Viewport) {
	a.engine.SetViewport(vp, geo.Equirectangular{Viewport: vp})
}

// SetMode switches the active layer mode.
func (a *App) SetMode(m render.Mode) { a.engine.SetMode(m) }

// Mode returns the active layer mode.
func (a *App) Mode() render.Mode { return a.engine.Mode() }

// SetSurface attaches or replaces the render target.
func (a *App) SetSurface(s render.Surface) { a.engine.Renderer().SetSurface(s) }

// Tick returns the number of completed steps.
func (a *App) Tick() int32 { return a.tick }

// Engine exposes the underlying engine for tooling.
func (a *App) Engine() *engine.Engine { return a.engine }

// Close exports the final run artifacts and closes output files.
func (a *App) Close() error {
	if a.output == nil {
		return nil
	}

	if f, ok := a.currentDense(); ok {
		if err := a.output.WriteVectors(f, a.cfg.Output.VectorStride); err != nil {
			a.log.Warn("vector export failed", "error", err)
		}
		stats, err := telemetry.ComputeFlowStats(f, 1)
		if err != nil {
			a.log.Warn("flow stats failed", "error", err)
		} else {
			w, h := f.GridSize()
			snap := telemetry.RunSnapshot{
				GeneratedAt: time.Now(),
				WindSpeed:   a.windSpeed,
				WindFromDeg: a.windFromDeg,
				GridWidth:   w,
				GridHeight:  h,
				Bounds:      f.GeoBounds(),
				Stats:       stats,
			}
			if err := a.output.WriteRunSnapshot(snap); err != nil {
				a.log.Warn("run snapshot failed", "error", err)
			}
		}
	}

	return a.output.Close()
}

func (a *App) currentDense() (*field.Field, bool) {
	f, ok := a.engine.Snapshot().(*field.Field)
	return f, ok && f != nil
}
