// Package engine ties the wind field, particle pool, and renderer together
// into a frame-driven animation.
//
// Concurrency model: all work happens on the host's frame callback, one
// synchronous tick at a time. The only concurrency-relevant invariant is the
// snapshot swap discipline: SetField replaces the field reference whole, and
// Tick reads that reference exactly once, so a tick observes either the old
// snapshot or the new one and never a mix.
package engine

import (
	"log/slog"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/geo"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/particles"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/render"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/telemetry"
)

// Engine drives particle advection and rendering over the current field
// snapshot. Field, viewport, and surface are injected by the host; the
// engine owns only the particle pool and per-tick sequencing.
type Engine struct {
	// snapshot is nil while no valid snapshot has been delivered; every
	// frame-loop consumer degrades to zero flow in that case.
	snapshot field.Snapshot

	system   *particles.System
	renderer *render.Renderer
	mode     render.Mode

	mapper     geo.Mapper
	viewport   geo.Viewport
	projection geo.Projection
	hasMapper  bool

	perf *telemetry.PerfCollector
	log  *slog.Logger
}

// New wires an engine from its injected collaborators.
func New(system *particles.System, renderer *render.Renderer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		system:   system,
		renderer: renderer,
		mode:     render.ModeParticles,
		perf:     telemetry.NewPerfCollector(120),
		log:      logger,
	}
}

// SetField swaps in a new dense snapshot. A malformed snapshot is rejected
// here, once, with a log line; the loop then runs in zero-flow fallback
// until a valid snapshot arrives. The previous snapshot is discarded whole.
func (e *Engine) SetField(f *field.Field) {
	if err := f.Validate(); err != nil {
		e.log.Warn("rejecting field snapshot", "error", err)
		e.snapshot = nil
		e.rebuildMapper()
		return
	}
	e.snapshot = f
	e.rebuildMapper()
}

// SetSparseField swaps in a sparse snapshot. Particle advection samples it
// by nearest vector; the grid layers (heatmap, vectors, streamlines) need a
// dense snapshot and render nothing until one arrives.
func (e *Engine) SetSparseField(s *field.Sparse) {
	if s == nil {
		e.log.Warn("rejecting nil sparse snapshot")
		e.snapshot = nil
		e.rebuildMapper()
		return
	}
	e.snapshot = s
	e.rebuildMapper()
}

// SetViewport installs the current viewport and map projection, called by
// the host on every pan, zoom, or resize. The coordinate mapper is rebuilt
// rather than patched so no stale projection survives.
func (e *Engine) SetViewport(vp geo.Viewport, proj geo.Projection) {
	e.viewport = vp
	e.projection = proj
	e.rebuildMapper()
}

// SetMode switches the visualization mode.
func (e *Engine) SetMode(m render.Mode) { e.mode = m }

// Mode returns the active visualization mode.
func (e *Engine) Mode() render.Mode { return e.mode }

// Particles exposes the pool, e.g. for a count slider.
func (e *Engine) Particles() *particles.System { return e.system }

// Renderer exposes the renderer for surface attachment and option changes.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// Snapshot returns the current field snapshot, nil when none is set.
func (e *Engine) Snapshot() field.Snapshot { return e.snapshot }

// PerfStats returns aggregated tick timing over the rolling window.
func (e *Engine) PerfStats() telemetry.PerfStats { return e.perf.Stats() }

// RecordFrame notes a wall-clock frame boundary for fps reporting.
func (e *Engine) RecordFrame() { e.perf.RecordFrame() }

func (e *Engine) rebuildMapper() {
	if e.snapshot == nil || e.projection == nil {
		e.hasMapper = false
		return
	}
	e.mapper = geo.NewMapper(e.snapshot, e.viewport, e.projection)
	e.hasMapper = true

	minX, minY, maxX, maxY := e.mapper.GridViewport()
	e.system.SetBounds(particles.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
}

// Tick runs one animation frame: advance the particle pool, then draw.
// The field reference is read once up front; a SetField arriving mid-tick
// (from a reentrant callback) only takes effect next tick. Any panic from a
// collaborator is contained here so the animation loop never dies.
func (e *Engine) Tick(dt float64) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tick recovered", "panic", r)
		}
	}()

	snapshot := e.snapshot

	e.perf.StartTick()

	e.perf.StartPhase(telemetry.PhaseAdvect)
	var sampler field.Sampler = snapshot
	e.system.Step(dt, sampler)

	e.perf.StartPhase(telemetry.PhaseRender)
	if e.hasMapper {
		e.renderer.Render(e.mode, snapshot, e.system, e.mapper)
	}

	e.perf.EndTick()
}
