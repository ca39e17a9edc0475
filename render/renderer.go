package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/geo"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/particles"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/streamline"
)

// Mode selects the visualization style for a frame.
type Mode int

const (
	ModeVectors Mode = iota
	ModeHeatmap
	ModeStreamlines
	ModeParticles
	ModeCombined
)

// ParseMode maps a configured mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "vectors":
		return ModeVectors, nil
	case "heatmap":
		return ModeHeatmap, nil
	case "streamlines":
		return ModeStreamlines, nil
	case "particles":
		return ModeParticles, nil
	case "combined":
		return ModeCombined, nil
	}
	return 0, fmt.Errorf("unknown viz mode %q", s)
}

// Options holds the recognized rendering knobs.
type Options struct {
	// Opacity is the layer opacity in percent (0-100), as exposed to the UI.
	Opacity float64

	// Stride samples every Nth grid cell for the vector layer.
	Stride int

	// VectorScale converts m/s to shaft pixels before the zoom factor.
	VectorScale float64

	// Shaft length limits in pixels. Vectors under the minimum are skipped.
	MinVectorLength float64
	MaxVectorLength float64

	// TrailFade enables motion trails when > 0: instead of a full clear,
	// each frame fades the previous one by this alpha.
	TrailFade float64

	StreamlineSeedCount int
	StreamlineMaxSteps  int
	StreamlineStepSize  float64

	Background colorful.Color
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Opacity:             80,
		Stride:              3,
		VectorScale:         2.0,
		MinVectorLength:     2,
		MaxVectorLength:     40,
		StreamlineSeedCount: 64,
		StreamlineMaxSteps:  120,
		StreamlineStepSize:  0.5,
		Background:          colorful.Color{R: 0.04, G: 0.05, B: 0.08},
	}
}

// Renderer draws field, streamline, and particle layers. A nil surface
// makes every render a no-op so the animation loop survives a surface that
// has not been attached yet.
type Renderer struct {
	surface Surface
	ramp    Ramp
	opts    Options
	tracer  *streamline.Tracer

	// Streamlines are traced once per (field, viewport) and cached.
	cachedLines [][]streamline.Point
	cacheField  *field.Field
	cacheVP     geo.Viewport
}

// New creates a renderer with no surface attached.
func New(ramp Ramp, opts Options) *Renderer {
	if opts.Stride < 1 {
		opts.Stride = 1
	}
	return &Renderer{
		ramp:   ramp,
		opts:   opts,
		tracer: streamline.NewTracer(),
	}
}

// SetSurface attaches (or detaches, with nil) the drawing surface.
func (r *Renderer) SetSurface(s Surface) { r.surface = s }

// SetOptions replaces the rendering options.
func (r *Renderer) SetOptions(opts Options) {
	if opts.Stride < 1 {
		opts.Stride = 1
	}
	r.opts = opts
	r.cachedLines = nil
	r.cacheField = nil
}

// Options returns the current rendering options.
func (r *Renderer) Options() Options { return r.opts }

// Render draws one frame. The snapshot may be nil (malformed-snapshot
// fallback); the frame is still cleared so stale data never lingers. The
// grid layers (vectors, heatmap, streamlines) need a dense snapshot and are
// skipped for a sparse one; the particle layer works with either.
func (r *Renderer) Render(mode Mode, snap field.Snapshot, ps *particles.System, m geo.Mapper) {
	if r.surface == nil {
		return
	}

	// Trail mode under-clears on purpose; every other path fully resets
	// the surface so no frame accumulates into the next.
	trails := r.opts.TrailFade > 0 && (mode == ModeParticles || mode == ModeCombined)
	if trails {
		r.surface.Fade(r.opts.Background, r.opts.TrailFade)
	} else {
		r.surface.Clear(r.opts.Background)
	}

	if snap == nil {
		return
	}
	dense, _ := snap.(*field.Field)

	alpha := clamp01(r.opts.Opacity / 100)

	switch mode {
	case ModeVectors:
		if dense != nil {
			r.drawVectors(dense, m, alpha)
		}
	case ModeHeatmap:
		if dense != nil {
			r.drawHeatmap(dense, m, alpha)
		}
	case ModeStreamlines:
		if dense != nil {
			r.drawStreamlines(dense, m, alpha)
		}
	case ModeParticles:
		r.drawParticles(snap, ps, m, alpha)
	case ModeCombined:
		if dense != nil {
			r.drawHeatmap(dense, m, alpha*0.45)
			r.drawVectors(dense, m, alpha*0.7)
		}
		r.drawParticles(snap, ps, m, alpha)
	}
}

// arrowAngle is the fixed angular offset of the arrowhead barbs.
const arrowAngle = 30 * math.Pi / 180

func (r *Renderer) drawVectors(f *field.Field, m geo.Mapper, alpha float64) {
	minMag, maxMag := f.MagnitudeRange()
	span := maxMag - minMag
	zoom := m.Viewport.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	for row := 0; row < f.Height; row += r.opts.Stride {
		for col := 0; col < f.Width; col += r.opts.Stride {
			u, v := f.At(col, row)
			mag := math.Hypot(u, v)
			if mag < 1e-9 {
				continue
			}

			length := mag * r.opts.VectorScale * zoom
			if length > r.opts.MaxVectorLength {
				length = r.opts.MaxVectorLength
			}
			if length < r.opts.MinVectorLength {
				continue
			}

			px, py := m.GridToScreen(float64(col), float64(row))

			// Project a small grid-space offset along the flow to get the
			// on-screen direction; this keeps the arrows correct under the
			// surface's inverted y axis.
			tx, ty := m.GridToScreen(float64(col)+u/mag*0.25, float64(row)+v/mag*0.25)
			dx, dy := tx-px, ty-py
			dh := math.Hypot(dx, dy)
			if dh < 1e-9 {
				continue
			}
			dx, dy = dx/dh*length, dy/dh*length

			c := FallbackColor
			if span > 0 {
				c = r.ramp.At((mag - minMag) / span)
			}

			ex, ey := px+dx, py+dy
			r.surface.Line(px, py, ex, ey, 1, c, alpha)

			// Arrowhead barbs, capped against the shaft length.
			head := length * 0.35
			if head > 8 {
				head = 8
			}
			theta := math.Atan2(dy, dx)
			for _, da := range [2]float64{arrowAngle, -arrowAngle} {
				bx := ex - head*math.Cos(theta+da)
				by := ey - head*math.Sin(theta+da)
				r.surface.Line(ex, ey, bx, by, 1, c, alpha)
			}
		}
	}
}

func (r *Renderer) drawHeatmap(f *field.Field, m geo.Mapper, alpha float64) {
	minMag, maxMag := f.MagnitudeRange()
	span := maxMag - minMag
	if span <= 0 {
		return // degenerate normalization, skip rather than divide by zero
	}

	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			u, v := f.At(col, row)
			norm := (math.Hypot(u, v) - minMag) / span

			// Screen rectangle of the cell's grid footprint.
			x1, y1 := m.GridToScreen(float64(col)-0.5, float64(row)-0.5)
			x2, y2 := m.GridToScreen(float64(col)+0.5, float64(row)+0.5)
			if x2 < x1 {
				x1, x2 = x2, x1
			}
			if y2 < y1 {
				y1, y2 = y2, y1
			}
			r.surface.Rect(x1, y1, x2-x1, y2-y1, r.ramp.At(norm), alpha)
		}
	}
}

func (r *Renderer) drawStreamlines(f *field.Field, m geo.Mapper, alpha float64) {
	if r.cacheField != f || r.cacheVP != m.Viewport {
		seeds := streamline.GridSeeds(f, r.opts.StreamlineSeedCount)
		r.cachedLines = r.tracer.TraceAll(seeds, f, r.opts.StreamlineMaxSteps, r.opts.StreamlineStepSize)
		r.cacheField = f
		r.cacheVP = m.Viewport
	}

	minMag, maxMag := f.MagnitudeRange()
	span := maxMag - minMag

	for _, line := range r.cachedLines {
		s := f.Sample(line[0].X, line[0].Y)
		c := FallbackColor
		if span > 0 {
			c = r.ramp.At((s.Speed - minMag) / span)
		}
		for i := 1; i < len(line); i++ {
			x1, y1 := m.GridToScreen(line[i-1].X, line[i-1].Y)
			x2, y2 := m.GridToScreen(line[i].X, line[i].Y)
			r.surface.Line(x1, y1, x2, y2, 1.2, c, alpha)
		}
	}
}

func (r *Renderer) drawParticles(snap field.Snapshot, ps *particles.System, m geo.Mapper, alpha float64) {
	if ps == nil {
		return
	}
	minMag, maxMag := snap.MagnitudeRange()
	span := maxMag - minMag

	for i := range ps.Particles {
		p := &ps.Particles[i]

		c := FallbackColor
		if span > 0 {
			c = r.ramp.At((math.Hypot(p.U, p.V) - minMag) / span)
		}

		// Fade out as the particle approaches respawn.
		fade := 1 - p.Age/p.MaxAge
		if fade <= 0 {
			continue
		}

		px, py := m.GridToScreen(p.X, p.Y)
		r.surface.Circle(px, py, 1.5, c, alpha*fade)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
