// Package streamline traces integral curves through a wind field from seed
// points. Traces are immutable once produced; the renderer discards and
// regenerates them when the field or viewport changes.
package streamline

import (
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// Point is one polyline vertex in grid space.
type Point struct {
	X, Y float64
}

// Tracer performs repeated Euler steps along normalized flow direction.
type Tracer struct {
	// SpeedThreshold stops the trace when flow drops below it.
	SpeedThreshold float64

	// MinPoints is the shortest polyline worth rendering; shorter traces
	// are returned as nil.
	MinPoints int
}

// NewTracer returns a tracer with the default stop threshold (0.1) and
// minimum usable polyline length (3 points).
func NewTracer() *Tracer {
	return &Tracer{SpeedThreshold: 0.1, MinPoints: 3}
}

// Trace follows the field from seed, advancing stepSize along the local
// flow direction each step. It stops when the speed falls below the
// threshold, the step budget runs out, or the point leaves the field
// domain. Traces shorter than MinPoints are dropped (nil return).
func (tr *Tracer) Trace(seed Point, f *field.Field, maxSteps int, stepSize float64) []Point {
	if f == nil || f.Validate() != nil || !f.InBounds(seed.X, seed.Y) {
		return nil
	}

	line := make([]Point, 1, maxSteps+1)
	line[0] = seed

	x, y := seed.X, seed.Y
	for step := 0; step < maxSteps; step++ {
		s := f.Sample(x, y)
		if s.Speed < tr.SpeedThreshold || s.Degenerate() {
			break
		}

		// Normalized direction scaled by the step size, so the polyline
		// has even spacing regardless of local speed.
		x += s.U / s.Speed * stepSize
		y += s.V / s.Speed * stepSize

		if !f.InBounds(x, y) {
			break
		}
		line = append(line, Point{X: x, Y: y})
	}

	if len(line) < tr.MinPoints {
		return nil
	}
	return line
}

// TraceAll traces every seed and keeps only usable polylines.
func (tr *Tracer) TraceAll(seeds []Point, f *field.Field, maxSteps int, stepSize float64) [][]Point {
	lines := make([][]Point, 0, len(seeds))
	for _, seed := range seeds {
		if line := tr.Trace(seed, f, maxSteps, stepSize); line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

// GridSeeds returns an evenly strided seed lattice over the field domain.
func GridSeeds(f *field.Field, count int) []Point {
	if f == nil || count <= 0 {
		return nil
	}
	// Near-square lattice with at least count seeds.
	cols := 1
	for cols*cols < count {
		cols++
	}
	rows := (count + cols - 1) / cols

	seeds := make([]Point, 0, count)
	for r := 0; r < rows && len(seeds) < count; r++ {
		for c := 0; c < cols && len(seeds) < count; c++ {
			seeds = append(seeds, Point{
				X: (float64(c) + 0.5) / float64(cols) * float64(f.Width-1),
				Y: (float64(r) + 0.5) / float64(rows) * float64(f.Height-1),
			})
		}
	}
	return seeds
}
