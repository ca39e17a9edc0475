// Package field provides immutable wind-field snapshots over a geographic
// grid, with point sampling via bilinear interpolation.
//
// Grid convention: values are stored row-major as row*Width+col, and row 0 is
// the SOUTH edge of the field. Grid Y therefore increases northward. All
// geographic conversions honor this in one place (package geo); nothing else
// in the engine is allowed to reinterpret the row order.
package field

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformed indicates a snapshot whose component arrays are missing or do
// not match the declared grid dimensions.
var ErrMalformed = errors.New("malformed field snapshot")

// Bounds is a geographic rectangle in degrees (WGS84).
type Bounds struct {
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west" yaml:"west"`
	North float64 `json:"north" yaml:"north"`
	East  float64 `json:"east" yaml:"east"`
}

// Sample is an interpolated wind vector. Speed is recomputed from the
// interpolated components, never interpolated from precomputed magnitudes.
type Sample struct {
	U, V  float64
	Speed float64
}

// Degenerate reports whether the sample is unusable for direction
// normalization (zero or non-finite speed).
func (s Sample) Degenerate() bool {
	return s.Speed < 1e-9 || math.IsNaN(s.Speed) || math.IsInf(s.Speed, 0)
}

// Sampler yields the wind vector at a grid-space position. Implemented by
// both the dense Field and the sparse representation.
type Sampler interface {
	Sample(gx, gy float64) Sample
}

// Snapshot is any wind-field representation the engine can advect particles
// through and color against. Both Field and Sparse implement it.
type Snapshot interface {
	Sampler
	GridSize() (w, h int)
	GeoBounds() Bounds
	MagnitudeRange() (min, max float64)
}

// Field is a dense wind-field snapshot. Fields are created whole and never
// mutated; data refresh replaces the whole snapshot by reference swap so an
// in-flight frame only ever observes one snapshot.
type Field struct {
	Width  int
	Height int
	Bounds Bounds

	// Velocity components in m/s, row-major, row 0 = south edge.
	U []float64
	V []float64

	minMag, maxMag float64
}

// New builds a dense snapshot and precomputes its magnitude range.
func New(width, height int, bounds Bounds, u, v []float64) (*Field, error) {
	f := &Field{Width: width, Height: height, Bounds: bounds, U: u, V: v}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f.minMag = math.Inf(1)
	f.maxMag = math.Inf(-1)
	for i := range f.U {
		m := math.Hypot(f.U[i], f.V[i])
		if m < f.minMag {
			f.minMag = m
		}
		if m > f.maxMag {
			f.maxMag = m
		}
	}
	return f, nil
}

// Validate checks the snapshot invariants: positive grid dimensions and
// component arrays of exactly Width*Height entries.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrMalformed)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrMalformed, f.Width, f.Height)
	}
	n := f.Width * f.Height
	if len(f.U) != n || len(f.V) != n {
		return fmt.Errorf("%w: want %d values, have u=%d v=%d", ErrMalformed, n, len(f.U), len(f.V))
	}
	return nil
}

// MagnitudeRange returns the precomputed (min, max) wind speed over the grid.
func (f *Field) MagnitudeRange() (float64, float64) {
	return f.minMag, f.maxMag
}

// GridSize returns the grid cell counts.
func (f *Field) GridSize() (w, h int) { return f.Width, f.Height }

// GeoBounds returns the geographic rectangle the grid covers.
func (f *Field) GeoBounds() Bounds { return f.Bounds }

// At returns the stored components at a grid cell. Indices outside the grid
// are treated as zero flow.
func (f *Field) At(col, row int) (u, v float64) {
	if col < 0 || col >= f.Width || row < 0 || row >= f.Height {
		return 0, 0
	}
	i := row*f.Width + col
	return f.U[i], f.V[i]
}

// InBounds reports whether a grid-space point lies inside the sampling
// domain [0, Width-1] x [0, Height-1].
func (f *Field) InBounds(gx, gy float64) bool {
	return gx >= 0 && gx <= float64(f.Width-1) && gy >= 0 && gy <= float64(f.Height-1)
}

// Sample bilinearly interpolates the wind vector at a grid-space point.
// Queries outside the domain return zero flow rather than an error, so
// particles near the edge decelerate and respawn instead of crashing the
// frame loop.
func (f *Field) Sample(gx, gy float64) Sample {
	if !f.InBounds(gx, gy) {
		return Sample{}
	}

	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	fx := gx - float64(x0)
	fy := gy - float64(y0)

	x1 := x0 + 1
	if x1 > f.Width-1 {
		x1 = f.Width - 1
	}
	y1 := y0 + 1
	if y1 > f.Height-1 {
		y1 = f.Height - 1
	}

	i00 := y0*f.Width + x0
	i01 := y0*f.Width + x1
	i10 := y1*f.Width + x0
	i11 := y1*f.Width + x1

	w00 := (1 - fx) * (1 - fy)
	w01 := fx * (1 - fy)
	w10 := (1 - fx) * fy
	w11 := fx * fy

	u := f.U[i00]*w00 + f.U[i01]*w01 + f.U[i10]*w10 + f.U[i11]*w11
	v := f.V[i00]*w00 + f.V[i01]*w01 + f.V[i10]*w10 + f.V[i11]*w11

	return Sample{U: u, V: v, Speed: math.Hypot(u, v)}
}

// SampleNearest snaps the query to the nearest grid cell. Cheaper than
// Sample but visibly blocky; kept as a performance fallback only.
func (f *Field) SampleNearest(gx, gy float64) Sample {
	if !f.InBounds(gx, gy) {
		return Sample{}
	}
	u, v := f.At(int(math.Round(gx)), int(math.Round(gy)))
	return Sample{U: u, V: v, Speed: math.Hypot(u, v)}
}
