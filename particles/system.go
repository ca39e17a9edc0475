// Package particles advects a fixed pool of massless particles through a
// wind field, one synchronous step per animation tick.
package particles

import (
	"fmt"
	"math/rand"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// Particle is one advected tracer. Positions are in field-grid space; the
// renderer projects them to pixels through the coordinate mapper. U and V
// cache the last sampled velocity for speed-based coloring.
type Particle struct {
	X, Y   float64
	U, V   float64
	Age    float64
	MaxAge float64
}

// Bounds is the grid-space region particles live in, derived from the
// visible viewport. Particles leaving it are respawned inside it.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether a point is inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// System owns the particle pool. Slots are reused on respawn; the pool is
// only reallocated by Resize, and even then surviving particles keep their
// state so the animation stays visually continuous.
type System struct {
	Particles []Particle

	bounds Bounds
	maxAge float64
	scale  float64
	rng    *rand.Rand
}

// New allocates a pool of count particles uniformly placed in bounds.
// Initial ages are staggered across [0, maxAge) so the pool does not respawn
// in a single synchronized pulse. The random source is injected so stepping
// is deterministic under test.
func New(count int, bounds Bounds, maxAge, scale float64, rng *rand.Rand) (*System, error) {
	if count <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", count)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("particle max age must be positive, got %v", maxAge)
	}

	s := &System{
		Particles: make([]Particle, count),
		bounds:    bounds,
		maxAge:    maxAge,
		scale:     scale,
		rng:       rng,
	}
	for i := range s.Particles {
		p := respawn(bounds, maxAge, rng)
		p.Age = rng.Float64() * maxAge
		s.Particles[i] = p
	}
	return s, nil
}

// SetBounds moves the spawn region, called on viewport change. Particles
// now outside it are respawned lazily on their next step.
func (s *System) SetBounds(b Bounds) {
	s.bounds = b
}

// Count returns the current pool size.
func (s *System) Count() int { return len(s.Particles) }

// Step advances every particle by dt: sample the field at the particle's
// position, integrate, age, and apply the respawn rule. A nil sampler (the
// malformed-field fallback) leaves every particle stationary with zero
// velocity; this path runs every animation frame and must never panic.
func (s *System) Step(dt float64, f field.Sampler) {
	if f == nil {
		for i := range s.Particles {
			s.Particles[i].U = 0
			s.Particles[i].V = 0
		}
		return
	}

	for i := range s.Particles {
		p := &s.Particles[i]

		sample := f.Sample(p.X, p.Y)
		p.U = sample.U
		p.V = sample.V

		p.X += sample.U * dt * s.scale
		p.Y += sample.V * dt * s.scale
		p.Age += dt

		if p.Age > p.MaxAge || !s.bounds.Contains(p.X, p.Y) || sample.Degenerate() {
			*p = respawn(s.bounds, s.maxAge, s.rng)
		}
	}
}

// Resize grows the pool by appending fresh particles or shrinks it by
// truncation. Surviving particles are untouched.
func (s *System) Resize(count int) {
	if count <= 0 {
		count = 1
	}
	if count <= len(s.Particles) {
		s.Particles = s.Particles[:count]
		return
	}
	for len(s.Particles) < count {
		p := respawn(s.bounds, s.maxAge, s.rng)
		p.Age = s.rng.Float64() * s.maxAge
		s.Particles = append(s.Particles, p)
	}
}

// respawn returns a fully specified fresh particle state. Pure apart from
// the rng draw: every field is assigned, so a respawned slot can never carry
// stale state from its previous life.
func respawn(b Bounds, maxAge float64, rng *rand.Rand) Particle {
	return Particle{
		X:      b.MinX + rng.Float64()*(b.MaxX-b.MinX),
		Y:      b.MinY + rng.Float64()*(b.MaxY-b.MinY),
		U:      0,
		V:      0,
		Age:    0,
		MaxAge: maxAge,
	}
}
