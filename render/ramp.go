package render

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrDegenerateRamp indicates a ramp with fewer than two control stops.
var ErrDegenerateRamp = errors.New("color ramp needs at least 2 stops")

// FallbackColor is used where magnitude normalization is degenerate
// (max == min) and a ramp lookup would divide by zero.
var FallbackColor = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// Ramp maps a normalized scalar to a color by linear interpolation between
// ordered control stops. Shared by every visualization mode.
type Ramp struct {
	stops []colorful.Color
}

// NewRamp builds a ramp from ordered control stops.
func NewRamp(stops ...colorful.Color) (Ramp, error) {
	if len(stops) < 2 {
		return Ramp{}, ErrDegenerateRamp
	}
	return Ramp{stops: stops}, nil
}

// ParseRamp builds a ramp from hex color strings, as configured.
func ParseRamp(hexes []string) (Ramp, error) {
	if len(hexes) < 2 {
		return Ramp{}, ErrDegenerateRamp
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Ramp{}, fmt.Errorf("ramp stop %d: %w", i, err)
		}
		stops[i] = c
	}
	return Ramp{stops: stops}, nil
}

// At returns the ramp color for t, clamped to [0,1]. t=0 is exactly the
// first stop and t=1 exactly the last. A zero-value Ramp has no stops
// and yields FallbackColor for every t.
func (r Ramp) At(t float64) colorful.Color {
	if len(r.stops) < 2 {
		return FallbackColor
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segs := len(r.stops) - 1
	pos := t * float64(segs)
	i := int(pos)
	if i >= segs {
		i = segs - 1
	}
	frac := pos - float64(i)
	return r.stops[i].BlendRgb(r.stops[i+1], frac)
}

// Stops returns the control stops.
func (r Ramp) Stops() []colorful.Color { return r.stops }
