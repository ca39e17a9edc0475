package windsim

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// WindComponents converts a meteorological speed/direction pair to grid
// u/v components (direction is where the wind comes from, degrees
// clockwise from north). The returned vector points downwind: wind from
// the west (270) blows eastward, u = +speed.
func WindComponents(speed, fromDeg float64) (u, v float64) {
	mathRad := (270 - fromDeg) * math.Pi / 180
	return math.Cos(mathRad) * speed, math.Sin(mathRad) * speed
}

// Uniform returns constant flow across the whole grid.
func Uniform(width, height int, bounds field.Bounds, speed, fromDeg float64) (*field.Field, error) {
	u, v := WindComponents(speed, fromDeg)
	us := make([]float64, width*height)
	vs := make([]float64, width*height)
	for i := range us {
		us[i] = u
		vs[i] = v
	}
	return field.New(width, height, bounds, us, vs)
}

// Vortex returns a solid-body rotation around the grid center whose speed
// peaks at peakSpeed near the core radius and decays outward.
func Vortex(width, height int, bounds field.Bounds, peakSpeed float64) (*field.Field, error) {
	us := make([]float64, width*height)
	vs := make([]float64, width*height)

	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	core := math.Min(cx, cy) / 2
	if core < 1 {
		core = 1
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			dx := float64(col) - cx
			dy := float64(row) - cy
			r := math.Hypot(dx, dy)

			// Rankine-style profile: linear ramp inside the core,
			// 1/r decay outside.
			var speed float64
			if r < core {
				speed = peakSpeed * r / core
			} else {
				speed = peakSpeed * core / r
			}

			if r > 1e-9 {
				us[row*width+col] = -dy / r * speed
				vs[row*width+col] = dx / r * speed
			}
		}
	}
	return field.New(width, height, bounds, us, vs)
}

// SinusoidShear returns eastward flow whose strength varies sinusoidally
// with latitude row, the classic stand-in for a sheared boundary layer.
func SinusoidShear(width, height int, bounds field.Bounds, base, amplitude float64, periods float64) (*field.Field, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("sinusoid shear: periods must be positive, got %v", periods)
	}
	us := make([]float64, width*height)
	vs := make([]float64, width*height)

	for row := 0; row < height; row++ {
		phase := float64(row) / float64(height) * 2 * math.Pi * periods
		u := base + amplitude*math.Sin(phase)
		for col := 0; col < width; col++ {
			us[row*width+col] = u
		}
	}
	return field.New(width, height, bounds, us, vs)
}

// GustField generates a time-evolving gusty flow from simplex noise: one
// noise channel turns the mean wind direction, a second modulates speed.
// Successive Snapshot calls with increasing t animate the gusts.
type GustField struct {
	Width, Height int
	Bounds        field.Bounds

	// MeanSpeed and MeanFromDeg set the prevailing wind the gusts
	// perturb.
	MeanSpeed   float64
	MeanFromDeg float64

	// Turbulence in [0,1] scales how far gusts swing the direction and
	// speed away from the mean.
	Turbulence float64

	// NoiseScale is the spatial frequency of the gust structure.
	NoiseScale float64

	noise opensimplex.Noise
}

// NewGustField creates a seeded gust generator with moderate turbulence.
func NewGustField(width, height int, bounds field.Bounds, meanSpeed, meanFromDeg float64, seed int64) *GustField {
	return &GustField{
		Width:       width,
		Height:      height,
		Bounds:      bounds,
		MeanSpeed:   meanSpeed,
		MeanFromDeg: meanFromDeg,
		Turbulence:  0.4,
		NoiseScale:  0.08,
		noise:       opensimplex.New(seed),
	}
}

// Snapshot samples the generator at time t and returns a fresh field.
func (g *GustField) Snapshot(t float64) (*field.Field, error) {
	us := make([]float64, g.Width*g.Height)
	vs := make([]float64, g.Width*g.Height)

	meanU, meanV := WindComponents(g.MeanSpeed, g.MeanFromDeg)
	meanAngle := math.Atan2(meanV, meanU)

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			nx := float64(col) * g.NoiseScale
			ny := float64(row) * g.NoiseScale

			// First channel steers, second channel gusts.
			turn := g.noise.Eval3(nx, ny, t) * math.Pi * g.Turbulence
			gust := 1 + g.noise.Eval3(nx+100, ny+100, t)*g.Turbulence

			angle := meanAngle + turn
			speed := g.MeanSpeed * gust
			if speed < 0 {
				speed = 0
			}

			us[row*g.Width+col] = math.Cos(angle) * speed
			vs[row*g.Width+col] = math.Sin(angle) * speed
		}
	}
	return field.New(g.Width, g.Height, g.Bounds, us, vs)
}
