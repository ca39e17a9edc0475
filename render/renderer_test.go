package render

import (
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/geo"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/particles"
)

// recordSurface counts drawing operations for assertions.
type recordSurface struct {
	clears  int
	fades   int
	lines   int
	circles int
	rects   int

	lastCircleAlpha float64
}

func (s *recordSurface) Clear(colorful.Color)               { s.clears++ }
func (s *recordSurface) Fade(colorful.Color, float64)       { s.fades++ }
func (s *recordSurface) Line(_, _, _, _, _ float64, _ colorful.Color, _ float64) {
	s.lines++
}
func (s *recordSurface) Circle(_, _, _ float64, _ colorful.Color, alpha float64) {
	s.circles++
	s.lastCircleAlpha = alpha
}
func (s *recordSurface) Rect(_, _, _, _ float64, _ colorful.Color, _ float64) {
	s.rects++
}

func testRamp(t *testing.T) Ramp {
	t.Helper()
	r, err := ParseRamp([]string{"#2c7bb6", "#ffffbf", "#d7191c"})
	if err != nil {
		t.Fatalf("ParseRamp: %v", err)
	}
	return r
}

// variedField has a gradient of magnitudes so normalization is not degenerate.
func variedField(t *testing.T, w, h int) *field.Field {
	t.Helper()
	u := make([]float64, w*h)
	v := make([]float64, w*h)
	for i := range u {
		u[i] = 1 + float64(i%w) // 1..w m/s
	}
	f, err := field.New(w, h,
		field.Bounds{South: 54.0, West: 19.0, North: 54.2, East: 19.4}, u, v)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func uniformMagField(t *testing.T, w, h int) *field.Field {
	t.Helper()
	u := make([]float64, w*h)
	for i := range u {
		u[i] = 5
	}
	f, err := field.New(w, h, field.Bounds{South: 54.0, West: 19.0, North: 54.2, East: 19.4},
		u, make([]float64, w*h))
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func testMapper(f *field.Field) geo.Mapper {
	vp := geo.Viewport{
		Bounds:   f.Bounds,
		Zoom:     1,
		WidthPx:  800,
		HeightPx: 600,
	}
	return geo.NewMapper(f, vp, geo.Equirectangular{Viewport: vp})
}

func testParticles(t *testing.T) *particles.System {
	t.Helper()
	ps, err := particles.New(30, particles.Bounds{MinX: 0, MinY: 0, MaxX: 9, MaxY: 9},
		100, 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("particles.New: %v", err)
	}
	return ps
}

func TestRenderWithoutSurfaceIsNoOp(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	f := variedField(t, 10, 10)

	// Must not panic with no surface attached.
	r.Render(ModeCombined, f, testParticles(t), testMapper(f))
}

func TestRenderClearsEveryFrame(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 10)

	r.Render(ModeVectors, f, nil, testMapper(f))
	r.Render(ModeVectors, f, nil, testMapper(f))

	if surf.clears != 2 {
		t.Errorf("clears = %d, want one per frame", surf.clears)
	}
	if surf.fades != 0 {
		t.Errorf("fades = %d, want 0 outside trail mode", surf.fades)
	}
}

func TestTrailModeFadesInsteadOfClearing(t *testing.T) {
	opts := DefaultOptions()
	opts.TrailFade = 0.1
	r := New(testRamp(t), opts)
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 10)

	r.Render(ModeParticles, f, testParticles(t), testMapper(f))
	if surf.fades != 1 || surf.clears != 0 {
		t.Errorf("fades=%d clears=%d, want trail mode to under-clear", surf.fades, surf.clears)
	}

	// Trail fade only applies to particle layers; vectors still clear fully.
	r.Render(ModeVectors, f, nil, testMapper(f))
	if surf.clears != 1 {
		t.Errorf("clears = %d, want full clear for vector mode", surf.clears)
	}
}

func TestNilFieldStillClearsButDrawsNothing(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 10)

	r.Render(ModeCombined, nil, testParticles(t), testMapper(f))

	if surf.clears != 1 {
		t.Errorf("clears = %d, want 1", surf.clears)
	}
	if surf.lines+surf.circles+surf.rects != 0 {
		t.Errorf("drew %d ops with nil field, want 0", surf.lines+surf.circles+surf.rects)
	}
}

func TestHeatmapFillsCells(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 8)

	r.Render(ModeHeatmap, f, nil, testMapper(f))
	if surf.rects != 10*8 {
		t.Errorf("rects = %d, want one per cell (80)", surf.rects)
	}
}

func TestHeatmapSkipsDegenerateNormalization(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := uniformMagField(t, 10, 10) // max == min everywhere

	r.Render(ModeHeatmap, f, nil, testMapper(f))
	if surf.rects != 0 {
		t.Errorf("rects = %d, want 0 when max == min", surf.rects)
	}
	if surf.clears != 1 {
		t.Errorf("clears = %d, frame must still be cleared", surf.clears)
	}
}

func TestVectorsDrawShaftAndArrowhead(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 12, 12)

	r.Render(ModeVectors, f, nil, testMapper(f))
	if surf.lines == 0 {
		t.Fatal("no vector lines drawn")
	}
	// Every drawn vector is a shaft plus two barbs.
	if surf.lines%3 != 0 {
		t.Errorf("lines = %d, want a multiple of 3", surf.lines)
	}
}

func TestVectorsBelowMinLengthSkipped(t *testing.T) {
	opts := DefaultOptions()
	opts.MinVectorLength = 1e6 // nothing can reach this
	r := New(testRamp(t), opts)
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 10)

	r.Render(ModeVectors, f, nil, testMapper(f))
	if surf.lines != 0 {
		t.Errorf("lines = %d, want all vectors culled", surf.lines)
	}
}

func TestParticleAlphaFadesWithAge(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 10, 10)
	ps := testParticles(t)

	// Single nearly-expired particle draws almost transparent.
	ps.Resize(1)
	ps.Particles[0].Age = 99
	ps.Particles[0].MaxAge = 100
	ps.Particles[0].X, ps.Particles[0].Y = 5, 5

	r.Render(ModeParticles, f, ps, testMapper(f))
	if surf.circles != 1 {
		t.Fatalf("circles = %d, want 1", surf.circles)
	}
	if surf.lastCircleAlpha > 0.05 {
		t.Errorf("alpha = %v, want near-zero for a particle at end of life", surf.lastCircleAlpha)
	}
}

func TestStreamlinesDrawn(t *testing.T) {
	r := New(testRamp(t), DefaultOptions())
	surf := &recordSurface{}
	r.SetSurface(surf)
	f := variedField(t, 20, 20)

	r.Render(ModeStreamlines, f, nil, testMapper(f))
	if surf.lines == 0 {
		t.Error("no streamline segments drawn")
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	for _, name := range []string{"vectors", "heatmap", "streamlines", "particles", "combined"} {
		if _, err := ParseMode(name); err != nil {
			t.Errorf("ParseMode(%q) = %v", name, err)
		}
	}
	if _, err := ParseMode("sparkles"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}
