package streamline

import (
	"math"
	"testing"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

func uniformField(t *testing.T, w, h int, u, v float64) *field.Field {
	t.Helper()
	us := make([]float64, w*h)
	vs := make([]float64, w*h)
	for i := range us {
		us[i] = u
		vs[i] = v
	}
	f, err := field.New(w, h, field.Bounds{}, us, vs)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func TestTraceFollowsUniformFlow(t *testing.T) {
	f := uniformField(t, 20, 20, 2, 0)
	tr := NewTracer()

	line := tr.Trace(Point{X: 1, Y: 10}, f, 10, 0.5)
	if line == nil {
		t.Fatal("expected a usable trace")
	}
	if len(line) != 11 {
		t.Fatalf("trace length = %d, want 11 (seed + 10 steps)", len(line))
	}

	// Eastward flow: each step advances +0.5 in x, y fixed.
	for i, p := range line {
		wantX := 1 + 0.5*float64(i)
		if math.Abs(p.X-wantX) > 1e-9 || math.Abs(p.Y-10) > 1e-9 {
			t.Fatalf("point %d = (%v,%v), want (%v,10)", i, p.X, p.Y, wantX)
		}
	}
}

func TestTraceStopsAtDomainEdge(t *testing.T) {
	f := uniformField(t, 10, 10, 1, 0)
	tr := NewTracer()

	line := tr.Trace(Point{X: 8, Y: 5}, f, 100, 0.5)
	if line == nil {
		t.Fatal("expected a usable trace")
	}
	last := line[len(line)-1]
	if last.X > 9 {
		t.Errorf("trace escaped the domain: last x = %v", last.X)
	}
	if len(line) >= 101 {
		t.Errorf("trace did not stop at the edge: %d points", len(line))
	}
}

func TestTraceStopsBelowSpeedThreshold(t *testing.T) {
	f := uniformField(t, 10, 10, 0.01, 0) // below the 0.1 default threshold
	tr := NewTracer()

	if line := tr.Trace(Point{X: 5, Y: 5}, f, 100, 0.5); line != nil {
		t.Errorf("expected nil trace in near-calm flow, got %d points", len(line))
	}
}

func TestTraceDropsShortPolylines(t *testing.T) {
	f := uniformField(t, 10, 10, 1, 0)
	tr := NewTracer()
	tr.MinPoints = 5

	// Seed right next to the east edge: only a step or two fits.
	if line := tr.Trace(Point{X: 8.8, Y: 5}, f, 100, 0.5); line != nil {
		t.Errorf("expected short trace to be dropped, got %d points", len(line))
	}
}

func TestTraceRejectsBadInput(t *testing.T) {
	tr := NewTracer()
	f := uniformField(t, 10, 10, 1, 0)

	if tr.Trace(Point{X: 5, Y: 5}, nil, 10, 0.5) != nil {
		t.Error("nil field should yield nil trace")
	}
	if tr.Trace(Point{X: -3, Y: 5}, f, 10, 0.5) != nil {
		t.Error("seed outside the domain should yield nil trace")
	}
}

func TestGridSeedsCoverDomain(t *testing.T) {
	f := uniformField(t, 30, 20, 1, 0)

	seeds := GridSeeds(f, 25)
	if len(seeds) != 25 {
		t.Fatalf("len(seeds) = %d, want 25", len(seeds))
	}
	for _, s := range seeds {
		if !f.InBounds(s.X, s.Y) {
			t.Errorf("seed (%v,%v) outside the field domain", s.X, s.Y)
		}
	}
}

func TestTraceAllFiltersUnusable(t *testing.T) {
	f := uniformField(t, 10, 10, 1, 0)
	tr := NewTracer()
	tr.MinPoints = 3

	lines := tr.TraceAll([]Point{
		{X: 1, Y: 5},   // long trace
		{X: -5, Y: 5},  // outside domain
		{X: 8.9, Y: 5}, // too short
	}, f, 50, 0.5)

	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
}
