package telemetry

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
	f, err := field.New(w, h, field.Bounds{North: 1, East: 1}, us, vs)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func TestComputeFlowStatsUniform(t *testing.T) {
	f := uniformField(t, 10, 10, 3, 4)
	s, err := ComputeFlowStats(f, 1)
	if err != nil {
		t.Fatalf("ComputeFlowStats: %v", err)
	}
	if s.Cells != 64 {
		t.Errorf("cells = %d, want 64", s.Cells)
	}
	if math.Abs(s.MeanSpeed-5) > 1e-9 || math.Abs(s.MinSpeed-5) > 1e-9 || math.Abs(s.MaxSpeed-5) > 1e-9 {
		t.Errorf("speeds = (%v,%v,%v), want all 5", s.MinSpeed, s.MeanSpeed, s.MaxSpeed)
	}
	if s.StdSpeed != 0 {
		t.Errorf("std = %v, want 0", s.StdSpeed)
	}
	if s.CalmFraction != 0 {
		t.Errorf("calm fraction = %v, want 0", s.CalmFraction)
	}
}

func TestComputeFlowStatsExcludesBoundary(t *testing.T) {
	// Fast edges around a calm interior; with margin 1 only the calm
	// cells remain.
	w, h := 6, 6
	us := make([]float64, w*h)
	vs := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if row == 0 || row == h-1 || col == 0 || col == w-1 {
				us[row*w+col] = 10
			}
		}
	}
	f, err := field.New(w, h, field.Bounds{North: 1, East: 1}, us, vs)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}

	s, err := ComputeFlowStats(f, 1)
	if err != nil {
		t.Fatalf("ComputeFlowStats: %v", err)
	}
	if s.MaxSpeed != 0 {
		t.Errorf("max speed = %v, boundary cells leaked into interior stats", s.MaxSpeed)
	}
	if s.CalmFraction != 1 {
		t.Errorf("calm fraction = %v, want 1", s.CalmFraction)
	}
}

func TestComputeFlowStatsRejectsTotalMargin(t *testing.T) {
	f := uniformField(t, 4, 4, 1, 0)
	if _, err := ComputeFlowStats(f, 2); err == nil {
		t.Error("expected error when margin consumes the whole grid")
	}
	if _, err := ComputeFlowStats(nil, 0); err == nil {
		t.Error("expected error for nil field")
	}
}
