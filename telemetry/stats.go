package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// FlowStats summarizes wind speed over the interior of a field. The
// boundary ring is excluded because solver inlet and outflow cells carry
// pinned rather than relaxed values.
type FlowStats struct {
	Cells int `csv:"cells" json:"cells"`

	MinSpeed  float64 `csv:"min_speed" json:"min_speed"`
	MaxSpeed  float64 `csv:"max_speed" json:"max_speed"`
	MeanSpeed float64 `csv:"mean_speed" json:"mean_speed"`
	StdSpeed  float64 `csv:"std_speed" json:"std_speed"`

	// CalmFraction is the share of interior cells below 0.1 m/s,
	// obstacle interiors included.
	CalmFraction float64 `csv:"calm_fraction" json:"calm_fraction"`
}

const calmThreshold = 0.1

// ComputeFlowStats aggregates speeds over the field interior, skipping a
// ring of margin cells on every edge. A margin that leaves no interior
// is an error.
func ComputeFlowStats(f *field.Field, margin int) (FlowStats, error) {
	if f == nil {
		return FlowStats{}, fmt.Errorf("flow stats: nil field")
	}
	if margin < 0 {
		margin = 0
	}
	w, h := f.GridSize()
	if w-2*margin < 1 || h-2*margin < 1 {
		return FlowStats{}, fmt.Errorf("flow stats: margin %d leaves no interior in %dx%d grid", margin, w, h)
	}

	speeds := make([]float64, 0, (w-2*margin)*(h-2*margin))
	calm := 0
	for row := margin; row < h-margin; row++ {
		for col := margin; col < w-margin; col++ {
			idx := row*w + col
			s := math.Hypot(f.U[idx], f.V[idx])
			speeds = append(speeds, s)
			if s < calmThreshold {
				calm++
			}
		}
	}

	mean, std := stat.MeanStdDev(speeds, nil)
	if math.IsNaN(std) {
		std = 0
	}

	min, max := speeds[0], speeds[0]
	for _, s := range speeds[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	return FlowStats{
		Cells:        len(speeds),
		MinSpeed:     min,
		MaxSpeed:     max,
		MeanSpeed:    mean,
		StdSpeed:     std,
		CalmFraction: float64(calm) / float64(len(speeds)),
	}, nil
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cells", s.Cells),
		slog.Float64("min_speed", s.MinSpeed),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("std_speed", s.StdSpeed),
		slog.Float64("calm_fraction", s.CalmFraction),
	)
}
