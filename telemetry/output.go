package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/config"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// VectorRecord is one exported wind vector with both grid and geographic
// coordinates.
type VectorRecord struct {
	GridX     float64 `csv:"grid_x" json:"grid_x"`
	GridY     float64 `csv:"grid_y" json:"grid_y"`
	Lat       float64 `csv:"lat" json:"lat"`
	Lon       float64 `csv:"lon" json:"lon"`
	VX        float64 `csv:"vx" json:"vx"`
	VY        float64 `csv:"vy" json:"vy"`
	Magnitude float64 `csv:"magnitude" json:"magnitude"`
}

// RunSnapshot is the JSON summary written at the end of a run. Its shape
// mirrors the payload the dashboard backend serves to clients.
type RunSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	WindSpeed   float64 `json:"wind_speed"`
	WindFromDeg float64 `json:"wind_from_deg"`

	GridWidth  int          `json:"grid_width"`
	GridHeight int          `json:"grid_height"`
	Bounds     field.Bounds `json:"bounds"`

	Stats FlowStats `json:"stats"`
}

// OutputManager writes run artifacts into a directory: wind_vectors.csv,
// perf.csv, run.json and a copy of the effective config. A nil manager
// is valid and discards everything.
type OutputManager struct {
	dir         string
	vectorsFile *os.File
	perfFile    *os.File

	vectorsHeaderWritten bool
	perfHeaderWritten    bool
}

// NewOutputManager creates the output directory and opens the CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "wind_vectors.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating wind_vectors.csv: %w", err)
	}
	om.vectorsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.vectorsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteVectors appends field vectors to wind_vectors.csv, thinned by
// stride and annotated with geographic coordinates. Calm cells below the
// threshold are skipped, matching the sparse export the dashboard
// consumes.
func (om *OutputManager) WriteVectors(f *field.Field, stride int) error {
	if om == nil {
		return nil
	}
	if f == nil {
		return fmt.Errorf("writing vectors: nil field")
	}
	if stride < 1 {
		stride = 1
	}

	w, h := f.GridSize()
	b := f.GeoBounds()
	lonSpan := b.East - b.West
	latSpan := b.North - b.South

	var records []VectorRecord
	for row := 0; row < h; row += stride {
		for col := 0; col < w; col += stride {
			u, v := f.At(col, row)
			mag := math.Hypot(u, v)
			if mag < calmThreshold {
				continue
			}
			var lat, lon float64
			if w > 1 {
				lon = b.West + float64(col)/float64(w-1)*lonSpan
			} else {
				lon = b.West
			}
			if h > 1 {
				lat = b.South + float64(row)/float64(h-1)*latSpan
			} else {
				lat = b.South
			}
			records = append(records, VectorRecord{
				GridX:     float64(col),
				GridY:     float64(row),
				Lat:       lat,
				Lon:       lon,
				VX:        u,
				VY:        v,
				Magnitude: mag,
			})
		}
	}
	if len(records) == 0 {
		return nil
	}

	if !om.vectorsHeaderWritten {
		if err := gocsv.Marshal(records, om.vectorsFile); err != nil {
			return fmt.Errorf("writing vectors: %w", err)
		}
		om.vectorsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.vectorsFile); err != nil {
			return fmt.Errorf("writing vectors: %w", err)
		}
	}
	return nil
}

// WritePerf appends one aggregated timing record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int32) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(tick)}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}
	return nil
}

// WriteRunSnapshot saves the run summary as run.json.
func (om *OutputManager) WriteRunSnapshot(snap RunSnapshot) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "run.json"), data, 0644); err != nil {
		return fmt.Errorf("writing run.json: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.vectorsFile != nil {
		if err := om.vectorsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
