package field

import (
	"errors"
	"math"
	"testing"
)

// rampField builds a field where u(x,y)=x and v(x,y)=y exactly.
func rampField(t *testing.T, w, h int) *Field {
	t.Helper()
	u := make([]float64, w*h)
	v := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			u[row*w+col] = float64(col)
			v[row*w+col] = float64(row)
		}
	}
	f, err := New(w, h, Bounds{South: 54.0, West: 19.0, North: 54.2, East: 19.4}, u, v)
	if err != nil {
		t.Fatalf("building ramp field: %v", err)
	}
	return f
}

func TestSampleExactAtGridPoints(t *testing.T) {
	f := rampField(t, 8, 6)

	for _, tc := range []struct{ gx, gy float64 }{
		{0, 0}, {3, 2}, {7, 5}, {1, 4},
	} {
		s := f.Sample(tc.gx, tc.gy)
		if s.U != tc.gx || s.V != tc.gy {
			t.Errorf("Sample(%v,%v) = (%v,%v), want exact grid values", tc.gx, tc.gy, s.U, s.V)
		}
	}
}

func TestSampleMidpointIsCornerMean(t *testing.T) {
	// 2x2 grid with u corners {0,1,1,2}: the cell midpoint must equal the
	// arithmetic mean of the four corners.
	u := []float64{0, 1, 1, 2}
	v := []float64{1, 0, 2, 1}
	f, err := New(2, 2, Bounds{}, u, v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s := f.Sample(0.5, 0.5)
	if math.Abs(s.U-1.0) > 1e-12 {
		t.Errorf("midpoint u = %v, want 1.0", s.U)
	}
	if math.Abs(s.V-1.0) > 1e-12 {
		t.Errorf("midpoint v = %v, want 1.0", s.V)
	}
	if math.Abs(s.Speed-math.Hypot(s.U, s.V)) > 1e-12 {
		t.Errorf("speed %v not recomputed from components", s.Speed)
	}
}

func TestSampleOutsideDomainIsZeroFlow(t *testing.T) {
	f := rampField(t, 10, 10)

	for _, tc := range []struct{ gx, gy float64 }{
		{-1, -1},
		{10, 10},
		{-0.001, 5},
		{5, 9.001},
	} {
		s := f.Sample(tc.gx, tc.gy)
		if s.U != 0 || s.V != 0 || s.Speed != 0 {
			t.Errorf("Sample(%v,%v) = %+v, want zero flow outside domain", tc.gx, tc.gy, s)
		}
	}
}

func TestSampleAtDomainEdge(t *testing.T) {
	f := rampField(t, 10, 10)

	// The far corner is inside the domain and must not read past the arrays.
	s := f.Sample(9, 9)
	if s.U != 9 || s.V != 9 {
		t.Errorf("Sample(9,9) = (%v,%v), want (9,9)", s.U, s.V)
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		w, h int
		u, v []float64
	}{
		{"empty arrays", 10, 10, []float64{}, []float64{}},
		{"length mismatch", 2, 2, make([]float64, 4), make([]float64, 3)},
		{"zero width", 0, 4, nil, nil},
		{"negative height", 4, -1, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.w, tc.h, Bounds{}, tc.u, tc.v)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("New = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestMagnitudeRange(t *testing.T) {
	u := []float64{3, 0, 0, 4}
	v := []float64{4, 0, 0, 3}
	f, err := New(2, 2, Bounds{}, u, v)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	minMag, maxMag := f.MagnitudeRange()
	if minMag != 0 || maxMag != 5 {
		t.Errorf("MagnitudeRange = (%v,%v), want (0,5)", minMag, maxMag)
	}
}

func TestSampleNearestSnapsToCell(t *testing.T) {
	f := rampField(t, 4, 4)
	s := f.SampleNearest(1.4, 2.6)
	if s.U != 1 || s.V != 3 {
		t.Errorf("SampleNearest(1.4,2.6) = (%v,%v), want (1,3)", s.U, s.V)
	}
}

func TestDegenerateSample(t *testing.T) {
	if !(Sample{}).Degenerate() {
		t.Error("zero sample should be degenerate")
	}
	if (Sample{U: 1, V: 0, Speed: 1}).Degenerate() {
		t.Error("unit sample should not be degenerate")
	}
	if !(Sample{Speed: math.NaN()}).Degenerate() {
		t.Error("NaN speed should be degenerate")
	}
}
