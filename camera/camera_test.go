package camera

import (
	"math"
	"testing"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

var testDomain = field.Bounds{South: 54.0, West: 18.0, North: 54.4, East: 18.8}

// boundsNear tolerates the rounding from recomputing edges as center±half.
func boundsNear(a, b field.Bounds) bool {
	const eps = 1e-12
	return math.Abs(a.South-b.South) <= eps &&
		math.Abs(a.West-b.West) <= eps &&
		math.Abs(a.North-b.North) <= eps &&
		math.Abs(a.East-b.East) <= eps
}

func TestNewShowsWholeDomain(t *testing.T) {
	c := New(800, 600, testDomain)
	vp := c.Viewport()

	if !boundsNear(vp.Bounds, testDomain) {
		t.Errorf("viewport %+v, want full domain %+v", vp.Bounds, testDomain)
	}
	if vp.Zoom != 1 {
		t.Errorf("zoom = %v, want 1", vp.Zoom)
	}
}

func TestZoomNarrowsView(t *testing.T) {
	c := New(800, 600, testDomain)
	c.SetZoom(2)
	vp := c.Viewport()

	wantLonSpan := (testDomain.East - testDomain.West) / 2
	gotLonSpan := vp.Bounds.East - vp.Bounds.West
	if math.Abs(gotLonSpan-wantLonSpan) > 1e-12 {
		t.Errorf("lon span = %v, want %v", gotLonSpan, wantLonSpan)
	}

	// Center unchanged when zooming in place.
	gotCenter := (vp.Bounds.West + vp.Bounds.East) / 2
	wantCenter := (testDomain.West + testDomain.East) / 2
	if math.Abs(gotCenter-wantCenter) > 1e-12 {
		t.Errorf("center lon = %v, want %v", gotCenter, wantCenter)
	}
}

func TestPanClampsToDomain(t *testing.T) {
	c := New(800, 600, testDomain)
	c.SetZoom(2)

	// Drag far to the right; view slides west but must stop at the edge.
	c.Pan(1e6, 0)
	vp := c.Viewport()
	if vp.Bounds.West < testDomain.West-1e-12 {
		t.Errorf("view west %v escaped domain west %v", vp.Bounds.West, testDomain.West)
	}

	c.Pan(-2e6, 0)
	vp = c.Viewport()
	if vp.Bounds.East > testDomain.East+1e-12 {
		t.Errorf("view east %v escaped domain east %v", vp.Bounds.East, testDomain.East)
	}
}

func TestPanAtFullZoomIsPinned(t *testing.T) {
	c := New(800, 600, testDomain)
	c.Pan(100, 50)
	vp := c.Viewport()
	if !boundsNear(vp.Bounds, testDomain) {
		t.Errorf("zoom-1 view moved to %+v", vp.Bounds)
	}
}

func TestZoomClamping(t *testing.T) {
	c := New(800, 600, testDomain)
	c.SetZoom(0.1)
	if c.Zoom != c.MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", c.Zoom, c.MinZoom)
	}
	c.SetZoom(100)
	if c.Zoom != c.MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", c.Zoom, c.MaxZoom)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := New(800, 600, testDomain)
	c.SetZoom(4)
	c.Pan(200, -100)
	c.Reset()

	if c.Zoom != 1 {
		t.Errorf("zoom = %v after reset", c.Zoom)
	}
	if !boundsNear(c.Viewport().Bounds, testDomain) {
		t.Errorf("view %+v after reset", c.Viewport().Bounds)
	}
}

func TestZoomByCompounds(t *testing.T) {
	c := New(800, 600, testDomain)
	c.ZoomBy(2)
	c.ZoomBy(2)
	if math.Abs(c.Zoom-4) > 1e-12 {
		t.Errorf("zoom = %v, want 4", c.Zoom)
	}
}
