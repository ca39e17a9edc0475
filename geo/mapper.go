// Package geo converts between geographic coordinates, field-grid indices,
// and drawing-surface pixels.
package geo

import (
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
)

// Projection is the pixel projection owned by the external map component.
// The engine never reimplements map math; it goes through this pair.
type Projection interface {
	Project(lat, lon float64) (px, py float64)
	Unproject(px, py float64) (lat, lon float64)
}

// Viewport is the currently visible window, owned by the map component and
// handed to the engine read-only on every render and step call.
type Viewport struct {
	Bounds field.Bounds
	Zoom   float64

	// Pixel dimensions of the drawing surface.
	WidthPx  float64
	HeightPx float64
}

// Mapper is a cheap value tying one field snapshot to one viewport and
// projection. It is rebuilt whenever the viewport changes (pan, zoom,
// resize); stale mappers must not be cached across viewport changes.
type Mapper struct {
	GridWidth   int
	GridHeight  int
	FieldBounds field.Bounds

	Viewport   Viewport
	projection Projection
}

// NewMapper builds a mapper for one field snapshot (dense or sparse) under
// one viewport.
func NewMapper(snap field.Snapshot, vp Viewport, proj Projection) Mapper {
	w, h := snap.GridSize()
	return Mapper{
		GridWidth:   w,
		GridHeight:  h,
		FieldBounds: snap.GeoBounds(),
		Viewport:    vp,
		projection:  proj,
	}
}

// GeoToGrid linearly maps a geographic point onto grid space. Row 0 of the
// grid is the south edge (see package field), so grid Y grows with latitude.
func (m Mapper) GeoToGrid(lat, lon float64) (gx, gy float64) {
	b := m.FieldBounds
	spanLon := b.East - b.West
	spanLat := b.North - b.South
	if spanLon == 0 || spanLat == 0 {
		return 0, 0
	}
	gx = (lon - b.West) / spanLon * float64(m.GridWidth-1)
	gy = (lat - b.South) / spanLat * float64(m.GridHeight-1)
	return gx, gy
}

// GridToGeo is the inverse of GeoToGrid.
func (m Mapper) GridToGeo(gx, gy float64) (lat, lon float64) {
	b := m.FieldBounds
	if m.GridWidth <= 1 || m.GridHeight <= 1 {
		return b.South, b.West
	}
	lon = b.West + gx/float64(m.GridWidth-1)*(b.East-b.West)
	lat = b.South + gy/float64(m.GridHeight-1)*(b.North-b.South)
	return lat, lon
}

// GeoToScreen delegates to the injected map projection.
func (m Mapper) GeoToScreen(lat, lon float64) (px, py float64) {
	return m.projection.Project(lat, lon)
}

// ScreenToGeo delegates to the injected map projection.
func (m Mapper) ScreenToGeo(px, py float64) (lat, lon float64) {
	return m.projection.Unproject(px, py)
}

// GridToScreen composes GridToGeo with the pixel projection. This is the
// hot path for rendering, one call per drawn particle or vector.
func (m Mapper) GridToScreen(gx, gy float64) (px, py float64) {
	lat, lon := m.GridToGeo(gx, gy)
	return m.projection.Project(lat, lon)
}

// ScreenToGrid composes the inverse projection with GeoToGrid.
func (m Mapper) ScreenToGrid(px, py float64) (gx, gy float64) {
	lat, lon := m.projection.Unproject(px, py)
	return m.GeoToGrid(lat, lon)
}

// GridViewport returns the viewport's visible bounds expressed in grid
// space, the region the particle system spawns into.
func (m Mapper) GridViewport() (minX, minY, maxX, maxY float64) {
	minX, minY = m.GeoToGrid(m.Viewport.Bounds.South, m.Viewport.Bounds.West)
	maxX, maxY = m.GeoToGrid(m.Viewport.Bounds.North, m.Viewport.Bounds.East)
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return minX, minY, maxX, maxY
}
