package geo

// Equirectangular is a simple linear projection of the viewport's geographic
// bounds onto its pixel rectangle. The standalone viewer and the tests use
// it in place of a real map's projection; when the engine is embedded under
// a map component, that component's own projection is injected instead.
//
// Pixel Y grows downward, so the viewport's north edge maps to py=0.
type Equirectangular struct {
	Viewport Viewport
}

// Project converts a geographic point to surface pixels.
func (e Equirectangular) Project(lat, lon float64) (px, py float64) {
	b := e.Viewport.Bounds
	spanLon := b.East - b.West
	spanLat := b.North - b.South
	if spanLon == 0 || spanLat == 0 {
		return 0, 0
	}
	px = (lon - b.West) / spanLon * e.Viewport.WidthPx
	py = (b.North - lat) / spanLat * e.Viewport.HeightPx
	return px, py
}

// Unproject converts surface pixels back to a geographic point.
func (e Equirectangular) Unproject(px, py float64) (lat, lon float64) {
	b := e.Viewport.Bounds
	if e.Viewport.WidthPx == 0 || e.Viewport.HeightPx == 0 {
		return b.South, b.West
	}
	lon = b.West + px/e.Viewport.WidthPx*(b.East-b.West)
	lat = b.North - py/e.Viewport.HeightPx*(b.North-b.South)
	return lat, lon
}
