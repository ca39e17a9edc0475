// Package camera provides pan and zoom control over the geographic
// viewport.
package camera

import (
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/geo"
)

// Camera tracks the view center and zoom over a fixed geographic domain.
// At zoom 1 the whole domain is visible; higher zoom narrows the view.
// The center is clamped so the view never leaves the domain.
type Camera struct {
	// CenterLat and CenterLon are the view center in degrees.
	CenterLat, CenterLon float64

	// Zoom level (1.0 = whole domain, 2.0 = 2x magnification).
	Zoom float64

	// Viewport dimensions in pixels.
	ViewportW, ViewportH float64

	// Domain is the full geographic extent being visualized.
	Domain field.Bounds

	// Zoom constraints.
	MinZoom, MaxZoom float64
}

// New creates a camera showing the whole domain.
func New(viewportW, viewportH float64, domain field.Bounds) *Camera {
	return &Camera{
		CenterLat: (domain.South + domain.North) / 2,
		CenterLon: (domain.West + domain.East) / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Domain:    domain,
		MinZoom:   1.0,
		MaxZoom:   16.0,
	}
}

// Viewport returns the visible geographic rectangle for the current
// center and zoom, ready to hand to the engine.
func (c *Camera) Viewport() geo.Viewport {
	halfLon := (c.Domain.East - c.Domain.West) / (2 * c.Zoom)
	halfLat := (c.Domain.North - c.Domain.South) / (2 * c.Zoom)

	return geo.Viewport{
		Bounds: field.Bounds{
			South: c.CenterLat - halfLat,
			West:  c.CenterLon - halfLon,
			North: c.CenterLat + halfLat,
			East:  c.CenterLon + halfLon,
		},
		Zoom:     c.Zoom,
		WidthPx:  c.ViewportW,
		HeightPx: c.ViewportH,
	}
}

// Pan moves the view by a screen-pixel delta. Dragging right moves the
// view west; dragging down moves it north, matching map-drag feel.
func (c *Camera) Pan(dxPx, dyPx float64) {
	lonSpan := (c.Domain.East - c.Domain.West) / c.Zoom
	latSpan := (c.Domain.North - c.Domain.South) / c.Zoom

	c.CenterLon -= dxPx / c.ViewportW * lonSpan
	c.CenterLat += dyPx / c.ViewportH * latSpan
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max, keeping the center
// inside the domain.
func (c *Camera) SetZoom(zoom float64) {
	if zoom < c.MinZoom {
		zoom = c.MinZoom
	}
	if zoom > c.MaxZoom {
		zoom = c.MaxZoom
	}
	c.Zoom = zoom
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Resize updates the viewport pixel dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns to the full-domain view.
func (c *Camera) Reset() {
	c.CenterLat = (c.Domain.South + c.Domain.North) / 2
	c.CenterLon = (c.Domain.West + c.Domain.East) / 2
	c.Zoom = 1.0
}

// clampCenter keeps the visible rectangle inside the domain. At zoom 1
// the center is pinned to the domain center.
func (c *Camera) clampCenter() {
	halfLon := (c.Domain.East - c.Domain.West) / (2 * c.Zoom)
	halfLat := (c.Domain.North - c.Domain.South) / (2 * c.Zoom)

	c.CenterLon = clamp(c.CenterLon, c.Domain.West+halfLon, c.Domain.East-halfLon)
	c.CenterLat = clamp(c.CenterLat, c.Domain.South+halfLat, c.Domain.North-halfLat)
}

func clamp(x, min, max float64) float64 {
	if min > max {
		return (min + max) / 2
	}
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
