// Package render draws a wind field and its particle pool onto an injected
// 2D drawing surface in one of several visualization modes.
package render

import "github.com/lucasb-eyer/go-colorful"

// Surface is the drawing target injected by the host. The engine never
// creates or owns the surface, only issues drawing operations against it.
// Alpha is in [0,1] throughout.
type Surface interface {
	// Clear resets the whole surface to a solid color.
	Clear(c colorful.Color)

	// Fade covers the surface with a translucent layer of the given color.
	// Used by the trail mode to deliberately under-clear between frames.
	Fade(c colorful.Color, alpha float64)

	// Line draws a stroked segment in pixel coordinates.
	Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64)

	// Circle draws a filled circle in pixel coordinates.
	Circle(x, y, radius float64, c colorful.Color, alpha float64)

	// Rect fills an axis-aligned rectangle in pixel coordinates.
	Rect(x, y, w, h float64, c colorful.Color, alpha float64)
}
