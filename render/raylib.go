package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// RaylibSurface draws onto the current raylib drawing target. The host owns
// the window and the BeginDrawing/EndDrawing bracket; this type only issues
// drawing calls inside it.
type RaylibSurface struct {
	Width  int32
	Height int32
}

// NewRaylibSurface creates a surface for a drawing target of the given
// pixel size.
func NewRaylibSurface(width, height int32) *RaylibSurface {
	return &RaylibSurface{Width: width, Height: height}
}

func rlColor(c colorful.Color, alpha float64) rl.Color {
	r, g, b := c.RGB255()
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return rl.Color{R: r, G: g, B: b, A: uint8(alpha * 255)}
}

// Clear resets the surface to a solid color.
func (s *RaylibSurface) Clear(c colorful.Color) {
	rl.ClearBackground(rlColor(c, 1))
}

// Fade covers the surface with a translucent layer, leaving a ghost of the
// previous frame for the trail effect.
func (s *RaylibSurface) Fade(c colorful.Color, alpha float64) {
	rl.DrawRectangle(0, 0, s.Width, s.Height, rlColor(c, alpha))
}

// Line draws a stroked segment.
func (s *RaylibSurface) Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	rl.DrawLineEx(
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		rl.Vector2{X: float32(x2), Y: float32(y2)},
		float32(width),
		rlColor(c, alpha),
	)
}

// Circle draws a filled circle.
func (s *RaylibSurface) Circle(x, y, radius float64, c colorful.Color, alpha float64) {
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(radius), rlColor(c, alpha))
}

// Rect fills an axis-aligned rectangle.
func (s *RaylibSurface) Rect(x, y, w, h float64, c colorful.Color, alpha float64) {
	rl.DrawRectangleV(
		rl.Vector2{X: float32(x), Y: float32(y)},
		rl.Vector2{X: float32(w), Y: float32(h)},
		rlColor(c, alpha),
	)
}
