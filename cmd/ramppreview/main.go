// Wind field preview tool - interactive gust tuning with sliders.
//
// Usage: go run ./cmd/ramppreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/field"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/render"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/windsim"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// GustParams holds the generator settings driven by the sliders.
type GustParams struct {
	Speed      float32
	FromDeg    float32
	Turbulence float32
	NoiseScale float32
	Seed       int64
}

func defaultParams() GustParams {
	return GustParams{
		Speed:      5.0,
		FromDeg:    270,
		Turbulence: 0.4,
		NoiseScale: 0.08,
		Seed:       42,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Wind Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	ramp, err := render.ParseRamp([]string{"#2c7bb6", "#abd9e9", "#ffffbf", "#fdae61", "#d7191c"})
	if err != nil {
		panic(err)
	}

	gridSize := 128
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var t float32 = 0
	animating := false
	needsRegen := true

	gen := buildGenerator(gridSize, params)
	var current *field.Field

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
			needsRegen = true
		}

		if needsRegen {
			current, err = gen.Snapshot(float64(t))
			if err == nil {
				updateTexture(texture, current, ramp, gridSize)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		if current != nil {
			min, max := current.MagnitudeRange()
			statsY := int32(previewSize + 25)
			rl.DrawText(fmt.Sprintf("Min: %.2f m/s  Max: %.2f m/s", min, max), 15, statsY, 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Time: %.1f", t), 15, statsY+20, 16, rl.DarkGray)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Gust Generator Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Wind speed (m/s)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSpeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "25",
			params.Speed, 0, 25,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Speed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newSpeed != params.Speed {
			params.Speed = newSpeed
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Wind direction (deg, from)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFrom := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "360",
			params.FromDeg, 0, 360,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.FromDeg), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newFrom != params.FromDeg {
			params.FromDeg = newFrom
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Turbulence", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newTurb := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.Turbulence, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Turbulence), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newTurb != params.Turbulence {
			params.Turbulence = newTurb
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Noise scale (gust structure size)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.01", "0.3",
			params.NoiseScale, 0.01, 0.3,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.NoiseScale {
			params.NoiseScale = newScale
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			t = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			t = 0
			gen = buildGenerator(gridSize, params)
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			var out string
			for _, line := range yamlLines(params) {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func buildGenerator(gridSize int, p GustParams) *windsim.GustField {
	g := windsim.NewGustField(gridSize, gridSize, field.Bounds{North: 1, East: 1},
		float64(p.Speed), float64(p.FromDeg), p.Seed)
	g.Turbulence = float64(p.Turbulence)
	g.NoiseScale = float64(p.NoiseScale)
	return g
}

func yamlLines(p GustParams) []string {
	return []string{
		"wind:",
		"  generator: gust",
		fmt.Sprintf("  speed: %.1f", p.Speed),
		fmt.Sprintf("  from_deg: %.0f", p.FromDeg),
		fmt.Sprintf("  seed: %d", p.Seed),
		fmt.Sprintf("  turbulence: %.2f", p.Turbulence),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture paints per-cell speed through the color ramp. Texture row 0
// is the top of the image, grid row 0 the south edge, so rows are flipped.
func updateTexture(texture rl.Texture2D, f *field.Field, ramp render.Ramp, size int) {
	min, max := f.MagnitudeRange()
	span := max - min

	pixels := make([]color.RGBA, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			u, v := f.At(col, row)
			speed := math.Hypot(u, v)

			var t float64
			if span > 0 {
				t = (speed - min) / span
			}
			c := ramp.At(t)
			r8, g8, b8 := c.RGB255()
			pixels[(size-1-row)*size+col] = color.RGBA{R: r8, G: g8, B: b8, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
