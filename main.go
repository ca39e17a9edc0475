package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dawidsajewski12-creator/gis-microclimate-platform/app"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/camera"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/config"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/engine"
	"github.com/dawidsajewski12-creator/gis-microclimate-platform/render"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and run snapshot")
	seed := flag.Int64("seed", 0, "Particle RNG seed (0 = config, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := app.Options{
		Seed:      *seed,
		OutputDir: *outputDir,
	}

	if *headless {
		runHeadless(cfg, opts, logger, *maxTicks)
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Microclimate Wind Viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	opts.Surface = render.NewRaylibSurface(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	a, err := app.New(cfg, opts, logger)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	cam := camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), cfg.Domain.Bounds)

	for !rl.WindowShouldClose() {
		handleInput(a, cam)

		rl.BeginDrawing()
		a.Step(float64(rl.GetFrameTime()))
		a.Engine().RecordFrame()
		rl.EndDrawing()

		if *maxTicks > 0 && int(a.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless drives the engine through the frame controller with a
// trampoline scheduler instead of a window loop.
func runHeadless(cfg *config.Config, opts app.Options, logger *slog.Logger, maxTicks int) {
	a, err := app.New(cfg, opts, logger)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	slog.Info("starting headless run", "max_ticks", maxTicks)

	var pending []func()
	schedule := func(frame func()) { pending = append(pending, frame) }

	dt := 1.0 / float64(cfg.Screen.TargetFPS)
	ctrl := engine.NewController(schedule, func(float64) { a.Step(dt) })
	ctrl.Start()

	for len(pending) > 0 {
		frame := pending[0]
		pending = pending[1:]
		frame()

		if maxTicks > 0 && int(a.Tick()) >= maxTicks {
			ctrl.Stop()
		}
	}

	slog.Info("headless run finished", "ticks", a.Tick())
}

func handleInput(a *app.App, cam *camera.Camera) {
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		a.SetMode(render.ModeVectors)
	case rl.IsKeyPressed(rl.KeyTwo):
		a.SetMode(render.ModeHeatmap)
	case rl.IsKeyPressed(rl.KeyThree):
		a.SetMode(render.ModeStreamlines)
	case rl.IsKeyPressed(rl.KeyFour):
		a.SetMode(render.ModeParticles)
	case rl.IsKeyPressed(rl.KeyFive):
		a.SetMode(render.ModeCombined)
	}

	viewChanged := false

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			cam.Pan(float64(d.X), float64(d.Y))
			viewChanged = true
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + float64(wheel)*0.1)
		viewChanged = true
	}

	if rl.IsKeyPressed(rl.KeyR) {
		cam.Reset()
		viewChanged = true
	}

	if viewChanged {
		a.SetViewport(cam.Viewport())
	}
}
