// Package main runs the interactive character controller demo.
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/engine/input"
	"github.com/Faultbox/charctl/internal/engine/window"
	"github.com/Faultbox/charctl/internal/game"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
	"github.com/Faultbox/charctl/internal/trace"
)

// pixelsPerMeter is the top-down map scale.
const pixelsPerMeter = 24

var (
	colorBackground = sdl.Color{R: 24, G: 26, B: 30, A: 255}
	colorWalkable   = sdl.Color{R: 70, G: 76, B: 86, A: 255}
	colorSteep      = sdl.Color{R: 140, G: 60, B: 60, A: 255}
	colorMoving     = sdl.Color{R: 60, G: 100, B: 150, A: 255}
	colorCharacter  = sdl.Color{R: 230, G: 200, B: 80, A: 255}
	colorCamera     = sdl.Color{R: 120, G: 220, B: 140, A: 255}
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== charctl demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	rec, err := trace.NewRecorder(cfg.Trace.Path)
	if err != nil {
		logger.Error("failed to open trace", zap.Error(err))
		os.Exit(1)
	}
	defer rec.Close()

	g, err := game.New(cfg, nil, rec)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		os.Exit(1)
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      true,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	defer win.Close()

	loop := game.NewLoop(cfg.Loop.TickRate, cfg.Loop.MaxStepsPerFrame)
	title := ""
	render := func(g *game.Game) {
		draw(win, g)
		if status := cfg.Window.Title + " | " + g.Status(); status != title {
			title = status
			win.SetTitle(title)
		}
	}

	if err := g.Run(loop, input.New(), render); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("demo closed normally",
		zap.Int("ticks", g.Ticks()),
		zap.Int("jumps", g.Jumps()),
		zap.Int("trace_records", rec.Count()),
	)
}

// draw renders a top-down view centered on the character. Screen up is +Z.
func draw(win *window.Window, g *game.Game) {
	w, h := win.GetSize()
	cx, cy := float32(w)/2, float32(h)/2
	center := g.Visual

	toScreen := func(x, z float32) (int32, int32) {
		return int32(cx + (x-center.X)*pixelsPerMeter), int32(cy - (z-center.Z)*pixelsPerMeter)
	}

	win.Clear(colorBackground)

	maxSlope := g.Controller().Config().MaxSlope
	for _, s := range g.World().Surfaces() {
		x0, y0 := toScreen(s.Origin.X+s.Min.X, s.Origin.Z+s.Max.Y)
		x1, y1 := toScreen(s.Origin.X+s.Max.X, s.Origin.Z+s.Min.Y)
		win.FillRect(x0, y0, x1-x0, y1-y0, surfaceColor(s, maxSlope))
	}

	r := g.Controller().Config().Radius * pixelsPerMeter
	px, py := toScreen(center.X, center.Z)
	win.FillRect(px-int32(r), py-int32(r), int32(2*r), int32(2*r), colorCharacter)

	// Camera marker, trailing the character opposite its facing.
	cam := g.Camera().Position()
	qx, qy := toScreen(cam.X, cam.Z)
	win.FillRect(qx-3, qy-3, 6, 6, colorCamera)

	win.Present()
}

func surfaceColor(s *physics.Surface, maxSlope float32) sdl.Color {
	switch {
	case s.Velocity.LengthSquared() > 0:
		return colorMoving
	case s.SlopeAngle() > maxSlope:
		return colorSteep
	default:
		return colorWalkable
	}
}
