// Package config handles demo configuration loading and management.
package config

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/charctl/internal/controller"
	"github.com/Faultbox/charctl/internal/controls"
	"github.com/Faultbox/charctl/internal/physics"
	"github.com/Faultbox/charctl/pkg/math"
)

// Config holds all settings.
type Config struct {
	Controller controller.Config `yaml:"controller"`
	Input      controls.Bindings `yaml:"input"`
	Physics    PhysicsConfig     `yaml:"physics"`
	Loop       LoopConfig        `yaml:"loop"`
	Camera     CameraConfig      `yaml:"camera"`
	Window     WindowConfig      `yaml:"window"`
	Sim        SimConfig         `yaml:"sim"`
	Trace      TraceConfig       `yaml:"trace"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// PhysicsConfig describes the world the character moves in.
type PhysicsConfig struct {
	Surfaces []SurfaceConfig `yaml:"surfaces"`
}

// SurfaceConfig is one planar patch. The extent is in XZ, relative to origin.
type SurfaceConfig struct {
	Name     string    `yaml:"name"`
	Origin   math.Vec3 `yaml:"origin"`
	Normal   math.Vec3 `yaml:"normal"`
	MinX     float32   `yaml:"min_x"`
	MinZ     float32   `yaml:"min_z"`
	MaxX     float32   `yaml:"max_x"`
	MaxZ     float32   `yaml:"max_z"`
	Velocity math.Vec3 `yaml:"velocity"`
	Travel   float32   `yaml:"travel"`
}

// Surface converts the config entry into a physics surface.
func (s SurfaceConfig) Surface() physics.Surface {
	return physics.Surface{
		Name:     s.Name,
		Origin:   s.Origin,
		Normal:   s.Normal,
		Min:      math.Vec2{X: s.MinX, Y: s.MinZ},
		Max:      math.Vec2{X: s.MaxX, Y: s.MaxZ},
		Velocity: s.Velocity,
		Travel:   s.Travel,
	}
}

// LoopConfig holds fixed-step timing.
type LoopConfig struct {
	TickRate         int `yaml:"tick_rate"`           // physics ticks per second
	MaxStepsPerFrame int `yaml:"max_steps_per_frame"` // drop time beyond this
}

// CameraConfig holds follow camera settings.
type CameraConfig struct {
	Distance        float32 `yaml:"distance"`
	Pitch           float32 `yaml:"pitch"` // radians
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	TurnSmoothing   float32 `yaml:"turn_smoothing"` // 0..1 per render tick
}

// WindowConfig holds interactive window settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// SimConfig holds headless simulator settings.
type SimConfig struct {
	Scenario string `yaml:"scenario"`
}

// TraceConfig holds per-tick CSV trace settings. An empty path disables it.
type TraceConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	ctrl := controller.DefaultConfig()
	// Stand on the ground plane: half the capsule above y=0, plus a small drop.
	ctrl.Position = math.Vec3{Y: 0.5 + ctrl.Height/2}

	return &Config{
		Controller: ctrl,
		Input:      controls.DefaultBindings(),
		Physics: PhysicsConfig{
			Surfaces: DefaultSurfaces(),
		},
		Loop: LoopConfig{
			TickRate:         60,
			MaxStepsPerFrame: 5,
		},
		Camera: CameraConfig{
			Distance:        8,
			Pitch:           0.4,
			DragSensitivity: 0.005,
			TurnSmoothing:   0.25,
		},
		Window: WindowConfig{
			Title:  "charctl",
			Width:  1280,
			Height: 720,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultSurfaces is a greybox course: a floor, a walkable ramp onto a
// plateau, a slope too steep to climb, and a platform sliding along X.
func DefaultSurfaces() []SurfaceConfig {
	walk := float64(20 * gomath.Pi / 180)
	steep := float64(50 * gomath.Pi / 180)
	rampLen := float32(10)
	top := rampLen * float32(gomath.Tan(walk))

	return []SurfaceConfig{
		{
			Name: "floor", Normal: math.Vec3Up,
			MinX: -50, MinZ: -50, MaxX: 50, MaxZ: 50,
		},
		{
			Name:   "ramp",
			Origin: math.Vec3{Z: 5},
			Normal: math.Vec3{Y: float32(gomath.Cos(walk)), Z: -float32(gomath.Sin(walk))},
			MinX:   -3, MaxX: 3, MaxZ: rampLen,
		},
		{
			Name:   "plateau",
			Origin: math.Vec3{Y: top, Z: 5 + rampLen},
			Normal: math.Vec3Up,
			MinX:   -3, MaxX: 3, MaxZ: 8,
		},
		{
			Name:   "steep",
			Origin: math.Vec3{X: -10, Z: 5},
			Normal: math.Vec3{Y: float32(gomath.Cos(steep)), Z: -float32(gomath.Sin(steep))},
			MinX:   -2, MaxX: 2, MaxZ: 4,
		},
		{
			Name:   "shuttle",
			Origin: math.Vec3{X: 6, Y: 0.5},
			Normal: math.Vec3Up,
			MinX:   -1, MinZ: -1, MaxX: 1, MaxZ: 1,
			Velocity: math.Vec3{X: 2},
			Travel:   8,
		},
	}
}

// Validate checks the settings the loop and controller depend on.
func (c *Config) Validate() error {
	if err := c.Controller.Validate(); err != nil {
		return err
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop: tick rate %d must be positive", c.Loop.TickRate)
	}
	if c.Loop.MaxStepsPerFrame <= 0 {
		return fmt.Errorf("loop: max steps per frame %d must be positive", c.Loop.MaxStepsPerFrame)
	}
	return nil
}
