package controller

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/charctl/pkg/math"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid controller config")

// Config holds per-character constants. It is copied at construction and
// never changed afterwards.
type Config struct {
	Height        float32   `yaml:"height"`
	Radius        float32   `yaml:"radius"`
	Position      math.Vec3 `yaml:"position"`
	InAirSpeed    float32   `yaml:"in_air_speed"`
	OnGroundSpeed float32   `yaml:"on_ground_speed"`
	JumpHeight    float32   `yaml:"jump_height"`
	Gravity       math.Vec3 `yaml:"gravity"`
	MaxSlope      float32   `yaml:"max_slope"` // radians
}

// DefaultConfig returns a 1.8m tall, 0.25m radius character under Earth
// gravity that can walk up 30 degree slopes.
func DefaultConfig() Config {
	return Config{
		Height:        1.8,
		Radius:        0.25,
		Position:      math.Vec3{},
		InAirSpeed:    5.0,
		OnGroundSpeed: 5.0,
		JumpHeight:    1,
		Gravity:       math.Vec3{Y: -9.81},
		MaxSlope:      gomath.Pi / 6,
	}
}

// Validate checks the config for values the resolver cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Height <= 0:
		return fmt.Errorf("%w: height %v must be positive", ErrInvalidConfig, c.Height)
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidConfig, c.Radius)
	case c.Radius*2 > c.Height:
		return fmt.Errorf("%w: radius %v does not fit height %v", ErrInvalidConfig, c.Radius, c.Height)
	case c.InAirSpeed < 0 || c.OnGroundSpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.JumpHeight < 0:
		return fmt.Errorf("%w: jump height %v must not be negative", ErrInvalidConfig, c.JumpHeight)
	case c.MaxSlope <= 0 || c.MaxSlope > gomath.Pi/2:
		return fmt.Errorf("%w: max slope %v outside (0, pi/2]", ErrInvalidConfig, c.MaxSlope)
	case !c.Gravity.IsFinite() || !c.Position.IsFinite():
		return fmt.Errorf("%w: gravity and position must be finite", ErrInvalidConfig)
	}
	return nil
}
