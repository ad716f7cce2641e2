// Package camera provides the third-person follow camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/charctl/pkg/math"
)

// FollowCamera trails a target from behind and drives the character's facing.
type FollowCamera struct {
	// Point the camera looks at, usually the character position.
	Center math.Vec3

	Distance float32
	Pitch    float32 // vertical angle above the target (radians)
	Yaw      float32 // rotation about +Y (radians)

	// Constraints
	MinPitch float32
	MaxPitch float32

	DragSensitivity float32
	TurnSmoothing   float32 // slerp factor per Update, 1 snaps immediately

	orientation math.Quat
}

// NewFollowCamera creates a follow camera facing +Z.
func NewFollowCamera(distance, pitch, dragSensitivity, turnSmoothing float32) *FollowCamera {
	c := &FollowCamera{
		Distance:        distance,
		Pitch:           pitch,
		MinPitch:        -0.2,
		MaxPitch:        1.4,
		DragSensitivity: dragSensitivity,
		TurnSmoothing:   turnSmoothing,
		orientation:     math.QuatIdentity(),
	}
	c.clampPitch()
	return c
}

// SetCenter moves the look-at point.
func (c *FollowCamera) SetCenter(center math.Vec3) {
	c.Center = center
}

// Forward returns the target facing on the XZ plane for the current yaw.
func (c *FollowCamera) Forward() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Sin(float64(c.Yaw))),
		Z: float32(gomath.Cos(float64(c.Yaw))),
	}
}

// Position returns the camera position: behind and above the center.
func (c *FollowCamera) Position() math.Vec3 {
	offsetY := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	horizDist := c.Distance * float32(gomath.Cos(float64(c.Pitch)))

	return c.Center.Sub(c.Forward().Scale(horizDist)).Add(math.Vec3{Y: offsetY})
}

// HandleDrag updates yaw and pitch from a pointer drag delta.
func (c *FollowCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.clampPitch()
}

func (c *FollowCamera) clampPitch() {
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// Update eases the orientation toward the current yaw. Call once per render tick.
func (c *FollowCamera) Update() {
	target := math.QuatFromYaw(c.Yaw)
	t := c.TurnSmoothing
	if t <= 0 || t >= 1 {
		c.orientation = target
		return
	}
	c.orientation = c.orientation.Slerp(target, t).Normalize()
}

// Orientation returns the smoothed yaw rotation handed to the controller.
func (c *FollowCamera) Orientation() math.Quat {
	return c.orientation
}
