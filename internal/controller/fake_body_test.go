package controller

import (
	"github.com/Faultbox/charctl/internal/controls"
	"github.com/Faultbox/charctl/internal/physics"
	"github.com/Faultbox/charctl/pkg/math"
)

// fakeBody returns a scripted support snapshot and integrates position
// without collisions. Its movement primitive projects the desired velocity
// onto the reference plane, like the real physics body.
type fakeBody struct {
	info     physics.SurfaceInfo
	velocity math.Vec3
	position math.Vec3

	supportChecks int
	integrations  int
	lastNormal    math.Vec3
}

func (b *fakeBody) CheckSupport(dt float32, down math.Vec3) physics.SurfaceInfo {
	b.supportChecks++
	return b.info
}

func (b *fakeBody) CalculateMovement(dt float32, forward, surfaceNormal, currentVelocity, surfaceVelocity, desiredVelocity, up math.Vec3) math.Vec3 {
	b.lastNormal = surfaceNormal
	return desiredVelocity.ProjectOnPlane(surfaceNormal.Normalize()).Add(surfaceVelocity)
}

func (b *fakeBody) Integrate(dt float32, info physics.SurfaceInfo, gravity math.Vec3) {
	b.integrations++
	b.position = b.position.Add(b.velocity.Scale(dt))
}

func (b *fakeBody) Velocity() math.Vec3     { return b.velocity }
func (b *fakeBody) SetVelocity(v math.Vec3) { b.velocity = v }
func (b *fakeBody) Position() math.Vec3     { return b.position }

// heldInput is a fixed intent.
type heldInput struct {
	intent controls.Intent
}

func (h *heldInput) Intent() controls.Intent { return h.intent }

func supportedFlat() physics.SurfaceInfo {
	return physics.SurfaceInfo{
		SupportedState:       physics.Supported,
		AverageSurfaceNormal: math.Vec3Up,
	}
}

func unsupported() physics.SurfaceInfo {
	return physics.SurfaceInfo{SupportedState: physics.Unsupported}
}
