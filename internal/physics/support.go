// Package physics is the kinematic collaborator the character controller
// runs against: a capsule body moving over bounded planar surface patches.
//
// The world is Y-up. Surfaces are height patches over an XZ rectangle, so a
// body is always resolved vertically onto the highest patch beneath it.
package physics

import "github.com/Faultbox/charctl/pkg/math"

// SupportState describes how the body rests on what is below it.
type SupportState int

const (
	// Unsupported means nothing is within contact distance of the foot.
	Unsupported SupportState = iota
	// Sliding means the body touches a surface steeper than its max slope.
	Sliding
	// Supported means the body stands on a walkable surface.
	Supported
)

func (s SupportState) String() string {
	switch s {
	case Unsupported:
		return "unsupported"
	case Sliding:
		return "sliding"
	case Supported:
		return "supported"
	default:
		return "unknown"
	}
}

// SurfaceInfo is the per-tick support snapshot for a body.
type SurfaceInfo struct {
	SupportedState         SupportState
	AverageSurfaceNormal   math.Vec3
	AverageSurfaceVelocity math.Vec3
}

// IsSupported reports whether the body stands on walkable ground.
func (i SurfaceInfo) IsSupported() bool {
	return i.SupportedState == Supported
}
