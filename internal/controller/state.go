// Package controller resolves a capsule character's velocity every physics
// tick from held input and the support reported by the physics collaborator.
package controller

import "github.com/Faultbox/charctl/internal/physics"

// MovementState is the character's locomotion state.
type MovementState int

const (
	InAir MovementState = iota
	OnGround
	// StartJump lasts exactly one tick and always decays to InAir.
	StartJump
)

func (s MovementState) String() string {
	switch s {
	case InAir:
		return "in_air"
	case OnGround:
		return "on_ground"
	case StartJump:
		return "start_jump"
	default:
		return "unknown"
	}
}

// NextState returns the state that follows current given this tick's support
// snapshot and the held jump request. Only a Supported snapshot counts as
// ground; Sliding is treated as airborne.
func NextState(current MovementState, info physics.SurfaceInfo, wantJump bool) MovementState {
	supported := info.IsSupported()

	switch current {
	case InAir:
		if supported {
			return OnGround
		}
		return InAir
	case OnGround:
		if !supported {
			return InAir
		}
		if wantJump {
			return StartJump
		}
		return OnGround
	case StartJump:
		return InAir
	}

	return OnGround
}
