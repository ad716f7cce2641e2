package physics

import (
	gomath "math"

	"github.com/Faultbox/charctl/pkg/math"
)

const (
	// ContactDistance is how far above a surface the foot still touches it.
	ContactDistance = 0.05

	// SeparatingSpeed is the relative speed along the normal above which a
	// body moving away from a surface no longer counts as resting on it.
	SeparatingSpeed = 0.01

	// StepHeight is the tallest ledge a walking body is lifted onto. Deeper
	// walkable patches are ledges and block the body like walls.
	StepHeight = 0.3

	// contactMerge groups surfaces whose heights differ by less than this
	// into one averaged contact.
	contactMerge = 1e-3

	// edgeSkin keeps a body pushed off a ledge clear of the patch edge.
	edgeSkin = 1e-3
)

// CharacterBody is a kinematic capsule. Position is the capsule center.
type CharacterBody struct {
	world       *World
	height      float32
	radius      float32
	maxSlopeCos float32

	position math.Vec3
	velocity math.Vec3
}

// NewCharacterBody creates a capsule at position. maxSlope is in radians.
func NewCharacterBody(world *World, position math.Vec3, height, radius, maxSlope float32) *CharacterBody {
	return &CharacterBody{
		world:       world,
		height:      height,
		radius:      radius,
		maxSlopeCos: float32(gomath.Cos(float64(maxSlope))),
		position:    position,
	}
}

// Position returns the capsule center.
func (b *CharacterBody) Position() math.Vec3 { return b.position }

// SetPosition teleports the capsule.
func (b *CharacterBody) SetPosition(p math.Vec3) { b.position = p }

// Velocity returns the current linear velocity.
func (b *CharacterBody) Velocity() math.Vec3 { return b.velocity }

// SetVelocity replaces the linear velocity used by the next Integrate.
func (b *CharacterBody) SetVelocity(v math.Vec3) { b.velocity = v }

// Height returns the capsule height.
func (b *CharacterBody) Height() float32 { return b.height }

// Radius returns the capsule radius.
func (b *CharacterBody) Radius() float32 { return b.radius }

func (b *CharacterBody) footY() float32 {
	return b.position.Y - b.height/2
}

type contact struct {
	surface *Surface
	height  float32
}

// contactsBelow returns the highest group of surfaces under the capsule whose
// height lies between reach below the foot and depth above it. A nil keep
// accepts every surface.
func (b *CharacterBody) contactsBelow(reach, depth float32, keep func(*Surface) bool) []contact {
	if b.world == nil {
		return nil
	}
	foot := b.footY()
	best := float32(gomath.Inf(-1))
	var found []contact
	for _, s := range b.world.SurfacesAt(b.position.X, b.position.Z) {
		if keep != nil && !keep(s) {
			continue
		}
		h := s.HeightAt(b.position.X, b.position.Z)
		gap := foot - h
		if gap > reach || -gap > depth {
			continue
		}
		found = append(found, contact{surface: s, height: h})
		if h > best {
			best = h
		}
	}

	top := found[:0]
	for _, c := range found {
		if best-c.height <= contactMerge {
			top = append(top, c)
		}
	}
	return top
}

// walkable reports whether s is shallow enough to stand on.
func (b *CharacterBody) walkable(s *Surface, up math.Vec3) bool {
	return s.Normal.Dot(up) >= b.maxSlopeCos
}

// CheckSupport reports what the capsule rests on when looking along down.
func (b *CharacterBody) CheckSupport(dt float32, down math.Vec3) SurfaceInfo {
	up := down.Neg().Normalize()
	if up == math.Vec3Zero {
		up = math.Vec3Up
	}

	contacts := b.contactsBelow(ContactDistance, StepHeight, nil)

	var normal, velocity math.Vec3
	n := 0
	for _, c := range contacts {
		// A body leaving the surface faster than the surface itself is airborne.
		gap := b.footY() - c.height
		rel := b.velocity.Sub(c.surface.Velocity).Dot(c.surface.Normal)
		if gap > 0 && rel > SeparatingSpeed {
			continue
		}
		normal = normal.Add(c.surface.Normal)
		velocity = velocity.Add(c.surface.Velocity)
		n++
	}
	if n == 0 {
		return SurfaceInfo{SupportedState: Unsupported}
	}

	info := SurfaceInfo{
		SupportedState:         Supported,
		AverageSurfaceNormal:   normal.Normalize(),
		AverageSurfaceVelocity: velocity.Scale(1 / float32(n)),
	}
	if info.AverageSurfaceNormal.Dot(up) < b.maxSlopeCos {
		info.SupportedState = Sliding
	}
	return info
}

// CalculateMovement turns a desired velocity into one the surface allows.
// The desired velocity is projected onto the surface plane, so a character
// follows the ground instead of pushing into it, and the surface velocity is
// added on top. On a surface steeper than the max slope the uphill part of
// the movement is removed. forward and currentVelocity are accepted for
// interface parity; the response is instantaneous.
func (b *CharacterBody) CalculateMovement(dt float32, forward, surfaceNormal, currentVelocity, surfaceVelocity, desiredVelocity, up math.Vec3) math.Vec3 {
	n := surfaceNormal.Normalize()
	if n == math.Vec3Zero {
		n = up
	}

	out := desiredVelocity.ProjectOnPlane(n)

	if n.Dot(up) < b.maxSlopeCos {
		uphill := up.ProjectOnPlane(n).Normalize()
		if climb := out.Dot(uphill); climb > 0 {
			out = out.Sub(uphill.Scale(climb))
		}
	}

	return out.Add(surfaceVelocity)
}

// Integrate moves the capsule by its velocity and resolves it against the
// surfaces it overlaps. Surfaces steeper than the max slope and walkable
// patches more than a step above the foot act as walls and push the body out
// sideways. Otherwise the foot is lifted onto the highest walkable patch, and
// a supported body that is not moving against gravity is snapped down so it
// follows ramps and descending platforms.
func (b *CharacterBody) Integrate(dt float32, info SurfaceInfo, gravity math.Vec3) {
	if dt <= 0 {
		return
	}
	up := gravity.Neg().Normalize()
	if up == math.Vec3Zero {
		up = math.Vec3Up
	}

	start := b.footY()
	b.position = b.position.Add(b.velocity.Scale(dt))

	// A falling foot may sink deeper than a step within one tick.
	lift := float32(StepHeight)
	if drop := start - b.footY(); drop > 0 {
		lift += drop
	}

	b.resolveWalls(up, lift)

	snap := float32(0)
	if info.IsSupported() && b.velocity.Sub(info.AverageSurfaceVelocity).Dot(up) <= SeparatingSpeed {
		horiz := b.velocity.Sub(info.AverageSurfaceVelocity).ProjectOnPlane(up).Length()
		snap = ContactDistance + horiz*dt
	}

	contacts := b.contactsBelow(snap, lift, func(s *Surface) bool { return b.walkable(s, up) })
	if len(contacts) == 0 {
		return
	}

	top := contacts[0]
	b.position.Y += top.height - b.footY()

	for _, c := range contacts {
		rel := b.velocity.Sub(c.surface.Velocity).Dot(c.surface.Normal)
		if rel < 0 {
			b.velocity = b.velocity.Sub(c.surface.Normal.Scale(rel))
		}
	}
}

// resolveWalls pushes the body horizontally out of every surface it cannot
// step onto: steep patches the foot sits below, and walkable patches more
// than lift above the foot. Surfaces above the head are ignored.
func (b *CharacterBody) resolveWalls(up math.Vec3, lift float32) {
	if b.world == nil {
		return
	}
	for _, s := range b.world.Surfaces() {
		if !s.Contains(b.position.X, b.position.Z) {
			continue
		}
		depth := s.HeightAt(b.position.X, b.position.Z) - b.footY()
		if depth <= 0 || depth > b.height {
			continue
		}

		var push math.Vec3
		switch {
		case !b.walkable(s, up):
			// Slide out along the downhill direction until the foot is on the plane.
			horiz := math.Vec3{X: s.Normal.X, Z: s.Normal.Z}
			l := horiz.Length()
			if l == 0 {
				continue
			}
			push = horiz.Scale(depth * s.Normal.Y / (l * l))
		case depth > lift:
			dx, dz := s.exit(b.position.X, b.position.Z)
			push = math.Vec3{X: dx, Z: dz}
		default:
			continue
		}

		b.position = b.position.Add(push)

		// Drop the velocity component that drives into the wall.
		wall := push.Normalize()
		if into := b.velocity.Sub(s.Velocity).Dot(wall); into < 0 {
			b.velocity = b.velocity.Sub(wall.Scale(into))
		}
	}
}
