package controller

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/controls"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
	"github.com/Faultbox/charctl/pkg/math"
)

// slopeEpsilon is the relative vertical speed above which ground movement is
// re-projected onto the horizontal plane.
const slopeEpsilon = 1e-3

// Body is the physics collaborator the controller drives.
type Body interface {
	CheckSupport(dt float32, down math.Vec3) physics.SurfaceInfo
	CalculateMovement(dt float32, forward, surfaceNormal, currentVelocity, surfaceVelocity, desiredVelocity, up math.Vec3) math.Vec3
	Integrate(dt float32, info physics.SurfaceInfo, gravity math.Vec3)
	Velocity() math.Vec3
	SetVelocity(v math.Vec3)
	Position() math.Vec3
}

// IntentSource supplies the held movement input, usually a controls.Mapper.
type IntentSource interface {
	Intent() controls.Intent
}

// TickResult describes one resolved physics tick.
type TickResult struct {
	Skipped  bool
	Previous MovementState
	State    MovementState
	Support  physics.SurfaceInfo
	Velocity math.Vec3
	Position math.Vec3
}

// Controller owns the movement state machine for one character.
type Controller struct {
	body   Body
	input  IntentSource
	config Config

	state        MovementState
	orientation  math.Quat
	forwardLocal math.Vec3

	onJump        []func()
	onStateChange []func(from, to MovementState)

	log *zap.Logger
}

// New creates a controller driving body. A nil input behaves as no input.
// The character starts OnGround, as if placed on the floor.
func New(body Body, input IntentSource, cfg Config) *Controller {
	return &Controller{
		body:         body,
		input:        input,
		config:       cfg,
		state:        OnGround,
		orientation:  math.QuatIdentity(),
		forwardLocal: math.Vec3Forward,
		log:          logger.Named("controller"),
	}
}

// Config returns the controller's constants.
func (c *Controller) Config() Config { return c.config }

// State returns the current movement state.
func (c *Controller) State() MovementState { return c.state }

// Position returns the body's last integrated position.
func (c *Controller) Position() math.Vec3 { return c.body.Position() }

// Velocity returns the body's current velocity.
func (c *Controller) Velocity() math.Vec3 { return c.body.Velocity() }

// Orientation returns the rotation applied to input directions.
func (c *Controller) Orientation() math.Quat { return c.orientation }

// SetOrientation sets the character's facing. Call it between ticks.
func (c *Controller) SetOrientation(q math.Quat) {
	c.orientation = q.Normalize()
}

// Forward returns the world-space forward axis.
func (c *Controller) Forward() math.Vec3 {
	return c.orientation.Rotate(c.forwardLocal)
}

// OnJump registers fn to run each time a jump starts.
func (c *Controller) OnJump(fn func()) {
	c.onJump = append(c.onJump, fn)
}

// OnStateChange registers fn to run on every state transition.
func (c *Controller) OnStateChange(fn func(from, to MovementState)) {
	c.onStateChange = append(c.onStateChange, fn)
}

// Up returns the unit vector opposite to gravity, or zero without gravity.
func (c *Controller) Up() math.Vec3 {
	return c.config.Gravity.Normalize().Neg()
}

func (c *Controller) intent() controls.Intent {
	if c.input == nil {
		return controls.Intent{}
	}
	return c.input.Intent()
}

// Tick runs one physics step: check support, resolve the velocity, hand it to
// the body and integrate. A non-positive or NaN dt skips the tick entirely.
func (c *Controller) Tick(dt float32) TickResult {
	if !(dt > 0) || gomath.IsInf(float64(dt), 0) {
		return TickResult{Skipped: true, Previous: c.state, State: c.state, Position: c.body.Position()}
	}

	previous := c.state
	down := c.config.Gravity.Normalize()
	info := c.body.CheckSupport(dt, down)

	velocity := c.DesiredVelocity(dt, info)

	c.body.SetVelocity(velocity)
	c.body.Integrate(dt, info, c.config.Gravity)

	return TickResult{
		Previous: previous,
		State:    c.state,
		Support:  info,
		Velocity: velocity,
		Position: c.body.Position(),
	}
}

// DesiredVelocity advances the state machine with info and returns the
// velocity the body should move with this tick.
func (c *Controller) DesiredVelocity(dt float32, info physics.SurfaceInfo) math.Vec3 {
	in := c.intent()
	c.transition(NextState(c.state, info, in.Jump))

	up := c.Up()
	forward := c.Forward()
	current := c.body.Velocity()

	switch c.state {
	case InAir:
		desired := c.orientation.Rotate(in.Direction.Scale(c.config.InAirSpeed))
		out := c.body.CalculateMovement(dt, forward, up, current, math.Vec3Zero, desired, up)

		// Vertical motion in the air comes from gravity alone.
		out = out.Sub(up.Scale(out.Dot(up)))
		out = out.Add(up.Scale(current.Dot(up)))
		return out.Add(c.config.Gravity.Scale(dt))

	case OnGround:
		desired := c.orientation.Rotate(in.Direction.Scale(c.config.OnGroundSpeed))
		normal := info.AverageSurfaceNormal
		surfaceVel := info.AverageSurfaceVelocity

		out := c.body.CalculateMovement(dt, forward, normal, current, surfaceVel, desired, up)

		// Work relative to the surface so platform motion is applied unfiltered.
		out = out.Sub(surfaceVel)
		if out.Dot(up) > slopeEpsilon {
			out = reprojectHorizontal(out, normal, up)
		}
		return out.Add(surfaceVel)

	case StartJump:
		u := float32(gomath.Sqrt(float64(2 * c.config.Gravity.Length() * c.config.JumpHeight)))
		rel := current.Dot(up)
		return current.Add(up.Scale(u - rel))
	}

	return math.Vec3Zero
}

// reprojectHorizontal turns an up-slope velocity into a horizontal one whose
// length is the slope length scaled by 1/cos(slope), keeping walking speed on
// walkable slopes consistent with flat ground.
func reprojectHorizontal(v, normal, up math.Vec3) math.Vec3 {
	cos := normal.Dot(up)
	if cos <= slopeEpsilon {
		return v
	}
	l := v.Length()
	dir := v.NormalizeFromLength(l)
	horiz := l / cos
	return normal.Cross(dir).Cross(up).Scale(horiz)
}

func (c *Controller) transition(next MovementState) {
	if next == c.state {
		return
	}
	from := c.state
	c.state = next

	c.log.Debug("movement state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", next),
	)
	for _, fn := range c.onStateChange {
		fn(from, next)
	}
	if next == StartJump {
		for _, fn := range c.onJump {
			fn()
		}
	}
}
