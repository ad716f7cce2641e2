package physics

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/charctl/pkg/math"
)

const dt = float32(1.0 / 60)

var down = math.Vec3{Y: -1}
var gravity = math.Vec3{Y: -9.81}

func flatGround(t *testing.T, w *World) *Surface {
	t.Helper()
	s, err := w.AddSurface(Surface{
		Name:   "ground",
		Normal: math.Vec3Up,
		Min:    math.Vec2{X: -50, Y: -50},
		Max:    math.Vec2{X: 50, Y: 50},
	})
	if err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	return s
}

// ramp rises toward +Z starting at z=0.
func ramp(t *testing.T, w *World, angle float64) *Surface {
	t.Helper()
	s, err := w.AddSurface(Surface{
		Name:   "ramp",
		Origin: math.Vec3{},
		Normal: math.Vec3{Y: float32(gomath.Cos(angle)), Z: -float32(gomath.Sin(angle))},
		Min:    math.Vec2{X: -5, Y: 0},
		Max:    math.Vec2{X: 5, Y: 20},
	})
	if err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	return s
}

func TestAddSurfaceValidation(t *testing.T) {
	w := NewWorld()

	tests := []struct {
		name string
		s    Surface
	}{
		{"wall", Surface{Normal: math.Vec3{X: 1}, Max: math.Vec2{X: 1, Y: 1}}},
		{"ceiling", Surface{Normal: math.Vec3{Y: -1}, Max: math.Vec2{X: 1, Y: 1}}},
		{"zero normal", Surface{Max: math.Vec2{X: 1, Y: 1}}},
		{"inverted extent", Surface{Normal: math.Vec3Up, Min: math.Vec2{X: 2}, Max: math.Vec2{X: 1}}},
		{"negative travel", Surface{Normal: math.Vec3Up, Max: math.Vec2{X: 1, Y: 1}, Travel: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := w.AddSurface(tt.s); !errors.Is(err, ErrInvalidSurface) {
				t.Errorf("AddSurface() = %v, want ErrInvalidSurface", err)
			}
		})
	}
	if len(w.Surfaces()) != 0 {
		t.Errorf("invalid surfaces were added: %d", len(w.Surfaces()))
	}
}

func TestSurfaceNormalizedOnAdd(t *testing.T) {
	w := NewWorld()
	s, err := w.AddSurface(Surface{Normal: math.Vec3{Y: 2, Z: -2}, Max: math.Vec2{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	if l := s.Normal.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("normal length = %v, want 1", l)
	}
	deg := s.SlopeAngle() * 180 / gomath.Pi
	if deg < 44.9 || deg > 45.1 {
		t.Errorf("slope = %v degrees, want 45", deg)
	}
}

func TestHeightAt(t *testing.T) {
	w := NewWorld()
	r := ramp(t, w, gomath.Pi/4)

	if h := r.HeightAt(0, 0); gomath.Abs(float64(h)) > 1e-5 {
		t.Errorf("height at origin = %v, want 0", h)
	}
	if h := r.HeightAt(3, 2); gomath.Abs(float64(h-2)) > 1e-4 {
		t.Errorf("height at z=2 on 45 degree ramp = %v, want 2", h)
	}
	if !r.Contains(0, 10) || r.Contains(0, -1) || r.Contains(6, 1) {
		t.Error("Contains disagrees with extent")
	}
}

func TestSupportedOnFlatGround(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	if info.SupportedState != Supported {
		t.Fatalf("state = %v, want supported", info.SupportedState)
	}
	if info.AverageSurfaceNormal != math.Vec3Up {
		t.Errorf("normal = %v, want up", info.AverageSurfaceNormal)
	}
	if info.AverageSurfaceVelocity != math.Vec3Zero {
		t.Errorf("velocity = %v, want zero", info.AverageSurfaceVelocity)
	}
}

func TestUnsupportedAboveGround(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 3}, 1.8, 0.25, gomath.Pi/6)

	if got := b.CheckSupport(dt, down).SupportedState; got != Unsupported {
		t.Errorf("state = %v, want unsupported", got)
	}
}

func TestUnsupportedOffEdge(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{X: 60, Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	if got := b.CheckSupport(dt, down).SupportedState; got != Unsupported {
		t.Errorf("state = %v, want unsupported past the edge", got)
	}
}

func TestSeparatingBodyUnsupported(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 0.92}, 1.8, 0.25, gomath.Pi/6)
	b.SetVelocity(math.Vec3{Y: 4})

	if got := b.CheckSupport(dt, down).SupportedState; got != Unsupported {
		t.Errorf("rising body = %v, want unsupported", got)
	}
}

func TestSteepSurfaceSliding(t *testing.T) {
	w := NewWorld()
	ramp(t, w, gomath.Pi/3) // 60 degrees
	b := NewCharacterBody(w, math.Vec3{Z: 1}, 1.8, 0.25, gomath.Pi/6)
	b.SetPosition(math.Vec3{Z: 1, Y: w.Surfaces()[0].HeightAt(0, 1) + 0.9})

	if got := b.CheckSupport(dt, down).SupportedState; got != Sliding {
		t.Errorf("state = %v, want sliding on 60 degree slope", got)
	}
}

func TestWalkableSlopeSupported(t *testing.T) {
	w := NewWorld()
	r := ramp(t, w, gomath.Pi/9) // 20 degrees
	b := NewCharacterBody(w, math.Vec3{Z: 1, Y: r.HeightAt(0, 1) + 0.9}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	if info.SupportedState != Supported {
		t.Fatalf("state = %v, want supported", info.SupportedState)
	}
	if info.AverageSurfaceNormal.Distance(r.Normal) > 1e-5 {
		t.Errorf("normal = %v, want ramp normal %v", info.AverageSurfaceNormal, r.Normal)
	}
}

func TestAveragesCoincidentSurfaces(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	if _, err := w.AddSurface(Surface{
		Name:     "belt",
		Normal:   math.Vec3Up,
		Min:      math.Vec2{X: -1, Y: -1},
		Max:      math.Vec2{X: 1, Y: 1},
		Velocity: math.Vec3{X: 2},
	}); err != nil {
		t.Fatal(err)
	}
	b := NewCharacterBody(w, math.Vec3{Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	if info.AverageSurfaceVelocity != (math.Vec3{X: 1}) {
		t.Errorf("average velocity = %v, want (1,0,0)", info.AverageSurfaceVelocity)
	}
}

func TestHighestSurfaceWins(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	if _, err := w.AddSurface(Surface{
		Name:     "platform",
		Origin:   math.Vec3{Y: 0.5},
		Normal:   math.Vec3Up,
		Min:      math.Vec2{X: -1, Y: -1},
		Max:      math.Vec2{X: 1, Y: 1},
		Velocity: math.Vec3{Z: 1},
	}); err != nil {
		t.Fatal(err)
	}
	b := NewCharacterBody(w, math.Vec3{Y: 1.4}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	if info.AverageSurfaceVelocity != (math.Vec3{Z: 1}) {
		t.Errorf("velocity = %v, want platform velocity", info.AverageSurfaceVelocity)
	}
}

func TestCalculateMovementFlat(t *testing.T) {
	b := NewCharacterBody(NewWorld(), math.Vec3{}, 1.8, 0.25, gomath.Pi/6)
	got := b.CalculateMovement(dt, math.Vec3Forward, math.Vec3Up, math.Vec3{Y: -3}, math.Vec3{X: 1}, math.Vec3{Z: 5}, math.Vec3Up)
	if got != (math.Vec3{X: 1, Z: 5}) {
		t.Errorf("movement = %v, want desired plus surface velocity", got)
	}
}

func TestCalculateMovementFollowsSlope(t *testing.T) {
	angle := gomath.Pi / 9
	n := math.Vec3{Y: float32(gomath.Cos(angle)), Z: -float32(gomath.Sin(angle))}
	b := NewCharacterBody(NewWorld(), math.Vec3{}, 1.8, 0.25, gomath.Pi/6)

	got := b.CalculateMovement(dt, math.Vec3Forward, n, math.Vec3{}, math.Vec3{}, math.Vec3{Z: 5}, math.Vec3Up)
	if gomath.Abs(float64(got.Dot(n))) > 1e-5 {
		t.Errorf("movement %v pushes into the slope", got)
	}
	if got.Y <= 0 {
		t.Errorf("uphill movement should rise, got %v", got)
	}
}

func TestCalculateMovementBlocksSteepClimb(t *testing.T) {
	angle := gomath.Pi / 3
	n := math.Vec3{Y: float32(gomath.Cos(angle)), Z: -float32(gomath.Sin(angle))}
	b := NewCharacterBody(NewWorld(), math.Vec3{}, 1.8, 0.25, gomath.Pi/6)

	got := b.CalculateMovement(dt, math.Vec3Forward, n, math.Vec3{}, math.Vec3{}, math.Vec3{Z: 5}, math.Vec3Up)
	if got.Length() > 1e-4 {
		t.Errorf("climbing a 60 degree slope should be blocked, got %v", got)
	}

	side := b.CalculateMovement(dt, math.Vec3Forward, n, math.Vec3{}, math.Vec3{}, math.Vec3{X: 5}, math.Vec3Up)
	if gomath.Abs(float64(side.X-5)) > 1e-4 {
		t.Errorf("moving along the contour should be allowed, got %v", side)
	}
}

func TestIntegrateLandsOnGround(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 0.95}, 1.8, 0.25, gomath.Pi/6)
	b.SetVelocity(math.Vec3{X: 1, Y: -6})

	b.Integrate(dt, SurfaceInfo{}, gravity)

	if gomath.Abs(float64(b.Position().Y-0.9)) > 1e-5 {
		t.Errorf("capsule center = %v, want resting at 0.9", b.Position().Y)
	}
	if b.Velocity().Y != 0 {
		t.Errorf("vertical velocity after landing = %v, want 0", b.Velocity().Y)
	}
	if b.Velocity().X != 1 {
		t.Errorf("horizontal velocity changed on landing: %v", b.Velocity())
	}
}

func TestIntegrateFreeFall(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 10}, 1.8, 0.25, gomath.Pi/6)
	b.SetVelocity(math.Vec3{Y: -6})

	b.Integrate(0.5, SurfaceInfo{}, gravity)
	if gomath.Abs(float64(b.Position().Y-7)) > 1e-5 {
		t.Errorf("position = %v, want 7", b.Position().Y)
	}
	if b.Velocity().Y != -6 {
		t.Errorf("integrate must not add gravity itself, got %v", b.Velocity())
	}
}

func TestIntegrateJumpLeavesGround(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	b := NewCharacterBody(w, math.Vec3{Y: 0.9}, 1.8, 0.25, gomath.Pi/6)
	info := b.CheckSupport(dt, down)

	b.SetVelocity(math.Vec3{Y: 4.43})
	b.Integrate(dt, info, gravity)

	if b.Position().Y <= 0.9 {
		t.Errorf("jumping body was snapped back to ground: %v", b.Position())
	}
}

func TestIntegrateClimbsRamp(t *testing.T) {
	w := NewWorld()
	r := ramp(t, w, gomath.Pi/9)
	b := NewCharacterBody(w, math.Vec3{Z: 1, Y: r.HeightAt(0, 1) + 0.9}, 1.8, 0.25, gomath.Pi/6)
	info := b.CheckSupport(dt, down)

	b.SetVelocity(math.Vec3{Z: 5})
	b.Integrate(dt, info, gravity)

	wantFoot := r.HeightAt(0, b.Position().Z)
	if gomath.Abs(float64(b.Position().Y-0.9-wantFoot)) > 1e-4 {
		t.Errorf("foot = %v, want on ramp at %v", b.Position().Y-0.9, wantFoot)
	}
}

func TestIntegrateSticksWalkingDownhill(t *testing.T) {
	w := NewWorld()
	r := ramp(t, w, gomath.Pi/9)
	start := math.Vec3{Z: 10, Y: r.HeightAt(0, 10) + 0.9}
	b := NewCharacterBody(w, start, 1.8, 0.25, gomath.Pi/6)
	info := b.CheckSupport(dt, down)

	// Horizontal motion only: the snap has to pull the foot down the slope.
	b.SetVelocity(math.Vec3{Z: -5})
	b.Integrate(dt, info, gravity)

	wantFoot := r.HeightAt(0, b.Position().Z)
	if gomath.Abs(float64(b.Position().Y-0.9-wantFoot)) > 1e-4 {
		t.Errorf("foot = %v, want stuck to ramp at %v", b.Position().Y-0.9, wantFoot)
	}
}

// box adds a flat patch of the given height over x in [-5,5], z in [z0, z0+4].
func box(t *testing.T, w *World, z0, height float32) *Surface {
	t.Helper()
	s, err := w.AddSurface(Surface{
		Name:   "box",
		Origin: math.Vec3{Y: height, Z: z0},
		Normal: math.Vec3Up,
		Min:    math.Vec2{X: -5},
		Max:    math.Vec2{X: 5, Y: 4},
	})
	if err != nil {
		t.Fatalf("AddSurface: %v", err)
	}
	return s
}

func TestIntegrateSteepSlopeIsAWall(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	ramp(t, w, 50*gomath.Pi/180)
	b := NewCharacterBody(w, math.Vec3{Z: -0.01, Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	for i := 0; i < 60; i++ {
		info := b.CheckSupport(dt, down)
		b.SetVelocity(math.Vec3{Z: 5})
		b.Integrate(dt, info, gravity)
	}

	if foot := b.Position().Y - 0.9; foot > 1e-3 {
		t.Errorf("foot climbed the steep slope to %v", foot)
	}
	if b.Position().Z > 1e-3 {
		t.Errorf("body entered the slope, z = %v", b.Position().Z)
	}
	if gomath.Abs(float64(b.Velocity().Z)) > 1e-5 {
		t.Errorf("velocity into the slope should be removed, got %v", b.Velocity())
	}
}

func TestIntegrateSlidesOffSteepSlope(t *testing.T) {
	w := NewWorld()
	r := ramp(t, w, 50*gomath.Pi/180)
	start := math.Vec3{Z: 2, Y: r.HeightAt(0, 2) + 0.9}
	b := NewCharacterBody(w, start, 1.8, 0.25, gomath.Pi/6)

	b.SetVelocity(math.Vec3{Y: -3})
	b.Integrate(dt, SurfaceInfo{SupportedState: Sliding}, gravity)

	p := b.Position()
	if p.Y >= start.Y {
		t.Errorf("sliding body rose from %v to %v", start.Y, p.Y)
	}
	if p.Z >= start.Z {
		t.Errorf("sliding body should move downhill, z %v -> %v", start.Z, p.Z)
	}
	if gomath.Abs(float64(p.Y-0.9-r.HeightAt(0, p.Z))) > 1e-4 {
		t.Errorf("foot should rest on the slope after the push, y=%v", p.Y)
	}
}

func TestIntegrateStepsOntoLowLedge(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	box(t, w, 0.05, 0.2)
	b := NewCharacterBody(w, math.Vec3{Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	b.SetVelocity(math.Vec3{Z: 5})
	b.Integrate(dt, info, gravity)

	if gomath.Abs(float64(b.Position().Y-1.1)) > 1e-5 {
		t.Errorf("expected to step up onto the 0.2 ledge, y=%v", b.Position().Y)
	}
}

func TestIntegrateTallLedgeBlocks(t *testing.T) {
	w := NewWorld()
	flatGround(t, w)
	box(t, w, 0.05, 0.6)
	b := NewCharacterBody(w, math.Vec3{Y: 0.9}, 1.8, 0.25, gomath.Pi/6)

	info := b.CheckSupport(dt, down)
	b.SetVelocity(math.Vec3{Z: 5})
	b.Integrate(dt, info, gravity)

	p := b.Position()
	if p.Y != 0.9 {
		t.Errorf("ledge above step height should not lift the body, y=%v", p.Y)
	}
	if p.Z >= 0.05 {
		t.Errorf("body should be pushed back off the ledge, z=%v", p.Z)
	}
	if gomath.Abs(float64(b.Velocity().Z)) > 1e-5 {
		t.Errorf("velocity into the ledge should be removed, got %v", b.Velocity())
	}
}

func TestIntegrateFallingLandsOnHighPatch(t *testing.T) {
	w := NewWorld()
	box(t, w, -2, 2)
	b := NewCharacterBody(w, math.Vec3{Y: 2.95}, 1.8, 0.25, gomath.Pi/6)

	// Falls 0.5 in one tick, deeper than a step.
	b.SetVelocity(math.Vec3{Y: -30})
	b.Integrate(dt, SurfaceInfo{}, gravity)

	if gomath.Abs(float64(b.Position().Y-2.9)) > 1e-5 {
		t.Errorf("expected to land on the patch top, y=%v", b.Position().Y)
	}
}

func TestIntegrateSkipsZeroDelta(t *testing.T) {
	b := NewCharacterBody(NewWorld(), math.Vec3{Y: 1}, 1.8, 0.25, gomath.Pi/6)
	b.SetVelocity(math.Vec3{X: 3})
	b.Integrate(0, SurfaceInfo{}, gravity)
	if b.Position() != (math.Vec3{Y: 1}) {
		t.Errorf("zero dt moved the body to %v", b.Position())
	}
}

func TestWorldStepMovesPlatforms(t *testing.T) {
	w := NewWorld()
	p, err := w.AddSurface(Surface{
		Name:     "lift",
		Normal:   math.Vec3Up,
		Max:      math.Vec2{X: 1, Y: 1},
		Velocity: math.Vec3{Y: 1},
		Travel:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	static := flatGround(t, w)

	w.Step(0.5)
	if p.Origin.Y != 0.5 {
		t.Errorf("lift height = %v, want 0.5", p.Origin.Y)
	}
	w.Step(1.5)
	if p.Velocity.Y != -1 {
		t.Errorf("lift should reverse after travel, velocity %v", p.Velocity)
	}
	w.Step(1)
	if p.Origin.Y != 1 {
		t.Errorf("lift height = %v, want 1 on the way down", p.Origin.Y)
	}
	if static.Origin != math.Vec3Zero {
		t.Errorf("static surface moved to %v", static.Origin)
	}

	w.Step(0)
	w.Step(-1)
	if p.Origin.Y != 1 {
		t.Errorf("non-positive step moved lift to %v", p.Origin.Y)
	}
}

func TestSupportStateString(t *testing.T) {
	names := map[SupportState]string{
		Unsupported:     "unsupported",
		Sliding:         "sliding",
		Supported:       "supported",
		SupportState(7): "unknown",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
