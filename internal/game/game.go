// Package game hosts the character controller: it feeds input, steps physics
// on a fixed tick and exposes the smoothed state for rendering.
package game

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/controller"
	"github.com/Faultbox/charctl/internal/controls"
	"github.com/Faultbox/charctl/internal/engine/camera"
	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/internal/physics"
	"github.com/Faultbox/charctl/internal/trace"
	"github.com/Faultbox/charctl/pkg/math"
)

// Keys handled by the host rather than the controller.
const (
	KeyDebug = "i"
	KeyQuit  = "Escape"
)

// EventSource supplies input once per frame: SDL in the demo, a scenario
// player in headless runs.
type EventSource interface {
	Poll() controls.Frame
}

// Game owns one character and the world it moves in.
type Game struct {
	world    *physics.World
	body     *physics.CharacterBody
	ctrl     *controller.Controller
	mapper   *controls.Mapper
	camera   *camera.FollowCamera
	recorder *trace.Recorder

	// Visual is the render-side copy of the character position.
	Visual math.Vec3

	tick    int
	elapsed float32
	jumps   int
	verbose bool
	quit    bool

	onTick []func(trace.Record)

	log *zap.Logger
}

// New builds the world and character from cfg. surfaces overrides the
// configured course when non-nil. rec may be nil.
func New(cfg *config.Config, surfaces []config.SurfaceConfig, rec *trace.Recorder) (*Game, error) {
	g := &Game{
		world:    physics.NewWorld(),
		mapper:   controls.NewMapper(cfg.Input),
		recorder: rec,
		log:      logger.Named("game"),
	}

	if surfaces == nil {
		surfaces = cfg.Physics.Surfaces
	}
	for _, s := range surfaces {
		if _, err := g.world.AddSurface(s.Surface()); err != nil {
			return nil, fmt.Errorf("building world: %w", err)
		}
	}

	cc := cfg.Controller
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	g.body = physics.NewCharacterBody(g.world, cc.Position, cc.Height, cc.Radius, cc.MaxSlope)
	g.ctrl = controller.New(g.body, g.mapper, cc)
	g.camera = camera.NewFollowCamera(cfg.Camera.Distance, cfg.Camera.Pitch, cfg.Camera.DragSensitivity, cfg.Camera.TurnSmoothing)
	g.Visual = cc.Position
	g.camera.SetCenter(g.Visual)

	g.ctrl.OnJump(func() {
		g.jumps++
		g.log.Debug("jump", zap.Int("tick", g.tick), zap.Int("count", g.jumps))
	})
	g.ctrl.OnStateChange(func(from, to controller.MovementState) {
		if g.verbose {
			g.log.Info("state",
				zap.Int("tick", g.tick),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		}
	})

	g.log.Info("game initialized",
		zap.Int("surfaces", len(g.world.Surfaces())),
		zap.Bool("trace", rec != nil),
	)
	return g, nil
}

// Controller returns the character controller.
func (g *Game) Controller() *controller.Controller { return g.ctrl }

// Camera returns the follow camera.
func (g *Game) Camera() *camera.FollowCamera { return g.camera }

// World returns the physics world.
func (g *Game) World() *physics.World { return g.world }

// Mapper returns the input mapper.
func (g *Game) Mapper() *controls.Mapper { return g.mapper }

// Ticks returns the number of physics ticks run.
func (g *Game) Ticks() int { return g.tick }

// Jumps returns the number of jumps started.
func (g *Game) Jumps() int { return g.jumps }

// Verbose reports whether per-tick logging is on.
func (g *Game) Verbose() bool { return g.verbose }

// Quit reports whether a quit was requested.
func (g *Game) Quit() bool { return g.quit }

// OnTick registers fn to receive every tick record.
func (g *Game) OnTick(fn func(trace.Record)) {
	g.onTick = append(g.onTick, fn)
}

// HandleFrame applies one frame of input.
func (g *Game) HandleFrame(f controls.Frame) {
	if f.Blur {
		g.mapper.Reset()
	}
	if f.Quit {
		g.quit = true
	}
	for _, e := range f.Events {
		if e.Type == controls.EventKeyDown {
			switch e.Key {
			case KeyQuit:
				g.quit = true
				continue
			case KeyDebug:
				g.verbose = !g.verbose
				g.log.Info("verbose tick logging", zap.Bool("enabled", g.verbose))
				continue
			}
		}
		g.mapper.Apply(e)
	}
}

// OnPhysicsTick advances the world and the character by dt seconds.
func (g *Game) OnPhysicsTick(dt float32) error {
	if !(dt > 0) || gomath.IsInf(float64(dt), 0) {
		return nil
	}

	g.world.Step(dt)
	g.ctrl.SetOrientation(g.camera.Orientation())
	res := g.ctrl.Tick(dt)

	g.tick++
	g.elapsed += dt

	rec := trace.Record{
		Tick:    g.tick,
		Time:    g.elapsed,
		Dt:      dt,
		State:   res.State.String(),
		Support: res.Support.SupportedState.String(),
	}
	rec.SetPosition(res.Position)
	rec.SetVelocity(g.ctrl.Velocity())

	if g.verbose {
		g.log.Info("tick",
			zap.Int("tick", g.tick),
			zap.String("state", rec.State),
			zap.String("support", rec.Support),
			zap.Float32("x", rec.PosX),
			zap.Float32("y", rec.PosY),
			zap.Float32("z", rec.PosZ),
		)
	}

	if err := g.recorder.Write(rec); err != nil {
		return err
	}
	for _, fn := range g.onTick {
		fn(rec)
	}
	return nil
}

// OnRenderTick copies the character position to Visual and moves the camera.
func (g *Game) OnRenderTick() {
	g.Visual = g.ctrl.Position()

	drag := g.mapper.TakeDrag()
	if drag.X != 0 || drag.Y != 0 {
		g.camera.HandleDrag(drag.X, drag.Y)
	}
	g.camera.SetCenter(g.Visual)
	g.camera.Update()
}

// Status is a one-line summary for window titles and logs.
func (g *Game) Status() string {
	p := g.Visual
	return fmt.Sprintf("%s | pos (%.2f, %.2f, %.2f) | jumps %d",
		g.ctrl.State(), p.X, p.Y, p.Z, g.jumps)
}

// RunTicks plays src for at most ticks steps of dt, one input frame per step.
func (g *Game) RunTicks(src EventSource, ticks int, dt float32) error {
	for i := 0; i < ticks; i++ {
		g.HandleFrame(src.Poll())
		if g.quit {
			break
		}
		if err := g.OnPhysicsTick(dt); err != nil {
			return fmt.Errorf("tick %d: %w", g.tick, err)
		}
		g.OnRenderTick()
	}
	return nil
}
