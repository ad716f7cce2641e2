package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Loop turns wall-clock frame time into a whole number of fixed physics steps.
type Loop struct {
	step     time.Duration
	maxSteps int
	acc      time.Duration
	dropped  time.Duration
}

// NewLoop creates a loop running tickRate steps per second and at most
// maxSteps per frame.
func NewLoop(tickRate, maxSteps int) *Loop {
	return &Loop{
		step:     time.Second / time.Duration(tickRate),
		maxSteps: maxSteps,
	}
}

// Step returns the fixed step length in seconds.
func (l *Loop) Step() float32 {
	return float32(l.step.Seconds())
}

// Advance adds elapsed frame time and returns how many steps to run. Time
// beyond maxSteps is dropped so a slow frame cannot snowball.
func (l *Loop) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	l.acc += elapsed

	n := int(l.acc / l.step)
	if n > l.maxSteps {
		l.dropped += l.acc - time.Duration(l.maxSteps)*l.step
		n = l.maxSteps
		l.acc = 0
		return n
	}
	l.acc -= time.Duration(n) * l.step
	return n
}

// Dropped returns the total time discarded by Advance.
func (l *Loop) Dropped() time.Duration {
	return l.dropped
}

// Run drives g from src in real time until quit. render is called once per
// frame after the physics steps.
func (g *Game) Run(loop *Loop, src EventSource, render func(*Game)) error {
	g.log.Info("starting game loop", zap.Float32("step", loop.Step()))

	last := time.Now()
	frameCount := 0
	fpsTimer := last

	for !g.quit {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		g.HandleFrame(src.Poll())
		if g.quit {
			break
		}

		steps := loop.Advance(elapsed)
		for i := 0; i < steps; i++ {
			if err := g.OnPhysicsTick(loop.Step()); err != nil {
				return fmt.Errorf("update error: %w", err)
			}
		}

		g.OnRenderTick()
		if render != nil {
			render(g)
		}

		if steps == 0 {
			time.Sleep(time.Millisecond)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("ticks", g.tick),
				zap.Duration("dropped", loop.Dropped()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	g.log.Info("game loop stopped", zap.Int("ticks", g.tick))
	return nil
}
