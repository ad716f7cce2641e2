// Package scenario replays scripted input for headless runs and tests.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/charctl/internal/config"
	"github.com/Faultbox/charctl/internal/controls"
)

// DefaultDt is the tick length used when a scenario leaves dt unset.
const DefaultDt = float32(1.0 / 60.0)

// ErrInvalidScenario is returned for scenarios that cannot be replayed.
var ErrInvalidScenario = errors.New("invalid scenario")

// Event types accepted in scenario files.
const (
	TypeKeyDown     = "key_down"
	TypeKeyUp       = "key_up"
	TypePointerDown = "pointer_down"
	TypePointerUp   = "pointer_up"
	TypePointerMove = "pointer_move"
	TypeBlur        = "blur"
	TypeQuit        = "quit"
)

// Scenario is a scripted run: input events keyed by tick.
type Scenario struct {
	Name   string                 `yaml:"name"`
	Ticks  int                    `yaml:"ticks"`
	Dt     float32                `yaml:"dt"`
	Events []Event                `yaml:"events"`
	World  []config.SurfaceConfig `yaml:"world"` // replaces the configured surfaces when set
}

// Event is one scripted input, delivered before the physics tick it names.
type Event struct {
	Tick   int     `yaml:"tick"`
	Type   string  `yaml:"type"`
	Key    string  `yaml:"key"`
	Button uint8   `yaml:"button"`
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if s.Dt == 0 {
		s.Dt = DefaultDt
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks tick bounds and event types.
func (s *Scenario) Validate() error {
	if s.Ticks <= 0 {
		return fmt.Errorf("ticks %d must be positive: %w", s.Ticks, ErrInvalidScenario)
	}
	if !(s.Dt > 0) {
		return fmt.Errorf("dt %v must be positive: %w", s.Dt, ErrInvalidScenario)
	}
	for i, e := range s.Events {
		if e.Tick < 0 || e.Tick >= s.Ticks {
			return fmt.Errorf("event %d: tick %d outside [0, %d): %w", i, e.Tick, s.Ticks, ErrInvalidScenario)
		}
		if _, _, err := e.frameAction(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

type frameAction int

const (
	actionEvent frameAction = iota
	actionBlur
	actionQuit
)

func (e Event) frameAction() (frameAction, controls.Event, error) {
	ev := controls.Event{Key: e.Key, Button: e.Button, X: e.X, Y: e.Y}
	switch e.Type {
	case TypeKeyDown:
		ev.Type = controls.EventKeyDown
	case TypeKeyUp:
		ev.Type = controls.EventKeyUp
	case TypePointerDown:
		ev.Type = controls.EventPointerDown
	case TypePointerUp:
		ev.Type = controls.EventPointerUp
	case TypePointerMove:
		ev.Type = controls.EventPointerMove
	case TypeBlur:
		return actionBlur, ev, nil
	case TypeQuit:
		return actionQuit, ev, nil
	default:
		return 0, ev, fmt.Errorf("unknown event type %q: %w", e.Type, ErrInvalidScenario)
	}
	if (ev.Type == controls.EventKeyDown || ev.Type == controls.EventKeyUp) && e.Key == "" {
		return 0, ev, fmt.Errorf("%s without key: %w", e.Type, ErrInvalidScenario)
	}
	return actionEvent, ev, nil
}

// Player hands out a scenario's events one tick at a time.
type Player struct {
	frames map[int]controls.Frame
	ticks  int
	tick   int
}

// NewPlayer prepares s for replay. s must be valid.
func NewPlayer(s *Scenario) *Player {
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })

	p := &Player{frames: make(map[int]controls.Frame), ticks: s.Ticks}
	for _, e := range events {
		action, ev, err := e.frameAction()
		if err != nil {
			continue
		}
		f := p.frames[e.Tick]
		switch action {
		case actionBlur:
			f.Blur = true
		case actionQuit:
			f.Quit = true
		default:
			f.Events = append(f.Events, ev)
		}
		p.frames[e.Tick] = f
	}
	return p
}

// Poll returns the input due on the current tick and advances. Once every
// tick has been played the frame reports Quit.
func (p *Player) Poll() controls.Frame {
	if p.tick >= p.ticks {
		return controls.Frame{Quit: true}
	}
	f := p.frames[p.tick]
	p.tick++
	return f
}

// Tick returns the number of ticks polled so far.
func (p *Player) Tick() int {
	return p.tick
}

// Done reports whether every tick has been polled.
func (p *Player) Done() bool {
	return p.tick >= p.ticks
}
