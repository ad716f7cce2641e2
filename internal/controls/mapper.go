package controls

import "github.com/Faultbox/charctl/pkg/math"

// Intent is the currently held movement input. Direction.X is left/right and
// Direction.Z is forward/back, each in {-1, 0, 1}; Direction.Y is always 0.
type Intent struct {
	Direction math.Vec3
	Jump      bool
}

// EventType identifies a raw input event.
type EventType int

const (
	EventKeyDown EventType = iota + 1
	EventKeyUp
	EventPointerDown
	EventPointerUp
	EventPointerMove
)

// Event is a source-agnostic input event.
type Event struct {
	Type   EventType
	Key    string
	Button uint8
	X, Y   float32
}

// Mapper latches key state into an Intent and tracks pointer drags.
// It is not safe for concurrent use; events and ticks run on one goroutine.
type Mapper struct {
	actions map[string]Action
	intent  Intent
	pressed map[string]struct{}

	buttons map[uint8]struct{}
	pointer math.Vec2
	drag    math.Vec2
}

// NewMapper creates a mapper for the given bindings.
func NewMapper(b Bindings) *Mapper {
	return &Mapper{
		actions: b.lookup(),
		pressed: make(map[string]struct{}),
		buttons: make(map[uint8]struct{}),
	}
}

// Intent returns the latched intent.
func (m *Mapper) Intent() Intent {
	return m.intent
}

// KeyDown handles a key press. Unbound keys only update the pressed set.
func (m *Mapper) KeyDown(key string) {
	m.pressed[key] = struct{}{}

	switch m.actions[key] {
	case ActionForward:
		m.intent.Direction.Z = 1
	case ActionBack:
		m.intent.Direction.Z = -1
	case ActionLeft:
		m.intent.Direction.X = -1
	case ActionRight:
		m.intent.Direction.X = 1
	case ActionJump:
		m.intent.Jump = true
	}
}

// KeyUp handles a key release. Releasing any key bound to an axis zeroes
// that axis, even if the opposite key is still held.
func (m *Mapper) KeyUp(key string) {
	delete(m.pressed, key)

	switch m.actions[key] {
	case ActionForward, ActionBack:
		m.intent.Direction.Z = 0
	case ActionLeft, ActionRight:
		m.intent.Direction.X = 0
	case ActionJump:
		m.intent.Jump = false
	}
}

// IsKeyPressed reports whether key is currently held.
func (m *Mapper) IsKeyPressed(key string) bool {
	_, ok := m.pressed[key]
	return ok
}

// AnyKeyPressed reports whether any key is held.
func (m *Mapper) AnyKeyPressed() bool {
	return len(m.pressed) > 0
}

// KeysPressed reports whether every listed key is held.
func (m *Mapper) KeysPressed(keys ...string) bool {
	for _, k := range keys {
		if !m.IsKeyPressed(k) {
			return false
		}
	}
	return true
}

// PointerDown records a button press at (x, y).
func (m *Mapper) PointerDown(button uint8, x, y float32) {
	m.buttons[button] = struct{}{}
	m.pointer = math.Vec2{X: x, Y: y}
}

// PointerUp records a button release at (x, y).
func (m *Mapper) PointerUp(button uint8, x, y float32) {
	delete(m.buttons, button)
	m.pointer = math.Vec2{X: x, Y: y}
}

// PointerMove updates the pointer position. While a button is held the
// motion accumulates into the drag delta.
func (m *Mapper) PointerMove(x, y float32) {
	p := math.Vec2{X: x, Y: y}
	if len(m.buttons) > 0 {
		m.drag = m.drag.Add(p.Sub(m.pointer))
	}
	m.pointer = p
}

// IsPointerPressed reports whether button is held.
func (m *Mapper) IsPointerPressed(button uint8) bool {
	_, ok := m.buttons[button]
	return ok
}

// PointerPosition returns the last known pointer position.
func (m *Mapper) PointerPosition() math.Vec2 {
	return m.pointer
}

// TakeDrag returns the drag accumulated since the last call and resets it.
func (m *Mapper) TakeDrag() math.Vec2 {
	d := m.drag
	m.drag = math.Vec2{}
	return d
}

// Apply dispatches a generic event to the matching handler.
func (m *Mapper) Apply(e Event) {
	switch e.Type {
	case EventKeyDown:
		m.KeyDown(e.Key)
	case EventKeyUp:
		m.KeyUp(e.Key)
	case EventPointerDown:
		m.PointerDown(e.Button, e.X, e.Y)
	case EventPointerUp:
		m.PointerUp(e.Button, e.X, e.Y)
	case EventPointerMove:
		m.PointerMove(e.X, e.Y)
	}
}

// Reset releases every key and button, e.g. when the window loses focus.
func (m *Mapper) Reset() {
	m.intent = Intent{}
	m.pressed = make(map[string]struct{})
	m.buttons = make(map[uint8]struct{})
	m.drag = math.Vec2{}
}

// Frame is the input gathered from a source since its last poll.
type Frame struct {
	Events []Event
	Quit   bool
	// Blur reports that the source lost focus; held input should be released.
	Blur bool
}
