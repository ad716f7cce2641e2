// Package controls maps raw key and pointer events onto a latched movement
// intent that the character controller reads once per physics tick.
package controls

// Action is what a bound key does.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionJump
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBack:
		return "back"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	default:
		return "none"
	}
}

// Bindings lists the key names bound to each action. Key names follow the
// DOM KeyboardEvent.key convention ("w", "ArrowUp", " ").
type Bindings struct {
	Forward []string `yaml:"forward"`
	Back    []string `yaml:"back"`
	Left    []string `yaml:"left"`
	Right   []string `yaml:"right"`
	Jump    []string `yaml:"jump"`
}

// DefaultBindings returns WASD plus arrow keys and space to jump.
func DefaultBindings() Bindings {
	return Bindings{
		Forward: []string{"w", "ArrowUp"},
		Back:    []string{"s", "ArrowDown"},
		Left:    []string{"a", "ArrowLeft"},
		Right:   []string{"d", "ArrowRight"},
		Jump:    []string{" "},
	}
}

// lookup flattens the bindings. A key bound twice keeps its first action in
// forward, back, left, right, jump order.
func (b Bindings) lookup() map[string]Action {
	m := make(map[string]Action)
	add := func(keys []string, a Action) {
		for _, k := range keys {
			if _, ok := m[k]; !ok {
				m[k] = a
			}
		}
	}
	add(b.Forward, ActionForward)
	add(b.Back, ActionBack)
	add(b.Left, ActionLeft)
	add(b.Right, ActionRight)
	add(b.Jump, ActionJump)
	return m
}
