// Package input translates SDL2 events into controls events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/charctl/internal/controls"
)

// keyNames maps scancodes to the key names used in bindings. Scancodes are
// layout independent, so WASD stays in place on non-QWERTY keyboards.
var keyNames = map[sdl.Scancode]string{
	sdl.SCANCODE_W:      "w",
	sdl.SCANCODE_A:      "a",
	sdl.SCANCODE_S:      "s",
	sdl.SCANCODE_D:      "d",
	sdl.SCANCODE_I:      "i",
	sdl.SCANCODE_UP:     "ArrowUp",
	sdl.SCANCODE_DOWN:   "ArrowDown",
	sdl.SCANCODE_LEFT:   "ArrowLeft",
	sdl.SCANCODE_RIGHT:  "ArrowRight",
	sdl.SCANCODE_SPACE:  " ",
	sdl.SCANCODE_ESCAPE: "Escape",
	sdl.SCANCODE_RETURN: "Enter",
	sdl.SCANCODE_LSHIFT: "Shift",
	sdl.SCANCODE_RSHIFT: "Shift",
	sdl.SCANCODE_TAB:    "Tab",
}

// KeyName returns the binding name for a scancode. Unlisted keys use the
// lowercased SDL name, or "" when SDL has none.
func KeyName(code sdl.Scancode) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return strings.ToLower(sdl.GetScancodeName(code))
}

// Input polls SDL and buffers the converted events.
type Input struct {
	frame controls.Frame
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		frame: controls.Frame{Events: make([]controls.Event, 0, 16)},
	}
}

// Poll drains the SDL queue. The returned frame is reused by the next call.
func (i *Input) Poll() controls.Frame {
	i.frame.Events = i.frame.Events[:0]
	i.frame.Quit = false
	i.frame.Blur = false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.frame.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				i.frame.Blur = true
			}

		case *sdl.KeyboardEvent:
			// Auto-repeat only re-sends a held key.
			if e.Repeat != 0 {
				continue
			}
			name := KeyName(e.Keysym.Scancode)
			if name == "" {
				continue
			}
			typ := controls.EventKeyDown
			if e.Type == sdl.KEYUP {
				typ = controls.EventKeyUp
			}
			i.frame.Events = append(i.frame.Events, controls.Event{Type: typ, Key: name})

		case *sdl.MouseMotionEvent:
			i.frame.Events = append(i.frame.Events, controls.Event{
				Type: controls.EventPointerMove,
				X:    float32(e.X),
				Y:    float32(e.Y),
			})

		case *sdl.MouseButtonEvent:
			typ := controls.EventPointerDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = controls.EventPointerUp
			}
			i.frame.Events = append(i.frame.Events, controls.Event{
				Type:   typ,
				Button: e.Button,
				X:      float32(e.X),
				Y:      float32(e.Y),
			})
		}
	}

	return i.frame
}
