package input

import "github.com/spaghettifunk/tessera/engine/math"

// Mouse tracks button state, the pointer position and the wheel delta
// accumulated since the last EndFrame.
type Mouse struct {
	buttons     [ButtonMaxButtons]ButtonState
	position    math.Vec2
	scrollDelta int32
}

func NewMouse() *Mouse {
	return &Mouse{}
}

// Process applies a raw event. It returns false for events that are not
// mouse messages.
func (m *Mouse) Process(ev Event) (Transition, bool) {
	if !ev.isMouse() {
		return TransitionNone, false
	}

	t := TransitionNone
	switch ev.Type {
	case EventButtonDown:
		if ev.Button >= ButtonMaxButtons {
			return TransitionNone, false
		}
		t = m.buttons[ev.Button].down()
	case EventButtonUp:
		if ev.Button >= ButtonMaxButtons {
			return TransitionNone, false
		}
		t = m.buttons[ev.Button].up()
	case EventMouseWheel:
		m.scrollDelta += ev.WheelDelta
	}

	// All mouse messages provide a new pointer position
	m.position = math.NewVec2(ev.X, ev.Y)
	return t, true
}

// EndFrame clears the edge flags and the scroll accumulator.
// Held buttons stay held until their button-up.
func (m *Mouse) EndFrame() {
	for i := range m.buttons {
		m.buttons[i].endFrame()
	}
	m.scrollDelta = 0
}

// Reset releases every button without raising edge flags.
func (m *Mouse) Reset() {
	m.buttons = [ButtonMaxButtons]ButtonState{}
	m.scrollDelta = 0
}

func (m *Mouse) State(button Button) ButtonState {
	if button >= ButtonMaxButtons {
		return ButtonState{}
	}
	return m.buttons[button]
}

func (m *Mouse) IsPressed(button Button) bool {
	return m.State(button).Pressed
}

func (m *Mouse) IsReleased(button Button) bool {
	return m.State(button).Released
}

func (m *Mouse) IsHeld(button Button) bool {
	return m.State(button).Held
}

func (m *Mouse) Position() math.Vec2 {
	return m.position
}

// ScrollDelta is not cleared by reading, only by EndFrame.
func (m *Mouse) ScrollDelta() int32 {
	return m.scrollDelta
}
