package input

// ButtonState is the per-frame state of a key or mouse button.
// Pressed and Released are edge flags valid for the frame in which the
// transition happened; Held is level triggered and lasts until the up event.
type ButtonState struct {
	Pressed  bool
	Released bool
	Held     bool
}

type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionPressed
	TransitionReleased
)

func (s *ButtonState) down() Transition {
	if s.Held {
		return TransitionNone
	}
	s.Held = true
	s.Pressed = true
	return TransitionPressed
}

func (s *ButtonState) up() Transition {
	if !s.Held {
		return TransitionNone
	}
	s.Held = false
	s.Released = true
	return TransitionReleased
}

func (s *ButtonState) endFrame() {
	s.Pressed = false
	s.Released = false
}
