package input

type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	}
	return "unknown"
}

// AxisBinding maps an axis to the keys driving each direction.
type AxisBinding struct {
	Positive []KeyCode
	Negative []KeyCode
}

// DefaultAxisBindings returns WASD plus arrow keys.
func DefaultAxisBindings() map[Axis]AxisBinding {
	return map[Axis]AxisBinding{
		AxisHorizontal: {
			Positive: []KeyCode{KeyD, KeyRight},
			Negative: []KeyCode{KeyA, KeyLeft},
		},
		AxisVertical: {
			Positive: []KeyCode{KeyW, KeyUp},
			Negative: []KeyCode{KeyS, KeyDown},
		},
	}
}

// Keyboard tracks pressed/released/held state for every key.
type Keyboard struct {
	keys [KeysMaxKeys]ButtonState
	axes map[Axis]AxisBinding
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		axes: DefaultAxisBindings(),
	}
}

// Process applies a raw event. It returns false for events that are not
// keyboard messages; the transition is TransitionNone for redundant events.
func (k *Keyboard) Process(ev Event) (Transition, bool) {
	if !ev.isKeyboard() {
		return TransitionNone, false
	}
	if ev.Key >= KeysMaxKeys {
		return TransitionNone, false
	}
	if ev.Type == EventKeyDown {
		return k.keys[ev.Key].down(), true
	}
	return k.keys[ev.Key].up(), true
}

// EndFrame clears the edge flags. Held keys stay held until their key-up.
func (k *Keyboard) EndFrame() {
	for i := range k.keys {
		k.keys[i].endFrame()
	}
}

// Reset returns every key to the up state, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	k.keys = [KeysMaxKeys]ButtonState{}
}

func (k *Keyboard) State(key KeyCode) ButtonState {
	if key >= KeysMaxKeys {
		return ButtonState{}
	}
	return k.keys[key]
}

func (k *Keyboard) IsPressed(key KeyCode) bool {
	return k.State(key).Pressed
}

func (k *Keyboard) IsReleased(key KeyCode) bool {
	return k.State(key).Released
}

func (k *Keyboard) IsHeld(key KeyCode) bool {
	return k.State(key).Held
}

func (k *Keyboard) SetAxisBinding(axis Axis, binding AxisBinding) {
	k.axes[axis] = binding
}

func (k *Keyboard) AxisBinding(axis Axis) (AxisBinding, bool) {
	b, ok := k.axes[axis]
	return b, ok
}

// GetAxis returns +1, -1 or 0 from the keys bound to the axis.
// When both directions are held the positive direction wins.
func (k *Keyboard) GetAxis(axis Axis) float32 {
	binding, ok := k.axes[axis]
	if !ok {
		return 0
	}
	if k.anyHeld(binding.Positive) {
		return 1
	}
	if k.anyHeld(binding.Negative) {
		return -1
	}
	return 0
}

func (k *Keyboard) anyHeld(keys []KeyCode) bool {
	for _, key := range keys {
		if k.IsHeld(key) {
			return true
		}
	}
	return false
}
