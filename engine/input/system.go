package input

import (
	"github.com/spaghettifunk/tessera/engine/core"
)

// InputSystem owns the keyboard and mouse trackers. The platform feeds it one
// Event per OS input message and the engine calls EndFrame once per frame,
// after every consumer has read the state.
type InputSystem struct {
	keyboard    *Keyboard
	mouse       *Mouse
	bus         *core.EventBus
	initialized bool
}

// NewInputSystem creates the system. bus may be nil, in which case no events are fired.
func NewInputSystem(bus *core.EventBus) *InputSystem {
	return &InputSystem{
		keyboard: NewKeyboard(),
		mouse:    NewMouse(),
		bus:      bus,
	}
}

func (is *InputSystem) Initialize() error {
	is.keyboard.Reset()
	is.mouse.Reset()
	is.initialized = true
	core.LogInfo("Input subsystem initialized.")
	return nil
}

func (is *InputSystem) Shutdown() error {
	is.initialized = false
	return nil
}

func (is *InputSystem) Keyboard() *Keyboard {
	return is.keyboard
}

func (is *InputSystem) Mouse() *Mouse {
	return is.mouse
}

// Process routes a raw event to the tracker it belongs to. Events that are not
// input messages are ignored.
func (is *InputSystem) Process(ev Event) {
	if !is.initialized {
		return
	}

	if t, ok := is.keyboard.Process(ev); ok {
		switch t {
		case TransitionPressed:
			is.fire(core.EventCodeKeyPressed, &core.KeyEvent{KeyCode: uint16(ev.Key)})
		case TransitionReleased:
			is.fire(core.EventCodeKeyReleased, &core.KeyEvent{KeyCode: uint16(ev.Key)})
		}
		return
	}

	t, ok := is.mouse.Process(ev)
	if !ok {
		return
	}
	switch t {
	case TransitionPressed:
		is.fire(core.EventCodeButtonPressed, is.mouseEvent(ev))
	case TransitionReleased:
		is.fire(core.EventCodeButtonReleased, is.mouseEvent(ev))
	}
	switch ev.Type {
	case EventMouseMove:
		is.fire(core.EventCodeMouseMoved, is.mouseEvent(ev))
	case EventMouseWheel:
		is.fire(core.EventCodeMouseWheel, is.mouseEvent(ev))
	}
}

// EndFrame clears per-frame edge flags and the scroll accumulator.
func (is *InputSystem) EndFrame() {
	is.keyboard.EndFrame()
	is.mouse.EndFrame()
}

func (is *InputSystem) mouseEvent(ev Event) *core.MouseEvent {
	return &core.MouseEvent{
		Button: uint16(ev.Button),
		PosX:   int32(ev.X),
		PosY:   int32(ev.Y),
		Scroll: ev.WheelDelta,
	}
}

func (is *InputSystem) fire(code core.EventCode, data interface{}) {
	if is.bus == nil {
		return
	}
	is.bus.Fire(core.EventContext{
		Type:   code,
		Sender: is,
		Data:   data,
	})
}
