package input

// WheelDelta is the scroll amount of one wheel notch.
const WheelDelta int32 = 120

type EventType uint8

const (
	EventNone EventType = iota
	EventKeyDown
	EventKeyUp
	EventButtonDown
	EventButtonUp
	EventMouseMove
	EventMouseWheel
)

// Event is one raw input message delivered by the platform layer.
// Mouse events carry the pointer position at the time of the event.
type Event struct {
	Type       EventType
	Key        KeyCode
	Button     Button
	X          float32
	Y          float32
	WheelDelta int32
}

func (e Event) isKeyboard() bool {
	return e.Type == EventKeyDown || e.Type == EventKeyUp
}

func (e Event) isMouse() bool {
	switch e.Type {
	case EventButtonDown, EventButtonUp, EventMouseMove, EventMouseWheel:
		return true
	}
	return false
}
