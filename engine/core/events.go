package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EventCodeApplicationQuit EventCode = 0x01

	// Keyboard key pressed. Data: *KeyEvent
	EventCodeKeyPressed EventCode = 0x02

	// Keyboard key released. Data: *KeyEvent
	EventCodeKeyReleased EventCode = 0x03

	// Mouse button pressed. Data: *MouseEvent
	EventCodeButtonPressed EventCode = 0x04

	// Mouse button released. Data: *MouseEvent
	EventCodeButtonReleased EventCode = 0x05

	// Mouse moved. Data: *MouseEvent with PosX/PosY
	EventCodeMouseMoved EventCode = 0x06

	// Mouse wheel scrolled. Data: *MouseEvent with Scroll
	EventCodeMouseWheel EventCode = 0x07

	// Resized/resolution changed from the OS. Data: *SystemEvent
	EventCodeResized EventCode = 0x08

	MaxEventCode EventCode = 0xFF
)

// This should be more than enough codes...
const MaxMessageCodes = 16384

type EventContext struct {
	Type   EventCode
	Sender interface{}
	Data   interface{}
}

type KeyEvent struct {
	KeyCode uint16
}

type MouseEvent struct {
	Button uint16
	PosX   int32
	PosY   int32
	Scroll int32
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches engine events synchronously to registered listeners.
type EventBus struct {
	mu         sync.RWMutex
	registered map[EventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

func (eb *EventBus) Shutdown() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	// Objects pointed to by listeners are destroyed on their own.
	eb.registered = make(map[EventCode][]*registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. A listener can only be
 * registered once per code; a duplicate registration returns false.
 */
func (eb *EventBus) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code >= MaxMessageCodes || onEvent == nil {
		return false
	}
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, e := range eb.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister a listener from the provided code. If no matching registration is found,
 * this returns false.
 */
func (eb *EventBus) Unregister(code EventCode, listener interface{}) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (eb *EventBus) Fire(context EventContext) bool {
	eb.mu.RLock()
	events := make([]*registeredEvent, len(eb.registered[context.Type]))
	copy(events, eb.registered[context.Type])
	eb.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
