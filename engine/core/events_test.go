package core

import "testing"

func TestEventBusFireStopsAtFirstHandler(t *testing.T) {
	eb := NewEventBus()
	calls := []string{}

	first, second := "first", "second"
	eb.Register(EventCodeKeyPressed, first, func(ctx EventContext) bool {
		calls = append(calls, first)
		return true
	})
	eb.Register(EventCodeKeyPressed, second, func(ctx EventContext) bool {
		calls = append(calls, second)
		return false
	})

	if !eb.Fire(EventContext{Type: EventCodeKeyPressed}) {
		t.Error("expected event to be handled")
	}
	if len(calls) != 1 || calls[0] != first {
		t.Errorf("expected only the first listener to run, got %v", calls)
	}
}

func TestEventBusDuplicateRegistration(t *testing.T) {
	eb := NewEventBus()
	listener := &struct{}{}
	cb := func(ctx EventContext) bool { return false }

	if !eb.Register(EventCodeResized, listener, cb) {
		t.Fatal("expected first registration to succeed")
	}
	if eb.Register(EventCodeResized, listener, cb) {
		t.Error("expected duplicate registration to be rejected")
	}
}

func TestEventBusUnregister(t *testing.T) {
	eb := NewEventBus()
	listener := &struct{}{}
	called := 0
	eb.Register(EventCodeMouseWheel, listener, func(ctx EventContext) bool {
		called++
		return true
	})

	if !eb.Unregister(EventCodeMouseWheel, listener) {
		t.Fatal("expected unregister to find the listener")
	}
	if eb.Unregister(EventCodeMouseWheel, listener) {
		t.Error("expected second unregister to fail")
	}
	if eb.Fire(EventContext{Type: EventCodeMouseWheel}) {
		t.Error("expected no listener to handle the event")
	}
	if called != 0 {
		t.Errorf("expected callback not to run, ran %d times", called)
	}
}

func TestEventBusPassesData(t *testing.T) {
	eb := NewEventBus()
	var got uint16
	eb.Register(EventCodeKeyReleased, nil, func(ctx EventContext) bool {
		got = ctx.Data.(*KeyEvent).KeyCode
		return true
	})
	eb.Fire(EventContext{Type: EventCodeKeyReleased, Data: &KeyEvent{KeyCode: 0x41}})
	if got != 0x41 {
		t.Errorf("expected key code 0x41, got %#x", got)
	}
}
