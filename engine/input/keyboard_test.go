package input

import "testing"

func TestKeyboardEdgeFlags(t *testing.T) {
	k := NewKeyboard()

	k.Process(Event{Type: EventKeyDown, Key: KeySpace})
	if !k.IsPressed(KeySpace) || !k.IsHeld(KeySpace) || k.IsReleased(KeySpace) {
		t.Fatalf("after down expected pressed+held, got %+v", k.State(KeySpace))
	}

	k.EndFrame()
	if k.IsPressed(KeySpace) {
		t.Error("pressed should be cleared by EndFrame")
	}
	if !k.IsHeld(KeySpace) {
		t.Error("held should persist until key-up")
	}

	// Auto-repeat delivers extra key-down messages while held.
	k.Process(Event{Type: EventKeyDown, Key: KeySpace})
	if k.IsPressed(KeySpace) {
		t.Error("repeated key-down must not raise pressed")
	}

	k.Process(Event{Type: EventKeyUp, Key: KeySpace})
	if k.IsHeld(KeySpace) || !k.IsReleased(KeySpace) {
		t.Errorf("after up expected released, got %+v", k.State(KeySpace))
	}
	k.EndFrame()
	if s := k.State(KeySpace); s != (ButtonState{}) {
		t.Errorf("expected clean state, got %+v", s)
	}
}

func TestKeyboardAxis(t *testing.T) {
	k := NewKeyboard()

	if got := k.GetAxis(AxisHorizontal); got != 0 {
		t.Errorf("expected 0 with nothing held, got %f", got)
	}

	k.Process(Event{Type: EventKeyDown, Key: KeyD})
	if got := k.GetAxis(AxisHorizontal); got != 1 {
		t.Errorf("expected +1 holding D, got %f", got)
	}

	k.Process(Event{Type: EventKeyUp, Key: KeyD})
	if got := k.GetAxis(AxisHorizontal); got != 0 {
		t.Errorf("expected 0 after release, got %f", got)
	}

	k.Process(Event{Type: EventKeyDown, Key: KeyDown})
	if got := k.GetAxis(AxisVertical); got != -1 {
		t.Errorf("expected -1 holding DOWN, got %f", got)
	}
}

func TestKeyboardAxisTieBreak(t *testing.T) {
	tests := []struct {
		name  string
		order []KeyCode
	}{
		{"positive first", []KeyCode{KeyW, KeyS}},
		{"negative first", []KeyCode{KeyS, KeyW}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyboard()
			for _, key := range tt.order {
				k.Process(Event{Type: EventKeyDown, Key: key})
			}
			if got := k.GetAxis(AxisVertical); got != 1 {
				t.Errorf("expected positive direction to win, got %f", got)
			}
		})
	}
}

func TestKeyboardCustomBinding(t *testing.T) {
	k := NewKeyboard()
	k.SetAxisBinding(AxisHorizontal, AxisBinding{
		Positive: []KeyCode{KeyL},
		Negative: []KeyCode{KeyJ},
	})
	k.Process(Event{Type: EventKeyDown, Key: KeyD})
	if got := k.GetAxis(AxisHorizontal); got != 0 {
		t.Errorf("expected old binding to be gone, got %f", got)
	}
	k.Process(Event{Type: EventKeyDown, Key: KeyJ})
	if got := k.GetAxis(AxisHorizontal); got != -1 {
		t.Errorf("expected -1 holding J, got %f", got)
	}
	if got := k.GetAxis(Axis(42)); got != 0 {
		t.Errorf("expected unknown axis to read 0, got %f", got)
	}
}

func TestKeyboardIgnoresMouseEvents(t *testing.T) {
	k := NewKeyboard()
	if _, ok := k.Process(Event{Type: EventButtonDown, Button: ButtonLeft}); ok {
		t.Error("expected mouse event to be rejected")
	}
	if _, ok := k.Process(Event{Type: EventKeyDown, Key: KeysMaxKeys + 1}); ok {
		t.Error("expected out of range key to be rejected")
	}
	if k.IsHeld(KeysMaxKeys + 1) {
		t.Error("out of range key must read as up")
	}
}

func TestKeyFromName(t *testing.T) {
	tests := map[string]KeyCode{
		"w":       KeyW,
		"LEFT":    KeyLeft,
		" space ": KeySpace,
		"F5":      KeyF5,
		"7":       Key7,
		"numpad3": KeyNumpad3,
	}
	for name, want := range tests {
		got, err := KeyFromName(name)
		if err != nil {
			t.Errorf("KeyFromName(%q) unexpected error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("KeyFromName(%q) = %#x, want %#x", name, got, want)
		}
	}
	if _, err := KeyFromName("hyper"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestKeyCodeString(t *testing.T) {
	cases := map[KeyCode]string{
		KeyEscape:     "ESCAPE",
		KeyW:          "W",
		KeyF5:         "F5",
		KeyNumpad3:    "NUMPAD3",
		KeyCode(0xFF): "KeyCode(0xFF)",
	}
	for code, expected := range cases {
		if got := code.String(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	}
}
