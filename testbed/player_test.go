package testbed

import (
	"testing"

	"github.com/spaghettifunk/tessera/engine/input"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/scene"
)

func newInput(t *testing.T) *input.InputSystem {
	t.Helper()
	is := input.NewInputSystem(nil)
	if err := is.Initialize(); err != nil {
		t.Fatal(err)
	}
	return is
}

func TestPlayerControllerFollowsAxes(t *testing.T) {
	in := newInput(t)
	s := scene.New("test")
	player := scene.NewGameObject("player")
	player.AddBehaviour(&PlayerController{Speed: 2})
	s.Add(player)

	in.Process(input.Event{Type: input.EventKeyDown, Key: input.KeyD})
	in.Process(input.Event{Type: input.EventKeyDown, Key: input.KeyS})
	if err := s.Update(in, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := math.NewVec3(1, 0, -1)
	if player.Transform.Position != expected {
		t.Errorf("expected %v, got %v", expected, player.Transform.Position)
	}

	// Held keys keep moving the player on the next frame.
	in.EndFrame()
	if err := s.Update(in, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = math.NewVec3(2, 0, -2)
	if player.Transform.Position != expected {
		t.Errorf("expected %v, got %v", expected, player.Transform.Position)
	}

	in.Process(input.Event{Type: input.EventKeyUp, Key: input.KeyD})
	in.Process(input.Event{Type: input.EventKeyUp, Key: input.KeyS})
	in.EndFrame()
	if err := s.Update(in, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if player.Transform.Position != expected {
		t.Errorf("expected the player to stop at %v, got %v", expected, player.Transform.Position)
	}
}

func TestPlayerControllerClone(t *testing.T) {
	original := &PlayerController{Speed: 3}
	clone := original.Clone().(*PlayerController)
	clone.Speed = 5
	if original.Speed != 3 {
		t.Errorf("expected the original untouched, got speed %v", original.Speed)
	}
}
