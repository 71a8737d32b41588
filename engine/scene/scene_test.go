package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/tessera/engine/math"
)

type counter struct {
	calls int
	order *[]string
	tag   string
}

func (c *counter) Clone() Behaviour {
	clone := *c
	clone.calls = 0
	return &clone
}

func (c *counter) Update(ctx *UpdateContext) error {
	c.calls++
	if c.order != nil {
		*c.order = append(*c.order, ctx.Object.Name+"/"+c.tag)
	}
	return nil
}

func TestSceneUpdatesInInsertionOrder(t *testing.T) {
	order := []string{}
	s := New("test")
	for _, name := range []string{"b", "a", "c"} {
		o := NewGameObject(name)
		o.AddBehaviour(&counter{order: &order, tag: "1"})
		o.AddBehaviour(&counter{order: &order, tag: "2"})
		s.Add(o)
	}

	if err := s.Update(nil, 0.016); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"b/1", "b/2", "a/1", "a/2", "c/1", "c/2"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, order)
			break
		}
	}
}

func TestSceneUpdateStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s := New("test")

	failing := NewGameObject("failing")
	failing.AddBehaviour(BehaviourFunc(func(ctx *UpdateContext) error { return boom }))
	s.Add(failing)

	after := &counter{}
	next := NewGameObject("next")
	next.AddBehaviour(after)
	s.Add(next)

	err := s.Update(nil, 0)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
	if after.calls != 0 {
		t.Errorf("expected later objects not to update, got %d calls", after.calls)
	}
}

func TestGameObjectCloneIsDeep(t *testing.T) {
	o := NewGameObject("player")
	o.Transform.Translate(math.NewVec3(1, 2, 3))
	original := &counter{}
	o.AddBehaviour(original)

	clone := o.Clone()
	if clone.ID == o.ID {
		t.Errorf("expected a fresh ID for the clone")
	}
	if clone.Transform.Position != o.Transform.Position {
		t.Errorf("expected position %v, got %v", o.Transform.Position, clone.Transform.Position)
	}

	s := New("test")
	s.Add(clone)
	if err := s.Update(nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if original.calls != 0 {
		t.Errorf("expected the original behaviour untouched, got %d calls", original.calls)
	}
	cloned := clone.Behaviours()[0].(*counter)
	if cloned.calls != 1 {
		t.Errorf("expected the cloned behaviour to run once, got %d", cloned.calls)
	}

	clone.Transform.Translate(math.NewVec3(1, 0, 0))
	if o.Transform.Position.X != 1 {
		t.Errorf("expected the original transform untouched, got %v", o.Transform.Position)
	}
}

func TestSceneFindAndRemove(t *testing.T) {
	s := New("test")
	a := NewGameObject("a")
	b := NewGameObject("b")
	s.Add(a)
	s.Add(b)
	s.Add(nil)

	if s.Count() != 2 {
		t.Fatalf("expected 2 objects, got %d", s.Count())
	}
	if got, ok := s.Find("b"); !ok || got != b {
		t.Errorf("expected to find b")
	}
	if !s.Remove(a.ID) {
		t.Errorf("expected a to be removed")
	}
	if s.Remove(a.ID) {
		t.Errorf("expected second remove to fail")
	}
	if _, ok := s.Find("a"); ok {
		t.Errorf("expected a to be gone")
	}
}
