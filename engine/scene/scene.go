package scene

import (
	"fmt"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/input"
)

/**
 * @brief A flat list of game objects updated once per frame in insertion order.
 */
type Scene struct {
	Name    string
	objects []*GameObject
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

func (s *Scene) Add(o *GameObject) {
	if o == nil {
		return
	}
	s.objects = append(s.objects, o)
}

// Remove drops the object with the given ID. Returns false if it is not in the scene.
func (s *Scene) Remove(id string) bool {
	for i, o := range s.objects {
		if o.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first object called name.
func (s *Scene) Find(name string) (*GameObject, bool) {
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

func (s *Scene) Objects() []*GameObject {
	return append([]*GameObject(nil), s.objects...)
}

func (s *Scene) Count() int {
	return len(s.objects)
}

// Update runs every behaviour of every object. The first failing behaviour
// stops the frame.
func (s *Scene) Update(in *input.InputSystem, deltaTime float64) error {
	ctx := &UpdateContext{
		Input:     in,
		DeltaTime: deltaTime,
	}
	for _, o := range s.objects {
		if err := o.update(ctx); err != nil {
			core.LogError("scene '%s': object '%s' failed to update: %s", s.Name, o.Name, err)
			return fmt.Errorf("object '%s': %w", o.Name, err)
		}
	}
	return nil
}
