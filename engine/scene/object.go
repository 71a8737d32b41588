package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/tessera/engine/math"
)

type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: math.NewVec3(1, 1, 1)}
}

func (t *Transform) Translate(v math.Vec3) {
	t.Position = t.Position.Add(v)
}

type GameObject struct {
	ID        string
	Name      string
	Transform Transform

	behaviours []Behaviour
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		ID:        uuid.NewString(),
		Name:      name,
		Transform: NewTransform(),
	}
}

// AddBehaviour attaches b to the object. Behaviours run in the order they
// were added.
func (o *GameObject) AddBehaviour(b Behaviour) {
	if b == nil {
		return
	}
	o.behaviours = append(o.behaviours, b)
}

func (o *GameObject) Behaviours() []Behaviour {
	return append([]Behaviour(nil), o.behaviours...)
}

// Clone copies the object with a fresh ID, cloning each behaviour.
func (o *GameObject) Clone() *GameObject {
	clone := &GameObject{
		ID:         uuid.NewString(),
		Name:       o.Name,
		Transform:  o.Transform,
		behaviours: make([]Behaviour, 0, len(o.behaviours)),
	}
	for _, b := range o.behaviours {
		clone.behaviours = append(clone.behaviours, b.Clone())
	}
	return clone
}

func (o *GameObject) update(ctx *UpdateContext) error {
	ctx.Object = o
	for _, b := range o.behaviours {
		if err := b.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}
