package scene

import (
	"github.com/spaghettifunk/tessera/engine/input"
)

// UpdateContext is handed to every behaviour on every frame. Object is the
// game object that owns the behaviour being updated.
type UpdateContext struct {
	Input     *input.InputSystem
	DeltaTime float64
	Object    *GameObject
}

/**
 * @brief A unit of per frame logic attached to a GameObject.
 * Clone must return an independent copy, it is used when the owning object
 * is cloned.
 */
type Behaviour interface {
	Clone() Behaviour
	Update(ctx *UpdateContext) error
}

// BehaviourFunc adapts a plain function to a stateless Behaviour.
type BehaviourFunc func(ctx *UpdateContext) error

func (f BehaviourFunc) Clone() Behaviour {
	return f
}

func (f BehaviourFunc) Update(ctx *UpdateContext) error {
	return f(ctx)
}
