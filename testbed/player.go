package testbed

import (
	"github.com/spaghettifunk/tessera/engine/input"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/scene"
)

// PlayerController moves its object on the XZ plane following the keyboard
// horizontal and vertical axes.
type PlayerController struct {
	// Units per second.
	Speed float32
}

func (p *PlayerController) Clone() scene.Behaviour {
	clone := *p
	return &clone
}

func (p *PlayerController) Update(ctx *scene.UpdateContext) error {
	if ctx.Input == nil || ctx.Object == nil {
		return nil
	}
	kb := ctx.Input.Keyboard()
	h := kb.GetAxis(input.AxisHorizontal)
	v := kb.GetAxis(input.AxisVertical)
	if h == 0 && v == 0 {
		return nil
	}
	step := p.Speed * float32(ctx.DeltaTime)
	ctx.Object.Transform.Translate(math.NewVec3(h*step, 0, v*step))
	return nil
}
