package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/tessera/engine/input"
)

var keymap = map[glfw.Key]input.KeyCode{
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeyTab:          input.KeyTab,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyPause:        input.KeyPause,
	glfw.KeyCapsLock:     input.KeyCapital,
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyPageUp:       input.KeyPrior,
	glfw.KeyPageDown:     input.KeyNext,
	glfw.KeyEnd:          input.KeyEnd,
	glfw.KeyHome:         input.KeyHome,
	glfw.KeyLeft:         input.KeyLeft,
	glfw.KeyUp:           input.KeyUp,
	glfw.KeyRight:        input.KeyRight,
	glfw.KeyDown:         input.KeyDown,
	glfw.KeyPrintScreen:  input.KeySnapshot,
	glfw.KeyInsert:       input.KeyInsert,
	glfw.KeyDelete:       input.KeyDelete,
	glfw.KeyLeftSuper:    input.KeyLWin,
	glfw.KeyRightSuper:   input.KeyRWin,
	glfw.KeyMenu:         input.KeyApps,
	glfw.KeyKPMultiply:   input.KeyMultiply,
	glfw.KeyKPAdd:        input.KeyAdd,
	glfw.KeyKPSubtract:   input.KeySubtract,
	glfw.KeyKPDecimal:    input.KeyDecimal,
	glfw.KeyKPDivide:     input.KeyDivide,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyKPEqual:      input.KeyNumpadEqual,
	glfw.KeyNumLock:      input.KeyNumlock,
	glfw.KeyScrollLock:   input.KeyScroll,
	glfw.KeyLeftShift:    input.KeyLShift,
	glfw.KeyRightShift:   input.KeyRShift,
	glfw.KeyLeftControl:  input.KeyLControl,
	glfw.KeyRightControl: input.KeyRControl,
	glfw.KeyLeftAlt:      input.KeyLMenu,
	glfw.KeyRightAlt:     input.KeyRMenu,
	glfw.KeySemicolon:    input.KeySemicolon,
	glfw.KeyEqual:        input.KeyPlus,
	glfw.KeyComma:        input.KeyComma,
	glfw.KeyMinus:        input.KeyMinus,
	glfw.KeyPeriod:       input.KeyPeriod,
	glfw.KeySlash:        input.KeySlash,
	glfw.KeyGraveAccent:  input.KeyGrave,
}

func init() {
	for k := glfw.KeyA; k <= glfw.KeyZ; k++ {
		keymap[k] = input.KeyA + input.KeyCode(k-glfw.KeyA)
	}
	for k := glfw.Key0; k <= glfw.Key9; k++ {
		keymap[k] = input.Key0 + input.KeyCode(k-glfw.Key0)
	}
	for k := glfw.KeyKP0; k <= glfw.KeyKP9; k++ {
		keymap[k] = input.KeyNumpad0 + input.KeyCode(k-glfw.KeyKP0)
	}
	for k := glfw.KeyF1; k <= glfw.KeyF12; k++ {
		keymap[k] = input.KeyF1 + input.KeyCode(k-glfw.KeyF1)
	}
}

func translateKey(key glfw.Key) (input.KeyCode, bool) {
	code, ok := keymap[key]
	return code, ok
}

func translateButton(button glfw.MouseButton) (input.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return input.ButtonLeft, true
	case glfw.MouseButtonRight:
		return input.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle, true
	}
	return 0, false
}
