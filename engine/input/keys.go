package input

import (
	"fmt"
	"strings"
)

type Button uint16

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonMaxButtons
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("button(%d)", uint16(b))
}

// Key code definitions
type KeyCode uint16

const (
	KeyBackspace   KeyCode = 0x08
	KeyTab         KeyCode = 0x09
	KeyEnter       KeyCode = 0x0D
	KeyShift       KeyCode = 0x10
	KeyControl     KeyCode = 0x11
	KeyPause       KeyCode = 0x13
	KeyCapital     KeyCode = 0x14
	KeyEscape      KeyCode = 0x1B
	KeySpace       KeyCode = 0x20
	KeyPrior       KeyCode = 0x21
	KeyNext        KeyCode = 0x22
	KeyEnd         KeyCode = 0x23
	KeyHome        KeyCode = 0x24
	KeyLeft        KeyCode = 0x25
	KeyUp          KeyCode = 0x26
	KeyRight       KeyCode = 0x27
	KeyDown        KeyCode = 0x28
	KeyPrint       KeyCode = 0x2A
	KeySnapshot    KeyCode = 0x2C
	KeyInsert      KeyCode = 0x2D
	KeyDelete      KeyCode = 0x2E
	Key0           KeyCode = 0x30
	Key1           KeyCode = 0x31
	Key2           KeyCode = 0x32
	Key3           KeyCode = 0x33
	Key4           KeyCode = 0x34
	Key5           KeyCode = 0x35
	Key6           KeyCode = 0x36
	Key7           KeyCode = 0x37
	Key8           KeyCode = 0x38
	Key9           KeyCode = 0x39
	KeyA           KeyCode = 0x41
	KeyB           KeyCode = 0x42
	KeyC           KeyCode = 0x43
	KeyD           KeyCode = 0x44
	KeyE           KeyCode = 0x45
	KeyF           KeyCode = 0x46
	KeyG           KeyCode = 0x47
	KeyH           KeyCode = 0x48
	KeyI           KeyCode = 0x49
	KeyJ           KeyCode = 0x4A
	KeyK           KeyCode = 0x4B
	KeyL           KeyCode = 0x4C
	KeyM           KeyCode = 0x4D
	KeyN           KeyCode = 0x4E
	KeyO           KeyCode = 0x4F
	KeyP           KeyCode = 0x50
	KeyQ           KeyCode = 0x51
	KeyR           KeyCode = 0x52
	KeyS           KeyCode = 0x53
	KeyT           KeyCode = 0x54
	KeyU           KeyCode = 0x55
	KeyV           KeyCode = 0x56
	KeyW           KeyCode = 0x57
	KeyX           KeyCode = 0x58
	KeyY           KeyCode = 0x59
	KeyZ           KeyCode = 0x5A
	KeyLWin        KeyCode = 0x5B
	KeyRWin        KeyCode = 0x5C
	KeyApps        KeyCode = 0x5D
	KeyNumpad0     KeyCode = 0x60
	KeyNumpad1     KeyCode = 0x61
	KeyNumpad2     KeyCode = 0x62
	KeyNumpad3     KeyCode = 0x63
	KeyNumpad4     KeyCode = 0x64
	KeyNumpad5     KeyCode = 0x65
	KeyNumpad6     KeyCode = 0x66
	KeyNumpad7     KeyCode = 0x67
	KeyNumpad8     KeyCode = 0x68
	KeyNumpad9     KeyCode = 0x69
	KeyMultiply    KeyCode = 0x6A
	KeyAdd         KeyCode = 0x6B
	KeySeparator   KeyCode = 0x6C
	KeySubtract    KeyCode = 0x6D
	KeyDecimal     KeyCode = 0x6E
	KeyDivide      KeyCode = 0x6F
	KeyF1          KeyCode = 0x70
	KeyF2          KeyCode = 0x71
	KeyF3          KeyCode = 0x72
	KeyF4          KeyCode = 0x73
	KeyF5          KeyCode = 0x74
	KeyF6          KeyCode = 0x75
	KeyF7          KeyCode = 0x76
	KeyF8          KeyCode = 0x77
	KeyF9          KeyCode = 0x78
	KeyF10         KeyCode = 0x79
	KeyF11         KeyCode = 0x7A
	KeyF12         KeyCode = 0x7B
	KeyNumlock     KeyCode = 0x90
	KeyScroll      KeyCode = 0x91
	KeyNumpadEqual KeyCode = 0x92
	KeyLShift      KeyCode = 0xA0
	KeyRShift      KeyCode = 0xA1
	KeyLControl    KeyCode = 0xA2
	KeyRControl    KeyCode = 0xA3
	KeyLMenu       KeyCode = 0xA4
	KeyRMenu       KeyCode = 0xA5
	KeySemicolon   KeyCode = 0xBA
	KeyPlus        KeyCode = 0xBB
	KeyComma       KeyCode = 0xBC
	KeyMinus       KeyCode = 0xBD
	KeyPeriod      KeyCode = 0xBE
	KeySlash       KeyCode = 0xBF
	KeyGrave       KeyCode = 0xC0

	// Key codes are stored in a single byte.
	KeysMaxKeys KeyCode = 0x100
)

var (
	keyNames = map[string]KeyCode{
		"BACKSPACE": KeyBackspace,
		"TAB":       KeyTab,
		"ENTER":     KeyEnter,
		"SHIFT":     KeyShift,
		"CONTROL":   KeyControl,
		"ESCAPE":    KeyEscape,
		"SPACE":     KeySpace,
		"PAGEUP":    KeyPrior,
		"PAGEDOWN":  KeyNext,
		"END":       KeyEnd,
		"HOME":      KeyHome,
		"LEFT":      KeyLeft,
		"UP":        KeyUp,
		"RIGHT":     KeyRight,
		"DOWN":      KeyDown,
		"INSERT":    KeyInsert,
		"DELETE":    KeyDelete,
		"LSHIFT":    KeyLShift,
		"RSHIFT":    KeyRShift,
		"LCONTROL":  KeyLControl,
		"RCONTROL":  KeyRControl,
		"LALT":      KeyLMenu,
		"RALT":      KeyRMenu,
		"SEMICOLON": KeySemicolon,
		"PLUS":      KeyPlus,
		"COMMA":     KeyComma,
		"MINUS":     KeyMinus,
		"PERIOD":    KeyPeriod,
		"SLASH":     KeySlash,
		"GRAVE":     KeyGrave,
	}
	codeNames = map[KeyCode]string{}
)

func init() {
	for c := KeyA; c <= KeyZ; c++ {
		keyNames[string(rune(c))] = c
	}
	for c := Key0; c <= Key9; c++ {
		keyNames[string(rune(c))] = c
	}
	for i := 0; i < 12; i++ {
		keyNames[fmt.Sprintf("F%d", i+1)] = KeyF1 + KeyCode(i)
	}
	for i := 0; i < 10; i++ {
		keyNames[fmt.Sprintf("NUMPAD%d", i)] = KeyNumpad0 + KeyCode(i)
	}
	for name, code := range keyNames {
		codeNames[code] = name
	}
}

func (k KeyCode) String() string {
	if name, ok := codeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KeyCode(0x%02X)", uint16(k))
}

// KeyFromName looks up a key by the name used in configuration files ("W", "LEFT", "F5").
func KeyFromName(name string) (KeyCode, error) {
	if k, ok := keyNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key name '%s'", name)
}
