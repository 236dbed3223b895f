package config

import "github.com/quillaja/remapd/internal/keycode"

// kernelKeys maps kernel KEY_* names to their physical keycode.Code, the
// tokens a configuration is allowed to use directly.
var kernelKeys = map[string]keycode.Code{
	"KEY_ESC":        keycode.KeyESC,
	"KEY_1":          keycode.Key1,
	"KEY_2":          keycode.Key2,
	"KEY_3":          keycode.Key3,
	"KEY_4":          keycode.Key4,
	"KEY_5":          keycode.Key5,
	"KEY_6":          keycode.Key6,
	"KEY_7":          keycode.Key7,
	"KEY_8":          keycode.Key8,
	"KEY_9":          keycode.Key9,
	"KEY_0":          keycode.Key0,
	"KEY_MINUS":      keycode.KeyMinus,
	"KEY_EQUAL":      keycode.KeyEqual,
	"KEY_BACKSPACE":  keycode.KeyBackspace,
	"KEY_TAB":        keycode.KeyTab,
	"KEY_Q":          keycode.KeyQ,
	"KEY_W":          keycode.KeyW,
	"KEY_E":          keycode.KeyE,
	"KEY_R":          keycode.KeyR,
	"KEY_T":          keycode.KeyT,
	"KEY_Y":          keycode.KeyY,
	"KEY_U":          keycode.KeyU,
	"KEY_I":          keycode.KeyI,
	"KEY_O":          keycode.KeyO,
	"KEY_P":          keycode.KeyP,
	"KEY_LEFTBRACE":  keycode.KeyLeftBrace,
	"KEY_RIGHTBRACE": keycode.KeyRightBrace,
	"KEY_ENTER":      keycode.KeyEnter,
	"KEY_LEFTCTRL":   keycode.KeyLeftCtrl,
	"KEY_A":          keycode.KeyA,
	"KEY_S":          keycode.KeyS,
	"KEY_D":          keycode.KeyD,
	"KEY_F":          keycode.KeyF,
	"KEY_G":          keycode.KeyG,
	"KEY_H":          keycode.KeyH,
	"KEY_J":          keycode.KeyJ,
	"KEY_K":          keycode.KeyK,
	"KEY_L":          keycode.KeyL,
	"KEY_SEMICOLON":  keycode.KeySemicolon,
	"KEY_APOSTROPHE": keycode.KeyApostrophe,
	"KEY_GRAVE":      keycode.KeyGrave,
	"KEY_LEFTSHIFT":  keycode.KeyLeftShift,
	"KEY_BACKSLASH":  keycode.KeyBackslash,
	"KEY_Z":          keycode.KeyZ,
	"KEY_X":          keycode.KeyX,
	"KEY_C":          keycode.KeyC,
	"KEY_V":          keycode.KeyV,
	"KEY_B":          keycode.KeyB,
	"KEY_N":          keycode.KeyN,
	"KEY_M":          keycode.KeyM,
	"KEY_COMMA":      keycode.KeyComma,
	"KEY_DOT":        keycode.KeyDot,
	"KEY_SLASH":      keycode.KeySlash,
	"KEY_RIGHTSHIFT": keycode.KeyRightShift,
	"KEY_KPASTERISK": keycode.KeyKPAsterisk,
	"KEY_LEFTALT":    keycode.KeyLeftAlt,
	"KEY_SPACE":      keycode.KeySpace,
	"KEY_CAPSLOCK":   keycode.KeyCapsLock,
	"KEY_F1":         keycode.KeyF1,
	"KEY_F2":         keycode.KeyF2,
	"KEY_F3":         keycode.KeyF3,
	"KEY_F4":         keycode.KeyF4,
	"KEY_F5":         keycode.KeyF5,
	"KEY_F6":         keycode.KeyF6,
	"KEY_F7":         keycode.KeyF7,
	"KEY_F8":         keycode.KeyF8,
	"KEY_F9":         keycode.KeyF9,
	"KEY_F10":        keycode.KeyF10,
	"KEY_NUMLOCK":    keycode.KeyNumLock,
	"KEY_SCROLLLOCK": keycode.KeyScrollLock,
	"KEY_KP7":        keycode.KeyKP7,
	"KEY_KP8":        keycode.KeyKP8,
	"KEY_KP9":        keycode.KeyKP9,
	"KEY_KPMINUS":    keycode.KeyKPMinus,
	"KEY_KP4":        keycode.KeyKP4,
	"KEY_KP5":        keycode.KeyKP5,
	"KEY_KP6":        keycode.KeyKP6,
	"KEY_KPPLUS":     keycode.KeyKPPlus,
	"KEY_KP1":        keycode.KeyKP1,
	"KEY_KP2":        keycode.KeyKP2,
	"KEY_KP3":        keycode.KeyKP3,
	"KEY_KP0":        keycode.KeyKP0,
	"KEY_KPDOT":      keycode.KeyKPDot,
	"KEY_F11":        keycode.KeyF11,
	"KEY_F12":        keycode.KeyF12,
	"KEY_KPENTER":    keycode.KeyKPEnter,
	"KEY_RIGHTCTRL":  keycode.KeyRightCtrl,
	"KEY_KPSLASH":    keycode.KeyKPSlash,
	"KEY_RIGHTALT":   keycode.KeyRightAlt,
	"KEY_HOME":       keycode.KeyHome,
	"KEY_UP":         keycode.KeyUp,
	"KEY_PAGEUP":     keycode.KeyPageUp,
	"KEY_LEFT":       keycode.KeyLeft,
	"KEY_RIGHT":      keycode.KeyRight,
	"KEY_END":        keycode.KeyEnd,
	"KEY_DOWN":       keycode.KeyDown,
	"KEY_PAGEDOWN":   keycode.KeyPageDown,
	"KEY_INSERT":     keycode.KeyInsert,
	"KEY_DELETE":     keycode.KeyDelete,
	"KEY_LEFTMETA":   keycode.KeyLeftMeta,
	"KEY_RIGHTMETA":  keycode.KeyRightMeta,
}

// shiftedAlias returns the shifted pseudo-code for the physical key at
// base.
func shiftedAlias(base keycode.Code) keycode.Code { return keycode.ShiftedBase + base }

// shiftedKeys maps the fixed set of shifted aliases spec.md §1/glossary
// mentions ("e.g. KEY_EXCLAMATION, KEY_AT, …") to their shifted
// pseudo-codes.
var shiftedKeys = map[string]keycode.Code{
	"KEY_EXCLAMATION":  shiftedAlias(keycode.Key1),
	"KEY_AT":           shiftedAlias(keycode.Key2),
	"KEY_HASH":         shiftedAlias(keycode.Key3),
	"KEY_DOLLAR":       shiftedAlias(keycode.Key4),
	"KEY_PERCENT":      shiftedAlias(keycode.Key5),
	"KEY_CARET":        shiftedAlias(keycode.Key6),
	"KEY_AMPERSAND":    shiftedAlias(keycode.Key7),
	"KEY_ASTERISK":     shiftedAlias(keycode.Key8),
	"KEY_LEFTPAREN":    shiftedAlias(keycode.Key9),
	"KEY_RIGHTPAREN":   shiftedAlias(keycode.Key0),
	"KEY_UNDERSCORE":   shiftedAlias(keycode.KeyMinus),
	"KEY_PLUS":         shiftedAlias(keycode.KeyEqual),
	"KEY_LEFTCURLY":    shiftedAlias(keycode.KeyLeftBrace),
	"KEY_RIGHTCURLY":   shiftedAlias(keycode.KeyRightBrace),
	"KEY_COLON":        shiftedAlias(keycode.KeySemicolon),
	"KEY_DOUBLEQUOTE":  shiftedAlias(keycode.KeyApostrophe),
	"KEY_TILDE":        shiftedAlias(keycode.KeyGrave),
	"KEY_PIPE":         shiftedAlias(keycode.KeyBackslash),
	"KEY_LESS":         shiftedAlias(keycode.KeyComma),
	"KEY_GREATER":      shiftedAlias(keycode.KeyDot),
	"KEY_QUESTION":     shiftedAlias(keycode.KeySlash),
}

// lookupKernelOrShifted resolves a token against the kernel key name table
// and the shifted-alias table, in that order.
func lookupKernelOrShifted(token string) (keycode.Code, bool) {
	if code, ok := kernelKeys[token]; ok {
		return code, true
	}
	if code, ok := shiftedKeys[token]; ok {
		return code, true
	}
	return 0, false
}
