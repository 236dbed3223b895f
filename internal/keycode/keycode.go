// Package keycode defines the extended key-code space used throughout the
// remapping engine: physical kernel codes, shifted pseudo-codes, and
// custom codes allocated for user-named symbols that have no kernel
// representation.
//
// The numbering mirrors the Linux kernel's input-event-codes.h for the
// physical range, then reserves [ShiftedBase, CustomBase) for "physical key
// X held while Shift is held" pseudo-codes, and [CustomBase, ...) for
// symbols the configuration invents.
package keycode

// Code is a key code in the extended space: a physical kernel code
// (0-799), a shifted pseudo-code (800-998), or a custom code (999+).
type Code uint16

const (
	// ShiftedBase is the first code in the shifted pseudo-code range.
	ShiftedBase Code = 800
	// CustomBase is the first code in the custom code range. Codes at or
	// above this value never reach the sink; they exist only inside the
	// engine as remap targets.
	CustomBase Code = 999
)

// Value returns the raw numeric code.
func (c Code) Value() uint16 { return uint16(c) }

// IsShifted reports whether c denotes a physical key tapped with Shift
// held.
func (c Code) IsShifted() bool { return c >= ShiftedBase && c < CustomBase }

// IsCustom reports whether c is a user-allocated symbol with no kernel
// representation.
func (c Code) IsCustom() bool { return c >= CustomBase }

// Unshift maps a shifted pseudo-code back to the physical code it shifts.
// Codes outside the shifted range are returned unchanged.
func (c Code) Unshift() Code {
	if c.IsShifted() {
		return c - ShiftedBase
	}
	return c
}

// Kind is one of the three kernel key-state transitions. The numeric
// values match the kernel's EV_KEY value field so conversion is a direct
// cast.
type Kind int32

const (
	Release Kind = 0
	Press   Kind = 1
	Hold    Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Hold:
		return "Hold"
	case Release:
		return "Release"
	default:
		return "Unknown"
	}
}

// KindFromValue converts a raw kernel EV_KEY value into a Kind. ok is
// false for any value other than 0, 1, or 2.
func KindFromValue(value int32) (kind Kind, ok bool) {
	switch value {
	case 0, 1, 2:
		return Kind(value), true
	default:
		return 0, false
	}
}

// Event is a single key-state transition. It carries no timestamp.
type Event struct {
	Code Code
	Kind Kind
}

// Physical key codes from the kernel's input-event-codes.h, adapted from
// quillaja-kbd's KeyCode const block. internal/config's kernel name table
// and internal/macro's US-layout character table both reference these
// constants directly instead of each keeping their own copy of the
// numbering.
const (
	KeyReserved   Code = 0
	KeyESC        Code = 1
	Key1          Code = 2
	Key2          Code = 3
	Key3          Code = 4
	Key4          Code = 5
	Key5          Code = 6
	Key6          Code = 7
	Key7          Code = 8
	Key8          Code = 9
	Key9          Code = 10
	Key0          Code = 11
	KeyMinus      Code = 12
	KeyEqual      Code = 13
	KeyBackspace  Code = 14
	KeyTab        Code = 15
	KeyQ          Code = 16
	KeyW          Code = 17
	KeyE          Code = 18
	KeyR          Code = 19
	KeyT          Code = 20
	KeyY          Code = 21
	KeyU          Code = 22
	KeyI          Code = 23
	KeyO          Code = 24
	KeyP          Code = 25
	KeyLeftBrace  Code = 26
	KeyRightBrace Code = 27
	KeyEnter      Code = 28
	KeyLeftCtrl   Code = 29
	KeyA          Code = 30
	KeyS          Code = 31
	KeyD          Code = 32
	KeyF          Code = 33
	KeyG          Code = 34
	KeyH          Code = 35
	KeyJ          Code = 36
	KeyK          Code = 37
	KeyL          Code = 38
	KeySemicolon  Code = 39
	KeyApostrophe Code = 40
	KeyGrave      Code = 41
	KeyLeftShift  Code = 42
	KeyBackslash  Code = 43
	KeyZ          Code = 44
	KeyX          Code = 45
	KeyC          Code = 46
	KeyV          Code = 47
	KeyB          Code = 48
	KeyN          Code = 49
	KeyM          Code = 50
	KeyComma      Code = 51
	KeyDot        Code = 52
	KeySlash      Code = 53
	KeyRightShift Code = 54
	KeyKPAsterisk Code = 55
	KeyLeftAlt    Code = 56
	KeySpace      Code = 57
	KeyCapsLock   Code = 58
	KeyF1         Code = 59
	KeyF2         Code = 60
	KeyF3         Code = 61
	KeyF4         Code = 62
	KeyF5         Code = 63
	KeyF6         Code = 64
	KeyF7         Code = 65
	KeyF8         Code = 66
	KeyF9         Code = 67
	KeyF10        Code = 68
	KeyNumLock    Code = 69
	KeyScrollLock Code = 70
	KeyKP7        Code = 71
	KeyKP8        Code = 72
	KeyKP9        Code = 73
	KeyKPMinus    Code = 74
	KeyKP4        Code = 75
	KeyKP5        Code = 76
	KeyKP6        Code = 77
	KeyKPPlus     Code = 78
	KeyKP1        Code = 79
	KeyKP2        Code = 80
	KeyKP3        Code = 81
	KeyKP0        Code = 82
	KeyKPDot      Code = 83
	KeyF11        Code = 87
	KeyF12        Code = 88
	KeyKPEnter    Code = 96
	KeyRightCtrl  Code = 97
	KeyKPSlash    Code = 98
	KeyRightAlt   Code = 100
	KeyHome       Code = 102
	KeyUp         Code = 103
	KeyPageUp     Code = 104
	KeyLeft       Code = 105
	KeyRight      Code = 106
	KeyEnd        Code = 107
	KeyDown       Code = 108
	KeyPageDown   Code = 109
	KeyInsert     Code = 110
	KeyDelete     Code = 111
	KeyLeftMeta   Code = 125
	KeyRightMeta  Code = 126
)
