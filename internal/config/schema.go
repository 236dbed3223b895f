// Package config parses the YAML configuration surface documented in
// spec.md §6 into the immutable per-keyboard configuration spec.md §3
// describes, allocating custom key codes as it goes.
package config

import (
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

// File is the root of a parsed configuration document.
type File struct {
	Defaults  Defaults
	Keyboards []Keyboard
}

// Defaults holds the three defaulted groups spec.md §6 names.
type Defaults struct {
	TapDance TapDanceDefaults
	Combo    ComboDefaults
	General  GeneralDefaults
}

// TapDanceDefaults is the tap_dance.default_timeout default group.
type TapDanceDefaults struct {
	DefaultTimeout uint16
}

// ComboDefaults is the combo.default_threshold default group.
type ComboDefaults struct {
	DefaultThreshold uint16
}

// GeneralDefaults is the general default group.
type GeneralDefaults struct {
	EventPollTimeout   uint16
	DeferredKeyDelay   uint16
	UnicodeInputDelay  uint16
	MaximumLookupDepth uint8
}

// DefaultDefaults returns the default values applied when a
// configuration document omits the `defaults:` section or part of it.
func DefaultDefaults() Defaults {
	return Defaults{
		TapDance: TapDanceDefaults{DefaultTimeout: DefaultTapDanceTimeout},
		Combo:    ComboDefaults{DefaultThreshold: DefaultComboThreshold},
		General: GeneralDefaults{
			EventPollTimeout:   DefaultEventPollTimeout,
			DeferredKeyDelay:   DefaultDeferredKeyDelay,
			UnicodeInputDelay:  DefaultUnicodeInputDelay,
			MaximumLookupDepth: DefaultMaximumLookupDepth,
		},
	}
}

// Keyboard is one entry of the `keyboards:` list: everything needed to
// build a KeyAdapter for a single physical device.
type Keyboard struct {
	Name      string
	Keys      map[keycode.Code]KeyAction
	Combos    []ComboDefinition
	TapDances map[keycode.Code]TapDanceDefinition
	Layers    map[string]LayerDefinition
}

// ComboDefinition is one entry of `combos:`.
type ComboDefinition struct {
	Keys   []keycode.Code
	Action KeyAction
}

// TapDanceDefinition is one value of `tap_dances:`.
type TapDanceDefinition struct {
	Timeout *uint16
	Tap     KeyAction
	Hold    KeyAction
}

// LayerKind is the activation discipline of a layer (spec.md §4.6).
type LayerKind int

const (
	Momentary LayerKind = iota
	Toggle
	OneShot
)

// LayerModifier is the `modifier:` field of a layer: either a bare key
// code (momentary by default) or `{key, type}`.
type LayerModifier struct {
	Key  keycode.Code
	Kind LayerKind
}

// LayerDefinition is one value of `layers:`.
type LayerDefinition struct {
	Modifier LayerModifier
	Keys     map[keycode.Code]KeyAction
}

// KeyAction is either a single KeyCode remap target or a Macro, matching
// spec.md §3's untagged union.
type KeyAction struct {
	Code    keycode.Code
	Macro   Macro
	IsMacro bool
}

// CodeAction builds an identity/remap KeyAction targeting code.
func CodeAction(code keycode.Code) KeyAction { return KeyAction{Code: code} }

// MacroAction builds a macro KeyAction.
func MacroAction(m Macro) KeyAction { return KeyAction{Macro: m, IsMacro: true} }

// Macro is an ordered sequence of one or more EventMacro steps. A single
// EventMacro in the YAML source (not wrapped in a list) decodes to a
// one-element Macro.
type Macro struct {
	Events []EventMacro
}

// IsMacro implements result.MacroPayload so a Macro can travel inside a
// result.Result without internal/result depending on internal/config.
func (Macro) IsMacro() {}

var _ result.MacroPayload = Macro{}

// EventMacroKind discriminates the nine EventMacro shapes spec.md §3
// lists.
type EventMacroKind int

const (
	EventTap EventMacroKind = iota
	EventPress
	EventHold
	EventRelease
	EventDelay
	EventString
	EventEnv
	EventUnicode
	EventShell
)

// EventMacro is one step of a Macro.
type EventMacro struct {
	Kind    EventMacroKind
	Code    keycode.Code // Tap, Press, Hold, Release
	DelayMS uint32       // Delay
	Text    string       // String, Env (var name), Unicode, Shell (command)
	Trim    bool         // Shell
}
