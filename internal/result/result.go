// Package result defines InputResult, the internal command language that
// flows between the mapping, tap-dance, combo, and layer stages on its way
// to the KeyAdapter's dispatcher.
package result

import "github.com/quillaja/remapd/internal/keycode"

// Kind discriminates the variant of a Result.
type Kind int

const (
	// None carries no further action; the event has been fully absorbed.
	None Kind = iota
	// Press emits a press for Code.
	Press
	// Hold emits a kernel auto-repeat for Code.
	Hold
	// Release emits a release for Code.
	Release
	// Pending marks Code as stalled: a decision stage asked the adapter
	// to hold further output on this code until it commits.
	Pending
	// Macro carries a macro to expand.
	Macro
	// Double bundles two results that must dispatch atomically, in
	// order.
	Double
	// Delay sleeps the engine thread for DelayMS milliseconds.
	Delay
)

// MacroPayload is the minimal interface a config.Macro value must satisfy to
// travel inside a Result without internal/result importing internal/config
// (which would create an import cycle, since config values are built from
// keycode.Code and macros are expanded back into Results).
type MacroPayload interface {
	// IsMacro is a marker method; implementations live in internal/config.
	IsMacro()
}

// Result is the tagged union described by spec.md's InputResult.
type Result struct {
	Kind    Kind
	Code    keycode.Code
	Macro   MacroPayload
	Double  [2]*Result
	DelayMS uint32
}

// NoneResult is the shared zero-effect result.
func NoneResult() Result { return Result{Kind: None} }

// PressResult builds a Press(code) result.
func PressResult(code keycode.Code) Result { return Result{Kind: Press, Code: code} }

// HoldResult builds a Hold(code) result.
func HoldResult(code keycode.Code) Result { return Result{Kind: Hold, Code: code} }

// ReleaseResult builds a Release(code) result.
func ReleaseResult(code keycode.Code) Result { return Result{Kind: Release, Code: code} }

// PendingResult builds a Pending(code) result.
func PendingResult(code keycode.Code) Result { return Result{Kind: Pending, Code: code} }

// MacroResult wraps a macro for expansion.
func MacroResult(m MacroPayload) Result { return Result{Kind: Macro, Macro: m} }

// DelayResult builds a Delay(ms) result.
func DelayResult(ms uint32) Result { return Result{Kind: Delay, DelayMS: ms} }

// DoubleResult bundles a and b so they dispatch together, in order.
func DoubleResult(a, b Result) Result {
	return Result{Kind: Double, Double: [2]*Result{&a, &b}}
}

// Tap is shorthand for the Press-then-Release pair emitted whenever a tap
// resolves (tap-dance taps, combo pass-throughs, macro key taps).
func Tap(code keycode.Code) Result {
	return DoubleResult(PressResult(code), ReleaseResult(code))
}
