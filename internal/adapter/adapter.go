// Package adapter implements KeyAdapter (spec.md §4.8): the per-keyboard
// pipeline that chains MappingManager, TapDanceManager, ComboManager, and
// LayerManager decisions, expands macros, and dispatches the resulting
// physical key events through an EventProxy (spec.md §4.9).
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillaja/remapd/internal/buffer"
	"github.com/quillaja/remapd/internal/combo"
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/layer"
	"github.com/quillaja/remapd/internal/macro"
	"github.com/quillaja/remapd/internal/mapping"
	"github.com/quillaja/remapd/internal/result"
	"github.com/quillaja/remapd/internal/tapdance"
)

// EventProxy is the boundary between the decision pipeline and whatever
// reads/writes physical key events (spec.md §4.9). The production
// implementation is internal/proxy's evdev/uinput adapter; tests use a
// mock that records emitted events.
type EventProxy interface {
	// Wait blocks up to timeout for the next batch of events to become
	// readable, returning false on a timeout with no error.
	Wait(timeout time.Duration) (bool, error)
	// FetchEvents drains whatever physical events are currently ready.
	FetchEvents() ([]keycode.Event, error)
	// Emit writes synthetic events to the virtual output device, in order.
	Emit(events []keycode.Event) error
}

// Adapter runs the full decision pipeline for one configured keyboard.
type Adapter struct {
	name string

	mapping  *mapping.Manager
	tapDance *tapdance.Manager
	combo    *combo.Manager
	layer    *layer.Manager
	macro    *macro.Expander

	buf   *buffer.InputBuffer
	proxy EventProxy
	log   *slog.Logger

	plainPressed  map[keycode.Code]config.KeyAction
	maxDepth      uint8
	deferredDelay time.Duration
	pollTimeout   time.Duration
}

// New builds an Adapter for one configured keyboard.
func New(kb config.Keyboard, defaults config.Defaults, proxy EventProxy, log *slog.Logger) *Adapter {
	return &Adapter{
		name:          kb.Name,
		mapping:       mapping.New(kb.Keys),
		tapDance:      tapdance.New(kb.TapDances, defaults.TapDance.DefaultTimeout),
		combo:         combo.New(kb.Combos, defaults.Combo.DefaultThreshold),
		layer:         layer.New(kb.Layers),
		macro:         macro.New(defaults.General.UnicodeInputDelay),
		buf:           buffer.New(),
		proxy:         proxy,
		log:           log,
		plainPressed:  make(map[keycode.Code]config.KeyAction),
		maxDepth:      defaults.General.MaximumLookupDepth,
		deferredDelay: time.Duration(defaults.General.DeferredKeyDelay) * time.Millisecond,
		pollTimeout:   time.Duration(defaults.General.EventPollTimeout) * time.Millisecond,
	}
}

// Run drives the wait/fetch/process/post-process loop until ctx is
// cancelled or the proxy's Wait or FetchEvents returns an error. The
// post-process pass runs on every iteration, including one whose Wait timed
// out with no events. Dispatch errors, including Emit failures, are logged
// and the loop continues.
func (a *Adapter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ready, err := a.proxy.Wait(a.pollTimeout)
		if err != nil {
			return fmt.Errorf("adapter %s: wait: %w", a.name, err)
		}
		if ready {
			events, err := a.proxy.FetchEvents()
			if err != nil {
				return fmt.Errorf("adapter %s: fetch events: %w", a.name, err)
			}

			for _, ev := range events {
				res := a.processEvent(ev)
				if err := a.dispatchResult(res, 0); err != nil {
					a.log.Error("dispatch failed", "keyboard", a.name, "error", err)
				}
			}
		}

		a.postProcess()
	}
}

func (a *Adapter) processEvent(ev keycode.Event) result.Result {
	switch ev.Kind {
	case keycode.Press:
		return a.handlePress(ev.Code)
	case keycode.Hold:
		return a.handleHold(ev.Code)
	case keycode.Release:
		return a.handleRelease(ev.Code)
	default:
		return result.NoneResult()
	}
}

// postProcess runs every decision stage's time-driven Process pass and
// dispatches whatever it staged, then flushes any presses that were
// deferred behind a pending decision that has since resolved.
func (a *Adapter) postProcess() {
	a.tapDance.Process(a.buf)
	a.combo.Process(a.buf)

	for {
		res, ok := a.buf.PopResult()
		if !ok {
			break
		}
		if err := a.dispatchResult(res, 0); err != nil {
			a.log.Error("dispatch failed", "keyboard", a.name, "error", err)
		}
	}

	a.flushDeferred()
}

func (a *Adapter) flushDeferred() {
	for !a.buf.HasPendingKeys() {
		code, ok := a.buf.PopDeferredKey()
		if !ok {
			return
		}
		if a.deferredDelay > 0 {
			time.Sleep(a.deferredDelay)
		}
		res := a.handlePress(code)
		if err := a.dispatchResult(res, 0); err != nil {
			a.log.Error("dispatch failed", "keyboard", a.name, "error", err)
		}
	}
}

func (a *Adapter) handlePress(code keycode.Code) result.Result {
	if a.buf.HasPendingKeys() && !a.buf.IsPendingKey(code) {
		a.buf.DeferKey(code)
		return result.NoneResult()
	}

	if res, ok := a.tapDance.HandlePress(code); ok {
		a.markPending(code, res)
		return res
	}
	if res, ok := a.combo.HandlePress(code); ok {
		a.markPending(code, res)
		return res
	}
	if res, ok := a.layer.HandlePress(code); ok {
		return res
	}

	action := a.mapping.Map(code)
	a.plainPressed[code] = action
	if action.IsMacro {
		return result.MacroResult(action.Macro)
	}
	return result.PressResult(action.Code)
}

func (a *Adapter) handleHold(code keycode.Code) result.Result {
	if res, ok := a.tapDance.HandleHold(code); ok {
		return res
	}
	if res, ok := a.combo.HandleHold(code); ok {
		return res
	}
	if res, ok := a.layer.HandleHold(code); ok {
		return res
	}
	if action, ok := a.plainPressed[code]; ok {
		if action.IsMacro {
			return result.NoneResult()
		}
		return result.HoldResult(action.Code)
	}
	return result.NoneResult()
}

func (a *Adapter) handleRelease(code keycode.Code) result.Result {
	if res, ok := a.tapDance.HandleRelease(code); ok {
		return res
	}
	if res, ok := a.combo.HandleRelease(code); ok {
		return res
	}
	if res, ok := a.layer.HandleRelease(code); ok {
		return res
	}
	if action, ok := a.plainPressed[code]; ok {
		delete(a.plainPressed, code)
		if action.IsMacro {
			return result.NoneResult()
		}
		return result.ReleaseResult(action.Code)
	}
	return result.ReleaseResult(code)
}

func (a *Adapter) markPending(code keycode.Code, res result.Result) {
	if res.Kind == result.Pending {
		a.buf.SetPendingKey(code)
	}
}

// dispatchResult walks a (possibly compound) Result down to the physical
// events it represents. depth guards against a misconfigured macro or
// layer cycle recursing without bound.
func (a *Adapter) dispatchResult(res result.Result, depth uint8) error {
	if depth > a.maxDepth {
		return fmt.Errorf("adapter %s: maximum lookup depth %d exceeded", a.name, a.maxDepth)
	}

	switch res.Kind {
	case result.None, result.Pending:
		return nil

	case result.Press, result.Hold, result.Release:
		return a.dispatchEventResult(res.Kind, res.Code, depth)

	case result.Double:
		if err := a.dispatchResult(*res.Double[0], depth+1); err != nil {
			return err
		}
		return a.dispatchResult(*res.Double[1], depth+1)

	case result.Delay:
		time.Sleep(time.Duration(res.DelayMS) * time.Millisecond)
		return nil

	case result.Macro:
		m, ok := res.Macro.(config.Macro)
		if !ok {
			return fmt.Errorf("adapter %s: result carries an unrecognized macro type", a.name)
		}
		steps, err := a.macro.Expand(m)
		if err != nil {
			return fmt.Errorf("adapter %s: %w", a.name, err)
		}
		for _, step := range steps {
			if err := a.dispatchResult(step, depth+1); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

// dispatchEventResult resolves a Press/Hold/Release(code) pair to the
// physical sink events it represents (spec.md §4.8's
// dispatch_event_result). A custom code is never emitted: it's re-looked-up
// through mapping and layer until it resolves to a macro or a non-custom
// code, recursing under the same depth guard as dispatchResult. A shifted
// pseudo-code expands into a Shift-chorded sequence around its physical key
// instead of being emitted as-is.
func (a *Adapter) dispatchEventResult(kind result.Kind, code keycode.Code, depth uint8) error {
	if depth > a.maxDepth {
		return fmt.Errorf("adapter %s: maximum lookup depth %d exceeded", a.name, a.maxDepth)
	}

	if code.IsCustom() {
		action := a.mapping.Map(code)
		if mapped, ok := a.layer.Map(code); ok {
			action = mapped
		}
		if action.IsMacro {
			return a.dispatchResult(result.MacroResult(action.Macro), depth+1)
		}
		return a.dispatchEventResult(kind, action.Code, depth+1)
	}

	if code.IsShifted() {
		physical := code.Unshift()
		switch kind {
		case result.Press:
			if err := a.proxy.Emit([]keycode.Event{{Code: keycode.KeyLeftShift, Kind: keycode.Press}}); err != nil {
				return err
			}
			return a.proxy.Emit([]keycode.Event{{Code: physical, Kind: keycode.Press}})
		case result.Hold:
			return a.proxy.Emit([]keycode.Event{{Code: physical, Kind: keycode.Hold}})
		default: // Release
			if err := a.proxy.Emit([]keycode.Event{{Code: physical, Kind: keycode.Release}}); err != nil {
				return err
			}
			return a.proxy.Emit([]keycode.Event{{Code: keycode.KeyLeftShift, Kind: keycode.Release}})
		}
	}

	return a.proxy.Emit([]keycode.Event{{Code: code, Kind: toKernelKind(kind)}})
}

func toKernelKind(k result.Kind) keycode.Kind {
	switch k {
	case result.Press:
		return keycode.Press
	case result.Hold:
		return keycode.Hold
	default:
		return keycode.Release
	}
}
