// Package tapdance implements TapDanceManager (spec.md §4.4): per-key
// dual-role (tap vs hold) state machines driven by a timeout.
package tapdance

import (
	"time"

	"github.com/quillaja/remapd/internal/buffer"
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

type pressedKey struct {
	code      keycode.Code
	timeoutMS uint16
	pressedAt time.Time
	released  bool
	tap       config.KeyAction
	hold      config.KeyAction
}

func (k *pressedKey) reachedTimeout(now time.Time) bool {
	return now.Sub(k.pressedAt).Milliseconds() > int64(k.timeoutMS)
}

func (k *pressedKey) danceResult(timedOut bool) result.Result {
	switch {
	case k.released && timedOut:
		return k.releaseResult()
	case k.released:
		return k.tapResult()
	case timedOut:
		return k.holdResult()
	default:
		return result.NoneResult()
	}
}

func (k *pressedKey) releaseResult() result.Result {
	if k.hold.IsMacro {
		return result.NoneResult()
	}
	return result.ReleaseResult(k.hold.Code)
}

func (k *pressedKey) tapResult() result.Result {
	if k.tap.IsMacro {
		return result.MacroResult(k.tap.Macro)
	}
	return result.Tap(k.tap.Code)
}

func (k *pressedKey) holdResult() result.Result {
	if k.hold.IsMacro {
		return result.MacroResult(k.hold.Macro)
	}
	return result.DoubleResult(result.PressResult(k.hold.Code), result.HoldResult(k.hold.Code))
}

// Manager is the per-keyboard tap-dance state machine.
type Manager struct {
	dances         map[keycode.Code]config.TapDanceDefinition
	defaultTimeout uint16
	pressed        []*pressedKey
	suppressed     map[keycode.Code]struct{}
}

// New builds a Manager from a keyboard's configured tap-dance table.
func New(dances map[keycode.Code]config.TapDanceDefinition, defaultTimeout uint16) *Manager {
	return &Manager{
		dances:         dances,
		defaultTimeout: defaultTimeout,
		suppressed:     make(map[keycode.Code]struct{}),
	}
}

// HandlePress records a new dance and returns Pending(code) if code is a
// watched tap-dance key.
func (m *Manager) HandlePress(code keycode.Code) (result.Result, bool) {
	def, ok := m.dances[code]
	if !ok {
		return result.Result{}, false
	}
	timeout := m.defaultTimeout
	if def.Timeout != nil {
		timeout = *def.Timeout
	}
	m.pressed = append(m.pressed, &pressedKey{
		code:      code,
		timeoutMS: timeout,
		pressedAt: time.Now(),
		tap:       def.Tap,
		hold:      def.Hold,
	})
	return result.PendingResult(code), true
}

// HandleHold absorbs kernel auto-repeat for a watched key while its
// decision is pending.
func (m *Manager) HandleHold(code keycode.Code) (result.Result, bool) {
	if _, ok := m.dances[code]; ok {
		return result.NoneResult(), true
	}
	return result.Result{}, false
}

// HandleRelease marks a pending dance as released.
func (m *Manager) HandleRelease(code keycode.Code) (result.Result, bool) {
	delete(m.suppressed, code)

	for _, k := range m.pressed {
		if k.code == code {
			k.released = true
			return result.NoneResult(), true
		}
	}
	return result.Result{}, false
}

// Process scans every watched key, emitting tap/hold decisions whose
// deadlines have elapsed (spec.md §4.4's decision table).
func (m *Manager) Process(buf *buffer.InputBuffer) {
	if len(m.pressed) == 0 {
		return
	}

	now := time.Now()

	for idx, state := range m.pressed {
		if _, ok := m.suppressed[state.code]; ok {
			continue
		}

		timedOut := state.reachedTimeout(now)
		res := state.danceResult(timedOut)

		if res.Kind == result.Macro {
			m.suppressed[state.code] = struct{}{}
		}
		// Once the dance commits to a decision (anything but None), the
		// trigger key must stop stalling the rest of the keyboard behind
		// it — unconditionally, even when the tap/hold target is the
		// trigger code itself (spec.md's own KEY_S tap-to-itself example).
		if res.Kind != result.None {
			buf.ClearPendingKey(state.code)
		}

		if state.released {
			buf.PushScratch(uint16(idx))
		}

		buf.PushResult(res)
	}

	for {
		idx, ok := buf.PopScratch()
		if !ok {
			break
		}
		if int(idx) < len(m.pressed) {
			m.pressed = append(m.pressed[:idx], m.pressed[idx+1:]...)
		}
	}
}
