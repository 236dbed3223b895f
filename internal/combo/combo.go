// Package combo implements ComboManager (spec.md §4.5): N-key chord
// recognition with a threshold window and suppression/latching of the
// constituent keys.
package combo

import (
	"sort"
	"time"

	"github.com/quillaja/remapd/internal/buffer"
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

type pressedKey struct {
	code      keycode.Code
	pressedAt time.Time
	released  bool
	hold      bool
}

// getKeyResult decides the solo-key result once the chord window closes,
// per spec.md §4.5's pass 1 ("Key-result resolution").
func (k *pressedKey) getKeyResult(now time.Time, threshold uint16) (result.Result, bool) {
	if now.Sub(k.pressedAt).Milliseconds() < int64(threshold) {
		return result.Result{}, false
	}
	if k.released {
		if k.hold {
			return result.ReleaseResult(k.code), true
		}
		return result.Tap(k.code), true
	}
	// Past the threshold and still held: this key lost the chord race on
	// its own, independent of whether the kernel has started auto-repeating
	// it yet (auto-repeat delay is typically far longer than any sane
	// combo threshold).
	return result.PressResult(k.code), true
}

type activeCombo struct {
	id      int
	hasCode bool
	code    keycode.Code
	keys    []keycode.Code
}

// Manager is the per-keyboard combo recognizer.
type Manager struct {
	keySet      map[keycode.Code]struct{}
	definitions []config.ComboDefinition
	threshold   uint16
	pressed     []*pressedKey
	suppressed  map[keycode.Code]struct{}
	active      []*activeCombo
}

// New builds a Manager from a keyboard's configured combo list, sorted by
// descending arity so the longest chord wins when multiple definitions
// share a key.
func New(combos []config.ComboDefinition, threshold uint16) *Manager {
	defs := make([]config.ComboDefinition, len(combos))
	copy(defs, combos)
	sort.SliceStable(defs, func(i, j int) bool { return len(defs[i].Keys) > len(defs[j].Keys) })

	keySet := make(map[keycode.Code]struct{})
	for _, def := range defs {
		for _, k := range def.Keys {
			keySet[k] = struct{}{}
		}
	}

	return &Manager{
		keySet:      keySet,
		definitions: defs,
		threshold:   threshold,
		suppressed:  make(map[keycode.Code]struct{}),
	}
}

// HandlePress records the press and returns Pending(code) when code
// participates in any combo definition.
func (m *Manager) HandlePress(code keycode.Code) (result.Result, bool) {
	if _, ok := m.keySet[code]; !ok {
		return result.Result{}, false
	}
	m.pressed = append(m.pressed, &pressedKey{code: code, pressedAt: time.Now()})
	return result.PendingResult(code), true
}

// HandleHold marks a pressed combo key as held once it has outlasted the
// threshold, absorbing the kernel auto-repeat.
func (m *Manager) HandleHold(code keycode.Code) (result.Result, bool) {
	for _, k := range m.pressed {
		if k.code != code {
			continue
		}
		if time.Since(k.pressedAt).Milliseconds() > int64(m.threshold) {
			k.hold = true
			return result.NoneResult(), true
		}
	}
	return result.Result{}, false
}

// HandleRelease marks a pressed combo key as released, absorbing the
// event.
func (m *Manager) HandleRelease(code keycode.Code) (result.Result, bool) {
	for _, k := range m.pressed {
		if k.code == code {
			k.released = true
			return result.NoneResult(), true
		}
	}
	return result.Result{}, false
}

// Process runs the three passes spec.md §4.5 describes: solo-key
// resolution, active-combo maintenance, and combo activation.
func (m *Manager) Process(buf *buffer.InputBuffer) {
	if len(m.definitions) == 0 {
		return
	}

	m.processKeyResults(buf)
	m.processActiveCombos(buf)
	m.processComboTrigger(buf)
}

func (m *Manager) processKeyResults(buf *buffer.InputBuffer) {
	now := time.Now()

	for _, key := range m.pressed {
		if _, ok := m.suppressed[key.code]; ok {
			if key.released {
				buf.PushScratch(uint16(key.code))
			}
			continue
		}

		// A released key still inside its chord window stays recorded (and
		// pending) until getKeyResult resolves it.
		if res, ok := key.getKeyResult(now, m.threshold); ok {
			buf.ClearPendingKey(key.code)
			buf.PushScratch(uint16(key.code))
			buf.PushResult(res)
		}
	}

	for {
		code, ok := buf.PopScratch()
		if !ok {
			break
		}
		m.removePressed(keycode.Code(code))
	}
}

func (m *Manager) removePressed(code keycode.Code) {
	kept := m.pressed[:0]
	for _, k := range m.pressed {
		if k.code != code {
			kept = append(kept, k)
		}
	}
	m.pressed = kept
}

func (m *Manager) processActiveCombos(buf *buffer.InputBuffer) {
	for _, combo := range m.active {
		if key := m.findPressedComboKey(combo); key != nil {
			if combo.hasCode && key.hold {
				buf.PushResult(result.HoldResult(combo.code))
			}
			continue
		}

		if combo.hasCode {
			buf.PushResult(result.ReleaseResult(combo.code))
		}

		// De-suppress every trigger key now that the combo has fully
		// released (spec.md §4.5 pass 2).
		for _, k := range combo.keys {
			delete(m.suppressed, k)
		}

		buf.PushScratch(uint16(combo.id))
	}

	for {
		id, ok := buf.PopScratch()
		if !ok {
			break
		}
		m.removeActive(int(id))
	}
}

func (m *Manager) removeActive(id int) {
	kept := m.active[:0]
	for _, c := range m.active {
		if c.id != id {
			kept = append(kept, c)
		}
	}
	m.active = kept
}

func (m *Manager) findPressedComboKey(combo *activeCombo) *pressedKey {
	for _, k := range combo.keys {
		for _, p := range m.pressed {
			if p.code == k {
				return p
			}
		}
	}
	return nil
}

func (m *Manager) processComboTrigger(buf *buffer.InputBuffer) {
	for id, def := range m.definitions {
		if !m.shouldActivate(def) || m.isSuppressed(def) {
			continue
		}

		for _, k := range def.Keys {
			m.suppressed[k] = struct{}{}
		}
		for _, k := range def.Keys {
			buf.ClearPendingKey(k)
		}

		active := &activeCombo{id: id, keys: def.Keys}

		var res result.Result
		if def.Action.IsMacro {
			res = result.MacroResult(def.Action.Macro)
		} else {
			active.hasCode = true
			active.code = def.Action.Code
			res = result.PressResult(def.Action.Code)
		}

		m.active = append(m.active, active)
		buf.PushResult(res)
	}
}

func (m *Manager) shouldActivate(def config.ComboDefinition) bool {
	for _, k := range def.Keys {
		found := false
		for _, p := range m.pressed {
			if p.code == k {
				found = !p.hold
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Manager) isSuppressed(def config.ComboDefinition) bool {
	for _, k := range def.Keys {
		if _, ok := m.suppressed[k]; ok {
			return true
		}
	}
	return false
}
