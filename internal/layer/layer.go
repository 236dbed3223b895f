// Package layer implements LayerManager (spec.md §4.6): named overlay key
// tables activated by a momentary, toggle, or one-shot modifier key.
package layer

import (
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

// layerItem is one entry in the active-layer stack. baseLayer records which
// layer was topmost when this one was pushed, so a dependent chain can be
// unwound together even if the base layer's modifier releases first
// (spec.md §4.6).
type layerItem struct {
	name      string
	baseLayer string
}

// Manager is the per-keyboard layer stack.
type Manager struct {
	layers     map[string]config.LayerDefinition
	byModifier map[keycode.Code]string

	stack   []layerItem
	oneshot map[string]struct{}
	// pending holds momentary layers whose modifier has already released
	// but whose pop is deferred because a dependent layer pushed on top of
	// them is still active.
	pending map[string]struct{}
	pressed map[keycode.Code]config.KeyAction
}

// New builds a Manager from a keyboard's configured `layers:` table.
func New(layers map[string]config.LayerDefinition) *Manager {
	byModifier := make(map[keycode.Code]string, len(layers))
	for name, def := range layers {
		byModifier[def.Modifier.Key] = name
	}
	return &Manager{
		layers:     layers,
		byModifier: byModifier,
		oneshot:    make(map[string]struct{}),
		pending:    make(map[string]struct{}),
		pressed:    make(map[keycode.Code]config.KeyAction),
	}
}

// Map looks up code against the currently active layer stack, topmost
// first, without mutating any state.
func (m *Manager) Map(code keycode.Code) (config.KeyAction, bool) {
	return m.findDependentLayer(code)
}

// HandlePress intercepts layer-modifier keys (activating per their kind)
// and any physical key remapped by the currently active layer stack.
func (m *Manager) HandlePress(code keycode.Code) (result.Result, bool) {
	if name, ok := m.byModifier[code]; ok {
		m.activate(name)
		return result.NoneResult(), true
	}

	action, ok := m.findDependentLayer(code)
	if !ok {
		m.consumeOneshots()
		return result.Result{}, false
	}

	m.pressed[code] = action
	m.consumeOneshots()

	if action.IsMacro {
		return result.MacroResult(action.Macro), true
	}
	return result.PressResult(action.Code), true
}

// HandleHold absorbs kernel auto-repeat for modifier keys and forwards it
// for the logical code of a layer-remapped key.
func (m *Manager) HandleHold(code keycode.Code) (result.Result, bool) {
	if _, ok := m.byModifier[code]; ok {
		return result.NoneResult(), true
	}

	action, ok := m.pressed[code]
	if !ok {
		return result.Result{}, false
	}
	if action.IsMacro {
		return result.NoneResult(), true
	}
	return result.HoldResult(action.Code), true
}

// HandleRelease deactivates momentary layers and emits the matching
// release for a layer-remapped key.
func (m *Manager) HandleRelease(code keycode.Code) (result.Result, bool) {
	if name, ok := m.byModifier[code]; ok {
		m.deactivate(name)
		return result.NoneResult(), true
	}

	action, ok := m.pressed[code]
	if !ok {
		return result.Result{}, false
	}
	delete(m.pressed, code)

	if action.IsMacro {
		return result.NoneResult(), true
	}
	return result.ReleaseResult(action.Code), true
}

func (m *Manager) activate(name string) {
	def := m.layers[name]
	switch def.Modifier.Kind {
	case config.Momentary:
		m.pushLayer(name)
	case config.Toggle:
		if m.isLayerActive(name) {
			m.popLayer(name)
		} else {
			m.pushLayer(name)
		}
	case config.OneShot:
		m.oneshot[name] = struct{}{}
		m.pushLayer(name)
	}
}

func (m *Manager) deactivate(name string) {
	def := m.layers[name]
	if def.Modifier.Kind != config.Momentary {
		// Toggle and OneShot layers are unaffected by modifier release;
		// toggle deactivates on its next press, one-shot on the next
		// consumed key.
		return
	}

	if m.hasDependent(name) {
		// A layer was pushed on top of this one while it was active; defer
		// the pop until that dependent layer unwinds too, so the two pop
		// together and the stack never loses its dependent's base.
		m.pending[name] = struct{}{}
		return
	}
	m.popLayer(name)
}

// hasDependent reports whether some layer currently on the stack was pushed
// while name was topmost.
func (m *Manager) hasDependent(name string) bool {
	for _, item := range m.stack {
		if item.baseLayer == name {
			return true
		}
	}
	return false
}

// consumeOneshots deactivates every armed one-shot layer once a single
// non-modifier key press reaches HandlePress, whether or not the stack
// remaps it.
func (m *Manager) consumeOneshots() {
	if len(m.oneshot) == 0 {
		return
	}
	for name := range m.oneshot {
		m.popLayer(name)
		delete(m.oneshot, name)
	}
}

func (m *Manager) pushLayer(name string) {
	if m.isLayerActive(name) {
		return
	}
	base := ""
	if len(m.stack) > 0 {
		base = m.stack[len(m.stack)-1].name
	}
	m.stack = append(m.stack, layerItem{name: name, baseLayer: base})
}

// popLayer removes name from the stack and, if a base layer's pop was
// deferred waiting on name, pops that base layer too (chaining further if
// its own base is also pending).
func (m *Manager) popLayer(name string) {
	for i, item := range m.stack {
		if item.name == name {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			m.resolvePending(item.baseLayer)
			return
		}
	}
}

func (m *Manager) resolvePending(base string) {
	if base == "" {
		return
	}
	if _, ok := m.pending[base]; ok {
		delete(m.pending, base)
		m.popLayer(base)
	}
}

func (m *Manager) isLayerActive(name string) bool {
	for _, item := range m.stack {
		if item.name == name {
			return true
		}
	}
	return false
}

// findDependentLayer walks the active stack topmost-first, returning the
// first layer that remaps code.
func (m *Manager) findDependentLayer(code keycode.Code) (config.KeyAction, bool) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		def := m.layers[m.stack[i].name]
		if action, ok := def.Keys[code]; ok {
			return action, true
		}
	}
	return config.KeyAction{}, false
}
