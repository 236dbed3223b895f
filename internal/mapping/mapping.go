// Package mapping implements MappingManager (spec.md §4.3): the static
// base-layer rewrite table.
package mapping

import (
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
)

// Manager holds the configured `keys:` remap table for one keyboard. It
// is pure and stateless after construction.
type Manager struct {
	keys map[keycode.Code]config.KeyAction
}

// New builds a Manager from a keyboard's configured key table.
func New(keys map[keycode.Code]config.KeyAction) *Manager {
	return &Manager{keys: keys}
}

// Map returns the configured replacement for code, or the identity
// KeyAction if none is configured.
func (m *Manager) Map(code keycode.Code) config.KeyAction {
	if action, ok := m.keys[code]; ok {
		return action
	}
	return config.CodeAction(code)
}
