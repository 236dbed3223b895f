package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/quillaja/remapd/internal/keycode"
)

// mapGet scans a YAML mapping node's Content pairs for key, returning the
// associated value node (or nil). Content preserves document order, which
// is what lets Allocator.Resolve assign custom codes deterministically.
func mapGet(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// Parse decodes a configuration document already read into memory.
func Parse(data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if len(root.Content) == 0 {
		return &File{Defaults: DefaultDefaults()}, nil
	}
	doc := root.Content[0]

	defaults := DefaultDefaults()
	if n := mapGet(doc, "defaults"); n != nil {
		if err := decodeDefaults(n, &defaults); err != nil {
			return nil, err
		}
	}

	var keyboards []Keyboard
	if n := mapGet(doc, "keyboards"); n != nil {
		if n.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("keyboards: expected a list")
		}

		// One allocator for the whole document: custom-code allocation
		// order is stable within a single parse (spec.md §4.1), and a
		// symbol used across two keyboard blocks resolves to the same
		// custom code both times.
		alloc := NewAllocator()

		for _, item := range n.Content {
			kb, err := decodeKeyboard(item, alloc)
			if err != nil {
				return nil, err
			}
			keyboards = append(keyboards, kb)
		}
	}

	return &File{Defaults: defaults, Keyboards: keyboards}, nil
}

func decodeDefaults(node *yaml.Node, out *Defaults) error {
	if n := mapGet(node, "tap_dance"); n != nil {
		if v := mapGet(n, "default_timeout"); v != nil {
			if err := v.Decode(&out.TapDance.DefaultTimeout); err != nil {
				return fmt.Errorf("defaults.tap_dance.default_timeout: %w", err)
			}
		}
	}
	if n := mapGet(node, "combo"); n != nil {
		if v := mapGet(n, "default_threshold"); v != nil {
			if err := v.Decode(&out.Combo.DefaultThreshold); err != nil {
				return fmt.Errorf("defaults.combo.default_threshold: %w", err)
			}
		}
	}
	if n := mapGet(node, "general"); n != nil {
		if v := mapGet(n, "event_poll_timeout"); v != nil {
			if err := v.Decode(&out.General.EventPollTimeout); err != nil {
				return fmt.Errorf("defaults.general.event_poll_timeout: %w", err)
			}
		}
		if v := mapGet(n, "deferred_key_delay"); v != nil {
			if err := v.Decode(&out.General.DeferredKeyDelay); err != nil {
				return fmt.Errorf("defaults.general.deferred_key_delay: %w", err)
			}
		}
		if v := mapGet(n, "unicode_input_delay"); v != nil {
			if err := v.Decode(&out.General.UnicodeInputDelay); err != nil {
				return fmt.Errorf("defaults.general.unicode_input_delay: %w", err)
			}
		}
		if v := mapGet(n, "maximum_lookup_depth"); v != nil {
			if err := v.Decode(&out.General.MaximumLookupDepth); err != nil {
				return fmt.Errorf("defaults.general.maximum_lookup_depth: %w", err)
			}
		}
	}
	return nil
}

func decodeKeyboard(node *yaml.Node, alloc *Allocator) (Keyboard, error) {
	var kb Keyboard

	nameNode := mapGet(node, "name")
	if nameNode == nil {
		return kb, fmt.Errorf("keyboards: entry missing required 'name'")
	}
	kb.Name = nameNode.Value

	if n := mapGet(node, "keys"); n != nil {
		keys, err := decodeActionMap(n, alloc)
		if err != nil {
			return kb, fmt.Errorf("keyboard %q: keys: %w", kb.Name, err)
		}
		kb.Keys = keys
	}

	if n := mapGet(node, "combos"); n != nil {
		combos, err := decodeCombos(n, alloc)
		if err != nil {
			return kb, fmt.Errorf("keyboard %q: combos: %w", kb.Name, err)
		}
		kb.Combos = combos
	}

	if n := mapGet(node, "tap_dances"); n != nil {
		tapDances, err := decodeTapDances(n, alloc)
		if err != nil {
			return kb, fmt.Errorf("keyboard %q: tap_dances: %w", kb.Name, err)
		}
		kb.TapDances = tapDances
	}

	if n := mapGet(node, "layers"); n != nil {
		layers, err := decodeLayers(n, alloc)
		if err != nil {
			return kb, fmt.Errorf("keyboard %q: layers: %w", kb.Name, err)
		}
		kb.Layers = layers
	}

	return kb, nil
}

func decodeActionMap(node *yaml.Node, alloc *Allocator) (map[keycode.Code]KeyAction, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping")
	}
	out := make(map[keycode.Code]KeyAction, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		code := alloc.Resolve(node.Content[i].Value)
		action, err := decodeAction(node.Content[i+1], alloc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Content[i].Value, err)
		}
		out[code] = action
	}
	return out, nil
}

func decodeCombos(node *yaml.Node, alloc *Allocator) ([]ComboDefinition, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list")
	}
	out := make([]ComboDefinition, 0, len(node.Content))
	for _, item := range node.Content {
		keysNode := mapGet(item, "keys")
		if keysNode == nil || keysNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("combo entry missing 'keys' list")
		}
		keys := make([]keycode.Code, 0, len(keysNode.Content))
		for _, k := range keysNode.Content {
			keys = append(keys, alloc.Resolve(k.Value))
		}

		actionNode := mapGet(item, "action")
		if actionNode == nil {
			return nil, fmt.Errorf("combo entry missing 'action'")
		}
		action, err := decodeAction(actionNode, alloc)
		if err != nil {
			return nil, fmt.Errorf("action: %w", err)
		}

		out = append(out, ComboDefinition{Keys: keys, Action: action})
	}
	return out, nil
}

func decodeTapDances(node *yaml.Node, alloc *Allocator) (map[keycode.Code]TapDanceDefinition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping")
	}
	out := make(map[keycode.Code]TapDanceDefinition, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		code := alloc.Resolve(node.Content[i].Value)
		valNode := node.Content[i+1]

		var def TapDanceDefinition
		if t := mapGet(valNode, "timeout"); t != nil {
			var ms uint16
			if err := t.Decode(&ms); err != nil {
				return nil, fmt.Errorf("%s.timeout: %w", node.Content[i].Value, err)
			}
			def.Timeout = &ms
		}

		tapNode := mapGet(valNode, "tap")
		if tapNode == nil {
			return nil, fmt.Errorf("%s: missing 'tap'", node.Content[i].Value)
		}
		tap, err := decodeAction(tapNode, alloc)
		if err != nil {
			return nil, fmt.Errorf("%s.tap: %w", node.Content[i].Value, err)
		}
		def.Tap = tap

		holdNode := mapGet(valNode, "hold")
		if holdNode == nil {
			return nil, fmt.Errorf("%s: missing 'hold'", node.Content[i].Value)
		}
		hold, err := decodeAction(holdNode, alloc)
		if err != nil {
			return nil, fmt.Errorf("%s.hold: %w", node.Content[i].Value, err)
		}
		def.Hold = hold

		out[code] = def
	}
	return out, nil
}

func decodeLayers(node *yaml.Node, alloc *Allocator) (map[string]LayerDefinition, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping")
	}
	out := make(map[string]LayerDefinition, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		valNode := node.Content[i+1]

		modifierNode := mapGet(valNode, "modifier")
		if modifierNode == nil {
			return nil, fmt.Errorf("layer %q: missing 'modifier'", name)
		}
		modifier, err := decodeModifier(modifierNode, alloc)
		if err != nil {
			return nil, fmt.Errorf("layer %q: modifier: %w", name, err)
		}

		var keys map[keycode.Code]KeyAction
		if keysNode := mapGet(valNode, "keys"); keysNode != nil {
			keys, err = decodeActionMap(keysNode, alloc)
			if err != nil {
				return nil, fmt.Errorf("layer %q: keys: %w", name, err)
			}
		}

		out[name] = LayerDefinition{Modifier: modifier, Keys: keys}
	}
	return out, nil
}

func decodeModifier(node *yaml.Node, alloc *Allocator) (LayerModifier, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return LayerModifier{Key: alloc.Resolve(node.Value), Kind: Momentary}, nil
	case yaml.MappingNode:
		keyNode := mapGet(node, "key")
		if keyNode == nil {
			return LayerModifier{}, fmt.Errorf("modifier mapping missing 'key'")
		}
		kind := Momentary
		if typeNode := mapGet(node, "type"); typeNode != nil {
			switch typeNode.Value {
			case "momentary":
				kind = Momentary
			case "toggle":
				kind = Toggle
			case "oneshoot", "oneshot":
				kind = OneShot
			default:
				return LayerModifier{}, fmt.Errorf("unknown layer modifier type %q", typeNode.Value)
			}
		}
		return LayerModifier{Key: alloc.Resolve(keyNode.Value), Kind: kind}, nil
	default:
		return LayerModifier{}, fmt.Errorf("modifier: expected a key name or {key, type} mapping")
	}
}

func decodeAction(node *yaml.Node, alloc *Allocator) (KeyAction, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return CodeAction(alloc.Resolve(node.Value)), nil
	case yaml.MappingNode:
		ev, err := decodeEventMacro(node, alloc)
		if err != nil {
			return KeyAction{}, err
		}
		return MacroAction(Macro{Events: []EventMacro{ev}}), nil
	case yaml.SequenceNode:
		events := make([]EventMacro, 0, len(node.Content))
		for _, item := range node.Content {
			ev, err := decodeEventMacro(item, alloc)
			if err != nil {
				return KeyAction{}, err
			}
			events = append(events, ev)
		}
		return MacroAction(Macro{Events: events}), nil
	default:
		return KeyAction{}, fmt.Errorf("expected a key name, a macro event, or a list of macro events")
	}
}

func decodeEventMacro(node *yaml.Node, alloc *Allocator) (EventMacro, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return EventMacro{Kind: EventTap, Code: alloc.Resolve(node.Value)}, nil
	case yaml.MappingNode:
		if n := mapGet(node, "press"); n != nil {
			return EventMacro{Kind: EventPress, Code: alloc.Resolve(n.Value)}, nil
		}
		if n := mapGet(node, "hold"); n != nil {
			return EventMacro{Kind: EventHold, Code: alloc.Resolve(n.Value)}, nil
		}
		if n := mapGet(node, "release"); n != nil {
			return EventMacro{Kind: EventRelease, Code: alloc.Resolve(n.Value)}, nil
		}
		if n := mapGet(node, "delay"); n != nil {
			var ms uint32
			if err := n.Decode(&ms); err != nil {
				return EventMacro{}, fmt.Errorf("delay: %w", err)
			}
			return EventMacro{Kind: EventDelay, DelayMS: ms}, nil
		}
		if n := mapGet(node, "string"); n != nil {
			return EventMacro{Kind: EventString, Text: n.Value}, nil
		}
		if n := mapGet(node, "env"); n != nil {
			return EventMacro{Kind: EventEnv, Text: n.Value}, nil
		}
		if n := mapGet(node, "unicode"); n != nil {
			return EventMacro{Kind: EventUnicode, Text: n.Value}, nil
		}
		if n := mapGet(node, "shell"); n != nil {
			trim := false
			if t := mapGet(node, "trim"); t != nil {
				if err := t.Decode(&trim); err != nil {
					return EventMacro{}, fmt.Errorf("shell.trim: %w", err)
				}
			}
			return EventMacro{Kind: EventShell, Text: n.Value, Trim: trim}, nil
		}
		return EventMacro{}, fmt.Errorf("line %d: unrecognized macro event shape", node.Line)
	default:
		return EventMacro{}, fmt.Errorf("line %d: macro event must be a key name or a mapping", node.Line)
	}
}
