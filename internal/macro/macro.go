// Package macro implements MacroExpander (spec.md §4.7): turns a
// config.Macro into the ordered sequence of InputResults that type it.
package macro

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

// Expander turns macros into dispatchable Result sequences.
type Expander struct {
	unicodeDelayMS uint32
}

// New builds an Expander. unicodeInputDelayMS is the pause inserted after
// the IBus Ctrl+Shift+U trigger, before the hex digits are typed, letting
// the input method's popup register the sequence.
func New(unicodeInputDelayMS uint16) *Expander {
	return &Expander{unicodeDelayMS: uint32(unicodeInputDelayMS)}
}

// Expand flattens every step of m into the Result sequence the adapter
// dispatches in order.
func (e *Expander) Expand(m config.Macro) ([]result.Result, error) {
	var out []result.Result
	for _, ev := range m.Events {
		steps, err := e.expandEvent(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, steps...)
	}
	return out, nil
}

func (e *Expander) expandEvent(ev config.EventMacro) ([]result.Result, error) {
	switch ev.Kind {
	case config.EventTap:
		return []result.Result{result.Tap(ev.Code)}, nil
	case config.EventPress:
		return []result.Result{result.PressResult(ev.Code)}, nil
	case config.EventHold:
		return []result.Result{result.HoldResult(ev.Code)}, nil
	case config.EventRelease:
		return []result.Result{result.ReleaseResult(ev.Code)}, nil
	case config.EventDelay:
		return []result.Result{result.DelayResult(ev.DelayMS)}, nil
	case config.EventString:
		return e.expandString(ev.Text)
	case config.EventEnv:
		val, ok := os.LookupEnv(ev.Text)
		if !ok {
			return nil, fmt.Errorf("macro: environment variable %q is not set", ev.Text)
		}
		return e.expandString(val)
	case config.EventUnicode:
		return e.expandUnicode(ev.Text)
	case config.EventShell:
		return e.expandShell(ev)
	default:
		return nil, fmt.Errorf("macro: unknown event kind %d", ev.Kind)
	}
}

func (e *Expander) expandString(text string) ([]result.Result, error) {
	out := make([]result.Result, 0, len(text))
	for _, r := range text {
		code, shifted, ok := charAction(r)
		if !ok {
			return nil, fmt.Errorf("macro: character %q has no key mapping", r)
		}
		if shifted {
			out = append(out, result.PressResult(keycode.KeyLeftShift))
			out = append(out, result.Tap(code))
			out = append(out, result.ReleaseResult(keycode.KeyLeftShift))
		} else {
			out = append(out, result.Tap(code))
		}
	}
	return out, nil
}

// expandUnicode types each rune of text via the IBus "Ctrl+Shift+U, hex
// digits, Enter" unicode input sequence.
func (e *Expander) expandUnicode(text string) ([]result.Result, error) {
	var out []result.Result
	for _, r := range text {
		out = append(out,
			result.PressResult(keycode.KeyLeftCtrl),
			result.PressResult(keycode.KeyLeftShift),
			result.Tap(keycode.KeyU),
			result.ReleaseResult(keycode.KeyLeftShift),
			result.ReleaseResult(keycode.KeyLeftCtrl),
		)
		if e.unicodeDelayMS > 0 {
			out = append(out, result.DelayResult(e.unicodeDelayMS))
		}

		hex := fmt.Sprintf("%x", r)
		for _, digit := range hex {
			code, _, ok := charAction(digit)
			if !ok {
				return nil, fmt.Errorf("macro: hex digit %q has no key mapping", digit)
			}
			out = append(out, result.Tap(code))
		}
		out = append(out, result.Tap(keycode.KeyEnter))
	}
	return out, nil
}

func (e *Expander) expandShell(ev config.EventMacro) ([]result.Result, error) {
	cmd := exec.Command("/bin/sh", "-c", ev.Text)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("macro: shell command %q failed: %w", ev.Text, err)
	}
	text := string(output)
	if ev.Trim {
		text = strings.TrimSpace(text)
	}
	return e.expandString(text)
}

type charKey struct {
	code    keycode.Code
	shifted bool
}

// usLayout maps every rune the macro system can type to its physical key
// and whether Shift must be held, matching a standard US QWERTY layout.
var usLayout = buildUSLayout()

func buildUSLayout() map[rune]charKey {
	m := make(map[rune]charKey, 96)

	letters := []keycode.Code{
		keycode.KeyA, keycode.KeyB, keycode.KeyC, keycode.KeyD, keycode.KeyE,
		keycode.KeyF, keycode.KeyG, keycode.KeyH, keycode.KeyI, keycode.KeyJ,
		keycode.KeyK, keycode.KeyL, keycode.KeyM, keycode.KeyN, keycode.KeyO,
		keycode.KeyP, keycode.KeyQ, keycode.KeyR, keycode.KeyS, keycode.KeyT,
		keycode.KeyU, keycode.KeyV, keycode.KeyW, keycode.KeyX, keycode.KeyY,
		keycode.KeyZ,
	}
	for i, code := range letters {
		lower := rune('a' + i)
		upper := rune('A' + i)
		m[lower] = charKey{code: code}
		m[upper] = charKey{code: code, shifted: true}
	}

	digitBase := []struct {
		r    rune
		code keycode.Code
	}{
		{'1', keycode.Key1}, {'2', keycode.Key2}, {'3', keycode.Key3},
		{'4', keycode.Key4}, {'5', keycode.Key5}, {'6', keycode.Key6},
		{'7', keycode.Key7}, {'8', keycode.Key8}, {'9', keycode.Key9},
		{'0', keycode.Key0},
	}
	for _, d := range digitBase {
		m[d.r] = charKey{code: d.code}
	}
	shiftedDigits := []struct {
		r    rune
		code keycode.Code
	}{
		{'!', keycode.Key1}, {'@', keycode.Key2}, {'#', keycode.Key3},
		{'$', keycode.Key4}, {'%', keycode.Key5}, {'^', keycode.Key6},
		{'&', keycode.Key7}, {'*', keycode.Key8}, {'(', keycode.Key9},
		{')', keycode.Key0},
	}
	for _, d := range shiftedDigits {
		m[d.r] = charKey{code: d.code, shifted: true}
	}

	pairs := []struct {
		plain   rune
		shift   rune
		code    keycode.Code
	}{
		{'-', '_', keycode.KeyMinus},
		{'=', '+', keycode.KeyEqual},
		{'[', '{', keycode.KeyLeftBrace},
		{']', '}', keycode.KeyRightBrace},
		{';', ':', keycode.KeySemicolon},
		{'\'', '"', keycode.KeyApostrophe},
		{'`', '~', keycode.KeyGrave},
		{'\\', '|', keycode.KeyBackslash},
		{',', '<', keycode.KeyComma},
		{'.', '>', keycode.KeyDot},
		{'/', '?', keycode.KeySlash},
	}
	for _, p := range pairs {
		m[p.plain] = charKey{code: p.code}
		m[p.shift] = charKey{code: p.code, shifted: true}
	}

	m[' '] = charKey{code: keycode.KeySpace}
	m['\n'] = charKey{code: keycode.KeyEnter}
	m['\t'] = charKey{code: keycode.KeyTab}

	return m
}

func charAction(r rune) (keycode.Code, bool, bool) {
	k, ok := usLayout[r]
	if !ok {
		return 0, false, false
	}
	return k.code, k.shifted, true
}
