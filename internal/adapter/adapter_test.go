package adapter

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

type mockProxy struct {
	emitted []keycode.Event
}

func (m *mockProxy) Wait(timeout time.Duration) (bool, error)  { return false, nil }
func (m *mockProxy) FetchEvents() ([]keycode.Event, error)     { return nil, nil }
func (m *mockProxy) Emit(events []keycode.Event) error {
	m.emitted = append(m.emitted, events...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPlainRemapDispatchesPressAndRelease(t *testing.T) {
	kb := config.Keyboard{
		Name: "test",
		Keys: map[keycode.Code]config.KeyAction{keycode.KeyCapsLock: config.CodeAction(keycode.KeyESC)},
	}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyCapsLock)
	require.NoError(t, a.dispatchResult(res, 0))

	res = a.handleRelease(keycode.KeyCapsLock)
	require.NoError(t, a.dispatchResult(res, 0))

	require.Len(t, proxy.emitted, 2)
	assert.Equal(t, keycode.KeyESC, proxy.emitted[0].Code)
	assert.Equal(t, keycode.Press, proxy.emitted[0].Kind)
	assert.Equal(t, keycode.KeyESC, proxy.emitted[1].Code)
	assert.Equal(t, keycode.Release, proxy.emitted[1].Kind)
}

func TestTapDancePendingResolvesThroughPostProcess(t *testing.T) {
	kb := config.Keyboard{
		Name: "test",
		TapDances: map[keycode.Code]config.TapDanceDefinition{
			keycode.KeyCapsLock: {
				Tap:  config.CodeAction(keycode.KeyESC),
				Hold: config.CodeAction(keycode.KeyLeftCtrl),
			},
		},
	}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyCapsLock)
	assert.Equal(t, result.Pending, res.Kind)
	require.NoError(t, a.dispatchResult(res, 0))
	assert.Empty(t, proxy.emitted, "a pending decision must not emit anything yet")

	res = a.handleRelease(keycode.KeyCapsLock)
	require.NoError(t, a.dispatchResult(res, 0))

	a.postProcess()

	require.Len(t, proxy.emitted, 2)
	assert.Equal(t, keycode.KeyESC, proxy.emitted[0].Code)
	assert.Equal(t, keycode.Press, proxy.emitted[0].Kind)
	assert.Equal(t, keycode.KeyESC, proxy.emitted[1].Code)
	assert.Equal(t, keycode.Release, proxy.emitted[1].Kind)
}

func TestMacroKeyExpandsToTypedCharacters(t *testing.T) {
	macroAction := config.MacroAction(config.Macro{Events: []config.EventMacro{
		{Kind: config.EventString, Text: "hi"},
	}})
	kb := config.Keyboard{
		Name: "test",
		Keys: map[keycode.Code]config.KeyAction{keycode.KeyF1: macroAction},
	}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyF1)
	require.Equal(t, result.Macro, res.Kind)
	require.NoError(t, a.dispatchResult(res, 0))

	require.Len(t, proxy.emitted, 4) // Press h, Release h, Press i, Release i
	assert.Equal(t, keycode.KeyH, proxy.emitted[0].Code)
	assert.Equal(t, keycode.KeyI, proxy.emitted[2].Code)
}

func TestDispatchResultRejectsExcessiveDepth(t *testing.T) {
	kb := config.Keyboard{Name: "test"}
	proxy := &mockProxy{}
	defaults := config.DefaultDefaults()
	a := New(kb, defaults, proxy, testLogger())

	err := a.dispatchResult(result.PressResult(keycode.KeyA), defaults.General.MaximumLookupDepth+1)
	assert.Error(t, err)
}

func TestCustomCodeTargetIsReLookedUpAndNeverEmitted(t *testing.T) {
	kb := config.Keyboard{
		Name: "test",
		Keys: map[keycode.Code]config.KeyAction{
			keycode.KeyF2:      config.CodeAction(keycode.CustomBase),
			keycode.CustomBase: config.CodeAction(keycode.KeyA),
		},
	}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyF2)
	require.NoError(t, a.dispatchResult(res, 0))

	require.Len(t, proxy.emitted, 1)
	assert.Equal(t, keycode.KeyA, proxy.emitted[0].Code)
	assert.Equal(t, keycode.Press, proxy.emitted[0].Kind)
	for _, ev := range proxy.emitted {
		assert.False(t, ev.Code.IsCustom(), "a custom code must never reach the sink")
	}
}

func TestShiftedCodeExpandsIntoShiftChordOnPressAndRelease(t *testing.T) {
	shiftedOne := keycode.ShiftedBase + keycode.Key1
	kb := config.Keyboard{
		Name: "test",
		Keys: map[keycode.Code]config.KeyAction{keycode.KeyF3: config.CodeAction(shiftedOne)},
	}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyF3)
	require.NoError(t, a.dispatchResult(res, 0))
	require.Len(t, proxy.emitted, 2)
	assert.Equal(t, keycode.KeyLeftShift, proxy.emitted[0].Code)
	assert.Equal(t, keycode.Press, proxy.emitted[0].Kind)
	assert.Equal(t, keycode.Key1, proxy.emitted[1].Code)
	assert.Equal(t, keycode.Press, proxy.emitted[1].Kind)

	res = a.handleRelease(keycode.KeyF3)
	require.NoError(t, a.dispatchResult(res, 0))
	require.Len(t, proxy.emitted, 4)
	assert.Equal(t, keycode.Key1, proxy.emitted[2].Code)
	assert.Equal(t, keycode.Release, proxy.emitted[2].Kind)
	assert.Equal(t, keycode.KeyLeftShift, proxy.emitted[3].Code)
	assert.Equal(t, keycode.Release, proxy.emitted[3].Kind)

	for _, ev := range proxy.emitted {
		assert.False(t, ev.Code.IsShifted(), "a shifted pseudo-code must never reach the sink")
	}
}

func TestUnmappedKeyPassesThroughIdentity(t *testing.T) {
	kb := config.Keyboard{Name: "test"}
	proxy := &mockProxy{}
	a := New(kb, config.DefaultDefaults(), proxy, testLogger())

	res := a.handlePress(keycode.KeyA)
	assert.Equal(t, result.Press, res.Kind)
	assert.Equal(t, keycode.KeyA, res.Code)
}
