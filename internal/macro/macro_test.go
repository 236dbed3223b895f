package macro

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

func TestExpandDirectEvents(t *testing.T) {
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{
		{Kind: config.EventPress, Code: keycode.KeyLeftCtrl},
		{Kind: config.EventTap, Code: keycode.KeyC},
		{Kind: config.EventRelease, Code: keycode.KeyLeftCtrl},
		{Kind: config.EventDelay, DelayMS: 10},
	}}

	steps, err := e.Expand(m)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, result.Press, steps[0].Kind)
	assert.Equal(t, result.Double, steps[1].Kind)
	assert.Equal(t, result.Release, steps[2].Kind)
	assert.Equal(t, result.Delay, steps[3].Kind)
	assert.Equal(t, uint32(10), steps[3].DelayMS)
}

func TestExpandStringTypesEachCharacter(t *testing.T) {
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{{Kind: config.EventString, Text: "aB"}}}

	steps, err := e.Expand(m)
	require.NoError(t, err)

	// 'a' is a single Tap; 'B' is Shift-down, Tap, Shift-up.
	require.Len(t, steps, 4)
	assert.Equal(t, result.Double, steps[0].Kind)
	assert.Equal(t, keycode.KeyA, steps[0].Double[0].Code)

	assert.Equal(t, result.Press, steps[1].Kind)
	assert.Equal(t, keycode.KeyLeftShift, steps[1].Code)
	assert.Equal(t, result.Double, steps[2].Kind)
	assert.Equal(t, keycode.KeyB, steps[2].Double[0].Code)
	assert.Equal(t, result.Release, steps[3].Kind)
	assert.Equal(t, keycode.KeyLeftShift, steps[3].Code)
}

func TestExpandStringRejectsUnmappedCharacter(t *testing.T) {
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{{Kind: config.EventString, Text: "é"}}}

	_, err := e.Expand(m)
	assert.Error(t, err)
}

func TestExpandEnvSubstitutesValue(t *testing.T) {
	t.Setenv("REMAPD_TEST_VAR", "ok")
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{{Kind: config.EventEnv, Text: "REMAPD_TEST_VAR"}}}

	steps, err := e.Expand(m)
	require.NoError(t, err)
	assert.Len(t, steps, 2) // "ok"
}

func TestExpandEnvMissingVariableFails(t *testing.T) {
	os.Unsetenv("REMAPD_TEST_VAR_MISSING")
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{{Kind: config.EventEnv, Text: "REMAPD_TEST_VAR_MISSING"}}}

	_, err := e.Expand(m)
	assert.Error(t, err)
}

func TestExpandUnicodeTypesCtrlShiftUSequence(t *testing.T) {
	e := New(25)
	m := config.Macro{Events: []config.EventMacro{{Kind: config.EventUnicode, Text: "A"}}}

	steps, err := e.Expand(m)
	require.NoError(t, err)

	// Ctrl down, Shift down, tap U, Shift up, Ctrl up, delay, one tap per hex
	// digit, Enter tap. 'A' is U+0041 -> hex "41" -> two digit taps.
	assert.Equal(t, result.Press, steps[0].Kind)
	assert.Equal(t, keycode.KeyLeftCtrl, steps[0].Code)
	assert.Equal(t, result.Press, steps[1].Kind)
	assert.Equal(t, keycode.KeyLeftShift, steps[1].Code)
	assert.Equal(t, result.Double, steps[2].Kind)
	assert.Equal(t, keycode.KeyU, steps[2].Double[0].Code)
	assert.Equal(t, result.Release, steps[3].Kind)
	assert.Equal(t, result.Release, steps[4].Kind)
	assert.Equal(t, result.Delay, steps[5].Kind)
	assert.Equal(t, uint32(25), steps[5].DelayMS)

	last := steps[len(steps)-1]
	assert.Equal(t, result.Double, last.Kind)
	assert.Equal(t, keycode.KeyEnter, last.Double[0].Code)
}

func TestExpandShellRunsCommandAndTypesOutput(t *testing.T) {
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{
		{Kind: config.EventShell, Text: "printf hi", Trim: true},
	}}

	steps, err := e.Expand(m)
	require.NoError(t, err)
	assert.Len(t, steps, 2) // "hi"
}

func TestExpandShellFailureSurfacesError(t *testing.T) {
	e := New(0)
	m := config.Macro{Events: []config.EventMacro{
		{Kind: config.EventShell, Text: "exit 7"},
	}}

	_, err := e.Expand(m)
	assert.Error(t, err)
}
