package combo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillaja/remapd/internal/buffer"
	"github.com/quillaja/remapd/internal/config"
	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

func newTestManager() *Manager {
	return New([]config.ComboDefinition{
		{Keys: []keycode.Code{keycode.KeyD, keycode.KeyF}, Action: config.CodeAction(keycode.KeyESC)},
	}, 10)
}

func TestHandlePressMarksPendingForComboKeys(t *testing.T) {
	m := newTestManager()
	res, ok := m.HandlePress(keycode.KeyD)
	require.True(t, ok)
	assert.Equal(t, result.Pending, res.Kind)
}

func TestHandlePressIgnoresKeyOutsideAnyCombo(t *testing.T) {
	m := newTestManager()
	_, ok := m.HandlePress(keycode.KeyA)
	assert.False(t, ok)
}

func TestComboFiresWhenAllTriggerKeysPressed(t *testing.T) {
	m := newTestManager()
	_, _ = m.HandlePress(keycode.KeyD)
	_, _ = m.HandlePress(keycode.KeyF)

	buf := buffer.New()
	m.Process(buf)

	res, ok := buf.PopResult()
	require.True(t, ok)
	assert.Equal(t, result.Press, res.Kind)
	assert.Equal(t, keycode.KeyESC, res.Code)

	_, more := buf.PopResult()
	assert.False(t, more)
}

func TestComboReleasesOnlyAfterEveryTriggerKeyReleases(t *testing.T) {
	m := newTestManager()
	_, _ = m.HandlePress(keycode.KeyD)
	_, _ = m.HandlePress(keycode.KeyF)

	buf := buffer.New()
	m.Process(buf)
	_, _ = buf.PopResult() // the Press(ESC) from activation

	_, ok := m.HandleRelease(keycode.KeyD)
	require.True(t, ok)
	m.Process(buf)
	_, stillActive := buf.PopResult()
	assert.False(t, stillActive, "combo must stay active while F is still held")

	_, ok = m.HandleRelease(keycode.KeyF)
	require.True(t, ok)
	m.Process(buf)

	res, ok := buf.PopResult()
	require.True(t, ok)
	assert.Equal(t, result.Release, res.Kind)
	assert.Equal(t, keycode.KeyESC, res.Code)
}

func TestSoloKeyPassesThroughAfterChordWindowCloses(t *testing.T) {
	m := newTestManager()
	_, _ = m.HandlePress(keycode.KeyD)

	buf := buffer.New()
	m.Process(buf) // too soon: within the 10ms threshold, nothing yet
	_, tooSoon := buf.PopResult()
	assert.False(t, tooSoon)

	_, ok := m.HandleRelease(keycode.KeyD)
	require.True(t, ok)
	time.Sleep(15 * time.Millisecond)
	m.Process(buf)

	res, ok := buf.PopResult()
	require.True(t, ok)
	assert.Equal(t, result.Double, res.Kind)
	assert.Equal(t, result.Press, res.Double[0].Kind)
	assert.Equal(t, keycode.KeyD, res.Double[0].Code)
	assert.Equal(t, result.Release, res.Double[1].Kind)

	assert.False(t, buf.IsPendingKey(keycode.KeyD), "a solo-key resolution must clear the pending stall")
}

func TestHeldPastThresholdResolvesWithoutWaitingForKernelRepeat(t *testing.T) {
	m := newTestManager()
	_, _ = m.HandlePress(keycode.KeyD)
	time.Sleep(15 * time.Millisecond)

	buf := buffer.New()
	m.Process(buf)

	res, ok := buf.PopResult()
	require.True(t, ok, "a key held past the threshold must resolve solo even without a kernel auto-repeat event")
	assert.Equal(t, result.Press, res.Kind)
	assert.Equal(t, keycode.KeyD, res.Code)
	assert.False(t, buf.IsPendingKey(keycode.KeyD))
}
