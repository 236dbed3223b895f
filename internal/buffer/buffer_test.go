package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillaja/remapd/internal/keycode"
	"github.com/quillaja/remapd/internal/result"
)

func TestResultQueueFIFO(t *testing.T) {
	b := New()
	b.PushResult(result.PressResult(keycode.KeyA))
	b.PushResult(result.ReleaseResult(keycode.KeyA))

	first, ok := b.PopResult()
	assert.True(t, ok)
	assert.Equal(t, result.Press, first.Kind)

	second, ok := b.PopResult()
	assert.True(t, ok)
	assert.Equal(t, result.Release, second.Kind)

	_, ok = b.PopResult()
	assert.False(t, ok)
}

func TestResultQueueDropsOldestOnOverflow(t *testing.T) {
	b := New()
	for i := 0; i < resultsCapacity+2; i++ {
		b.PushResult(result.PressResult(keycode.Code(i)))
	}

	first, ok := b.PopResult()
	assert.True(t, ok)
	assert.Equal(t, keycode.Code(2), first.Code, "the two oldest pushes should have been dropped")
}

func TestPendingKeys(t *testing.T) {
	b := New()
	assert.False(t, b.HasPendingKeys())
	assert.False(t, b.IsPendingKey(keycode.KeyA))

	b.SetPendingKey(keycode.KeyA)
	assert.True(t, b.HasPendingKeys())
	assert.True(t, b.IsPendingKey(keycode.KeyA))
	assert.False(t, b.IsPendingKey(keycode.KeyB))

	b.ClearPendingKey(keycode.KeyA)
	assert.False(t, b.HasPendingKeys())
}

func TestPendingKeysBoundedCapacity(t *testing.T) {
	b := New()
	for i := 0; i < pendingCapacity+3; i++ {
		b.SetPendingKey(keycode.Code(i))
	}
	assert.LessOrEqual(t, len(b.pending), pendingCapacity)
}

func TestDeferredKeyQueue(t *testing.T) {
	b := New()
	b.DeferKey(keycode.KeyA)
	b.DeferKey(keycode.KeyB)

	code, ok := b.PopDeferredKey()
	assert.True(t, ok)
	assert.Equal(t, keycode.KeyA, code)

	code, ok = b.PopDeferredKey()
	assert.True(t, ok)
	assert.Equal(t, keycode.KeyB, code)

	_, ok = b.PopDeferredKey()
	assert.False(t, ok)
}

func TestScratchQueue(t *testing.T) {
	b := New()
	b.PushScratch(3)
	b.PushScratch(7)

	v, ok := b.PopScratch()
	assert.True(t, ok)
	assert.Equal(t, uint16(3), v)

	v, ok = b.PopScratch()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), v)

	_, ok = b.PopScratch()
	assert.False(t, ok)
}
