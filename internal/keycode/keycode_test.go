package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftedAndCustomClassification(t *testing.T) {
	assert.False(t, KeyA.IsShifted())
	assert.False(t, KeyA.IsCustom())

	shifted := ShiftedBase + Key1
	assert.True(t, shifted.IsShifted())
	assert.False(t, shifted.IsCustom())
	assert.Equal(t, Key1, shifted.Unshift())

	custom := CustomBase + 5
	assert.True(t, custom.IsCustom())
	assert.False(t, custom.IsShifted())
	assert.Equal(t, custom, custom.Unshift())
}

func TestKindFromValue(t *testing.T) {
	cases := []struct {
		value int32
		want  Kind
		ok    bool
	}{
		{0, Release, true},
		{1, Press, true},
		{2, Hold, true},
		{3, 0, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		kind, ok := KindFromValue(c.value)
		assert.Equal(t, c.ok, ok)
		if c.ok {
			assert.Equal(t, c.want, kind)
		}
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Press", Press.String())
	assert.Equal(t, "Hold", Hold.String())
	assert.Equal(t, "Release", Release.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
