package addon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/vmath"
)

func TestNewVisualKeypressCachesRandomness(t *testing.T) {
	kp := NewVisualKeypress(30, Right, 50)
	assert.Equal(t, uint8(50), kp.Life)
	assert.True(t, kp.Alive)
	assert.Equal(t, Right, kp.Side)
	assert.Equal(t, vmath.Rand(30), kp.Rand0)
	assert.Equal(t, vmath.Rand(80), kp.Rand1)
}

func TestKeypressRandWrapsKeycode(t *testing.T) {
	kp := NewVisualKeypress(0xFFFF, Left, 10)
	assert.Equal(t, vmath.Rand(49), kp.Rand1)
}

func TestDecayRemovesExpired(t *testing.T) {
	var k Keypresses
	k.Push(NewVisualKeypress(1, Left, 3))
	k.Push(NewVisualKeypress(2, Left, 5))

	assert.Equal(t, 0, k.Decay(1))
	assert.Equal(t, uint8(2), k.All()[0].Life)
	assert.Equal(t, 0, k.Decay(1))
	assert.Equal(t, 1, k.Decay(1))
	require.Equal(t, 1, k.Len())
	assert.Equal(t, uint16(2), k.All()[0].Keycode)
	assert.Equal(t, uint8(2), k.All()[0].Life)

	k.Decay(1)
	k.Decay(1)
	assert.Equal(t, 0, k.Len())
}

func TestDecayLifeStrictlyDecreases(t *testing.T) {
	var k Keypresses
	k.Push(NewVisualKeypress(9, Left, 20))
	prev := k.All()[0].Life
	for k.Len() > 0 {
		k.Decay(1)
		if k.Len() > 0 {
			require.Less(t, k.All()[0].Life, prev)
			prev = k.All()[0].Life
		}
	}
}

func TestPushEvictsOldestAtCapacity(t *testing.T) {
	var k Keypresses
	for i := 0; i < KeypressCapacity; i++ {
		assert.False(t, k.Push(NewVisualKeypress(uint16(i), Left, 10)))
	}
	require.Equal(t, KeypressCapacity, k.Len())

	assert.True(t, k.Push(NewVisualKeypress(1000, Left, 10)))
	assert.Equal(t, KeypressCapacity, k.Len())
	all := k.All()
	assert.Equal(t, uint16(1), all[0].Keycode)
	assert.Equal(t, uint16(1000), all[KeypressCapacity-1].Keycode)
}

func TestPushIgnoresDeadKeypress(t *testing.T) {
	var k Keypresses
	k.Push(NewVisualKeypress(1, Left, 0))
	assert.Equal(t, 0, k.Len())
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("Right")
	require.NoError(t, err)
	assert.Equal(t, Right, s)
	_, err = ParseSide("up")
	assert.Error(t, err)
}
