package mdcollide_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/mdcollide"
	"github.com/idelchi/cryptopals/internal/randutil"
)

func TestPad(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 7, 8, 15, 16, 31} {
		padded := mdcollide.Pad(make([]byte, n))
		assert.Zero(t, len(padded)%mdcollide.BlockSize, n)
		assert.Equal(t, byte(0x80), padded[n], n)
		assert.Equal(t, byte(n*8), padded[len(padded)-1], n)
	}
}

func TestSumIsDeterministic(t *testing.T) {
	t.Parallel()

	h := mdcollide.New(2)
	msg := []byte("YELLOW SUBMARINE")

	assert.Equal(t, h.Sum(msg), h.Sum(msg))
	assert.Len(t, h.Sum(msg), 2)
	assert.NotEqual(t, h.Sum(msg), h.Sum(append(msg, 0)))
}

func TestMultiCollisions(t *testing.T) {
	t.Parallel()

	h := mdcollide.New(2)
	msgs := mdcollide.MultiCollisions(h, 4).Messages()
	require.Len(t, msgs, 16)

	want := h.Sum(msgs[0])
	seen := make(map[string]bool)

	for _, m := range msgs {
		assert.Equal(t, want, h.Sum(m))
		seen[string(m)] = true
	}

	assert.Len(t, seen, 16)
}

func TestCascade(t *testing.T) {
	t.Parallel()

	f, g := mdcollide.New(2), mdcollide.New(3)

	a, b, err := mdcollide.Cascade(context.Background(), f, g)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, f.Sum(a), f.Sum(b))
	assert.Equal(t, g.Sum(a), g.Sum(b))
}

func TestExpandable(t *testing.T) {
	t.Parallel()

	h := mdcollide.New(2)
	e := mdcollide.NewExpandable(h, 4)

	for blocks := 4; blocks < 4+16; blocks++ {
		msg, err := e.Message(blocks)
		require.NoError(t, err)
		assert.Len(t, msg, blocks*mdcollide.BlockSize)
		assert.Equal(t, e.State, h.Iterate(h.H0, msg))
	}

	_, err := e.Message(3)
	require.ErrorIs(t, err, mdcollide.ErrLength)

	_, err = e.Message(20)
	require.ErrorIs(t, err, mdcollide.ErrLength)
}

func TestSecondPreimage(t *testing.T) {
	t.Parallel()

	h := mdcollide.New(2)
	msg := randutil.Bytes(mdcollide.BlockSize << 8)

	forged, err := mdcollide.SecondPreimage(h, msg, 8)
	require.NoError(t, err)
	assert.Len(t, forged, len(msg))
	assert.False(t, bytes.Equal(forged, msg))
	assert.Equal(t, h.Sum(msg), h.Sum(forged))

	_, err = mdcollide.SecondPreimage(h, msg[:100], 8)
	require.ErrorIs(t, err, mdcollide.ErrLength)
}

func TestNostradamus(t *testing.T) {
	t.Parallel()

	h := mdcollide.New(2)
	d := mdcollide.Nostradamus(h, 6, 2)

	prefix := []byte("Final score 3:1 for the home team")[:2*mdcollide.BlockSize]

	forged, err := d.Forge(prefix)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(forged, prefix))
	assert.Equal(t, d.Prediction, h.Sum(forged))

	_, err = d.Forge([]byte("short"))
	require.ErrorIs(t, err, mdcollide.ErrLength)
}
