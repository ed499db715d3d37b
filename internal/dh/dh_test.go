package dh_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/cryptopals/internal/dh"
	"github.com/idelchi/cryptopals/internal/wire"
)

func TestSharedSecretAgrees(t *testing.T) {
	t.Parallel()

	for _, group := range []dh.Group{dh.ToyGroup(), dh.NISTGroup()} {
		a, b := group.GenerateKey(), group.GenerateKey()

		s1 := group.Shared(a.Private, b.Public)
		s2 := group.Shared(b.Private, a.Public)

		assert.Equal(t, 0, s1.Cmp(s2))
		assert.Len(t, dh.DeriveKey(s1), dh.KeySize)
	}

	assert.Equal(t, 1536, dh.NISTGroup().P.BitLen())
}

func TestGenerateKeyRespectsOrder(t *testing.T) {
	t.Parallel()

	group := dh.ToyGroup()
	group.Q = big.NewInt(36)

	for range 100 {
		k := group.GenerateKey()
		assert.Positive(t, k.Private.Sign())
		assert.Negative(t, k.Private.Cmp(group.Q))
	}
}

func TestSealOpen(t *testing.T) {
	t.Parallel()

	key := dh.DeriveKey(big.NewInt(12345))

	ct, iv, err := dh.Seal(key, []byte("attack at dawn"))
	require.NoError(t, err)

	pt, err := dh.Open(key, ct, iv)
	require.NoError(t, err)
	assert.Equal(t, "attack at dawn", string(pt))
}

func TestEchoProtocol(t *testing.T) {
	t.Parallel()

	for _, mode := range []dh.Mode{dh.Combined, dh.Negotiated} {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		a, b := wire.Pipe()

		var received []byte

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			received, err = dh.Respond(ctx, b, mode)

			return err
		})

		echo, err := dh.Initiate(ctx, a, dh.NISTGroup(), mode, []byte("hello bob"))
		require.NoError(t, err)
		require.NoError(t, g.Wait())

		assert.Equal(t, "hello bob", string(echo))
		assert.Equal(t, "hello bob", string(received))
	}
}
