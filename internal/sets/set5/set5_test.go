package set5_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/dh"
	"github.com/idelchi/cryptopals/internal/sets/set5"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, c := range set5.Challenges() {
		res := challengetest.Run(t, c, env)
		assert.NotEmpty(t, res.Output, "challenge %d", c.Number)
	}
}

func TestKeyFixing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got, err := set5.KeyFixing(ctx, dh.NISTGroup(), []byte("attack at dawn"))
	require.NoError(t, err)

	assert.Equal(t, "attack at dawn", string(got.Echoed))
	require.Len(t, got.Captured, 2)
	assert.Equal(t, "attack at dawn", string(got.Captured[0]))
	assert.Equal(t, "attack at dawn", string(got.Captured[1]))
}

func TestMaliciousGenerator(t *testing.T) {
	t.Parallel()

	for name, forge := range map[string]set5.Generator{
		"one":         set5.GeneratorOne,
		"p":           set5.GeneratorP,
		"p minus one": set5.GeneratorPMinusOne,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// Repeat so both parities of the initiator's exponent show up for g = p-1.
			for range 8 {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

				got, err := set5.MaliciousGenerator(ctx, dh.NISTGroup(), []byte("retreat"), forge)

				cancel()
				require.NoError(t, err)
				assert.Equal(t, "retreat", string(got.Echoed))
				assert.Len(t, got.Captured, 2)
			}
		})
	}
}
