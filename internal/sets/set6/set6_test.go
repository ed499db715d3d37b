package set6_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/dsa"
	"github.com/idelchi/cryptopals/internal/sets/set6"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, c := range set6.Challenges() {
		if c.Slow {
			continue
		}

		res := challengetest.Run(t, c, env)
		assert.NotEmpty(t, res.Output, "challenge %d", c.Number)
	}
}

func TestWeakNonce(t *testing.T) {
	t.Parallel()

	res := challengetest.Run(t, challengetest.Find(t, set6.Challenges(), 43), challengetest.NewEnv(t, nil))
	assert.Contains(t, res.Output, "k=16575")
}

func TestRecoverFromLog(t *testing.T) {
	t.Parallel()

	priv := dsa.GenerateKey(dsa.DefaultParams())

	log, err := set6.SignedLog(priv, []string{"one", "two", "three", "four"})
	require.NoError(t, err)

	msgs, err := dsa.ParseSignedMessages(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	x, err := set6.RecoverFromLog(&priv.PublicKey, msgs)
	require.NoError(t, err)
	assert.Equal(t, priv.X, x)

	_, err = set6.RecoverFromLog(&priv.PublicKey, msgs[:1])
	require.ErrorIs(t, err, dsa.ErrNonceNotFound)
}

func TestRepeatedNonceFromData(t *testing.T) {
	t.Parallel()

	priv := dsa.GenerateKey(dsa.DefaultParams())

	log, err := set6.SignedLog(priv, []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	// The recorded key does not match this log, so recovery must notice.
	env := challengetest.NewEnv(t, map[int]string{44: log})

	res := challengetest.Find(t, set6.Challenges(), 44).Execute(context.Background(), env)
	require.Error(t, res.Err)
}

func TestBreakPadding(t *testing.T) {
	t.Parallel()

	res, err := set6.BreakPadding(context.Background(), 256, []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Output)
	assert.Positive(t, res.Queries)
}
