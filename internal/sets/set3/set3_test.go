package set3_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/sets/set3"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, c := range set3.Challenges() {
		res := challengetest.Run(t, c, env)
		assert.NotEmpty(t, res.Output, "challenge %d", c.Number)
	}
}

func TestBreakPaddingOracle(t *testing.T) {
	t.Parallel()

	server := set3.NewPaddingServer()

	for _, want := range []string{"", "short", "exactly sixteen!", strings.Repeat("multi block plaintext ", 4)} {
		iv, ct := server.Encrypt([]byte(want))

		got, err := set3.BreakPaddingOracle(context.Background(), iv, ct, server.ValidPadding)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	assert.Positive(t, server.Queries())
}

func TestBreakPaddingOracleRejectsUnaligned(t *testing.T) {
	t.Parallel()

	server := set3.NewPaddingServer()

	_, err := set3.BreakPaddingOracle(context.Background(), make([]byte, 16), make([]byte, 15), server.ValidPadding)
	require.Error(t, err)
}

func TestBreakFixedNonce(t *testing.T) {
	t.Parallel()

	lines := strings.Split(set3.Poem, "\n")
	pts := make([][]byte, len(lines))

	for i, line := range lines {
		pts[i] = []byte(line)
	}

	cts := set3.EncryptFixedNonce(pts)
	ks := set3.BreakFixedNonce(cts)

	// Columns shared by most lines are exact; the tail has too few samples.
	const reliable = 26

	for i, ct := range cts {
		n := min(len(ct), reliable)

		got := make([]byte, n)
		for j := range n {
			got[j] = ct[j] ^ ks[j]
		}

		assert.Equal(t, lines[i][:n], string(got), "line %d", i)
	}
}

func TestBreakTruncated(t *testing.T) {
	t.Parallel()

	lines := strings.Split(set3.Poem, "\n")

	var encoded []string

	pts := make([][]byte, len(lines))
	for i, line := range lines {
		pts[i] = []byte(line)
		encoded = append(encoded, base64.StdEncoding.EncodeToString(pts[i]))
	}

	cts := set3.EncryptFixedNonce(pts)
	key := set3.BreakTruncated(cts)

	require.Len(t, key, 20)

	for i, ct := range cts {
		got := make([]byte, len(key))
		for j := range key {
			got[j] = ct[j] ^ key[j]
		}

		assert.Equal(t, lines[i][:len(key)], string(got), "line %d", i)
	}

	env := challengetest.NewEnv(t, map[int]string{20: strings.Join(encoded, "\n")})
	res := challengetest.Run(t, challengetest.Find(t, set3.Challenges(), 20), env)
	assert.Contains(t, res.Output, "I have met them at c")
}

func TestCrackTimeSeed(t *testing.T) {
	t.Parallel()

	clock := set3.NewClock(time.Unix(1_700_000_000, 0))
	out, seed := set3.TimeSeeded(clock)

	assert.Greater(t, clock.Now().Unix(), int64(seed))

	got, err := set3.CrackTimeSeed(out, clock.Now(), 2000*time.Second)
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}
