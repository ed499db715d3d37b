package set1_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/sets/set1"
	"github.com/idelchi/cryptopals/internal/xor"
)

func TestFixedAnswers(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, n := range []int{1, 2, 3, 5} {
		res := challengetest.Run(t, challengetest.Find(t, set1.Challenges(), n), env)
		assert.NotEmpty(t, res.Output, "challenge %d", n)
	}
}

func TestHexToBase64(t *testing.T) {
	t.Parallel()

	got, err := set1.HexToBase64("4d616e")
	require.NoError(t, err)
	assert.Equal(t, "TWFu", got)

	_, err = set1.HexToBase64("zz")
	require.Error(t, err)
}

func TestDetectSingleByteXOR(t *testing.T) {
	t.Parallel()

	var lines []string
	for range 50 {
		lines = append(lines, hex.EncodeToString(randutil.Bytes(30)))
	}

	lines[17] = hex.EncodeToString(xor.Single([]byte("Now that the party is jumping\n"), '5'))

	env := challengetest.NewEnv(t, map[int]string{4: strings.Join(lines, "\n")})
	res := challengetest.Run(t, challengetest.Find(t, set1.Challenges(), 4), env)

	assert.Contains(t, res.Output, "line 18")
	assert.Contains(t, res.Output, "Now that the party is jumping")
}

func wrap(s string) string {
	var b strings.Builder

	for len(s) > 60 {
		b.WriteString(s[:60] + "\n")
		s = s[60:]
	}

	b.WriteString(s + "\n")

	return b.String()
}

func TestBreakRepeatingKeyXOR(t *testing.T) {
	t.Parallel()

	ct := xor.Repeating([]byte(challengetest.Lyrics), []byte("Terminator X: Bring the noise"))
	env := challengetest.NewEnv(t, map[int]string{6: wrap(base64.StdEncoding.EncodeToString(ct))})

	res := challengetest.Run(t, challengetest.Find(t, set1.Challenges(), 6), env)

	assert.Contains(t, res.Output, `"Terminator X: Bring the noise"`)
	assert.Contains(t, res.Output, "I'm back and I'm ringin' the bell")
}

func TestDecryptECB(t *testing.T) {
	t.Parallel()

	block := blockmode.MustAES([]byte(set1.Key))
	ct, err := blockmode.ECBEncrypt(block, padding.Pad([]byte(challengetest.Lyrics), 16))
	require.NoError(t, err)

	pt, err := set1.DecryptECB([]byte(set1.Key), ct)
	require.NoError(t, err)
	assert.Equal(t, challengetest.Lyrics, string(pt))

	env := challengetest.NewEnv(t, map[int]string{7: wrap(base64.StdEncoding.EncodeToString(ct))})
	res := challengetest.Run(t, challengetest.Find(t, set1.Challenges(), 7), env)
	assert.Equal(t, "I'm back and I'm ringin' the bell", res.Output)
}

func TestDetectECB(t *testing.T) {
	t.Parallel()

	block := blockmode.MustAES(randutil.Bytes(16))
	repeated, err := blockmode.ECBEncrypt(block, []byte(strings.Repeat("sixteen byte blk", 4)))
	require.NoError(t, err)

	var lines []string
	for range 20 {
		lines = append(lines, hex.EncodeToString(randutil.Bytes(160)))
	}

	lines[5] = hex.EncodeToString(repeated)

	cts := make([][]byte, len(lines))
	for i, line := range lines {
		cts[i], _ = hex.DecodeString(line)
	}

	assert.Equal(t, 5, set1.DetectECB(cts))

	env := challengetest.NewEnv(t, map[int]string{8: strings.Join(lines, "\n")})
	res := challengetest.Run(t, challengetest.Find(t, set1.Challenges(), 8), env)
	assert.Contains(t, res.Output, "line 6")
}

func TestMissingData(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, n := range []int{4, 6, 7, 8} {
		res := challengetest.Find(t, set1.Challenges(), n).Execute(context.Background(), env)
		require.ErrorIs(t, res.Err, challenge.ErrMissingData, "challenge %d", n)
	}
}
