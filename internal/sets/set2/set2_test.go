package set2_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/sets/set2"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, n := range []int{9, 11, 12, 13, 14, 15, 16} {
		res := challengetest.Run(t, challengetest.Find(t, set2.Challenges(), n), env)
		assert.NotEmpty(t, res.Output, "challenge %d", n)
	}
}

func TestDecryptCBC(t *testing.T) {
	t.Parallel()

	iv := make([]byte, 16)
	block := blockmode.MustAES([]byte(set2.Key))

	ct, err := blockmode.CBCEncrypt(block, iv, padding.Pad([]byte(challengetest.Lyrics), 16))
	require.NoError(t, err)

	pt, err := set2.DecryptCBC([]byte(set2.Key), iv, ct)
	require.NoError(t, err)
	assert.Equal(t, challengetest.Lyrics, string(pt))

	env := challengetest.NewEnv(t, map[int]string{10: base64.StdEncoding.EncodeToString(ct)})
	res := challengetest.Run(t, challengetest.Find(t, set2.Challenges(), 10), env)
	assert.Equal(t, "I'm back and I'm ringin' the bell", res.Output)
}

func TestDetectMode(t *testing.T) {
	t.Parallel()

	for range 50 {
		var actual set2.Mode

		guess, err := set2.DetectMode(func(in []byte) ([]byte, error) {
			ct, mode, err := set2.EncryptionOracle(in)
			actual = mode

			return ct, err
		})
		require.NoError(t, err)
		assert.Equal(t, actual, guess)
	}
}

func TestMeasureLayout(t *testing.T) {
	t.Parallel()

	for _, prefix := range []int{0, 1, 15, 16, 17, 37} {
		secret := randutil.Bytes(23)
		oracle := set2.NewPrefixedECBOracle(randutil.Bytes(prefix), secret)

		layout, err := set2.MeasureLayout(oracle.Encrypt)
		require.NoError(t, err)
		assert.Equal(t, set2.Layout{BlockSize: 16, Prefix: prefix, Secret: 23}, layout, "prefix %d", prefix)
	}
}

func TestBreakECB(t *testing.T) {
	t.Parallel()

	secret := []byte("attack at dawn; bring snacks and a second block of text")

	for _, prefix := range [][]byte{nil, randutil.Bytes(5), bytes.Repeat([]byte{'A'}, 16), randutil.Bytes(33)} {
		oracle := set2.NewPrefixedECBOracle(prefix, secret)

		got, err := set2.BreakECB(context.Background(), oracle.Encrypt)
		require.NoError(t, err)
		assert.Equal(t, string(secret), string(got), "prefix %d", len(prefix))
	}
}

func TestBreakECBRejectsCBC(t *testing.T) {
	t.Parallel()

	block := blockmode.MustAES(randutil.Bytes(16))
	cbc := func(in []byte) []byte {
		ct, err := blockmode.CBCEncrypt(block, randutil.Bytes(16), padding.Pad(in, 16))
		require.NoError(t, err)

		return ct
	}

	_, err := set2.BreakECB(context.Background(), cbc)
	require.ErrorIs(t, err, set2.ErrNotECB)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "email=foo@bar.com&uid=10&role=user", set2.ProfileFor("foo@bar.com"))
	assert.Equal(t, "email=foo@bar.comroleadmin&uid=10&role=user", set2.ProfileFor("foo@bar.com&role=admin"))

	fields := set2.Parse("foo=bar&baz=qux&zap=zazzle")
	assert.Equal(t, []set2.Field{{"foo", "bar"}, {"baz", "qux"}, {"zap", "zazzle"}}, fields)
	assert.Equal(t, "foo=bar&baz=qux&zap=zazzle", set2.Encode(fields))

	svc := set2.NewProfileService()

	forged, err := svc.Decrypt(set2.ForgeAdmin(svc.Encrypt))
	require.NoError(t, err)

	role, ok := set2.Lookup(forged, "role")
	require.True(t, ok)
	assert.Equal(t, "admin", role)
}

func TestBitflipping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "%3Badmin%3Dtrue%3B", set2.Quote(";admin=true;"))

	svc := set2.NewCookieService()

	admin, err := svc.IsAdmin(svc.Encrypt(";admin=true;"))
	require.NoError(t, err)
	assert.False(t, admin)

	admin, err = svc.IsAdmin(set2.FlipCBC(svc.Encrypt, len(set2.CommentPrefix)))
	require.NoError(t, err)
	assert.True(t, admin)
}
