package mac_test

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // reference implementation
	"crypto/sha256"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/mdhash"
	"github.com/idelchi/cryptopals/internal/randutil"
)

const cookie = "comment1=cooking%20MCs;userdata=foo;comment2=%20like%20a%20pound%20of%20bacon"

func TestSecretPrefix(t *testing.T) {
	t.Parallel()

	key := []byte("YELLOW SUBMARINE")
	tag := mac.SecretPrefix(mdhash.NewSHA1, key, []byte(cookie))

	assert.True(t, mac.VerifySecretPrefix(mdhash.NewSHA1, key, []byte(cookie), tag))
	assert.False(t, mac.VerifySecretPrefix(mdhash.NewSHA1, key, []byte(cookie+"x"), tag))
	assert.False(t, mac.VerifySecretPrefix(mdhash.NewSHA1, []byte("other"), []byte(cookie), tag))
}

func TestHMACMatchesStandardLibrary(t *testing.T) {
	t.Parallel()

	for _, newHash := range []func() hash.Hash{sha1.New, sha256.New, mdhash.NewSHA1} {
		for _, keyLen := range []int{0, 16, 64, 100} {
			key := randutil.Bytes(keyLen)
			msg := randutil.Bytes(77)

			ref := hmac.New(newHash, key)
			_, _ = ref.Write(msg)

			assert.Equal(t, ref.Sum(nil), mac.HMAC(newHash, key, msg))
		}
	}
}

func TestLengthExtension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		newHash  func() hash.Hash
		extender func([]byte, []byte, int, []byte) (mac.Forgery, error)
	}{
		{"sha1", mdhash.NewSHA1, mac.ExtendSHA1},
		{"md4", mdhash.NewMD4, mac.ExtendMD4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			key := randutil.Bytes(randutil.Between(4, 32))
			tag := mac.SecretPrefix(tc.newHash, key, []byte(cookie))

			verify := func(msg, tag []byte) bool { return mac.VerifySecretPrefix(tc.newHash, key, msg, tag) }

			forged, keyLen, err := mac.ForgeExtension(tc.extender, []byte(cookie), tag, []byte(";admin=true"), 64, verify)
			require.NoError(t, err)
			assert.Len(t, key, keyLen)
			assert.Contains(t, string(forged.Message), ";admin=true")
			assert.Equal(t, []byte(cookie), forged.Message[:len(cookie)])

			_, _, err = mac.ForgeExtension(tc.extender, []byte(cookie), tag, []byte(";admin=true"), 2, verify)
			require.ErrorIs(t, err, mac.ErrForgeryRejected)
		})
	}
}
