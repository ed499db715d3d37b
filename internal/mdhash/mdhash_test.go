package mdhash_test

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // reference implementation
	"encoding/hex"
	"hash"
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/md4" //nolint:staticcheck // reference implementation

	"github.com/idelchi/cryptopals/internal/mdhash"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Case is a single known-answer vector.
type Case struct {
	Input  string `yaml:"input"`
	Digest string `yaml:"digest"`
}

// Group holds the vectors for one hash.
type Group struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

//nolint:gochecknoglobals
var constructors = map[string]func() hash.Hash{
	"sha1": mdhash.NewSHA1,
	"md4":  mdhash.NewMD4,
}

func TestKnownAnswers(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/vectors.yml")
	require.NoError(t, err)

	var groups []Group
	require.NoError(t, yaml.Unmarshal(data, &groups))
	require.Len(t, groups, len(constructors))

	for _, g := range groups {
		newHash, ok := constructors[g.Name]
		require.True(t, ok, g.Name)

		for _, tc := range g.Cases {
			t.Run(g.Name+"/"+tc.Input, func(t *testing.T) {
				t.Parallel()

				h := newHash()
				_, _ = h.Write([]byte(tc.Input))
				assert.Equal(t, tc.Digest, hex.EncodeToString(h.Sum(nil)))
			})
		}
	}
}

func TestMatchesReference(t *testing.T) {
	t.Parallel()

	references := map[string]func() hash.Hash{
		"sha1": sha1.New,
		"md4":  md4.New,
	}

	for name, newRef := range references {
		for _, size := range []int{0, 1, 55, 56, 63, 64, 65, 119, 120, 1000} {
			msg := randutil.Bytes(size)

			ours, ref := constructors[name](), newRef()

			// Split writes exercise the partial-block buffer.
			_, _ = ours.Write(msg[:size/3])
			_, _ = ours.Write(msg[size/3:])
			_, _ = ref.Write(msg)

			assert.Equal(t, ref.Sum(nil), ours.Sum(nil), "%s %d bytes", name, size)
		}
	}
}

func TestSumDoesNotChangeState(t *testing.T) {
	t.Parallel()

	h := mdhash.NewSHA1()
	_, _ = h.Write([]byte("ab"))
	_ = h.Sum(nil)
	_, _ = h.Write([]byte("c"))

	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(h.Sum(nil)))
}

func TestResumeFromDigest(t *testing.T) {
	t.Parallel()

	msg := []byte("comment1=cooking%20MCs;userdata=foo")
	extension := []byte(";admin=true")

	cases := []struct {
		name    string
		sum     func([]byte) []byte
		padding func(uint64) []byte
		resume  func([]byte, uint64) (hash.Hash, error)
	}{
		{"sha1", mdhash.SHA1, mdhash.SHA1Padding, mdhash.SHA1FromDigest},
		{"md4", mdhash.MD4, mdhash.MD4Padding, mdhash.MD4FromDigest},
	}

	for _, tc := range cases {
		glued := append(append(bytes.Clone(msg), tc.padding(uint64(len(msg)))...), extension...)

		h, err := tc.resume(tc.sum(msg), uint64(len(msg))+uint64(len(tc.padding(uint64(len(msg))))))
		require.NoError(t, err)

		_, _ = h.Write(extension)
		assert.Equal(t, tc.sum(glued), h.Sum(nil), tc.name)

		_, err = tc.resume(tc.sum(msg), 3)
		require.ErrorIs(t, err, mdhash.ErrUnalignedLength)

		_, err = tc.resume([]byte{1, 2}, 64)
		require.ErrorIs(t, err, mdhash.ErrStateSize)
	}
}

func TestPaddingLength(t *testing.T) {
	t.Parallel()

	for n := range uint64(200) {
		assert.Zero(t, (n+uint64(len(mdhash.SHA1Padding(n))))%mdhash.BlockSize)
	}

	assert.Equal(t, byte(8), mdhash.MD4Padding(1)[55])
	assert.Equal(t, byte(8), mdhash.SHA1Padding(1)[62])
}
