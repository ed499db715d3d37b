package xor_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/xor"
)

const lyrics = `I'm back and I'm ringin' the bell
A rockin' on the mike while the fly girls yell
In ecstasy in the back of me
Well that's my DJ Deshay cuttin' all them Z's
Hittin' hard and the girlies goin' crazy
Vanilla's on the mike, man I'm not lazy.
I'm lettin' my drug kick in
It controls my mouth and I begin
To just let it flow, let my concepts go
My posse's to the side yellin', Go Vanilla Go!
Smooth 'cause that's the way I will be
And if you don't give a damn, then
Why you starin' at me
So get off 'cause I control the stage
There's no dissin' allowed
`

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func TestFixed(t *testing.T) {
	t.Parallel()

	got, err := xor.Fixed(
		mustHex(t, "1c0111001f010100061a024b53535009181c"),
		mustHex(t, "686974207468652062756c6c277320657965"),
	)
	require.NoError(t, err)
	assert.Equal(t, "746865206b696420646f6e277420706c6179", hex.EncodeToString(got))

	_, err = xor.Fixed([]byte("ab"), []byte("a"))
	require.ErrorIs(t, err, xor.ErrLengthMismatch)
}

func TestRepeating(t *testing.T) {
	t.Parallel()

	msg := "Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal"
	want := "0b3637272a2b2e63622c2e69692a23693a2a3c6324202d623d63343c2a26226324272765272a282b2f20430a652e2c652a3124333a653e2b2027630c692b20283165286326302e27282f"

	assert.Equal(t, want, hex.EncodeToString(xor.Repeating([]byte(msg), []byte("ICE"))))
	assert.Equal(t, []byte("abc"), xor.Repeating([]byte("abc"), nil))
}

func TestBreakSingle(t *testing.T) {
	t.Parallel()

	ct := mustHex(t, "1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736")
	got := xor.BreakSingle(ct)

	assert.Equal(t, byte('X'), got.Key)
	assert.Equal(t, "Cooking MC's like a pound of bacon", string(got.Plaintext))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	noise := [][]byte{
		mustHex(t, "0e3647e8592d35514a081243582536ed3de6734059001e3f535ce6271032"),
		mustHex(t, "334b041de124f73c18011a50e608097ac308ecee501337ec3e100854201d"),
		xor.Single([]byte("Now that the party is jumping\n"), 0x35),
		mustHex(t, "40e127f51c1b4e5f4a0d4a5d1e2c2b5f0f4e1f03314e5a365c422b2c7d43"),
	}

	got, err := xor.Detect(noise)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, byte(0x35), got.Key)

	_, err = xor.Detect(nil)
	require.ErrorIs(t, err, xor.ErrEmptyInput)
}

func TestHamming(t *testing.T) {
	t.Parallel()

	d, err := xor.Hamming([]byte("this is a test"), []byte("wokka wokka!!!"))
	require.NoError(t, err)
	assert.Equal(t, 37, d)
}

func TestBreakRepeating(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"ICE", "Code", "secret key", "YELLOW SUBMARINE", "Terminator X: Bring the noise"} {
		got, err := xor.BreakRepeating(xor.Repeating([]byte(lyrics), []byte(key)))
		require.NoError(t, err)
		assert.Equal(t, key, string(got.Key))
		assert.Equal(t, lyrics, string(got.Plaintext))
	}
}

func TestScorePrefersEnglish(t *testing.T) {
	t.Parallel()

	assert.Greater(t, xor.Score([]byte("the quick brown fox")), xor.Score([]byte("zq\x01\x02\xff\xfe jx")))
}
