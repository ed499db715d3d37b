package set3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/xor"
)

// Poem is used when no data file for challenge 19 or 20 is present.
const Poem = `I have met them at close of day
Coming with vivid faces
From counter or desk among grey
Eighteenth-century houses.
I have passed with a nod of the head
Or polite meaningless words,
Or have lingered awhile and said
Polite meaningless words,
And thought before I had done
Of a mocking tale or a gibe
To please a companion
Around the fire at the club,
Being certain that they and I
But lived where motley is worn:
All changed, changed utterly:
A terrible beauty is born.
That woman's days were spent
In ignorant good will,
Her nights in argument
Until her voice grew shrill.
What voice more sweet than hers
When young and beautiful,
She rode to harriers?
This man had kept a school
And rode our winged horse.
This other his helper and friend
Was coming into his force;
He might have won fame in the end,
So sensitive his nature seemed,
So daring and sweet his thought.
This other man I had dreamed
A drunken, vain-glorious lout.
He had done most bitter wrong
To some who are near my heart,
Yet I number him in the song;
He, too, has resigned his part
In the casual comedy;
He, too, has been changed in his turn,
Transformed utterly:
A terrible beauty is born.`

// trigrams are common English letter triples, compared case-insensitively.
//
//nolint:gochecknoglobals
var trigrams = map[string]bool{
	"the": true, "and": true, "ing": true, "her": true, "hat": true, "his": true,
	"tha": true, "ere": true, "for": true, "ent": true, "ion": true, "ter": true,
	"was": true, "you": true, "ith": true, "ver": true, "all": true, "wit": true,
	"thi": true, "tio": true, "nde": true, "has": true, "nce": true, "men": true,
	"in ": true, "ed ": true, "he ": true, "er ": true, "es ": true, "ng ": true,
	"re ": true, "nd ": true, "at ": true, "on ": true, "is ": true, "ly ": true,
	"of ": true, " th": true, " an": true, " he": true, " in": true, " a ": true,
	" wh": true, " ha": true, " to": true,
}

const trigramWeight = 0.1

// lineStart favours capitals, since each ciphertext starts a line of verse.
func lineStart(b byte) float64 {
	if b >= 'A' && b <= 'Z' {
		return xor.ByteScore(b+'a'-'A') * 1.1
	}

	return xor.ByteScore(b)
}

// BreakFixedNonce recovers the keystream shared by ciphertexts encrypted under
// one CTR nonce. Each column is scored as single-byte XOR, with a bonus for
// plaintexts that extend the previous two recovered bytes into a common
// trigram. Columns covered by only a few ciphertexts stay unreliable.
func BreakFixedNonce(cts [][]byte) []byte {
	longest := 0
	for _, ct := range cts {
		longest = max(longest, len(ct))
	}

	ks := make([]byte, longest)

	for i := range longest {
		best := -1e18

		for k := range 256 {
			score := 0.0

			for _, ct := range cts {
				if len(ct) <= i {
					continue
				}

				b := ct[i] ^ byte(k)
				if i == 0 {
					score += lineStart(b)
				} else {
					score += xor.ByteScore(b)
				}

				if i >= 2 {
					tri := []byte{ct[i-2] ^ ks[i-2], ct[i-1] ^ ks[i-1], b}
					if trigrams[strings.ToLower(string(tri))] {
						score += trigramWeight
					}
				}
			}

			if score > best {
				best, ks[i] = score, byte(k)
			}
		}
	}

	return ks
}

// BreakTruncated truncates every ciphertext to the shortest and breaks the
// concatenation as repeating-key XOR with that key size.
func BreakTruncated(cts [][]byte) []byte {
	shortest := len(cts[0])
	for _, ct := range cts {
		shortest = min(shortest, len(ct))
	}

	var joined []byte
	for _, ct := range cts {
		joined = append(joined, ct[:shortest]...)
	}

	key := xor.BreakWithKeySize(joined, shortest)

	// Line starts are capitals, which plain English scoring reads as lower case.
	best := -1e18

	for k := range 256 {
		score := 0.0
		for _, ct := range cts {
			score += lineStart(ct[0] ^ byte(k))
		}

		if score > best {
			best, key[0] = score, byte(k)
		}
	}

	return key
}

// EncryptFixedNonce encrypts every plaintext under one random key and nonce 0.
func EncryptFixedNonce(pts [][]byte) [][]byte {
	block := blockmode.MustAES(randutil.Bytes(16))

	cts := make([][]byte, len(pts))
	for i, pt := range pts {
		cts[i] = blockmode.CTRCrypt(block, 0, pt)
	}

	return cts
}

// fixedNonceInput reads base64 plaintexts for challenge n, falling back to
// the embedded lines, and encrypts them under a shared nonce.
func fixedNonceInput(env *challenge.Env, n int, fallback []string) ([][]byte, error) {
	pts, err := env.Data.Base64Lines(n)
	if err == nil {
		return EncryptFixedNonce(pts), nil
	}

	if !errors.Is(err, challenge.ErrMissingData) {
		return nil, err
	}

	env.Logger.Debug("using embedded plaintexts", "lines", len(fallback))

	pts = make([][]byte, len(fallback))
	for i, line := range fallback {
		pts[i] = []byte(line)
	}

	return EncryptFixedNonce(pts), nil
}

func fixedNonceSubstitutions(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	cts, err := fixedNonceInput(env, 19, strings.Split(Poem, "\n"))
	if err != nil {
		return nil, err
	}

	return fixedNonceResult(cts, BreakFixedNonce(cts)), nil
}

func fixedNonceStatistics(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	cts, err := fixedNonceInput(env, 20, strings.Split(Poem, "\n"))
	if err != nil {
		return nil, err
	}

	return fixedNonceResult(cts, BreakTruncated(cts)), nil
}

func fixedNonceResult(cts [][]byte, ks []byte) *challenge.Result {
	var out bytes.Buffer

	recovered := 0

	for _, ct := range cts {
		n := min(len(ct), len(ks))
		recovered += n

		if out.Len() == 0 {
			pt, _ := xor.Fixed(ct[:n], ks[:n])
			out.Write(pt)
		}
	}

	return &challenge.Result{
		Output:    fmt.Sprintf("%d ciphertexts, keystream %d bytes, first %q", len(cts), len(ks), out.String()),
		Recovered: recovered,
	}
}
