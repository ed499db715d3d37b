// Package set4 covers stream crypto and randomness: CTR editing, keyed MACs,
// length extension and timing leaks.
package set4

import (
	"time"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/mdhash"
)

// Challenges returns the challenges of set 4.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 25, Title: "Break \"random access read/write\" AES CTR", Run: breakEditableCTR},
		{Number: 26, Title: "CTR bitflipping", Run: ctrBitflipping},
		{Number: 27, Title: "Recover the key from CBC with IV=Key", Run: keyAsIV},
		{Number: 28, Title: "Implement a SHA-1 keyed MAC", Run: sha1KeyedMAC},
		{Number: 29, Title: "Break a SHA-1 keyed MAC using length extension", Run: lengthExtension(mdhash.NewSHA1, mac.ExtendSHA1)},
		{Number: 30, Title: "Break an MD4 keyed MAC using length extension", Run: lengthExtension(mdhash.NewMD4, mac.ExtendMD4)},
		{Number: 31, Title: "Implement and break HMAC-SHA1 with an artificial timing leak", Slow: true, Run: timingLeak(50*time.Millisecond, 1)},
		{Number: 32, Title: "Break HMAC-SHA1 with a slightly less artificial timing leak", Slow: true, Run: timingLeak(5*time.Millisecond, 7)},
	}
}
