package mt19937

import (
	"bytes"
	"time"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// Stream is a keystream cipher keyed by a 16-bit seed. Each generator output
// contributes four big-endian keystream bytes.
type Stream struct {
	mt  *MT
	buf [4]byte
	pos int
}

// NewStream creates a keystream for a 16-bit key.
func NewStream(seed uint16) *Stream {
	return newStream(uint32(seed))
}

func newStream(seed uint32) *Stream {
	return &Stream{mt: New(seed), pos: 4}
}

// Byte returns the next keystream byte.
func (s *Stream) Byte() byte {
	if s.pos == len(s.buf) {
		y := s.mt.Uint32()
		s.buf = [4]byte{byte(y >> 24), byte(y >> 16), byte(y >> 8), byte(y)}
		s.pos = 0
	}

	b := s.buf[s.pos]
	s.pos++

	return b
}

// Crypt XORs data with the keystream. Encryption and decryption are the same operation.
func (s *Stream) Crypt(data []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ s.Byte()
	}

	return out
}

// Encrypt encrypts data under a 16-bit seed from the start of the keystream.
func Encrypt(seed uint16, data []byte) []byte {
	return NewStream(seed).Crypt(data)
}

// RecoverStreamSeed brute-forces the 16-bit seed of a ciphertext whose
// plaintext is known to end with knownSuffix.
func RecoverStreamSeed(ciphertext, knownSuffix []byte) (uint16, error) {
	if len(knownSuffix) == 0 || len(knownSuffix) > len(ciphertext) {
		return 0, ErrNoKnownPlaintext
	}

	for seed := range 1 << 16 {
		pt := Encrypt(uint16(seed), ciphertext)
		if bytes.HasSuffix(pt, knownSuffix) {
			return uint16(seed), nil
		}
	}

	return 0, ErrSeedNotFound
}

// PrefixOracle returns an encryptor that prepends a random-length random
// prefix to its input before encrypting under a random 16-bit seed, and the
// seed for verification.
func PrefixOracle() (func([]byte) []byte, uint16) {
	seed := uint16(randutil.Intn(1 << 16))

	return func(known []byte) []byte {
		prefix := randutil.Bytes(randutil.Between(5, 40))

		return Encrypt(seed, append(prefix, known...))
	}, seed
}

// ResetToken produces a password reset token of size bytes from a generator seeded with the time.
func ResetToken(now time.Time, size int) []byte {
	s := newStream(uint32(now.Unix()))

	return s.Crypt(make([]byte, size))
}

// IsTimeSeededToken reports whether token was generated by ResetToken at
// some second within window of now.
func IsTimeSeededToken(token []byte, now time.Time, window time.Duration) bool {
	seconds := int64(window / time.Second)
	for delta := -seconds; delta <= seconds; delta++ {
		if bytes.Equal(ResetToken(now.Add(time.Duration(delta)*time.Second), len(token)), token) {
			return true
		}
	}

	return false
}
