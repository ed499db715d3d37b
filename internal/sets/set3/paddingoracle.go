package set3

import (
	"context"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"sync/atomic"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Strings are the plaintexts behind the padding oracle.
//
//nolint:gochecknoglobals
var Strings = []string{
	"MDAwMDAwTm93IHRoYXQgdGhlIHBhcnR5IGlzIGp1bXBpbmc=",
	"MDAwMDAxV2l0aCB0aGUgYmFzcyBraWNrZWQgaW4gYW5kIHRoZSBWZWdhJ3MgYXJlIHB1bXBpbic=",
	"MDAwMDAyUXVpY2sgdG8gdGhlIHBvaW50LCB0byB0aGUgcG9pbnQsIG5vIGZha2luZw==",
	"MDAwMDAzQ29va2luZyBNQydzIGxpa2UgYSBwb3VuZCBvZiBiYWNvbg==",
	"MDAwMDA0QnVybmluZyAnZW0sIGlmIHlvdSBhaW4ndCBxdWljayBhbmQgbmltYmxl",
	"MDAwMDA1SSBnbyBjcmF6eSB3aGVuIEkgaGVhciBhIGN5bWJhbA==",
	"MDAwMDA2QW5kIGEgaGlnaCBoYXQgd2l0aCBhIHNvdXBlZCB1cCB0ZW1wbw==",
	"MDAwMDA3SSdtIG9uIGEgcm9sbCwgaXQncyB0aW1lIHRvIGdvIHNvbG8=",
	"MDAwMDA4b2xsaW4nIGluIG15IGZpdmUgcG9pbnQgb2g=",
	"MDAwMDA5aXRoIG15IHJhZy10b3AgZG93biBzbyBteSBoYWlyIGNhbiBibG93",
}

// PaddingServer encrypts under a fixed key and leaks whether a ciphertext's
// padding is valid.
type PaddingServer struct {
	block   cipher.Block
	queries atomic.Int64
}

// NewPaddingServer creates a server with a random key.
func NewPaddingServer() *PaddingServer {
	return &PaddingServer{block: blockmode.MustAES(randutil.Bytes(16))}
}

// Encrypt pads and encrypts pt under a fresh IV.
func (s *PaddingServer) Encrypt(pt []byte) (iv, ct []byte) {
	iv = randutil.Bytes(16)

	ct, err := blockmode.CBCEncrypt(s.block, iv, padding.Pad(pt, 16))
	if err != nil {
		panic(err)
	}

	return iv, ct
}

// ValidPadding decrypts and reports whether the padding is well formed.
func (s *PaddingServer) ValidPadding(iv, ct []byte) bool {
	s.queries.Add(1)

	pt, err := blockmode.CBCDecrypt(s.block, iv, ct)
	if err != nil {
		return false
	}

	return padding.Valid(pt, 16)
}

// Queries returns the number of oracle calls.
func (s *PaddingServer) Queries() int64 {
	return s.queries.Load()
}

// PaddingOracle reports whether iv, ct decrypts to valid padding.
type PaddingOracle func(iv, ct []byte) bool

// BreakPaddingOracle decrypts ct one block at a time using only the oracle.
func BreakPaddingOracle(ctx context.Context, iv, ct []byte, oracle PaddingOracle) ([]byte, error) {
	const bs = 16

	if len(ct) == 0 || len(ct)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", blockmode.ErrInvalidBlockSize, len(ct))
	}

	prev := iv
	pt := make([]byte, 0, len(ct))

	for i := 0; i < len(ct); i += bs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("block %d: %w", i/bs, err)
		}

		cur := ct[i : i+bs]

		inter, err := intermediate(cur, oracle)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i/bs, err)
		}

		for j := range bs {
			pt = append(pt, inter[j]^prev[j])
		}

		prev = cur
	}

	out, err := padding.Unpad(pt, bs)
	if err != nil {
		return nil, fmt.Errorf("recovered plaintext: %w", err)
	}

	return out, nil
}

// intermediate recovers D(cur) by forging the preceding block.
func intermediate(cur []byte, oracle PaddingOracle) ([]byte, error) {
	bs := len(cur)
	inter := make([]byte, bs)
	forged := make([]byte, bs)

	for pos := bs - 1; pos >= 0; pos-- {
		pad := byte(bs - pos)

		for j := pos + 1; j < bs; j++ {
			forged[j] = inter[j] ^ pad
		}

		found := false

		for g := range 256 {
			forged[pos] = byte(g)
			if !oracle(forged, cur) {
				continue
			}

			// The last byte can also hit a longer valid padding such as 02 02.
			if pos == bs-1 {
				forged[pos-1] ^= 0xff
				ok := oracle(forged, cur)
				forged[pos-1] ^= 0xff

				if !ok {
					continue
				}
			}

			inter[pos] = byte(g) ^ pad
			found = true

			break
		}

		if !found {
			return nil, fmt.Errorf("%w: byte %d", ErrNoValidPadding, pos)
		}
	}

	return inter, nil
}

func paddingOracle(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	server := NewPaddingServer()
	res := &challenge.Result{}

	var first string

	for i, s := range Strings {
		want, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decoding string %d: %w", i, err)
		}

		iv, ct := server.Encrypt(want)

		got, err := BreakPaddingOracle(ctx, iv, ct, server.ValidPadding)
		if err != nil {
			return res, fmt.Errorf("string %d: %w", i, err)
		}

		if err := challenge.Expect(fmt.Sprintf("string %d", i), string(got), string(want)); err != nil {
			return res, err
		}

		if i == 0 {
			first = string(got)
		}

		res.Recovered += len(got)
		env.Logger.Debug("decrypted", "string", i, "queries", server.Queries())
	}

	res.Queries = server.Queries()
	res.Output = fmt.Sprintf("%d strings, first %q", len(Strings), first)

	return res, nil
}
