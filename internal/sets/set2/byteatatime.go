package set2

import (
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// ECBOracle encrypts AES-ECB(key, prefix || input || secret) under a key fixed
// at construction.
type ECBOracle struct {
	block   cipher.Block
	prefix  []byte
	secret  []byte
	queries atomic.Int64
}

// NewECBOracle returns an oracle without a prefix.
func NewECBOracle(secret []byte) *ECBOracle {
	return NewPrefixedECBOracle(nil, secret)
}

// NewPrefixedECBOracle returns an oracle that prepends prefix to every input.
func NewPrefixedECBOracle(prefix, secret []byte) *ECBOracle {
	return &ECBOracle{block: blockmode.MustAES(randutil.Bytes(16)), prefix: prefix, secret: secret}
}

// Encrypt runs the oracle.
func (o *ECBOracle) Encrypt(input []byte) []byte {
	o.queries.Add(1)

	pt := make([]byte, 0, len(o.prefix)+len(input)+len(o.secret))
	pt = append(pt, o.prefix...)
	pt = append(pt, input...)
	pt = append(pt, o.secret...)

	ct, err := blockmode.ECBEncrypt(o.block, padding.Pad(pt, 16))
	if err != nil {
		panic(err)
	}

	return ct
}

// Queries returns the number of Encrypt calls.
func (o *ECBOracle) Queries() int64 {
	return o.queries.Load()
}

// Layout describes how an oracle surrounds attacker input.
type Layout struct {
	BlockSize int
	// Prefix is the length of the unknown bytes before the input.
	Prefix int
	// Secret is the length of the unknown bytes after the input.
	Secret int
}

// MeasureLayout finds the Layout of an ECB oracle and checks that it is really ECB.
func MeasureLayout(encrypt func([]byte) []byte) (Layout, error) {
	base := len(encrypt(nil))

	var bs, grow int

	for i := 1; i <= 64; i++ {
		if n := len(encrypt(bytes.Repeat([]byte{'A'}, i))); n > base {
			bs, grow = n-base, i

			break
		}
	}

	if bs == 0 {
		return Layout{}, ErrNoBlockSize
	}

	if !blockmode.DetectECB(encrypt(bytes.Repeat([]byte{'A'}, 3*bs)), bs) {
		return Layout{}, ErrNotECB
	}

	// A prefix whose last partial block is all fill bytes reads short and a
	// secret starting with fill bytes reads long. Neither can hit two of
	// three distinct fills, so the median is exact.
	guesses := []int{prefixLength(encrypt, bs, 'A'), prefixLength(encrypt, bs, 'B'), prefixLength(encrypt, bs, 'C')}
	slices.Sort(guesses)

	prefix := guesses[1]
	if prefix < 0 {
		return Layout{}, ErrNotECB
	}

	return Layout{BlockSize: bs, Prefix: prefix, Secret: base - grow - prefix}, nil
}

// prefixLength finds the smallest filler after which two equal blocks appear.
func prefixLength(encrypt func([]byte) []byte, bs int, fill byte) int {
	for pad := range bs {
		ct := encrypt(bytes.Repeat([]byte{fill}, pad+2*bs))

		for i := 0; i+2*bs <= len(ct); i += bs {
			if bytes.Equal(ct[i:i+bs], ct[i+bs:i+2*bs]) {
				return i - pad
			}
		}
	}

	return -1
}

// BreakECB recovers the secret appended by an ECB oracle one byte at a time.
func BreakECB(ctx context.Context, encrypt func([]byte) []byte) ([]byte, error) {
	layout, err := MeasureLayout(encrypt)
	if err != nil {
		return nil, err
	}

	bs := layout.BlockSize
	align := (bs - layout.Prefix%bs) % bs
	skip := layout.Prefix + align

	known := make([]byte, 0, layout.Secret)

	for i := range layout.Secret {
		if err := ctx.Err(); err != nil {
			return known, fmt.Errorf("recovering byte %d: %w", i, err)
		}

		filler := bytes.Repeat([]byte{'A'}, align+bs-1-i%bs)
		at := skip + (i/bs)*bs
		target := encrypt(filler)[at : at+bs]

		input := append(append(bytes.Clone(filler), known...), 0)
		last := len(input) - 1

		found := false

		for c := range 256 {
			input[last] = byte(c)

			if bytes.Equal(encrypt(input)[at:at+bs], target) {
				known = append(known, byte(c))
				found = true

				break
			}
		}

		if !found {
			return known, fmt.Errorf("%w: position %d", ErrNoMatch, i)
		}
	}

	return known, nil
}

func byteAtATimeSimple(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	return runByteAtATime(ctx, env, NewECBOracle(DecodedSecret()))
}

func byteAtATimeHarder(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	return runByteAtATime(ctx, env, NewPrefixedECBOracle(randutil.Bytes(randutil.Between(1, 40)), DecodedSecret()))
}

func runByteAtATime(ctx context.Context, env *challenge.Env, oracle *ECBOracle) (*challenge.Result, error) {
	got, err := BreakECB(ctx, oracle.Encrypt)

	res := &challenge.Result{Queries: oracle.Queries(), Recovered: len(got)}
	if err != nil {
		return res, err
	}

	env.Logger.Debug("recovered secret", "bytes", len(got), "queries", oracle.Queries())

	line, _, _ := bytes.Cut(got, []byte("\n"))
	res.Output = string(line)

	return res, challenge.Expect("secret", string(got), string(DecodedSecret()))
}
