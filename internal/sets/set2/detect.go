package set2

import (
	"bytes"
	"context"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Mode is a block cipher mode of operation.
type Mode int

const (
	// ECB is electronic codebook.
	ECB Mode = iota
	// CBC is cipher block chaining.
	CBC
)

func (m Mode) String() string {
	if m == ECB {
		return "ECB"
	}

	return "CBC"
}

// EncryptionOracle encrypts input surrounded by 5 to 10 random bytes on each
// side, under a random key with a coin toss between ECB and CBC. It returns
// the mode it picked so the guess can be checked.
func EncryptionOracle(input []byte) ([]byte, Mode, error) {
	block := blockmode.MustAES(randutil.Bytes(16))

	pt := append(randutil.Bytes(randutil.Between(5, 10)), input...)
	pt = append(pt, randutil.Bytes(randutil.Between(5, 10))...)
	pt = padding.Pad(pt, 16)

	if randutil.Bool() {
		ct, err := blockmode.ECBEncrypt(block, pt)

		return ct, ECB, err
	}

	ct, err := blockmode.CBCEncrypt(block, randutil.Bytes(16), pt)

	return ct, CBC, err
}

// DetectMode guesses the mode of a black box that encrypts chosen plaintext.
func DetectMode(encrypt func([]byte) ([]byte, error)) (Mode, error) {
	ct, err := encrypt(bytes.Repeat([]byte{'A'}, 3*16))
	if err != nil {
		return 0, err
	}

	if blockmode.DetectECB(ct, 16) {
		return ECB, nil
	}

	return CBC, nil
}

func detectionOracle(context.Context, *challenge.Env) (*challenge.Result, error) {
	const trials = 200

	counts := map[Mode]int{}

	for i := range trials {
		var actual Mode

		guess, err := DetectMode(func(in []byte) ([]byte, error) {
			ct, mode, err := EncryptionOracle(in)
			actual = mode

			return ct, err
		})
		if err != nil {
			return nil, err
		}

		if guess != actual {
			return nil, fmt.Errorf("%w: trial %d guessed %v, was %v", challenge.ErrMismatch, i, guess, actual)
		}

		counts[actual]++
	}

	return &challenge.Result{
		Output:  fmt.Sprintf("%d/%d correct (%d ECB, %d CBC)", trials, trials, counts[ECB], counts[CBC]),
		Queries: trials,
	}, nil
}
