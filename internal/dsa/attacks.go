package dsa

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/idelchi/cryptopals/internal/numtheory"
)

// PrivateFromNonce computes x = (s k - h) / r mod q.
func PrivateFromNonce(params Params, sig Signature, k, h *big.Int) (*big.Int, error) {
	rinv, err := numtheory.InvMod(sig.R, params.Q)
	if err != nil {
		return nil, fmt.Errorf("inverting r: %w", err)
	}

	x := new(big.Int).Mul(sig.S, k)
	x.Sub(x, h)
	x.Mul(x, rinv)

	return x.Mod(x, params.Q), nil
}

// RecoverWeakNonce finds the private key of a signature whose nonce is at most limit.
func RecoverWeakNonce(pub *PublicKey, sig Signature, h *big.Int, limit int64) (*big.Int, *big.Int, error) {
	for k := int64(1); k <= limit; k++ {
		bk := big.NewInt(k)

		x, err := PrivateFromNonce(pub.Params, sig, bk, h)
		if err != nil {
			return nil, nil, err
		}

		if new(big.Int).Exp(pub.G, x, pub.P).Cmp(pub.Y) == 0 {
			return x, bk, nil
		}
	}

	return nil, nil, ErrNonceNotFound
}

// NonceFromRepeat recovers k from two signatures that share it: k = (h1 - h2) / (s1 - s2) mod q.
func NonceFromRepeat(q *big.Int, sig1 Signature, h1 *big.Int, sig2 Signature, h2 *big.Int) (*big.Int, error) {
	ds := new(big.Int).Sub(sig1.S, sig2.S)

	inv, err := numtheory.InvMod(ds, q)
	if err != nil {
		return nil, fmt.Errorf("inverting s1 - s2: %w", err)
	}

	k := new(big.Int).Sub(h1, h2)
	k.Mul(k, inv)

	return k.Mod(k, q), nil
}

// MagicSignature forges a signature valid for any hash z under a key whose
// group uses g = p + 1: r = (y^z mod p) mod q and s = r / z mod q.
func MagicSignature(pub *PublicKey, z *big.Int) (Signature, error) {
	zinv, err := numtheory.InvMod(z, pub.Q)
	if err != nil {
		return Signature{}, err
	}

	r := new(big.Int).Exp(pub.Y, z, pub.P)
	r.Mod(r, pub.Q)

	s := new(big.Int).Mul(r, zinv)

	return Signature{R: r, S: s.Mod(s, pub.Q)}, nil
}

// SignedMessage is one entry of a signed message log.
type SignedMessage struct {
	Msg  string
	Sig  Signature
	Hash *big.Int
}

// ParseSignedMessages reads blocks of "msg: ", "s: ", "r: " and "m: " lines.
// s and r are decimal and m is the hex SHA-1 of msg.
func ParseSignedMessages(r io.Reader) ([]SignedMessage, error) {
	var (
		out     []SignedMessage
		current SignedMessage
		fields  int
	)

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}

		key, value, ok := strings.Cut(text, ": ")
		if !ok {
			return nil, fmt.Errorf("%w: line %d", ErrMalformedLog, line)
		}

		var parsed bool

		switch key {
		case "msg":
			current.Msg, parsed = value, true
		case "s":
			current.Sig.S, parsed = new(big.Int).SetString(value, 10)
		case "r":
			current.Sig.R, parsed = new(big.Int).SetString(value, 10)
		case "m":
			current.Hash, parsed = new(big.Int).SetString(value, 16)
		}

		if !parsed {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLog, line, key)
		}

		if fields++; fields == 4 {
			out = append(out, current)
			current, fields = SignedMessage{}, 0
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	return out, nil
}

// FindRepeatedNonce returns the first two messages whose signatures share r, and therefore k.
func FindRepeatedNonce(msgs []SignedMessage) (SignedMessage, SignedMessage, bool) {
	seen := make(map[string]int, len(msgs))

	for i, m := range msgs {
		key := m.Sig.R.String()
		if j, ok := seen[key]; ok {
			return msgs[j], m, true
		}

		seen[key] = i
	}

	return SignedMessage{}, SignedMessage{}, false
}
