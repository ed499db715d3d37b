package set5

import (
	"context"
	"fmt"
	"math/big"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/cryptopals/internal/dh"
	"github.com/idelchi/cryptopals/internal/wire"
)

// Interception is what a man in the middle saw during one echo exchange.
type Interception struct {
	// Captured holds the plaintexts decrypted in transit, in order.
	Captured [][]byte
	// Echoed is what the initiator got back.
	Echoed []byte
}

type hop struct {
	src, dst *wire.Conn
	rewrite  wire.Rewriter
}

// intercept runs an initiator and a responder connected through a middlebox
// that relays one message per hop.
func intercept(ctx context.Context, group dh.Group, mode dh.Mode, msg []byte, hops func(alice, bob *wire.Conn) []hop) ([]byte, error) {
	alice, toAlice := wire.Pipe()
	toBob, bob := wire.Pipe()

	var echoed []byte

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		echoed, err = dh.Initiate(ctx, alice, group, mode, msg)

		return err
	})

	g.Go(func() error {
		_, err := dh.Respond(ctx, bob, mode)

		return err
	})

	g.Go(func() error {
		for _, h := range hops(toAlice, toBob) {
			if err := wire.Relay(ctx, h.src, h.dst, 1, h.rewrite); err != nil {
				return err
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("intercepting exchange: %w", err)
	}

	return echoed, nil
}

// KeyFixing replaces both public keys with p, which forces the shared secret
// to zero, and reads the exchanged messages.
func KeyFixing(ctx context.Context, group dh.Group, msg []byte) (Interception, error) {
	var out Interception

	key := dh.DeriveKey(new(big.Int))

	fix := func(name string) wire.Rewriter {
		return func(m wire.Message) (wire.Message, error) {
			return m.WithInt(name, group.P), nil
		}
	}

	capture := func(m wire.Message) (wire.Message, error) {
		pt, err := dh.OpenMessage(key, m)
		if err != nil {
			return m, err
		}

		out.Captured = append(out.Captured, pt)

		return m, nil
	}

	echoed, err := intercept(ctx, group, dh.Combined, msg, func(alice, bob *wire.Conn) []hop {
		return []hop{
			{alice, bob, fix("A")},
			{bob, alice, fix("B")},
			{alice, bob, capture},
			{bob, alice, capture},
		}
	})
	out.Echoed = echoed

	return out, err
}

// Generator picks the malicious generator for a prime.
type Generator func(p *big.Int) *big.Int

// Malicious generators: 1, p and p-1.
var (
	GeneratorOne       Generator = func(*big.Int) *big.Int { return big.NewInt(1) }
	GeneratorP         Generator = func(p *big.Int) *big.Int { return new(big.Int).Set(p) }
	GeneratorPMinusOne Generator = func(p *big.Int) *big.Int { return new(big.Int).Sub(p, big.NewInt(1)) }
)

// MaliciousGenerator negotiates a bad generator with the responder and
// substitutes it for the initiator's public key as well. The responder's
// secret is then its own public value B, and the initiator's secret B^a is
// one of a few predictable values. Messages are decrypted and re-encrypted
// in both directions so neither side notices.
func MaliciousGenerator(ctx context.Context, group dh.Group, msg []byte, forge Generator) (Interception, error) {
	var (
		out      Interception
		bobKey   []byte
		aliceKey []byte
	)

	g := forge(group.P)

	tamperParams := func(m wire.Message) (wire.Message, error) {
		return m.WithInt("g", g), nil
	}

	tamperKey := func(m wire.Message) (wire.Message, error) {
		return m.WithInt("A", g), nil
	}

	learn := func(m wire.Message) (wire.Message, error) {
		b, err := m.Int("B")
		if err != nil {
			return m, err
		}

		bobKey = dh.DeriveKey(b)

		return m, nil
	}

	forward := func(m wire.Message) (wire.Message, error) {
		key, pt, err := openAny(m, candidateSecrets(group.P, bobKey, g))
		if err != nil {
			return m, err
		}

		aliceKey = key
		out.Captured = append(out.Captured, pt)

		return dh.DataMessage(bobKey, pt)
	}

	back := func(m wire.Message) (wire.Message, error) {
		pt, err := dh.OpenMessage(bobKey, m)
		if err != nil {
			return m, err
		}

		out.Captured = append(out.Captured, pt)

		return dh.DataMessage(aliceKey, pt)
	}

	echoed, err := intercept(ctx, group, dh.Negotiated, msg, func(alice, bob *wire.Conn) []hop {
		return []hop{
			{alice, bob, tamperParams},
			{bob, alice, nil},
			{alice, bob, tamperKey},
			{bob, alice, learn},
			{alice, bob, forward},
			{bob, alice, back},
		}
	})
	out.Echoed = echoed

	return out, err
}

// candidateSecrets lists the keys the initiator may hold. For g = p-1 the
// responder's B is 1 or p-1, and B^a is p-1 only when both B = p-1 and a is odd.
func candidateSecrets(p *big.Int, bobKey []byte, g *big.Int) [][]byte {
	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	if g.Cmp(pMinusOne) == 0 {
		return [][]byte{bobKey, dh.DeriveKey(big.NewInt(1))}
	}

	return [][]byte{bobKey}
}

func openAny(m wire.Message, keys [][]byte) ([]byte, []byte, error) {
	for _, key := range keys {
		pt, err := dh.OpenMessage(key, m)
		if err == nil && utf8.Valid(pt) {
			return key, pt, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: tried %d keys", ErrNoSecret, len(keys))
}
