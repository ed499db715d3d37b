// Package set5 covers Diffie-Hellman and friends: key exchange attacks, SRP and RSA.
package set5

import (
	"context"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/dh"
	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/rsa"
)

// Challenges returns the challenges of set 5.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 33, Title: "Implement Diffie-Hellman", Run: diffieHellman},
		{Number: 34, Title: "Implement a MITM key-fixing attack on Diffie-Hellman with parameter injection", Run: keyFixing},
		{Number: 35, Title: "Implement DH with negotiated groups, and break with malicious \"g\" parameters", Run: maliciousGenerators},
		{Number: 36, Title: "Implement Secure Remote Password (SRP)", Run: secureRemotePassword},
		{Number: 37, Title: "Break SRP with a zero key", Run: zeroKey},
		{Number: 38, Title: "Offline dictionary attack on simplified SRP", Run: offlineDictionary},
		{Number: 39, Title: "Implement RSA", Run: implementRSA},
		{Number: 40, Title: "Implement an E=3 RSA Broadcast attack", Run: broadcast},
	}
}

// Message is the plaintext exchanged in the protocol and RSA challenges.
const Message = "Ice, Ice, baby"

func diffieHellman(context.Context, *challenge.Env) (*challenge.Result, error) {
	var out []string

	for _, group := range []dh.Group{dh.ToyGroup(), dh.NISTGroup()} {
		a, b := group.GenerateKey(), group.GenerateKey()

		s := group.Shared(a.Private, b.Public)
		if err := challenge.Expect("shared secret", s.String(), group.Shared(b.Private, a.Public).String()); err != nil {
			return nil, err
		}

		out = append(out, fmt.Sprintf("p=%d bits: key %x", group.P.BitLen(), dh.DeriveKey(s)))
	}

	return &challenge.Result{Output: fmt.Sprint(out)}, nil
}

func keyFixing(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	got, err := KeyFixing(ctx, dh.NISTGroup(), []byte(Message))
	if err != nil {
		return nil, err
	}

	env.Logger.Debug("intercepted", "messages", len(got.Captured))

	return interceptionResult(got)
}

func maliciousGenerators(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	res := &challenge.Result{}

	for name, forge := range map[string]Generator{"g=1": GeneratorOne, "g=p": GeneratorP, "g=p-1": GeneratorPMinusOne} {
		got, err := MaliciousGenerator(ctx, dh.NISTGroup(), []byte(Message), forge)
		if err != nil {
			return res, fmt.Errorf("%s: %w", name, err)
		}

		r, err := interceptionResult(got)
		if err != nil {
			return res, fmt.Errorf("%s: %w", name, err)
		}

		env.Logger.Debug("intercepted", "generator", name, "output", r.Output)

		res.Recovered += r.Recovered
	}

	res.Output = fmt.Sprintf("read %d messages under forged generators", res.Recovered)

	return res, nil
}

func interceptionResult(got Interception) (*challenge.Result, error) {
	res := &challenge.Result{Output: fmt.Sprintf("%q", got.Captured), Recovered: len(got.Captured)}

	if err := challenge.Expect("echo", string(got.Echoed), Message); err != nil {
		return res, err
	}

	for _, pt := range got.Captured {
		if err := challenge.Expect("captured", string(pt), Message); err != nil {
			return res, err
		}
	}

	return res, challenge.Expect("captured messages", len(got.Captured), 2)
}

func implementRSA(context.Context, *challenge.Env) (*challenge.Result, error) {
	inv, err := numtheory.InvMod(big.NewInt(17), big.NewInt(3120))
	if err != nil {
		return nil, err
	}

	if err := challenge.Expect("invmod(17, 3120)", inv.Int64(), int64(2753)); err != nil {
		return nil, err
	}

	priv, err := rsa.GenerateKey(1024, 3)
	if err != nil {
		return nil, err
	}

	m := big.NewInt(42)

	c, err := priv.Encrypt(m)
	if err != nil {
		return nil, err
	}

	if err := challenge.Expect("decrypt(encrypt(42))", priv.Decrypt(c).Int64(), int64(42)); err != nil {
		return nil, err
	}

	ct, err := priv.EncryptBytes([]byte(Message))
	if err != nil {
		return nil, err
	}

	pt := priv.DecryptBytes(ct)

	return &challenge.Result{Output: string(pt), Recovered: len(pt)}, challenge.Expect("round trip", string(pt), Message)
}

func broadcast(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	bits := 1024
	if env.Quick {
		bits = 512
	}

	m := new(big.Int).SetBytes([]byte(Message))

	var (
		pubs [3]*rsa.PublicKey
		cts  [3]*big.Int
	)

	for i := range pubs {
		priv, err := rsa.GenerateKey(bits, 3)
		if err != nil {
			return nil, err
		}

		c, err := priv.Encrypt(m)
		if err != nil {
			return nil, err
		}

		pubs[i], cts[i] = &priv.PublicKey, c
	}

	got, err := rsa.Broadcast(pubs, cts)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: string(got.Bytes()), Recovered: len(got.Bytes())}, challenge.Expect("message", string(got.Bytes()), Message)
}
