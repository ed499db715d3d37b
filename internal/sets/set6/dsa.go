package set6

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/dsa"
	"github.com/idelchi/cryptopals/internal/randutil"
)

const (
	weakMessage = "For those that envy a MC it can be hazardous to your health\n" +
		"So be friendly, a matter of life and death, just like a etch-a-sketch\n"
	weakY = "84ad4719d044495496a3201c8ff484feb45b962e7302e56a392aee4abab3e4bdebf2955b4736012f21a08084056b19bcd7fee5604" +
		"8e004e44984e2f411788efdc837a0d2e5abb7b555039fd243ac01f0fb2ed1dec568280ce678e931868d23eb095fde9d3779191b8c0" +
		"299d6e07bbb283e6633451e535c45513b2d33c99ea17"
	weakR           = "548099063082341131477253921760299949438196259240"
	weakS           = "857042759984254168557880549501802188789837994940"
	weakFingerprint = "0954edd5e0afe5542a4adf012611a91912a3ec16"

	repeatedY = "2d026f4bf30195ede3a088da85e398ef869611d0f68f0713d51c9c1a3a26c95105d915e2d8cdf26d056b86b8a7b85519b1c23cc" +
		"3ecdc6062650462e3063bd179c2a6581519f674a61f1d89a1fff27171ebc1b93d4dc57bceb7ae2430f98a6a4d83d8279ee65d71c120" +
		"3d2c96d65ebbf7cce9d32971c3de5084cce04a2e147821"
)

// WeakNonceLimit bounds the nonces searched when recovering a weak key.
const WeakNonceLimit = 1 << 16

func weakNonce(context.Context, *challenge.Env) (*challenge.Result, error) {
	y, _ := new(big.Int).SetString(weakY, 16)
	r, _ := new(big.Int).SetString(weakR, 10)
	s, _ := new(big.Int).SetString(weakS, 10)

	pub := &dsa.PublicKey{Params: dsa.DefaultParams(), Y: y}

	x, k, err := dsa.RecoverWeakNonce(pub, dsa.Signature{R: r, S: s}, dsa.HashMessage([]byte(weakMessage)), WeakNonceLimit)
	if err != nil {
		return nil, err
	}

	fp := dsa.Fingerprint(x)

	res := &challenge.Result{Output: fmt.Sprintf("k=%d x fingerprint %s", k, fp), Queries: k.Int64()}

	return res, challenge.Expect("fingerprint", fp, weakFingerprint)
}

// RecoverFromLog finds two signatures sharing a nonce in a log signed by pub
// and recovers the private key.
func RecoverFromLog(pub *dsa.PublicKey, msgs []dsa.SignedMessage) (*big.Int, error) {
	a, b, ok := dsa.FindRepeatedNonce(msgs)
	if !ok {
		return nil, fmt.Errorf("%w: no repeated r among %d signatures", dsa.ErrNonceNotFound, len(msgs))
	}

	k, err := dsa.NonceFromRepeat(pub.Q, a.Sig, a.Hash, b.Sig, b.Hash)
	if err != nil {
		return nil, err
	}

	x, err := dsa.PrivateFromNonce(pub.Params, a.Sig, k, a.Hash)
	if err != nil {
		return nil, err
	}

	if new(big.Int).Exp(pub.G, x, pub.P).Cmp(pub.Y) != 0 {
		return nil, fmt.Errorf("%w: recovered key does not match y", challenge.ErrMismatch)
	}

	return x, nil
}

// SignedLog signs each message with priv, reusing one nonce for two of them,
// and renders the log in the msg/s/r/m format.
func SignedLog(priv *dsa.PrivateKey, msgs []string) (string, error) {
	var buf bytes.Buffer

	shared := randutil.BigBetween(big.NewInt(1), priv.Q)
	first, second := randutil.Intn(len(msgs)), randutil.Intn(len(msgs)-1)

	if second >= first {
		second++
	}

	for i, msg := range msgs {
		h := dsa.HashMessage([]byte(msg))

		sig := priv.Sign(h)

		if i == first || i == second {
			var err error
			if sig, err = priv.SignWithK(h, shared); err != nil {
				return "", err
			}
		}

		fmt.Fprintf(&buf, "msg: %s\ns: %s\nr: %s\nm: %s\n", msg, sig.S, sig.R, h.Text(16))
	}

	return buf.String(), nil
}

func repeatedNonce(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	pub, log, err := repeatedNonceInput(env)
	if err != nil {
		return nil, err
	}

	msgs, err := dsa.ParseSignedMessages(strings.NewReader(log))
	if err != nil {
		return nil, err
	}

	x, err := RecoverFromLog(pub, msgs)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: "x fingerprint " + dsa.Fingerprint(x), Queries: int64(len(msgs))}, nil
}

// repeatedNonceInput reads the recorded log, or signs a fresh one when none is available.
func repeatedNonceInput(env *challenge.Env) (*dsa.PublicKey, string, error) {
	data, err := env.Data.Read(44)

	switch {
	case err == nil:
		y, _ := new(big.Int).SetString(repeatedY, 16)

		return &dsa.PublicKey{Params: dsa.DefaultParams(), Y: y}, string(data), nil
	case errors.Is(err, challenge.ErrMissingData):
		env.Logger.Debug("no signed log, signing a fresh one", "error", err)

		priv := dsa.GenerateKey(dsa.DefaultParams())
		msgs := strings.Split(strings.TrimSpace(weakMessage), "\n")
		msgs = append(msgs, "Listen up kids", "Yo, I'll tell you what I want", "Ice, Ice, baby")

		log, err := SignedLog(priv, msgs)

		return &priv.PublicKey, log, err
	default:
		return nil, "", err
	}
}

func parameterTampering(context.Context, *challenge.Env) (*challenge.Result, error) {
	params := dsa.DefaultParams()
	key := dsa.GenerateKey(params)

	hello, goodbye := dsa.HashMessage([]byte("Hello, world")), dsa.HashMessage([]byte("Goodbye, world"))

	// g = 0 makes every r zero, which only a lax verifier accepts.
	zero := dsa.KeyFromPrivate(params.WithGenerator(big.NewInt(0)), key.X)
	sig := zero.Sign(hello)

	if !zero.Verify(goodbye, sig, false) {
		return nil, fmt.Errorf("%w: g=0 signature rejected by the lax verifier", challenge.ErrMismatch)
	}

	if zero.Verify(goodbye, sig, true) {
		return nil, fmt.Errorf("%w: g=0 signature accepted by the strict verifier", challenge.ErrMismatch)
	}

	// g = p+1 admits a magic signature for any message.
	tampered := &dsa.PublicKey{Params: params.WithGenerator(new(big.Int).Add(params.P, big.NewInt(1))), Y: key.Y}

	res := &challenge.Result{}

	for _, h := range []*big.Int{hello, goodbye} {
		magic, err := dsa.MagicSignature(tampered, big.NewInt(int64(2+randutil.Intn(1000))))
		if err != nil {
			return nil, err
		}

		if !tampered.Verify(h, magic, true) {
			return res, fmt.Errorf("%w: magic signature rejected", challenge.ErrMismatch)
		}

		res.Recovered++
	}

	res.Output = fmt.Sprintf("forged %d signatures under g=p+1", res.Recovered)

	return res, nil
}
