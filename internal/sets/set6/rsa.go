package set6

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/rsa"
)

const (
	// Secret is the message recovered through the unpadded oracle.
	Secret = `{"time": 1356304276, "social": "555-55-5555"}`
	// ParitySecret is the base64 plaintext recovered through the parity oracle.
	ParitySecret = "VGhhdCdzIHdoeSBJIGZvdW5kIHlvdSBkb24ndCBwbGF5IGFyb3VuZCB3aXRoIHRoZSBGdW5reSBDb2xkIE1lZGluYQ=="
	// PaddedSecret is the message recovered through the padding oracle.
	PaddedSecret = "kick it, CC"
	// Forged is the message whose signature is forged.
	Forged = "hi mom"
)

func unpaddedRecovery(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	priv, err := rsa.GenerateKey(keyBits(env, 1024), 65537)
	if err != nil {
		return nil, err
	}

	server := rsa.NewDecryptionServer(priv)

	c, err := priv.Encrypt(new(big.Int).SetBytes([]byte(Secret)))
	if err != nil {
		return nil, err
	}

	if _, err := server.Decrypt(c); err != nil {
		return nil, fmt.Errorf("first decryption: %w", err)
	}

	if _, err := server.Decrypt(c); !errors.Is(err, rsa.ErrReplayed) {
		return nil, fmt.Errorf("%w: server decrypted a replayed ciphertext", challenge.ErrMismatch)
	}

	m, err := rsa.RecoverUnpadded(&priv.PublicKey, c, server.Decrypt)
	if err != nil {
		return nil, err
	}

	got := string(m.Bytes())

	return &challenge.Result{Output: got, Queries: 3, Recovered: len(got)}, challenge.Expect("message", got, Secret)
}

// forgeSignature needs a 1024-bit modulus so the garbage after the digest
// absorbs the cube root's rounding.
func forgeSignature(context.Context, *challenge.Env) (*challenge.Result, error) {
	priv, err := rsa.GenerateKey(1024, 3)
	if err != nil {
		return nil, err
	}

	sig, err := rsa.ForgeSignature(&priv.PublicKey, rsa.SHA1, []byte(Forged))
	if err != nil {
		return nil, err
	}

	valid := priv.VerifyBroken(rsa.SHA1, []byte(Forged), sig)

	return &challenge.Result{Output: fmt.Sprintf("forged %x (accepted %t)", sig, valid)}, challenge.Expect("accepted", valid, true)
}

func parityOracle(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	want, err := base64.StdEncoding.DecodeString(ParitySecret)
	if err != nil {
		return nil, fmt.Errorf("decoding secret: %w", err)
	}

	priv, err := rsa.GenerateKey(1024, 65537)
	if err != nil {
		return nil, err
	}

	c, err := priv.Encrypt(new(big.Int).SetBytes(want))
	if err != nil {
		return nil, err
	}

	oracle := rsa.NewCounter(rsa.ParityOracle(priv))

	m := rsa.ParityAttack(&priv.PublicKey, c, oracle.Query, func(upper *big.Int) {
		env.Logger.Debug("parity step", "upper", fmt.Sprintf("%q", upper.Bytes()))
	})

	got := string(m.Bytes())

	res := &challenge.Result{Output: got, Queries: oracle.Queries(), Recovered: len(got)}

	return res, challenge.Expect("message", got, string(want))
}

func paddingOracle(bits int) challenge.Func {
	return func(ctx context.Context, _ *challenge.Env) (*challenge.Result, error) {
		return BreakPadding(ctx, bits, []byte(PaddedSecret))
	}
}

// BreakPadding encrypts msg with PKCS#1 v1.5 padding under a fresh key and
// recovers it through a padding oracle.
func BreakPadding(ctx context.Context, bits int, msg []byte) (*challenge.Result, error) {
	priv, err := rsa.GenerateKey(bits, 3)
	if err != nil {
		return nil, err
	}

	em, err := rsa.PadEncrypt(msg, priv.Size())
	if err != nil {
		return nil, err
	}

	c, err := priv.Encrypt(new(big.Int).SetBytes(em))
	if err != nil {
		return nil, err
	}

	oracle := rsa.NewCounter(rsa.PaddingOracle(priv))

	m, err := rsa.Bleichenbacher(ctx, &priv.PublicKey, c, oracle.Query)

	res := &challenge.Result{Queries: oracle.Queries()}
	if err != nil {
		return res, err
	}

	pt, err := rsa.UnpadEncrypt(rsa.LeftPad(m.Bytes(), priv.Size()))
	if err != nil {
		return res, err
	}

	res.Output, res.Recovered = string(pt), len(pt)

	return res, challenge.Expect("message", string(pt), string(msg))
}

func keyBits(env *challenge.Env, bits int) int {
	if env.Quick {
		return bits / 2
	}

	return bits
}
