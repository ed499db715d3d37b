// Package set2 covers block crypto: padding, CBC and attacks on ECB oracles.
package set2

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
)

// Challenges returns the challenges of set 2.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 9, Title: "Implement PKCS#7 padding", Run: pkcs7},
		{Number: 10, Title: "Implement CBC mode", Run: decryptCBC},
		{Number: 11, Title: "An ECB/CBC detection oracle", Run: detectionOracle},
		{Number: 12, Title: "Byte-at-a-time ECB decryption (Simple)", Run: byteAtATimeSimple},
		{Number: 13, Title: "ECB cut-and-paste", Run: cutAndPaste},
		{Number: 14, Title: "Byte-at-a-time ECB decryption (Harder)", Run: byteAtATimeHarder},
		{Number: 15, Title: "PKCS#7 padding validation", Run: paddingValidation},
		{Number: 16, Title: "CBC bitflipping attacks", Run: bitflipping},
	}
}

// Key is the AES key of challenge 10.
const Key = "YELLOW SUBMARINE"

// Secret is the base64 string appended by the byte-at-a-time oracles.
//
//nolint:lll // encoded secret
const Secret = "Um9sbGluJyBpbiBteSA1LjAKV2l0aCBteSByYWctdG9wIGRvd24gc28gbXkgaGFpciBjYW4gYmxvdwpUaGUgZ2lybGllcyBvbiBzdGFuZGJ5IHdhdmluZyBqdXN0IHRvIHNheSBoaQpEaWQgeW91IHN0b3A/IE5vLCBJIGp1c3QgZHJvdmUgYnkK"

func pkcs7(context.Context, *challenge.Env) (*challenge.Result, error) {
	got := padding.Pad([]byte("YELLOW SUBMARINE"), 20)

	return &challenge.Result{Output: fmt.Sprintf("%q", got)}, challenge.Expect("padded", string(got), "YELLOW SUBMARINE\x04\x04\x04\x04")
}

// DecryptCBC decrypts and unpads AES-CBC.
func DecryptCBC(key, iv, ct []byte) ([]byte, error) {
	block, err := blockmode.NewAES(key)
	if err != nil {
		return nil, err
	}

	pt, err := blockmode.CBCDecrypt(block, iv, ct)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	return padding.Unpad(pt, block.BlockSize())
}

func decryptCBC(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	ct, err := env.Data.Base64(10)
	if err != nil {
		return nil, err
	}

	pt, err := DecryptCBC([]byte(Key), make([]byte, 16), ct)
	if err != nil {
		return nil, err
	}

	line, _, _ := bytes.Cut(pt, []byte("\n"))

	return &challenge.Result{Output: string(bytes.TrimSpace(line)), Recovered: len(pt)}, nil
}

func paddingValidation(context.Context, *challenge.Env) (*challenge.Result, error) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"ICE ICE BABY\x04\x04\x04\x04", true},
		{"ICE ICE BABY\x05\x05\x05\x05", false},
		{"ICE ICE BABY\x01\x02\x03\x04", false},
	}

	for _, c := range cases {
		_, err := padding.Unpad([]byte(c.in), 16)
		if (err == nil) != c.valid {
			return nil, fmt.Errorf("%w: %q valid=%t", challenge.ErrMismatch, c.in, err == nil)
		}

		if err != nil && !errors.Is(err, padding.ErrInvalidPadding) {
			return nil, fmt.Errorf("%q: %w", c.in, err)
		}
	}

	return &challenge.Result{Output: fmt.Sprintf("%d cases", len(cases))}, nil
}

// DecodedSecret returns Secret decoded.
func DecodedSecret() []byte {
	b, err := base64.StdEncoding.DecodeString(Secret)
	if err != nil {
		panic(err)
	}

	return b
}
