// Package set1 holds the basics: encodings, XOR ciphers and AES in ECB mode.
package set1

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/xor"
)

// Challenges returns the challenges of set 1.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 1, Title: "Convert hex to base64", Run: hexToBase64},
		{Number: 2, Title: "Fixed XOR", Run: fixedXOR},
		{Number: 3, Title: "Single-byte XOR cipher", Run: singleByteXOR},
		{Number: 4, Title: "Detect single-character XOR", Run: detectSingleByteXOR},
		{Number: 5, Title: "Implement repeating-key XOR", Run: repeatingKeyXOR},
		{Number: 6, Title: "Break repeating-key XOR", Run: breakRepeatingKeyXOR},
		{Number: 7, Title: "AES in ECB mode", Run: decryptECB},
		{Number: 8, Title: "Detect AES in ECB mode", Run: detectECB},
	}
}

// Key is the AES key used by challenge 7.
const Key = "YELLOW SUBMARINE"

const (
	hexInput  = "49276d206b696c6c696e6720796f757220627261696e206c696b65206120706f69736f6e6f7573206d757368726f6f6d"
	b64Output = "SSdtIGtpbGxpbmcgeW91ciBicmFpbiBsaWtlIGEgcG9pc29ub3VzIG11c2hyb29t"

	fixedA   = "1c0111001f010100061a024b53535009181c"
	fixedB   = "686974207468652062756c6c277320657965"
	fixedOut = "746865206b696420646f6e277420706c6179"

	singleInput = "1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736"
	singleOut   = "Cooking MC's like a pound of bacon"

	stanza = "Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal"
	//nolint:lll // known answer
	stanzaOut = "0b3637272a2b2e63622c2e69692a23693a2a3c6324202d623d63343c2a26226324272765272a282b2f20430a652e2c652a3124333a653e2b2027630c692b20283165286326302e27282f"
)

// HexToBase64 re-encodes a hex string as base64.
func HexToBase64(s string) (string, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decoding hex: %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

func hexToBase64(context.Context, *challenge.Env) (*challenge.Result, error) {
	out, err := HexToBase64(hexInput)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: out}, challenge.Expect("base64", out, b64Output)
}

func fixedXOR(context.Context, *challenge.Env) (*challenge.Result, error) {
	a, _ := hex.DecodeString(fixedA)
	b, _ := hex.DecodeString(fixedB)

	out, err := xor.Fixed(a, b)
	if err != nil {
		return nil, err
	}

	got := hex.EncodeToString(out)

	return &challenge.Result{Output: got}, challenge.Expect("xor", got, fixedOut)
}

func singleByteXOR(context.Context, *challenge.Env) (*challenge.Result, error) {
	ct, _ := hex.DecodeString(singleInput)
	best := xor.BreakSingle(ct)

	res := &challenge.Result{
		Output:    fmt.Sprintf("key %q: %s", best.Key, best.Plaintext),
		Recovered: len(best.Plaintext),
	}

	return res, challenge.Expect("plaintext", string(best.Plaintext), singleOut)
}

func detectSingleByteXOR(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	lines, err := env.Data.HexLines(4)
	if err != nil {
		return nil, err
	}

	found, err := xor.Detect(lines)
	if err != nil {
		return nil, fmt.Errorf("detecting: %w", err)
	}

	plaintext := bytes.TrimSpace(found.Plaintext)

	return &challenge.Result{
		Output:    fmt.Sprintf("line %d, key %q: %s", found.Index+1, found.Key, plaintext),
		Recovered: len(plaintext),
	}, nil
}

func repeatingKeyXOR(context.Context, *challenge.Env) (*challenge.Result, error) {
	got := hex.EncodeToString(xor.Repeating([]byte(stanza), []byte("ICE")))

	return &challenge.Result{Output: got}, challenge.Expect("ciphertext", got, stanzaOut)
}

func breakRepeatingKeyXOR(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	distance, err := xor.Hamming([]byte("this is a test"), []byte("wokka wokka!!!"))
	if err != nil {
		return nil, err
	}

	if err := challenge.Expect("hamming distance", distance, 37); err != nil {
		return nil, err
	}

	ct, err := env.Data.Base64(6)
	if err != nil {
		return nil, err
	}

	broken, err := xor.BreakRepeating(ct)
	if err != nil {
		return nil, fmt.Errorf("breaking: %w", err)
	}

	env.Logger.Debug("recovered key", "size", len(broken.Key), "score", broken.Score)

	return &challenge.Result{
		Output:    fmt.Sprintf("key %q\n%s", broken.Key, firstLine(broken.Plaintext)),
		Recovered: len(broken.Plaintext),
	}, nil
}

// DecryptECB decrypts AES-128-ECB under key and strips the padding.
func DecryptECB(key, ct []byte) ([]byte, error) {
	block, err := blockmode.NewAES(key)
	if err != nil {
		return nil, err
	}

	pt, err := blockmode.ECBDecrypt(block, ct)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	return unpadLenient(pt), nil
}

func decryptECB(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	ct, err := env.Data.Base64(7)
	if err != nil {
		return nil, err
	}

	pt, err := DecryptECB([]byte(Key), ct)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: firstLine(pt), Recovered: len(pt)}, nil
}

// DetectECB returns the index of the ciphertext with the most repeated blocks, or -1.
func DetectECB(cts [][]byte) int {
	best, index := 0, -1

	for i, ct := range cts {
		if n := blockmode.RepeatedBlocks(ct, 16); n > best {
			best, index = n, i
		}
	}

	return index
}

func detectECB(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	cts, err := env.Data.HexLines(8)
	if err != nil {
		return nil, err
	}

	index := DetectECB(cts)
	if index < 0 {
		return nil, fmt.Errorf("%w: no line repeats a block", challenge.ErrMismatch)
	}

	return &challenge.Result{Output: fmt.Sprintf("line %d repeats %d blocks", index+1, blockmode.RepeatedBlocks(cts[index], 16))}, nil
}

func firstLine(b []byte) string {
	line, _, _ := bytes.Cut(b, []byte("\n"))

	return string(bytes.TrimSpace(line))
}

// unpadLenient strips valid PKCS#7 padding and leaves anything else untouched.
func unpadLenient(pt []byte) []byte {
	if out, err := padding.Unpad(pt, 16); err == nil {
		return out
	}

	return pt
}
