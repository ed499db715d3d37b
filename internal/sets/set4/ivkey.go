package set4

import (
	"bytes"
	"context"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/sets/set2"
)

// NonASCIIError carries the offending plaintext back to the caller.
type NonASCIIError struct {
	Plaintext []byte
}

func (e *NonASCIIError) Error() string {
	return fmt.Sprintf("plaintext contains high-ascii bytes: %q", e.Plaintext)
}

// KeyAsIVService encrypts with CBC using its key as the IV.
type KeyAsIVService struct {
	key   []byte
	block cipher.Block
}

// NewKeyAsIVService creates a service with a random key.
func NewKeyAsIVService() *KeyAsIVService {
	key := randutil.Bytes(16)

	return &KeyAsIVService{key: key, block: blockmode.MustAES(key)}
}

// Encrypt encrypts a cookie carrying userdata.
func (s *KeyAsIVService) Encrypt(userdata string) []byte {
	pt := padding.Pad([]byte(set2.CommentPrefix+set2.Quote(userdata)+set2.CommentSuffix), 16)

	ct, err := blockmode.CBCEncrypt(s.block, s.key, pt)
	if err != nil {
		panic(err)
	}

	return ct
}

// Check decrypts ct and returns a NonASCIIError if any byte is above 0x7f.
func (s *KeyAsIVService) Check(ct []byte) error {
	pt, err := blockmode.CBCDecrypt(s.block, s.key, ct)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}

	for _, b := range pt {
		if b > 0x7f {
			return &NonASCIIError{Plaintext: pt}
		}
	}

	return nil
}

// Key exposes the key so the attack can be verified.
func (s *KeyAsIVService) Key() []byte {
	return bytes.Clone(s.key)
}

// RecoverKeyAsIV sends C1 || 0 || C1 and recovers the key as P'1 xor P'3.
func RecoverKeyAsIV(ct []byte, check func([]byte) error) ([]byte, error) {
	if len(ct) < 3*16 {
		return nil, fmt.Errorf("%w: need three blocks, got %d bytes", blockmode.ErrInvalidBlockSize, len(ct))
	}

	forged := make([]byte, 0, len(ct))
	forged = append(forged, ct[:16]...)
	forged = append(forged, make([]byte, 16)...)
	forged = append(forged, ct[:16]...)
	forged = append(forged, ct[48:]...)

	var leak *NonASCIIError

	err := check(forged)
	if err == nil {
		return nil, ErrNoLeak
	}

	if !errors.As(err, &leak) {
		return nil, fmt.Errorf("checking forged ciphertext: %w", err)
	}

	key := make([]byte, 16)
	for i := range key {
		key[i] = leak.Plaintext[i] ^ leak.Plaintext[32+i]
	}

	return key, nil
}

func keyAsIV(context.Context, *challenge.Env) (*challenge.Result, error) {
	svc := NewKeyAsIVService()

	key, err := RecoverKeyAsIV(svc.Encrypt("hello"), svc.Check)
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("key %x", key), Queries: 1, Recovered: len(key)}

	return res, challenge.Expect("key", string(key), string(svc.Key()))
}
