package set4

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // reference implementation for the hand-written SHA-1
	"fmt"
	"hash"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/mdhash"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/xor"
)

const (
	// Cookie is the message whose tag is extended.
	Cookie = "comment1=cooking%20MCs;userdata=foo;comment2=%20like%20a%20pound%20of%20bacon"
	// Extension is appended by the length-extension forgeries.
	Extension = ";admin=true"
	// MaxKeyLen bounds the key length guesses.
	MaxKeyLen = 64
)

// Signer holds a secret-prefix MAC key.
type Signer struct {
	newHash func() hash.Hash
	key     []byte
	checks  int64
}

// NewSigner creates a signer with a random key between 8 and 32 bytes.
func NewSigner(newHash func() hash.Hash) *Signer {
	return &Signer{newHash: newHash, key: randutil.Bytes(randutil.Between(8, 32))}
}

// Sign returns H(key || msg).
func (s *Signer) Sign(msg []byte) []byte {
	return mac.SecretPrefix(s.newHash, s.key, msg)
}

// Verify checks a tag.
func (s *Signer) Verify(msg, tag []byte) bool {
	s.checks++

	return mac.VerifySecretPrefix(s.newHash, s.key, msg, tag)
}

// IsAdmin reports whether msg carries admin=true among its ;-separated fields.
func IsAdmin(msg []byte) bool {
	for _, field := range bytes.Split(msg, []byte(";")) {
		if bytes.Equal(field, []byte("admin=true")) {
			return true
		}
	}

	return false
}

func sha1KeyedMAC(context.Context, *challenge.Env) (*challenge.Result, error) {
	msg := []byte(Cookie)

	if got, want := mdhash.SHA1(msg), sha1.Sum(msg); !bytes.Equal(got, want[:]) { //nolint:gosec // reference
		return nil, fmt.Errorf("%w: sha1 disagrees with crypto/sha1", challenge.ErrMismatch)
	}

	signer := NewSigner(mdhash.NewSHA1)
	tag := signer.Sign(msg)

	if !signer.Verify(msg, tag) {
		return nil, fmt.Errorf("%w: genuine tag rejected", challenge.ErrMismatch)
	}

	tampered := bytes.Clone(msg)
	tampered[0] ^= 1

	if signer.Verify(tampered, tag) || signer.Verify(msg, xor.Single(tag, 1)) {
		return nil, fmt.Errorf("%w: tampered message accepted", challenge.ErrMismatch)
	}

	return &challenge.Result{Output: fmt.Sprintf("tag %x", tag)}, nil
}

// ForgeAdmin length-extends the cookie's tag until the signer accepts a
// message granting admin.
func ForgeAdmin(signer *Signer, extender func(msg, tag []byte, keyLen int, extension []byte) (mac.Forgery, error)) (mac.Forgery, int, error) {
	msg := []byte(Cookie)

	return mac.ForgeExtension(extender, msg, signer.Sign(msg), []byte(Extension), MaxKeyLen, signer.Verify)
}

func lengthExtension(newHash func() hash.Hash, extender func(msg, tag []byte, keyLen int, extension []byte) (mac.Forgery, error)) challenge.Func {
	return func(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
		signer := NewSigner(newHash)

		forgery, keyLen, err := ForgeAdmin(signer, extender)
		if err != nil {
			return nil, err
		}

		env.Logger.Debug("forged", "key length", keyLen, "checks", signer.checks)

		if !IsAdmin(forgery.Message) {
			return nil, fmt.Errorf("%w: forged message lacks admin=true", challenge.ErrMismatch)
		}

		return &challenge.Result{
			Output:  fmt.Sprintf("key length %d, tag %x", keyLen, forgery.Tag),
			Queries: signer.checks,
		}, challenge.Expect("key length", keyLen, len(signer.key))
	}
}
