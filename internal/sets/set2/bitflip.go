package set2

import (
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"net/url"
	"strings"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

const (
	// CommentPrefix precedes the user data in a cookie.
	CommentPrefix = "comment1=cooking%20MCs;userdata="
	// CommentSuffix follows the user data in a cookie.
	CommentSuffix = ";comment2=%20like%20a%20pound%20of%20bacon"
	// AdminMarker is what the attacker wants the cookie to contain.
	AdminMarker = ";admin=true;"
)

// Quote escapes the characters that would let userdata inject fields.
func Quote(s string) string {
	return strings.NewReplacer(";", url.QueryEscape(";"), "=", url.QueryEscape("=")).Replace(s)
}

// CookieService builds and checks CBC-encrypted cookies.
type CookieService struct {
	block cipher.Block
	iv    []byte
}

// NewCookieService creates a service with a random key and IV.
func NewCookieService() *CookieService {
	return &CookieService{block: blockmode.MustAES(randutil.Bytes(16)), iv: randutil.Bytes(16)}
}

// Encrypt wraps quoted userdata into a cookie.
func (s *CookieService) Encrypt(userdata string) []byte {
	pt := padding.Pad([]byte(CommentPrefix+Quote(userdata)+CommentSuffix), 16)

	ct, err := blockmode.CBCEncrypt(s.block, s.iv, pt)
	if err != nil {
		panic(err)
	}

	return ct
}

// IsAdmin decrypts a cookie and reports whether it grants admin.
func (s *CookieService) IsAdmin(ct []byte) (bool, error) {
	pt, err := blockmode.CBCDecrypt(s.block, s.iv, ct)
	if err != nil {
		return false, fmt.Errorf("decrypting cookie: %w", err)
	}

	pt, err = padding.Unpad(pt, 16)
	if err != nil {
		return false, fmt.Errorf("decrypting cookie: %w", err)
	}

	return bytes.Contains(pt, []byte(AdminMarker)), nil
}

// FlipCBC injects AdminMarker by corrupting the block before a known one.
// The user data is two blocks of filler starting on a block boundary at offset.
func FlipCBC(encrypt func(string) []byte, offset int) []byte {
	filler := strings.Repeat("A", 32)
	ct := encrypt(filler)

	want := []byte(AdminMarker + strings.Repeat("A", 16-len(AdminMarker)))
	for i := range want {
		ct[offset+i] ^= want[i] ^ 'A'
	}

	return ct
}

func bitflipping(context.Context, *challenge.Env) (*challenge.Result, error) {
	svc := NewCookieService()

	honest, err := svc.IsAdmin(svc.Encrypt(AdminMarker))
	if err != nil {
		return nil, err
	}

	if honest {
		return nil, fmt.Errorf("%w: quoting let the marker through", challenge.ErrMismatch)
	}

	admin, err := svc.IsAdmin(FlipCBC(svc.Encrypt, len(CommentPrefix)))
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: fmt.Sprintf("admin=%t", admin), Queries: 2}, challenge.Expect("admin", admin, true)
}
