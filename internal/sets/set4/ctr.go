package set4

import (
	"bytes"
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/sets/set1"
	"github.com/idelchi/cryptopals/internal/sets/set2"
)

// EditableCTR encrypts with CTR under a hidden key and exposes a seek-and-rewrite API.
type EditableCTR struct {
	block cipher.Block
	nonce uint64
}

// NewEditableCTR creates a cipher with a random key and nonce.
func NewEditableCTR() *EditableCTR {
	return &EditableCTR{block: blockmode.MustAES(randutil.Bytes(16)), nonce: uint64(randutil.Uint32())}
}

// Encrypt encrypts pt from the start of the keystream.
func (e *EditableCTR) Encrypt(pt []byte) []byte {
	return blockmode.CTRCrypt(e.block, e.nonce, pt)
}

// Edit returns ct with the plaintext from offset on replaced by newText.
func (e *EditableCTR) Edit(ct []byte, offset int, newText []byte) ([]byte, error) {
	if offset < 0 || offset > len(ct) {
		return nil, fmt.Errorf("%w: offset %d outside %d bytes", ErrOffset, offset, len(ct))
	}

	out := bytes.Clone(ct[:offset])
	out = append(out, make([]byte, len(newText))...)

	if len(out) < len(ct) {
		out = append(out, ct[len(out):]...)
	}

	stream := blockmode.NewCTR(e.block, e.nonce)
	stream.Seek(uint64(offset))
	stream.XORKeyStream(out[offset:offset+len(newText)], newText)

	return out, nil
}

// RecoverWithEdit asks the edit API to encrypt the ciphertext over itself,
// which yields the plaintext.
func RecoverWithEdit(ct []byte, edit func(ct []byte, offset int, newText []byte) ([]byte, error)) ([]byte, error) {
	return edit(ct, 0, ct)
}

// editPlaintext reads challenge 25's file, which is challenge 7's ECB
// ciphertext, and falls back to the byte-at-a-time secret.
func editPlaintext(env *challenge.Env) ([]byte, error) {
	ct, err := env.Data.Base64(25)
	if errors.Is(err, challenge.ErrMissingData) {
		env.Logger.Debug("using embedded plaintext")

		return set2.DecodedSecret(), nil
	}

	if err != nil {
		return nil, err
	}

	return set1.DecryptECB([]byte(set1.Key), ct)
}

func breakEditableCTR(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
	pt, err := editPlaintext(env)
	if err != nil {
		return nil, err
	}

	server := NewEditableCTR()
	ct := server.Encrypt(pt)

	got, err := RecoverWithEdit(ct, server.Edit)
	if err != nil {
		return nil, err
	}

	line, _, _ := bytes.Cut(got, []byte("\n"))
	res := &challenge.Result{Output: string(line), Queries: 1, Recovered: len(got)}

	return res, challenge.Expect("plaintext", string(got), string(pt))
}

// CTRCookieService is CBC bitflipping's cookie service over CTR.
type CTRCookieService struct {
	block cipher.Block
	nonce uint64
}

// NewCTRCookieService creates a service with a random key and nonce.
func NewCTRCookieService() *CTRCookieService {
	return &CTRCookieService{block: blockmode.MustAES(randutil.Bytes(16)), nonce: uint64(randutil.Uint32())}
}

// Encrypt wraps quoted userdata into a cookie.
func (s *CTRCookieService) Encrypt(userdata string) []byte {
	return blockmode.CTRCrypt(s.block, s.nonce, []byte(set2.CommentPrefix+set2.Quote(userdata)+set2.CommentSuffix))
}

// IsAdmin decrypts a cookie and reports whether it grants admin.
func (s *CTRCookieService) IsAdmin(ct []byte) bool {
	return bytes.Contains(blockmode.CTRCrypt(s.block, s.nonce, ct), []byte(set2.AdminMarker))
}

// FlipCTR rewrites filler userdata at offset into the admin marker in place.
func FlipCTR(encrypt func(string) []byte, offset int) []byte {
	filler := strings.Repeat("A", len(set2.AdminMarker))
	ct := encrypt(filler)

	for i := range len(set2.AdminMarker) {
		ct[offset+i] ^= set2.AdminMarker[i] ^ 'A'
	}

	return ct
}

func ctrBitflipping(context.Context, *challenge.Env) (*challenge.Result, error) {
	svc := NewCTRCookieService()

	if svc.IsAdmin(svc.Encrypt(set2.AdminMarker)) {
		return nil, fmt.Errorf("%w: quoting let the marker through", challenge.ErrMismatch)
	}

	admin := svc.IsAdmin(FlipCTR(svc.Encrypt, len(set2.CommentPrefix)))

	return &challenge.Result{Output: fmt.Sprintf("admin=%t", admin), Queries: 2}, challenge.Expect("admin", admin, true)
}
