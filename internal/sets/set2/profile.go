package set2

import (
	"context"
	"crypto/cipher"
	"fmt"
	"strings"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/padding"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Field is one key=value pair of an encoded profile.
type Field struct {
	Key, Value string
}

// Parse decodes "k=v&k=v" into ordered fields. Pairs without '=' get an empty value.
func Parse(s string) []Field {
	var fields []Field

	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		fields = append(fields, Field{Key: k, Value: v})
	}

	return fields
}

// Lookup returns the value of the first field named key.
func Lookup(fields []Field, key string) (string, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}

// Encode is the inverse of Parse.
func Encode(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Key + "=" + f.Value
	}

	return strings.Join(parts, "&")
}

// ProfileFor encodes a user profile, dropping metacharacters from the email.
func ProfileFor(email string) string {
	email = strings.NewReplacer("&", "", "=", "").Replace(email)

	return Encode([]Field{{"email", email}, {"uid", "10"}, {"role", "user"}})
}

// ProfileService hands out encrypted profiles and reads them back.
type ProfileService struct {
	block cipher.Block
}

// NewProfileService creates a service with a random key.
func NewProfileService() *ProfileService {
	return &ProfileService{block: blockmode.MustAES(randutil.Bytes(16))}
}

// Encrypt returns the encrypted profile of email.
func (s *ProfileService) Encrypt(email string) []byte {
	ct, err := blockmode.ECBEncrypt(s.block, padding.Pad([]byte(ProfileFor(email)), 16))
	if err != nil {
		panic(err)
	}

	return ct
}

// Decrypt parses an encrypted profile.
func (s *ProfileService) Decrypt(ct []byte) ([]Field, error) {
	pt, err := blockmode.ECBDecrypt(s.block, ct)
	if err != nil {
		return nil, fmt.Errorf("decrypting profile: %w", err)
	}

	pt, err = padding.Unpad(pt, 16)
	if err != nil {
		return nil, fmt.Errorf("decrypting profile: %w", err)
	}

	return Parse(string(pt)), nil
}

// ForgeAdmin builds a ciphertext whose role is admin from two encrypted
// profiles. The first ends a block right after "role=", the second carries a
// padded "admin" block.
func ForgeAdmin(encrypt func(email string) []byte) []byte {
	const (
		head = len("email=")
		tail = len("&uid=10&role=")
	)

	email := "foo" + strings.Repeat("0", (32-head-tail-len("foo@bar.com")+16)%16) + "@bar.com"
	aligned := encrypt(email)
	body := aligned[:head+len(email)+tail]

	admin := encrypt(strings.Repeat("A", 16-head) + string(padding.Pad([]byte("admin"), 16)))

	return append(body, admin[16:32]...)
}

func cutAndPaste(context.Context, *challenge.Env) (*challenge.Result, error) {
	parsed := Parse("foo=bar&baz=qux&zap=zazzle")
	if v, _ := Lookup(parsed, "zap"); v != "zazzle" {
		return nil, fmt.Errorf("%w: zap=%q", challenge.ErrMismatch, v)
	}

	svc := NewProfileService()

	fields, err := svc.Decrypt(ForgeAdmin(svc.Encrypt))
	if err != nil {
		return nil, err
	}

	role, _ := Lookup(fields, "role")

	return &challenge.Result{Output: Encode(fields), Queries: 2}, challenge.Expect("role", role, "admin")
}
