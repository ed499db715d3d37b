package rsa

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // signatures over SHA-1 are part of the forgery
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// Hash identifies a digest for PKCS#1 v1.5 signatures.
type Hash int

// Supported digests.
const (
	SHA1 Hash = iota
	SHA256
)

//nolint:gochecknoglobals
var digestInfo = map[Hash][]byte{
	SHA1:   {0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14},
	SHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
}

// Sum hashes msg.
func (h Hash) Sum(msg []byte) []byte {
	switch h {
	case SHA1:
		sum := sha1.Sum(msg) //nolint:gosec // see import

		return sum[:]
	default:
		sum := sha256.Sum256(msg)

		return sum[:]
	}
}

// DigestInfo returns the ASN.1 prefix followed by the digest of msg.
func (h Hash) DigestInfo(msg []byte) []byte {
	return append(bytes.Clone(digestInfo[h]), h.Sum(msg)...)
}

const minPadding = 8

// PadEncrypt applies type 2 padding: 00 02 PS 00 msg, with PS non-zero random bytes.
func PadEncrypt(msg []byte, k int) ([]byte, error) {
	if len(msg) > k-3-minPadding {
		return nil, fmt.Errorf("%w: %d bytes for a %d byte modulus", ErrMessageTooLong, len(msg), k)
	}

	em := make([]byte, k)
	em[1] = 2

	ps := em[2 : k-len(msg)-1]
	for i := range ps {
		for ps[i] == 0 {
			ps[i] = randutil.Bytes(1)[0]
		}
	}

	copy(em[k-len(msg):], msg)

	return em, nil
}

// UnpadEncrypt strips type 2 padding.
func UnpadEncrypt(em []byte) ([]byte, error) {
	if !ConformsEncrypt(em) {
		return nil, ErrInvalidPadding
	}

	sep := bytes.IndexByte(em[2:], 0)
	if sep < minPadding {
		return nil, ErrInvalidPadding
	}

	return em[2+sep+1:], nil
}

// ConformsEncrypt reports whether em starts with 00 02.
func ConformsEncrypt(em []byte) bool {
	return len(em) >= 2 && em[0] == 0 && em[1] == 2
}

// PadSign applies type 1 padding to the DigestInfo of msg: 00 01 FF.. 00 DigestInfo.
func PadSign(h Hash, msg []byte, k int) ([]byte, error) {
	info := h.DigestInfo(msg)
	if len(info) > k-3-minPadding {
		return nil, fmt.Errorf("%w: modulus of %d bytes", ErrMessageTooLong, k)
	}

	em := make([]byte, k)
	em[1] = 1

	for i := 2; i < k-len(info)-1; i++ {
		em[i] = 0xff
	}

	copy(em[k-len(info):], info)

	return em, nil
}

// Sign produces a PKCS#1 v1.5 signature.
func (priv *PrivateKey) Sign(h Hash, msg []byte) ([]byte, error) {
	em, err := PadSign(h, msg, priv.Size())
	if err != nil {
		return nil, err
	}

	return LeftPad(priv.Decrypt(new(big.Int).SetBytes(em)).Bytes(), priv.Size()), nil
}

// VerifyBroken checks a signature the way a careless implementation does:
// it looks for 00 01, at least one FF, 00 and the DigestInfo, but never checks
// that the DigestInfo ends the block.
func (pub *PublicKey) VerifyBroken(h Hash, msg, sig []byte) bool {
	s := new(big.Int).SetBytes(sig)
	if s.Cmp(pub.N) >= 0 {
		return false
	}

	em := LeftPad(new(big.Int).Exp(s, pub.E, pub.N).Bytes(), pub.Size())
	if len(em) < 3 || em[0] != 0 || em[1] != 1 || em[2] != 0xff {
		return false
	}

	i := 2
	for i < len(em) && em[i] == 0xff {
		i++
	}

	if i == len(em) || em[i] != 0 {
		return false
	}

	return bytes.HasPrefix(em[i+1:], h.DigestInfo(msg))
}
