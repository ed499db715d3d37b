package mac

import (
	"bytes"
	"fmt"
	"hash"

	"github.com/idelchi/cryptopals/internal/mdhash"
)

// Forgery is a length-extended message and a tag that authenticates it.
type Forgery struct {
	// Message is the original message, the glue padding and the extension.
	Message []byte
	// Suffix is the glue padding followed by the extension.
	Suffix []byte
	Tag    []byte
}

type resumer func(sum []byte, length uint64) (hash.Hash, error)

// ExtendSHA1 forges a SHA-1 secret-prefix tag for msg || glue || extension,
// assuming a key of keyLen bytes.
func ExtendSHA1(msg, tag []byte, keyLen int, extension []byte) (Forgery, error) {
	return extend(msg, tag, keyLen, extension, mdhash.SHA1Padding, mdhash.SHA1FromDigest)
}

// ExtendMD4 forges an MD4 secret-prefix tag for msg || glue || extension,
// assuming a key of keyLen bytes.
func ExtendMD4(msg, tag []byte, keyLen int, extension []byte) (Forgery, error) {
	return extend(msg, tag, keyLen, extension, mdhash.MD4Padding, mdhash.MD4FromDigest)
}

func extend(msg, tag []byte, keyLen int, extension []byte, padding func(uint64) []byte, resume resumer) (Forgery, error) {
	processed := uint64(keyLen + len(msg))
	glue := padding(processed)

	h, err := resume(tag, processed+uint64(len(glue)))
	if err != nil {
		return Forgery{}, fmt.Errorf("resuming hash: %w", err)
	}

	_, _ = h.Write(extension)

	suffix := append(glue, extension...)

	return Forgery{
		Message: append(bytes.Clone(msg), suffix...),
		Suffix:  suffix,
		Tag:     h.Sum(nil),
	}, nil
}

// Verifier checks a message and tag, as a server holding the key would.
type Verifier func(msg, tag []byte) bool

// ForgeExtension tries key lengths from 0 to maxKeyLen until verify accepts a
// forgery of msg extended by extension.
func ForgeExtension(
	extender func(msg, tag []byte, keyLen int, extension []byte) (Forgery, error),
	msg, tag, extension []byte,
	maxKeyLen int,
	verify Verifier,
) (Forgery, int, error) {
	for keyLen := 0; keyLen <= maxKeyLen; keyLen++ {
		f, err := extender(msg, tag, keyLen, extension)
		if err != nil {
			return Forgery{}, 0, err
		}

		if verify(f.Message, f.Tag) {
			return f, keyLen, nil
		}
	}

	return Forgery{}, 0, ErrForgeryRejected
}
