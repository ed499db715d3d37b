package blockmode

import (
	"crypto/cipher"
	"fmt"
)

// CBCEncrypt encrypts aligned data in CBC mode.
// Each plaintext block is XORed with the previous ciphertext block (or the IV) before encryption.
func CBCEncrypt(block cipher.Block, iv, data []byte) ([]byte, error) {
	size := block.BlockSize()
	if len(iv) != size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIV, len(iv), size)
	}

	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockSize, len(data))
	}

	ciphertext := make([]byte, len(data))
	prev := iv
	scratch := make([]byte, size)

	for i := 0; i < len(data); i += size {
		xorInto(scratch, data[i:i+size], prev)
		block.Encrypt(ciphertext[i:i+size], scratch)

		prev = ciphertext[i : i+size]
	}

	return ciphertext, nil
}

// CBCDecrypt decrypts aligned data in CBC mode. Padding is left in place.
func CBCDecrypt(block cipher.Block, iv, data []byte) ([]byte, error) {
	size := block.BlockSize()
	if len(iv) != size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIV, len(iv), size)
	}

	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockSize, len(data))
	}

	plaintext := make([]byte, len(data))
	prev := iv

	for i := 0; i < len(data); i += size {
		block.Decrypt(plaintext[i:i+size], data[i:i+size])
		xorInto(plaintext[i:i+size], plaintext[i:i+size], prev)

		prev = data[i : i+size]
	}

	return plaintext, nil
}

func xorInto(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
