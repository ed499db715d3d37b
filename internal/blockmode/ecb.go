package blockmode

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// NewAES creates an AES block cipher for the given key.
func NewAES(key []byte) (cipher.Block, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return block, nil
}

// MustAES is like NewAES but panics on an invalid key length.
// It is meant for oracles whose keys are generated internally.
func MustAES(key []byte) cipher.Block {
	block, err := NewAES(key)
	if err != nil {
		panic(err)
	}

	return block
}

// ECBEncrypt encrypts aligned data block by block.
func ECBEncrypt(block cipher.Block, data []byte) ([]byte, error) {
	size := block.BlockSize()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockSize, len(data))
	}

	ciphertext := make([]byte, len(data))

	for i := 0; i < len(data); i += size {
		block.Encrypt(ciphertext[i:i+size], data[i:i+size])
	}

	return ciphertext, nil
}

// ECBDecrypt decrypts aligned data block by block.
func ECBDecrypt(block cipher.Block, data []byte) ([]byte, error) {
	size := block.BlockSize()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockSize, len(data))
	}

	plaintext := make([]byte, len(data))

	for i := 0; i < len(data); i += size {
		block.Decrypt(plaintext[i:i+size], data[i:i+size])
	}

	return plaintext, nil
}
