package rsa

import (
	"crypto/sha256"
	"math/big"
	"sync"
	"sync/atomic"
)

// Oracle answers one bit about the plaintext of a ciphertext.
type Oracle func(c *big.Int) bool

// Counter wraps an oracle and counts its queries.
type Counter struct {
	oracle  Oracle
	queries atomic.Int64
}

// NewCounter wraps oracle.
func NewCounter(oracle Oracle) *Counter {
	return &Counter{oracle: oracle}
}

// Query asks the wrapped oracle.
func (c *Counter) Query(ct *big.Int) bool {
	c.queries.Add(1)

	return c.oracle(ct)
}

// Queries returns the number of queries so far.
func (c *Counter) Queries() int64 {
	return c.queries.Load()
}

// ParityOracle reports whether the plaintext is even.
func ParityOracle(priv *PrivateKey) Oracle {
	return func(c *big.Int) bool {
		return priv.Decrypt(c).Bit(0) == 0
	}
}

// PaddingOracle reports whether the plaintext starts with 00 02.
func PaddingOracle(priv *PrivateKey) Oracle {
	k := priv.Size()

	return func(c *big.Int) bool {
		return ConformsEncrypt(LeftPad(priv.Decrypt(c).Bytes(), k))
	}
}

// DecryptionServer decrypts any ciphertext once and refuses repeats by hash.
type DecryptionServer struct {
	priv *PrivateKey

	mu   sync.Mutex
	seen map[[sha256.Size]byte]struct{}
}

// NewDecryptionServer creates a server for priv.
func NewDecryptionServer(priv *PrivateKey) *DecryptionServer {
	return &DecryptionServer{priv: priv, seen: make(map[[sha256.Size]byte]struct{})}
}

// Decrypt returns the plaintext of c, or ErrReplayed if c was seen before.
func (s *DecryptionServer) Decrypt(c *big.Int) (*big.Int, error) {
	sum := sha256.Sum256(c.Bytes())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[sum]; ok {
		return nil, ErrReplayed
	}

	s.seen[sum] = struct{}{}

	return s.priv.Decrypt(c), nil
}
