package rsa

import (
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// RecoverUnpadded decrypts c through a server that refuses to decrypt it
// twice: it submits S^e c for a random S and divides S back out.
func RecoverUnpadded(pub *PublicKey, c *big.Int, decrypt func(*big.Int) (*big.Int, error)) (*big.Int, error) {
	var s *big.Int

	for {
		s = randutil.BigBetween(big.NewInt(2), pub.N)
		if new(big.Int).GCD(nil, nil, s, pub.N).Cmp(big.NewInt(1)) == 0 {
			break
		}
	}

	blinded := new(big.Int).Exp(s, pub.E, pub.N)
	blinded.Mul(blinded, c).Mod(blinded, pub.N)

	p, err := decrypt(blinded)
	if err != nil {
		return nil, fmt.Errorf("decrypting blinded ciphertext: %w", err)
	}

	inv, err := numtheory.InvMod(s, pub.N)
	if err != nil {
		return nil, err
	}

	return p.Mul(p, inv).Mod(p, pub.N), nil
}

// Broadcast recovers a message encrypted under three e = 3 keys using the CRT and a cube root.
func Broadcast(pubs [3]*PublicKey, cts [3]*big.Int) (*big.Int, error) {
	moduli := make([]*big.Int, len(pubs))
	for i, pub := range pubs {
		moduli[i] = pub.N
	}

	x, _, err := numtheory.CRT(cts[:], moduli)
	if err != nil {
		return nil, fmt.Errorf("combining ciphertexts: %w", err)
	}

	m := numtheory.CubeRoot(x)
	if new(big.Int).Exp(m, big.NewInt(3), nil).Cmp(x) != 0 {
		return nil, ErrAttackFailed
	}

	return m, nil
}

// ForgeSignature forges an e = 3 signature accepted by VerifyBroken.
// The block 00 01 FF 00 DigestInfo is followed by garbage large enough that
// the ceiling of its cube root keeps the prefix intact.
func ForgeSignature(pub *PublicKey, h Hash, msg []byte) ([]byte, error) {
	if pub.E.Cmp(big.NewInt(3)) != 0 {
		return nil, fmt.Errorf("%w: e = %v", ErrNoForgery, pub.E)
	}

	k := pub.Size()
	prefix := append([]byte{0x00, 0x01, 0xff, 0x00}, h.DigestInfo(msg)...)

	if len(prefix) >= k {
		return nil, ErrNoForgery
	}

	garbage := uint(8 * (k - len(prefix)))

	lo := new(big.Int).Lsh(new(big.Int).SetBytes(prefix), garbage)
	hi := new(big.Int).Add(lo, new(big.Int).Lsh(big.NewInt(1), garbage))

	root := numtheory.CubeRoot(new(big.Int).Sub(lo, big.NewInt(1)))
	root.Add(root, big.NewInt(1))

	if new(big.Int).Exp(root, big.NewInt(3), nil).Cmp(hi) >= 0 {
		return nil, ErrNoForgery
	}

	return LeftPad(root.Bytes(), k), nil
}

// ParityAttack decrypts c with a parity oracle by repeatedly doubling the
// plaintext and halving the interval that contains it.
// progress, if set, is called with the current upper bound after each step.
func ParityAttack(pub *PublicKey, c *big.Int, oracle Oracle, progress func(*big.Int)) *big.Int {
	double := new(big.Int).Exp(big.NewInt(2), pub.E, pub.N)
	ct := new(big.Int).Set(c)

	// After i steps the plaintext lies in [lo N / 2^i, (lo+1) N / 2^i].
	lo := new(big.Int)
	bits := pub.N.BitLen()

	for i := 1; i <= bits; i++ {
		ct.Mul(ct, double).Mod(ct, pub.N)
		lo.Lsh(lo, 1)

		if !oracle(ct) {
			lo.Add(lo, big.NewInt(1))
		}

		if progress != nil {
			upper := new(big.Int).Add(lo, big.NewInt(1))
			progress(upper.Mul(upper, pub.N).Rsh(upper, uint(i)))
		}
	}

	upper := new(big.Int).Add(lo, big.NewInt(1))

	return upper.Mul(upper, pub.N).Rsh(upper, uint(bits))
}
