package srp

import (
	"math/big"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// ScramblerBits is the size of the random u in simplified SRP.
const ScramblerBits = 128

// SimpleHello is the simplified server's reply: salt, B = g^b and a random u.
type SimpleHello struct {
	Salt   []byte
	Public *big.Int
	U      *big.Int
}

// SimpleClientProof computes the client proof for simplified SRP, where
// S = B^(a + u x) mod N.
func (p Params) SimpleClientProof(eph Ephemeral, hello SimpleHello, password string) []byte {
	x := PrivateKey(hello.Salt, password)

	exp := new(big.Int).Mul(hello.U, x)
	exp.Add(exp, eph.Private)

	s := new(big.Int).Exp(hello.Public, exp, p.N)

	return Proof(SessionKey(s), hello.Salt)
}

// SimpleServer is an honest simplified SRP server for one password.
type SimpleServer struct {
	params   Params
	salt     []byte
	verifier *big.Int
}

// NewSimpleServer stores a verifier for password.
func NewSimpleServer(params Params, password string) *SimpleServer {
	salt := randutil.Bytes(SaltSize)

	return &SimpleServer{params: params, salt: salt, verifier: params.Verifier(salt, password)}
}

// Hello answers a client public value and returns a function that checks the client's proof.
func (s *SimpleServer) Hello(clientPublic *big.Int) (SimpleHello, func(proof []byte) bool) {
	b := randutil.BigBetween(big.NewInt(1), s.params.N)
	u := randutil.BigBelow(new(big.Int).Lsh(big.NewInt(1), ScramblerBits))

	hello := SimpleHello{Salt: s.salt, Public: new(big.Int).Exp(s.params.G, b, s.params.N), U: u}
	want := Proof(SessionKey(s.params.serverSecret(clientPublic, s.verifier, u, b)), s.salt)

	return hello, func(proof []byte) bool { return ValidProof(want, proof) }
}

// MaliciousHello is what a man in the middle sends: empty salt, b = 1 so B = g, and u = 1.
func (p Params) MaliciousHello() SimpleHello {
	return SimpleHello{Salt: nil, Public: new(big.Int).Set(p.G), U: big.NewInt(1)}
}

// CrackSimple recovers the password behind a proof answered to MaliciousHello.
// With b = u = 1 the secret is A * g^x mod N, so each guess costs one exponentiation.
func (p Params) CrackSimple(clientPublic *big.Int, proof []byte, dictionary []string) (string, error) {
	for _, guess := range dictionary {
		s := new(big.Int).Exp(p.G, PrivateKey(nil, guess), p.N)
		s.Mul(s, clientPublic)
		s.Mod(s, p.N)

		if ValidProof(Proof(SessionKey(s), nil), proof) {
			return guess, nil
		}
	}

	return "", ErrPasswordNotFound
}
