// Package set7 covers hashes: CBC-MAC forgery, compression oracles,
// Merkle-Damgard weaknesses, MD4 collisions and RC4 biases.
package set7

import (
	"github.com/idelchi/cryptopals/internal/challenge"
)

// Challenges returns the challenges of set 7.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 49, Title: "CBC-MAC Message Forgery", Run: cbcmacForgery},
		{Number: 50, Title: "Hashing with CBC-MAC", Run: cbcmacHash},
		{Number: 51, Title: "Compression Ratio Side-Channel Attacks", Run: compressionOracle},
		{Number: 52, Title: "Iterated Hash Function Multicollisions", Run: multicollisions},
		{Number: 53, Title: "Kelsey and Schneier's Expandable Messages", Run: expandableMessages},
		{Number: 54, Title: "Kelsey and Kohno's Nostradamus Attack", Run: nostradamus},
		{Number: 55, Title: "MD4 Collisions", Run: md4Collisions},
		{Number: 56, Title: "RC4 Single-Byte Biases", Slow: true, Run: rc4Biases},
	}
}
