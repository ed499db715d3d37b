// Package set6 covers RSA and DSA: oracles, forged signatures and nonce abuse.
package set6

import (
	"github.com/idelchi/cryptopals/internal/challenge"
)

// Challenges returns the challenges of set 6.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 41, Title: "Implement unpadded message recovery oracle", Run: unpaddedRecovery},
		{Number: 42, Title: "Bleichenbacher's e=3 RSA Attack", Run: forgeSignature},
		{Number: 43, Title: "DSA key recovery from nonce", Run: weakNonce},
		{Number: 44, Title: "DSA nonce recovery from repeated nonce", Run: repeatedNonce},
		{Number: 45, Title: "DSA parameter tampering", Run: parameterTampering},
		{Number: 46, Title: "RSA parity oracle", Run: parityOracle},
		{Number: 47, Title: "Bleichenbacher's PKCS 1.5 Padding Oracle (Simple Case)", Run: paddingOracle(256)},
		{Number: 48, Title: "Bleichenbacher's PKCS 1.5 Padding Oracle (Complete Case)", Slow: true, Run: paddingOracle(768)},
	}
}
