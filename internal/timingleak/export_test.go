package timingleak

import "context"

// LastByte exposes the final-byte search.
func (a *Attacker) LastByte(ctx context.Context, file string, guess []byte) (byte, error) {
	return a.lastByte(ctx, file, guess)
}
