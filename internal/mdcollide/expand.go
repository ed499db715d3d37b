package mdcollide

import (
	"bytes"
	"fmt"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// Expandable is a Kelsey-Schneier expandable message: for every length in
// [K, K+2^K-1] blocks it yields a message that ends in State.
type Expandable struct {
	K     int
	Short [][]byte
	Long  [][]byte
	State []byte
}

// NewExpandable builds an expandable message over k collision steps.
// Step i pairs a single block with 2^(k-1-i) filler blocks plus one block.
func NewExpandable(h *Hash, k int) Expandable {
	e := Expandable{K: k, State: h.H0}

	for i := range k {
		filler := make([]byte, BlockSize<<(k-1-i))
		copy(filler, randutil.Bytes(BlockSize))

		skip := h.Iterate(e.State, filler)
		short, last, next := h.collide(e.State, skip)

		e.Short = append(e.Short, short)
		e.Long = append(e.Long, append(filler, last...))
		e.State = next
	}

	return e
}

// Message returns the variant that is exactly blocks long.
func (e Expandable) Message(blocks int) ([]byte, error) {
	extra := blocks - e.K
	if extra < 0 || extra >= 1<<e.K {
		return nil, fmt.Errorf("%w: %d blocks outside [%d, %d]", ErrLength, blocks, e.K, e.K+1<<e.K-1)
	}

	var out []byte

	for i := range e.K {
		bit := 1 << (e.K - 1 - i)
		if extra&bit != 0 {
			out = append(out, e.Long[i]...)
		} else {
			out = append(out, e.Short[i]...)
		}
	}

	return out, nil
}

// SecondPreimage returns a different message of the same length and hash as
// msg, which must be 2^k aligned blocks.
func SecondPreimage(h *Hash, msg []byte, k int) ([]byte, error) {
	if len(msg) != BlockSize<<k {
		return nil, fmt.Errorf("%w: need %d blocks", ErrLength, 1<<k)
	}

	// Intermediate states indexed by the number of blocks consumed.
	states := make(map[string]int)
	state := h.H0

	for i := 1; i <= 1<<k; i++ {
		state = h.Compress(state, msg[(i-1)*BlockSize:i*BlockSize])
		if i > k {
			states[string(state)] = i
		}
	}

	e := NewExpandable(h, k)

	for {
		bridge := randutil.Bytes(BlockSize)

		j, ok := states[string(h.Compress(e.State, bridge))]
		if !ok {
			continue
		}

		prefix, err := e.Message(j - 1)
		if err != nil {
			return nil, err
		}

		forged := append(append(prefix, bridge...), msg[j*BlockSize:]...)
		if !bytes.Equal(forged, msg) {
			return forged, nil
		}
	}
}
