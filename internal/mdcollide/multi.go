package mdcollide

import (
	"context"
	"fmt"
)

// Multicollision is a chain of colliding block pairs. Picking either block
// at every step yields 2^len(Pairs) messages with the same hash.
type Multicollision struct {
	Pairs [][2][]byte
	State []byte
}

// Messages expands the chain into all colliding messages.
func (m Multicollision) Messages() [][]byte {
	out := [][]byte{nil}

	for _, pair := range m.Pairs {
		next := make([][]byte, 0, 2*len(out))

		for _, prefix := range out {
			for _, block := range pair {
				msg := append(append([]byte(nil), prefix...), block...)
				next = append(next, msg)
			}
		}

		out = next
	}

	return out
}

// MultiCollisions finds n successive single-block collisions from the IV.
func MultiCollisions(h *Hash, n int) Multicollision {
	return extendChain(h, Multicollision{State: h.H0}, n)
}

func extendChain(h *Hash, m Multicollision, n int) Multicollision {
	for range n {
		a, b, next := h.collide(m.State, m.State)
		m.Pairs = append(m.Pairs, [2][]byte{a, b})
		m.State = next
	}

	return m
}

// Cascade finds two messages colliding under f || g. Collisions of f are
// generated in bulk until some pair of them also collides under g.
func Cascade(ctx context.Context, f, g *Hash) ([]byte, []byte, error) {
	chain := MultiCollisions(f, g.Size*4)

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("cascading collision: %w", err)
		}

		seen := make(map[string][]byte)

		for _, msg := range chain.Messages() {
			sum := string(g.Sum(msg))

			if prev, ok := seen[sum]; ok {
				return prev, msg, nil
			}

			seen[sum] = msg
		}

		chain = extendChain(f, chain, 1)
	}
}
