package mdcollide

import (
	"fmt"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// Diamond is a Kelsey-Kohno herding structure: 2^K leaf states funnel into a
// single root, and Prediction is the hash every forged message will have.
type Diamond struct {
	K            int
	PrefixBlocks int
	Prediction   []byte

	h      *Hash
	leaves map[string]int
	// levels[d][i] is the block taking node i at depth d to its parent.
	levels [][][]byte
}

// Nostradamus commits to a hash for any prefix of exactly prefixBlocks blocks.
func Nostradamus(h *Hash, k, prefixBlocks int) *Diamond {
	d := &Diamond{K: k, PrefixBlocks: prefixBlocks, h: h, leaves: make(map[string]int)}

	states := make([][]byte, 0, 1<<k)
	for len(states) < 1<<k {
		s := randutil.Bytes(h.Size)
		if _, ok := d.leaves[string(s)]; ok {
			continue
		}

		d.leaves[string(s)] = len(states)
		states = append(states, s)
	}

	for len(states) > 1 {
		blocks := make([][]byte, len(states))
		parents := make([][]byte, len(states)/2)

		for i := 0; i < len(states); i += 2 {
			a, b, out := h.collide(states[i], states[i+1])
			blocks[i], blocks[i+1] = a, b
			parents[i/2] = out
		}

		d.levels = append(d.levels, blocks)
		states = parents
	}

	total := (prefixBlocks + 1 + k) * BlockSize
	tail := Pad(make([]byte, total))[total:]
	d.Prediction = h.Iterate(states[0], tail)

	return d
}

// Forge appends a linking block and the diamond path to prefix.
func (d *Diamond) Forge(prefix []byte) ([]byte, error) {
	if len(prefix) != d.PrefixBlocks*BlockSize {
		return nil, fmt.Errorf("%w: prefix must be %d blocks", ErrLength, d.PrefixBlocks)
	}

	state := d.h.Iterate(d.h.H0, prefix)

	for {
		link := randutil.Bytes(BlockSize)

		leaf, ok := d.leaves[string(d.h.Compress(state, link))]
		if !ok {
			continue
		}

		out := append(append([]byte(nil), prefix...), link...)

		for _, level := range d.levels {
			out = append(out, level[leaf]...)
			leaf /= 2
		}

		return out, nil
	}
}
