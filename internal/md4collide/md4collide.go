// Package md4collide finds single-block MD4 collisions with Wang's
// differential and message modification.
package md4collide

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math/bits"
	"runtime"
	"sync/atomic"

	"golang.org/x/crypto/md4" //nolint:staticcheck // reference digest
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/cryptopals/internal/mdhash"
	"github.com/idelchi/cryptopals/internal/randutil"
)

//nolint:gochecknoglobals
var shift1 = [4]int{3, 7, 11, 19}

// Collision is a pair of distinct 64-byte blocks with the same MD4 digest.
type Collision struct {
	M1, M2 []byte
	Tries  int64
}

// state holds the round-one chaining variables: s[0..3] are a0, d0, c0, b0
// and s[4+i] is the output of step i.
type state [20]uint32

func rotr(x uint32, n int) uint32 { return bits.RotateLeft32(x, -n) }

func initial() state {
	iv := mdhash.MD4IV()

	var s state
	s[0], s[1], s[2], s[3] = iv[0], iv[3], iv[2], iv[1]

	return s
}

// step returns the inputs of round-one step i: a, b, c, d in MD4 rotation order.
func (s *state) step(i int) (a, b, c, d uint32) {
	return s[i], s[i+3], s[i+2], s[i+1]
}

// word recomputes the message word that makes step i output v.
func (s *state) word(i int, v uint32) uint32 {
	a, b, c, d := s.step(i)

	return rotr(v, shift1[i%4]) - a - mdhash.MD4F(b, c, d)
}

func run(m *[16]uint32) state {
	s := initial()

	for i := range 16 {
		a, b, c, d := s.step(i)
		s[4+i] = bits.RotateLeft32(a+mdhash.MD4F(b, c, d)+m[i], shift1[i%4])
	}

	return s
}

// Massage rewrites m so the first-round conditions hold and corrects the
// second-round variables a5, d5 and bit 29 of c5.
func Massage(m *[16]uint32) {
	s := initial()

	for i := range 16 {
		a, b, c, d := s.step(i)
		v := bits.RotateLeft32(a+mdhash.MD4F(b, c, d)+m[i], shift1[i%4])
		v = enforce(v, s[3+i], round1[i])
		s[4+i] = v
		m[i] = s.word(i, v)
	}

	a4, d4, c4, b4 := s[16], s[17], s[18], s[19]

	// a5 through a1: m0 changes, m1..m4 keep d1, c1, b1, a2.
	a5 := bits.RotateLeft32(a4+mdhash.MD4G(b4, c4, d4)+m[0]+mdhash.MD4Round2, 3)
	fixed := setBit(a5, 18, bitOf(c4, 18))
	fixed = setBit(fixed, 25, true)
	fixed = setBit(fixed, 26, false)
	fixed = setBit(fixed, 28, true)
	fixed = setBit(fixed, 31, true)

	if fixed != a5 {
		m[0] = rotr(fixed, 3) - a4 - mdhash.MD4G(b4, c4, d4) - mdhash.MD4Round2
		rechain(m, &s, 0)
		a5 = fixed
	}

	// d5 through a2: m4 changes, m5..m8 keep d2, c2, b2, a3.
	d5 := bits.RotateLeft32(d4+mdhash.MD4G(a5, b4, c4)+m[4]+mdhash.MD4Round2, 5)
	fixed = setBit(d5, 18, bitOf(a5, 18))

	for _, bit := range []uint{25, 26, 28, 31} {
		fixed = setBit(fixed, bit, bitOf(b4, bit))
	}

	if fixed != d5 {
		m[4] = rotr(fixed, 5) - d4 - mdhash.MD4G(a5, b4, c4) - mdhash.MD4Round2
		rechain(m, &s, 4)
		d5 = fixed
	}

	// c5 bit 29 through a3: the other c5 bits would break a3's conditions.
	c5 := bits.RotateLeft32(c4+mdhash.MD4G(d5, a5, b4)+m[8]+mdhash.MD4Round2, 9)
	if bitOf(c5, 29) != bitOf(d5, 29) {
		m[8] = rotr(c5^1<<29, 9) - c4 - mdhash.MD4G(d5, a5, b4) - mdhash.MD4Round2
		rechain(m, &s, 8)
	}
}

// rechain recomputes step i from the changed m[i] and adjusts the next four
// words so every later chaining variable stays the same.
func rechain(m *[16]uint32, s *state, i int) {
	a, b, c, d := s.step(i)
	s[4+i] = bits.RotateLeft32(a+mdhash.MD4F(b, c, d)+m[i], shift1[i%4])

	for j := i + 1; j <= i+4; j++ {
		m[j] = s.word(j, s[4+j])
	}
}

// Valid reports whether m satisfies every first-round condition.
func Valid(m [16]uint32) bool {
	s := run(&m)

	for i := range 16 {
		if !holds(s[4+i], s[3+i], round1[i]) {
			return false
		}
	}

	return true
}

// Twin applies the collision differential to m.
func Twin(m [16]uint32) [16]uint32 {
	m[1] += 1 << 31
	m[2] += 1<<31 - 1<<28
	m[12] -= 1 << 16

	return m
}

func encode(m [16]uint32) []byte {
	out := make([]byte, 64)
	for i, w := range m {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}

	return out
}

// Try massages one random message and reports whether it and its twin collide.
func Try() (Collision, bool) {
	m := mdhash.MD4Words(randutil.Bytes(64))
	Massage(&m)

	if !Valid(m) {
		return Collision{}, false
	}

	m2 := Twin(m)
	if mdhash.MD4Compress(mdhash.MD4IV(), encode(m)) != mdhash.MD4Compress(mdhash.MD4IV(), encode(m2)) {
		return Collision{}, false
	}

	return Collision{M1: encode(m), M2: encode(m2)}, true
}

// Find searches up to maxTries random messages across all CPUs.
// A collision is confirmed against golang.org/x/crypto/md4 before it is returned.
func Find(ctx context.Context, maxTries int64) (Collision, error) {
	var (
		tries atomic.Int64
		found atomic.Pointer[Collision]
	)

	g, ctx := errgroup.WithContext(ctx)

	for range runtime.NumCPU() {
		g.Go(func() error {
			for found.Load() == nil && tries.Add(1) <= maxTries {
				if err := ctx.Err(); err != nil {
					return err
				}

				if c, ok := Try(); ok && Verify(c.M1, c.M2) {
					found.CompareAndSwap(nil, &c)
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Collision{}, fmt.Errorf("searching md4 collision: %w", err)
	}

	c := found.Load()
	if c == nil {
		return Collision{}, fmt.Errorf("%w after %d tries", ErrNotFound, maxTries)
	}

	c.Tries = min(tries.Load(), maxTries)

	return *c, nil
}

// Verify reports whether a and b are distinct and share an MD4 digest.
func Verify(a, b []byte) bool {
	ha, hb := md4.New(), md4.New()
	_, _ = ha.Write(a)
	_, _ = hb.Write(b)

	return !bytes.Equal(a, b) && bytes.Equal(ha.Sum(nil), hb.Sum(nil))
}
