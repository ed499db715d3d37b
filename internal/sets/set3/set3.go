// Package set3 covers block and stream crypto: padding oracles, CTR and MT19937.
package set3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/mt19937"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Challenges returns the challenges of set 3.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 17, Title: "The CBC padding oracle", Run: paddingOracle},
		{Number: 18, Title: "Implement CTR, the stream cipher mode", Run: ctrMode},
		{Number: 19, Title: "Break fixed-nonce CTR mode using substitutions", Run: fixedNonceSubstitutions},
		{Number: 20, Title: "Break fixed-nonce CTR statistically", Run: fixedNonceStatistics},
		{Number: 21, Title: "Implement the MT19937 Mersenne Twister RNG", Run: mersenneTwister},
		{Number: 22, Title: "Crack an MT19937 seed", Run: crackSeed},
		{Number: 23, Title: "Clone an MT19937 RNG from its output", Run: cloneMT},
		{Number: 24, Title: "Create the MT19937 stream cipher and break it", Run: breakMTStream},
	}
}

const (
	ctrKey        = "YELLOW SUBMARINE"
	ctrCiphertext = "L77na/nrFsKvynd6HzOoG7GHTLXsTVu9qvY/2syLXzhPweyyMTJULu/6/kXX0KSvoOLSFQ=="
	ctrPlaintext  = "Yo, VIP Let's kick it Ice, Ice, baby Ice, Ice, baby "
)

func ctrMode(context.Context, *challenge.Env) (*challenge.Result, error) {
	ct, err := base64.StdEncoding.DecodeString(ctrCiphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}

	block, err := blockmode.NewAES([]byte(ctrKey))
	if err != nil {
		return nil, err
	}

	pt := blockmode.CTRCrypt(block, 0, ct)

	return &challenge.Result{Output: string(pt), Recovered: len(pt)}, challenge.Expect("plaintext", string(pt), ctrPlaintext)
}

func mersenneTwister(context.Context, *challenge.Env) (*challenge.Result, error) {
	mt := mt19937.New(mt19937.DefaultSeed)

	got := [3]uint32{mt.Uint32(), mt.Uint32(), mt.Uint32()}

	return &challenge.Result{Output: fmt.Sprint(got)}, challenge.Expect("outputs", got, [3]uint32{3499211612, 581869302, 3890346734})
}

// Clock is a simulated wall clock.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the simulated time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Sleep advances the clock without waiting.
func (c *Clock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

// TimeSeeded waits a random 40 to 1000 seconds, seeds MT19937 with the time,
// waits again and returns the first output. It also returns the seed.
func TimeSeeded(clock *Clock) (uint32, uint32) {
	const lo, hi = 40, 1000

	clock.Sleep(time.Duration(randutil.Between(lo, hi)) * time.Second)
	seed := uint32(clock.Now().Unix()) //nolint:gosec // unix seconds fit until 2106

	out := mt19937.New(seed).Uint32()
	clock.Sleep(time.Duration(randutil.Between(lo, hi)) * time.Second)

	return out, seed
}

// CrackTimeSeed searches the window seconds before now.
func CrackTimeSeed(out uint32, now time.Time, window time.Duration) (uint32, error) {
	hi := uint32(now.Unix())              //nolint:gosec // unix seconds fit until 2106
	lo := uint32(now.Add(-window).Unix()) //nolint:gosec // unix seconds fit until 2106

	return mt19937.CrackSeed(out, lo, hi)
}

func crackSeed(context.Context, *challenge.Env) (*challenge.Result, error) {
	clock := NewClock(time.Now())

	out, seed := TimeSeeded(clock)

	got, err := CrackTimeSeed(out, clock.Now(), 2000*time.Second)
	if err != nil {
		return nil, err
	}

	return &challenge.Result{Output: fmt.Sprintf("seed %d", got)}, challenge.Expect("seed", got, seed)
}

func cloneMT(context.Context, *challenge.Env) (*challenge.Result, error) {
	const check = 1000

	mt := mt19937.New(randutil.Uint32())
	clone := mt19937.Tap(mt.Uint32)

	for i := range check {
		if a, b := mt.Uint32(), clone.Uint32(); a != b {
			return nil, fmt.Errorf("%w: output %d is %d, clone says %d", challenge.ErrMismatch, i, a, b)
		}
	}

	return &challenge.Result{
		Output:  fmt.Sprintf("clone matched %d outputs after tapping %d", check, mt19937.StateSize),
		Queries: mt19937.StateSize,
	}, nil
}

func breakMTStream(context.Context, *challenge.Env) (*challenge.Result, error) {
	known := bytes.Repeat([]byte{'A'}, 14)

	encrypt, seed := mt19937.PrefixOracle()

	got, err := mt19937.RecoverStreamSeed(encrypt(known), known)
	if err != nil {
		return nil, err
	}

	if err := challenge.Expect("stream seed", got, seed); err != nil {
		return nil, err
	}

	now := time.Now()
	token := mt19937.ResetToken(now.Add(-time.Duration(randutil.Between(1, 300))*time.Second), 16)

	if !mt19937.IsTimeSeededToken(token, now, 10*time.Minute) {
		return nil, fmt.Errorf("%w: time-seeded token not detected", challenge.ErrMismatch)
	}

	if mt19937.IsTimeSeededToken(randutil.Bytes(16), now, 10*time.Minute) {
		return nil, fmt.Errorf("%w: random token flagged as time-seeded", challenge.ErrMismatch)
	}

	return &challenge.Result{Output: fmt.Sprintf("stream seed %d, reset token detected", got)}, nil
}
