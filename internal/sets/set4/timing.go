package set4

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/randutil"
	"github.com/idelchi/cryptopals/internal/timingleak"
)

// TimingParallel bounds the in-flight requests of the timing attacks.
const TimingParallel = 32

// TimingParams configure one timing attack run.
type TimingParams struct {
	Delay   time.Duration
	Samples int
	// Length is the number of signature bytes to recover, zero for all.
	Length int
}

// timingParams returns the full or quick parameters for a delay.
func timingParams(delay time.Duration, samples int, quick bool) TimingParams {
	p := TimingParams{Delay: delay, Samples: samples}
	if quick {
		p.Length = 2
	}

	return p
}

// AttackTiming serves a leaky HMAC verifier over httptest and recovers the
// signature of a random file name.
func AttackTiming(ctx context.Context, env *challenge.Env, p TimingParams) (*challenge.Result, error) {
	server, err := timingleak.NewServer(randutil.Bytes(32), p.Delay)
	if err != nil {
		return nil, err
	}

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	file := uuid.NewString()

	want, err := server.Sign(file)
	if err != nil {
		return nil, err
	}

	client := timingleak.Client(TimingParallel)
	defer client.CloseIdleConnections()

	attacker := timingleak.NewAttacker(client, ts.URL, timingleak.Options{
		Samples:  p.Samples,
		Parallel: TimingParallel,
		Length:   p.Length,
		Margin:   p.Delay / 2,
		Logger:   env.Logger,
	})

	got, err := attacker.Attack(ctx, file)

	res := &challenge.Result{Queries: got.Queries, Recovered: len(got.Signature)}
	if err != nil {
		return res, fmt.Errorf("attacking %s: %w", file, err)
	}

	res.Output = fmt.Sprintf("file %s signature %x (valid %t)", file, got.Signature, got.Valid)

	return res, challenge.Expect("signature", fmt.Sprintf("%x", got.Signature), fmt.Sprintf("%x", want[:len(got.Signature)]))
}

func timingLeak(delay time.Duration, samples int) challenge.Func {
	return func(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
		return AttackTiming(ctx, env, timingParams(delay, samples, env.Quick))
	}
}
