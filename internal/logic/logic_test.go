package logic_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/config"
	"github.com/idelchi/cryptopals/internal/logic"
)

var errBroken = errors.New("broken")

func registry(t *testing.T, ran *atomic.Int32) *challenge.Registry {
	t.Helper()

	pass := func(_ context.Context, env *challenge.Env) (*challenge.Result, error) {
		ran.Add(1)

		out := "fast"
		if env.Quick {
			out = "quick"
		}

		return &challenge.Result{Output: out, Queries: 1000, Recovered: 16}, nil
	}

	fail := func(context.Context, *challenge.Env) (*challenge.Result, error) {
		ran.Add(1)

		return &challenge.Result{Queries: 5}, errBroken
	}

	wait := func(ctx context.Context, _ *challenge.Env) (*challenge.Result, error) {
		ran.Add(1)
		<-ctx.Done()

		return nil, ctx.Err()
	}

	reg := challenge.NewRegistry()
	require.NoError(t, reg.Add(
		challenge.Challenge{Number: 1, Title: "one", Run: pass},
		challenge.Challenge{Number: 2, Title: "two", Run: pass},
		challenge.Challenge{Number: 9, Title: "nine", Run: fail},
		challenge.Challenge{Number: 10, Title: "ten", Slow: true, Run: wait},
	))

	return reg
}

func cfg() *config.Config {
	return &config.Config{Parallel: 4, DataDir: "testdata", LogLevel: "error", Timeout: time.Second}
}

func TestRunSet(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32

	var stdout, stderr bytes.Buffer

	r := &logic.Runner{Registry: registry(t, &ran), Stdout: &stdout, Stderr: &stderr}

	c := cfg()
	c.Set, c.Stats, c.Quick = 1, true, true

	stats, err := r.Run(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, int32(2), ran.Load())
	assert.Equal(t, logic.Stats{Selected: 2, Passed: 2, Queries: 2000, Recovered: 32, Duration: stats.Duration}, stats)
	assert.Contains(t, stdout.String(), "ok    1 one")
	assert.Contains(t, stdout.String(), "     quick\n")
	assert.Contains(t, stderr.String(), "Queries:   2,000")
	assert.Contains(t, stderr.String(), "Recovered: 32 B")
}

func TestRunFailures(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32

	var stdout, stderr bytes.Buffer

	r := &logic.Runner{Registry: registry(t, &ran), Stdout: &stdout, Stderr: &stderr}

	c := cfg()
	c.Quiet = true
	c.Timeout = 50 * time.Millisecond

	stats, err := r.Run(context.Background(), c)
	require.ErrorIs(t, err, logic.ErrFailed)

	assert.Equal(t, int32(4), ran.Load())
	assert.Equal(t, 2, stats.Passed)
	assert.Equal(t, 2, stats.Failed)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "FAIL  9 nine")
	assert.Contains(t, stderr.String(), "broken")
	assert.Contains(t, stderr.String(), "FAIL 10 ten")
	assert.Contains(t, stderr.String(), "deadline exceeded")
}

func TestRunUnknown(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32

	r := &logic.Runner{Registry: registry(t, &ran), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	c := cfg()
	c.Challenges = []int{1, 3}

	_, err := r.Run(context.Background(), c)
	require.ErrorIs(t, err, challenge.ErrUnknown)
	assert.Zero(t, ran.Load())
}

func TestList(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32

	var stdout bytes.Buffer

	r := &logic.Runner{Registry: registry(t, &ran), Stdout: &stdout, Stderr: &bytes.Buffer{}}

	c := cfg()
	c.Set = 2

	require.NoError(t, r.List(c))
	assert.Equal(t, " 9  set 2  nine\n10  set 2  ten (slow)\n", stdout.String())
}
