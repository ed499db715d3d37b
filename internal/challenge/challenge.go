// Package challenge defines the unit of work run by the cryptopals CLI and the
// registry that holds them.
package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PerSet is the number of challenges in one set.
const PerSet = 8

// Env is what a challenge may touch while it runs.
type Env struct {
	// Data resolves input files.
	Data *Data
	// Logger is scoped to the running challenge.
	Logger *slog.Logger
	// Quick selects reduced search parameters for slow attacks.
	Quick bool
}

// Result is the outcome of a single challenge.
type Result struct {
	Number    int
	Title     string
	Output    string
	Queries   int64
	Recovered int
	Duration  time.Duration
	Err       error
}

// Func runs a challenge.
type Func func(ctx context.Context, env *Env) (*Result, error)

// Challenge is a numbered exercise.
type Challenge struct {
	Number int
	Title  string
	// Slow marks attacks that take more than a few seconds at full strength.
	Slow bool
	Run  Func
}

// Set returns the set the challenge belongs to.
func (c Challenge) Set() int {
	return (c.Number-1)/PerSet + 1
}

// Execute runs the challenge and always returns a result, carrying the error if any.
// A panic inside Run is recovered into the result's error.
func (c Challenge) Execute(ctx context.Context, env *Env) (res *Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = &Result{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}

		res.Number = c.Number
		res.Title = c.Title
		res.Duration = time.Since(start)
	}()

	res, err := c.Run(ctx, env)
	if res == nil {
		res = &Result{}
	}

	if err != nil {
		res.Err = err
	}

	return res
}

// Expect returns ErrMismatch when got differs from want.
func Expect[T comparable](what string, got, want T) error {
	if got != want {
		return fmt.Errorf("%w: %s = %v, want %v", ErrMismatch, what, got, want)
	}

	return nil
}
