// Package logic runs selected challenges in parallel and reports their results.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/config"
	"github.com/idelchi/cryptopals/internal/logging"
)

// ErrFailed is returned when at least one challenge failed.
var ErrFailed = errors.New("challenges failed")

// Runner executes challenges and writes results to Stdout and diagnostics to Stderr.
type Runner struct {
	Registry *challenge.Registry
	Stdout   io.Writer
	Stderr   io.Writer
}

// Stats summarises a run.
type Stats struct {
	Selected  int
	Passed    int
	Failed    int
	Queries   int64
	Recovered int64
	Duration  time.Duration
}

// Select resolves the configured selection. Without an explicit selection every challenge runs.
func Select(cfg *config.Config, reg *challenge.Registry) ([]challenge.Challenge, error) {
	switch {
	case cfg.Set != 0:
		return reg.Set(cfg.Set), nil
	case len(cfg.Challenges) > 0:
		return reg.Select(cfg.Challenges)
	default:
		return reg.All(), nil
	}
}

// Run is the main logic of the application.
//
//nolint:cyclop,funlen // parallel pipeline with printer goroutine
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (Stats, error) {
	start := time.Now()

	selected, err := Select(cfg, r.Registry)
	if err != nil {
		return Stats{}, fmt.Errorf("selecting challenges: %w", err)
	}

	data, err := challenge.NewData(cfg.DataDir, cfg.Manifest)
	if err != nil {
		return Stats{}, fmt.Errorf("loading data: %w", err)
	}

	logger := logging.New(r.Stderr, cfg.LogLevel)

	results := make(chan *challenge.Result, len(selected))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	printed := make(chan struct{})

	stats := Stats{Selected: len(selected)}

	go func() {
		defer close(printed)

		for res := range results {
			stats.Queries += res.Queries
			stats.Recovered += int64(res.Recovered)

			if res.Err != nil {
				stats.Failed++

				fmt.Fprintf(r.Stderr, "FAIL %2d %s (%s): %v\n", res.Number, res.Title, res.Duration.Round(time.Millisecond), res.Err)

				continue
			}

			stats.Passed++

			if !cfg.Quiet {
				fmt.Fprintf(r.Stdout, "ok   %2d %s (%s)\n%s", res.Number, res.Title, res.Duration.Round(time.Millisecond), indent(res.Output))
			}
		}
	}()

	for _, c := range selected {
		group.Go(func() error {
			env := &challenge.Env{Data: data, Logger: logging.ForChallenge(logger, c.Number), Quick: cfg.Quick}

			results <- execute(ctx, c, env, cfg.Timeout)

			return nil
		})
	}

	_ = group.Wait()

	close(results)

	<-printed

	stats.Duration = time.Since(start)

	if cfg.Stats {
		printStats(r.Stderr, stats)
	}

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrFailed, stats.Failed, stats.Selected)
	}

	return stats, nil
}

func execute(ctx context.Context, c challenge.Challenge, env *challenge.Env, timeout time.Duration) *challenge.Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env.Logger.Debug("starting", slog.String("title", c.Title), slog.Bool("quick", env.Quick))

	res := c.Execute(ctx, env)

	env.Logger.Debug("finished", slog.Duration("duration", res.Duration), slog.Int64("queries", res.Queries), slog.Any("error", res.Err))

	return res
}

func indent(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}

	return "     " + strings.ReplaceAll(s, "\n", "\n     ") + "\n"
}

func printStats(w io.Writer, s Stats) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Selected:  %d\n", s.Selected)
	fmt.Fprintf(w, "  Passed:    %d\n", s.Passed)
	fmt.Fprintf(w, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(w, "  Queries:   %s\n", humanize.Comma(s.Queries))
	//nolint:gosec // Recovered is a sum of lengths
	fmt.Fprintf(w, "  Recovered: %s\n", humanize.IBytes(uint64(max(0, s.Recovered))))
	fmt.Fprintf(w, "  Duration:  %s\n", s.Duration.Round(time.Millisecond))
}

// List writes the number, set and title of the configured challenges.
func (r *Runner) List(cfg *config.Config) error {
	selected, err := Select(cfg, r.Registry)
	if err != nil {
		return fmt.Errorf("selecting challenges: %w", err)
	}

	for _, c := range selected {
		slow := ""
		if c.Slow {
			slow = " (slow)"
		}

		fmt.Fprintf(r.Stdout, "%2d  set %d  %s%s\n", c.Number, c.Set(), c.Title, slow)
	}

	return nil
}
