package timingleak

import (
	"cmp"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options tune the timing attack.
type Options struct {
	// Samples is the number of requests timed per candidate byte and round.
	Samples int
	// Parallel bounds the number of in-flight requests.
	Parallel int
	// Length is the number of leading signature bytes to recover.
	// Zero recovers the whole signature and confirms it with the server.
	Length int
	// Margin is the lead the best candidate's median needs over the runner-up
	// before a byte is accepted. Leaders are resampled until it holds. Zero
	// accepts the first ranking.
	Margin time.Duration
	Logger *slog.Logger
}

const (
	// leaders is the number of top candidates resampled when the margin fails.
	leaders = 8
	// maxRounds bounds the resampling rounds per position.
	maxRounds = 6
)

// Result is a recovered signature prefix.
type Result struct {
	Signature []byte
	Queries   int64
	// Valid reports whether the server accepted the full signature.
	Valid bool
}

// Attacker recovers signatures from a leaky verification endpoint.
type Attacker struct {
	client  *http.Client
	baseURL string
	opts    Options
	queries atomic.Int64
}

// NewAttacker targets the server at baseURL.
func NewAttacker(client *http.Client, baseURL string, opts Options) *Attacker {
	opts.Samples = max(opts.Samples, 1)
	opts.Parallel = max(opts.Parallel, 1)

	if opts.Length <= 0 || opts.Length > SignatureSize {
		opts.Length = SignatureSize
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Attacker{client: client, baseURL: baseURL, opts: opts}
}

// Client returns an HTTP client that keeps up to parallel connections to one
// host alive, so timed requests never pay for a dial.
func Client(parallel int) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default

	transport.MaxIdleConns = parallel
	transport.MaxIdleConnsPerHost = parallel
	transport.MaxConnsPerHost = parallel

	return &http.Client{Transport: transport}
}

// Attack recovers the signature of file one byte at a time. Every candidate
// byte is timed Samples times per round, rounds are interleaved across
// candidates, and the candidate with the largest median wins.
func (a *Attacker) Attack(ctx context.Context, file string) (Result, error) {
	guess := make([]byte, SignatureSize)

	for pos := range a.opts.Length {
		if pos == SignatureSize-1 {
			b, err := a.lastByte(ctx, file, guess)
			if err != nil {
				return Result{Signature: guess[:pos], Queries: a.queries.Load()}, err
			}

			guess[pos] = b

			return Result{Signature: guess, Queries: a.queries.Load(), Valid: true}, nil
		}

		b, err := a.position(ctx, file, guess, pos)
		if err != nil {
			return Result{Signature: guess[:pos], Queries: a.queries.Load()}, err
		}

		guess[pos] = b
		a.opts.Logger.Debug("recovered signature byte", "position", pos, "signature", hex.EncodeToString(guess[:pos+1]))
	}

	return Result{Signature: guess[:a.opts.Length], Queries: a.queries.Load()}, nil
}

func (a *Attacker) position(ctx context.Context, file string, guess []byte, pos int) (byte, error) {
	samples := make([][]time.Duration, 256)

	candidates := make([]int, 256)
	for i := range candidates {
		candidates[i] = i
	}

	if err := a.sample(ctx, file, guess, pos, candidates, samples); err != nil {
		return 0, err
	}

	ranked := rank(samples)

	for round := 0; a.opts.Margin > 0 && round < maxRounds; round++ {
		gap := median(samples[ranked[0]]) - median(samples[ranked[1]])
		if gap >= a.opts.Margin {
			break
		}

		a.opts.Logger.Debug("resampling leaders", "position", pos, "gap", gap, "round", round+1)

		if err := a.sample(ctx, file, guess, pos, ranked[:leaders], samples); err != nil {
			return 0, err
		}

		ranked = rank(samples)
	}

	return byte(ranked[0]), nil
}

// sample times every candidate Samples more times, appending to samples.
// Each round sends all candidates in a fresh random order and waits for them
// before the next round starts.
func (a *Attacker) sample(ctx context.Context, file string, guess []byte, pos int, candidates []int, samples [][]time.Duration) error {
	var mu sync.Mutex

	order := slices.Clone(candidates)

	for range a.opts.Samples {
		rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(a.opts.Parallel)

		for _, candidate := range order {
			g.Go(func() error {
				sig := slices.Clone(guess)
				sig[pos] = byte(candidate)

				elapsed, _, err := a.send(ctx, file, sig)
				if err != nil {
					return err
				}

				mu.Lock()
				samples[candidate] = append(samples[candidate], elapsed)
				mu.Unlock()

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return fmt.Errorf("timing position %d: %w", pos, err)
		}
	}

	return nil
}

// rank orders candidates by descending median.
func rank(samples [][]time.Duration) []int {
	medians := make([]time.Duration, len(samples))
	ranked := make([]int, len(samples))

	for i, s := range samples {
		medians[i] = median(s)
		ranked[i] = i
	}

	slices.SortStableFunc(ranked, func(x, y int) int {
		return cmp.Compare(medians[y], medians[x])
	})

	return ranked
}

// lastByte finds the final byte by asking the server directly, since no
// further delay follows it.
func (a *Attacker) lastByte(ctx context.Context, file string, guess []byte) (byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var found atomic.Int32

	found.Store(-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Parallel)

	for candidate := range 256 {
		g.Go(func() error {
			sig := slices.Clone(guess)
			sig[SignatureSize-1] = byte(candidate)

			_, ok, err := a.send(gctx, file, sig)
			if found.Load() >= 0 {
				return nil
			}

			if err != nil {
				return err
			}

			if ok {
				found.Store(int32(candidate)) //nolint:gosec // candidate is a byte
				cancel()
			}

			return nil
		})
	}

	err := g.Wait()

	if b := found.Load(); b >= 0 {
		return byte(b), nil
	}

	if err != nil {
		return 0, fmt.Errorf("timing last byte: %w", err)
	}

	return 0, ErrNotRecovered
}

func (a *Attacker) send(ctx context.Context, file string, sig []byte) (time.Duration, bool, error) {
	query := url.Values{"file": {file}, "signature": {hex.EncodeToString(sig)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/test?"+query.Encode(), nil)
	if err != nil {
		return 0, false, fmt.Errorf("building request: %w", err)
	}

	a.queries.Add(1)

	start := time.Now()

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("sending request: %w", err)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return time.Since(start), resp.StatusCode == http.StatusOK, nil
}

func median(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return sorted[len(sorted)/2]
}
