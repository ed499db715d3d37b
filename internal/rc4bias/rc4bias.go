// Package rc4bias recovers a secret encrypted under many fresh RC4 keys from
// the single-byte biases of the keystream.
package rc4bias

import (
	"context"
	"crypto/rc4" //nolint:gosec // the cipher under attack
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// Keystream positions with a single-byte bias, and the value they lean towards.
// 240 at Z16 is about 3.5% more likely than uniform, 224 at Z32 about 2%.
const (
	Z16      = 15
	Z16Value = 240
	Z32      = 31
	Z32Value = 224
)

// Oracle encrypts request || cookie under a fresh 128-bit RC4 key per call.
type Oracle struct {
	cookie  []byte
	queries atomic.Int64
}

// NewOracle returns an oracle hiding cookie.
func NewOracle(cookie []byte) *Oracle {
	return &Oracle{cookie: cookie}
}

// Encrypt returns RC4(random key, prefix || cookie).
func (o *Oracle) Encrypt(prefix []byte) []byte {
	o.queries.Add(1)

	c, err := rc4.NewCipher(randutil.Bytes(16))
	if err != nil {
		panic(err)
	}

	msg := append(append([]byte(nil), prefix...), o.cookie...)
	c.XORKeyStream(msg, msg)

	return msg
}

// Queries returns the number of encryptions performed.
func (o *Oracle) Queries() int64 {
	return o.queries.Load()
}

// Options tunes the statistical attack.
type Options struct {
	// Trials is the number of encryptions per prefix length.
	Trials int
	// Parallel is the number of concurrent workers.
	Parallel int
	Logger   *slog.Logger
}

// Recover recovers the first n cookie bytes, at most Z32+1.
// Prefix length l aligns cookie byte Z16-l with position Z16 and Z32-l with Z32,
// so every pass yields up to two bytes from the most frequent ciphertext value.
func Recover(ctx context.Context, encrypt func([]byte) []byte, n int, opts Options) ([]byte, error) {
	if n > Z32+1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLong, n)
	}

	if opts.Parallel < 1 {
		opts.Parallel = runtime.NumCPU()
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out := make([]byte, n)

	for l := 0; l <= Z16; l++ {
		lo, hi := Z16-l, Z32-l

		if lo >= n && hi >= n {
			continue
		}

		counts, err := tally(ctx, encrypt, make([]byte, l), opts)
		if err != nil {
			return nil, err
		}

		if lo < n {
			out[lo] = mode(counts[0]) ^ Z16Value
		}

		if hi < n {
			out[hi] = mode(counts[1]) ^ Z32Value
		}

		opts.Logger.Debug("rc4 bias pass", "prefix", l, "recovered", string(out))
	}

	return out, nil
}

// tally counts ciphertext byte values at Z16 and Z32.
func tally(ctx context.Context, encrypt func([]byte) []byte, prefix []byte, opts Options) ([2][256]int, error) {
	var (
		mu    sync.Mutex
		total [2][256]int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	per := (opts.Trials + opts.Parallel - 1) / opts.Parallel

	for w := range opts.Parallel {
		count := min(per, opts.Trials-w*per)
		if count <= 0 {
			break
		}

		g.Go(func() error {
			var local [2][256]int

			for i := range count {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				ct := encrypt(prefix)
				local[0][ct[Z16]]++

				if len(ct) > Z32 {
					local[1][ct[Z32]]++
				}
			}

			mu.Lock()
			defer mu.Unlock()

			for p := range local {
				for v := range local[p] {
					total[p][v] += local[p][v]
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total, fmt.Errorf("collecting rc4 statistics: %w", err)
	}

	return total, nil
}

// mode returns the most frequent byte value.
func mode(counts [256]int) byte {
	best := 0

	for v := range counts {
		if counts[v] > counts[best] {
			best = v
		}
	}

	return byte(best)
}
