package set7

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/rc4bias"
)

// Cookie is the base64 secret the RC4 oracle appends to every request.
const Cookie = "QkUgU1VSRSBUTyBEUklOSyBZT1VSIE9WQUxUSU5F"

// Trials per prefix length. The Z32 bias is about 2% and needs the full
// count; quick mode only recovers bytes read through the stronger Z16 bias.
const (
	RC4Trials      = 1 << 25
	RC4QuickTrials = 1 << 23
	RC4QuickBytes  = 4
)

func rc4Biases(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	cookie, err := base64.StdEncoding.DecodeString(Cookie)
	if err != nil {
		return nil, fmt.Errorf("decoding cookie: %w", err)
	}

	opts := rc4bias.Options{Trials: RC4Trials, Logger: env.Logger}
	if env.Quick {
		cookie, opts.Trials = cookie[:RC4QuickBytes], RC4QuickTrials
	}

	oracle := rc4bias.NewOracle(cookie)

	got, err := rc4bias.Recover(ctx, oracle.Encrypt, len(cookie), opts)

	res := &challenge.Result{Output: string(got), Queries: oracle.Queries(), Recovered: len(got)}
	if err != nil {
		return res, err
	}

	return res, challenge.Expect("cookie", string(got), string(cookie))
}
