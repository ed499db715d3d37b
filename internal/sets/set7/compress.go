package set7

import (
	"context"
	"fmt"
	"strings"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/compress"
)

// Session is the session id hidden in the victim's requests.
const Session = "TmV2ZXIgcmV2ZWFsIHRoZSBXdS1UYW5nIFNlY3JldCE="

func compressionOracle(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	n := len(Session)
	if env.Quick {
		n = 8
	}

	res := &challenge.Result{}

	var out []string

	for _, mode := range []compress.Mode{compress.CTR, compress.CBC} {
		oracle := compress.NewOracle(Session, mode)

		got, err := compress.RecoverSession(ctx, oracle.Length, mode, n, env.Logger)

		res.Queries += oracle.Queries()
		if err != nil {
			return res, fmt.Errorf("%s: %w", mode, err)
		}

		if err := challenge.Expect(mode.String()+" session", got, Session[:n]); err != nil {
			return res, err
		}

		res.Recovered += len(got)
		out = append(out, fmt.Sprintf("%s: %s", mode, got))
	}

	res.Output = strings.Join(out, ", ")

	return res, nil
}
