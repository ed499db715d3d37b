// Package challengetest provides helpers for testing challenges.
package challengetest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/logging"
)

// Lyrics is a few kilobytes of English text for attacks that need a sample.
const Lyrics = `I'm back and I'm ringin' the bell
A rockin' on the mike while the fly girls yell
In ecstasy in the back of me
Well that's my DJ Deshay cuttin' all them Z's
Hittin' hard and the girlies goin' crazy
Vanilla's on the mike, man I'm not lazy.
I'm lettin' my drug kick in
It controls my mouth and I begin
To just let it flow, let my concepts go
My posse's to the side yellin', Go Vanilla Go!
Smooth 'cause that's the way I will be
And if you don't give a damn, then
Why you starin' at me
So get off 'cause I control the stage
There's no dissin' allowed
I'm in my own phase
The girlies sa y they love me and that is ok
And I can dance better than any kid n' play
`

// NewEnv writes files, keyed by challenge number, into a temporary data
// directory and returns a quick environment reading from it.
func NewEnv(t *testing.T, files map[int]string) *challenge.Env {
	t.Helper()

	dir := t.TempDir()

	for n, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, strconv.Itoa(n)+".txt"), []byte(content), 0o600))
	}

	data, err := challenge.NewData(dir, "")
	require.NoError(t, err)

	return &challenge.Env{Data: data, Logger: logging.Discard(), Quick: true}
}

// Run executes c against env and fails the test on error.
func Run(t *testing.T, c challenge.Challenge, env *challenge.Env) *challenge.Result {
	t.Helper()

	res := c.Execute(context.Background(), env)
	require.NoError(t, res.Err, "challenge %d", c.Number)

	return res
}

// Find returns the challenge with the given number.
func Find(t *testing.T, challenges []challenge.Challenge, n int) challenge.Challenge {
	t.Helper()

	for _, c := range challenges {
		if c.Number == n {
			return c
		}
	}

	require.FailNow(t, "challenge not found", "%d", n)

	return challenge.Challenge{}
}
