package set8_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/sets/set8"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, c := range set8.Challenges() {
		t.Run(c.Title, func(t *testing.T) {
			t.Parallel()

			res := challengetest.Run(t, c, env)
			assert.NotEmpty(t, res.Output)
		})
	}
}

func TestKangarooQuick(t *testing.T) {
	t.Parallel()

	res := challengetest.Run(t, challengetest.Find(t, set8.Challenges(), 58), challengetest.NewEnv(t, nil))
	assert.Equal(t, 1, res.Recovered)
}
