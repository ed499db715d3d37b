package set7_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/cbcmac"
	"github.com/idelchi/cryptopals/internal/challenge/challengetest"
	"github.com/idelchi/cryptopals/internal/sets/set7"
)

func TestChallenges(t *testing.T) {
	t.Parallel()

	env := challengetest.NewEnv(t, nil)

	for _, c := range set7.Challenges() {
		if c.Slow || (testing.Short() && c.Number == 55) {
			continue
		}

		res := challengetest.Run(t, c, env)
		assert.NotEmpty(t, res.Output, "challenge %d", c.Number)
	}
}

func TestTeller(t *testing.T) {
	t.Parallel()

	bank := cbcmac.NewBank()

	ts := httptest.NewServer(bank.Router())
	t.Cleanup(ts.Close)

	teller := set7.NewTeller(ts.Client(), ts.URL)
	ctx := context.Background()
	stolen := cbcmac.Transfer{From: set7.Victim, To: set7.Attacker, Amount: set7.Amount}

	v1, err := set7.ForgeV1(bank)
	require.NoError(t, err)

	applied, err := teller.Post(ctx, "v1", v1)
	require.NoError(t, err)
	assert.Equal(t, []cbcmac.Transfer{stolen}, applied)

	captured, err := bank.Client(set7.Victim).SignV2([]cbcmac.Transfer{{To: 3, Amount: 5000}, {To: 4, Amount: 7000}})
	require.NoError(t, err)

	v2, err := set7.ForgeV2(bank, captured)
	require.NoError(t, err)

	applied, err = teller.Post(ctx, "v2", v2)
	require.NoError(t, err)
	assert.Contains(t, applied, cbcmac.Transfer{From: set7.Victim, To: 3, Amount: 5000})
	assert.Contains(t, applied, stolen)

	v2[0] ^= 1

	_, err = teller.Post(ctx, "v2", v2)
	require.ErrorIs(t, err, set7.ErrRejected)
}

func TestRC4BiasesQuick(t *testing.T) {
	t.Parallel()

	res := challengetest.Run(t, challengetest.Find(t, set7.Challenges(), 56), challengetest.NewEnv(t, nil))

	assert.Equal(t, "BE S", res.Output)
	assert.Equal(t, set7.RC4QuickBytes, res.Recovered)
	assert.Equal(t, int64(set7.RC4QuickBytes*set7.RC4QuickTrials), res.Queries)
}

func TestTellerNonJSONRejection(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	_, err := set7.NewTeller(ts.Client(), ts.URL).Post(context.Background(), "v1", []byte("message"))
	require.ErrorIs(t, err, set7.ErrRejected)

	var syntax *json.SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Contains(t, err.Error(), "502")
}
