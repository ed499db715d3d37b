package srp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/srp"
)

const (
	email    = "test@example.com"
	password = "hunter2"
)

func newClient(t *testing.T) (*srp.Server, *srp.Client) {
	t.Helper()

	params := srp.DefaultParams()

	srv := srp.NewServer(params)
	srv.Register(email, password)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return srv, srp.NewClient(ts.Client(), ts.URL, params)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	srv, client := newClient(t)
	ctx := context.Background()

	token, err := client.Login(ctx, email, password)
	require.NoError(t, err)

	who, ok := srv.Session(token)
	require.True(t, ok)
	assert.Equal(t, email, who)

	_, err = client.Login(ctx, email, "wrong")
	require.ErrorIs(t, err, srp.ErrRejected)

	_, err = client.Login(ctx, "nobody@example.com", password)
	require.ErrorIs(t, err, srp.ErrRejected)
}

func TestLoginWithoutPassword(t *testing.T) {
	t.Parallel()

	srv, client := newClient(t)

	for _, multiple := range []int64{0, 1, 2, 5} {
		token, err := client.LoginWithoutPassword(context.Background(), email, multiple)
		require.NoError(t, err, "A = %d*N", multiple)

		_, ok := srv.Session(token)
		assert.True(t, ok)
	}
}

func TestSimpleSRP(t *testing.T) {
	t.Parallel()

	params := srp.DefaultParams()
	srv := srp.NewSimpleServer(params, password)
	eph := params.NewEphemeral()

	hello, check := srv.Hello(eph.Public)
	assert.True(t, check(params.SimpleClientProof(eph, hello, password)))

	hello, check = srv.Hello(eph.Public)
	assert.False(t, check(params.SimpleClientProof(eph, hello, "wrong")))
}

func TestCrackSimple(t *testing.T) {
	t.Parallel()

	params := srp.DefaultParams()
	eph := params.NewEphemeral()
	proof := params.SimpleClientProof(eph, params.MaliciousHello(), "dragon")

	got, err := params.CrackSimple(eph.Public, proof, []string{"password", "123456", "dragon", "letmein"})
	require.NoError(t, err)
	assert.Equal(t, "dragon", got)

	_, err = params.CrackSimple(eph.Public, proof, []string{"nope"})
	require.ErrorIs(t, err, srp.ErrPasswordNotFound)
}

func TestNonJSONRejection(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	client := srp.NewClient(ts.Client(), ts.URL, srp.DefaultParams())

	_, err := client.Login(context.Background(), email, password)
	require.ErrorIs(t, err, srp.ErrRejected)

	var syntax *json.SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Contains(t, err.Error(), "502")
}
