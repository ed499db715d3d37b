package timingleak_test

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/timingleak"
)

func newServer(t *testing.T, delay time.Duration) (*timingleak.Server, *httptest.Server) {
	t.Helper()

	srv, err := timingleak.NewServer([]byte("0123456789abcdef"), delay)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return srv, ts
}

func TestHandlerStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, 0)
	sig, err := srv.Sign("foo")
	require.NoError(t, err)
	require.Len(t, sig, timingleak.SignatureSize)

	cases := []struct {
		name      string
		signature string
		status    int
	}{
		{"valid", hex.EncodeToString(sig), http.StatusOK},
		{"invalid", hex.EncodeToString(make([]byte, timingleak.SignatureSize)), http.StatusInternalServerError},
		{"short", hex.EncodeToString(sig[:4]), http.StatusInternalServerError},
		{"malformed", "zz", http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test?file=foo&signature="+tc.signature, nil)
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, tc.name)
	}
}

func TestInsecureCompare(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.True(t, timingleak.InsecureCompare(ctx, []byte("abc"), []byte("abc"), 0))
	assert.False(t, timingleak.InsecureCompare(ctx, []byte("abc"), []byte("abd"), 0))
	assert.False(t, timingleak.InsecureCompare(ctx, []byte("abc"), []byte("ab"), 0))

	start := time.Now()
	timingleak.InsecureCompare(ctx, []byte("abcd"), []byte("abxx"), 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestAttackRecoversPrefix(t *testing.T) {
	srv, ts := newServer(t, 15*time.Millisecond)
	want, err := srv.Sign("foo")
	require.NoError(t, err)

	attacker := timingleak.NewAttacker(timingleak.Client(32), ts.URL, timingleak.Options{Samples: 3, Parallel: 32, Length: 2})

	got, err := attacker.Attack(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, want[:2], got.Signature)
	assert.False(t, got.Valid)
	assert.Equal(t, int64(2*256*3), got.Queries)
}

func TestAttackWithMargin(t *testing.T) {
	srv, ts := newServer(t, 5*time.Millisecond)
	want, err := srv.Sign("bar")
	require.NoError(t, err)

	attacker := timingleak.NewAttacker(timingleak.Client(32), ts.URL, timingleak.Options{
		Samples:  7,
		Parallel: 32,
		Length:   3,
		Margin:   5 * time.Millisecond / 2,
	})

	got, err := attacker.Attack(context.Background(), "bar")
	require.NoError(t, err)
	assert.Equal(t, want[:3], got.Signature)
	assert.GreaterOrEqual(t, got.Queries, int64(3*256*7))
}

func TestLastByte(t *testing.T) {
	t.Parallel()

	srv, ts := newServer(t, 0)
	want, err := srv.Sign("baz")
	require.NoError(t, err)

	guess := append([]byte(nil), want...)
	guess[timingleak.SignatureSize-1] ^= 0xff

	attacker := timingleak.NewAttacker(timingleak.Client(16), ts.URL, timingleak.Options{Parallel: 16})

	b, err := attacker.LastByte(context.Background(), "baz", guess)
	require.NoError(t, err)
	assert.Equal(t, want[timingleak.SignatureSize-1], b)

	_, err = attacker.LastByte(context.Background(), "other", guess)
	require.ErrorIs(t, err, timingleak.ErrNotRecovered)
}
