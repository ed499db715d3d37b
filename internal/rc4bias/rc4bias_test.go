package rc4bias_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/idelchi/cryptopals/internal/rc4bias"
)

func TestOracle(t *testing.T) {
	t.Parallel()

	oracle := rc4bias.NewOracle([]byte("cookie"))

	a := oracle.Encrypt([]byte("ab"))
	b := oracle.Encrypt([]byte("ab"))

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
	assert.Equal(t, int64(2), oracle.Queries())
}

func TestKeystreamBiases(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		trials int
		short  bool
	}{
		"z16":     {trials: 1 << 23, short: true},
		"z16 z32": {trials: 1 << 25},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if testing.Short() && !tt.short {
				t.Skip("z32 needs 2^25 keystreams")
			}

			oracle := rc4bias.NewOracle(make([]byte, rc4bias.Z32+1))

			counts, err := rc4bias.Tally(context.Background(), oracle.Encrypt, nil, rc4bias.Options{Trials: tt.trials, Parallel: runtime.NumCPU()})
			require.NoError(t, err)

			expected := float64(tt.trials) / 256
			excess := float64(counts[0][rc4bias.Z16Value])/expected - 1

			assert.Equal(t, byte(rc4bias.Z16Value), rc4bias.Mode(counts[0]))
			assert.InDelta(t, 0.035, excess, 0.02, "z16 excess")

			if !tt.short {
				assert.Equal(t, byte(rc4bias.Z32Value), rc4bias.Mode(counts[1]))
			}
		})
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	secret := []byte("BE")
	oracle := rc4bias.NewOracle(secret)

	got, err := rc4bias.Recover(context.Background(), oracle.Encrypt, len(secret), rc4bias.Options{Trials: 1 << 23})
	require.NoError(t, err)
	assert.Equal(t, secret, got)
	assert.Equal(t, int64(2<<23), oracle.Queries())
}

func TestRecoverRejectsLongSecrets(t *testing.T) {
	t.Parallel()

	_, err := rc4bias.Recover(context.Background(), nil, 40, rc4bias.Options{})
	require.ErrorIs(t, err, rc4bias.ErrTooLong)
}

func TestRecoverHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	oracle := rc4bias.NewOracle([]byte("x"))

	_, err := rc4bias.Recover(ctx, oracle.Encrypt, 1, rc4bias.Options{Trials: 10, Parallel: 2})
	require.ErrorIs(t, err, context.Canceled)
}
