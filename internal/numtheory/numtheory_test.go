package numtheory_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

func TestInvMod(t *testing.T) {
	t.Parallel()

	got, err := numtheory.InvMod(big.NewInt(17), big.NewInt(3120))
	require.NoError(t, err)
	assert.Equal(t, int64(2753), got.Int64())

	got, err = numtheory.InvMod(big.NewInt(-3), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Int64())

	_, err = numtheory.InvMod(big.NewInt(6), big.NewInt(9))
	require.ErrorIs(t, err, numtheory.ErrNotInvertible)
}

func TestRoot(t *testing.T) {
	t.Parallel()

	for range 50 {
		x := randutil.BigBetween(big.NewInt(2), new(big.Int).Lsh(big.NewInt(1), 300))
		cube := new(big.Int).Exp(x, big.NewInt(3), nil)
		below := new(big.Int).Sub(x, big.NewInt(1))

		assert.Zero(t, x.Cmp(numtheory.CubeRoot(cube)))
		assert.Zero(t, x.Cmp(numtheory.CubeRoot(new(big.Int).Add(cube, big.NewInt(1)))))
		assert.Zero(t, below.Cmp(numtheory.CubeRoot(new(big.Int).Sub(cube, big.NewInt(1)))))
	}

	assert.Equal(t, int64(2), numtheory.Root(big.NewInt(26), 3).Int64())
	assert.Equal(t, int64(3), numtheory.Root(big.NewInt(27), 3).Int64())
	assert.Equal(t, int64(9), numtheory.Root(big.NewInt(99), 2).Int64())
	assert.Equal(t, int64(10), numtheory.Root(big.NewInt(100), 2).Int64())
	assert.Equal(t, int64(0), numtheory.Root(big.NewInt(0), 3).Int64())
}

func TestCRT(t *testing.T) {
	t.Parallel()

	x, n, err := numtheory.CRT(
		[]*big.Int{big.NewInt(2), big.NewInt(3), big.NewInt(2)},
		[]*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(7)},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(23), x.Int64())
	assert.Equal(t, int64(105), n.Int64())

	_, _, err = numtheory.CRT([]*big.Int{big.NewInt(1)}, nil)
	require.ErrorIs(t, err, numtheory.ErrMismatchedSystem)
}

func TestDivisions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(4), numtheory.CeilDiv(big.NewInt(10), big.NewInt(3)).Int64())
	assert.Equal(t, int64(3), numtheory.CeilDiv(big.NewInt(9), big.NewInt(3)).Int64())
	assert.Equal(t, int64(3), numtheory.FloorDiv(big.NewInt(10), big.NewInt(3)).Int64())
	assert.Equal(t, int64(4), numtheory.Mod(big.NewInt(-3), big.NewInt(7)).Int64())
}

func TestSmallFactors(t *testing.T) {
	t.Parallel()

	n := big.NewInt(2 * 2 * 3 * 5 * 5 * 7919)
	n.Mul(n, big.NewInt(1000003))

	got := numtheory.SmallFactors(n, 1<<16)

	want := []int64{2, 3, 5, 7919}
	require.Len(t, got, len(want))

	for i, f := range got {
		assert.Equal(t, want[i], f.Int64())
	}
}

func TestSqrtMod(t *testing.T) {
	t.Parallel()

	primes := []*big.Int{
		big.NewInt(13),
		big.NewInt(17),
		big.NewInt(7919),
	}

	p, ok := new(big.Int).SetString("233970423115425145524320034830162017933", 10)
	require.True(t, ok)
	primes = append(primes, p)

	for _, p := range primes {
		for range 20 {
			x := randutil.BigBelow(p)
			sq := new(big.Int).Exp(x, big.NewInt(2), p)

			r, err := numtheory.SqrtMod(sq, p)
			require.NoError(t, err)
			assert.Equal(t, sq, new(big.Int).Exp(r, big.NewInt(2), p))
		}
	}

	_, err := numtheory.SqrtMod(big.NewInt(3), big.NewInt(7))
	require.ErrorIs(t, err, numtheory.ErrNoSquareRoot)
}
