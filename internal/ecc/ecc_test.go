package ecc_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/cryptopals/internal/ecc"
)

func TestBasePoint(t *testing.T) {
	t.Parallel()

	c := ecc.Standard()
	g := ecc.BasePoint()

	require.True(t, c.OnCurve(g))
	assert.True(t, c.ScalarMult(g, ecc.BaseOrder()).Inf)
	assert.False(t, c.ScalarMult(g, big.NewInt(7)).Inf)

	assert.True(t, c.Add(g, c.Neg(g)).Inf)
	assert.True(t, c.Add(g, g).Equal(c.Double(g)))
	assert.True(t, c.ScalarMult(g, big.NewInt(3)).Equal(c.Add(g, c.Double(g))))
}

func TestKeyAgreement(t *testing.T) {
	t.Parallel()

	c := ecc.Standard()
	g := ecc.BasePoint()

	alice := ecc.GenerateKey(c, g, ecc.BaseOrder())
	bob := ecc.GenerateKey(c, g, ecc.BaseOrder())

	assert.True(t, c.ScalarMult(bob.Public, alice.Private).Equal(c.ScalarMult(alice.Public, bob.Private)))
}

func TestInvalidCurves(t *testing.T) {
	t.Parallel()

	for _, ic := range ecc.InvalidCurves() {
		p, err := ic.Curve.RandomPoint(context.Background(), ic.Order, big.NewInt(2))
		require.NoError(t, err)

		assert.True(t, ic.Curve.OnCurve(p))
		assert.False(t, ecc.Standard().OnCurve(p))
		assert.False(t, p.Inf)
		assert.True(t, ic.Curve.ScalarMult(p, big.NewInt(2)).Inf)
	}

	_, err := ecc.InvalidCurves()[0].Curve.RandomPoint(context.Background(), ecc.InvalidCurves()[0].Order, big.NewInt(5))
	require.ErrorIs(t, err, ecc.ErrOrder)
}

func TestRandomPointNonCyclic(t *testing.T) {
	t.Parallel()

	// The 2-part of the b = 210 group is Z2 x Z2: three points of order 2.
	ic := ecc.InvalidCurves()[0]
	xs := make(map[string]bool)

	for range 32 {
		p, err := ic.Curve.RandomPoint(context.Background(), ic.Order, big.NewInt(2))
		require.NoError(t, err)

		require.Zero(t, p.Y.Sign(), "order 2 points have y = 0")
		xs[p.X.String()] = true
	}

	assert.Greater(t, len(xs), 1)
	assert.LessOrEqual(t, len(xs), 3)
}

func TestRandomPointCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ic := ecc.InvalidCurves()[1]

	_, err := ic.Curve.RandomPoint(ctx, ic.Order, big.NewInt(7))
	require.ErrorIs(t, err, context.Canceled)

	m := ecc.StandardMontgomery()

	_, err = m.TwistPoint(ctx, m.TwistOrder(ecc.GroupOrder()), big.NewInt(107))
	require.ErrorIs(t, err, context.Canceled)
}

func TestMontgomery(t *testing.T) {
	t.Parallel()

	m := ecc.StandardMontgomery()
	w := m.Weierstrass()
	c := ecc.Standard()

	assert.Zero(t, w.A.Cmp(c.A), "A")
	assert.Zero(t, w.B.Cmp(c.B), "B")
	assert.Zero(t, m.ToWeierstrass(ecc.MontgomeryBase()).Cmp(ecc.BasePoint().X))

	for _, k := range []int64{1, 2, 3, 1000, 65537} {
		x := c.ScalarMult(ecc.BasePoint(), big.NewInt(k)).X

		assert.Zero(t, m.Ladder(ecc.MontgomeryBase(), big.NewInt(k)).Cmp(m.ToMontgomery(x)), "k=%d", k)
	}

	assert.Zero(t, m.Ladder(ecc.MontgomeryBase(), ecc.BaseOrder()).Sign())
	assert.True(t, m.OnCurve(ecc.MontgomeryBase()))
	assert.False(t, m.OnTwist(ecc.MontgomeryBase()))
}

func TestMultiples(t *testing.T) {
	t.Parallel()

	m := ecc.StandardMontgomery()
	u := ecc.MontgomeryBase()

	for i, v := range ecc.Multiples(m, u, 20) {
		k := big.NewInt(int64(i + 1))

		assert.Zero(t, v.Cmp(m.Ladder(u, k)), "k=%d", i+1)
	}
}

func TestTwistPoint(t *testing.T) {
	t.Parallel()

	m := ecc.StandardMontgomery()
	twist := m.TwistOrder(ecc.GroupOrder())

	u, err := m.TwistPoint(context.Background(), twist, big.NewInt(107))
	require.NoError(t, err)

	assert.True(t, m.OnTwist(u))
	assert.Zero(t, m.Ladder(u, big.NewInt(107)).Sign())
	assert.NotZero(t, m.Ladder(u, big.NewInt(53)).Sign())

	u, err = m.TwistPoint(context.Background(), twist, big.NewInt(11), big.NewInt(197))
	require.NoError(t, err)

	assert.Zero(t, m.Ladder(u, big.NewInt(11*197)).Sign())
	assert.NotZero(t, m.Ladder(u, big.NewInt(11)).Sign())
	assert.NotZero(t, m.Ladder(u, big.NewInt(197)).Sign())

	_, err = m.TwistPoint(context.Background(), twist, big.NewInt(13))
	require.ErrorIs(t, err, ecc.ErrOrder)
}

func TestInvalidCurveAttack(t *testing.T) {
	t.Parallel()

	c := ecc.Standard()
	peer := ecc.NewPeer(c, ecc.BasePoint(), ecc.BaseOrder())

	x, err := ecc.InvalidCurveAttack(context.Background(), peer.Respond, ecc.InvalidCurves(), ecc.BaseOrder(), 1<<16, nil)
	require.NoError(t, err)

	assert.True(t, c.ScalarMult(ecc.BasePoint(), x).Equal(peer.Public()))
}

func TestInvalidCurveAttackInsufficient(t *testing.T) {
	t.Parallel()

	peer := ecc.NewPeer(ecc.Standard(), ecc.BasePoint(), ecc.BaseOrder())

	_, err := ecc.InvalidCurveAttack(context.Background(), peer.Respond, ecc.InvalidCurves()[:1], ecc.BaseOrder(), 1<<8, nil)
	require.ErrorIs(t, err, ecc.ErrInsufficient)
}

func TestTwistAttack(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		limit int64
		bits  uint
		short bool
	}{
		"quick": {limit: 1 << 11, bits: 40, short: true},
		"full":  {limit: 1 << 17, bits: 60},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if testing.Short() && !tt.short {
				t.Skip("kangaroo walk")
			}

			m := ecc.StandardMontgomery()
			bound := new(big.Int).Lsh(big.NewInt(1), tt.bits)
			d := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), tt.bits-2), big.NewInt(123456789))

			peer := ecc.NewLadderPeerWithKey(m, ecc.MontgomeryBase(), d)

			got, err := ecc.TwistAttack(context.Background(), m, peer.Respond, peer.Public(), ecc.TwistOptions{
				Base:       ecc.MontgomeryBase(),
				CurveOrder: ecc.GroupOrder(),
				Order:      ecc.BaseOrder(),
				Limit:      tt.limit,
				Bound:      bound,
			})
			require.NoError(t, err)

			neg := new(big.Int).Sub(ecc.BaseOrder(), d)
			assert.True(t, got.Cmp(d) == 0 || got.Cmp(neg) == 0, "got %v", got)
		})
	}
}
