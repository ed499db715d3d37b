// Package set8 covers discrete logarithms in small subgroups, on invalid
// curves and on the twist of a Montgomery curve.
package set8

import (
	"context"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/challenge"
	"github.com/idelchi/cryptopals/internal/dlog"
	"github.com/idelchi/cryptopals/internal/ecc"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Challenges returns the challenges of set 8.
func Challenges() []challenge.Challenge {
	return []challenge.Challenge{
		{Number: 57, Title: "Diffie-Hellman Revisited: Small Subgroup Confinement", Run: subgroupConfinement},
		{Number: 58, Title: "Pollard's Method for Catching Kangaroos", Run: kangaroo},
		{Number: 59, Title: "Elliptic Curve Diffie-Hellman and Invalid-Curve Attacks", Run: invalidCurve},
		{Number: 60, Title: "Single-Coordinate Ladders and Insecure Twists", Run: insecureTwist},
	}
}

// SubgroupLimit bounds the factors of p-1 the confinement attacks use.
const SubgroupLimit = 1 << 16

// Group parameters of the subgroup confinement and kangaroo challenges.
const (
	subgroupP = "7199773997391911030609999317773941274322764333428698921736339643928346453700085358802973900485592910475480089726140708102474957429903531369589969318716771"
	subgroupG = "4565356397095740655436854503483826832136106141639563487732438195343690437606117828318042418238184896212352329118608100083187535033402010599512641674644143"
	subgroupQ = "236234353446506858198510045061214171961"

	kangarooP = "11470374874925275658116663507232161402086650258453896274534991676898999262641581519101074740642369848233294239851519212341844337347119899874391456329785623"
	kangarooG = "622952335333961296978159266084741085889881358738459939978290179936063635566740258555167783009058567397963466103140082647486611657350811560630587013183357"
	kangarooQ = "335062023296420808191071248367701059461"
)

// kangarooTargets are public values with exponents in [0, 2^bits].
//
//nolint:gochecknoglobals
var kangarooTargets = []struct {
	bits uint
	y    string
	x    int64
}{
	{20, "7760073848032689505395005705677365876654629189298052775754597607446617558600394076764814236081991643094239886772481052254010323780165093955236429914607119", 705485},
	{40, "9388897478013399550694114614498790691034187453089355259602614074132918843899833277397448144245883225611726912025846772975325932794909655215329941809013733", 359579674340},
}

func decimal(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("set8: bad constant " + s)
	}

	return n
}

func subgroupConfinement(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	p, g, q := decimal(subgroupP), decimal(subgroupG), decimal(subgroupQ)
	peer := dlog.NewPeer(p, g, q)

	var queries int64

	respond := func(h *big.Int) ([]byte, []byte) {
		queries++

		return peer.Respond(h)
	}

	x, err := dlog.SubgroupConfinement(ctx, respond, p, q, SubgroupLimit)
	if err != nil {
		return nil, err
	}

	env.Logger.Debug("recovered key", "x", x)

	res := &challenge.Result{Output: fmt.Sprintf("x = %v", x), Queries: queries}

	return res, challenge.Expect("public key", new(big.Int).Exp(g, x, p).String(), peer.Public().String())
}

func kangaroo(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	p, g, q := decimal(kangarooP), decimal(kangarooG), decimal(kangarooQ)
	res := &challenge.Result{}

	for _, target := range kangarooTargets {
		if env.Quick && target.bits > 20 {
			continue
		}

		x, err := dlog.Kangaroo(ctx, g, decimal(target.y), p, new(big.Int), new(big.Int).Lsh(big.NewInt(1), target.bits))
		if err != nil {
			return res, fmt.Errorf("%d-bit range: %w", target.bits, err)
		}

		if err := challenge.Expect("index", x.Int64(), target.x); err != nil {
			return res, err
		}

		res.Recovered++
	}

	if env.Quick {
		res.Output = fmt.Sprintf("caught %d kangaroos", res.Recovered)

		return res, nil
	}

	peer := dlog.NewPeer(p, g, q)

	x, err := dlog.Combined(ctx, peer.Respond, p, g, q, peer.Public(), SubgroupLimit)
	if err != nil {
		return res, fmt.Errorf("combined attack: %w", err)
	}

	res.Output = fmt.Sprintf("caught %d kangaroos, combined attack found x = %v", res.Recovered, x)

	return res, challenge.Expect("public key", new(big.Int).Exp(g, x, p).String(), peer.Public().String())
}

func invalidCurve(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	c := ecc.Standard()
	base, order := ecc.BasePoint(), ecc.BaseOrder()

	alice, bob := ecc.GenerateKey(c, base, order), ecc.GenerateKey(c, base, order)
	if err := challenge.Expect("shared point", c.ScalarMult(bob.Public, alice.Private).Equal(c.ScalarMult(alice.Public, bob.Private)), true); err != nil {
		return nil, err
	}

	peer := ecc.NewPeer(c, base, order)

	x, err := ecc.InvalidCurveAttack(ctx, peer.Respond, ecc.InvalidCurves(), order, SubgroupLimit, env.Logger)
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("x = %v", x)}

	return res, challenge.Expect("public key", c.ScalarMult(base, x).Equal(peer.Public()), true)
}

func insecureTwist(ctx context.Context, env *challenge.Env) (*challenge.Result, error) {
	m := ecc.StandardMontgomery()

	opts := ecc.TwistOptions{
		Base:       ecc.MontgomeryBase(),
		CurveOrder: ecc.GroupOrder(),
		Order:      ecc.BaseOrder(),
		Limit:      1 << 17,
		Bound:      new(big.Int).Lsh(big.NewInt(1), 60),
		Logger:     env.Logger,
	}

	if env.Quick {
		opts.Limit, opts.Bound = 1<<11, new(big.Int).Lsh(big.NewInt(1), 40)
	}

	d := randutil.BigBetween(big.NewInt(1), opts.Bound)
	peer := ecc.NewLadderPeerWithKey(m, opts.Base, d)

	got, err := ecc.TwistAttack(ctx, m, peer.Respond, peer.Public(), opts)
	if err != nil {
		return nil, err
	}

	res := &challenge.Result{Output: fmt.Sprintf("d = ±%v", got)}

	// The ladder only sees u, so d and order-d are indistinguishable.
	if m.Ladder(opts.Base, got).Cmp(peer.Public()) != 0 {
		return res, fmt.Errorf("%w: recovered key does not reproduce the public u", challenge.ErrMismatch)
	}

	return res, nil
}
