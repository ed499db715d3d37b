package ecc

import "math/big"

func mustInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("ecc: bad constant " + s)
	}

	return n
}

// Prime is the field modulus shared by every curve below.
func Prime() *big.Int {
	return mustInt("233970423115425145524320034830162017933")
}

// Standard returns y^2 = x^3 - 95051x + 11279326.
func Standard() Curve {
	p := Prime()

	return Curve{A: new(big.Int).Sub(p, big.NewInt(95051)), B: big.NewInt(11279326), P: p}
}

// BasePoint returns the generator (182, 85518893674295321206118380980485522083).
func BasePoint() Point {
	return Point{X: big.NewInt(182), Y: mustInt("85518893674295321206118380980485522083")}
}

// BaseOrder returns the prime order of the generator.
func BaseOrder() *big.Int {
	return mustInt("29246302889428143187362802287225875743")
}

// GroupOrder returns the order of the whole curve group, eight times BaseOrder.
func GroupOrder() *big.Int {
	return mustInt("233970423115425145498902418297807005944")
}

// InvalidCurve is a curve sharing A and P with Standard but with another B.
type InvalidCurve struct {
	Curve Curve
	Order *big.Int
}

// InvalidCurves returns the three weak curves with b = 210, 504 and 727.
func InvalidCurves() []InvalidCurve {
	base := Standard()

	return []InvalidCurve{
		{Curve: base.WithB(big.NewInt(210)), Order: mustInt("233970423115425145550826547352470124412")},
		{Curve: base.WithB(big.NewInt(504)), Order: mustInt("233970423115425145544350131142039591210")},
		{Curve: base.WithB(big.NewInt(727)), Order: mustInt("233970423115425145545378039958152057148")},
	}
}

// StandardMontgomery returns v^2 = u^3 + 534u^2 + u, the Montgomery form of Standard.
func StandardMontgomery() Montgomery {
	return Montgomery{A: big.NewInt(534), B: big.NewInt(1), P: Prime()}
}

// MontgomeryBase is the u coordinate of BasePoint.
func MontgomeryBase() *big.Int {
	return big.NewInt(4)
}
