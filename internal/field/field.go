// Package field implements modular arithmetic over an arbitrary modulus.
//
// The same helpers serve both the curve's coordinate field (modulus p) and
// its scalar field (modulus n). Callers choose the modulus; passing the
// wrong one is not detected here.
package field

import (
	"errors"
	"math/big"
)

// ErrNotInvertible is returned by Inv when the element has no inverse
// modulo m, i.e. a ≡ 0 (mod m) or gcd(a, m) ≠ 1.
var ErrNotInvertible = errors.New("modular inverse undefined")

var one = big.NewInt(1)

// Mod returns a mod m in the range [0, m-1], also for negative a.
func Mod(a, m *big.Int) *big.Int {
	// big.Int.Mod is Euclidean, so the result is already non-negative for m > 0.
	return new(big.Int).Mod(a, m)
}

// Add returns (a + b) mod m.
func Add(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, m)
}

// Sub returns (a - b) mod m.
func Sub(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, m)
}

// Mul returns (a * b) mod m.
func Mul(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m)
}

// Inv returns t with 0 < t < m and a·t ≡ 1 (mod m), computed with the
// extended Euclidean algorithm.
func Inv(a, m *big.Int) (*big.Int, error) {
	a0 := Mod(a, m)
	if a0.Sign() == 0 {
		return nil, ErrNotInvertible
	}

	// Invariant: t_i·a ≡ r_i (mod m).
	r0, r1 := new(big.Int).Set(m), a0
	t0, t1 := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r1.Sign() != 0 {
		q.Quo(r0, r1)

		tmp.Mul(q, r1)
		tmp.Sub(r0, tmp)
		r0, r1 = r1, new(big.Int).Set(tmp)

		tmp.Mul(q, t1)
		tmp.Sub(t0, tmp)
		t0, t1 = t1, new(big.Int).Set(tmp)
	}

	if r0.Cmp(one) != 0 {
		return nil, ErrNotInvertible
	}
	return Mod(t0, m), nil
}

// InRange reports whether 1 <= v <= m-1.
func InRange(v, m *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(m) < 0
}
