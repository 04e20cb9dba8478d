package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

// ErrUnknownPoint is returned when a Point is neither Infinity nor Affine
// (in practice, a nil interface).
var ErrUnknownPoint = errors.New("unknown point representation")

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Curve performs group operations for one set of Params. It is safe for
// concurrent use.
type Curve struct {
	params     *Params
	multiplier Multiplier
}

// New returns a Curve over params that multiplies with double-and-add.
func New(params *Params) *Curve {
	return &Curve{params: params, multiplier: DoubleAndAdd}
}

// WithMultiplier returns a copy of c that uses m for Mult and BaseMult.
func (c *Curve) WithMultiplier(m Multiplier) *Curve {
	cp := *c
	cp.multiplier = m
	return &cp
}

// Params returns the curve constants.
func (c *Curve) Params() *Params { return c.params }

// Multiplier returns the scalar multiplication algorithm in use.
func (c *Curve) Multiplier() Multiplier { return c.multiplier }

// Generator returns the base point G.
func (c *Curve) Generator() Affine {
	return NewAffine(c.params.gx, c.params.gy)
}

// Validate reports whether p is a group element: Infinity, or an affine
// point with reduced coordinates satisfying y² ≡ x³ + a·x + b (mod p).
func (c *Curve) Validate(p Point) bool {
	switch pt := p.(type) {
	case Infinity:
		return true
	case Affine:
		if pt.X == nil || pt.Y == nil {
			return false
		}
		if pt.X.Sign() < 0 || pt.X.Cmp(c.params.p) >= 0 ||
			pt.Y.Sign() < 0 || pt.Y.Cmp(c.params.p) >= 0 {
			return false
		}
		return field.Mul(pt.Y, pt.Y, c.params.p).Cmp(c.polynomial(pt.X)) == 0
	}
	return false
}

// polynomial returns x³ + a·x + b mod p.
func (c *Curve) polynomial(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Add(r, c.params.a) // x² + a
	r.Mul(r, x)          // x³ + a·x
	r.Add(r, c.params.b) // x³ + a·x + b
	return r.Mod(r, c.params.p)
}

// Neg returns -p. Points that are not finite affine points, including
// ones with a nil coordinate, are returned unchanged.
func (c *Curve) Neg(p Point) Point {
	pt, finite, err := asAffine(p)
	if err != nil || !finite {
		return p
	}
	return Affine{X: new(big.Int).Set(pt.X), Y: field.Sub(c.params.p, pt.Y, c.params.p)}
}

// Add returns p1 + p2 using the affine chord-and-tangent rule. The only
// possible error is field.ErrNotInvertible, which requires a zero
// denominator that cannot occur for points on the curve.
func (c *Curve) Add(p1, p2 Point) (Point, error) {
	a1, finite1, err := asAffine(p1)
	if err != nil {
		return nil, err
	}
	a2, finite2, err := asAffine(p2)
	if err != nil {
		return nil, err
	}
	if !finite1 {
		return p2, nil
	}
	if !finite2 {
		return p1, nil
	}

	p := c.params.p
	if a1.X.Cmp(a2.X) == 0 && field.Add(a1.Y, a2.Y, p).Sign() == 0 {
		return Infinity{}, nil
	}

	var num, den *big.Int
	if a1.X.Cmp(a2.X) == 0 && a1.Y.Cmp(a2.Y) == 0 {
		// tangent: (3x² + a) / 2y
		num = field.Mul(three, field.Mul(a1.X, a1.X, p), p)
		num = field.Add(num, c.params.a, p)
		den = field.Mul(two, a1.Y, p)
	} else {
		// chord: (y2 - y1) / (x2 - x1)
		num = field.Sub(a2.Y, a1.Y, p)
		den = field.Sub(a2.X, a1.X, p)
	}

	inv, err := field.Inv(den, p)
	if err != nil {
		return nil, err
	}
	lambda := field.Mul(num, inv, p)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, a1.X)
	x3.Sub(x3, a2.X)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(a1.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, a1.Y)
	y3.Mod(y3, p)

	return Affine{X: x3, Y: y3}, nil
}

// Double returns 2·p.
func (c *Curve) Double(p Point) (Point, error) {
	return c.Add(p, p)
}

func asAffine(p Point) (Affine, bool, error) {
	switch pt := p.(type) {
	case Infinity:
		return Affine{}, false, nil
	case Affine:
		if pt.X == nil || pt.Y == nil {
			return Affine{}, false, fmt.Errorf("%w: affine point with nil coordinate", ErrUnknownPoint)
		}
		return pt, true, nil
	}
	return Affine{}, false, ErrUnknownPoint
}
