package curve

import (
	"fmt"
	"math/big"
)

// Point is a curve point: exactly one of Infinity or Affine. Consumers are
// expected to type-switch on it; the interface is sealed.
type Point interface {
	isPoint()
	fmt.Stringer
}

// Infinity is the group identity.
type Infinity struct{}

func (Infinity) isPoint() {}

func (Infinity) String() string { return "infinity" }

// Affine is a finite point (X, Y) with coordinates in [0, p-1].
type Affine struct {
	X, Y *big.Int
}

func (Affine) isPoint() {}

func (a Affine) String() string {
	return fmt.Sprintf("(%s, %s)", a.X.Text(16), a.Y.Text(16))
}

// NewAffine copies x and y into a new affine point.
func NewAffine(x, y *big.Int) Affine {
	return Affine{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// IsInfinity reports whether p is the identity.
func IsInfinity(p Point) bool {
	_, ok := p.(Infinity)
	return ok
}

// Equal reports whether two points are the same group element.
func Equal(p1, p2 Point) bool {
	switch a := p1.(type) {
	case Infinity:
		return IsInfinity(p2)
	case Affine:
		b, ok := p2.(Affine)
		if !ok {
			return false
		}
		return a.X.Cmp(b.X) == 0 && a.Y.Cmp(b.Y) == 0
	}
	return false
}
