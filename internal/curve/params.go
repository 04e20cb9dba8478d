// Package curve implements short-Weierstrass elliptic-curve arithmetic
// (y² = x³ + a·x + b over F_p) in affine coordinates on top of math/big.
//
// The package is deliberately generic over the curve constants: the same
// code runs NIST P-256, which is what the signature layer uses, and the
// secp256k1 parameters exported by decred, which the tests use as an
// independent cross-check.
package curve

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Curve names accepted by ParamsByName.
const (
	NameP256      = "P-256"
	NameSecp256k1 = "secp256k1"
)

// Params holds the constants of a curve y² = x³ + a·x + b over F_p with a
// base point G of prime order n. A Params value is immutable once built;
// the accessors hand out copies.
type Params struct {
	p, a, b *big.Int
	gx, gy  *big.Int
	n       *big.Int
	bitSize int
	name    string
}

// P returns the field modulus.
func (c *Params) P() *big.Int { return new(big.Int).Set(c.p) }

// A returns the linear coefficient of the curve equation.
func (c *Params) A() *big.Int { return new(big.Int).Set(c.a) }

// B returns the constant coefficient of the curve equation.
func (c *Params) B() *big.Int { return new(big.Int).Set(c.b) }

// N returns the order of the base point.
func (c *Params) N() *big.Int { return new(big.Int).Set(c.n) }

// Gx returns the x-coordinate of the base point.
func (c *Params) Gx() *big.Int { return new(big.Int).Set(c.gx) }

// Gy returns the y-coordinate of the base point.
func (c *Params) Gy() *big.Int { return new(big.Int).Set(c.gy) }

// BitSize is the bit length of the field modulus.
func (c *Params) BitSize() int { return c.bitSize }

// ByteLen is the length in bytes of a fixed-width scalar or coordinate.
func (c *Params) ByteLen() int { return (c.bitSize + 7) / 8 }

// Name returns the canonical curve name.
func (c *Params) Name() string { return c.name }

func (c *Params) String() string { return c.name }

var (
	p256Once   sync.Once
	p256Params *Params

	k256Once   sync.Once
	k256Params *Params
)

// P256 returns the NIST P-256 (secp256r1) parameters from FIPS 186-4 D.1.2.3.
func P256() *Params {
	p256Once.Do(func() {
		p := mustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
		p256Params = &Params{
			p:       p,
			a:       new(big.Int).Sub(p, big.NewInt(3)),
			b:       mustHex("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
			gx:      mustHex("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
			gy:      mustHex("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
			n:       mustHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
			bitSize: 256,
			name:    NameP256,
		}
	})
	return p256Params
}

// Secp256k1 returns the secp256k1 parameters as published by decred's
// implementation. The curve has a = 0.
func Secp256k1() *Params {
	k256Once.Do(func() {
		cp := secp256k1.S256().Params()
		k256Params = &Params{
			p:       new(big.Int).Set(cp.P),
			a:       big.NewInt(0),
			b:       new(big.Int).Set(cp.B),
			gx:      new(big.Int).Set(cp.Gx),
			gy:      new(big.Int).Set(cp.Gy),
			n:       new(big.Int).Set(cp.N),
			bitSize: cp.BitSize,
			name:    NameSecp256k1,
		}
	})
	return k256Params
}

// ParamsByName resolves a curve name, case-insensitively.
func ParamsByName(name string) (*Params, error) {
	switch strings.ToLower(name) {
	case "p-256", "p256", "secp256r1", "prime256v1":
		return P256(), nil
	case "secp256k1":
		return Secp256k1(), nil
	}
	return nil, fmt.Errorf("curve not recognized [%s]", name)
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: bad constant " + s)
	}
	return v
}
