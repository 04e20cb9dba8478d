package curve

import (
	"fmt"
	"math/big"
	"strings"
)

// Multiplier selects a scalar multiplication algorithm.
type Multiplier int

const (
	// DoubleAndAdd scans the scalar from the least significant bit and only
	// adds for set bits. Its running time depends on the bit pattern of k.
	DoubleAndAdd Multiplier = iota
	// Ladder is a Montgomery ladder over a fixed number of bits. Every bit
	// costs one addition and one doubling regardless of its value.
	Ladder
)

func (m Multiplier) String() string {
	switch m {
	case DoubleAndAdd:
		return "double-and-add"
	case Ladder:
		return "ladder"
	}
	return fmt.Sprintf("Multiplier(%d)", int(m))
}

// ParseMultiplier maps a configuration string to a Multiplier.
func ParseMultiplier(s string) (Multiplier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "double-and-add", "double_and_add", "binary":
		return DoubleAndAdd, nil
	case "ladder", "montgomery":
		return Ladder, nil
	}
	return DoubleAndAdd, fmt.Errorf("scalar multiplier not supported [%s]", s)
}

// Mult returns k·p using the configured Multiplier.
func (c *Curve) Mult(k *big.Int, p Point) (Point, error) {
	if c.multiplier == Ladder {
		return c.ScalarMultLadder(k, p)
	}
	return c.ScalarMult(k, p)
}

// BaseMult returns k·G using the configured Multiplier.
func (c *Curve) BaseMult(k *big.Int) (Point, error) {
	return c.Mult(k, c.Generator())
}

// ScalarMult returns k·p by double-and-add, least significant bit first.
// k = 0 yields Infinity; a negative k multiplies -p by |k|.
func (c *Curve) ScalarMult(k *big.Int, p Point) (Point, error) {
	if _, _, err := asAffine(p); err != nil {
		return nil, err
	}
	if k.Sign() < 0 {
		return c.ScalarMult(new(big.Int).Neg(k), c.Neg(p))
	}

	var (
		result Point = Infinity{}
		addend       = p
		err    error
	)
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			if result, err = c.Add(result, addend); err != nil {
				return nil, err
			}
		}
		if addend, err = c.Double(addend); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ScalarMultLadder returns k·p with a Montgomery ladder. The ladder always
// walks max(BitSize, bitlen(k)) bits so the sequence of group operations
// does not reveal the scalar's length or weight. math/big itself is not
// constant time, so this narrows but does not close the timing channel.
func (c *Curve) ScalarMultLadder(k *big.Int, p Point) (Point, error) {
	if _, _, err := asAffine(p); err != nil {
		return nil, err
	}
	if k.Sign() < 0 {
		return c.ScalarMultLadder(new(big.Int).Neg(k), c.Neg(p))
	}

	bits := c.params.bitSize
	if k.BitLen() > bits {
		bits = k.BitLen()
	}

	var (
		r0  Point = Infinity{}
		r1        = p
		err error
	)
	for i := bits - 1; i >= 0; i-- {
		if k.Bit(i) == 0 {
			if r1, err = c.Add(r0, r1); err != nil {
				return nil, err
			}
			if r0, err = c.Double(r0); err != nil {
				return nil, err
			}
		} else {
			if r0, err = c.Add(r0, r1); err != nil {
				return nil, err
			}
			if r1, err = c.Double(r1); err != nil {
				return nil, err
			}
		}
	}
	return r0, nil
}
