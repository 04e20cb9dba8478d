package seedsig

import (
	"context"
	"math/big"

	"github.com/mahdiidarabi/seedsig/internal/curve"
)

// Scheme binds a curve to a CryptoProvider and implements key derivation,
// signing and verification on big integers. Use Client for the hex-string
// surface. A Scheme is immutable and safe for concurrent use.
type Scheme struct {
	curve    *curve.Curve
	provider CryptoProvider
}

// NewScheme returns a Scheme over c using provider for hashing and
// randomness.
func NewScheme(c *curve.Curve, provider CryptoProvider) *Scheme {
	return &Scheme{curve: c, provider: provider}
}

// Curve returns the curve the scheme operates on.
func (s *Scheme) Curve() *curve.Curve { return s.curve }

// NewCurve resolves a curve name and multiplier name to a Curve.
func NewCurve(name, multiplier string) (*curve.Curve, error) {
	params, err := curve.ParamsByName(name)
	if err != nil {
		return nil, err
	}
	m, err := curve.ParseMultiplier(multiplier)
	if err != nil {
		return nil, err
	}
	return curve.New(params).WithMultiplier(m), nil
}

func (s *Scheme) digest(ctx context.Context, msg []byte) ([]byte, error) {
	h, err := s.provider.Digest(ctx, msg)
	if err != nil {
		return nil, &ProviderError{Op: "digest", Err: err}
	}
	if len(h) == 0 {
		return nil, &ProviderError{Op: "digest", Err: ErrInvalidInput}
	}
	return h, nil
}

// messageHash hashes msg and converts the digest to an integer, keeping the
// leftmost bitlen(n) bits as ECDSA prescribes. For 256-bit digests on a
// 256-bit curve the digest is used unchanged.
func (s *Scheme) messageHash(ctx context.Context, msg []byte) (*big.Int, error) {
	h, err := s.digest(ctx, msg)
	if err != nil {
		return nil, err
	}
	return hashToInt(h, s.curve.Params().N()), nil
}

func hashToInt(hash []byte, n *big.Int) *big.Int {
	orderBits := n.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

// zeroInt overwrites the words backing v before resetting it.
func zeroInt(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
