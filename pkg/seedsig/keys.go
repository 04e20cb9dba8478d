package seedsig

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/curve"
	"github.com/mahdiidarabi/seedsig/internal/field"
)

// MaxDerivationAttempts bounds the rejection-sampling loop of
// DeriveKeyPair. A single retry already has probability ~2^-256.
const MaxDerivationAttempts = 256

// PrivateKey is a scalar d with 1 <= d <= n-1. It lives in memory only.
type PrivateKey struct {
	d *big.Int
}

// NewPrivateKey checks that d is a valid scalar for params and copies it.
func NewPrivateKey(params *curve.Params, d *big.Int) (*PrivateKey, error) {
	if !field.InRange(d, params.N()) {
		return nil, errors.WithMessage(ErrInvalidPrivateKey, "scalar must be in [1, n-1]")
	}
	return &PrivateKey{d: new(big.Int).Set(d)}, nil
}

// D returns a copy of the scalar.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Zero clears the scalar. The key is unusable afterwards.
func (k *PrivateKey) Zero() { zeroInt(k.d) }

// PublicKey is a finite point on the curve, d·G for some private key d.
type PublicKey struct {
	point curve.Affine
}

// NewPublicKey validates (x, y) against c and copies the coordinates.
func NewPublicKey(c *curve.Curve, x, y *big.Int) (*PublicKey, error) {
	if x == nil || y == nil {
		return nil, errors.WithMessage(ErrInvalidPublicKey, "missing coordinate")
	}
	pt := curve.NewAffine(x, y)
	if !c.Validate(pt) {
		return nil, errors.WithMessage(ErrInvalidPublicKey, "point is not on the curve")
	}
	return &PublicKey{point: pt}, nil
}

// X returns a copy of the x-coordinate.
func (k *PublicKey) X() *big.Int { return new(big.Int).Set(k.point.X) }

// Y returns a copy of the y-coordinate.
func (k *PublicKey) Y() *big.Int { return new(big.Int).Set(k.point.Y) }

// Point returns the key as a curve point.
func (k *PublicKey) Point() curve.Affine { return curve.NewAffine(k.point.X, k.point.Y) }

// Equal reports whether both keys are the same point.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && curve.Equal(k.point, other.point)
}

// DeriveKeyPair deterministically derives a key pair from seed and salt.
//
// The first candidate is Digest(seed ‖ salt) mod n. Should it fall outside
// [1, n-1], attempt i hashes seed ‖ salt ‖ uint32be(i) instead, so every
// retry sees a fresh input and the loop cannot spin on a fixed value.
func (s *Scheme) DeriveKeyPair(ctx context.Context, seed, salt []byte) (*PrivateKey, *PublicKey, error) {
	if len(seed) == 0 {
		return nil, nil, errors.WithMessage(ErrInvalidInput, "seed must not be empty")
	}
	if len(salt) == 0 {
		return nil, nil, errors.WithMessage(ErrInvalidInput, "salt must not be empty")
	}

	n := s.curve.Params().N()
	input := make([]byte, 0, len(seed)+len(salt)+4)
	input = append(input, seed...)
	input = append(input, salt...)
	defer zeroBytes(input[:cap(input)])

	base := len(input)
	for attempt := 0; attempt < MaxDerivationAttempts; attempt++ {
		msg := input[:base]
		if attempt > 0 {
			msg = binary.BigEndian.AppendUint32(msg, uint32(attempt))
		}

		h, err := s.digest(ctx, msg)
		if err != nil {
			return nil, nil, err
		}
		d := new(big.Int).SetBytes(h)
		zeroBytes(h)
		d.Mod(d, n)
		if !field.InRange(d, n) {
			continue
		}

		priv := &PrivateKey{d: d}
		pub, err := s.PublicKey(priv)
		if err != nil {
			priv.Zero()
			return nil, nil, err
		}
		return priv, pub, nil
	}
	return nil, nil, errors.WithMessagef(ErrDerivationExhausted, "gave up after %d attempts", MaxDerivationAttempts)
}

// PublicKey computes d·G for priv and checks the result.
func (s *Scheme) PublicKey(priv *PrivateKey) (*PublicKey, error) {
	if priv == nil || !field.InRange(priv.d, s.curve.Params().N()) {
		return nil, errors.WithMessage(ErrInvalidPrivateKey, "scalar must be in [1, n-1]")
	}
	q, err := s.curve.BaseMult(priv.d)
	if err != nil {
		return nil, errors.Wrap(err, "computing public key")
	}
	pt, ok := q.(curve.Affine)
	if !ok || !s.curve.Validate(pt) {
		return nil, errors.WithMessagef(ErrInvalidPublicKey, "derived point %s is not a valid public key", q)
	}
	return &PublicKey{point: pt}, nil
}
