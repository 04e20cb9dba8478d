package seedsig

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/curve"
	"github.com/mahdiidarabi/seedsig/internal/field"
)

// Verify checks sig over Digest(msg) against pub. A signature that does not
// match yields (false, nil); malformed inputs yield an error.
func (s *Scheme) Verify(ctx context.Context, pub *PublicKey, msg []byte, sig *Signature) (bool, error) {
	params := s.curve.Params()
	n := params.N()

	if sig == nil || !field.InRange(sig.r, n) || !field.InRange(sig.s, n) {
		return false, errors.WithMessage(ErrInvalidSignatureRange, "r and s must be in [1, n-1]")
	}
	if pub == nil || !s.curve.Validate(pub.point) {
		return false, errors.WithMessage(ErrInvalidPublicKey, "point is not on the curve")
	}
	if len(msg) == 0 {
		return false, errors.WithMessage(ErrInvalidInput, "message must not be empty")
	}

	e, err := s.messageHash(ctx, msg)
	if err != nil {
		return false, err
	}

	w, err := field.Inv(sig.s, n)
	if err != nil {
		return false, errors.Wrap(err, "inverting s")
	}
	u1 := field.Mul(e, w, n)
	u2 := field.Mul(sig.r, w, n)

	p1, err := s.curve.BaseMult(u1)
	if err != nil {
		return false, errors.Wrap(err, "computing u1·G")
	}
	p2, err := s.curve.Mult(u2, pub.point)
	if err != nil {
		return false, errors.Wrap(err, "computing u2·Q")
	}
	sum, err := s.curve.Add(p1, p2)
	if err != nil {
		return false, errors.Wrap(err, "computing u1·G + u2·Q")
	}

	pt, ok := sum.(curve.Affine)
	if !ok {
		return false, nil
	}

	width := params.ByteLen()
	xP := field.Mod(pt.X, n)
	return ConstantTimeHexEqual(fixedHex(xP, width), fixedHex(sig.r, width)), nil
}

// ConstantTimeHexEqual compares two hex strings in time that depends only on
// their length. Strings of different length are never equal.
func ConstantTimeHexEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// fixedHex encodes v big-endian into exactly width bytes, i.e. 2·width
// lowercase hex digits.
func fixedHex(v *big.Int, width int) string {
	return hex.EncodeToString(v.FillBytes(make([]byte, width)))
}
