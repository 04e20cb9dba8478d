package seedsig

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/curve"
	"github.com/mahdiidarabi/seedsig/internal/field"
)

// MaxSigningAttempts bounds how often Sign redraws the ephemeral scalar
// after producing r = 0 or s = 0.
const MaxSigningAttempts = 32

var errDegenerate = errors.New("degenerate signature component")

// Signature is an ECDSA signature (r, s). Values built by Sign satisfy
// 1 <= r, s <= n-1; Verify checks the range for any other source.
type Signature struct {
	r, s *big.Int
}

// NewSignature copies r and s into a Signature without range checks.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s)}
}

// R returns a copy of r.
func (sig *Signature) R() *big.Int { return new(big.Int).Set(sig.r) }

// S returns a copy of s.
func (sig *Signature) S() *big.Int { return new(big.Int).Set(sig.s) }

// ephemeral is the per-signature scalar k together with the random bytes it
// was reduced from. Both are wiped by zero.
type ephemeral struct {
	k   *big.Int
	raw []byte
}

func (e *ephemeral) zero() {
	zeroBytes(e.raw)
	zeroInt(e.k)
}

// newEphemeral draws k uniformly from [1, n-1]. It reads 64 bits more than
// the order's length and reduces c mod (n-1) + 1, which keeps the bias
// below 2^-64.
func (s *Scheme) newEphemeral(ctx context.Context) (*ephemeral, error) {
	n := s.curve.Params().N()
	raw, err := s.provider.RandomBytes(ctx, (n.BitLen()+7)/8+8)
	if err != nil {
		return nil, &ProviderError{Op: "random", Err: err}
	}

	nMinus1 := new(big.Int).Sub(n, big.NewInt(1))
	k := new(big.Int).SetBytes(raw)
	k.Mod(k, nMinus1)
	k.Add(k, big.NewInt(1))
	return &ephemeral{k: k, raw: raw}, nil
}

// Sign produces an ECDSA signature over Digest(msg).
func (s *Scheme) Sign(ctx context.Context, priv *PrivateKey, msg []byte) (*Signature, error) {
	n := s.curve.Params().N()
	if priv == nil || !field.InRange(priv.d, n) {
		return nil, errors.WithMessage(ErrInvalidPrivateKey, "scalar must be in [1, n-1]")
	}
	if len(msg) == 0 {
		return nil, errors.WithMessage(ErrInvalidInput, "message must not be empty")
	}

	e, err := s.messageHash(ctx, msg)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < MaxSigningAttempts; attempt++ {
		sig, err := s.signWithFreshScalar(ctx, priv.d, e, n)
		if errors.Is(err, errDegenerate) {
			continue
		}
		return sig, err
	}
	return nil, errors.WithMessagef(ErrSigningExhausted, "gave up after %d attempts", MaxSigningAttempts)
}

func (s *Scheme) signWithFreshScalar(ctx context.Context, d, e, n *big.Int) (*Signature, error) {
	eph, err := s.newEphemeral(ctx)
	if err != nil {
		return nil, err
	}
	defer eph.zero()

	rp, err := s.curve.BaseMult(eph.k)
	if err != nil {
		return nil, errors.Wrap(err, "computing k·G")
	}
	pt, ok := rp.(curve.Affine)
	if !ok {
		return nil, errDegenerate
	}

	r := field.Mod(pt.X, n)
	if r.Sign() == 0 {
		return nil, errDegenerate
	}

	kInv, err := field.Inv(eph.k, n)
	if err != nil {
		return nil, errors.Wrap(err, "inverting ephemeral scalar")
	}
	defer zeroInt(kInv)

	rd := field.Mul(r, d, n)
	defer zeroInt(rd)

	sv := field.Mul(field.Add(e, rd, n), kInv, n)
	if sv.Sign() == 0 {
		return nil, errDegenerate
	}
	return &Signature{r: r, s: sv}, nil
}
