package seedsig

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

// SignedMessage pairs a message with its signature.
type SignedMessage struct {
	Message   []byte
	Signature *Signature
}

// RecoverFromRelatedNonces solves for the private key behind two
// signatures whose ephemeral scalars satisfy k2 = a·k1 + b:
//
//	d = (a·s2·e1 - s1·e2 + b·s1·s2) / (r2·s1 - a·r1·s2) mod n
//
// The result is not checked against any public key.
func (s *Scheme) RecoverFromRelatedNonces(ctx context.Context, m1, m2 SignedMessage, a, b *big.Int) (*PrivateKey, error) {
	n := s.curve.Params().N()
	if m1.Signature == nil || m2.Signature == nil {
		return nil, errors.WithMessage(ErrInvalidInput, "missing signature")
	}
	e1, err := s.messageHash(ctx, m1.Message)
	if err != nil {
		return nil, err
	}
	e2, err := s.messageHash(ctx, m2.Message)
	if err != nil {
		return nil, err
	}
	r1, s1 := m1.Signature.r, m1.Signature.s
	r2, s2 := m2.Signature.r, m2.Signature.s

	num := field.Mul(field.Mul(a, s2, n), e1, n)
	num = field.Sub(num, field.Mul(s1, e2, n), n)
	num = field.Add(num, field.Mul(field.Mul(b, s1, n), s2, n), n)

	den := field.Sub(field.Mul(r2, s1, n), field.Mul(field.Mul(a, r1, n), s2, n), n)
	denInv, err := field.Inv(den, n)
	if err != nil {
		return nil, errors.Wrap(err, "signatures do not determine a key")
	}

	d := field.Mul(num, denInv, n)
	if !field.InRange(d, n) {
		return nil, errors.WithMessage(ErrInvalidPrivateKey, "recovered scalar is zero")
	}
	return &PrivateKey{d: d}, nil
}

// RecoverFromNonceReuse recovers the private key from two signatures on
// different messages made with the same ephemeral scalar, which shows up
// as equal r values.
func (s *Scheme) RecoverFromNonceReuse(ctx context.Context, m1, m2 SignedMessage) (*PrivateKey, error) {
	if m1.Signature == nil || m2.Signature == nil {
		return nil, errors.WithMessage(ErrInvalidInput, "missing signature")
	}
	if m1.Signature.r.Cmp(m2.Signature.r) != 0 {
		return nil, errors.WithMessage(ErrInvalidInput, "signatures do not share r")
	}
	return s.RecoverFromRelatedNonces(ctx, m1, m2, big.NewInt(1), big.NewInt(0))
}

// NonceReuseFinding reports two records from one signer that share r.
// When Confirmed is set, PrivateKey holds the recovered scalar and it was
// checked to produce the signer's public key.
type NonceReuseFinding struct {
	Indices    [2]int       `json:"indices" yaml:"indices"`
	PublicKey  PublicKeyHex `json:"public_key" yaml:"public_key"`
	R          string       `json:"r" yaml:"r"`
	Confirmed  bool         `json:"confirmed" yaml:"confirmed"`
	PrivateKey string       `json:"private_key,omitempty" yaml:"private_key,omitempty"`
}

type reuseKey struct {
	x, y, r string
}

// AuditNonceReuse looks for pairs of records signed by the same key with
// the same r. Records that do not decode are skipped; batch verification
// reports them. Findings are ordered by the index of their first record.
func (s *Scheme) AuditNonceReuse(ctx context.Context, records []Record) ([]NonceReuseFinding, error) {
	type entry struct {
		index int
		pub   *PublicKey
		sig   *Signature
	}
	groups := map[reuseKey][]entry{}
	var order []reuseKey

	for i, rec := range records {
		pub, err := ParsePublicKeyHex(s.curve, rec.PublicKey())
		if err != nil {
			continue
		}
		sig, err := ParseSignatureHex(rec.Signature())
		if err != nil {
			continue
		}
		k := reuseKey{x: EncodeInt(pub.point.X), y: EncodeInt(pub.point.Y), r: EncodeInt(sig.r)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], entry{index: i, pub: pub, sig: sig})
	}

	var findings []NonceReuseFinding
	for _, k := range order {
		group := groups[k]
		first := group[0]
		for _, other := range group[1:] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			m1 := records[first.index].Message
			m2 := records[other.index].Message
			if m1 == m2 {
				continue
			}

			finding := NonceReuseFinding{
				Indices:   [2]int{first.index, other.index},
				PublicKey: first.pub.Hex(),
				R:         k.r,
			}
			priv, err := s.RecoverFromNonceReuse(ctx,
				SignedMessage{Message: []byte(m1), Signature: first.sig},
				SignedMessage{Message: []byte(m2), Signature: other.sig},
			)
			if err == nil {
				if pub, perr := s.PublicKey(priv); perr == nil && pub.Equal(first.pub) {
					finding.Confirmed = true
					finding.PrivateKey = EncodeInt(priv.d)
				}
				priv.Zero()
			} else if errors.Is(err, ErrProvider) {
				return nil, err
			}
			findings = append(findings, finding)
			break
		}
	}
	return findings, nil
}
