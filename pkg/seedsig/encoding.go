package seedsig

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/curve"
)

// PublicKeyHex is the hex form of a public key.
type PublicKeyHex struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
}

// SignatureHex is the hex form of a signature.
type SignatureHex struct {
	R string `json:"r" yaml:"r"`
	S string `json:"s" yaml:"s"`
}

// EncodeInt renders v as lowercase hex without prefix or padding.
func EncodeInt(v *big.Int) string {
	return v.Text(16)
}

// DecodeInt parses a non-empty hex string. An optional 0x prefix is
// accepted; signs and any other characters are rejected.
func DecodeInt(s string) (*big.Int, error) {
	digits := s
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return nil, errors.WithMessagef(ErrInvalidEncoding, "empty value %q", s)
	}
	for _, c := range digits {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return nil, errors.WithMessagef(ErrInvalidEncoding, "non-hex character %q in %q", c, s)
		}
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, errors.WithMessagef(ErrInvalidEncoding, "cannot parse %q", s)
	}
	return v, nil
}

// ParsePrivateKeyHex decodes a private scalar and checks its range.
func ParsePrivateKeyHex(params *curve.Params, s string) (*PrivateKey, error) {
	d, err := DecodeInt(s)
	if err != nil {
		return nil, errors.WithMessage(err, "private key")
	}
	defer zeroInt(d)
	return NewPrivateKey(params, d)
}

// ParsePublicKeyHex decodes and validates a public key.
func ParsePublicKeyHex(c *curve.Curve, h PublicKeyHex) (*PublicKey, error) {
	x, err := DecodeInt(h.X)
	if err != nil {
		return nil, errors.WithMessage(err, "public key x")
	}
	y, err := DecodeInt(h.Y)
	if err != nil {
		return nil, errors.WithMessage(err, "public key y")
	}
	return NewPublicKey(c, x, y)
}

// ParseSignatureHex decodes a signature. The range of r and s is checked by
// Verify, not here.
func ParseSignatureHex(h SignatureHex) (*Signature, error) {
	r, err := DecodeInt(h.R)
	if err != nil {
		return nil, errors.WithMessage(err, "signature r")
	}
	s, err := DecodeInt(h.S)
	if err != nil {
		return nil, errors.WithMessage(err, "signature s")
	}
	return &Signature{r: r, s: s}, nil
}

// Hex returns the hex form of the key.
func (k *PublicKey) Hex() PublicKeyHex {
	return PublicKeyHex{X: EncodeInt(k.point.X), Y: EncodeInt(k.point.Y)}
}

// Hex returns the hex form of the signature.
func (sig *Signature) Hex() SignatureHex {
	return SignatureHex{R: EncodeInt(sig.r), S: EncodeInt(sig.s)}
}
