package seedsig

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

func TestVerifyFixtures(t *testing.T) {
	s := newTestScheme(t)
	records, err := (&JSONParser{}).ParseRecords("testdata/signatures.json")
	require.NoError(t, err)

	for _, rec := range records {
		t.Run(rec.Message, func(t *testing.T) {
			pub, err := ParsePublicKeyHex(s.Curve(), rec.PublicKey())
			require.NoError(t, err)
			sig, err := ParseSignatureHex(rec.Signature())
			require.NoError(t, err)

			ok, err := s.Verify(context.Background(), pub, []byte(rec.Message), sig)
			require.NoError(t, err)
			assert.Equal(t, rec.Message != "tampered", ok)
		})
	}
}

func TestVerifyTampering(t *testing.T) {
	s := newTestScheme(t)
	priv, pub := testKeyPair(t, s)
	n := s.Curve().Params().N()
	ctx := context.Background()

	msg := []byte("pay bob 10")
	sig, err := s.Sign(ctx, priv, msg)
	require.NoError(t, err)

	ok, err := s.Verify(ctx, pub, []byte("pay bob 11"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	bumped := NewSignature(sig.R(), field.Add(sig.S(), big.NewInt(1), n))
	if bumped.S().Sign() != 0 {
		ok, err = s.Verify(ctx, pub, msg, bumped)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	_, other, err := s.DeriveKeyPair(ctx, []byte("someone"), []byte("else"))
	require.NoError(t, err)
	ok, err = s.Verify(ctx, other, msg, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySignatureRange(t *testing.T) {
	s := newTestScheme(t)
	_, pub := testKeyPair(t, s)
	n := s.Curve().Params().N()
	one := big.NewInt(1)

	for _, tt := range []struct {
		name string
		r, s *big.Int
	}{
		{"r zero", big.NewInt(0), one},
		{"s zero", one, big.NewInt(0)},
		{"r equals n", n, one},
		{"s equals n", one, n},
		{"r negative", big.NewInt(-1), one},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Verify(context.Background(), pub, []byte("msg"), NewSignature(tt.r, tt.s))
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrInvalidSignatureRange)
		})
	}

	_, err := s.Verify(context.Background(), pub, []byte("msg"), nil)
	assert.ErrorIs(t, err, ErrInvalidSignatureRange)
}

func TestVerifyRejectsBadKeyAndMessage(t *testing.T) {
	s := newTestScheme(t)
	priv, pub := testKeyPair(t, s)
	ctx := context.Background()

	sig, err := s.Sign(ctx, priv, []byte("msg"))
	require.NoError(t, err)

	offCurve := &PublicKey{point: pub.Point()}
	offCurve.point.Y = new(big.Int).Add(offCurve.point.Y, big.NewInt(1))
	_, err = s.Verify(ctx, offCurve, []byte("msg"), sig)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = s.Verify(ctx, nil, []byte("msg"), sig)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = s.Verify(ctx, pub, []byte{}, sig)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConstantTimeHexEqual(t *testing.T) {
	a := strings.Repeat("0123456789abcdef", 4)
	require.Len(t, a, 64)

	assert.True(t, ConstantTimeHexEqual(a, a))
	assert.True(t, ConstantTimeHexEqual("", ""))

	for i := 0; i < len(a); i++ {
		b := []byte(a)
		if b[i] == 'f' {
			b[i] = 'e'
		} else {
			b[i] = 'f'
		}
		assert.False(t, ConstantTimeHexEqual(a, string(b)), "differs at %d", i)
	}

	assert.False(t, ConstantTimeHexEqual(a, a[:63]))
	assert.False(t, ConstantTimeHexEqual(a+"0", a))
}

func TestFixedHex(t *testing.T) {
	short := hexInt(t, "f8d1bd4ebcb95f407da16ce4e68cc842d9f0ba120c35d79af296c38c8bf8dfd")
	got := fixedHex(short, 32)
	assert.Len(t, got, 64)
	assert.Equal(t, "0f8d1bd4ebcb95f407da16ce4e68cc842d9f0ba120c35d79af296c38c8bf8dfd", got)

	assert.Equal(t, strings.Repeat("0", 63)+"1", fixedHex(big.NewInt(1), 32))
}
