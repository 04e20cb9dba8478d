package curve

import (
	"crypto/ecdh"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

func hexInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, "bad hex %q", s)
	return v
}

func affine(t *testing.T, x, y string) Affine {
	t.Helper()
	return Affine{X: hexInt(t, x), Y: hexInt(t, y)}
}

func TestP256Constants(t *testing.T) {
	params := P256()
	assert.Equal(t, "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", params.P().Text(16))
	assert.Equal(t, "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc", params.A().Text(16))
	assert.Equal(t, "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b", params.B().Text(16))
	assert.Equal(t, "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", params.N().Text(16))
	assert.Equal(t, 256, params.BitSize())
	assert.Equal(t, 32, params.ByteLen())
	assert.Same(t, params, P256())
}

func TestParamsAccessorsReturnCopies(t *testing.T) {
	params := P256()
	n := params.N()
	n.SetInt64(1)
	assert.NotEqual(t, int64(1), params.N().Int64())
}

func TestParamsByName(t *testing.T) {
	for _, name := range []string{"P-256", "p256", "secp256r1", "prime256v1"} {
		params, err := ParamsByName(name)
		require.NoError(t, err)
		assert.Same(t, P256(), params)
	}
	params, err := ParamsByName("SECP256K1")
	require.NoError(t, err)
	assert.Same(t, Secp256k1(), params)

	_, err = ParamsByName("ed25519")
	assert.EqualError(t, err, "curve not recognized [ed25519]")
}

func TestGeneratorIsValid(t *testing.T) {
	for _, params := range []*Params{P256(), Secp256k1()} {
		c := New(params)
		assert.True(t, c.Validate(c.Generator()), params.Name())
	}
}

func TestValidate(t *testing.T) {
	c := New(P256())
	g := c.Generator()

	assert.True(t, c.Validate(Infinity{}))
	assert.False(t, c.Validate(Affine{X: g.X, Y: new(big.Int).Add(g.Y, big.NewInt(1))}))
	assert.False(t, c.Validate(Affine{X: big.NewInt(0), Y: big.NewInt(0)}))
	assert.False(t, c.Validate(Affine{X: g.X}))
	assert.False(t, c.Validate(nil))

	// Same residue class but unreduced coordinate.
	assert.False(t, c.Validate(Affine{X: new(big.Int).Add(g.X, c.Params().P()), Y: g.Y}))
}

func TestGroupLaws(t *testing.T) {
	c := New(P256())
	g := c.Generator()

	sum, err := c.Add(Infinity{}, g)
	require.NoError(t, err)
	assert.True(t, Equal(sum, g))

	sum, err = c.Add(g, Infinity{})
	require.NoError(t, err)
	assert.True(t, Equal(sum, g))

	negY := new(big.Int).Sub(c.Params().P(), g.Y)
	sum, err = c.Add(g, Affine{X: g.X, Y: negY})
	require.NoError(t, err)
	assert.True(t, IsInfinity(sum))

	sum, err = c.Add(Infinity{}, Infinity{})
	require.NoError(t, err)
	assert.True(t, IsInfinity(sum))
}

func TestAddKnownMultiples(t *testing.T) {
	c := New(P256())
	g := c.Generator()
	g2 := affine(t,
		"7cf27b188d034f7e8a52380304b51ac3c08969e277f21b35a60b48fc47669978",
		"7775510db8ed040293d9ac69f7430dbba7dade63ce982299e04b79d227873d1")
	g3 := affine(t,
		"5ecbe4d1a6330a44c8f7ef951d4bf165e6c6b721efada985fb41661bc6e7fd6c",
		"8734640c4998ff7e374b06ce1a64a2ecd82ab036384fb83d9a79b127a27d5032")

	doubled, err := c.Double(g)
	require.NoError(t, err)
	assert.True(t, Equal(doubled, g2), "2G = %s", doubled)

	tripled, err := c.Add(doubled, g)
	require.NoError(t, err)
	assert.True(t, Equal(tripled, g3), "3G = %s", tripled)

	// Addition is commutative.
	other, err := c.Add(g, doubled)
	require.NoError(t, err)
	assert.True(t, Equal(other, tripled))
}

func TestAddOffCurveZeroDenominator(t *testing.T) {
	c := New(P256())
	// Same x, y1 != ±y2: never happens on the curve, forces inv(0).
	_, err := c.Add(Affine{X: big.NewInt(5), Y: big.NewInt(1)}, Affine{X: big.NewInt(5), Y: big.NewInt(2)})
	assert.ErrorIs(t, err, field.ErrNotInvertible)
}

func TestAddRejectsNilPoint(t *testing.T) {
	c := New(P256())
	_, err := c.Add(nil, c.Generator())
	assert.ErrorIs(t, err, ErrUnknownPoint)
	_, err = c.ScalarMult(big.NewInt(3), nil)
	assert.ErrorIs(t, err, ErrUnknownPoint)
}

func TestNeg(t *testing.T) {
	c := New(P256())
	g := c.Generator()
	neg := c.Neg(g)
	assert.True(t, c.Validate(neg))
	sum, err := c.Add(g, neg)
	require.NoError(t, err)
	assert.True(t, IsInfinity(sum))
	assert.True(t, IsInfinity(c.Neg(Infinity{})))

	broken := Affine{X: nil, Y: big.NewInt(1)}
	assert.NotPanics(t, func() { assert.Equal(t, broken, c.Neg(broken)) })
	assert.Nil(t, c.Neg(nil))
}

func TestScalarMultOrder(t *testing.T) {
	for _, m := range []Multiplier{DoubleAndAdd, Ladder} {
		c := New(P256()).WithMultiplier(m)
		g := c.Generator()

		zero, err := c.Mult(big.NewInt(0), g)
		require.NoError(t, err)
		assert.True(t, IsInfinity(zero), m.String())

		nG, err := c.Mult(c.Params().N(), g)
		require.NoError(t, err)
		assert.True(t, IsInfinity(nG), m.String())

		nMinus1 := new(big.Int).Sub(c.Params().N(), big.NewInt(1))
		last, err := c.Mult(nMinus1, g)
		require.NoError(t, err)
		assert.True(t, Equal(last, c.Neg(g)), m.String())

		one, err := c.Mult(big.NewInt(1), g)
		require.NoError(t, err)
		assert.True(t, Equal(one, g), m.String())

		inf, err := c.Mult(big.NewInt(12345), Infinity{})
		require.NoError(t, err)
		assert.True(t, IsInfinity(inf), m.String())
	}
}

func TestScalarMultNegative(t *testing.T) {
	c := New(P256())
	g := c.Generator()
	neg, err := c.ScalarMult(big.NewInt(-3), g)
	require.NoError(t, err)
	pos, err := c.ScalarMult(big.NewInt(3), g)
	require.NoError(t, err)
	assert.True(t, Equal(neg, c.Neg(pos)))

	ladder, err := c.ScalarMultLadder(big.NewInt(-3), g)
	require.NoError(t, err)
	assert.True(t, Equal(ladder, neg))
}

func TestScalarMultMatchesCryptoECDH(t *testing.T) {
	c := New(P256())
	for i := 0; i < 8; i++ {
		priv, err := ecdh.P256().GenerateKey(rand.Reader)
		require.NoError(t, err)
		k := new(big.Int).SetBytes(priv.Bytes())

		pub := priv.PublicKey().Bytes()
		require.Len(t, pub, 65)
		want := Affine{X: new(big.Int).SetBytes(pub[1:33]), Y: new(big.Int).SetBytes(pub[33:])}

		got, err := c.ScalarMult(k, c.Generator())
		require.NoError(t, err)
		assert.True(t, Equal(got, want))

		gotLadder, err := c.ScalarMultLadder(k, c.Generator())
		require.NoError(t, err)
		assert.True(t, Equal(gotLadder, want))
	}
}

func TestScalarMultMatchesDecredSecp256k1(t *testing.T) {
	c := New(Secp256k1())
	curve := secp256k1.S256()
	for i := 0; i < 8; i++ {
		k, err := rand.Int(rand.Reader, c.Params().N())
		require.NoError(t, err)

		x, y := curve.ScalarBaseMult(k.Bytes())
		got, err := c.BaseMult(k)
		require.NoError(t, err)
		if k.Sign() == 0 {
			assert.True(t, IsInfinity(got))
			continue
		}
		assert.True(t, Equal(got, Affine{X: x, Y: y}))
		assert.True(t, c.Validate(got))
	}
}

func TestScalarMultDistributes(t *testing.T) {
	c := New(P256())
	g := c.Generator()
	a, b := big.NewInt(987654321), big.NewInt(123456789)

	aG, err := c.ScalarMult(a, g)
	require.NoError(t, err)
	bG, err := c.ScalarMult(b, g)
	require.NoError(t, err)
	sum, err := c.Add(aG, bG)
	require.NoError(t, err)

	abG, err := c.ScalarMult(new(big.Int).Add(a, b), g)
	require.NoError(t, err)
	assert.True(t, Equal(sum, abG))
}

func TestParseMultiplier(t *testing.T) {
	m, err := ParseMultiplier("")
	require.NoError(t, err)
	assert.Equal(t, DoubleAndAdd, m)

	m, err = ParseMultiplier("Ladder")
	require.NoError(t, err)
	assert.Equal(t, Ladder, m)
	assert.Equal(t, "ladder", m.String())

	_, err = ParseMultiplier("wnaf")
	assert.EqualError(t, err, "scalar multiplier not supported [wnaf]")
}

func TestEqual(t *testing.T) {
	c := New(P256())
	g := c.Generator()
	assert.True(t, Equal(Infinity{}, Infinity{}))
	assert.False(t, Equal(Infinity{}, g))
	assert.False(t, Equal(g, Infinity{}))
	assert.True(t, Equal(g, NewAffine(g.X, g.Y)))
	assert.False(t, Equal(nil, g))
}
