package seedsig

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

func TestAuditNonceReuse(t *testing.T) {
	s := newTestScheme(t)
	findings, err := s.AuditNonceReuse(context.Background(), loadFixtures(t))
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, [2]int{3, 4}, f.Indices)
	assert.Equal(t, PublicKeyHex{X: testQx, Y: testQy}, f.PublicKey)
	assert.Equal(t, "697d7b8eef74dd5796e02ed6480487a8d99a62d16022815be5be81bd7e9dbdba", f.R)
	assert.True(t, f.Confirmed)
	assert.Equal(t, testD, f.PrivateKey)
}

func TestAuditNonceReuseIgnoresDuplicates(t *testing.T) {
	records := loadFixtures(t)
	dup := []Record{records[0], records[0], records[1]}

	findings, err := newTestScheme(t).AuditNonceReuse(context.Background(), dup)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAuditNonceReuseSkipsMalformed(t *testing.T) {
	records := loadFixtures(t)
	records[4].X = "not hex"

	findings, err := newTestScheme(t).AuditNonceReuse(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRecoverFromNonceReuse(t *testing.T) {
	k := hexInt(t, "deadbeefcafe")
	s := schemeWithNonces(t, k, k)
	priv, _ := testKeyPair(t, s)
	ctx := context.Background()

	m1 := []byte("first")
	m2 := []byte("second")
	sig1, err := s.Sign(ctx, priv, m1)
	require.NoError(t, err)
	sig2, err := s.Sign(ctx, priv, m2)
	require.NoError(t, err)
	require.Equal(t, 0, sig1.R().Cmp(sig2.R()))

	got, err := s.RecoverFromNonceReuse(ctx, SignedMessage{m1, sig1}, SignedMessage{m2, sig2})
	require.NoError(t, err)
	assert.Equal(t, testD, got.D().Text(16))
}

func TestRecoverFromNonceReuseRequiresSharedR(t *testing.T) {
	s := newTestScheme(t)
	_, err := s.RecoverFromNonceReuse(context.Background(),
		SignedMessage{[]byte("a"), NewSignature(big.NewInt(1), big.NewInt(2))},
		SignedMessage{[]byte("b"), NewSignature(big.NewInt(3), big.NewInt(2))},
	)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.RecoverFromNonceReuse(context.Background(), SignedMessage{Message: []byte("a")}, SignedMessage{Message: []byte("b")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecoverFromNonceReuseEqualS(t *testing.T) {
	s := newTestScheme(t)
	sig := NewSignature(big.NewInt(5), big.NewInt(7))
	_, err := s.RecoverFromNonceReuse(context.Background(), SignedMessage{[]byte("a"), sig}, SignedMessage{[]byte("b"), sig})
	assert.ErrorIs(t, err, ErrModularInverseUndefined)
}

func TestRecoverFromRelatedNonces(t *testing.T) {
	n := newTestScheme(t).Curve().Params().N()
	a := big.NewInt(3)
	b := big.NewInt(5)
	k1 := hexInt(t, "1234567890abcdef1234567890abcdef")
	k2 := field.Add(field.Mul(a, k1, n), b, n)

	s := schemeWithNonces(t, k1, k2)
	priv, _ := testKeyPair(t, s)
	ctx := context.Background()

	m1 := SignedMessage{Message: []byte("counter 1")}
	m2 := SignedMessage{Message: []byte("counter 2")}
	var err error
	m1.Signature, err = s.Sign(ctx, priv, m1.Message)
	require.NoError(t, err)
	m2.Signature, err = s.Sign(ctx, priv, m2.Message)
	require.NoError(t, err)

	got, err := s.RecoverFromRelatedNonces(ctx, m1, m2, a, b)
	require.NoError(t, err)
	assert.Equal(t, 0, priv.D().Cmp(got.D()))

	wrong, err := s.RecoverFromRelatedNonces(ctx, m1, m2, a, big.NewInt(6))
	if err == nil {
		assert.NotEqual(t, 0, priv.D().Cmp(wrong.D()))
	}
}
