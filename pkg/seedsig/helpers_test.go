package seedsig

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/seedsig/internal/curve"
)

const (
	testSeed = "test-seed"
	testSalt = "test-salt"

	testD  = "38fa3099af4dc5ed9cbd3b86780f0fe9c95cd5c03fe3dd7d771e5f5f316944a7"
	testQx = "2382580c57af39bf2ec423b0a5e83c3fab3b551a1722d7e8600bb9f593eec34c"
	testQy = "3c121c545e64d095979609e39236c350c2cc274c0cc4b65b4ab21a1c3c1b6078"
)

func hexInt(t testing.TB, s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, "bad hex %q", s)
	return v
}

func newTestScheme(t testing.TB) *Scheme {
	p, err := NewSoftwareProvider(SHA2)
	require.NoError(t, err)
	return NewScheme(curve.New(curve.P256()), p)
}

// schemeWithNonces returns a scheme whose random source yields the given
// ephemeral scalars, in order, to successive signing attempts.
func schemeWithNonces(t testing.TB, ks ...*big.Int) *Scheme {
	p, err := NewSoftwareProvider(SHA2)
	require.NoError(t, err)
	return NewScheme(curve.New(curve.P256()), p.WithRandom(bytes.NewReader(nonceBytes(ks...))))
}

// nonceBytes encodes k-1 in 40 bytes for each k, which newEphemeral maps
// back to k.
func nonceBytes(ks ...*big.Int) []byte {
	var out []byte
	for _, k := range ks {
		c := new(big.Int).Sub(k, big.NewInt(1))
		out = append(out, c.FillBytes(make([]byte, 40))...)
	}
	return out
}

func testKeyPair(t testing.TB, s *Scheme) (*PrivateKey, *PublicKey) {
	priv, pub, err := s.DeriveKeyPair(context.Background(), []byte(testSeed), []byte(testSalt))
	require.NoError(t, err)
	return priv, pub
}

// scriptedProvider returns canned digests and records every input.
type scriptedProvider struct {
	mu      sync.Mutex
	digests [][]byte
	inputs  [][]byte
	err     error
}

func (p *scriptedProvider) Digest(_ context.Context, msg []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, append([]byte(nil), msg...))
	if p.err != nil {
		return nil, p.err
	}
	d := p.digests[0]
	if len(p.digests) > 1 {
		p.digests = p.digests[1:]
	}
	return append([]byte(nil), d...), nil
}

func (p *scriptedProvider) RandomBytes(_ context.Context, n int) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return make([]byte, n), nil
}

// slowProvider blocks every call until ctx is done or delay has passed.
type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Digest(ctx context.Context, msg []byte) ([]byte, error) {
	select {
	case <-time.After(p.delay):
		return make([]byte, 32), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *slowProvider) RandomBytes(ctx context.Context, n int) ([]byte, error) {
	select {
	case <-time.After(p.delay):
		return make([]byte, n), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var errBroken = errors.New("hardware token unplugged")
