package seedsig

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// CryptoProvider supplies the two primitives the core consumes: a
// cryptographic hash and a cryptographically secure random source. Both
// may block; implementations should honor ctx.
type CryptoProvider interface {
	// Digest hashes msg.
	Digest(ctx context.Context, msg []byte) ([]byte, error)

	// RandomBytes returns n uniformly random bytes.
	RandomBytes(ctx context.Context, n int) ([]byte, error)
}

// Hash families understood by NewSoftwareProvider.
const (
	SHA2 = "SHA2"
	SHA3 = "SHA3"
)

// SoftwareProvider implements CryptoProvider with the Go standard hashes
// (or golang.org/x/crypto/sha3) and crypto/rand.
type SoftwareProvider struct {
	family  string
	newHash func() hash.Hash
	rand    io.Reader
}

// NewSoftwareProvider returns a provider for the given hash family. SHA2
// selects SHA-256 and SHA3 selects SHA3-256; both produce 32-byte digests.
func NewSoftwareProvider(family string) (*SoftwareProvider, error) {
	p := &SoftwareProvider{rand: rand.Reader}
	switch strings.ToUpper(family) {
	case "", SHA2, "SHA-256", "SHA256":
		p.family, p.newHash = SHA2, sha256.New
	case SHA3, "SHA3-256", "SHA3_256":
		p.family, p.newHash = SHA3, sha3.New256
	default:
		return nil, fmt.Errorf("hash family not supported [%s]", family)
	}
	return p, nil
}

// WithRandom replaces the random source. It exists for tests and for
// callers that bring their own DRBG.
func (p *SoftwareProvider) WithRandom(r io.Reader) *SoftwareProvider {
	p.rand = r
	return p
}

// Family returns the hash family name.
func (p *SoftwareProvider) Family() string { return p.family }

// Digest hashes msg with the configured family.
func (p *SoftwareProvider) Digest(ctx context.Context, msg []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := p.newHash()
	h.Write(msg)
	return h.Sum(nil), nil
}

// RandomBytes reads n bytes from the random source. A short read is an
// error.
func (p *SoftwareProvider) RandomBytes(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.rand, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// TimeoutProvider bounds every call to the wrapped provider. A zero
// Timeout disables the bound.
type TimeoutProvider struct {
	Provider CryptoProvider
	Timeout  time.Duration
}

// Digest calls the wrapped provider under the timeout.
func (p *TimeoutProvider) Digest(ctx context.Context, msg []byte) ([]byte, error) {
	return p.do(ctx, func(ctx context.Context) ([]byte, error) {
		return p.Provider.Digest(ctx, msg)
	})
}

// RandomBytes calls the wrapped provider under the timeout.
func (p *TimeoutProvider) RandomBytes(ctx context.Context, n int) ([]byte, error) {
	return p.do(ctx, func(ctx context.Context) ([]byte, error) {
		return p.Provider.RandomBytes(ctx, n)
	})
}

func (p *TimeoutProvider) do(ctx context.Context, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	if p.Timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	type result struct {
		b   []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		b, err := fn(ctx)
		done <- result{b, err}
	}()

	select {
	case r := <-done:
		return r.b, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
