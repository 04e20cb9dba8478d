package seedsig

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/seedsig/internal/field"
)

// Errors returned by the signature core. They are wrapped with context, so
// test for them with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidPrivateKey     = errors.New("invalid private key")
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrInvalidSignatureRange = errors.New("signature component out of range")
	ErrInvalidEncoding       = errors.New("invalid hex encoding")
	ErrProvider              = errors.New("crypto provider failure")
	ErrDerivationExhausted   = errors.New("key derivation found no scalar in range")
	ErrSigningExhausted      = errors.New("signing produced only degenerate signatures")

	// ErrModularInverseUndefined is reported when a field or scalar element
	// has no inverse. It only arises from a zero denominator.
	ErrModularInverseUndefined = field.ErrNotInvertible
)

// ProviderError reports a failing CryptoProvider call. It matches
// ErrProvider and unwraps to the provider's own error, so callers can also
// test for context.DeadlineExceeded and friends.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("crypto provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProvider) succeed.
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
