package seedsig

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/seedsig/internal/curve"
	"github.com/mahdiidarabi/seedsig/internal/field"
	"github.com/mahdiidarabi/seedsig/internal/metrics"
	"github.com/mahdiidarabi/seedsig/internal/metrics/disabled"
)

var (
	operationsOpts = metrics.CounterOpts{
		Namespace:  "seedsig",
		Name:       "operations_total",
		Help:       "The number of signature operations, by outcome.",
		LabelNames: []string{"operation", "result"},
	}
	durationOpts = metrics.HistogramOpts{
		Namespace:  "seedsig",
		Name:       "operation_duration_seconds",
		Help:       "The time taken by signature operations.",
		LabelNames: []string{"operation"},
	}
)

// Outcome labels for the operations counter.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultInvalid = "invalid"
)

// Client provides the hex-string API over a Scheme: derive, sign, verify
// and batch verification. It logs through zap and records metrics.
type Client struct {
	scheme   *Scheme
	workers  int
	logger   *zap.Logger
	ops      metrics.Counter
	duration metrics.Histogram
}

// NewClient creates a client for P-256 with SHA-256, no logging and no
// metrics.
func NewClient() *Client {
	provider, _ := NewSoftwareProvider(SHA2)
	c := &Client{
		scheme: NewScheme(curve.New(curve.P256()), provider),
		logger: zap.NewNop(),
	}
	return c.WithMetrics(&disabled.Provider{})
}

// WithCurve sets the curve.
func (c *Client) WithCurve(cv *curve.Curve) *Client {
	c.scheme = NewScheme(cv, c.scheme.provider)
	return c
}

// WithProvider sets the hash and randomness provider.
func (c *Client) WithProvider(p CryptoProvider) *Client {
	c.scheme = NewScheme(c.scheme.curve, p)
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	c.logger = l
	return c
}

// WithMetrics creates the client's meters from p.
func (c *Client) WithMetrics(p metrics.Provider) *Client {
	c.ops = p.NewCounter(operationsOpts)
	c.duration = p.NewHistogram(durationOpts)
	return c
}

// WithWorkers sets the batch verification pool size; 0 means NumCPU.
func (c *Client) WithWorkers(n int) *Client {
	c.workers = n
	return c
}

// Scheme returns the underlying scheme.
func (c *Client) Scheme() *Scheme { return c.scheme }

func (c *Client) curveName() string { return c.scheme.curve.Params().Name() }

func (c *Client) observe(op string, start time.Time, result string) {
	c.ops.With(op, result).Add(1)
	c.duration.With(op).Observe(time.Since(start).Seconds())
}

// DeriveKeyPair derives a key pair from seed and salt and returns it hex
// encoded.
func (c *Client) DeriveKeyPair(ctx context.Context, seed, salt string) (*KeyPairResult, error) {
	start := time.Now()
	priv, pub, err := c.scheme.DeriveKeyPair(ctx, []byte(seed), []byte(salt))
	if err != nil {
		c.observe("derive", start, resultFailure)
		c.logger.Warn("key derivation failed", zap.Error(err))
		return nil, err
	}
	defer priv.Zero()

	c.observe("derive", start, resultSuccess)
	c.logger.Debug("derived key pair", zap.String("curve", c.curveName()), zap.String("x", shortHex(pub.point.X.Text(16))))
	return &KeyPairResult{
		Curve:      c.curveName(),
		PrivateKey: EncodeInt(priv.d),
		PublicKey:  pub.Hex(),
	}, nil
}

// Sign signs message with the hex private key.
func (c *Client) Sign(ctx context.Context, privateKeyHex, message string) (*SignatureResult, error) {
	start := time.Now()
	sig, err := c.sign(ctx, privateKeyHex, message)
	if err != nil {
		c.observe("sign", start, resultFailure)
		c.logger.Warn("signing failed", zap.Error(err))
		return nil, err
	}
	c.observe("sign", start, resultSuccess)
	c.logger.Debug("signed message", zap.String("curve", c.curveName()), zap.Int("message_len", len(message)))
	return &SignatureResult{Curve: c.curveName(), Message: message, Signature: sig.Hex()}, nil
}

func (c *Client) sign(ctx context.Context, privateKeyHex, message string) (*Signature, error) {
	priv, err := ParsePrivateKeyHex(c.scheme.curve.Params(), privateKeyHex)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return c.scheme.Sign(ctx, priv, []byte(message))
}

// Verify checks a hex signature over message against a hex public key.
func (c *Client) Verify(ctx context.Context, pub PublicKeyHex, message string, sig SignatureHex) (*VerifyResult, error) {
	start := time.Now()
	valid, err := c.verify(ctx, pub, message, sig)
	switch {
	case err != nil:
		c.observe("verify", start, resultFailure)
		c.logger.Warn("verification failed", zap.Error(err))
		return nil, err
	case !valid:
		c.observe("verify", start, resultInvalid)
	default:
		c.observe("verify", start, resultSuccess)
	}
	c.logger.Debug("verified signature", zap.String("x", shortHex(pub.X)), zap.Bool("valid", valid))
	return &VerifyResult{
		Curve:     c.curveName(),
		Message:   message,
		PublicKey: pub,
		Signature: sig,
		Valid:     valid,
	}, nil
}

// verify decodes its inputs in the order Scheme.Verify checks them: a
// signature out of range is reported before anything about the key.
func (c *Client) verify(ctx context.Context, pubHex PublicKeyHex, message string, sigHex SignatureHex) (bool, error) {
	sig, err := ParseSignatureHex(sigHex)
	if err != nil {
		return false, err
	}
	n := c.scheme.curve.Params().N()
	if !field.InRange(sig.r, n) || !field.InRange(sig.s, n) {
		return false, errors.WithMessage(ErrInvalidSignatureRange, "r and s must be in [1, n-1]")
	}
	pub, err := ParsePublicKeyHex(c.scheme.curve, pubHex)
	if err != nil {
		return false, err
	}
	return c.scheme.Verify(ctx, pub, []byte(message), sig)
}

// VerifyBatch verifies records concurrently. With audit set it also looks
// for reused ephemeral scalars among them.
func (c *Client) VerifyBatch(ctx context.Context, records []Record, audit bool) (*BatchReport, error) {
	start := time.Now()
	bv := NewBatchVerifier(c.scheme, c.workers)
	results, err := bv.Verify(ctx, records)
	if err != nil {
		c.observe("batch_verify", start, resultFailure)
		return nil, errors.WithMessage(err, "batch verification aborted")
	}
	report := NewBatchReport(c.curveName(), results)
	c.observe("batch_verify", start, resultSuccess)
	c.logger.Info("verified batch",
		zap.Int("records", report.Total),
		zap.Int("valid", report.Valid),
		zap.Int("invalid", report.Invalid),
		zap.Int("failed", report.Failed),
		zap.Int("workers", bv.Workers()),
	)

	if audit {
		start = time.Now()
		findings, err := c.scheme.AuditNonceReuse(ctx, records)
		if err != nil {
			c.observe("audit", start, resultFailure)
			return nil, errors.WithMessage(err, "nonce reuse audit aborted")
		}
		result := resultSuccess
		if len(findings) > 0 {
			result = resultInvalid
		}
		c.observe("audit", start, result)
		for _, f := range findings {
			c.logger.Warn("ephemeral scalar reused",
				zap.Ints("records", f.Indices[:]),
				zap.String("x", shortHex(f.PublicKey.X)),
				zap.Bool("confirmed", f.Confirmed),
			)
		}
		report.Findings = findings
	}
	return report, nil
}

// VerifyFile parses source with parser and verifies the records.
func (c *Client) VerifyFile(ctx context.Context, parser RecordParser, source string, audit bool) (*BatchReport, error) {
	records, err := parser.ParseRecords(source)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse records")
	}
	return c.VerifyBatch(ctx, records, audit)
}

func shortHex(s string) string {
	if len(s) > 16 {
		return s[:16]
	}
	return s
}
