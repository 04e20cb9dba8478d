package seedsig

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of verifying one record. Err is set when the
// record could not be checked at all, for example because r is out of
// range or the public key is not on the curve; Valid is false then.
type BatchResult struct {
	Index  int
	Record Record
	Valid  bool
	Err    error
}

// BatchVerifier verifies records concurrently on a bounded pool of
// workers.
type BatchVerifier struct {
	scheme  *Scheme
	workers int
}

// NewBatchVerifier returns a verifier using scheme. workers <= 0 selects
// runtime.NumCPU().
func NewBatchVerifier(scheme *Scheme, workers int) *BatchVerifier {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchVerifier{scheme: scheme, workers: workers}
}

// Workers returns the size of the worker pool.
func (b *BatchVerifier) Workers() int { return b.workers }

// Verify checks every record and returns the results in input order.
// Malformed records are reported in their BatchResult; only cancellation
// of ctx aborts the batch.
func (b *BatchVerifier) Verify(ctx context.Context, records []Record) ([]BatchResult, error) {
	results := make([]BatchResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.verifyRecord(gctx, i, records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *BatchVerifier) verifyRecord(ctx context.Context, i int, rec Record) BatchResult {
	res := BatchResult{Index: i, Record: rec}

	pub, err := ParsePublicKeyHex(b.scheme.curve, rec.PublicKey())
	if err != nil {
		res.Err = err
		return res
	}
	sig, err := ParseSignatureHex(rec.Signature())
	if err != nil {
		res.Err = err
		return res
	}
	res.Valid, res.Err = b.scheme.Verify(ctx, pub, []byte(rec.Message), sig)
	return res
}

// CountValid returns how many results verified.
func CountValid(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Valid {
			n++
		}
	}
	return n
}
