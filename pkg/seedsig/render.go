package seedsig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Format selects how Render writes a result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name; empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("output format not supported [%s]", s)
}

// Result is anything Render can write.
type Result interface {
	writeText(w io.Writer)
}

// KeyPairResult is the outcome of key derivation.
type KeyPairResult struct {
	Curve      string       `json:"curve" yaml:"curve"`
	PrivateKey string       `json:"private_key" yaml:"private_key"`
	PublicKey  PublicKeyHex `json:"public_key" yaml:"public_key"`
}

func (r *KeyPairResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "curve:\t%s\n", r.Curve)
	fmt.Fprintf(w, "private key:\t%s\n", r.PrivateKey)
	fmt.Fprintf(w, "public key x:\t%s\n", r.PublicKey.X)
	fmt.Fprintf(w, "public key y:\t%s\n", r.PublicKey.Y)
}

// SignatureResult is the outcome of signing.
type SignatureResult struct {
	Curve     string       `json:"curve" yaml:"curve"`
	Message   string       `json:"message" yaml:"message"`
	Signature SignatureHex `json:"signature" yaml:"signature"`
}

func (r *SignatureResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "curve:\t%s\n", r.Curve)
	fmt.Fprintf(w, "message:\t%q\n", r.Message)
	fmt.Fprintf(w, "r:\t%s\n", r.Signature.R)
	fmt.Fprintf(w, "s:\t%s\n", r.Signature.S)
}

// VerifyResult is the outcome of verifying one signature.
type VerifyResult struct {
	Curve     string       `json:"curve" yaml:"curve"`
	Message   string       `json:"message" yaml:"message"`
	PublicKey PublicKeyHex `json:"public_key" yaml:"public_key"`
	Signature SignatureHex `json:"signature" yaml:"signature"`
	Valid     bool         `json:"valid" yaml:"valid"`
}

func (r *VerifyResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "curve:\t%s\n", r.Curve)
	fmt.Fprintf(w, "message:\t%q\n", r.Message)
	fmt.Fprintf(w, "public key x:\t%s\n", r.PublicKey.X)
	fmt.Fprintf(w, "public key y:\t%s\n", r.PublicKey.Y)
	fmt.Fprintf(w, "r:\t%s\n", r.Signature.R)
	fmt.Fprintf(w, "s:\t%s\n", r.Signature.S)
	fmt.Fprintf(w, "result:\t%s\n", verdict(r.Valid))
}

// RecordResult is the per-record line of a BatchReport.
type RecordResult struct {
	Index   int    `json:"index" yaml:"index"`
	Message string `json:"message" yaml:"message"`
	Valid   bool   `json:"valid" yaml:"valid"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchReport summarizes a batch verification and, if requested, the
// nonce-reuse audit of the same records.
type BatchReport struct {
	Curve    string              `json:"curve" yaml:"curve"`
	Total    int                 `json:"total" yaml:"total"`
	Valid    int                 `json:"valid" yaml:"valid"`
	Invalid  int                 `json:"invalid" yaml:"invalid"`
	Failed   int                 `json:"failed" yaml:"failed"`
	Results  []RecordResult      `json:"results" yaml:"results"`
	Findings []NonceReuseFinding `json:"nonce_reuse,omitempty" yaml:"nonce_reuse,omitempty"`
}

// NewBatchReport tallies results.
func NewBatchReport(curveName string, results []BatchResult) *BatchReport {
	rep := &BatchReport{Curve: curveName, Total: len(results), Results: make([]RecordResult, 0, len(results))}
	for _, res := range results {
		rr := RecordResult{Index: res.Index, Message: res.Record.Message, Valid: res.Valid}
		switch {
		case res.Err != nil:
			rr.Error = res.Err.Error()
			rep.Failed++
		case res.Valid:
			rep.Valid++
		default:
			rep.Invalid++
		}
		rep.Results = append(rep.Results, rr)
	}
	return rep
}

func (r *BatchReport) writeText(w io.Writer) {
	fmt.Fprintf(w, "curve:\t%s\n", r.Curve)
	fmt.Fprintf(w, "total:\t%d\n", r.Total)
	fmt.Fprintf(w, "valid:\t%d\n", r.Valid)
	fmt.Fprintf(w, "invalid:\t%d\n", r.Invalid)
	fmt.Fprintf(w, "failed:\t%d\n", r.Failed)
	for _, res := range r.Results {
		line := verdict(res.Valid)
		if res.Error != "" {
			line = "ERROR " + res.Error
		}
		fmt.Fprintf(w, "[%d] %q:\t%s\n", res.Index, res.Message, line)
	}
	for _, f := range r.Findings {
		status := "suspected"
		if f.Confirmed {
			status = "confirmed, private key " + f.PrivateKey
		}
		fmt.Fprintf(w, "nonce reuse [%d,%d]:\tr=%s %s\n", f.Indices[0], f.Indices[1], f.R, status)
	}
}

func verdict(valid bool) string {
	if valid {
		return "VALID"
	}
	return "INVALID"
}

// Render writes result to w in the given format.
func Render(w io.Writer, format Format, result Result) error {
	switch format {
	case FormatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		result.writeText(tw)
		return tw.Flush()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		out, err := yaml.Marshal(result)
		if err != nil {
			return errors.Wrap(err, "failed to marshal yaml")
		}
		_, err = w.Write(out)
		return err
	}
	return errors.Errorf("output format not supported [%s]", format)
}
