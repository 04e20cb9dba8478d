package cli

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/seedsig/pkg/seedsig"
)

func deriveCmd(e *env) *cobra.Command {
	var seed, salt string
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a key pair from a seed and a salt.",
		Long: `Derive a key pair deterministically. The same seed, salt, curve and hash
always produce the same keys. The private key is printed; treat the output
accordingly.`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command) (seedsig.Result, error) {
			kp, err := e.client.DeriveKeyPair(cmd.Context(), seed, salt)
			if err != nil {
				return nil, err
			}
			return kp, nil
		}),
	}
	cmd.Flags().StringVar(&seed, "seed", "", "Seed string (required)")
	cmd.Flags().StringVar(&salt, "salt", "", "Salt string (required)")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.MarkFlagRequired("salt")
	return cmd
}

func signCmd(e *env) *cobra.Command {
	var key, message string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with a hex private key.",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command) (seedsig.Result, error) {
			sig, err := e.client.Sign(cmd.Context(), key, message)
			if err != nil {
				return nil, err
			}
			return sig, nil
		}),
	}
	cmd.Flags().StringVar(&key, "key", "", "Private key in hex (required)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func verifyCmd(e *env) *cobra.Command {
	var pub seedsig.PublicKeyHex
	var sig seedsig.SignatureHex
	var message string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature against a public key.",
		Long: `Verify a signature. The verdict is printed in every case; the command
exits non-zero when the signature does not verify.`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command) (seedsig.Result, error) {
			res, err := e.client.Verify(cmd.Context(), pub, message, sig)
			if err != nil {
				return nil, err
			}
			if !res.Valid {
				return res, ErrVerificationFailed
			}
			return res, nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&pub.X, "x", "", "Public key x-coordinate in hex (required)")
	flags.StringVar(&pub.Y, "y", "", "Public key y-coordinate in hex (required)")
	flags.StringVar(&sig.R, "r", "", "Signature r in hex (required)")
	flags.StringVar(&sig.S, "s", "", "Signature s in hex (required)")
	flags.StringVarP(&message, "message", "m", "", "Signed message (required)")
	for _, name := range []string{"x", "y", "r", "s", "message"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func batchVerifyCmd(e *env) *cobra.Command {
	var file, format string
	var audit bool
	cmd := &cobra.Command{
		Use:   "batch-verify",
		Short: "Verify every record of a JSON or CSV file.",
		Long: `Verify a file of records with the fields message, r, s, x and y. With
--audit, records signed by one key that share r are reported: the
ephemeral scalar was reused and the private key can be recovered.`,
		Args: cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command) (seedsig.Result, error) {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
			}
			parser, err := seedsig.ParserForFormat(format)
			if err != nil {
				return nil, err
			}
			report, err := e.client.VerifyFile(cmd.Context(), parser, file, audit)
			if err != nil {
				return nil, err
			}
			if report.Valid != report.Total || len(report.Findings) > 0 {
				return report, errors.WithMessagef(ErrVerificationFailed,
					"%d of %d records verified, %d nonce reuse findings", report.Valid, report.Total, len(report.Findings))
			}
			return report, nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "Record file (required)")
	flags.StringVar(&format, "format", "", "Record format: json or csv (default from the file extension)")
	flags.BoolVar(&audit, "audit", false, "Also look for reused ephemeral scalars")
	flags.Int("workers", 0, "Verification workers, 0 means one per CPU")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
