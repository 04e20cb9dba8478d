// Package cli implements the seedsig command line.
package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/seedsig/internal/config"
	"github.com/mahdiidarabi/seedsig/internal/logging"
	"github.com/mahdiidarabi/seedsig/internal/metrics/prometheus"
	"github.com/mahdiidarabi/seedsig/pkg/seedsig"
)

// ErrVerificationFailed is returned after rendering when a signature, or
// any record of a batch, did not verify.
var ErrVerificationFailed = errors.New("verification failed")

// env carries what every subcommand needs once flags are parsed.
type env struct {
	v       *viper.Viper
	cfgFile string

	conf    *config.Config
	logger  *zap.Logger
	metrics *prometheus.Provider
	client  *seedsig.Client
	format  seedsig.Format
}

// NewRootCommand builds the seedsig command tree.
func NewRootCommand() *cobra.Command {
	e := &env{v: config.New()}

	root := &cobra.Command{
		Use:               "seedsig",
		Short:             "Derive keys from seeds, sign and verify ECDSA signatures.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "Path to a YAML configuration file")
	flags.String("curve", "P-256", "Curve: P-256 or secp256k1")
	flags.String("hash", seedsig.SHA2, "Hash family: SHA2 or SHA3")
	flags.String("multiplier", "double-and-add", "Scalar multiplication: double-and-add or ladder")
	flags.StringP("output", "o", string(seedsig.FormatText), "Output format: text, json or yaml")
	flags.Duration("provider-timeout", 0, "Bound on each hash or random call, 0 disables")
	flags.String("log-format", logging.CONSOLE, "Log format: console, json or logfmt")
	flags.String("log-level", "info", "Log level")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(
		deriveCmd(e),
		signCmd(e),
		verifyCmd(e),
		batchVerifyCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(e.v, cmd.Flags()); err != nil {
		return err
	}
	conf, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return err
	}
	e.conf = conf

	e.logger, err = logging.New(logging.Config{
		Format: conf.Log.Format,
		Level:  conf.Log.Level,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	e.logger = e.logger.Named("seedsig").With(zap.String("command", cmd.Name()))

	if e.format, err = seedsig.ParseFormat(conf.Output); err != nil {
		return err
	}

	c, err := seedsig.NewCurve(conf.Curve, conf.Multiplier)
	if err != nil {
		return err
	}
	sp, err := seedsig.NewSoftwareProvider(conf.Hash)
	if err != nil {
		return err
	}
	var provider seedsig.CryptoProvider = sp
	if conf.Provider.Timeout > 0 {
		provider = &seedsig.TimeoutProvider{Provider: sp, Timeout: conf.Provider.Timeout}
	}

	e.metrics = prometheus.NewProvider()
	e.client = seedsig.NewClient().
		WithCurve(c).
		WithProvider(provider).
		WithLogger(e.logger).
		WithMetrics(e.metrics).
		WithWorkers(conf.Batch.Workers)

	e.logger.Debug("configured",
		zap.String("curve", c.Params().Name()),
		zap.String("hash", sp.Family()),
		zap.Stringer("multiplier", c.Multiplier()),
		zap.Duration("provider_timeout", conf.Provider.Timeout),
	)
	return nil
}

// run adapts an operation to cobra: it renders the result, then writes
// metrics whether or not the operation succeeded.
func (e *env) run(op func(cmd *cobra.Command) (seedsig.Result, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		defer e.logger.Sync() //nolint:errcheck

		result, err := op(cmd)
		if result != nil {
			if rerr := seedsig.Render(cmd.OutOrStdout(), e.format, result); rerr != nil && err == nil {
				err = rerr
			}
		}
		if mErr := e.writeMetrics(); mErr != nil {
			e.logger.Error("failed to write metrics", zap.Error(mErr))
			if err == nil {
				err = mErr
			}
		}
		return err
	}
}

func (e *env) writeMetrics() error {
	if e.conf.Metrics.Textfile == "" {
		return nil
	}
	return errors.Wrapf(e.metrics.WriteToTextfile(e.conf.Metrics.Textfile), "failed to write metrics to [%s]", e.conf.Metrics.Textfile)
}
