// Package config loads seedsig settings from defaults, an optional YAML
// file, SEEDSIG_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mahdiidarabi/seedsig/internal/curve"
	"github.com/mahdiidarabi/seedsig/internal/logging"
	"github.com/mahdiidarabi/seedsig/pkg/seedsig"
)

// EnvPrefix is prepended to every environment variable; nested keys use
// underscores, so log.level is read from SEEDSIG_LOG_LEVEL.
const EnvPrefix = "SEEDSIG"

// Config holds every seedsig setting. Keys follow the mapstructure tags;
// nested sections are dotted, as in log.level.
type Config struct {
	Curve      string         `mapstructure:"curve"`
	Hash       string         `mapstructure:"hash"`
	Multiplier string         `mapstructure:"multiplier"`
	Output     string         `mapstructure:"output"`
	Provider   ProviderConfig `mapstructure:"provider"`
	Log        LogConfig      `mapstructure:"log"`
	Batch      BatchConfig    `mapstructure:"batch"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
}

// ProviderConfig configures the hash and randomness provider.
type ProviderConfig struct {
	// Timeout bounds each hash or random call. Zero disables the bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig selects the log encoder (console, json or logfmt) and level.
type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

// BatchConfig configures batch verification.
type BatchConfig struct {
	// Workers is the verification pool size; zero means one per CPU.
	Workers int `mapstructure:"workers"`
}

// MetricsConfig configures metrics output.
type MetricsConfig struct {
	// Textfile, if set, receives the Prometheus text exposition when the
	// command exits.
	Textfile string `mapstructure:"textfile"`
}

var defaults = map[string]interface{}{
	"curve":            curve.NameP256,
	"hash":             seedsig.SHA2,
	"multiplier":       curve.DoubleAndAdd.String(),
	"output":           string(seedsig.FormatText),
	"provider.timeout": "0s",
	"log.format":       logging.CONSOLE,
	"log.level":        "info",
	"batch.workers":    0,
	"metrics.textfile": "",
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"curve":            "curve",
	"hash":             "hash",
	"multiplier":       "multiplier",
	"output":           "output",
	"provider-timeout": "provider.timeout",
	"log-format":       "log.format",
	"log-level":        "log.level",
	"workers":          "batch.workers",
	"metrics-textfile": "metrics.textfile",
}

// New returns a viper instance with defaults and environment lookup set
// up.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every known flag present in flags to its key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag [%s]", name)
		}
	}
	return nil
}

// Load reads file, if given, and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file [%s]", file)
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate rejects settings no component understands.
func (c *Config) Validate() error {
	if _, err := curve.ParamsByName(c.Curve); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	if _, err := curve.ParseMultiplier(c.Multiplier); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	if _, err := seedsig.NewSoftwareProvider(c.Hash); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	if _, err := seedsig.ParseFormat(c.Output); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.CONSOLE, logging.JSON, logging.LOGFMT:
	default:
		return errors.Errorf("invalid configuration: log format not supported [%s]", c.Log.Format)
	}
	if c.Provider.Timeout < 0 {
		return errors.Errorf("invalid configuration: provider.timeout must not be negative, got %s", c.Provider.Timeout)
	}
	if c.Batch.Workers < 0 {
		return errors.Errorf("invalid configuration: batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}
