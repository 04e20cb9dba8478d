// Package logging builds the zap loggers used by the seedsig command and
// library.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encodings.
const (
	CONSOLE = "console"
	JSON    = "json"
	LOGFMT  = "logfmt"
)

// Config is used to construct a logger.
type Config struct {
	// Format is one of console, json or logfmt. Empty means console.
	Format string

	// Level is a zap level name such as debug, info or warn. Empty means
	// info.
	Level string

	// Writer is the sink for encoded log records. If nil, os.Stderr is
	// used.
	Writer io.Writer
}

// New creates a logger from conf.
func New(conf Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(conf.Level))); err != nil {
			return nil, errors.Wrapf(err, "invalid log level [%s]", conf.Level)
		}
	}

	encoder, err := newEncoder(conf.Format)
	if err != nil {
		return nil, err
	}

	w := conf.Writer
	if w == nil {
		w = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return NewZapLogger(core), nil
}

// NewZapLogger wraps core with caller annotation and error stack traces.
func NewZapLogger(core zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(
		core,
		append([]zap.Option{
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		}, options...)...,
	)
}

func newEncoder(format string) (zapcore.Encoder, error) {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	switch strings.ToLower(format) {
	case "", CONSOLE:
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	case JSON:
		return zapcore.NewJSONEncoder(cfg), nil
	case LOGFMT:
		return zaplogfmt.NewEncoder(cfg), nil
	}
	return nil, errors.Errorf("log format not supported [%s]", format)
}
