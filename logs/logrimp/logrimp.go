// Package logrimp defines the logr implementations available to Program Viewer.
package logrimp

import (
	"fmt"

	"github.com/bombsimon/logrusr/v4"
	"github.com/evanphx/hclogr"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/zapr"
	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// NewHclogLogger returns a new HCLog logger.
func NewHclogLogger(logger hclog.Logger) logr.Logger {
	return hclogr.Wrap(logger)
}

// NewLogrusLogger returns a logrus logger.
func NewLogrusLogger(logger logrus.FieldLogger, opts ...logrusr.Option) logr.Logger {
	return logrusr.New(logger, opts...)
}

// NewNoopLogger returns a discarding logger.
func NewNoopLogger() logr.Logger {
	return logr.Discard()
}

// NewZapLogger returns a new zap logger
func NewZapLogger(logger *zap.Logger) logr.Logger {
	return zapr.NewLogger(logger)
}

// NewStdOutLogr returns a logger to standard out.
// `verbosity` is the highest V-level printed.
func NewStdOutLogr(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Printf("%s: %s\n", prefix, args)
		} else {
			fmt.Println(args)
		}
	}, funcr.Options{Verbosity: verbosity})
}

// NewDevelopmentLogger returns a human-readable zap logger at debug level, or the standard output logger if zap cannot be built.
func NewDevelopmentLogger(verbose bool) logr.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return NewStdOutLogr(1)
	}
	return NewZapLogger(zl)
}
