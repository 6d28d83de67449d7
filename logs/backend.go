package logs

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/logs/logrimp"
)

const (
	BackendZap    = "zap"
	BackendLogrus = "logrus"
	BackendHclog  = "hclog"
	BackendJSON   = "json"
	BackendStd    = "std"
	BackendNone   = "none"
)

// Backends lists the console logging backends accepted by NewConsoleLoggers.
var Backends = []string{BackendZap, BackendLogrus, BackendHclog, BackendJSON, BackendStd, BackendNone}

// NewConsoleLoggers returns loggers printing to the console through `backend`. Debug messages are only kept when `verbose` is set.
func NewConsoleLoggers(backend string, loggerSource string, verbose bool) (loggers Loggers, err error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendZap:
		cfg := zap.NewDevelopmentConfig()
		if !verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		zl, subErr := cfg.Build()
		if subErr != nil {
			err = commonerrors.WrapError(commonerrors.ErrUnexpected, subErr, "could not build zap logger")
			return
		}
		return NewZapLogger(zl, loggerSource)
	case BackendLogrus:
		l := logrus.New()
		if verbose {
			l.SetLevel(logrus.DebugLevel)
		}
		return NewLogrLogger(logrimp.NewLogrusLogger(l), loggerSource)
	case BackendHclog:
		level := hclog.Info
		if verbose {
			level = hclog.Debug
		}
		return NewHclogLogger(hclog.New(&hclog.LoggerOptions{Level: level, Output: os.Stderr}), loggerSource)
	case BackendJSON:
		return NewJSONLogger(os.Stdout, loggerSource)
	case BackendStd:
		return NewStdLogger(loggerSource)
	case BackendNone:
		return NewNoopLogger(loggerSource)
	}
	err = commonerrors.Newf(commonerrors.ErrInvalid, "unknown logging backend [%v]", backend)
	return
}
