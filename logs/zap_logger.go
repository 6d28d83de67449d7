package logs

import (
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

const (
	syncError = "invalid argument" // sync error can happen on Linux (sync /dev/stderr: invalid argument) see https://github.com/uber-go/zap/issues/328
)

// NewZapLogger returns a logger which uses zap logger (https://github.com/uber-go/zap)
func NewZapLogger(zapL *zap.Logger, loggerSource string) (loggers Loggers, err error) {
	if zapL == nil {
		err = commonerrors.ErrNoLogger
		return
	}
	return NewLogrLoggerWithClose(zapr.NewLogger(zapL), loggerSource, func() error {
		err := zapL.Sync()
		if commonerrors.CorrespondTo(err, syncError, "inappropriate ioctl") {
			return nil
		}
		return err
	})
}
