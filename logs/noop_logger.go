package logs

import (
	"github.com/PandrPi/ProgramViewer3.0/logs/logrimp"
)

func NewNoopLogger(loggerSource string) (loggers Loggers, err error) {
	return NewLogrLogger(logrimp.NewNoopLogger(), loggerSource)
}
