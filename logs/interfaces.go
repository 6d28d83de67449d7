package logs

import (
	"io"

	"github.com/go-logr/logr"
)

type Loggers interface {
	io.Closer
	// Check checks whether the loggers are correctly defined or not.
	Check() error
	// SetLogSource sets the source of the log message e.g. cache flush, desktop watcher, etc.
	SetLogSource(source string) error
	// SetLoggerSource sets the source of the logger e.g. icon cache, item manager.
	SetLoggerSource(source string) error
	// Log logs to the output logger.
	Log(output ...interface{})
	// LogError logs to the Error logger.
	LogError(err ...interface{})
}

type IMultipleLoggers interface {
	Loggers
	// AppendLogger appends generic loggers to the internal list of loggers managed by this system.
	AppendLogger(l ...logr.Logger) error
	// Append appends loggers to the internal list of loggers managed by this system.
	Append(l ...Loggers) error
}
