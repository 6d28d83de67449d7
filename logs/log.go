// Package logs defines the loggers used across Program Viewer and the adapters between them and logr.
package logs

import (
	"log"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

// GenericLoggers defines loggers based on the standard library log.Logger.
type GenericLoggers struct {
	Output     *log.Logger
	Error      *log.Logger
	closeStore *parallelisation.CloserStore
}

// Check checks whether the loggers are correctly defined or not.
func (l *GenericLoggers) Check() error {
	if l.Error == nil || l.Output == nil {
		return commonerrors.ErrNoLogger
	}
	return nil
}

func (l *GenericLoggers) SetLogSource(_ string) error {
	return nil
}

func (l *GenericLoggers) SetLoggerSource(_ string) error {
	return nil
}

// Log logs to the output logger.
func (l *GenericLoggers) Log(output ...interface{}) {
	l.Output.Println(output...)
}

// LogError logs to the Error logger.
func (l *GenericLoggers) LogError(err ...interface{}) {
	l.Error.Println(err...)
}

// Close closes the logger and its underlying writers if any.
func (l *GenericLoggers) Close() error {
	if l.closeStore == nil {
		return nil
	}
	return l.closeStore.Close()
}
