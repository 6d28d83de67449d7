package logs

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

const (
	KeyLogSource    = "source"
	KeyLoggerSource = "logger-source"
)

type logrLogger struct {
	logger logr.Logger
	closer parallelisation.CloseFunc
}

func (l *logrLogger) Close() error {
	return l.closer.Close()
}

func (l *logrLogger) Check() error {
	if l.logger.GetSink() == nil {
		return commonerrors.ErrNoLogger
	}
	return nil
}

func (l *logrLogger) SetLogSource(source string) error {
	if source == "" {
		return commonerrors.ErrNoLogSource
	}
	l.logger = l.logger.WithValues(KeyLogSource, source)
	return nil
}

func (l *logrLogger) SetLoggerSource(source string) error {
	if source == "" {
		return commonerrors.ErrNoLoggerSource
	}
	l.logger = l.logger.WithName(source)
	return nil
}

func (l *logrLogger) Log(output ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintln(output...)))
}

func (l *logrLogger) LogError(err ...interface{}) {
	l.logger.Error(nil, strings.TrimSpace(fmt.Sprintln(err...)))
}

// NewLogrLogger creates loggers based on a logr implementation (https://github.com/go-logr/logr)
func NewLogrLogger(logrImpl logr.Logger, loggerSource string) (loggers Loggers, err error) {
	return NewLogrLoggerWithClose(logrImpl, loggerSource, nil)
}

// NewLogrLoggerWithClose is similar to NewLogrLogger but calls `closeFunc` on Close.
func NewLogrLoggerWithClose(logrImpl logr.Logger, loggerSource string, closeFunc func() error) (loggers Loggers, err error) {
	loggers = &logrLogger{logger: logrImpl, closer: closeFunc}
	err = loggers.SetLoggerSource(loggerSource)
	return
}

// NewLogrLoggerFromLoggers converts loggers into a logr.Logger
func NewLogrLoggerFromLoggers(loggers Loggers) logr.Logger {
	return stdr.New(log.New(&loggersWriter{loggers: loggers}, "", 0))
}

type loggersWriter struct {
	loggers Loggers
}

func (w *loggersWriter) Write(p []byte) (n int, err error) {
	if w.loggers == nil {
		err = commonerrors.ErrNoLogger
		return
	}
	msg := strings.TrimSpace(string(p))
	if strings.Contains(msg, `"level"=`) || !strings.Contains(msg, `"error"=`) {
		w.loggers.Log(msg)
	} else {
		w.loggers.LogError(msg)
	}
	n = len(p)
	return
}
