package logs

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/DeRuina/timberjack"
	"github.com/sirupsen/logrus"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

const mebibyte = 1024 * 1024

// NewFileOnlyLogger creates a logrus logger whose entries are only sent to `logFile`. Unlike NewRollingFilesLogger, the file is never rotated.
func NewFileOnlyLogger(logFile string, loggerSource string) (loggers Loggers, err error) {
	underlying := logrus.New()
	underlying.SetOutput(io.Discard)
	return NewLogrusLoggerWithFileHook(underlying, loggerSource, logFile)
}

type FileLoggerOptions struct {
	maxFileSize int64
	maxAge      time.Duration
	maxBackups  int
}

type FileLoggerOption func(*FileLoggerOptions) *FileLoggerOptions

// WithMaxFileSize sets the maximum size in bytes of a log file before it gets rotated.
func WithMaxFileSize(maxFileSize int64) FileLoggerOption {
	return func(o *FileLoggerOptions) *FileLoggerOptions {
		if o == nil {
			return o
		}
		o.maxFileSize = maxFileSize
		return o
	}
}

// WithMaxAge sets the maximum duration old log files are retained.
func WithMaxAge(maxAge time.Duration) FileLoggerOption {
	return func(o *FileLoggerOptions) *FileLoggerOptions {
		if o == nil {
			return o
		}
		if maxAge >= time.Minute {
			o.maxAge = maxAge
		}
		return o
	}
}

// WithMaxBackups sets the maximum number of old log files to retain.
func WithMaxBackups(maxBackups int) FileLoggerOption {
	return func(o *FileLoggerOptions) *FileLoggerOptions {
		if o == nil {
			return o
		}
		o.maxBackups = maxBackups
		return o
	}
}

// NewRollingFilesLogger creates a rolling file logger using [timberjack](https://github.com/DeRuina/timberjack) under the bonnet.
func NewRollingFilesLogger(logFile string, loggerSource string, options ...FileLoggerOption) (loggers Loggers, err error) {
	opts := &FileLoggerOptions{
		maxFileSize: 10 * mebibyte,
		maxAge:      7 * 24 * time.Hour,
		maxBackups:  3,
	}
	for i := range options {
		opts = options[i](opts)
	}
	if logFile == "" {
		err = commonerrors.New(commonerrors.ErrInvalidDestination, "missing file destination")
		return
	}
	maxSize := int(opts.maxFileSize / mebibyte)
	if maxSize < 1 {
		maxSize = 1
	}
	l := &timberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSize,
		MaxAge:     int(opts.maxAge.Hours() / 24),
		MaxBackups: opts.maxBackups,
		LocalTime:  false,
		Compress:   false,
	}
	closerStore := parallelisation.NewCloserStore(false)
	closerStore.RegisterCloser(l)

	loggers = &GenericLoggers{
		Output:     log.New(l, fmt.Sprintf("[%v] Output: ", loggerSource), log.LstdFlags),
		Error:      log.New(l, fmt.Sprintf("[%v] Error: ", loggerSource), log.LstdFlags),
		closeStore: closerStore,
	}
	return
}
