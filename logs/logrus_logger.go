package logs

import (
	"fmt"
	"log"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

// NewLogrusLogger creates a logger to logrus logger (https://github.com/Sirupsen/logrus)
func NewLogrusLogger(logrusL *logrus.Logger, loggerSource string) (loggers Loggers, err error) {
	if logrusL == nil {
		err = commonerrors.ErrNoLogger
		return
	}
	infoWriter := logrusL.WriterLevel(logrus.InfoLevel)
	errorWriter := logrusL.WriterLevel(logrus.ErrorLevel)
	closerStore := parallelisation.NewCloserStore(false)
	closerStore.RegisterCloser(infoWriter, errorWriter)
	loggers = &GenericLoggers{
		Output:     log.New(infoWriter, fmt.Sprintf("[%v] ", loggerSource), 0),
		Error:      log.New(errorWriter, fmt.Sprintf("[%v] ", loggerSource), 0),
		closeStore: closerStore,
	}
	return
}

// NewLogrusLoggerWithFileHook creates a logrus logger which also writes every entry to `filePath`.
func NewLogrusLoggerWithFileHook(logrusL *logrus.Logger, loggerSource string, filePath string) (loggers Loggers, err error) {
	if logrusL == nil {
		err = commonerrors.ErrNoLogger
		return
	}
	if filePath == "" {
		err = commonerrors.New(commonerrors.ErrInvalidDestination, "missing file destination")
		return
	}
	pathMap := lfshook.PathMap{
		logrus.InfoLevel:  filePath,
		logrus.ErrorLevel: filePath,
	}
	logrusL.Hooks.Add(lfshook.NewHook(pathMap, &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}))
	return NewLogrusLogger(logrusL, loggerSource)
}
