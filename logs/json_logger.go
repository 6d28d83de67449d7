package logs

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// JSONLoggers writes every message as a JSON document using zerolog (https://github.com/rs/zerolog).
type JSONLoggers struct {
	mu           deadlock.RWMutex
	source       string
	loggerSource string
	zerologger   zerolog.Logger
}

// NewJSONLogger creates a JSON logger writing to `writer`. The writer is not closed on Close.
func NewJSONLogger(writer io.Writer, loggerSource string) (loggers Loggers, err error) {
	if writer == nil {
		err = commonerrors.UndefinedVariable("writer")
		return
	}
	l := &JSONLoggers{zerologger: zerolog.New(writer).With().Timestamp().Logger()}
	err = l.SetLoggerSource(loggerSource)
	if err != nil {
		return
	}
	loggers = l
	return
}

func (l *JSONLoggers) Check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.loggerSource == "" {
		return commonerrors.ErrNoLoggerSource
	}
	return nil
}

func (l *JSONLoggers) SetLogSource(source string) error {
	if source == "" {
		return commonerrors.ErrNoLogSource
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source = source
	return nil
}

func (l *JSONLoggers) SetLoggerSource(source string) error {
	if source == "" {
		return commonerrors.ErrNoLoggerSource
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loggerSource = source
	return nil
}

func (l *JSONLoggers) event(e *zerolog.Event) *zerolog.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e = e.Str(KeyLoggerSource, l.loggerSource)
	if l.source != "" {
		e = e.Str(KeyLogSource, l.source)
	}
	return e
}

func (l *JSONLoggers) Log(output ...interface{}) {
	l.event(l.zerologger.Info()).Msg(fmt.Sprint(output...))
}

func (l *JSONLoggers) LogError(err ...interface{}) {
	l.event(l.zerologger.Error()).Msg(fmt.Sprint(err...))
}

func (l *JSONLoggers) Close() error {
	return nil
}
