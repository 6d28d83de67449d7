// Package logstest provides loggers for tests.
package logstest

import (
	"strings"
	"testing"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	logrusTest "github.com/sirupsen/logrus/hooks/test"

	"github.com/PandrPi/ProgramViewer3.0/logs/logrimp"
)

// NewNullTestLogger returns a logger to nothing
func NewNullTestLogger() logr.Logger {
	internalLogger, _ := logrusTest.NewNullLogger()
	return logrusr.New(internalLogger)
}

// NewStdTestLogger returns a test logger to standard output.
func NewStdTestLogger() logr.Logger {
	return logrimp.NewStdOutLogr(1)
}

// NewTestLogger returns a logger to use in tests
func NewTestLogger(t *testing.T) logr.Logger {
	return testr.New(t)
}

// NewRecordingTestLogger returns a logger whose entries are kept in memory so that tests can assert on what was logged.
func NewRecordingTestLogger() (logr.Logger, *Recorder) {
	internalLogger, hook := logrusTest.NewNullLogger()
	return logrusr.New(internalLogger), &Recorder{hook: hook}
}

type Recorder struct {
	hook *logrusTest.Hook
}

// Messages returns the messages logged so far.
func (r *Recorder) Messages() (messages []string) {
	entries := r.hook.AllEntries()
	for i := range entries {
		messages = append(messages, entries[i].Message)
	}
	return
}

// Contains states whether any logged message contains `substring`.
func (r *Recorder) Contains(substring string) bool {
	for _, m := range r.Messages() {
		if strings.Contains(m, substring) {
			return true
		}
	}
	return false
}

// Reset clears the recorded entries.
func (r *Recorder) Reset() {
	r.hook.Reset()
}
