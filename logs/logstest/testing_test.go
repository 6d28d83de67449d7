package logstest

import (
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

func TestRecordingLogger(t *testing.T) {
	logger, recorder := NewRecordingTestLogger()
	msg := faker.Sentence()
	logger.Info(msg)
	logger.Error(commonerrors.ErrUnexpected, "failure")
	assert.True(t, recorder.Contains(msg))
	assert.True(t, recorder.Contains("failure"))
	assert.Len(t, recorder.Messages(), 2)
	recorder.Reset()
	assert.Empty(t, recorder.Messages())
}

func TestOtherLoggers(t *testing.T) {
	NewNullTestLogger().Info(faker.Sentence())
	NewStdTestLogger().Info(faker.Sentence())
	NewTestLogger(t).Info(faker.Sentence())
}
