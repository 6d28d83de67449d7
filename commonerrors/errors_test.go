package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAny(t *testing.T) {
	assert.True(t, Any(ErrNotImplemented, ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.False(t, Any(ErrNotImplemented, ErrInvalid, ErrUnknown))
	assert.True(t, Any(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.False(t, Any(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrUnknown))
}

func TestNone(t *testing.T) {
	assert.False(t, None(ErrNotImplemented, ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.True(t, None(ErrNotImplemented, ErrInvalid, ErrUnknown))
	assert.False(t, None(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrNotImplemented, ErrUnknown))
	assert.True(t, None(fmt.Errorf("an error %w", ErrNotImplemented), ErrInvalid, ErrUnknown))
}

func TestWrapError(t *testing.T) {
	original := errors.New(faker.Sentence())
	err := WrapError(ErrUnexpected, original, "could not create the cache directory")
	require.Error(t, err)
	assert.True(t, Any(err, ErrUnexpected))
	assert.True(t, errors.Is(err, original))
	assert.Contains(t, err.Error(), "could not create the cache directory")

	err = WrapError(ErrInvalid, nil, "no original error")
	assert.True(t, Any(err, ErrInvalid))

	err = WrapErrorf(ErrMarshalling, original, "record %v", "abc")
	assert.True(t, Any(err, ErrMarshalling))
	assert.Contains(t, err.Error(), "record abc")
}

func TestIgnoreAndCorrespondTo(t *testing.T) {
	assert.NoError(t, Ignore(fmt.Errorf("wrapped: %w", ErrNotFound), ErrNotFound))
	assert.Error(t, Ignore(ErrInvalid, ErrNotFound))
	assert.True(t, CorrespondTo(errors.New("sync /dev/stderr: Invalid Argument"), "invalid argument"))
	assert.False(t, CorrespondTo(nil, "anything"))
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join())
	assert.NoError(t, Join(nil, nil))
	err := Join(nil, ErrInvalid, New(ErrNotFound, "icon missing"))
	require.Error(t, err)
	assert.True(t, Any(err, ErrInvalid))
	assert.True(t, Any(err, ErrNotFound))
}

func TestContextErrors(t *testing.T) {
	assert.NoError(t, ErrFromContext(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ErrFromContext(ctx)
	assert.True(t, Any(err, ErrCancelled))
	assert.True(t, Any(ConvertContextError(context.DeadlineExceeded), ErrTimeout))
	assert.NoError(t, ConvertContextError(nil))
}
