// Package commonerrors defines the error taxonomy shared by all the Program Viewer packages.
package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNotImplemented     = errors.New("not implemented")
	ErrNoLogger           = errors.New("missing logger")
	ErrNoLoggerSource     = errors.New("missing logger source")
	ErrNoLogSource        = errors.New("missing log source")
	ErrUndefined          = errors.New("undefined")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrTimeout            = errors.New("timeout")
	ErrLocked             = errors.New("locked")
	ErrNotFound           = errors.New("not found")
	ErrUnsupported        = errors.New("unsupported")
	ErrUnavailable        = errors.New("unavailable")
	ErrUnknown            = errors.New("unknown")
	ErrInvalid            = errors.New("invalid")
	ErrConflict           = errors.New("conflict")
	ErrExists             = errors.New("already exists")
	ErrMarshalling        = errors.New("unserialisable")
	ErrCancelled          = errors.New("cancelled")
	ErrUnexpected         = errors.New("unexpected")
	ErrCondition          = errors.New("failed condition")
	ErrCorrupted          = errors.New("corrupted")
	ErrEOF                = errors.New("end of file")
)

// Any determines whether any of the errors `err` corresponds to the `target` error.
func Any(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return true
		}
	}
	return false
}

// None determines whether none of the errors `err` corresponds to the `target` error.
func None(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return false
		}
	}
	return true
}

// CorrespondTo determines whether the description of `target` contains any of the descriptions given.
// The comparison is case-insensitive.
func CorrespondTo(target error, description ...string) bool {
	if target == nil {
		return false
	}
	desc := strings.ToLower(target.Error())
	for i := range description {
		if strings.Contains(desc, strings.ToLower(description[i])) {
			return true
		}
	}
	return false
}

// Ignore returns nil if `target` corresponds to any of the `ignore` errors; otherwise `target` is returned.
func Ignore(target error, ignore ...error) error {
	if Any(target, ignore...) {
		return nil
	}
	return target
}

// New creates a new error of type `errorType` with a specific reason.
func New(errorType error, reason string) error {
	if errorType == nil {
		return errors.New(reason)
	}
	return fmt.Errorf("%w: %v", errorType, reason)
}

// Newf is similar to New but with a format string.
func Newf(errorType error, msgFormat string, args ...any) error {
	return New(errorType, fmt.Sprintf(msgFormat, args...))
}

// WrapError wraps `originalError` into an error of type `targetErrorType` so that both can be matched.
func WrapError(targetErrorType error, originalError error, message string) error {
	if originalError == nil {
		return New(targetErrorType, message)
	}
	if targetErrorType == nil {
		targetErrorType = ErrUnknown
	}
	if message == "" {
		return fmt.Errorf("%w: %w", targetErrorType, originalError)
	}
	return fmt.Errorf("%w: %v: %w", targetErrorType, message, originalError)
}

// WrapErrorf is similar to WrapError but with a format string.
func WrapErrorf(targetErrorType error, originalError error, msgFormat string, args ...any) error {
	return WrapError(targetErrorType, originalError, fmt.Sprintf(msgFormat, args...))
}

// UndefinedVariable returns an error describing a variable which was not defined.
func UndefinedVariable(variableName string) error {
	return Newf(ErrUndefined, "%v is undefined", variableName)
}

// Join collates errors. nil errors are discarded and nil is returned if no error remains.
func Join(errs ...error) error {
	var result *multierror.Error
	for i := range errs {
		if errs[i] != nil {
			result = multierror.Append(result, errs[i])
		}
	}
	return result.ErrorOrNil()
}

// ErrFromContext returns the error corresponding to the state of the context if any.
func ErrFromContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ConvertContextError(ctx.Err())
}

// ConvertContextError converts context errors into common errors.
func ConvertContextError(err error) error {
	if err == nil {
		return nil
	}
	if Any(err, context.DeadlineExceeded) {
		return WrapError(ErrTimeout, err, "")
	}
	if Any(err, context.Canceled) {
		return WrapError(ErrCancelled, err, "")
	}
	return err
}
