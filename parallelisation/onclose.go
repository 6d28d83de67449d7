package parallelisation

import (
	"context"
	"io"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

type CloserStore struct {
	ExecutionGroup[io.Closer]
}

func (s *CloserStore) RegisterCloser(closerObj ...io.Closer) {
	s.RegisterFunction(closerObj...)
}

func (s *CloserStore) Close() error {
	return s.Execute(context.Background())
}

// NewCloserStore returns a store of io.Closer object which will all be closed concurrently on Close(). The first error received will be returned
func NewCloserStore(stopOnFirstError bool) *CloserStore {
	option := ExecuteAll
	if stopOnFirstError {
		option = StopOnFirstError
	}
	return NewCloserStoreWithOptions(option, Parallel)
}

// NewCloserStoreWithOptions returns a store of io.Closer object which will all be closed on Close().
func NewCloserStoreWithOptions(opts ...StoreOption) *CloserStore {
	return &CloserStore{
		ExecutionGroup: *NewExecutionGroup[io.Closer](func(_ context.Context, closerObj io.Closer) error {
			if closerObj == nil {
				return commonerrors.UndefinedVariable("closer object")
			}
			return closerObj.Close()
		}, append(opts, ClearAfterExecution)...),
	}
}

// CloseAll calls concurrently Close on all io.Closer implementations passed as arguments and returns the first error encountered
func CloseAll(cs ...io.Closer) error {
	group := NewCloserStore(false)
	group.RegisterCloser(cs...)
	return group.Close()
}

// CloseAllAndCollateErrors calls concurrently Close on all io.Closer implementations passed as arguments and returns the errors encountered
func CloseAllAndCollateErrors(cs ...io.Closer) error {
	group := NewCloserStoreWithOptions(ExecuteAll, Parallel, JoinErrors)
	group.RegisterCloser(cs...)
	return group.Close()
}

type CloseFunc func() error

// Close makes CloseFunc an io.Closer.
func (f CloseFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}

type CloseFunctionStore struct {
	ExecutionGroup[CloseFunc]
}

func (s *CloseFunctionStore) RegisterCloseFunction(closerObj ...CloseFunc) {
	s.RegisterFunction(closerObj...)
}

func (s *CloseFunctionStore) RegisterCancelFunction(cancelFunc ...context.CancelFunc) {
	for i := range cancelFunc {
		cancel := cancelFunc[i]
		s.RegisterFunction(func() error {
			if cancel != nil {
				cancel()
			}
			return nil
		})
	}
}

func (s *CloseFunctionStore) Close() error {
	return s.Execute(context.Background())
}

// NewCloseFunctionStore returns a store closing functions which will all be called on Close(). The first error received if any will be returned.
func NewCloseFunctionStore(options ...StoreOption) *CloseFunctionStore {
	return &CloseFunctionStore{
		ExecutionGroup: *NewExecutionGroup[CloseFunc](func(_ context.Context, closerObj CloseFunc) error {
			return closerObj.Close()
		}, append(options, ClearAfterExecution)...),
	}
}
