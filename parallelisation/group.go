package parallelisation

import (
	"context"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

type StoreOptions struct {
	clearOnExecution bool
	stopOnFirstError bool
	sequential       bool
	reverse          bool
	joinErrors       bool
	workers          int
}

func (o *StoreOptions) Default() *StoreOptions {
	o.clearOnExecution = false
	o.stopOnFirstError = false
	o.sequential = false
	o.reverse = false
	o.joinErrors = false
	o.workers = 0
	return o
}

func (o *StoreOptions) Merge(opts *StoreOptions) *StoreOptions {
	if opts == nil {
		return o
	}
	o.clearOnExecution = opts.clearOnExecution || o.clearOnExecution
	o.stopOnFirstError = opts.stopOnFirstError || o.stopOnFirstError
	o.sequential = opts.sequential || o.sequential
	o.reverse = opts.reverse || o.reverse
	o.joinErrors = opts.joinErrors || o.joinErrors
	o.workers = max(opts.workers, o.workers)
	return o
}

func (o *StoreOptions) Options() []StoreOption {
	return []StoreOption{
		func(opts *StoreOptions) *StoreOptions {
			op := o
			if op == nil {
				op = DefaultOptions()
			}
			return op.Merge(opts)
		},
	}
}

type StoreOption func(*StoreOptions) *StoreOptions

// StopOnFirstError stops ExecutionGroup execution on first error.
var StopOnFirstError StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = true
	o.joinErrors = false
	return o
}

// JoinErrors will collate any errors which happened when executing functions in ExecutionGroup.
// This option should not be used in combination to StopOnFirstError.
var JoinErrors StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = false
	o.joinErrors = true
	return o
}

// ExecuteAll executes all functions in the ExecutionGroup even if an error is raised. the first error raised is then returned.
var ExecuteAll StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.stopOnFirstError = false
	return o
}

// ClearAfterExecution clears the ExecutionGroup after execution.
var ClearAfterExecution StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.clearOnExecution = true
	return o
}

// RetainAfterExecution keep the ExecutionGroup intact after execution (no reset).
var RetainAfterExecution StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.clearOnExecution = false
	return o
}

// Parallel ensures every function registered in the ExecutionGroup is executed concurrently.
var Parallel StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = false
	return o
}

// Workers defines a limit number of workers for executing the function registered in the ExecutionGroup.
func Workers(workers int) StoreOption {
	return func(o *StoreOptions) *StoreOptions {
		if o == nil {
			o = DefaultOptions()
		}
		o.workers = workers
		o.sequential = false
		return o
	}
}

// Sequential ensures every function registered in the ExecutionGroup is executed sequentially in the order they were registered.
var Sequential StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = true
	return o
}

// SequentialInReverse ensures every function registered in the ExecutionGroup is executed sequentially but in the reverse order they were registered.
var SequentialInReverse StoreOption = func(o *StoreOptions) *StoreOptions {
	if o == nil {
		o = DefaultOptions()
	}
	o.sequential = true
	o.reverse = true
	return o
}

// WithOptions defines a store configuration.
func WithOptions(option ...StoreOption) (opts *StoreOptions) {
	for i := range option {
		opts = option[i](opts)
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return
}

// DefaultOptions returns the default store configuration
func DefaultOptions() *StoreOptions {
	opts := &StoreOptions{}
	return opts.Default()
}

type IExecutor interface {
	// Execute executes all the functions in the group.
	Execute(ctx context.Context) error
}

type IExecutionGroup[T any] interface {
	IExecutor
	RegisterFunction(function ...T)
	Len() int
}

type ExecuteFunc[T any] func(ctx context.Context, element T) error

// NewExecutionGroup returns an execution group which executes functions according to store options.
func NewExecutionGroup[T any](executeFunc ExecuteFunc[T], options ...StoreOption) *ExecutionGroup[T] {
	opts := WithOptions(options...)
	return &ExecutionGroup[T]{
		mu:          deadlock.RWMutex{},
		functions:   make([]T, 0),
		executeFunc: executeFunc,
		options:     *opts,
	}
}

type ExecutionGroup[T any] struct {
	mu          deadlock.RWMutex
	functions   []T
	executeFunc ExecuteFunc[T]
	options     StoreOptions
}

// RegisterFunction registers functions to the group.
func (s *ExecutionGroup[T]) RegisterFunction(function ...T) {
	defer s.mu.Unlock()
	s.mu.Lock()
	s.functions = append(s.functions, function...)
}

func (s *ExecutionGroup[T]) Len() int {
	defer s.mu.RUnlock()
	s.mu.RLock()
	return len(s.functions)
}

// Execute executes all the function in the group according to store options.
func (s *ExecutionGroup[T]) Execute(ctx context.Context) (err error) {
	defer s.mu.Unlock()
	s.mu.Lock()
	if s.executeFunc == nil {
		return commonerrors.New(commonerrors.ErrUndefined, "the group was not initialised correctly")
	}

	if s.options.sequential {
		err = s.executeSequentially(ctx)
	} else {
		err = s.executeConcurrently(ctx)
	}

	if err == nil && s.options.clearOnExecution {
		s.functions = make([]T, 0, len(s.functions))
	}
	return
}

func (s *ExecutionGroup[T]) executeConcurrently(ctx context.Context) error {
	funcNum := len(s.functions)
	if funcNum == 0 {
		return DetermineContextError(ctx)
	}
	g, gCtx := errgroup.WithContext(ctx)
	if !s.options.stopOnFirstError {
		gCtx = ctx
	}
	workers := s.options.workers
	if workers <= 0 {
		workers = funcNum
	}
	collateErr := make([]error, funcNum)

	g.SetLimit(workers)
	for i := range s.functions {
		g.Go(func() error {
			subErr := s.executeFunction(gCtx, s.functions[i])
			collateErr[i] = subErr
			return subErr
		})
	}
	err := g.Wait()
	if s.options.joinErrors {
		err = commonerrors.Join(collateErr...)
	}
	return err
}

func (s *ExecutionGroup[T]) executeSequentially(ctx context.Context) (err error) {
	err = DetermineContextError(ctx)
	if err != nil {
		return
	}
	funcNum := len(s.functions)
	collateErr := make([]error, funcNum)
	for j := range s.functions {
		i := j
		if s.options.reverse {
			i = funcNum - j - 1
		}
		subErr := s.executeFunction(ctx, s.functions[i])
		collateErr[j] = subErr
		if commonerrors.Any(subErr, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
			err = subErr
			return
		}
		if subErr != nil && err == nil {
			err = subErr
			if s.options.stopOnFirstError {
				return
			}
		}
	}

	if s.options.joinErrors {
		err = commonerrors.Join(collateErr...)
	}
	return
}

func (s *ExecutionGroup[T]) executeFunction(ctx context.Context, element T) (err error) {
	err = DetermineContextError(ctx)
	if err != nil {
		return
	}
	err = s.executeFunc(ctx, element)
	return
}
