package extraction

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

const DefaultQueueSize = 64

type response struct {
	img image.Image
	err error
}

type request struct {
	ctx   context.Context
	path  string
	reply chan response
}

// Dispatcher serialises every extraction onto a single goroutine locked to its OS thread.
// Extractors relying on thread-affine platform APIs can therefore be called from any goroutine through it.
type Dispatcher struct {
	extractor IconExtractor
	logger    logr.Logger
	requests  chan request
	stop      chan struct{}
	stopped   chan struct{}
	mu        deadlock.Mutex
	closed    bool
}

// NewDispatcher starts the consumer goroutine. Close must be called to stop it.
func NewDispatcher(extractor IconExtractor, logger logr.Logger, queueSize int) (d *Dispatcher, err error) {
	if extractor == nil {
		err = commonerrors.UndefinedVariable("icon extractor")
		return
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d = &Dispatcher{
		extractor: extractor,
		logger:    logger.WithName("dispatcher"),
		requests:  make(chan request, queueSize),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go d.run()
	return
}

func (d *Dispatcher) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.stopped)
	if initialiser, ok := d.extractor.(ThreadInitialiser); ok {
		if err := initialiser.InitialiseThread(); err != nil {
			d.logger.Error(err, "could not initialise the extraction thread")
		} else {
			defer initialiser.ReleaseThread()
		}
	}
	for {
		select {
		case req := <-d.requests:
			d.serve(req)
		case <-d.stop:
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case req := <-d.requests:
			req.reply <- response{err: errDispatcherClosed()}
		default:
			return
		}
	}
}

func (d *Dispatcher) serve(req request) {
	if err := parallelisation.DetermineContextError(req.ctx); err != nil {
		req.reply <- response{err: err}
		return
	}
	img, err := safeExtract(req.ctx, d.extractor, req.path)
	req.reply <- response{img: img, err: err}
}

// ExtractIcon posts a request to the consumer goroutine and waits for its reply.
func (d *Dispatcher) ExtractIcon(ctx context.Context, path string) (img image.Image, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	req := request{ctx: ctx, path: path, reply: make(chan response, 1)}
	select {
	case <-ctx.Done():
		err = parallelisation.DetermineContextError(ctx)
		return
	case <-d.stop:
		err = errDispatcherClosed()
		return
	case d.requests <- req:
	}
	select {
	case <-ctx.Done():
		err = parallelisation.DetermineContextError(ctx)
	case <-d.stopped:
		// The reply may have been sent just before the consumer exited.
		select {
		case res := <-req.reply:
			img, err = res.img, res.err
		default:
			err = errDispatcherClosed()
		}
	case res := <-req.reply:
		img, err = res.img, res.err
	}
	return
}

// Close stops the consumer goroutine. Pending requests are rejected.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()
	<-d.stopped
	d.logger.V(1).Info("dispatcher stopped")
	return nil
}

func errDispatcherClosed() error {
	return commonerrors.New(commonerrors.ErrUnavailable, "icon dispatcher is closed")
}

func safeExtract(ctx context.Context, extractor IconExtractor, path string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = commonerrors.Newf(commonerrors.ErrUnexpected, "icon extraction panicked: %v", r)
		}
	}()
	img, err = extractor.ExtractIcon(ctx, path)
	if err == nil && img == nil {
		err = commonerrors.New(commonerrors.ErrUnexpected, fmt.Sprintf("no icon returned for [%v]", path))
	}
	return
}
