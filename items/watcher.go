package items

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

const DefaultRenameWindow = 100 * time.Millisecond

type EventKind int

const (
	Created EventKind = iota
	Removed
	Renamed
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Removed:
		return "removed"
	case Renamed:
		return "renamed"
	}
	return "unknown"
}

// Event is a change of the content of a watched folder. OldPath is only set for renames.
type Event struct {
	Kind    EventKind
	Path    string
	OldPath string
}

type EventHandler func(ctx context.Context, event Event)

// Watcher reports the items created, removed or renamed in a folder. Sub-folders are not watched.
//
// A rename is reported by the OS as the removal of the old name followed by the creation of the new one: both are merged into a single Renamed event when they happen within the rename window.
type Watcher struct {
	dir          string
	exclusions   []string
	renameWindow time.Duration
	logger       logr.Logger
	handler      EventHandler

	mu      deadlock.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWatcher(dir string, logger logr.Logger, handler EventHandler, renameWindow time.Duration, exclusions ...string) (w *Watcher, err error) {
	if handler == nil {
		err = commonerrors.UndefinedVariable("event handler")
		return
	}
	if renameWindow <= 0 {
		renameWindow = DefaultRenameWindow
	}
	w = &Watcher{
		dir:          dir,
		exclusions:   exclusions,
		renameWindow: renameWindow,
		logger:       logger.WithName("watcher"),
		handler:      handler,
	}
	return
}

// Start begins watching. Events are handled sequentially on a dedicated goroutine until Close is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		err = commonerrors.New(commonerrors.ErrConflict, "watcher already started")
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not create a filesystem watcher")
		return
	}
	err = watcher.Add(w.dir)
	if err != nil {
		_ = watcher.Close()
		err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, filesystem.ConvertFileSystemError(err), "could not watch [%v]", w.dir)
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(runCtx, watcher, w.done)
	w.logger.Info("watching folder", "path", w.dir)
	return
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	pending := ""
	var renameTimer *time.Timer
	var renameExpired <-chan time.Time
	stopTimer := func() {
		if renameTimer != nil {
			renameTimer.Stop()
		}
		renameTimer = nil
		renameExpired = nil
	}
	defer stopTimer()
	for {
		select {
		case <-ctx.Done():
			return
		case <-renameExpired:
			stopTimer()
			w.handler(ctx, Event{Kind: Removed, Path: pending})
			pending = ""
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "watch error", "path", w.dir)
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			path := filesystem.NormalisePath(event.Name)
			if filesystem.IsPathExcluded(path, w.exclusions...) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				if pending != "" {
					stopTimer()
					w.handler(ctx, Event{Kind: Renamed, Path: path, OldPath: pending})
					pending = ""
					continue
				}
				w.handler(ctx, Event{Kind: Created, Path: path})
			case event.Has(fsnotify.Remove):
				w.handler(ctx, Event{Kind: Removed, Path: path})
			case event.Has(fsnotify.Rename):
				if pending != "" {
					w.handler(ctx, Event{Kind: Removed, Path: pending})
				}
				stopTimer()
				pending = path
				renameTimer = time.NewTimer(w.renameWindow)
				renameExpired = renameTimer.C
			}
		}
	}
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	w.cancel()
	err = w.watcher.Close()
	<-w.done
	w.watcher = nil
	w.logger.V(1).Info("stopped watching folder", "path", w.dir)
	return
}
