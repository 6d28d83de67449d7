// Package launcher assembles the icon cache, the item stores and the settings of Program Viewer.
package launcher

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/extraction"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/iconcache"
	"github.com/PandrPi/ProgramViewer3.0/idgen"
	"github.com/PandrPi/ProgramViewer3.0/items"
	"github.com/PandrPi/ProgramViewer3.0/logs"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
	"github.com/PandrPi/ProgramViewer3.0/settings"
)

type options struct {
	fs        filesystem.FS
	extractor extraction.IconExtractor
	console   *logr.Logger
}

type Option func(*options)

// WithFilesystem replaces the OS filesystem.
func WithFilesystem(fs filesystem.FS) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithExtractor replaces the platform icon extractor.
func WithExtractor(extractor extraction.IconExtractor) Option {
	return func(o *options) {
		o.extractor = extractor
	}
}

// WithConsoleLogger replaces the console backend selected by the logging configuration.
func WithConsoleLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.console = &logger
	}
}

// Launcher owns every component of a Program Viewer session.
type Launcher struct {
	cfg      *Configuration
	fs       filesystem.FS
	session  string
	logger   logr.Logger
	settings *settings.Store
	cache    *iconcache.Manager
	items    *items.Manager
	loggers  logs.Loggers

	mu          deadlock.Mutex
	started     bool
	closed      bool
	stopFlushes context.CancelFunc
	waitFlushes func()
}

// New builds a launcher. The settings are loaded straight away as they decide where messages are logged.
func New(ctx context.Context, cfg *Configuration, opts ...Option) (l *Launcher, err error) {
	if cfg == nil {
		err = commonerrors.UndefinedVariable("launcher configuration")
		return
	}
	err = cfg.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid launcher configuration")
		return
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "could not resolve the application directory")
		return
	}
	o := &options{}
	for i := range opts {
		opts[i](o)
	}
	if o.fs == nil {
		o.fs = filesystem.NewStandardFileSystem()
	}
	if o.extractor == nil {
		o.extractor = extraction.NewDefaultExtractor(o.fs)
	}
	session, err := idgen.GenerateSortableID()
	if err != nil {
		return
	}
	consoleLoggers, console, err := newConsole(resolved, o.console)
	if err != nil {
		return
	}
	console = console.WithValues("session", session)

	err = o.fs.MkDir(resolved.ApplicationDirectory)
	if err != nil {
		_ = consoleLoggers.Close()
		err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "could not create the application directory [%v]", resolved.ApplicationDirectory)
		return
	}
	store := settings.NewStore(o.fs, resolved.SettingsFile, console)
	err = store.Load(ctx)
	if err != nil {
		_ = consoleLoggers.Close()
		return
	}

	l = &Launcher{
		cfg:      resolved,
		fs:       o.fs,
		session:  session,
		settings: store,
		loggers:  consoleLoggers,
		logger:   console,
	}
	err = l.redirectLogging()
	if err != nil {
		_ = consoleLoggers.Close()
		return
	}
	l.cache, err = iconcache.NewManager(&resolved.Cache, o.fs, o.extractor, l.logger, iconcache.WithDispatcher())
	if err != nil {
		_ = l.loggers.Close()
		return
	}
	l.items, err = items.NewManager(&resolved.Items, o.fs, l.cache, l.logger)
	if err != nil {
		_ = l.cache.Close()
		_ = l.loggers.Close()
		return
	}
	return
}

// newConsole returns the console loggers: `override` when set, otherwise the configured backend.
func newConsole(cfg *Configuration, override *logr.Logger) (loggers logs.Loggers, logger logr.Logger, err error) {
	if override != nil {
		loggers, err = logs.NewLogrLogger(*override, loggerSource)
		logger = *override
		return
	}
	loggers, err = logs.NewConsoleLoggers(cfg.Logging.Backend, loggerSource, cfg.Logging.Verbose)
	if err != nil {
		return
	}
	logger = logs.NewLogrLoggerFromLoggers(loggers)
	return
}

func (l *Launcher) newFileLoggers() (logs.Loggers, error) {
	if !l.cfg.Logging.Rotate {
		return logs.NewFileOnlyLogger(l.cfg.Logging.LogFile, loggerSource)
	}
	return logs.NewRollingFilesLogger(l.cfg.Logging.LogFile, loggerSource,
		logs.WithMaxFileSize(l.cfg.Logging.MaxFileSize),
		logs.WithMaxBackups(l.cfg.Logging.MaxBackups),
		logs.WithMaxAge(l.cfg.Logging.MaxAge),
	)
}

// redirectLogging adds the log file to the console loggers when the RedirectMessageLogging setting is on.
func (l *Launcher) redirectLogging() (err error) {
	redirect, err := l.settings.GetBool(settings.RedirectMessageLogging)
	if err != nil || !redirect {
		return
	}
	fileLoggers, err := l.newFileLoggers()
	if err != nil {
		return
	}
	combined, err := logs.NewCombinedLoggers(fileLoggers, l.loggers)
	if err != nil {
		_ = fileLoggers.Close()
		return
	}
	l.loggers = combined
	l.logger = logs.NewLogrLoggerFromLoggers(combined).WithValues("session", l.session)
	return
}

// Start initialises and hydrates the icon cache, loads the items and, if configured, starts watching the desktop folder and flushing the cache periodically.
func (l *Launcher) Start(ctx context.Context) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		err = commonerrors.New(commonerrors.ErrConflict, "launcher is closed")
		return
	}
	if l.started {
		err = commonerrors.New(commonerrors.ErrConflict, "launcher already started")
		return
	}
	l.logger.Info("starting Program Viewer", "application directory", l.cfg.ApplicationDirectory)
	err = l.cache.Initialise(ctx)
	if err != nil {
		return
	}
	err = l.cache.Hydrate(ctx)
	if err != nil {
		return
	}
	err = l.items.LoadItems(ctx)
	if err != nil {
		return
	}
	if l.cfg.Items.Watch {
		err = l.items.Watch(ctx)
		if err != nil {
			return
		}
	}
	flushCtx, cancel := context.WithCancel(ctx)
	l.stopFlushes = cancel
	l.waitFlushes = parallelisation.SchedulePeriodically(flushCtx, l.cfg.FlushPeriod, func(_ time.Time) {
		result, subErr := l.cache.Flush(flushCtx)
		if subErr != nil {
			if commonerrors.None(subErr, commonerrors.ErrCancelled) {
				l.logger.Error(subErr, "periodic flush failed")
			}
			return
		}
		l.logger.V(1).Info("periodic flush", "flush", result.ID, "written", result.Written)
	})
	l.started = true
	l.logger.Info("Program Viewer started", "hot items", len(l.items.HotItems()), "desktop items", len(l.items.DesktopItems()))
	return
}

func (l *Launcher) Items() *items.Manager {
	return l.items
}

func (l *Launcher) Cache() *iconcache.Manager {
	return l.cache
}

func (l *Launcher) Settings() *settings.Store {
	return l.settings
}

func (l *Launcher) Logger() logr.Logger {
	return l.logger
}

// Close stops the background work, flushes the icon cache, saves the settings and releases all resources. Errors are collated.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if l.stopFlushes != nil {
		l.stopFlushes()
		l.waitFlushes()
	}
	var errs []error
	errs = append(errs, l.items.Close())
	ctx := context.Background()
	if l.started {
		result, err := l.cache.Flush(ctx)
		errs = append(errs, err)
		if err == nil {
			l.logger.Info("icon cache saved", "records", result.Records, "written", result.Written)
		}
	}
	errs = append(errs, l.settings.Save(ctx))
	errs = append(errs, l.cache.Close())
	l.logger.Info("Program Viewer stopped")
	errs = append(errs, l.loggers.Close())
	return commonerrors.Join(errs...)
}
