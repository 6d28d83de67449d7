package iconcache

import (
	"context"
	"image"
	"io"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/extraction"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/hashing"
	"github.com/PandrPi/ProgramViewer3.0/idgen"
	"github.com/PandrPi/ProgramViewer3.0/imagecodec"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
	"github.com/PandrPi/ProgramViewer3.0/retry"
)

// Stats are the usage counters of a cache.
type Stats struct {
	Hits               uint64
	Misses             uint64
	ExtractionFailures uint64
	Paths              int
	Images             int
}

// FlushResult summarises a flush.
type FlushResult struct {
	ID         string
	Written    int
	Unchanged  int
	Failed     int
	Records    int
	IndexSaved bool
	Duration   time.Duration
}

var _ IIconCache = &Manager{}

type Option func(*Manager)

// WithDispatcher makes every extraction go through a Dispatcher owned by the cache, so that thread-affine extractors are always called from the same OS thread.
func WithDispatcher() Option {
	return func(m *Manager) {
		m.useDispatcher = true
	}
}

// WithResources registers resources to close when the cache is released.
func WithResources(resources ...io.Closer) Option {
	return func(m *Manager) {
		m.resources.RegisterCloser(resources...)
	}
}

// Manager is the icon cache. It must be initialised and hydrated before icons are requested.
type Manager struct {
	cfg           *Configuration
	fs            filesystem.FS
	logger        logr.Logger
	extractor     extraction.IconExtractor
	useDispatcher bool
	resources     *parallelisation.CloserStore

	bindMu deadlock.Mutex
	paths  *pathTable
	images *imageTable

	recordsMu deadlock.Mutex
	records   Index

	hydrated atomic.Bool
	closed   atomic.Bool

	hits     atomic.Uint64
	misses   atomic.Uint64
	failures atomic.Uint64
}

// NewManager returns an icon cache storing its files in `fs` according to `cfg`. Icons of unknown paths are obtained from `extractor`; extraction failures are replaced by placeholders.
func NewManager(cfg *Configuration, fs filesystem.FS, extractor extraction.IconExtractor, logger logr.Logger, opts ...Option) (m *Manager, err error) {
	if cfg == nil {
		err = commonerrors.UndefinedVariable("cache configuration")
		return
	}
	err = cfg.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid cache configuration")
		return
	}
	if fs == nil {
		err = commonerrors.UndefinedVariable("filesystem")
		return
	}
	if extractor == nil {
		err = commonerrors.UndefinedVariable("icon extractor")
		return
	}
	m = &Manager{
		cfg:       cfg,
		fs:        fs,
		logger:    logger.WithName("icon-cache"),
		resources: parallelisation.NewCloserStore(false),
		paths:     newPathTable(),
		images:    newImageTable(),
		records:   Index{},
	}
	for i := range opts {
		if opts[i] != nil {
			opts[i](m)
		}
	}
	if m.useDispatcher {
		dispatcher, subErr := extraction.NewDispatcher(extractor, m.logger, cfg.ExtractionQueueSize)
		if subErr != nil {
			err = subErr
			m = nil
			return
		}
		m.resources.RegisterCloser(dispatcher)
		extractor = dispatcher
	}
	m.extractor = extraction.NewFallbackExtractor(extractor, fs, m.logger, func(string, error) {
		m.failures.Inc()
	})
	return
}

func (m *Manager) checkOpen() error {
	if m.closed.Load() {
		return commonerrors.New(commonerrors.ErrConflict, "cache is closed")
	}
	return nil
}

func (m *Manager) imagePath(hash string) string {
	return filepath.Join(m.cfg.ImagesPath(), hash+imagecodec.Extension)
}

func (m *Manager) Initialise(ctx context.Context) (err error) {
	err = m.checkOpen()
	if err != nil {
		return
	}
	for _, dir := range []string{m.cfg.CacheDirectory, m.cfg.ImagesPath()} {
		existed := m.fs.Exists(dir)
		err = m.fs.MkDir(dir)
		if err != nil {
			err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "could not create cache directory [%v]", dir)
			return
		}
		if !existed {
			m.logger.Info("directory created", "path", dir)
		}
	}
	_, err = LoadIndex(ctx, m.fs, m.cfg.IndexPath(), m.logger)
	return
}

func (m *Manager) Hydrate(ctx context.Context) (err error) {
	err = m.checkOpen()
	if err != nil {
		return
	}
	start := time.Now()
	index, err := LoadIndex(ctx, m.fs, m.cfg.IndexPath(), m.logger)
	if err != nil {
		return
	}

	group := parallelisation.NewExecutionGroup[*IconRecord](m.hydrateRecord, parallelisation.ExecuteAll, parallelisation.Workers(m.cfg.Workers))
	for _, record := range index {
		group.RegisterFunction(record)
	}
	err = group.Execute(ctx)
	if err != nil {
		return
	}

	m.recordsMu.Lock()
	for hash, record := range index {
		if existing, ok := m.records[hash]; ok {
			existing.SourcePaths.Append(record.SourcePaths.ToSlice()...)
			if record.LastWriteTime.IsZero() {
				existing.LastWriteTime = record.LastWriteTime
			}
			continue
		}
		m.records[hash] = record
	}
	m.recordsMu.Unlock()

	m.hydrated.Store(true)
	m.logger.Info("icon cache hydrated", "records", index.Len(), "paths", m.paths.Len(), "images", m.images.Len(), "duration", time.Since(start))
	return
}

func (m *Manager) hydrateRecord(ctx context.Context, record *IconRecord) error {
	record.SourcePaths.Each(func(path string) bool {
		if actual, loaded := m.paths.LoadOrStore(path, record.Hash); loaded && actual != record.Hash {
			m.logger.Info("path referenced by several icon records", "path", path, "kept", actual, "ignored", record.Hash)
		}
		return false
	})
	imagePath := m.imagePath(record.Hash)
	data, err := m.fs.ReadFileWithContext(ctx, imagePath)
	if err == nil {
		var img *image.NRGBA
		img, err = imagecodec.DecodeBytes(data)
		if err == nil {
			m.images.LoadOrStore(record.Hash, img)
			return nil
		}
	}
	if ctxErr := parallelisation.DetermineContextError(ctx); ctxErr != nil {
		return ctxErr
	}
	// The icon is extracted again the next time one of its paths is requested and its file is rewritten by the next flush.
	record.LastWriteTime = time.Time{}
	m.logger.Error(err, "could not load cached icon", "hash", record.Hash, "path", imagePath)
	return nil
}

func (m *Manager) GetIcon(ctx context.Context, path string) (img image.Image, err error) {
	err = m.checkOpen()
	if err != nil {
		return
	}
	if !m.hydrated.Load() {
		err = commonerrors.New(commonerrors.ErrCondition, "icon cache has not been hydrated")
		return
	}
	key := filesystem.NormalisePath(path)
	if key == "" {
		err = commonerrors.UndefinedVariable("path")
		return
	}
	known, isKnown := m.paths.Load(key)
	if isKnown {
		if cached, ok := m.images.Load(known); ok {
			m.hits.Inc()
			img = cached
			return
		}
	}
	m.misses.Inc()

	extracted, err := m.extractor.ExtractIcon(ctx, key)
	if err != nil {
		return
	}
	normalised := imagecodec.Normalise(extracted)
	hash, err := m.digest(ctx, normalised)
	if err != nil {
		return
	}
	img, bound := m.bind(key, hash, normalised)
	if !bound {
		return
	}
	m.logger.V(1).Info("icon extracted", "path", key, "hash", hash)
	return
}

// bind associates `path` with `hash` and stores `img` under it, unless another extraction already bound the path to an available image, which is then returned.
// Paths and images are updated together so that an extraction losing a race leaves no image behind.
func (m *Manager) bind(path, hash string, img *image.NRGBA) (actual image.Image, bound bool) {
	m.bindMu.Lock()
	defer m.bindMu.Unlock()
	if current, known := m.paths.Load(path); known && current != hash {
		if winner, ok := m.images.Load(current); ok {
			actual = winner
			return
		}
		// The path was registered by the index but its image could not be loaded.
	}
	m.paths.Store(path, hash)
	actual, _ = m.images.LoadOrStore(hash, img)
	bound = true
	return
}

func (m *Manager) digest(ctx context.Context, img image.Image) (string, error) {
	algo, err := hashing.NewHashingAlgorithm(m.cfg.HashAlgorithm)
	if err != nil {
		return "", err
	}
	return imagecodec.PixelDigest(ctx, algo, img)
}

func (m *Manager) HashOf(path string) (string, bool) {
	return m.paths.Load(filesystem.NormalisePath(path))
}

func (m *Manager) Stats() Stats {
	return Stats{
		Hits:               m.hits.Load(),
		Misses:             m.misses.Load(),
		ExtractionFailures: m.failures.Load(),
		Paths:              m.paths.Len(),
		Images:             m.images.Len(),
	}
}

func (m *Manager) Flush(ctx context.Context) (result FlushResult, err error) {
	err = m.checkOpen()
	if err != nil {
		return
	}
	start := time.Now()
	result.ID, _ = idgen.GenerateSortableID()
	logger := m.logger.WithValues("flush", result.ID)

	m.recordsMu.Lock()
	defer m.recordsMu.Unlock()

	m.images.Range(func(hash string, img *image.NRGBA) bool {
		err = parallelisation.DetermineContextError(ctx)
		if err != nil {
			return false
		}
		written, subErr := m.flushImage(ctx, logger, hash, img)
		switch {
		case commonerrors.Any(subErr, commonerrors.ErrCancelled, commonerrors.ErrTimeout):
			err = subErr
			return false
		case subErr != nil:
			result.Failed++
			logger.Error(subErr, "could not save icon", "hash", hash)
		case written:
			result.Written++
		default:
			result.Unchanged++
		}
		return true
	})
	if err != nil {
		return
	}

	m.mergeMembership()
	result.Records = m.records.Len()
	result.IndexSaved = SaveIndex(ctx, m.fs, m.cfg.IndexPath(), m.records, logger)
	result.Duration = time.Since(start)
	err = parallelisation.DetermineContextError(ctx)
	logger.Info("icon cache flushed", "written", result.Written, "unchanged", result.Unchanged, "failed", result.Failed, "indexSaved", result.IndexSaved, "duration", result.Duration)
	return
}

// flushImage writes `img` unless its file is present with the modification time recorded in the index.
func (m *Manager) flushImage(ctx context.Context, logger logr.Logger, hash string, img *image.NRGBA) (written bool, err error) {
	path := m.imagePath(hash)
	record, hasRecord := m.records[hash]
	if info, subErr := m.fs.Stat(path); subErr == nil && hasRecord && filesystem.LastWriteTime(info).Equal(record.LastWriteTime) {
		return
	}
	err = retry.RetryOnError(ctx, logger, &m.cfg.WriteRetry, func() error {
		return m.fs.WriteWithContext(ctx, path, 0, func(w io.Writer) error {
			return imagecodec.Encode(ctx, w, img)
		})
	}, "could not write icon file", commonerrors.ErrLocked, commonerrors.ErrUnexpected)
	if err != nil {
		return
	}
	info, err := m.fs.Stat(path)
	if err != nil {
		err = filesystem.ConvertFileSystemError(err)
		return
	}
	m.records.Record(hash).LastWriteTime = filesystem.LastWriteTime(info)
	written = true
	return
}

// mergeMembership moves every known path into the record of its hash.
func (m *Manager) mergeMembership() {
	m.paths.Range(func(path, hash string) bool {
		if record, ok := m.records[hash]; ok {
			record.SourcePaths.Add(path)
		}
		return true
	})
	for hash, record := range m.records {
		for _, path := range record.SourcePaths.ToSlice() {
			if current, ok := m.paths.Load(path); ok && current != hash {
				record.SourcePaths.Remove(path)
			}
		}
	}
}

func (m *Manager) ReleaseResources() error {
	if !m.closed.CompareAndSwap(false, true) {
		return commonerrors.New(commonerrors.ErrConflict, "cache is closed")
	}
	err := m.resources.Close()
	m.logger.V(1).Info("icon cache resources released")
	return err
}

func (m *Manager) Close() error {
	return m.ReleaseResources()
}
