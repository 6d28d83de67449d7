package extraction

import (
	"context"
	"image"

	"github.com/go-logr/logr"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// FailureHook is called every time an extraction fails and a placeholder is substituted.
type FailureHook func(path string, err error)

// FallbackExtractor never fails: when the wrapped extractor errors, returns no image or panics, a placeholder is returned instead.
// Context cancellation is the only error reported.
type FallbackExtractor struct {
	extractor IconExtractor
	fs        filesystem.FS
	logger    logr.Logger
	onFailure FailureHook
}

// NewFallbackExtractor wraps `extractor`. `fs` is used to pick a folder or file placeholder and may be nil.
func NewFallbackExtractor(extractor IconExtractor, fs filesystem.FS, logger logr.Logger, onFailure FailureHook) *FallbackExtractor {
	return &FallbackExtractor{
		extractor: extractor,
		fs:        fs,
		logger:    logger,
		onFailure: onFailure,
	}
}

func (e *FallbackExtractor) ExtractIcon(ctx context.Context, path string) (img image.Image, err error) {
	if e.extractor == nil {
		err = commonerrors.UndefinedVariable("icon extractor")
	} else {
		img, err = safeExtract(ctx, e.extractor, path)
	}
	if err == nil {
		return
	}
	if commonerrors.Any(err, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
		img = nil
		return
	}
	e.logger.Error(err, "icon extraction failed, using a placeholder", "path", path)
	if e.onFailure != nil {
		e.onFailure(path, err)
	}
	img = Placeholder(e.kindOf(path))
	err = nil
	return
}

func (e *FallbackExtractor) kindOf(path string) ItemKind {
	if e.fs == nil {
		return KindFile
	}
	if isDir, err := e.fs.IsDir(path); err == nil && isDir {
		return KindFolder
	}
	return KindFile
}
