package extraction

import (
	"context"
	"image"
	"path/filepath"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

// GenericExtractor synthesises icons from the kind of item: one icon for folders and one per file extension.
// Image files get a thumbnail of their content instead, or their extension icon when they cannot be decoded.
// It does not depend on any platform API.
type GenericExtractor struct {
	fs filesystem.FS
}

func NewGenericExtractor(fs filesystem.FS) *GenericExtractor {
	return &GenericExtractor{fs: fs}
}

func (e *GenericExtractor) ExtractIcon(ctx context.Context, path string) (img image.Image, err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if e.fs == nil {
		err = commonerrors.UndefinedVariable("filesystem")
		return
	}
	isDir, err := e.fs.IsDir(path)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrNotFound, err, "could not extract icon of [%v]", path)
		return
	}
	if isDir {
		img = Placeholder(KindFolder)
		return
	}
	if HasThumbnail(path) {
		thumbnail, subErr := Thumbnail(ctx, e.fs, path)
		if subErr == nil {
			img = thumbnail
			return
		}
		err = parallelisation.DetermineContextError(ctx)
		if err != nil {
			return
		}
	}
	img = ExtensionIcon(filepath.Ext(path))
	return
}
