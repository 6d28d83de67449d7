// Package filesystem wraps afero filesystems with the helpers needed to persist the icon cache and the launcher items.
package filesystem

import (
	"errors"
	"os"

	"github.com/spf13/afero"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

type FilesystemType int

const (
	StandardFS FilesystemType = iota
	InMemoryFS
)

var (
	FileSystemTypes = []FilesystemType{StandardFS, InMemoryFS}
	ErrPathNotExist = errors.New("readdirent: no such file or directory")
)

func (t FilesystemType) String() string {
	switch t {
	case StandardFS:
		return "standard"
	case InMemoryFS:
		return "in-memory"
	}
	return "unknown"
}

func NewInMemoryFileSystem() FS {
	return NewVirtualFileSystem(afero.NewMemMapFs(), InMemoryFS)
}

func NewStandardFileSystem() FS {
	return NewVirtualFileSystem(afero.NewOsFs(), StandardFS)
}

// NewFs returns a filesystem of type `fsType`. The OS filesystem is returned for unknown types.
func NewFs(fsType FilesystemType) FS {
	switch fsType {
	case StandardFS:
		return NewStandardFileSystem()
	case InMemoryFS:
		return NewInMemoryFileSystem()
	}
	return NewStandardFileSystem()
}

// ConvertFileSystemError converts file system error into common errors
func ConvertFileSystemError(err error) error {
	if err == nil {
		return nil
	}
	if commonerrors.Any(err, os.ErrExist) || commonerrors.CorrespondTo(err, "file exists", "file already exists") {
		return commonerrors.WrapError(commonerrors.ErrExists, err, "")
	}
	if IsPathNotExist(err) {
		return commonerrors.WrapError(commonerrors.ErrNotFound, err, "")
	}
	if commonerrors.Any(err, os.ErrPermission) {
		return commonerrors.WrapError(commonerrors.ErrLocked, err, "")
	}
	return err
}

// IsPathNotExist states whether the error is the result of a missing path.
func IsPathNotExist(err error) bool {
	if err == nil {
		return false
	}
	return os.IsNotExist(err) || commonerrors.Any(err, ErrPathNotExist, os.ErrNotExist)
}
