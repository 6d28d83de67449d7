package filesystem

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

// File defines the file handles returned by an FS.
type File interface {
	afero.File
}

// FileTimeInfo describes the times recorded for a filesystem item.
type FileTimeInfo interface {
	ModTime() time.Time
	AccessTime() time.Time
	ChangeTime() time.Time
	BirthTime() time.Time
	HasChangeTime() bool
	HasBirthTime() bool
	HasAccessTime() bool
}

// FS describes the filesystem used by the cache, the item stores and the settings.
// It is backed by afero so that the OS filesystem can be swapped for an in-memory one.
type FS interface {
	// GetType returns the type of the filesystem.
	GetType() FilesystemType
	// PathSeparator returns the path separator of the filesystem.
	PathSeparator() rune
	// GenericOpen opens a file for reading.
	GenericOpen(name string) (File, error)
	// OpenFile is the generalised open call.
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	// CreateFile creates or truncates a file.
	CreateFile(name string) (File, error)
	Stat(name string) (os.FileInfo, error)
	// StatTimes returns the times of the filesystem item `name`.
	StatTimes(name string) (FileTimeInfo, error)
	// Chtimes changes the access and modification times of `name`.
	Chtimes(name string, atime time.Time, mtime time.Time) error
	// Exists checks whether a file or folder exists.
	Exists(path string) bool
	// IsFile states whether `path` is a regular file.
	IsFile(path string) (bool, error)
	// IsDir states whether `path` is a directory.
	IsDir(path string) (bool, error)
	// IsEmpty states whether a file or a directory is empty.
	IsEmpty(name string) (bool, error)
	// MkDir creates a directory and its parents if they do not exist.
	MkDir(dir string) error
	MkDirAll(dir string, perm os.FileMode) error
	// Rm removes a file or a directory and all its content.
	Rm(path string) error
	// RemoveWithContext is similar to Rm but can be cancelled.
	RemoveWithContext(ctx context.Context, path string) error
	// Ls lists the names of the items in `dir`.
	Ls(dir string) ([]string, error)
	// Lls lists the items in `dir`.
	Lls(dir string) ([]os.FileInfo, error)
	// ReadFile reads the whole file `filename`.
	ReadFile(filename string) ([]byte, error)
	// ReadFileWithContext is similar to ReadFile but can be cancelled.
	ReadFileWithContext(ctx context.Context, filename string) ([]byte, error)
	// WriteFile writes `data` to `filename`, creating it if necessary.
	WriteFile(filename string, data []byte, perm os.FileMode) error
	// WriteFileWithContext writes the content of `reader` to `filename`, creating it if necessary.
	WriteFileWithContext(ctx context.Context, filename string, reader io.Reader, perm os.FileMode) error
	// WriteWithContext opens `filename` for writing and hands the writer to `write`.
	WriteWithContext(ctx context.Context, filename string, perm os.FileMode, write func(w io.Writer) error) error
	// Move moves a file or a directory.
	Move(src string, dest string) error
	// Copy copies a file or a directory into the directory `dest`.
	Copy(src string, dest string) error
	// CopyWithContext is similar to Copy but can be cancelled.
	CopyWithContext(ctx context.Context, src string, dest string) error
	// TempDir creates a temporary directory in `dir`.
	TempDir(dir string, prefix string) (string, error)
	// TempDirInTempDir creates a temporary directory in the temporary directory of the filesystem.
	TempDirInTempDir(prefix string) (string, error)
	// TempDirectory returns the temporary directory of the filesystem.
	TempDirectory() string
}
