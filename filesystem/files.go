package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dolmen-go/contextio"
	"github.com/spf13/afero"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

const (
	defaultDirPerm  os.FileMode = 0755
	defaultFilePerm os.FileMode = 0644
)

type VFS struct {
	vfs    afero.Fs
	fsType FilesystemType
}

// NewVirtualFileSystem wraps an afero filesystem.
func NewVirtualFileSystem(vfs afero.Fs, fsType FilesystemType) FS {
	return &VFS{
		vfs:    vfs,
		fsType: fsType,
	}
}

func (fs *VFS) GetType() FilesystemType {
	return fs.fsType
}

func (fs *VFS) PathSeparator() rune {
	return os.PathSeparator
}

func (fs *VFS) GenericOpen(name string) (File, error) {
	f, err := fs.vfs.Open(name)
	return f, ConvertFileSystemError(err)
}

func (fs *VFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := fs.vfs.OpenFile(name, flag, perm)
	return f, ConvertFileSystemError(err)
}

func (fs *VFS) CreateFile(name string) (File, error) {
	f, err := fs.vfs.Create(name)
	return f, ConvertFileSystemError(err)
}

func (fs *VFS) Stat(name string) (os.FileInfo, error) {
	return fs.vfs.Stat(name)
}

func (fs *VFS) StatTimes(name string) (info FileTimeInfo, err error) {
	stat, err := fs.Stat(name)
	if err != nil {
		err = ConvertFileSystemError(err)
		return
	}
	return DetermineFileTimes(stat)
}

func (fs *VFS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return ConvertFileSystemError(fs.vfs.Chtimes(name, atime, mtime))
}

func (fs *VFS) Exists(path string) bool {
	fi, err := fs.Stat(path)
	if err != nil || fi == nil {
		return false
	}
	return true
}

func (fs *VFS) IsFile(path string) (result bool, err error) {
	fi, err := fs.Stat(path)
	if err != nil {
		err = ConvertFileSystemError(err)
		return
	}
	result = fi.Mode().IsRegular()
	return
}

func (fs *VFS) IsDir(path string) (result bool, err error) {
	fi, err := fs.Stat(path)
	if err != nil {
		err = ConvertFileSystemError(err)
		return
	}
	result = fi.IsDir()
	return
}

func (fs *VFS) IsEmpty(name string) (empty bool, err error) {
	fi, err := fs.Stat(name)
	if err != nil {
		err = ConvertFileSystemError(err)
		return
	}
	if !fi.IsDir() {
		empty = fi.Size() == 0
		return
	}
	return afero.IsEmpty(fs.vfs, name)
}

func (fs *VFS) MkDir(dir string) error {
	return fs.MkDirAll(dir, defaultDirPerm)
}

func (fs *VFS) MkDirAll(dir string, perm os.FileMode) (err error) {
	if dir == "" {
		return commonerrors.New(commonerrors.ErrInvalidDestination, "empty directory path")
	}
	if isDir, subErr := fs.IsDir(dir); subErr == nil {
		if isDir {
			return
		}
		return commonerrors.Newf(commonerrors.ErrConflict, "path [%v] exists and is not a directory", dir)
	}
	err = ConvertFileSystemError(fs.vfs.MkdirAll(dir, perm))
	return
}

func (fs *VFS) Rm(path string) error {
	return fs.RemoveWithContext(context.Background(), path)
}

func (fs *VFS) RemoveWithContext(ctx context.Context, path string) (err error) {
	if path == "" {
		return
	}
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if !fs.Exists(path) {
		return
	}
	err = ConvertFileSystemError(fs.vfs.RemoveAll(path))
	return
}

func (fs *VFS) Ls(dir string) (names []string, err error) {
	if isDir, subErr := fs.IsDir(dir); !isDir || subErr != nil {
		return nil, commonerrors.WrapErrorf(commonerrors.ErrInvalid, subErr, "path [%v] is not a directory", dir)
	}
	f, err := fs.GenericOpen(dir)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	names, err = f.Readdirnames(-1)
	return
}

func (fs *VFS) Lls(dir string) (files []os.FileInfo, err error) {
	if isDir, subErr := fs.IsDir(dir); !isDir || subErr != nil {
		return nil, commonerrors.WrapErrorf(commonerrors.ErrInvalid, subErr, "path [%v] is not a directory", dir)
	}
	return afero.ReadDir(fs.vfs, dir)
}

func (fs *VFS) ReadFile(filename string) ([]byte, error) {
	return fs.ReadFileWithContext(context.Background(), filename)
}

func (fs *VFS) ReadFileWithContext(ctx context.Context, filename string) (content []byte, err error) {
	f, err := fs.GenericOpen(filename)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	var bufferCapacity int64 = bytes.MinRead
	if fi, subErr := f.Stat(); subErr == nil {
		// Don't preallocate a huge buffer, just in case.
		if size := fi.Size(); size < 1e9 {
			bufferCapacity += size
		}
	}
	buf := bytes.NewBuffer(make([]byte, 0, bufferCapacity))
	_, err = buf.ReadFrom(contextio.NewReader(ctx, f))
	if err != nil {
		err = commonerrors.ConvertContextError(err)
		return
	}
	content = buf.Bytes()
	return
}

func (fs *VFS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return fs.WriteFileWithContext(context.Background(), filename, bytes.NewReader(data), perm)
}

func (fs *VFS) WriteFileWithContext(ctx context.Context, filename string, reader io.Reader, perm os.FileMode) error {
	if reader == nil {
		return commonerrors.UndefinedVariable("reader")
	}
	return fs.WriteWithContext(ctx, filename, perm, func(w io.Writer) error {
		_, err := io.Copy(w, reader)
		return err
	})
}

func (fs *VFS) WriteWithContext(ctx context.Context, filename string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	if write == nil {
		err = commonerrors.UndefinedVariable("write function")
		return
	}
	if perm == 0 {
		perm = defaultFilePerm
	}
	f, err := fs.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	err = write(contextio.NewWriter(ctx, f))
	if err != nil {
		err = commonerrors.ConvertContextError(err)
		return
	}
	err = ConvertFileSystemError(f.Close())
	return
}

func (fs *VFS) Move(src string, dest string) (err error) {
	if src == dest {
		return
	}
	if !fs.Exists(src) {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "path [%v] does not exist", src)
		return
	}
	err = fs.MkDir(filepath.Dir(dest))
	if err != nil {
		return
	}
	err = fs.vfs.Rename(src, dest)
	if err == nil {
		return
	}
	// Renaming across devices fails: falling back to copy and delete.
	err = copyBetween(context.Background(), fs, src, fs, dest)
	if err != nil {
		return
	}
	err = fs.Rm(src)
	return
}

func (fs *VFS) Copy(src string, dest string) error {
	return fs.CopyWithContext(context.Background(), src, dest)
}

func (fs *VFS) CopyWithContext(ctx context.Context, src string, dest string) error {
	return CopyBetweenFS(ctx, fs, src, fs, dest)
}

func (fs *VFS) TempDir(dir string, prefix string) (string, error) {
	return afero.TempDir(fs.vfs, dir, prefix)
}

func (fs *VFS) TempDirInTempDir(prefix string) (string, error) {
	return fs.TempDir("", prefix)
}

func (fs *VFS) TempDirectory() string {
	return afero.GetTempDir(fs.vfs, "")
}

// CopyBetweenFS copies `src` into the directory `dest`.
func CopyBetweenFS(ctx context.Context, srcFs FS, src string, destFs FS, dest string) (err error) {
	if srcFs == destFs && src == dest {
		return
	}
	if !srcFs.Exists(src) {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "path [%v] does not exist", src)
		return
	}
	err = destFs.MkDir(dest)
	if err != nil {
		return
	}
	err = copyBetween(ctx, srcFs, src, destFs, filepath.Join(dest, filepath.Base(src)))
	return
}

func copyBetween(ctx context.Context, srcFs FS, src string, destFs FS, dest string) (err error) {
	err = parallelisation.DetermineContextError(ctx)
	if err != nil {
		return
	}
	isDir, err := srcFs.IsDir(src)
	if err != nil {
		return
	}
	if !isDir {
		err = copyFileBetweenFS(ctx, srcFs, src, destFs, dest)
		return
	}
	err = destFs.MkDir(dest)
	if err != nil {
		return
	}
	files, err := srcFs.Ls(src)
	if err != nil {
		return
	}
	for i := range files {
		err = copyBetween(ctx, srcFs, filepath.Join(src, files[i]), destFs, filepath.Join(dest, files[i]))
		if err != nil {
			return
		}
	}
	return
}

func copyFileBetweenFS(ctx context.Context, srcFs FS, src string, destFs FS, dest string) (err error) {
	inputFile, err := srcFs.GenericOpen(src)
	if err != nil {
		return
	}
	defer func() { _ = inputFile.Close() }()
	info, err := inputFile.Stat()
	if err != nil {
		return
	}
	err = destFs.WriteFileWithContext(ctx, dest, inputFile, info.Mode().Perm())
	if err != nil {
		err = fmt.Errorf("could not copy [%v] to [%v]: %w", src, dest, err)
	}
	return
}
