package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
)

func TestReadWriteFile(t *testing.T) {
	defer goleak.VerifyNone(t)
	for _, fsType := range FileSystemTypes {
		t.Run(fsType.String(), func(t *testing.T) {
			fs := NewFs(fsType)
			tmpDir, err := fs.TempDirInTempDir("test-rw-")
			require.NoError(t, err)
			defer func() { _ = fs.Rm(tmpDir) }()

			content := []byte(faker.Paragraph())
			path := filepath.Join(tmpDir, "sub", faker.Word()+".txt")
			require.NoError(t, fs.MkDir(filepath.Dir(path)))
			require.NoError(t, fs.WriteFile(path, content, 0))
			assert.True(t, fs.Exists(path))
			isFile, err := fs.IsFile(path)
			require.NoError(t, err)
			assert.True(t, isFile)

			read, err := fs.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, content, read)

			names, err := fs.Ls(filepath.Dir(path))
			require.NoError(t, err)
			assert.Equal(t, []string{filepath.Base(path)}, names)

			require.NoError(t, fs.Rm(path))
			assert.False(t, fs.Exists(path))
			_, err = fs.ReadFile(path)
			errortest.AssertError(t, err, commonerrors.ErrNotFound)
		})
	}
}

func TestWriteWithCancelledContext(t *testing.T) {
	fs := NewInMemoryFileSystem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fs.WriteFileWithContext(ctx, faker.Word(), bytes.NewReader([]byte(faker.Sentence())), 0)
	errortest.AssertError(t, err, commonerrors.ErrCancelled)
	err = fs.WriteWithContext(context.Background(), faker.Word(), 0, nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	err = fs.WriteWithContext(context.Background(), faker.Word(), 0, func(w io.Writer) error {
		return commonerrors.ErrUnexpected
	})
	errortest.AssertError(t, err, commonerrors.ErrUnexpected)
}

func TestMoveAndCopy(t *testing.T) {
	fs := NewInMemoryFileSystem()
	src := filepath.Join("/", "src", "file.txt")
	require.NoError(t, fs.MkDir(filepath.Dir(src)))
	require.NoError(t, fs.WriteFile(src, []byte(faker.Sentence()), 0))

	require.NoError(t, fs.Copy(src, filepath.Join("/", "copy")))
	assert.True(t, fs.Exists(filepath.Join("/", "copy", "file.txt")))
	assert.True(t, fs.Exists(src))

	dest := filepath.Join("/", "moved", "renamed.txt")
	require.NoError(t, fs.Move(src, dest))
	assert.True(t, fs.Exists(dest))
	assert.False(t, fs.Exists(src))

	errortest.AssertError(t, fs.Move(src, dest), commonerrors.ErrNotFound)
}

func TestMkDirOverFile(t *testing.T) {
	fs := NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile("/a", []byte("a"), 0))
	errortest.AssertError(t, fs.MkDir("/a"), commonerrors.ErrConflict)
	errortest.AssertError(t, fs.MkDir(""), commonerrors.ErrInvalidDestination)
	_, err := fs.Ls("/a")
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
}

func TestStatTimes(t *testing.T) {
	for _, fsType := range FileSystemTypes {
		t.Run(fsType.String(), func(t *testing.T) {
			fs := NewFs(fsType)
			tmpDir, err := fs.TempDirInTempDir("test-times-")
			require.NoError(t, err)
			defer func() { _ = fs.Rm(tmpDir) }()
			path := filepath.Join(tmpDir, "file")
			require.NoError(t, fs.WriteFile(path, []byte(faker.Word()), 0))
			mtime := time.Date(2021, 3, 4, 5, 6, 7, 8, time.Local)
			require.NoError(t, fs.Chtimes(path, mtime, mtime))
			times, err := fs.StatTimes(path)
			require.NoError(t, err)
			assert.True(t, mtime.Equal(times.ModTime()))
			info, err := fs.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, time.Date(2021, 3, 4, 5, 6, 7, 0, time.Local).UTC(), LastWriteTime(info))
		})
	}
	_, err := DetermineFileTimes(nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestIsPathExcluded(t *testing.T) {
	patterns := []string{"desktop.ini", "~$*", "*.tmp"}
	tests := []struct {
		path     string
		excluded bool
	}{
		{path: filepath.Join("home", "Desktop", "desktop.ini"), excluded: true},
		{path: filepath.Join("home", "Desktop", "Desktop.INI"), excluded: true},
		{path: filepath.Join("home", "Desktop", "~$report.docx"), excluded: true},
		{path: filepath.Join("home", "Desktop", "file.tmp"), excluded: true},
		{path: filepath.Join("home", "Desktop", "report.docx"), excluded: false},
		{path: "", excluded: false},
	}
	for i := range tests {
		test := tests[i]
		t.Run(fmt.Sprintf("%v_%v", i, test.path), func(t *testing.T) {
			assert.Equal(t, test.excluded, IsPathExcluded(test.path, patterns...))
		})
	}
	cleansed, err := ExcludeFiles([]string{"a.tmp", "b.txt"}, patterns...)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, cleansed)
	_, err = ExcludeFiles([]string{"a"}, "[")
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "report", FilepathStem(filepath.Join("a", "report.docx")))
	assert.Empty(t, NormalisePath(""))
	assert.Equal(t, filepath.Join("a", "b"), NormalisePath(filepath.Join("a", ".", "b")))
	expanded, err := ExpandPath(filepath.Join("~", "icons"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(expanded))
	assert.Equal(t, "icons", filepath.Base(expanded))
}

func TestConvertFileSystemError(t *testing.T) {
	assert.NoError(t, ConvertFileSystemError(nil))
	fs := NewInMemoryFileSystem()
	_, err := fs.GenericOpen(faker.Word())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	assert.True(t, IsPathNotExist(err))
	assert.False(t, IsPathNotExist(commonerrors.ErrUnexpected))
}
