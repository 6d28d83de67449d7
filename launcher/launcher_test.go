package launcher

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
	"github.com/PandrPi/ProgramViewer3.0/extraction"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/iconcache"
	"github.com/PandrPi/ProgramViewer3.0/items"
	"github.com/PandrPi/ProgramViewer3.0/logs"
	"github.com/PandrPi/ProgramViewer3.0/logs/logstest"
	"github.com/PandrPi/ProgramViewer3.0/settings"
)

var appDir = filepath.Join(string(filepath.Separator), "program-viewer")

func newInMemoryLauncher(t *testing.T, fs filesystem.FS, cfg *Configuration) *Launcher {
	t.Helper()
	if !fs.Exists(filepath.Join(appDir, settings.DefaultSettingsFile)) {
		require.NoError(t, fs.WriteFile(filepath.Join(appDir, settings.DefaultSettingsFile), []byte(`{"RedirectMessageLogging": false}`), 0))
	}
	l, err := New(context.Background(), cfg, WithFilesystem(fs), WithExtractor(extraction.NewGenericExtractor(fs)), WithConsoleLogger(logstest.NewTestLogger(t)))
	require.NoError(t, err)
	return l
}

func populate(t *testing.T, fs filesystem.FS) (total int) {
	t.Helper()
	desktop := filepath.Join(appDir, items.DefaultDesktopDirectory)
	require.NoError(t, fs.MkDir(filepath.Join(desktop, "Projects")))
	for _, name := range []string{"budget.xlsx", "letter.docx", "photo.png"} {
		require.NoError(t, fs.WriteFile(filepath.Join(desktop, name), []byte(faker.Paragraph()), 0))
	}
	tool := filepath.Join(appDir, "tools", "editor.exe")
	require.NoError(t, fs.MkDir(filepath.Dir(tool)))
	require.NoError(t, fs.WriteFile(tool, []byte(faker.Word()), 0))
	require.NoError(t, fs.WriteFile(filepath.Join(appDir, items.DefaultHotItemsFile), []byte(`{"`+tool+`": "Editor"}`), 0))
	return 5
}

func TestConfigurationResolve(t *testing.T) {
	cfg := DefaultConfiguration(appDir)
	absolute := filepath.Join(string(filepath.Separator), "logs", "pv.log")
	cfg.Logging.LogFile = absolute
	cfg.Watch = true
	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appDir, settings.DefaultSettingsFile), resolved.SettingsFile)
	assert.Equal(t, filepath.Join(appDir, iconcache.DefaultCacheDirectory), resolved.Cache.CacheDirectory)
	assert.Equal(t, filepath.Join(appDir, items.DefaultDesktopDirectory), resolved.Items.DesktopDirectory)
	assert.Equal(t, filepath.Join(appDir, items.DefaultHotItemsFile), resolved.Items.HotItemsFile)
	assert.Equal(t, absolute, resolved.Logging.LogFile)
	assert.True(t, resolved.Items.Watch)
	// the original is left untouched
	assert.Equal(t, settings.DefaultSettingsFile, cfg.SettingsFile)
	assert.False(t, cfg.Items.Watch)
}

func TestConfigurationValidation(t *testing.T) {
	require.NoError(t, DefaultConfiguration(appDir).Validate())
	cfg := DefaultConfiguration("")
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration(appDir)
	cfg.FlushPeriod = -time.Second
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration(appDir)
	cfg.Cache.HashAlgorithm = faker.Word()
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration(appDir)
	cfg.Logging.LogFile = ""
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration(appDir)
	cfg.Logging.Backend = "syslog"
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration(appDir)
	cfg.Logging.Backend = ""
	assert.Error(t, cfg.Validate())
}

func TestNewErrors(t *testing.T) {
	_, err := New(context.Background(), nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	cfg := DefaultConfiguration(appDir)
	cfg.SettingsFile = ""
	_, err = New(context.Background(), cfg, WithFilesystem(filesystem.NewInMemoryFileSystem()))
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
}

func TestStartAndRestart(t *testing.T) {
	defer goleak.VerifyNone(t)
	fs := filesystem.NewInMemoryFileSystem()
	total := populate(t, fs)
	cfg := DefaultConfiguration(appDir)
	cfg.FlushPeriod = 0

	l := newInMemoryLauncher(t, fs, cfg)
	require.NoError(t, l.Start(context.Background()))
	errortest.AssertError(t, l.Start(context.Background()), commonerrors.ErrConflict)
	assert.Equal(t, []string{"Editor"}, titles(l.Items().HotItems()))
	assert.Equal(t, []string{"Projects", "budget", "letter", "photo"}, titles(l.Items().DesktopItems()))
	assert.Equal(t, uint64(total), l.Cache().Stats().Misses)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	errortest.AssertError(t, l.Start(context.Background()), commonerrors.ErrConflict)

	assert.True(t, fs.Exists(filepath.Join(appDir, iconcache.DefaultCacheDirectory, iconcache.DefaultIndexFile)))
	assert.True(t, fs.Exists(filepath.Join(appDir, settings.DefaultSettingsFile)))

	restarted := newInMemoryLauncher(t, fs, cfg)
	require.NoError(t, restarted.Start(context.Background()))
	defer func() { _ = restarted.Close() }()
	stats := restarted.Cache().Stats()
	assert.Zero(t, stats.Misses)
	assert.Equal(t, uint64(total), stats.Hits)
	assert.Equal(t, total, stats.Paths)
}

func TestPeriodicFlush(t *testing.T) {
	defer goleak.VerifyNone(t)
	fs := filesystem.NewInMemoryFileSystem()
	populate(t, fs)
	cfg := DefaultConfiguration(appDir)
	cfg.FlushPeriod = 10 * time.Millisecond
	l := newInMemoryLauncher(t, fs, cfg)
	require.NoError(t, l.Start(context.Background()))
	defer func() { require.NoError(t, l.Close()) }()

	images := filepath.Join(appDir, iconcache.DefaultCacheDirectory, iconcache.DefaultImagesDirectory)
	stored, err := fs.Ls(images)
	require.NoError(t, err)
	archive := filepath.Join(appDir, "archive.zip")
	require.NoError(t, fs.WriteFile(archive, []byte(faker.Paragraph()), 0))
	require.NoError(t, l.Items().AddItem(context.Background(), "Archive", archive, items.Hot, false))
	require.Eventually(t, func() bool {
		files, err := fs.Ls(images)
		return err == nil && len(files) == len(stored)+1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRedirectMessageLogging(t *testing.T) {
	fs := filesystem.NewStandardFileSystem()
	root, err := fs.TempDirInTempDir("test-launcher-")
	require.NoError(t, err)
	defer func() { _ = fs.Rm(root) }()
	cfg := DefaultConfiguration(root)
	cfg.FlushPeriod = 0

	l, err := New(context.Background(), cfg, WithFilesystem(fs), WithExtractor(extraction.NewGenericExtractor(fs)), WithConsoleLogger(logstest.NewTestLogger(t)))
	require.NoError(t, err)
	require.NoError(t, l.Start(context.Background()))
	require.NoError(t, l.Close())

	content, err := fs.ReadFile(filepath.Join(root, DefaultLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Program Viewer started")
	assert.True(t, fs.Exists(filepath.Join(root, settings.DefaultSettingsFile)))
}

func TestConsoleBackends(t *testing.T) {
	for i := range logs.Backends {
		backend := logs.Backends[i]
		t.Run(backend, func(t *testing.T) {
			fs := filesystem.NewInMemoryFileSystem()
			require.NoError(t, fs.WriteFile(filepath.Join(appDir, settings.DefaultSettingsFile), []byte(`{"RedirectMessageLogging": false}`), 0))
			populate(t, fs)
			cfg := DefaultConfiguration(appDir)
			cfg.FlushPeriod = 0
			cfg.Logging.Backend = backend
			l, err := New(context.Background(), cfg, WithFilesystem(fs), WithExtractor(extraction.NewGenericExtractor(fs)))
			require.NoError(t, err)
			require.NoError(t, l.Start(context.Background()))
			assert.NotEmpty(t, l.Items().HotItems())
			require.NoError(t, l.Close())
		})
	}
}

func TestRedirectMessageLoggingWithoutRotation(t *testing.T) {
	fs := filesystem.NewStandardFileSystem()
	root, err := fs.TempDirInTempDir("test-launcher-")
	require.NoError(t, err)
	defer func() { _ = fs.Rm(root) }()
	cfg := DefaultConfiguration(root)
	cfg.FlushPeriod = 0
	cfg.Logging.Backend = logs.BackendNone
	cfg.Logging.Rotate = false

	l, err := New(context.Background(), cfg, WithFilesystem(fs), WithExtractor(extraction.NewGenericExtractor(fs)))
	require.NoError(t, err)
	require.NoError(t, l.Start(context.Background()))
	logFile := filepath.Join(root, DefaultLogFile)
	require.Eventually(t, func() bool {
		content, subErr := fs.ReadFile(logFile)
		return subErr == nil && strings.Contains(string(content), "Program Viewer started")
	}, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, l.Close())
	assert.False(t, fs.Exists(logFile+".1"))
}

func titles(list []items.ItemData) (t []string) {
	for i := range list {
		t = append(t, list[i].Title)
	}
	return
}
