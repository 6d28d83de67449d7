package items

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
	"github.com/PandrPi/ProgramViewer3.0/extraction"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/iconcache"
	"github.com/PandrPi/ProgramViewer3.0/logs/logstest"
)

var appDir = filepath.Join(string(filepath.Separator), "program-viewer")

type fakeIcons struct {
	gets    atomic.Int32
	flushes atomic.Int32
}

func (f *fakeIcons) GetIcon(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, commonerrors.ConvertContextError(err)
	}
	f.gets.Inc()
	return extraction.ExtensionIcon(filepath.Ext(path)), nil
}

func (f *fakeIcons) Flush(ctx context.Context) (iconcache.FlushResult, error) {
	f.flushes.Inc()
	return iconcache.FlushResult{}, nil
}

func testConfiguration(root string) *Configuration {
	cfg := DefaultConfiguration()
	cfg.DesktopDirectory = filepath.Join(root, DefaultDesktopDirectory)
	cfg.HotItemsFile = filepath.Join(root, DefaultHotItemsFile)
	return cfg
}

func titles(items []ItemData) (t []string) {
	for i := range items {
		t = append(t, items[i].Title)
	}
	return
}

func TestComparer(t *testing.T) {
	comparer := NewComparer("en")
	folder := ItemData{Title: "zebra", PathType: Folder}
	file := ItemData{Title: "apple", PathType: File}
	assert.Negative(t, comparer.Compare(folder, file))
	assert.Positive(t, comparer.Compare(file, folder))
	assert.Negative(t, comparer.Compare(ItemData{Title: "apple"}, ItemData{Title: "Banana"}))
	assert.Negative(t, comparer.Compare(ItemData{Title: "file2"}, ItemData{Title: "file10"}))
	assert.Zero(t, comparer.Compare(ItemData{Title: "Notes"}, ItemData{Title: "notes"}))
	// unknown locales fall back to the root collation
	assert.Negative(t, NewComparer(faker.Sentence()).Compare(ItemData{Title: "a"}, ItemData{Title: "B"}))
}

func TestItemListInsertIfAbsent(t *testing.T) {
	list := NewItemList(NewComparer("en"), ItemData{Title: "Alpha", Path: "a", PathType: File})
	index, inserted := list.InsertIfAbsent(ItemData{Title: "Another alpha", Path: "a", PathType: File})
	assert.False(t, inserted)
	assert.Equal(t, 0, index)

	var wg sync.WaitGroup
	created := atomic.NewInt32(0)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("file-%d", i%4)
			if _, ok := list.InsertIfAbsent(ItemData{Title: path, Path: path, PathType: File}); ok {
				created.Inc()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(4), created.Load())
	assert.Equal(t, 5, list.Len())
	assert.Equal(t, []string{"Alpha", "file-0", "file-1", "file-2", "file-3"}, titles(list.Items()))
}

func TestItemList(t *testing.T) {
	list := NewItemList(NewComparer("en"),
		ItemData{Title: "Zulu", Path: "z", PathType: File},
		ItemData{Title: "Alpha", Path: "a", PathType: File},
		ItemData{Title: "Projects", Path: "p", PathType: Folder},
	)
	assert.Equal(t, []string{"Projects", "Alpha", "Zulu"}, titles(list.Items()))

	assert.Equal(t, 2, list.Insert(ItemData{Title: "mike", Path: "m", PathType: File}))
	assert.Equal(t, 0, list.Insert(ItemData{Title: "Archive", Path: "ar", PathType: Folder}))
	assert.Equal(t, []string{"Archive", "Projects", "Alpha", "mike", "Zulu"}, titles(list.Items()))
	assert.Equal(t, 3, list.IndexOf("m"))
	assert.Equal(t, -1, list.IndexOf(faker.Word()))

	index, err := list.Replace("m", ItemData{Title: "Bravo", Path: "b", PathType: File})
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, []string{"Archive", "Projects", "Alpha", "Bravo", "Zulu"}, titles(list.Items()))
	_, err = list.Replace("m", ItemData{})
	errortest.AssertError(t, err, commonerrors.ErrNotFound)

	removed, ok := list.Remove("ar")
	require.True(t, ok)
	assert.Equal(t, "Archive", removed.Title)
	_, ok = list.Remove("ar")
	assert.False(t, ok)
	item, err := list.RemoveAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Projects", item.Title)
	_, err = list.RemoveAt(list.Len())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	_, err = list.At(-1)
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	assert.Equal(t, 3, list.Len())
}

func TestItemListConcurrentInsertion(t *testing.T) {
	comparer := NewComparer("en")
	list := NewItemList(comparer)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			list.Insert(ItemData{Title: fmt.Sprintf("item %v", i), Path: fmt.Sprint(i), PathType: PathType(i % 2)})
		}(i)
	}
	wg.Wait()
	items := list.Items()
	assert.Len(t, items, 50)
	assert.True(t, slices.IsSortedFunc(items, comparer.Compare))
}

func TestHotItemsStore(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	path := filepath.Join(appDir, DefaultHotItemsFile)
	logger, recorder := logstest.NewRecordingTestLogger()

	store := NewHotItemsStore(fs, path, logger)
	require.NoError(t, store.Load(context.Background()))
	assert.Empty(t, store.Entries())
	assert.True(t, recorder.Contains("writing an empty one"))
	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(content))

	existing := filepath.Join(appDir, "tool.exe")
	require.NoError(t, fs.WriteFile(existing, []byte(faker.Word()), 0))
	require.NoError(t, fs.WriteFile(path, []byte(`{"`+existing+`": "Tool", "/gone/app.exe": "Gone", "/bad.exe": 12}`), 0))
	require.NoError(t, store.Load(context.Background()))
	assert.Len(t, store.Entries(), 2)
	assert.Equal(t, []string{"/gone/app.exe"}, store.Prune())
	assert.Equal(t, map[string]string{existing: "Tool"}, store.Entries())

	assert.False(t, store.Add(existing, faker.Word()))
	assert.True(t, store.Add(appDir, "App"))
	assert.True(t, store.Has(appDir))
	require.NoError(t, store.Save(context.Background()))

	reloaded := NewHotItemsStore(fs, path, logger)
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Equal(t, map[string]string{existing: "Tool", appDir: "App"}, reloaded.Entries())
	assert.True(t, reloaded.Remove(appDir))
	assert.False(t, reloaded.Remove(appDir))

	require.NoError(t, fs.WriteFile(path, []byte(faker.Paragraph()), 0))
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Empty(t, reloaded.Entries())
}

func TestListDesktop(t *testing.T) {
	fs := filesystem.NewInMemoryFileSystem()
	dir := filepath.Join(appDir, DefaultDesktopDirectory)
	require.NoError(t, fs.MkDir(filepath.Join(dir, "Games")))
	for _, name := range []string{"report.final.docx", "desktop.ini", "~$report.docx", "scratch.tmp", "README"} {
		require.NoError(t, fs.WriteFile(filepath.Join(dir, name), []byte(faker.Sentence()), 0))
	}
	entries, err := ListDesktop(fs, dir, DefaultExclusions...)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Entry{
		{Title: "Games", Path: filepath.Join(dir, "Games"), PathType: Folder},
		{Title: "report.final", Path: filepath.Join(dir, "report.final.docx"), PathType: File},
		{Title: "README", Path: filepath.Join(dir, "README"), PathType: File},
	}, entries)

	_, err = ListDesktop(fs, filepath.Join(dir, faker.Word()))
	errortest.AssertError(t, err, commonerrors.ErrInvalid)
}

func TestConfiguration(t *testing.T) {
	cfg := DefaultConfiguration()
	require.NoError(t, cfg.Validate())
	cfg.Exclusions = []string{"[a-"}
	assert.Error(t, cfg.Validate())
	cfg = DefaultConfiguration()
	cfg.DesktopDirectory = ""
	assert.Error(t, cfg.Validate())
}
