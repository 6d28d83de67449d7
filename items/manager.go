package items

import (
	"context"
	"image"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
	"github.com/PandrPi/ProgramViewer3.0/iconcache"
	"github.com/PandrPi/ProgramViewer3.0/parallelisation"
)

// IconSource provides the icons of the items and is flushed after every change of the desktop folder.
type IconSource interface {
	GetIcon(ctx context.Context, path string) (image.Image, error)
	Flush(ctx context.Context) (iconcache.FlushResult, error)
}

// Manager holds the hot items and the desktop items, both sorted folders first and then by title.
type Manager struct {
	cfg     *Configuration
	fs      filesystem.FS
	icons   IconSource
	logger  logr.Logger
	hot     *HotItemsStore
	hotList *ItemList
	desktop *ItemList

	mu      deadlock.Mutex
	watcher *Watcher
}

// NewManager returns an item manager. Paths in `cfg` must be absolute.
func NewManager(cfg *Configuration, fs filesystem.FS, icons IconSource, logger logr.Logger) (m *Manager, err error) {
	if cfg == nil {
		err = commonerrors.UndefinedVariable("items configuration")
		return
	}
	err = cfg.Validate()
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid items configuration")
		return
	}
	if fs == nil {
		err = commonerrors.UndefinedVariable("filesystem")
		return
	}
	if icons == nil {
		err = commonerrors.UndefinedVariable("icon source")
		return
	}
	comparer := NewComparer(cfg.Locale)
	logger = logger.WithName("items")
	m = &Manager{
		cfg:     cfg,
		fs:      fs,
		icons:   icons,
		logger:  logger,
		hot:     NewHotItemsStore(fs, cfg.HotItemsFile, logger),
		hotList: NewItemList(comparer),
		desktop: NewItemList(comparer),
	}
	return
}

// LoadItems loads the hot items, dropping those which do not exist any more, and the content of the desktop folder. The icon cache is flushed once everything is loaded.
func (m *Manager) LoadItems(ctx context.Context) (err error) {
	err = m.hot.Load(ctx)
	if err != nil {
		return
	}
	err = m.fs.MkDir(m.cfg.DesktopDirectory)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrUnexpected, err, "could not create the desktop folder [%v]", m.cfg.DesktopDirectory)
		return
	}

	if pruned := m.hot.Prune(); len(pruned) > 0 {
		m.logger.Info("removing hot items which do not exist any more", "paths", pruned)
		if subErr := m.hot.Save(ctx); subErr != nil {
			m.logger.Error(subErr, "could not save hot items")
		}
	}
	var hotEntries []Entry
	for path, title := range m.hot.Entries() {
		hotEntries = append(hotEntries, Entry{Title: title, Path: path})
	}
	hotItems, err := m.resolve(ctx, hotEntries)
	if err != nil {
		return
	}
	m.hotList.Reset(hotItems...)

	desktopEntries, err := ListDesktop(m.fs, m.cfg.DesktopDirectory, m.cfg.Exclusions...)
	if err != nil {
		return
	}
	desktopItems, err := m.resolve(ctx, desktopEntries)
	if err != nil {
		return
	}
	m.desktop.Reset(desktopItems...)
	m.logger.Info("items loaded", "hot", len(hotItems), "desktop", len(desktopItems))
	m.flush(ctx)
	return
}

// resolve fetches the icons of the entries concurrently. Entries which disappeared in the meantime are skipped.
func (m *Manager) resolve(ctx context.Context, entries []Entry) (items []ItemData, err error) {
	resolved := make([]*ItemData, len(entries))
	group := parallelisation.NewExecutionGroup[int](func(ctx context.Context, i int) error {
		item, subErr := m.newItem(ctx, entries[i].Title, entries[i].Path)
		if subErr != nil {
			if commonerrors.Any(subErr, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
				return subErr
			}
			m.logger.Error(subErr, "skipping item", "path", entries[i].Path)
			return nil
		}
		resolved[i] = &item
		return nil
	}, parallelisation.StopOnFirstError, parallelisation.Workers(m.cfg.Workers))
	for i := range entries {
		group.RegisterFunction(i)
	}
	err = group.Execute(ctx)
	if err != nil {
		return
	}
	for i := range resolved {
		if resolved[i] != nil {
			items = append(items, *resolved[i])
		}
	}
	return
}

func (m *Manager) newItem(ctx context.Context, title, path string) (item ItemData, err error) {
	icon, err := m.icons.GetIcon(ctx, path)
	if err != nil {
		return
	}
	return NewItemData(m.fs, title, path, icon)
}

func (m *Manager) flush(ctx context.Context) {
	result, err := m.icons.Flush(ctx)
	if err != nil {
		m.logger.Error(err, "could not flush the icon cache")
		return
	}
	m.logger.V(1).Info("icon cache flushed", "flush", result.ID, "written", result.Written)
}

func (m *Manager) HotItems() []ItemData {
	return m.hotList.Items()
}

func (m *Manager) DesktopItems() []ItemData {
	return m.desktop.Items()
}

func (m *Manager) list(itemType ItemType) *ItemList {
	if itemType == Hot {
		return m.hotList
	}
	return m.desktop
}

// AddItem adds the item found at `path`. Hot items are registered under `title`. Desktop items are copied, or moved if `shouldCopy` is false, into the desktop folder and take their title from their name.
func (m *Manager) AddItem(ctx context.Context, title, path string, itemType ItemType, shouldCopy bool) (err error) {
	path = filesystem.NormalisePath(path)
	if !m.fs.Exists(path) {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "path [%v] does not exist", path)
		return
	}
	if itemType == Hot {
		if m.hot.Has(path) {
			return
		}
		item, subErr := m.newItem(ctx, title, path)
		if subErr != nil {
			err = subErr
			return
		}
		m.hot.Add(path, title)
		m.hotList.Insert(item)
		err = m.hot.Save(ctx)
		return
	}

	destination := filepath.Join(m.cfg.DesktopDirectory, filepath.Base(path))
	if m.fs.Exists(destination) {
		err = commonerrors.Newf(commonerrors.ErrExists, "[%v] is already on the desktop", filepath.Base(path))
		return
	}
	if shouldCopy {
		err = m.fs.CopyWithContext(ctx, path, m.cfg.DesktopDirectory)
	} else {
		err = m.fs.Move(path, destination)
	}
	if err != nil {
		return
	}
	err = m.addDesktopItem(ctx, destination)
	return
}

// RemoveItem removes the item at `index`. Removing a desktop item deletes it from the desktop folder.
func (m *Manager) RemoveItem(ctx context.Context, index int, itemType ItemType) (err error) {
	item, err := m.list(itemType).At(index)
	if err != nil {
		return
	}
	if itemType == Hot {
		m.hotList.Remove(item.Path)
		m.hot.Remove(item.Path)
		err = m.hot.Save(ctx)
		return
	}
	err = m.fs.RemoveWithContext(ctx, item.Path)
	if err != nil {
		return
	}
	m.desktop.Remove(item.Path)
	return
}

func (m *Manager) addDesktopItem(ctx context.Context, path string) (err error) {
	if m.desktop.Contains(path) || filesystem.IsPathExcluded(path, m.cfg.Exclusions...) {
		return
	}
	isDir, err := m.fs.IsDir(path)
	if err != nil {
		return
	}
	item, err := m.newItem(ctx, TitleFor(path, isDir), path)
	if err != nil {
		return
	}
	m.desktop.InsertIfAbsent(item)
	return
}

// HandleEvent applies a change of the desktop folder to the desktop items and flushes the icon cache.
func (m *Manager) HandleEvent(ctx context.Context, event Event) {
	logger := m.logger.WithValues("event", event.Kind.String(), "path", event.Path)
	switch event.Kind {
	case Created:
		if err := m.addDesktopItem(ctx, event.Path); err != nil {
			logger.Error(err, "could not add desktop item")
			return
		}
	case Removed:
		if _, removed := m.desktop.Remove(event.Path); !removed {
			return
		}
	case Renamed:
		index := m.desktop.IndexOf(event.OldPath)
		if index < 0 {
			m.HandleEvent(ctx, Event{Kind: Created, Path: event.Path})
			return
		}
		old, err := m.desktop.At(index)
		if err != nil {
			return
		}
		renamed, err := NewItemData(m.fs, "", event.Path, old.Icon)
		if err != nil {
			logger.Error(err, "could not rename desktop item")
			m.desktop.Remove(event.OldPath)
			return
		}
		renamed.Title = TitleFor(event.Path, renamed.PathType == Folder)
		if _, err = m.desktop.Replace(event.OldPath, renamed); err != nil {
			logger.Error(err, "could not rename desktop item")
			return
		}
	}
	logger.V(1).Info("desktop items updated")
	m.flush(ctx)
}

// Watch starts monitoring the desktop folder.
func (m *Manager) Watch(ctx context.Context) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		return
	}
	watcher, err := NewWatcher(m.cfg.DesktopDirectory, m.logger, m.HandleEvent, m.cfg.RenameWindow, m.cfg.Exclusions...)
	if err != nil {
		return
	}
	err = watcher.Start(ctx)
	if err != nil {
		return
	}
	m.watcher = watcher
	return
}

// Close stops monitoring the desktop folder.
func (m *Manager) Close() (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher == nil {
		return
	}
	err = m.watcher.Close()
	m.watcher = nil
	return
}
