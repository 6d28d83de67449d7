package items

import (
	"slices"

	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// ItemList is a list of items kept sorted according to a Comparer. It is safe for concurrent use.
type ItemList struct {
	mu       deadlock.RWMutex
	comparer *Comparer
	items    []ItemData
}

func NewItemList(comparer *Comparer, items ...ItemData) *ItemList {
	l := &ItemList{comparer: comparer}
	l.Reset(items...)
	return l
}

// Reset replaces the content of the list.
func (l *ItemList) Reset(items ...ItemData) {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, l.comparer.Compare)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = sorted
}

// Insert adds `item` before the first item which does not sort lower, and returns its position.
func (l *ItemList) Insert(item ItemData) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insert(item)
}

// InsertIfAbsent inserts `item` unless an item with the same path is already listed, in which case the index of that item is returned.
func (l *ItemList) InsertIfAbsent(item ItemData) (index int, inserted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index = l.indexOf(item.Path); index >= 0 {
		return
	}
	index = l.insert(item)
	inserted = true
	return
}

func (l *ItemList) insert(item ItemData) int {
	i := 0
	for i < len(l.items) && l.comparer.Compare(l.items[i], item) < 0 {
		i++
	}
	l.items = slices.Insert(l.items, i, item)
	return i
}

func (l *ItemList) IndexOf(path string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(path)
}

func (l *ItemList) indexOf(path string) int {
	return slices.IndexFunc(l.items, func(item ItemData) bool {
		return item.Path == path
	})
}

func (l *ItemList) Contains(path string) bool {
	return l.IndexOf(path) >= 0
}

func (l *ItemList) At(index int) (item ItemData, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.items) {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "no item at index %v", index)
		return
	}
	item = l.items[index]
	return
}

// Remove removes the item with `path`.
func (l *ItemList) Remove(path string) (item ItemData, removed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(path)
	if i < 0 {
		return
	}
	item = l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	removed = true
	return
}

func (l *ItemList) RemoveAt(index int) (item ItemData, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.items) {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "no item at index %v", index)
		return
	}
	item = l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	return
}

// Replace substitutes the item with `path` by `item`, keeping the list sorted. The new position is returned.
func (l *ItemList) Replace(path string, item ItemData) (index int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(path)
	if i < 0 {
		err = commonerrors.Newf(commonerrors.ErrNotFound, "no item with path [%v]", path)
		return
	}
	l.items = slices.Delete(l.items, i, i+1)
	index = l.insert(item)
	return
}

// Items returns a copy of the list.
func (l *ItemList) Items() []ItemData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *ItemList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
