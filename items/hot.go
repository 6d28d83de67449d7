package items

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"

	"github.com/go-logr/logr"
	"github.com/sasha-s/go-deadlock"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// HotItemsStore persists the hot items as a JSON object mapping each path to its title.
type HotItemsStore struct {
	mu      deadlock.RWMutex
	fs      filesystem.FS
	path    string
	logger  logr.Logger
	entries map[string]string
}

func NewHotItemsStore(fs filesystem.FS, path string, logger logr.Logger) *HotItemsStore {
	return &HotItemsStore{
		fs:      fs,
		path:    path,
		logger:  logger,
		entries: map[string]string{},
	}
}

// Load reads the store from disk. A missing or corrupted file is replaced by an empty one. Entries whose title is not a string are dropped.
func (s *HotItemsStore) Load(ctx context.Context) (err error) {
	entries, err := s.read(ctx)
	if err != nil {
		if commonerrors.Any(err, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
			return
		}
		s.logger.Info("hot items file is missing or corrupted, writing an empty one", "path", s.path, "reason", err.Error())
		entries = map[string]string{}
		s.mu.Lock()
		s.entries = entries
		s.mu.Unlock()
		err = s.Save(ctx)
		return
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return
}

func (s *HotItemsStore) read(ctx context.Context) (entries map[string]string, err error) {
	data, err := s.fs.ReadFileWithContext(ctx, s.path)
	if err != nil {
		return
	}
	var raw map[string]json.RawMessage
	err = json.Unmarshal(data, &raw)
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrCorrupted, err, "hot items file is not valid JSON")
		return
	}
	if raw == nil {
		err = commonerrors.New(commonerrors.ErrCorrupted, "hot items file is not a JSON object")
		return
	}
	entries = make(map[string]string, len(raw))
	for path, value := range raw {
		var title string
		if subErr := json.Unmarshal(value, &title); subErr != nil {
			s.logger.Error(subErr, "dropping invalid hot item", "path", path)
			continue
		}
		entries[filesystem.NormalisePath(path)] = title
	}
	return
}

// Save writes the store to disk.
func (s *HotItemsStore) Save(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not serialise hot items")
	}
	return s.fs.WriteFileWithContext(ctx, s.path, bytes.NewReader(append(data, '\n')), 0)
}

// Add registers a hot item. It returns false if `path` was already registered.
func (s *HotItemsStore) Add(path, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[path]; exists {
		return false
	}
	s.entries[path] = title
	return true
}

func (s *HotItemsStore) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[path]; !exists {
		return false
	}
	delete(s.entries, path)
	return true
}

func (s *HotItemsStore) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[path]
	return exists
}

// Entries returns a copy of the path to title mapping.
func (s *HotItemsStore) Entries() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// Prune removes the entries whose path does not exist any more and returns them.
func (s *HotItemsStore) Prune() (pruned []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.entries {
		if !s.fs.Exists(path) {
			pruned = append(pruned, path)
			delete(s.entries, path)
		}
	}
	return
}
