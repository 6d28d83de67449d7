package iconcache

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// faultyFs denies access to the files whose name contains one of the registered fragments.
type faultyFs struct {
	afero.Fs
	mu     sync.RWMutex
	denied map[string]bool
}

func newFaultyFs(fs afero.Fs) *faultyFs {
	return &faultyFs{Fs: fs, denied: map[string]bool{}}
}

func (f *faultyFs) Deny(fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied[fragment] = true
}

func (f *faultyFs) Allow(fragment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.denied, fragment)
}

func (f *faultyFs) check(op, name string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for fragment := range f.denied {
		if strings.Contains(name, fragment) {
			return &os.PathError{Op: op, Path: name, Err: os.ErrPermission}
		}
	}
	return nil
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if err := f.check("open", name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := f.check("open", name); err != nil {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *faultyFs) Create(name string) (afero.File, error) {
	if err := f.check("open", name); err != nil {
		return nil, err
	}
	return f.Fs.Create(name)
}
