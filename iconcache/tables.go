package iconcache

import (
	"image"
	"sync"
)

// pathTable maps source paths to the hash of their icon.
type pathTable struct {
	entries sync.Map
}

func (t *pathTable) Load(path string) (string, bool) {
	hash, exists := t.entries.Load(path)
	if !exists {
		return "", false
	}
	return hash.(string), true
}

// LoadOrStore keeps the first hash registered for `path`.
func (t *pathTable) LoadOrStore(path, hash string) (actual string, loaded bool) {
	a, loaded := t.entries.LoadOrStore(path, hash)
	return a.(string), loaded
}

func (t *pathTable) Store(path, hash string) {
	t.entries.Store(path, hash)
}

func (t *pathTable) Range(f func(path, hash string) bool) {
	t.entries.Range(func(k, v any) bool {
		return f(k.(string), v.(string))
	})
}

func (t *pathTable) Len() (n int) {
	t.Range(func(string, string) bool {
		n++
		return true
	})
	return
}

func (t *pathTable) Clear() {
	t.entries.Clear()
}

// imageTable maps hashes to decoded images.
type imageTable struct {
	entries sync.Map
}

func (t *imageTable) Load(hash string) (*image.NRGBA, bool) {
	img, exists := t.entries.Load(hash)
	if !exists {
		return nil, false
	}
	return img.(*image.NRGBA), true
}

// LoadOrStore keeps the first image registered for `hash`.
func (t *imageTable) LoadOrStore(hash string, img *image.NRGBA) (actual *image.NRGBA, loaded bool) {
	a, loaded := t.entries.LoadOrStore(hash, img)
	return a.(*image.NRGBA), loaded
}

func (t *imageTable) Range(f func(hash string, img *image.NRGBA) bool) {
	t.entries.Range(func(k, v any) bool {
		return f(k.(string), v.(*image.NRGBA))
	})
}

func (t *imageTable) Len() (n int) {
	t.Range(func(string, *image.NRGBA) bool {
		n++
		return true
	})
	return
}

func (t *imageTable) Clear() {
	t.entries.Clear()
}

func newPathTable() *pathTable {
	return &pathTable{}
}

func newImageTable() *imageTable {
	return &imageTable{}
}
