// Package items manages the items shown by the launcher: the hot items pinned by the user and the content of the desktop folder.
package items

import (
	"image"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// PathType orders folders before files.
type PathType int

const (
	Folder PathType = iota
	File
)

func (t PathType) String() string {
	if t == Folder {
		return "folder"
	}
	return "file"
}

// ItemType identifies the collection an item belongs to.
type ItemType int

const (
	Desktop ItemType = iota
	Hot
)

func (t ItemType) String() string {
	if t == Hot {
		return "hot"
	}
	return "desktop"
}

type ItemData struct {
	Title    string
	Path     string
	Icon     image.Image
	PathType PathType
}

func (d ItemData) String() string {
	return d.Title
}

// NewItemData returns the item found at `path`. Its path type is read from `fs`.
func NewItemData(fs filesystem.FS, title, path string, icon image.Image) (item ItemData, err error) {
	isDir, err := fs.IsDir(path)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrNotFound, err, "could not determine the type of [%v]", path)
		return
	}
	item = ItemData{
		Title:    title,
		Path:     filesystem.NormalisePath(path),
		Icon:     icon,
		PathType: File,
	}
	if isDir {
		item.PathType = Folder
	}
	return
}

// Comparer orders items by path type and then by title, according to the collation rules of a language.
type Comparer struct {
	mu       deadlock.Mutex
	collator *collate.Collator
}

// NewComparer returns a comparer for `locale`. Unknown locales fall back to the root collation.
func NewComparer(locale string) *Comparer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Comparer{collator: collate.New(tag, collate.IgnoreCase, collate.Numeric)}
}

func (c *Comparer) Compare(a, b ItemData) int {
	if a.PathType != b.PathType {
		if a.PathType < b.PathType {
			return -1
		}
		return 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a.Title, b.Title)
}
