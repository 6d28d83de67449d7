package items

import (
	"path/filepath"

	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// Entry describes an item found in the desktop folder.
type Entry struct {
	Title    string
	Path     string
	PathType PathType
}

// TitleFor returns the title of a desktop item: folders keep their name, files lose their extension.
func TitleFor(name string, isDir bool) string {
	if isDir {
		return filepath.Base(name)
	}
	return filesystem.FilepathStem(name)
}

// ListDesktop returns the files and folders found directly in `dir`, ignoring those matching `exclusions`.
func ListDesktop(fs filesystem.FS, dir string, exclusions ...string) (entries []Entry, err error) {
	infos, err := fs.Lls(dir)
	if err != nil {
		return
	}
	entries = make([]Entry, 0, len(infos))
	for i := range infos {
		path := filepath.Join(dir, infos[i].Name())
		if filesystem.IsPathExcluded(path, exclusions...) {
			continue
		}
		entry := Entry{
			Title:    TitleFor(infos[i].Name(), infos[i].IsDir()),
			Path:     filesystem.NormalisePath(path),
			PathType: File,
		}
		if infos[i].IsDir() {
			entry.PathType = Folder
		}
		entries = append(entries, entry)
	}
	return
}
