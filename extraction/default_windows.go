//go:build windows

package extraction

import (
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// NewDefaultExtractor returns the shell extractor for items on the OS filesystem and the generic one otherwise.
func NewDefaultExtractor(fs filesystem.FS) IconExtractor {
	if fs != nil && fs.GetType() == filesystem.StandardFS {
		return NewShellExtractor()
	}
	return NewGenericExtractor(fs)
}
