//go:build !windows

package extraction

import (
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// NewDefaultExtractor returns the best extractor available on the platform.
func NewDefaultExtractor(fs filesystem.FS) IconExtractor {
	return NewGenericExtractor(fs)
}
