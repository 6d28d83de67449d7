package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v3"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

// ValidateExclusionPatterns checks that every glob pattern is well-formed.
func ValidateExclusionPatterns(patterns ...string) error {
	for i := range patterns {
		if _, err := doublestar.Match(patterns[i], patterns[i]); err != nil {
			return commonerrors.WrapErrorf(commonerrors.ErrInvalid, err, "could not compile pattern [%v]", patterns[i])
		}
	}
	return nil
}

// IsPathExcluded states whether the base name or the slash-separated form of `path` matches any of the glob patterns. Matching is case-insensitive.
func IsPathExcluded(path string, exclusionPatterns ...string) bool {
	if path == "" {
		return false
	}
	base := strings.ToLower(filepath.Base(path))
	full := strings.ToLower(filepath.ToSlash(path))
	for i := range exclusionPatterns {
		pattern := strings.ToLower(exclusionPatterns[i])
		if match, err := doublestar.Match(pattern, base); err == nil && match {
			return true
		}
		if match, err := doublestar.Match(pattern, full); err == nil && match {
			return true
		}
	}
	return false
}

// ExcludeFiles removes from `files` the paths matching any of the exclusion patterns.
func ExcludeFiles(files []string, exclusionPatterns ...string) (cleansedList []string, err error) {
	err = ValidateExclusionPatterns(exclusionPatterns...)
	if err != nil {
		return
	}
	cleansedList = []string{}
	for i := range files {
		if !IsPathExcluded(files[i], exclusionPatterns...) {
			cleansedList = append(cleansedList, files[i])
		}
	}
	return
}
