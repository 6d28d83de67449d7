package filesystem

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// FilepathStem returns the final path component, without its suffix.
func FilepathStem(fp string) string {
	return strings.TrimSuffix(filepath.Base(fp), filepath.Ext(fp))
}

// ExpandPath expands a leading `~` and returns the absolute, cleaned form of `path`.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if expanded == "" {
		return "", nil
	}
	return filepath.Abs(expanded)
}

// NormalisePath returns a clean version of `path` used as a key in the in-memory tables.
func NormalisePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
