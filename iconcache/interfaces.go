// Package iconcache serves file icons from memory, falling back to extraction for paths not seen before, and persists them as PNG files described by a JSON index.
package iconcache

import (
	"context"
	"image"
	"io"
)

// IIconCache is the surface used by the rest of the application.
type IIconCache interface {
	io.Closer

	// Initialise creates the cache directories and makes sure the index file is well formed.
	// Failing to create the directories is the only error reported to callers.
	Initialise(ctx context.Context) error

	// Hydrate loads the index and decodes every cached image. No icon can be requested before it returns.
	Hydrate(ctx context.Context) error

	// GetIcon returns the icon of `path`, from memory when the path is known or by extracting it otherwise.
	GetIcon(ctx context.Context, path string) (image.Image, error)

	// Flush writes new or changed images to disk and saves the index. Failures on individual images are logged and counted.
	// Only context cancellation is returned as an error.
	Flush(ctx context.Context) (FlushResult, error)

	// HashOf returns the hash of the icon associated with `path`, if known.
	HashOf(path string) (string, bool)

	// Stats returns the usage counters of the cache.
	Stats() Stats

	// ReleaseResources closes every resource held by the cache. Any further call fails.
	ReleaseResources() error
}
