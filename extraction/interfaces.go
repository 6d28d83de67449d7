// Package extraction obtains icon bitmaps for filesystem items.
package extraction

import (
	"context"
	"image"
)

//go:generate go tool mockgen -destination=../mocks/mock_$GOPACKAGE.go -package=mocks github.com/PandrPi/ProgramViewer3.0/$GOPACKAGE IconExtractor

// IconExtractor returns the icon of the filesystem item found at `path`.
type IconExtractor interface {
	ExtractIcon(ctx context.Context, path string) (image.Image, error)
}

// ThreadInitialiser is implemented by extractors which must prepare the OS thread they are called from.
// A Dispatcher calls InitialiseThread once on its locked thread before serving any request, and ReleaseThread when it stops.
type ThreadInitialiser interface {
	InitialiseThread() error
	ReleaseThread()
}

// ExtractorFunc makes a function an IconExtractor.
type ExtractorFunc func(ctx context.Context, path string) (image.Image, error)

func (f ExtractorFunc) ExtractIcon(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

type ItemKind int

const (
	KindFile ItemKind = iota
	KindFolder
)

func (k ItemKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}
