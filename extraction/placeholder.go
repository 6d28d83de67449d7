package extraction

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/spaolacci/murmur3"
)

const IconSize = 32

var (
	folderColour = color.NRGBA{R: 0xF2, G: 0xC5, B: 0x4B, A: 0xFF}
	pageColour   = color.NRGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}
	edgeColour   = color.NRGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xFF}
)

// Placeholder returns the default icon of a kind of item. It is used when extraction fails.
func Placeholder(kind ItemKind) *image.NRGBA {
	if kind == KindFolder {
		return folderIcon(folderColour)
	}
	return pageIcon(pageColour, pageColour)
}

// ExtensionIcon returns a page icon whose band colour is derived from the file extension.
// Files sharing an extension get identical icons.
func ExtensionIcon(extension string) *image.NRGBA {
	return pageIcon(pageColour, tint(strings.ToLower(strings.TrimPrefix(extension, "."))))
}

func tint(key string) color.NRGBA {
	if key == "" {
		return pageColour
	}
	h := murmur3.Sum32([]byte(key))
	return color.NRGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 0xFF}
}

func fill(img *image.NRGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func outline(img *image.NRGBA, r image.Rectangle, c color.Color) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func folderIcon(c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	tab := image.Rect(2, 6, 14, 10)
	body := image.Rect(2, 9, IconSize-2, IconSize-4)
	fill(img, tab, c)
	fill(img, body, c)
	outline(img, body, edgeColour)
	return img
}

func pageIcon(page, band color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, IconSize, IconSize))
	body := image.Rect(6, 2, IconSize-6, IconSize-2)
	fill(img, body, page)
	fill(img, image.Rect(body.Min.X+2, body.Max.Y-10, body.Max.X-2, body.Max.Y-4), band)
	// folded corner
	for i := 0; i < 6; i++ {
		fill(img, image.Rect(body.Max.X-6+i, body.Min.Y, body.Max.X, body.Min.Y+i+1), color.Transparent)
	}
	outline(img, body, edgeColour)
	return img
}
