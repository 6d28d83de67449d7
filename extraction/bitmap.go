package extraction

import (
	"image"
	"image/color"
)

// bgraToNRGBA converts a top-down 32-bit BGRA device independent bitmap into an image.
// Bitmaps without any alpha information take their transparency from `mask`, a 32-bit bitmap of the same size in which non black pixels are transparent.
func bgraToNRGBA(pixels, mask []byte, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return out
	}
	useMask := len(mask) >= width*height*4 && !hasAlpha(pixels[:width*height*4])
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			alpha := pixels[i+3]
			if useMask {
				alpha = 0xFF
				if mask[i] != 0 || mask[i+1] != 0 || mask[i+2] != 0 {
					alpha = 0
				}
			}
			out.SetNRGBA(x, y, color.NRGBA{B: pixels[i], G: pixels[i+1], R: pixels[i+2], A: alpha})
		}
	}
	return out
}

func hasAlpha(pixels []byte) bool {
	for i := 3; i < len(pixels); i += 4 {
		if pixels[i] != 0 {
			return true
		}
	}
	return false
}
