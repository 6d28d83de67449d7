package extraction

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/filesystem"
)

// maxThumbnailSourceSize bounds the size of the image files decoded to build a thumbnail.
const maxThumbnailSourceSize = 32 * 1024 * 1024

var thumbnailExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// HasThumbnail states whether the icon of `path` is a thumbnail of its own content.
func HasThumbnail(path string) bool {
	return thumbnailExtensions[strings.ToLower(filepath.Ext(path))]
}

// Thumbnail decodes the image file at `path` and scales it down to an IconSize square icon, keeping its aspect ratio.
func Thumbnail(ctx context.Context, fs filesystem.FS, path string) (thumbnail *image.NRGBA, err error) {
	info, err := fs.Stat(path)
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrNotFound, err, "could not find image [%v]", path)
		return
	}
	if info.Size() > maxThumbnailSourceSize {
		err = commonerrors.Newf(commonerrors.ErrInvalid, "image [%v] is too large to be thumbnailed (%d bytes)", path, info.Size())
		return
	}
	content, err := fs.ReadFileWithContext(ctx, path)
	if err != nil {
		return
	}
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		err = commonerrors.WrapErrorf(commonerrors.ErrMarshalling, err, "could not decode image [%v]", path)
		return
	}
	thumbnail = Scale(src, IconSize)
	return
}

// Scale draws `src` centred into a transparent `size`x`size` image, shrinking or enlarging it to fit.
func Scale(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 || size <= 0 {
		return dst
	}
	targetWidth, targetHeight := size, size
	if width > height {
		targetHeight = max(1, height*size/width)
	} else if height > width {
		targetWidth = max(1, width*size/height)
	}
	offsetX := (size - targetWidth) / 2
	offsetY := (size - targetHeight) / 2
	target := image.Rect(offsetX, offsetY, offsetX+targetWidth, offsetY+targetHeight)
	draw.CatmullRom.Scale(dst, target, src, bounds, draw.Src, nil)
	return dst
}
