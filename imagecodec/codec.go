// Package imagecodec converts icons between their in-memory bitmap form and PNG streams.
package imagecodec

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/dolmen-go/contextio"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/hashing"
)

const Extension = ".png"

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Encode writes `img` as PNG to `w`.
func Encode(ctx context.Context, w io.Writer, img image.Image) (err error) {
	if w == nil {
		err = commonerrors.UndefinedVariable("writer")
		return
	}
	if img == nil {
		err = commonerrors.UndefinedVariable("image")
		return
	}
	buffered := bufio.NewWriter(contextio.NewWriter(ctx, w))
	err = encoder.Encode(buffered, img)
	if err == nil {
		err = buffered.Flush()
	}
	if err != nil {
		err = commonerrors.ConvertContextError(err)
		if commonerrors.None(err, commonerrors.ErrCancelled, commonerrors.ErrTimeout) {
			err = commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not encode image")
		}
	}
	return
}

// EncodeToBytes returns the PNG form of `img`.
func EncodeToBytes(ctx context.Context, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(ctx, &buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a PNG stream and returns it in canonical form (see Normalise).
func Decode(r io.Reader) (img *image.NRGBA, err error) {
	if r == nil {
		err = commonerrors.UndefinedVariable("reader")
		return
	}
	decoded, err := png.Decode(r)
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrCorrupted, err, "could not decode image")
		return
	}
	img = Normalise(decoded)
	return
}

// DecodeBytes is similar to Decode but reads from a byte slice.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	return Decode(bytes.NewReader(data))
}

// Normalise converts any image into non-premultiplied RGBA anchored at the origin, so that two icons with the same pixels compare and hash identically whatever their original colour model.
// The result never shares its pixel buffer with `img`.
func Normalise(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	normalised := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if nrgba, ok := img.(*image.NRGBA); ok && isCanonical(nrgba) {
		copy(normalised.Pix, nrgba.Pix)
		return normalised
	}
	draw.Draw(normalised, normalised.Bounds(), img, bounds.Min, draw.Src)
	return normalised
}

// canonicalView is similar to Normalise but returns `img` itself when it already is in canonical form. The result must not be modified.
func canonicalView(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && isCanonical(nrgba) {
		return nrgba
	}
	return Normalise(img)
}

func isCanonical(img *image.NRGBA) bool {
	return img.Rect.Min.Eq(image.Point{}) && img.Stride == 4*img.Rect.Dx() && len(img.Pix) == img.Stride*img.Rect.Dy()
}

// PixelDigest returns the digest of the canonical pixel buffer of `img`, dimensions included.
func PixelDigest(ctx context.Context, algo hashing.IHash, img image.Image) (digest string, err error) {
	if algo == nil {
		err = commonerrors.UndefinedVariable("hashing algorithm")
		return
	}
	normalised := canonicalView(img)
	if normalised == nil {
		err = commonerrors.UndefinedVariable("image")
		return
	}
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[:4], uint32(normalised.Rect.Dx()))
	binary.BigEndian.PutUint32(header[4:], uint32(normalised.Rect.Dy()))
	return algo.CalculateWithContext(ctx, io.MultiReader(bytes.NewReader(header), bytes.NewReader(normalised.Pix)))
}

// Equal states whether two images have identical dimensions and pixels.
func Equal(a, b image.Image) bool {
	na := canonicalView(a)
	nb := canonicalView(b)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	return na.Rect.Eq(nb.Rect) && bytes.Equal(na.Pix, nb.Pix)
}
