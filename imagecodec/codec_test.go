package imagecodec

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
	"github.com/PandrPi/ProgramViewer3.0/hashing"
)

func newTestImage(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEncodeDecode(t *testing.T) {
	img := newTestImage(16, color.RGBA{R: 200, G: 10, B: 30, A: 255})
	data, err := EncodeToBytes(context.Background(), img)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	decoded, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.True(t, Equal(img, decoded))
	assert.Equal(t, image.Rect(0, 0, 16, 16), decoded.Bounds())
}

func TestDecodeCorrupted(t *testing.T) {
	_, err := DecodeBytes([]byte(faker.Paragraph()))
	errortest.AssertError(t, err, commonerrors.ErrCorrupted)
	_, err = Decode(nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestEncodeErrors(t *testing.T) {
	errortest.AssertError(t, Encode(context.Background(), &bytes.Buffer{}, nil), commonerrors.ErrUndefined)
	errortest.AssertError(t, Encode(context.Background(), nil, newTestImage(1, color.White)), commonerrors.ErrUndefined)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EncodeToBytes(ctx, newTestImage(4, color.White))
	errortest.AssertError(t, err, commonerrors.ErrCancelled)
}

func TestPixelDigest(t *testing.T) {
	algo, err := hashing.NewHashingAlgorithm(hashing.HashSha256)
	require.NoError(t, err)
	red := color.RGBA{R: 255, A: 255}
	first, err := PixelDigest(context.Background(), algo, newTestImage(8, red))
	require.NoError(t, err)
	// same pixels in another colour model and another origin
	shifted := image.NewNRGBA(image.Rect(5, 5, 13, 13))
	for x := 5; x < 13; x++ {
		for y := 5; y < 13; y++ {
			shifted.Set(x, y, red)
		}
	}
	second, err := PixelDigest(context.Background(), algo, shifted)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, hashing.IsValidDigest(first, hashing.HashSha256))

	other, err := PixelDigest(context.Background(), algo, newTestImage(8, color.RGBA{B: 255, A: 255}))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
	// same pixel buffer length, different dimensions
	wide, err := PixelDigest(context.Background(), algo, image.NewNRGBA(image.Rect(0, 0, 4, 16)))
	require.NoError(t, err)
	tall, err := PixelDigest(context.Background(), algo, image.NewNRGBA(image.Rect(0, 0, 16, 4)))
	require.NoError(t, err)
	assert.NotEqual(t, wide, tall)

	_, err = PixelDigest(context.Background(), nil, shifted)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
	_, err = PixelDigest(context.Background(), algo, nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, newTestImage(1, color.White)))
	assert.False(t, Equal(newTestImage(2, color.White), newTestImage(2, color.Black)))
}

func TestNormaliseCopiesPixels(t *testing.T) {
	src := Normalise(newTestImage(4, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	require.NotNil(t, src)
	normalised := Normalise(src)
	require.NotNil(t, normalised)
	assert.True(t, Equal(src, normalised))
	algo, err := hashing.NewHashingAlgorithm(hashing.HashXXHash)
	require.NoError(t, err)
	digest, err := PixelDigest(context.Background(), algo, normalised)
	require.NoError(t, err)

	src.Pix[0] = 255
	src.Pix[1] = 255
	assert.False(t, Equal(src, normalised))
	after, err := PixelDigest(context.Background(), algo, normalised)
	require.NoError(t, err)
	assert.Equal(t, digest, after)
	assert.Nil(t, Normalise(nil))
}
