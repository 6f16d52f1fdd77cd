package util

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientImage produces a non-uniform image so JPEG cannot compress it to
// nearly nothing.
func gradientImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 7) % 256),
				G: uint8((y * 13) % 256),
				B: uint8((x*y + x) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestCompressScreenshotLargePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradientImage(2400, 1800)))

	out, err := CompressScreenshot(buf.Bytes())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(out), MaxScreenshotBytes)

	// Output decodes as JPEG, scaled within 1200px.
	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 1200)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 1200)
}

func TestCompressScreenshotSmallImageNotEnlarged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradientImage(400, 300), &jpeg.Options{Quality: 90}))

	out, err := CompressScreenshot(buf.Bytes())
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

func TestCompressScreenshotRejectsGarbage(t *testing.T) {
	_, err := CompressScreenshot([]byte("not an image"))
	assert.Error(t, err)
}
