package util

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxScreenshotBytes caps the stored size of a payment screenshot.
const MaxScreenshotBytes = 150 * 1024

// CompressScreenshot re-encodes an uploaded image as JPEG within
// MaxScreenshotBytes. It first tries 1200px at quality 70, then 800px at
// quality 60, then steps the quality down. The image is never enlarged.
func CompressScreenshot(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	out, err := encodeScaled(src, 1200, 70)
	if err != nil {
		return nil, err
	}
	if len(out) <= MaxScreenshotBytes {
		return out, nil
	}

	out, err = encodeScaled(src, 800, 60)
	if err != nil {
		return nil, err
	}

	for quality := 50; len(out) > MaxScreenshotBytes && quality >= 20; quality -= 10 {
		out, err = encodeScaled(src, 800, quality)
		if err != nil {
			return nil, err
		}
	}

	if len(out) > MaxScreenshotBytes {
		return nil, fmt.Errorf("screenshot does not compress below %d bytes", MaxScreenshotBytes)
	}
	return out, nil
}

func encodeScaled(src image.Image, maxDim, quality int) ([]byte, error) {
	scaled := scaleDown(src, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleDown(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
