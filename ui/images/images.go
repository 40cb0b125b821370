// Package images holds the small image transforms the UI needs:
// fitting frames to the canvas, history thumbnails and PNG snapshots.
package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes for session snapshots.
// Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit resizes so the result fits within maxW x maxH preserving
// aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	return imaging.Fit(src, maxW, maxH, imaging.Linear)
}

// Thumbnail produces a square thumbnail for the history panel.
func Thumbnail(src image.Image, side int) image.Image {
	if src == nil || side < 1 {
		return nil
	}
	return imaging.Thumbnail(src, side, side, imaging.Linear)
}
