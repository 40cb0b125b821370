package capture

import (
	"errors"
	"image"
	"image/draw"
)

// ErrEmptyCrop reports a crop with no pixels inside the frame.
var ErrEmptyCrop = errors.New("crop outside frame")

// Crop extracts a native-space rectangle from a frame as an independent
// RGBA image. The rectangle is intersected with the frame bounds; an
// empty intersection is an error the caller absorbs as "no crop this
// tick".
func Crop(frame *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	if frame == nil {
		return nil, ErrEmptyCrop
	}
	roi := rect.Intersect(frame.Bounds())
	if roi.Empty() {
		return nil, ErrEmptyCrop
	}
	out := image.NewRGBA(image.Rect(0, 0, roi.Dx(), roi.Dy()))
	draw.Draw(out, out.Bounds(), frame.SubImage(roi), roi.Min, draw.Src)
	return out, nil
}
