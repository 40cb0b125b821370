package inspect

import "image"

// Space describes the pixel dimensions of a coordinate space. Region
// geometry is authored and rendered in display space; native capture
// space only ever appears here, in the crop conversion.
type Space struct {
	W int
	H int
}

// NativeCrop converts a display-space box into a clamped rectangle in
// native capture space. The second return value is false when the
// conversion degenerates (empty spaces or a crop that falls outside the
// frame); callers treat that as "no crop this tick".
func NativeCrop(b Box, display, native Space) (image.Rectangle, bool) {
	if display.W <= 0 || display.H <= 0 || native.W <= 0 || native.H <= 0 {
		return image.Rectangle{}, false
	}
	scaleX := float64(native.W) / float64(display.W)
	scaleY := float64(native.H) / float64(display.H)

	x := int(b.X * scaleX)
	y := int(b.Y * scaleY)
	w := int(b.W * scaleX)
	h := int(b.H * scaleY)

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > native.W {
		w = native.W - x
	}
	if y+h > native.H {
		h = native.H - y
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
