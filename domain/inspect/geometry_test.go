package inspect

import "testing"

func TestNativeCropScalesPerAxis(t *testing.T) {
	display := Space{W: 640, H: 480}
	native := Space{W: 1280, H: 720}
	r, ok := NativeCrop(Box{X: 100, Y: 100, W: 200, H: 100}, display, native)
	if !ok {
		t.Fatalf("expected valid crop")
	}
	if r.Min.X != 200 || r.Dx() != 400 {
		t.Fatalf("x axis scale wrong: %v", r)
	}
	if r.Min.Y != 150 || r.Dy() != 150 {
		t.Fatalf("y axis scale wrong: %v", r)
	}
}

func TestNativeCropClampsToFrame(t *testing.T) {
	display := Space{W: 640, H: 480}
	native := Space{W: 640, H: 480}
	r, ok := NativeCrop(Box{X: 600, Y: 450, W: 200, H: 200}, display, native)
	if !ok {
		t.Fatalf("expected clamped crop, not failure")
	}
	if r.Max.X > 640 || r.Max.Y > 480 {
		t.Fatalf("crop exceeds native bounds: %v", r)
	}
}

func TestNativeCropDegenerateFails(t *testing.T) {
	display := Space{W: 640, H: 480}
	native := Space{W: 640, H: 480}
	if _, ok := NativeCrop(Box{X: 700, Y: 0, W: 50, H: 50}, display, native); ok {
		t.Fatalf("fully off-frame crop must fail")
	}
	if _, ok := NativeCrop(Box{X: 0, Y: 0, W: 50, H: 50}, Space{}, native); ok {
		t.Fatalf("empty display space must fail")
	}
}
