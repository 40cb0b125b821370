package render

import (
	"image"
	"testing"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

func testFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 320, 240))
}

func region(id string, status inspect.Status) inspect.Region {
	return inspect.Region{
		ID:     id,
		Name:   "Objeto 1",
		Box:    inspect.Box{X: 40, Y: 40, W: 120, H: 100},
		Status: status,
	}
}

// borderPixel samples the middle of the box's top edge where the
// stroke is guaranteed to land.
func borderPixel(frame *image.RGBA, b inspect.Box) (r, g, bl uint8) {
	c := frame.RGBAAt(int(b.X+b.W/2), int(b.Y))
	return c.R, c.G, c.B
}

func TestComposeNilFrame(t *testing.T) {
	Compose(nil, View{Regions: []inspect.Region{region("a", inspect.StatusPass)}})
}

func TestComposePassStrokesGreen(t *testing.T) {
	frame := testFrame()
	reg := region("a", inspect.StatusPass)
	Compose(frame, View{Regions: []inspect.Region{reg}, Mode: inspect.ModeOperator})
	r, g, b := borderPixel(frame, reg.Box)
	if g <= r || g <= b {
		t.Fatalf("pass border = (%d,%d,%d), want green dominant", r, g, b)
	}
}

func TestComposeFailStrokesRed(t *testing.T) {
	frame := testFrame()
	reg := region("a", inspect.StatusFail)
	Compose(frame, View{Regions: []inspect.Region{reg}, Mode: inspect.ModeOperator})
	r, g, b := borderPixel(frame, reg.Box)
	if r <= g || r <= b {
		t.Fatalf("fail border = (%d,%d,%d), want red dominant", r, g, b)
	}
}

func TestComposeUnknownWhilePredictingStrokesBlue(t *testing.T) {
	frame := testFrame()
	reg := region("a", inspect.StatusUnknown)
	Compose(frame, View{Regions: []inspect.Region{reg}, Mode: inspect.ModeOperator, Predicting: true})
	r, g, b := borderPixel(frame, reg.Box)
	if b <= r || b <= g {
		t.Fatalf("predicting border = (%d,%d,%d), want blue dominant", r, g, b)
	}
}

func TestComposeActiveSetupIsHighlighted(t *testing.T) {
	frame := testFrame()
	active := region("a", inspect.StatusUnknown)
	idle := region("b", inspect.StatusUnknown)
	idle.Box = inspect.Box{X: 180, Y: 40, W: 100, H: 100}
	Compose(frame, View{
		Regions:  []inspect.Region{active, idle},
		ActiveID: "a",
		Mode:     inspect.ModeSetup,
	})
	r, g, b := borderPixel(frame, active.Box)
	// Amber: strong red and green, weak blue.
	if b >= r || b >= g {
		t.Fatalf("active border = (%d,%d,%d), want amber", r, g, b)
	}
	// Active region carries a filled resize handle at its corner.
	h := frame.RGBAAt(int(active.Box.X+active.Box.W), int(active.Box.Y+active.Box.H))
	if h.A == 0 || (h.B >= h.R && h.B >= h.G) {
		t.Fatalf("handle pixel = %+v, want amber fill", h)
	}
}

func TestComposeInactiveSetupIsDashed(t *testing.T) {
	frame := testFrame()
	reg := region("a", inspect.StatusUnknown)
	Compose(frame, View{
		Regions:  []inspect.Region{reg},
		ActiveID: "other",
		Mode:     inspect.ModeSetup,
	})
	// A dashed stroke leaves gaps along the edge.
	painted, gaps := 0, 0
	y := int(reg.Box.Y)
	for x := int(reg.Box.X) + 4; x < int(reg.Box.X+reg.Box.W)-4; x++ {
		c := frame.RGBAAt(x, y)
		if c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0 {
			gaps++
		} else {
			painted++
		}
	}
	if painted == 0 || gaps == 0 {
		t.Fatalf("painted=%d gaps=%d, want a mix for a dashed edge", painted, gaps)
	}
}
