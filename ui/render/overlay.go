// Package render draws the region overlay onto video frames.
package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// Overlay colors. Operator mode colors track the verdict; setup mode
// distinguishes the active region from the rest.
const (
	colorNeutral    = "#64748b"
	colorActive     = "#fbbf24"
	colorPass       = "#22c55e"
	colorFail       = "#ef4444"
	colorPredicting = "#3b82f6"
)

const (
	strokeWidth  = 2
	handleRadius = 5
	chipPadding  = 4
)

// View is everything the overlay needs for one frame.
type View struct {
	Regions    []inspect.Region
	ActiveID   string
	Mode       inspect.Mode
	Predicting bool
}

// Compose draws all regions onto the frame in place. The frame is the
// display-space image the canvas shows, so box coordinates map 1:1.
func Compose(frame *image.RGBA, v View) {
	if frame == nil {
		return
	}
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(strokeWidth)
	for _, r := range v.Regions {
		stroke, dashed := styleFor(r, v)
		if dashed {
			dc.SetDash(6, 4)
		} else {
			dc.SetDash()
		}
		dc.SetHexColor(stroke)
		dc.DrawRectangle(r.Box.X, r.Box.Y, r.Box.W, r.Box.H)
		dc.Stroke()
		dc.SetDash()
		drawChip(dc, r.Box, chipText(r, v), stroke)
		if v.Mode == inspect.ModeSetup && r.ID == v.ActiveID {
			dc.SetHexColor(stroke)
			dc.DrawCircle(r.Box.X+r.Box.W, r.Box.Y+r.Box.H, handleRadius)
			dc.Fill()
		}
	}
}

// styleFor picks stroke color and dash. Verdict colors win in operator
// mode; in setup the active region gets the solid highlight.
func styleFor(r inspect.Region, v View) (hex string, dashed bool) {
	if v.Mode == inspect.ModeOperator {
		switch r.Status {
		case inspect.StatusPass:
			return colorPass, false
		case inspect.StatusFail:
			return colorFail, false
		default:
			if v.Predicting {
				return colorPredicting, false
			}
			return colorNeutral, false
		}
	}
	if r.ID == v.ActiveID {
		return colorActive, false
	}
	return colorNeutral, true
}

func chipText(r inspect.Region, v View) string {
	if v.Mode == inspect.ModeSetup {
		return fmt.Sprintf("%s (%d)", r.Name, r.Samples)
	}
	switch r.Status {
	case inspect.StatusPass:
		return r.Name + " OK"
	case inspect.StatusFail:
		return r.Name + " FALHA"
	default:
		return r.Name
	}
}

// drawChip paints a filled label above the box's top-left corner,
// falling inside the box when there is no room above.
func drawChip(dc *gg.Context, b inspect.Box, text, hex string) {
	w, h := dc.MeasureString(text)
	chipH := h + 2*chipPadding
	x := b.X
	y := b.Y - chipH
	if y < 0 {
		y = b.Y
	}
	dc.SetHexColor(hex)
	dc.DrawRectangle(x, y, w+2*chipPadding, chipH)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.DrawString(text, x+chipPadding, y+chipH-chipPadding-2)
}
