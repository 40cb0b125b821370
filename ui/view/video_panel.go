package view

import (
	"image"

	"github.com/dcamarg/smart-inspector-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerSink receives canvas pointer events in display coordinates.
type PointerSink interface {
	PointerDown(x, y int)
	PointerMove(x, y int)
	PointerUp()
}

// VideoPanel shows the composited video frame and forwards pointer
// events for region dragging.
type VideoPanel interface {
	UpdateVideo(img image.Image)
	Reset()
}

type videoPanel struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo instance, disposed before replacement
}

// NewVideoPanel creates the video surface at the given grid row and
// binds pointer events to the sink.
func NewVideoPanel(row int, width, height int, sink PointerSink) VideoPanel {
	placeholder := image.NewRGBA(image.Rect(0, 0, width, height))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	label := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(label, Row(row), Column(0), Columnspan(3), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	v := &videoPanel{label: label, prevPhoto: photo}
	if sink != nil {
		Bind(label, "<ButtonPress-1>", Command(func(e *Event) { sink.PointerDown(e.X, e.Y) }))
		Bind(label, "<B1-Motion>", Command(func(e *Event) { sink.PointerMove(e.X, e.Y) }))
		Bind(label, "<ButtonRelease-1>", Command(func(e *Event) { sink.PointerUp() }))
	}
	return v
}

func (v *videoPanel) UpdateVideo(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	photo := NewPhoto(Data(pngBytes))
	v.prevPhoto = photo
	v.label.Configure(Image(photo))
}

func (v *videoPanel) Reset() {
	if v == nil || v.label == nil {
		return
	}
	placeholder := image.NewRGBA(image.Rect(0, 0, 200, 120))
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.label.Configure(Image(v.prevPhoto))
}
