// Package presenter connects domain services to the Tk views. All
// presenter methods run on the Tk event loop thread.
package presenter

import (
	"image"
	"image/draw"
	"sync/atomic"
	"time"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/ui/images"
	"github.com/dcamarg/smart-inspector-go/ui/model"
	"github.com/dcamarg/smart-inspector-go/ui/render"
)

// VideoView is the canvas surface the presenter paints.
type VideoView interface {
	UpdateVideo(img image.Image)
	SetStatusLine(text string)
}

// PredictState reports whether the verdict loop is running.
type PredictState interface {
	Running() bool
}

// RenderPresenter composites the latest frame with the region overlay
// every tick. It keeps the display-space size it last drew so pointer
// coordinates and crop geometry use the same mapping.
type RenderPresenter struct {
	Source   capture.FrameSource
	Store    *inspect.Store
	FSM      *inspect.InteractionFSM
	App      *model.AppModel
	Messages *model.MessageModel
	Predict  PredictState
	View     VideoView
	MaxW     int
	MaxH     int

	background Background
	display    atomic.Pointer[inspect.Space]
}

// Display returns the size of the last composed frame in display
// space. The scheduler goroutine reads it while Tick writes from the
// Tk thread, hence the atomic snapshot.
func (p *RenderPresenter) Display() inspect.Space {
	if p == nil {
		return inspect.Space{}
	}
	if s := p.display.Load(); s != nil {
		return *s
	}
	return inspect.Space{}
}

// Tick pulls the latest frame and redraws. Regions may have changed
// even when the frame has not, so every tick repaints.
func (p *RenderPresenter) Tick(now time.Time) {
	if p == nil || p.Source == nil || p.Store == nil || p.View == nil {
		return
	}
	snap := p.Source.LatestFrame()
	if snap.Image == nil {
		return
	}
	scaled := images.ScaleToFit(snap.Image, p.MaxW, p.MaxH)
	frame := toRGBA(scaled)
	b := frame.Bounds()
	disp := inspect.Space{W: b.Dx(), H: b.Dy()}
	p.display.Store(&disp)
	if p.FSM != nil {
		p.FSM.SetBounds(float64(disp.W), float64(disp.H))
	}

	regions, activeID := p.Store.Snapshot()
	render.Compose(frame, render.View{
		Regions:    regions,
		ActiveID:   activeID,
		Mode:       p.App.Mode(),
		Predicting: p.Predict != nil && p.Predict.Running(),
	})
	p.View.UpdateVideo(frame)
	p.View.SetStatusLine(p.statusLine(regions, now))
}

func (p *RenderPresenter) statusLine(regions []inspect.Region, now time.Time) string {
	if msg := p.Messages.Current(now); msg != "" {
		return msg
	}
	if p.App.Mode() == inspect.ModeSetup {
		return model.BalanceAdvice(regions, p.backgroundExamples())
	}
	return ""
}

// BackgroundCounter is satisfied by the classifier.
type BackgroundCounter interface {
	NumExamples(label string) int
}

// Background wires the classifier and label used for balance advice.
type Background struct {
	Counter BackgroundCounter
	Label   func() string
}

// SetBackground installs the background example source.
func (p *RenderPresenter) SetBackground(b Background) { p.background = b }

func (p *RenderPresenter) backgroundExamples() int {
	if p.background.Counter == nil || p.background.Label == nil {
		return 0
	}
	return p.background.Counter.NumExamples(p.background.Label())
}

// toRGBA always copies: the overlay draws in place and must never
// paint on the capture buffer another reader may hold.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
