// Package view builds the Tk widget tree. All widget access happens on
// the Tk event loop thread.
package view

import (
	"image"
	"log/slog"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/domain/session"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Callbacks bundles every user action the root view can emit.
type Callbacks struct {
	Region   RegionCallbacks
	Session  SessionCallbacks
	Settings SettingsCallbacks
	Pointer  PointerSink
}

// RootView composes the top-level layout: video on the left, region
// and session panels stacked on the right.
type RootView struct {
	logger *slog.Logger

	Video   VideoPanel
	Regions RegionPanel
	Session SessionPanel

	statusLabel *LabelWidget
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the widget tree.
func (rv *RootView) Build(videoW, videoH int, threshold float64, variants []string, devices []capture.Device, cb Callbacks) {
	if rv == nil {
		return
	}
	rv.Video = NewVideoPanel(0, videoW, videoH, cb.Pointer)

	rv.statusLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.statusLabel, Row(1), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.2m"))

	side := Frame()
	Grid(side, Row(0), Column(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))

	var row int
	rv.Regions, row = NewRegionPanel(side, 0, threshold, cb.Region, rv.logger)
	rv.Session, row = NewSessionPanel(side, row, cb.Session)
	NewSettingsPanel(side, row, variants, devices, cb.Settings, rv.logger)
}

// UpdateVideo proxies to the video panel.
func (rv *RootView) UpdateVideo(img image.Image) {
	if rv != nil && rv.Video != nil {
		rv.Video.UpdateVideo(img)
	}
}

// SetStatusLine shows the transient message under the video.
func (rv *RootView) SetStatusLine(text string) {
	if rv != nil && rv.statusLabel != nil {
		rv.statusLabel.Configure(Txt(text))
	}
}

// SetRegions proxies to the region panel.
func (rv *RootView) SetRegions(regions []inspect.Region, activeID string) {
	if rv != nil && rv.Regions != nil {
		rv.Regions.SetRegions(regions, activeID)
	}
}

// SetModeLabel proxies to the region panel.
func (rv *RootView) SetModeLabel(text string) {
	if rv != nil && rv.Regions != nil {
		rv.Regions.SetModeLabel(text)
	}
}

// SetSessionLabel proxies to the session panel.
func (rv *RootView) SetSessionLabel(text string) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetSessionLabel(text)
	}
}

// SetHistory proxies to the session panel.
func (rv *RootView) SetHistory(entries []session.Entry) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetHistory(entries)
	}
}

// ClearBarcode proxies to the session panel.
func (rv *RootView) ClearBarcode() {
	if rv != nil && rv.Session != nil {
		rv.Session.ClearBarcode()
	}
}
