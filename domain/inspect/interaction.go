package inspect

import (
	"log/slog"
	"math"
)

// InteractionState enumerates finite states of region editing.
type InteractionState int

const (
	Idle InteractionState = iota
	Dragging
	Resizing
)

func (s InteractionState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// InteractionFSM decodes pointer events into region selection, drag and
// resize operations against the store. All coordinates are display
// space. Events are ignored outside setup mode; the enabled callback
// decides that, so the FSM stays free of UI mode plumbing.
type InteractionFSM struct {
	store     *Store
	enabled   func() bool
	minSize   float64
	tolerance float64
	logger    *slog.Logger

	state          InteractionState
	targetID       string
	lastX, lastY   float64
	boundW, boundH float64
}

// NewInteractionFSM constructs an idle FSM bound to the store.
func NewInteractionFSM(store *Store, enabled func() bool, minSize, tolerance float64, logger *slog.Logger) *InteractionFSM {
	return &InteractionFSM{store: store, enabled: enabled, minSize: minSize, tolerance: tolerance, logger: logger}
}

// State returns the current interaction state.
func (f *InteractionFSM) State() InteractionState { return f.state }

// SetBounds updates the display-space canvas size used for clamping.
// The render presenter refreshes it whenever the preview is resized.
func (f *InteractionFSM) SetBounds(w, h float64) {
	if w > 0 && h > 0 {
		f.boundW, f.boundH = w, h
	}
}

// PointerDown hit-tests regions in reverse z-order (most recently added
// first), checking each region's resize handle before its body. A handle
// hit starts a resize, a body hit selects the region and starts a drag,
// no hit leaves the FSM idle.
func (f *InteractionFSM) PointerDown(x, y float64) {
	if f.enabled != nil && !f.enabled() {
		return
	}
	regions, _ := f.store.Snapshot()
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if f.inHandle(r.Box, x, y) {
			f.state = Resizing
			f.targetID = r.ID
			f.lastX, f.lastY = x, y
			_ = f.store.SetActive(r.ID)
			return
		}
		if r.Box.Contains(x, y) {
			f.state = Dragging
			f.targetID = r.ID
			f.lastX, f.lastY = x, y
			_ = f.store.SetActive(r.ID)
			return
		}
	}
}

// PointerMove applies the delta since the previous event to the target
// region: translation while dragging, growth while resizing, both
// clamped to the canvas bounds and the minimum region size.
func (f *InteractionFSM) PointerMove(x, y float64) {
	if f.state == Idle {
		return
	}
	if f.enabled != nil && !f.enabled() {
		f.Cancel()
		return
	}
	r, ok := f.store.Get(f.targetID)
	if !ok {
		f.Cancel()
		return
	}
	dx, dy := x-f.lastX, y-f.lastY
	f.lastX, f.lastY = x, y
	box := r.Box
	switch f.state {
	case Dragging:
		box.X += dx
		box.Y += dy
		box.X = clamp(box.X, 0, math.Max(0, f.boundW-box.W))
		box.Y = clamp(box.Y, 0, math.Max(0, f.boundH-box.H))
	case Resizing:
		box.W = clamp(box.W+dx, f.minSize, math.Max(f.minSize, f.boundW-box.X))
		box.H = clamp(box.H+dy, f.minSize, math.Max(f.minSize, f.boundH-box.Y))
	}
	if err := f.store.UpdateBox(f.targetID, box); err != nil {
		f.Cancel()
	}
}

// PointerUp commits the in-progress edit: the store already holds the
// final geometry, so the FSM persists it and returns to idle.
func (f *InteractionFSM) PointerUp() {
	if f.state == Idle {
		return
	}
	f.state = Idle
	f.targetID = ""
	f.store.Persist()
}

// Cancel abandons an in-progress edit without persisting.
func (f *InteractionFSM) Cancel() {
	f.state = Idle
	f.targetID = ""
}

// inHandle reports whether (x, y) falls in the resize handle zone, a
// square of side 2*tolerance anchored at the box's bottom-right corner.
func (f *InteractionFSM) inHandle(b Box, x, y float64) bool {
	return math.Abs(x-(b.X+b.W)) < f.tolerance && math.Abs(y-(b.Y+b.H)) < f.tolerance
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
