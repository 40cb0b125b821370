package inspect

import "testing"

func newTestFSM(s *Store) *InteractionFSM {
	f := NewInteractionFSM(s, func() bool { return true }, 20, 20, discardLogger)
	f.SetBounds(640, 480)
	return f
}

func TestInteractionDragTranslatesOnlyTarget(t *testing.T) {
	s := newTestStore(1)
	other := s.Add("outro", Box{X: 400, Y: 300, W: 80, H: 80})
	regions, _ := s.Snapshot()
	target := regions[0]
	f := newTestFSM(s)

	f.PointerDown(target.Box.X+10, target.Box.Y+10)
	if f.State() != Dragging {
		t.Fatalf("expected dragging, got %v", f.State())
	}
	f.PointerMove(target.Box.X+10+30, target.Box.Y+10+15)
	f.PointerUp()

	moved, _ := s.Get(target.ID)
	if moved.Box.X != target.Box.X+30 || moved.Box.Y != target.Box.Y+15 {
		t.Fatalf("expected translation by (30,15), got (%v,%v)", moved.Box.X-target.Box.X, moved.Box.Y-target.Box.Y)
	}
	untouched, _ := s.Get(other.ID)
	if untouched.Box != other.Box {
		t.Fatalf("non-target region moved")
	}
}

func TestInteractionDragClampsToBounds(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	r := regions[0]
	f := newTestFSM(s)

	f.PointerDown(r.Box.X+5, r.Box.Y+5)
	f.PointerMove(-1000, -1000)
	f.PointerUp()

	moved, _ := s.Get(r.ID)
	if moved.Box.X != 0 || moved.Box.Y != 0 {
		t.Fatalf("expected clamp to origin, got (%v,%v)", moved.Box.X, moved.Box.Y)
	}

	f.PointerDown(moved.Box.X+5, moved.Box.Y+5)
	f.PointerMove(5000, 5000)
	f.PointerUp()
	moved, _ = s.Get(r.ID)
	if moved.Box.X+moved.Box.W > 640 || moved.Box.Y+moved.Box.H > 480 {
		t.Fatalf("box escaped canvas: %+v", moved.Box)
	}
}

func TestInteractionResizeClampsToMinSize(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	r := regions[0]
	f := newTestFSM(s)

	// Bottom-right handle.
	hx, hy := r.Box.X+r.Box.W, r.Box.Y+r.Box.H
	f.PointerDown(hx, hy)
	if f.State() != Resizing {
		t.Fatalf("expected resizing, got %v", f.State())
	}
	f.PointerMove(hx-500, hy-500)
	f.PointerUp()

	resized, _ := s.Get(r.ID)
	if resized.Box.W != 20 || resized.Box.H != 20 {
		t.Fatalf("expected min size 20x20, got %vx%v", resized.Box.W, resized.Box.H)
	}
	if resized.Box.W < 0 || resized.Box.H < 0 {
		t.Fatalf("negative size")
	}
}

func TestInteractionHandleBeatsBodyInReverseZOrder(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	bottom := regions[0]
	// Overlapping region added later sits on top.
	top := s.Add("topo", Box{X: bottom.Box.X + 40, Y: bottom.Box.Y + 40, W: 100, H: 100})
	f := newTestFSM(s)

	// The top region's handle corner overlaps the bottom region's body.
	f.PointerDown(top.Box.X+top.Box.W, top.Box.Y+top.Box.H)
	if f.State() != Resizing {
		t.Fatalf("expected handle of topmost region to win, got %v", f.State())
	}
	f.PointerUp()

	// A plain body hit on the overlap selects the topmost region.
	f.PointerDown(top.Box.X+5, top.Box.Y+5)
	if f.State() != Dragging {
		t.Fatalf("expected dragging, got %v", f.State())
	}
	if _, active := s.Snapshot(); active != top.ID {
		t.Fatalf("expected topmost region selected")
	}
	f.PointerUp()
}

func TestInteractionDisabledIgnoresPointer(t *testing.T) {
	s := newTestStore(1)
	f := NewInteractionFSM(s, func() bool { return false }, 20, 20, discardLogger)
	f.SetBounds(640, 480)
	regions, _ := s.Snapshot()
	f.PointerDown(regions[0].Box.X+5, regions[0].Box.Y+5)
	if f.State() != Idle {
		t.Fatalf("operator mode must ignore pointer events")
	}
}

func TestInteractionMissKeepsIdle(t *testing.T) {
	s := newTestStore(1)
	f := newTestFSM(s)
	f.PointerDown(639, 479)
	if f.State() != Idle {
		t.Fatalf("expected idle on miss, got %v", f.State())
	}
}
