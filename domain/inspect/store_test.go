package inspect

import (
	"log/slog"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(discardWriter{}, nil))

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestStore(n int) *Store {
	s := NewStore(nil, 20, discardLogger)
	for i := 1; i < n; i++ {
		s.Add("", Box{X: 10, Y: 10, W: 100, H: 100})
	}
	return s
}

func TestStoreNeverEmpty(t *testing.T) {
	s := newTestStore(1)
	regions, active := s.Snapshot()
	if len(regions) != 1 {
		t.Fatalf("expected 1 seeded region, got %d", len(regions))
	}
	if active != regions[0].ID {
		t.Fatalf("seed region should be active")
	}
	if err := s.Remove(regions[0].ID); err != ErrLastRegion {
		t.Fatalf("expected ErrLastRegion, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("last-region removal must be a no-op")
	}
}

func TestStoreRemoveActivePromotesFirstRemaining(t *testing.T) {
	s := newTestStore(3)
	regions, _ := s.Snapshot()
	// Add made the last region active.
	if _, active := s.Snapshot(); active != regions[2].ID {
		t.Fatalf("expected most recent region active")
	}
	if err := s.Remove(regions[2].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	remaining, active := s.Snapshot()
	if len(remaining) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(remaining))
	}
	if active != remaining[0].ID {
		t.Fatalf("expected first remaining region active, got %s", active)
	}
}

func TestStoreRemoveInactiveKeepsActive(t *testing.T) {
	s := newTestStore(3)
	regions, _ := s.Snapshot()
	if err := s.SetActive(regions[0].ID); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if err := s.Remove(regions[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, active := s.Snapshot(); active != regions[0].ID {
		t.Fatalf("active id changed by removing an inactive region")
	}
}

func TestStoreSampleCap(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	id := regions[0].ID
	const cap = 5
	for i := 0; i < cap; i++ {
		if err := s.IncrementSamples(id, cap); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	r, _ := s.Get(id)
	if r.Samples != cap {
		t.Fatalf("expected %d samples, got %d", cap, r.Samples)
	}
	if err := s.IncrementSamples(id, cap); err != ErrSampleCap {
		t.Fatalf("expected ErrSampleCap, got %v", err)
	}
	r, _ = s.Get(id)
	if r.Samples != cap {
		t.Fatalf("rejected increment must not change state")
	}
}

func TestStoreApplyResultsIsBatched(t *testing.T) {
	s := newTestStore(2)
	regions, _ := s.Snapshot()
	before, _ := s.Snapshot()
	s.ApplyResults(map[string]Result{
		regions[0].ID: {Status: StatusPass, Confidence: 0.9},
		regions[1].ID: {Status: StatusFail, Confidence: 0.2},
	})
	after, _ := s.Snapshot()
	if &before[0] == &after[0] {
		t.Fatalf("ApplyResults must publish a fresh slice")
	}
	if after[0].Status != StatusPass || after[1].Status != StatusFail {
		t.Fatalf("results not applied: %v %v", after[0].Status, after[1].Status)
	}
	// The old snapshot is untouched.
	if before[0].Status != StatusUnknown {
		t.Fatalf("previous snapshot mutated")
	}
}

func TestStoreApplyResultsKeepsUnlistedRegions(t *testing.T) {
	s := newTestStore(2)
	regions, _ := s.Snapshot()
	s.ApplyResults(map[string]Result{regions[0].ID: {Status: StatusPass, Confidence: 1}})
	s.ApplyResults(map[string]Result{regions[1].ID: {Status: StatusFail, Confidence: 0.1}})
	after, _ := s.Snapshot()
	if after[0].Status != StatusPass {
		t.Fatalf("unlisted region lost its previous status")
	}
}

func TestStoreClearStatuses(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	s.ApplyResults(map[string]Result{regions[0].ID: {Status: StatusFail, Confidence: 0.3}})
	s.ClearStatuses()
	r, _ := s.Get(regions[0].ID)
	if r.Status != StatusUnknown || r.Confidence != 0 {
		t.Fatalf("expected unknown/0 after clear, got %v/%v", r.Status, r.Confidence)
	}
}

func TestStorePersistOnStructuralMutation(t *testing.T) {
	s := newTestStore(1)
	saves := 0
	s.SetPersister(func(regions []Region) { saves++ })
	r := s.Add("porta", Box{X: 0, Y: 0, W: 50, H: 50})
	_ = s.Rename(r.ID, "porta dianteira")
	_ = s.Remove(r.ID)
	if saves != 3 {
		t.Fatalf("expected 3 persisted mutations, got %d", saves)
	}
	// Live box updates do not persist until Persist is called.
	regions, _ := s.Snapshot()
	_ = s.UpdateBox(regions[0].ID, Box{X: 1, Y: 1, W: 60, H: 60})
	if saves != 3 {
		t.Fatalf("UpdateBox must not persist")
	}
	s.Persist()
	if saves != 4 {
		t.Fatalf("Persist must invoke the hook")
	}
}

func TestStoreReplaceFallsBackToDefault(t *testing.T) {
	s := newTestStore(2)
	s.Replace(nil)
	regions, active := s.Snapshot()
	if len(regions) != 1 {
		t.Fatalf("expected fallback region, got %d", len(regions))
	}
	if active != regions[0].ID {
		t.Fatalf("fallback region should be active")
	}
}

func TestStoreUpdateBoxClampsMinSize(t *testing.T) {
	s := newTestStore(1)
	regions, _ := s.Snapshot()
	if err := s.UpdateBox(regions[0].ID, Box{X: 5, Y: 5, W: 3, H: 3}); err != nil {
		t.Fatalf("update: %v", err)
	}
	r, _ := s.Get(regions[0].ID)
	if r.Box.W != 20 || r.Box.H != 20 {
		t.Fatalf("expected min size 20, got %vx%v", r.Box.W, r.Box.H)
	}
}
