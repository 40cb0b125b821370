package inspect

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrLastRegion is returned when removing the only remaining region.
	ErrLastRegion = errors.New("cannot remove the last region")
	// ErrNoRegion is returned when an id does not reference a stored region.
	ErrNoRegion = errors.New("no such region")
	// ErrSampleCap is returned when a region is already at its sample limit.
	ErrSampleCap = errors.New("sample limit reached")
)

// DefaultBox is the geometry given to new and fallback regions.
var DefaultBox = Box{X: 50, Y: 50, W: 150, H: 150}

type storeState struct {
	regions  []Region
	activeID string
}

// Store is the single source of truth for inspection regions. Writers
// (interaction, training, the prediction scheduler) mutate it under a
// lock; readers (the render loop) call Snapshot, which never blocks:
// every mutation publishes a fresh immutable slice through an atomic
// pointer, so a loop holding an older slice is unaffected mid-frame.
type Store struct {
	mu      sync.Mutex
	state   atomic.Pointer[storeState]
	minSize float64
	persist func([]Region)
	logger  *slog.Logger
}

// NewStore returns a store seeded with the given regions, or with one
// default region when the slice is empty. The first region is active.
func NewStore(regions []Region, minSize float64, logger *slog.Logger) *Store {
	if len(regions) == 0 {
		regions = []Region{{ID: uuid.NewString(), Name: "Objeto 1", Box: DefaultBox}}
	}
	s := &Store{minSize: minSize, logger: logger}
	s.state.Store(&storeState{regions: cloneRegions(regions), activeID: regions[0].ID})
	return s
}

// SetPersister installs the hook invoked with a snapshot copy after
// every structural mutation. The hook owns its own error handling;
// persistence failures must never propagate into region mutation.
func (s *Store) SetPersister(fn func([]Region)) {
	s.mu.Lock()
	s.persist = fn
	s.mu.Unlock()
}

// Snapshot returns the current regions and the active region id. The
// returned slice is immutable; callers must not modify it.
func (s *Store) Snapshot() ([]Region, string) {
	st := s.state.Load()
	return st.regions, st.activeID
}

// Len returns the number of regions.
func (s *Store) Len() int { return len(s.state.Load().regions) }

// Get returns the region with the given id.
func (s *Store) Get(id string) (Region, bool) {
	for _, r := range s.state.Load().regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// Active returns the currently selected region.
func (s *Store) Active() (Region, bool) {
	st := s.state.Load()
	for _, r := range st.regions {
		if r.ID == st.activeID {
			return r, true
		}
	}
	return Region{}, false
}

// Add appends a new region with a fresh id and makes it active.
func (s *Store) Add(name string, box Box) Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	if name == "" {
		name = fmt.Sprintf("Objeto %d", len(st.regions)+1)
	}
	if box.W < s.minSize || box.H < s.minSize {
		box = DefaultBox
	}
	r := Region{ID: uuid.NewString(), Name: name, Box: box}
	regions := append(cloneRegions(st.regions), r)
	s.publish(regions, r.ID)
	s.persistLocked(regions)
	return r
}

// Remove deletes a region. Removing the last region is rejected. When
// the active region is removed, the first remaining region in store
// order becomes active.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	if len(st.regions) <= 1 {
		return ErrLastRegion
	}
	regions := make([]Region, 0, len(st.regions)-1)
	found := false
	for _, r := range st.regions {
		if r.ID == id {
			found = true
			continue
		}
		regions = append(regions, r)
	}
	if !found {
		return ErrNoRegion
	}
	active := st.activeID
	if active == id {
		active = regions[0].ID
	}
	s.publish(regions, active)
	s.persistLocked(regions)
	return nil
}

// UpdateBox replaces a region's geometry without persisting. Interaction
// uses it for live drag/resize feedback; Persist commits on pointer-up.
func (s *Store) UpdateBox(id string, box Box) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if box.W < s.minSize {
		box.W = s.minSize
	}
	if box.H < s.minSize {
		box.H = s.minSize
	}
	return s.mutateLocked(id, false, func(r *Region) { r.Box = box })
}

// Rename changes a region's display name and persists.
func (s *Store) Rename(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(id, true, func(r *Region) { r.Name = name })
}

// SetActive selects the region with the given id.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	for _, r := range st.regions {
		if r.ID == id {
			s.publish(st.regions, id)
			return nil
		}
	}
	return ErrNoRegion
}

// IncrementSamples bumps a region's sample count, rejecting the call
// when the cap is already reached. No state changes on rejection.
func (s *Store) IncrementSamples(id string, cap int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.getLocked(id)
	if !ok {
		return ErrNoRegion
	}
	if cap > 0 && r.Samples >= cap {
		return ErrSampleCap
	}
	return s.mutateLocked(id, true, func(r *Region) { r.Samples++ })
}

// AddSamples adds count samples to a region in one write, clamped to
// the cap. Used by the remote bulk loader.
func (s *Store) AddSamples(id string, count, cap int) error {
	if count <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(id, true, func(r *Region) {
		r.Samples += count
		if cap > 0 && r.Samples > cap {
			r.Samples = cap
		}
	})
}

// ResetSamples zeroes a region's sample count and prediction state.
// The caller is responsible for clearing the classifier label.
func (s *Store) ResetSamples(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(id, true, func(r *Region) {
		r.Samples = 0
		r.Status = StatusUnknown
		r.Confidence = 0
	})
}

// ResetAllSamples zeroes every region's samples and prediction state.
func (s *Store) ResetAllSamples() {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	regions := cloneRegions(st.regions)
	for i := range regions {
		regions[i].Samples = 0
		regions[i].Status = StatusUnknown
		regions[i].Confidence = 0
	}
	s.publish(regions, st.activeID)
	s.persistLocked(regions)
}

// ApplyResults writes one prediction iteration's outcome for all listed
// regions as a single publish, so readers never observe a partially
// updated iteration. Regions absent from the map keep their previous
// status. Unknown ids are ignored (the region was removed mid-flight).
func (s *Store) ApplyResults(results map[string]Result) {
	if len(results) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	regions := cloneRegions(st.regions)
	for i := range regions {
		if res, ok := results[regions[i].ID]; ok {
			regions[i].Status = res.Status
			regions[i].Confidence = res.Confidence
		}
	}
	s.publish(regions, st.activeID)
}

// ClearStatuses resets every region's status and confidence to unknown.
// Called when the prediction scheduler stops.
func (s *Store) ClearStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.Load()
	regions := cloneRegions(st.regions)
	for i := range regions {
		regions[i].Status = StatusUnknown
		regions[i].Confidence = 0
	}
	s.publish(regions, st.activeID)
}

// Replace swaps in a different region set (variant switch). Falls back
// to one default region when the slice is empty; the first region
// becomes active. Prediction state is cleared, sample counts are kept.
func (s *Store) Replace(regions []Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(regions) == 0 {
		regions = []Region{{ID: uuid.NewString(), Name: "Objeto 1", Box: DefaultBox}}
	}
	next := cloneRegions(regions)
	for i := range next {
		next[i].Status = StatusUnknown
		next[i].Confidence = 0
	}
	s.publish(next, next[0].ID)
}

// Persist invokes the persistence hook with the current regions.
// Interaction calls it on pointer-up to commit a finished drag/resize.
func (s *Store) Persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(s.state.Load().regions)
}

func (s *Store) getLocked(id string) (Region, bool) {
	for _, r := range s.state.Load().regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// mutateLocked clones the region slice, applies fn to the matching
// region and publishes. Caller must hold s.mu.
func (s *Store) mutateLocked(id string, persist bool, fn func(*Region)) error {
	st := s.state.Load()
	regions := cloneRegions(st.regions)
	found := false
	for i := range regions {
		if regions[i].ID == id {
			fn(&regions[i])
			found = true
			break
		}
	}
	if !found {
		return ErrNoRegion
	}
	s.publish(regions, st.activeID)
	if persist {
		s.persistLocked(regions)
	}
	return nil
}

func (s *Store) publish(regions []Region, activeID string) {
	s.state.Store(&storeState{regions: regions, activeID: activeID})
}

func (s *Store) persistLocked(regions []Region) {
	if s.persist == nil {
		return
	}
	s.persist(cloneRegions(regions))
}

func cloneRegions(in []Region) []Region {
	out := make([]Region, len(in))
	copy(out, in)
	return out
}
