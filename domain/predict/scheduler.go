// Package predict runs the throttled classification loop that turns
// live frames into per-region pass/fail verdicts.
package predict

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/feature"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// SessionSource reports whether an inspection session is open.
type SessionSource interface {
	Active() bool
}

// Scheduler is a self-rescheduling loop: while running, it crops every
// region from the latest frame, extracts features, classifies and
// writes all results back as one batched store update. The next
// iteration is scheduled only after the current one fully completes,
// with a minimum delay in between; iterations never overlap.
type Scheduler struct {
	store      *inspect.Store
	classifier *classify.Classifier
	extractor  feature.Extractor
	cache      *feature.Cache
	source     capture.FrameSource
	gate       SessionSource
	variant    func() string
	threshold  func() float64
	display    func() inspect.Space
	interval   time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	running  atomic.Bool
	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

// Options carries the scheduler's collaborators. Variant, Threshold and
// Display are read fresh each iteration so slider and layout changes
// take effect on the next tick, never mid-iteration.
type Options struct {
	Store      *inspect.Store
	Classifier *classify.Classifier
	Extractor  feature.Extractor
	Cache      *feature.Cache
	Source     capture.FrameSource
	Gate       SessionSource
	Variant    func() string
	Threshold  func() float64
	Display    func() inspect.Space
	Interval   time.Duration
	Logger     *slog.Logger
}

// NewScheduler constructs a stopped scheduler.
func NewScheduler(o Options) *Scheduler {
	if o.Interval <= 0 {
		o.Interval = 333 * time.Millisecond
	}
	return &Scheduler{
		store:      o.Store,
		classifier: o.Classifier,
		extractor:  o.Extractor,
		cache:      o.Cache,
		source:     o.Source,
		gate:       o.Gate,
		variant:    o.Variant,
		threshold:  o.Threshold,
		display:    o.Display,
		interval:   o.Interval,
		logger:     o.Logger,
	}
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Start begins the loop. Idempotent.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	if s.logger != nil {
		s.logger.Info("prediction started")
	}
}

// Stop cancels the outstanding scheduled iteration, waits for an
// in-flight one to finish and resets every region's status to unknown.
// Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stop)
	<-s.done
	s.store.ClearStatuses()
	if s.logger != nil {
		s.logger.Info("prediction stopped")
	}
}

func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)
	for {
		s.iterate()
		select {
		case <-stop:
			return
		case <-time.After(s.interval):
		}
	}
}

// iterate performs one full prediction pass. All per-region failures
// (degenerate crop, extraction error, no training data) are absorbed:
// the region keeps its previous status this tick.
func (s *Scheduler) iterate() {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)

	if s.gate != nil && !s.gate.Active() {
		return
	}
	snap := s.source.LatestFrame()
	if snap.Image == nil {
		return
	}
	disp := s.display()
	nw, nh := snap.Size()
	native := inspect.Space{W: nw, H: nh}

	variant := s.variant()
	threshold := s.threshold()
	bgCount := s.classifier.NumExamples(classify.BackgroundLabel(variant))

	regions, _ := s.store.Snapshot()
	results := make(map[string]inspect.Result, len(regions))
	for _, r := range regions {
		if r.Samples == 0 && bgCount == 0 {
			continue
		}
		emb, ok := s.embedRegion(snap, r.Box, disp, native)
		if !ok {
			continue
		}
		pred, err := s.classifier.Predict(emb)
		if err != nil {
			if !errors.Is(err, classify.ErrNoData) && s.logger != nil {
				s.logger.Debug("predict", "region", r.ID, "error", err)
			}
			continue
		}
		own := classify.RegionLabel(variant, r.ID)
		conf := pred.Confidences[own]
		status := inspect.StatusFail
		if pred.Label == own && conf >= threshold {
			status = inspect.StatusPass
		}
		results[r.ID] = inspect.Result{Status: status, Confidence: conf}
	}
	s.store.ApplyResults(results)
}

// embedRegion crops the frame in native space and extracts features,
// consulting the cache so an unchanged frame+geometry is free.
func (s *Scheduler) embedRegion(snap capture.FrameSnapshot, box inspect.Box, disp, native inspect.Space) (classify.Embedding, bool) {
	rect, ok := inspect.NativeCrop(box, disp, native)
	if !ok {
		return nil, false
	}
	key := feature.CropKey{Sequence: snap.Sequence, Rect: rect}
	if emb, hit := s.cache.Get(key); hit {
		return emb, true
	}
	crop, err := capture.Crop(snap.Image, rect)
	if err != nil {
		return nil, false
	}
	emb, err := s.extractor.Embed(crop)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("embed", "error", err)
		}
		return nil, false
	}
	s.cache.Add(key, emb)
	return emb, true
}
