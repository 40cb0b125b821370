package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

var discardLogger = slog.New(slog.NewTextHandler(discardWriter{}, nil))

type stubSource struct {
	snap capture.FrameSnapshot
}

func (s *stubSource) LatestFrame() capture.FrameSnapshot { return s.snap }
func (s *stubSource) Running() bool                      { return true }

type stubExtractor struct{ calls int }

func (e *stubExtractor) Embed(img image.Image) (classify.Embedding, error) {
	e.calls++
	return classify.Embedding{1, 2, 3}, nil
}

type stubDatasets struct {
	saved    int
	removed  int
	probeErr error
}

func (d *stubDatasets) SaveDataset(variant string, ds classify.SerializedDataset) error {
	d.saved++
	return nil
}

func (d *stubDatasets) RemoveDataset(variant string) error {
	d.removed++
	return nil
}

func (d *stubDatasets) Probe() error { return d.probeErr }

type stubRemote struct {
	mu      sync.Mutex
	inserts int
	deletes int
}

func (r *stubRemote) InsertSample(ctx context.Context, variant, label string, e classify.Embedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	return nil
}

func (r *stubRemote) DeleteSamples(ctx context.Context, variant string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	return nil
}

func (r *stubRemote) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inserts, r.deletes
}

type stubHistory struct{ cleared int }

func (h *stubHistory) ClearHistory() { h.cleared++ }

type stubPredict struct{ running bool }

func (s *stubPredict) Running() bool { return s.running }
func (s *stubPredict) Start()        { s.running = true }
func (s *stubPredict) Stop()         { s.running = false }

func trainingFixture(t *testing.T) (*TrainingPresenter, *inspect.Store, *classify.Classifier, *stubPredict) {
	t.Helper()
	store := inspect.NewStore(nil, 20, discardLogger)
	classifier := classify.NewClassifier(3)
	predict := &stubPredict{}
	frame := image.NewRGBA(image.Rect(0, 0, 640, 480))
	p := &TrainingPresenter{
		Store:      store,
		Classifier: classifier,
		Extractor:  &stubExtractor{},
		Source:     &stubSource{snap: capture.FrameSnapshot{Image: frame, Sequence: 1}},
		App:        model.NewAppModel("Polo Track"),
		Messages:   model.NewMessageModel(),
		Predict:    predict,
		Display:    func() inspect.Space { return inspect.Space{W: 640, H: 480} },
		Datasets:   &stubDatasets{},
		SampleCap:  3,
		Logger:     discardLogger,
	}
	return p, store, classifier, predict
}

func TestCaptureSampleTrainsActiveRegion(t *testing.T) {
	p, store, classifier, _ := trainingFixture(t)
	region, _ := store.Active()

	p.CaptureSample()

	label := classify.RegionLabel("Polo Track", region.ID)
	if n := classifier.NumExamples(label); n != 1 {
		t.Fatalf("examples = %d, want 1", n)
	}
	updated, _ := store.Get(region.ID)
	if updated.Samples != 1 {
		t.Fatalf("samples = %d, want 1", updated.Samples)
	}
	if p.Datasets.(*stubDatasets).saved != 1 {
		t.Fatal("dataset was not persisted after capture")
	}
}

func TestCaptureSampleStopsAtCap(t *testing.T) {
	p, store, classifier, _ := trainingFixture(t)
	region, _ := store.Active()
	for i := 0; i < 5; i++ {
		p.CaptureSample()
	}
	label := classify.RegionLabel("Polo Track", region.ID)
	if n := classifier.NumExamples(label); n != 3 {
		t.Fatalf("examples = %d, want cap of 3", n)
	}
	updated, _ := store.Get(region.ID)
	if updated.Samples != 3 {
		t.Fatalf("samples = %d, want cap of 3", updated.Samples)
	}
}

func TestCaptureBackgroundSweepsEveryRegion(t *testing.T) {
	p, store, classifier, _ := trainingFixture(t)
	store.Add("Objeto 2", inspect.Box{X: 60, Y: 10, W: 40, H: 40})

	p.CaptureBackground()

	if n := classifier.NumExamples(classify.BackgroundLabel("Polo Track")); n != 2 {
		t.Fatalf("background examples = %d, want one per region", n)
	}
}

func TestDeleteAllRefusedWhilePredicting(t *testing.T) {
	p, store, classifier, predict := trainingFixture(t)
	p.CaptureSample()
	predict.running = true

	p.DeleteAll()

	region, _ := store.Active()
	if classifier.NumClasses() == 0 || region.Samples == 0 {
		t.Fatal("delete-all ran while the verdict loop was active")
	}
	if msg := p.Messages.Current(time.Now()); msg == "" {
		t.Fatal("operator got no explanation for the refused delete")
	}
}

func TestDeleteAllClearsEverything(t *testing.T) {
	p, store, classifier, _ := trainingFixture(t)
	history := &stubHistory{}
	p.History = history
	p.Variants = []string{"Polo Track", "Tera"}
	p.CaptureSample()
	p.CaptureBackground()

	p.DeleteAll()
	if classifier.NumClasses() == 0 {
		t.Fatal("first click must only arm the confirmation")
	}
	p.DeleteAll()

	if classifier.NumClasses() != 0 {
		t.Fatalf("classes = %d after delete-all", classifier.NumClasses())
	}
	region, _ := store.Active()
	if region.Samples != 0 {
		t.Fatalf("samples = %d after delete-all", region.Samples)
	}
	if p.Datasets.(*stubDatasets).removed != 2 {
		t.Fatalf("removed %d datasets, want one per variant", p.Datasets.(*stubDatasets).removed)
	}
	if history.cleared != 1 {
		t.Fatal("history was not cleared")
	}
}

func TestDeleteAllRefusedWhenStorageUnwritable(t *testing.T) {
	p, _, classifier, _ := trainingFixture(t)
	p.CaptureSample()
	p.Datasets.(*stubDatasets).probeErr = errors.New("disk full")

	p.DeleteAll()
	p.DeleteAll()

	if classifier.NumClasses() == 0 {
		t.Fatal("delete-all ran despite unwritable storage")
	}
	if msg := p.Messages.Current(time.Now()); msg == "" {
		t.Fatal("operator got no explanation")
	}
}

func TestResetActiveClearsOnlyOwnLabel(t *testing.T) {
	p, store, classifier, _ := trainingFixture(t)
	p.CaptureSample()
	p.CaptureBackground()

	p.ResetActive()

	region, _ := store.Active()
	if n := classifier.NumExamples(classify.RegionLabel("Polo Track", region.ID)); n != 0 {
		t.Fatalf("region examples = %d after reset", n)
	}
	if n := classifier.NumExamples(classify.BackgroundLabel("Polo Track")); n != 1 {
		t.Fatalf("background examples = %d, reset must not touch them", n)
	}
}

func TestCaptureSampleUploadsRemote(t *testing.T) {
	p, _, _, _ := trainingFixture(t)
	remote := &stubRemote{}
	p.Remote = remote

	p.CaptureSample()

	deadline := time.After(time.Second)
	for {
		if inserts, _ := remote.counts(); inserts == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("remote upload never happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
