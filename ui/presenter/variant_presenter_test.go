package presenter

import (
	"context"
	"testing"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/storage"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

type stubVariantStorage struct {
	regions  map[string][]inspect.Region
	datasets map[string]classify.SerializedDataset
}

func (s *stubVariantStorage) LoadRegions(variant string) ([]inspect.Region, error) {
	if r, ok := s.regions[variant]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

func (s *stubVariantStorage) LoadDataset(variant string) (classify.SerializedDataset, error) {
	if d, ok := s.datasets[variant]; ok {
		return d, nil
	}
	return nil, storage.ErrNotFound
}

type stubRemoteLoader struct {
	samples map[string][]classify.Embedding
	err     error
}

func (s *stubRemoteLoader) LoadSamples(ctx context.Context, variant string) (map[string][]classify.Embedding, error) {
	return s.samples, s.err
}

func variantFixture(t *testing.T) (*VariantPresenter, *inspect.Store, *classify.Classifier, *stubPredict) {
	t.Helper()
	store := inspect.NewStore(nil, 20, discardLogger)
	classifier := classify.NewClassifier(3)
	predict := &stubPredict{}
	p := &VariantPresenter{
		Store:      store,
		Classifier: classifier,
		App:        model.NewAppModel("Polo Track"),
		Messages:   model.NewMessageModel(),
		Predict:    predict,
		Storage:    &stubVariantStorage{regions: map[string][]inspect.Region{}, datasets: map[string]classify.SerializedDataset{}},
		SampleCap:  20,
		Logger:     discardLogger,
	}
	return p, store, classifier, predict
}

func TestSwitchToKnownVariant(t *testing.T) {
	p, store, classifier, predict := variantFixture(t)
	classifier.AddExample(classify.Embedding{1, 2}, "Polo Track::x")
	p.App.SetMode(inspect.ModeOperator)
	predict.running = true
	saved := []inspect.Region{
		{ID: "r1", Name: "Farol", Box: inspect.Box{X: 10, Y: 10, W: 50, H: 50}, Samples: 4},
	}
	p.Storage.(*stubVariantStorage).regions["Tera"] = saved
	p.Storage.(*stubVariantStorage).datasets["Tera"] = classify.SerializedDataset{
		"Tera::r1": {FlatValues: []float64{1, 2, 3, 4}, Shape: [2]int{2, 2}},
	}

	p.Switch("Tera")

	if predict.running {
		t.Fatal("verdict loop survived a variant switch")
	}
	if p.App.Variant() != "Tera" {
		t.Fatalf("variant = %q", p.App.Variant())
	}
	regions, _ := store.Snapshot()
	if len(regions) != 1 || regions[0].Name != "Farol" {
		t.Fatalf("regions = %+v", regions)
	}
	if n := classifier.NumExamples("Tera::r1"); n != 2 {
		t.Fatalf("imported examples = %d, want 2", n)
	}
	if n := classifier.NumExamples("Polo Track::x"); n != 0 {
		t.Fatal("previous variant's examples leaked into the new dataset")
	}
	if p.App.Mode() != inspect.ModeSetup {
		t.Fatal("variant switch must reset to setup mode")
	}
}

func TestSwitchFlushesOutgoingVariant(t *testing.T) {
	p, _, classifier, _ := variantFixture(t)
	datasets := &stubDatasets{}
	p.Datasets = datasets
	classifier.AddExample(classify.Embedding{1, 2}, classify.RegionLabel("Polo Track", "r1"))

	p.Switch("Tera")

	if datasets.saved != 1 {
		t.Fatal("outgoing variant's dataset was not flushed to disk")
	}
}

func TestSwitchToFreshVariantStartsEmpty(t *testing.T) {
	p, store, classifier, _ := variantFixture(t)
	classifier.AddExample(classify.Embedding{1, 2}, "Polo Track::x")

	p.Switch("Tera")

	if classifier.NumClasses() != 0 {
		t.Fatal("fresh variant should start with an empty dataset")
	}
	regions, _ := store.Snapshot()
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want the default seed region", len(regions))
	}
}

func TestSwitchToSameVariantIsNoop(t *testing.T) {
	p, store, _, predict := variantFixture(t)
	predict.running = true
	before, _ := store.Snapshot()

	p.Switch("Polo Track")

	if !predict.running {
		t.Fatal("no-op switch stopped the verdict loop")
	}
	after, _ := store.Snapshot()
	if len(before) != len(after) || before[0].ID != after[0].ID {
		t.Fatal("no-op switch replaced the regions")
	}
}

func TestSyncRemoteRebuildsDataset(t *testing.T) {
	p, store, classifier, _ := variantFixture(t)
	region, _ := store.Active()
	p.Remote = &stubRemoteLoader{samples: map[string][]classify.Embedding{
		classify.RegionLabel("Polo Track", region.ID): {{1, 2}, {3, 4}},
		classify.BackgroundLabel("Polo Track"):        {{5, 6}},
	}}

	p.SyncRemote()

	if n := classifier.NumExamples(classify.RegionLabel("Polo Track", region.ID)); n != 2 {
		t.Fatalf("region examples = %d, want 2", n)
	}
	updated, _ := store.Get(region.ID)
	if updated.Samples != 2 {
		t.Fatalf("sample counter = %d, want 2", updated.Samples)
	}
	if n := classifier.NumExamples(classify.BackgroundLabel("Polo Track")); n != 1 {
		t.Fatalf("background examples = %d, want 1", n)
	}
}
