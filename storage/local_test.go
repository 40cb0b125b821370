package storage

import (
	"errors"
	"testing"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *memKV) Set(key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func TestVariantStoreProbe(t *testing.T) {
	kv := newMemKV()
	store := NewVariantStore(kv)
	if err := store.Probe(); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if _, ok := kv.data["probe"]; ok {
		t.Fatal("probe key left behind")
	}
}

func TestVariantStoreRegionsRoundTrip(t *testing.T) {
	kv := newMemKV()
	vs := NewVariantStore(kv)
	regions := []inspect.Region{
		{ID: "a", Name: "Objeto 1", Box: inspect.Box{X: 10, Y: 20, W: 100, H: 80}, Samples: 5},
		{ID: "b", Name: "Objeto 2", Box: inspect.Box{X: 200, Y: 40, W: 60, H: 60}},
	}
	if err := vs.SaveRegions("Polo Track", regions); err != nil {
		t.Fatalf("SaveRegions: %v", err)
	}
	got, err := vs.LoadRegions("Polo Track")
	if err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Objeto 1" || got[0].Samples != 5 || got[1].Box.X != 200 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestVariantStorePredictionStateNotSerialized(t *testing.T) {
	vs := NewVariantStore(newMemKV())
	regions := []inspect.Region{{
		ID: "a", Name: "Objeto 1",
		Box:        inspect.Box{X: 10, Y: 20, W: 100, H: 80},
		Status:     inspect.StatusFail,
		Confidence: 0.4,
	}}
	if err := vs.SaveRegions("Tera", regions); err != nil {
		t.Fatalf("SaveRegions: %v", err)
	}
	got, err := vs.LoadRegions("Tera")
	if err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}
	if got[0].Status != inspect.StatusUnknown || got[0].Confidence != 0 {
		t.Fatalf("prediction state survived serialization: %+v", got[0])
	}
}

func TestVariantStoreIsolatesVariants(t *testing.T) {
	vs := NewVariantStore(newMemKV())
	if err := vs.SaveRegions("Polo Track", []inspect.Region{{ID: "a", Name: "A"}}); err != nil {
		t.Fatalf("SaveRegions: %v", err)
	}
	if _, err := vs.LoadRegions("Tera"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadRegions(other variant) = %v, want ErrNotFound", err)
	}
}

func TestVariantStoreDatasetRoundTrip(t *testing.T) {
	vs := NewVariantStore(newMemKV())
	ds := classify.SerializedDataset{
		"Polo Track::a": {FlatValues: []float64{1, 2, 3, 4, 5, 6}, Shape: [2]int{2, 3}},
	}
	if err := vs.SaveDataset("Polo Track", ds); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}
	got, err := vs.LoadDataset("Polo Track")
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	cls, ok := got["Polo Track::a"]
	if !ok || cls.Shape != [2]int{2, 3} || len(cls.FlatValues) != 6 || cls.FlatValues[4] != 5 {
		t.Fatalf("dataset round trip mismatch: %+v", got)
	}
}

func TestVariantStoreRemoveDataset(t *testing.T) {
	vs := NewVariantStore(newMemKV())
	ds := classify.SerializedDataset{"k": {FlatValues: []float64{1}, Shape: [2]int{1, 1}}}
	if err := vs.SaveDataset("Polo Track", ds); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}
	if err := vs.RemoveDataset("Polo Track"); err != nil {
		t.Fatalf("RemoveDataset: %v", err)
	}
	if _, err := vs.LoadDataset("Polo Track"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadDataset after remove = %v, want ErrNotFound", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	cases := map[string]string{
		"Polo Track": "polo-track",
		"  Tera  ":   "tera",
		"a/b\\c":     "a-b-c",
		"Model_X-1":  "model_x-1",
		"acentuação": "acentua--o",
	}
	for in, want := range cases {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
