// Package storage persists region layouts and training datasets, both
// to local JSON files and best-effort to a remote Postgres store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("storage: key not found")

// KV is a flat key/value blob store. FileStore is the only production
// implementation; tests substitute an in-memory map.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Remove(key string) error
}

// FileStore keeps one JSON file per key under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the application data directory under the XDG
// data home and probes it for writability so a broken disk surfaces at
// startup instead of silently losing work later.
func NewFileStore(appDir string) (*FileStore, error) {
	if appDir == "" {
		appDir = "smart-inspector"
	}
	dir := filepath.Join(xdg.DataHome, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return nil, fmt.Errorf("data dir not writable: %w", err)
	}
	_ = os.Remove(probe)
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Set(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// sanitizeKey makes a key safe as a file name. Variant names contain
// spaces and arbitrary casing.
func sanitizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// VariantStore reads and writes the per-variant layout and dataset.
// Each variant keeps its own region geometry and its own trained
// examples; switching variants swaps both.
type VariantStore struct {
	kv KV
}

// NewVariantStore wraps a KV store.
func NewVariantStore(kv KV) *VariantStore {
	return &VariantStore{kv: kv}
}

func regionsKey(variant string) string { return "regions-" + sanitizeKey(variant) }
func datasetKey(variant string) string { return "dataset-" + sanitizeKey(variant) }

// Probe writes and removes a scratch key, confirming the store is
// still writable before destructive operations proceed.
func (v *VariantStore) Probe() error {
	if err := v.kv.Set("probe", []byte("ok")); err != nil {
		return fmt.Errorf("storage not writable: %w", err)
	}
	return v.kv.Remove("probe")
}

// SaveRegions stores the region layout for a variant. Prediction state
// is not serialized; Region marks those fields json:"-".
func (v *VariantStore) SaveRegions(variant string, regions []inspect.Region) error {
	data, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("encode regions: %w", err)
	}
	if err := v.kv.Set(regionsKey(variant), data); err != nil {
		return fmt.Errorf("save regions for %q: %w", variant, err)
	}
	return nil
}

// LoadRegions returns the stored layout for a variant, or ErrNotFound
// when the variant has never been saved.
func (v *VariantStore) LoadRegions(variant string) ([]inspect.Region, error) {
	data, err := v.kv.Get(regionsKey(variant))
	if err != nil {
		return nil, err
	}
	var regions []inspect.Region
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("decode regions for %q: %w", variant, err)
	}
	return regions, nil
}

// SaveDataset stores a variant's serialized training examples.
func (v *VariantStore) SaveDataset(variant string, ds classify.SerializedDataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := v.kv.Set(datasetKey(variant), data); err != nil {
		return fmt.Errorf("save dataset for %q: %w", variant, err)
	}
	return nil
}

// LoadDataset returns the stored dataset for a variant, or ErrNotFound.
func (v *VariantStore) LoadDataset(variant string) (classify.SerializedDataset, error) {
	data, err := v.kv.Get(datasetKey(variant))
	if err != nil {
		return nil, err
	}
	var ds classify.SerializedDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset for %q: %w", variant, err)
	}
	return ds, nil
}

// RemoveDataset deletes a variant's stored dataset. Used by the
// delete-all-samples flow after the in-memory classifier is cleared.
func (v *VariantStore) RemoveDataset(variant string) error {
	return v.kv.Remove(datasetKey(variant))
}
