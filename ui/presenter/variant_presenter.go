package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/storage"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

// VariantStorage reads the per-variant layout and dataset.
type VariantStorage interface {
	LoadRegions(variant string) ([]inspect.Region, error)
	LoadDataset(variant string) (classify.SerializedDataset, error)
}

// RemoteLoader bulk-fetches a variant's examples from the remote store.
type RemoteLoader interface {
	LoadSamples(ctx context.Context, variant string) (map[string][]classify.Embedding, error)
}

// VariantPresenter switches the active inspection target. Each variant
// carries its own region layout and training dataset; switching swaps
// both and always stops the verdict loop first.
type VariantPresenter struct {
	Store      *inspect.Store
	Classifier *classify.Classifier
	App        *model.AppModel
	Messages   *model.MessageModel
	Predict    PredictControl
	Session    SessionCloser
	Storage    VariantStorage
	Datasets   DatasetSaver
	Remote     RemoteLoader
	SampleCap  int
	Logger     *slog.Logger
}

// Switch activates another variant. A variant never seen before starts
// with the default layout and an empty dataset.
func (p *VariantPresenter) Switch(variant string) {
	if p == nil || p.Store == nil || variant == "" || variant == p.App.Variant() {
		return
	}
	if p.Predict != nil {
		p.Predict.Stop()
	}
	if p.Session != nil {
		p.Session.ForceClose()
	}

	// Flush the outgoing variant before the persister rekeys.
	outgoing := p.App.Variant()
	p.Store.Persist()
	if p.Datasets != nil {
		if err := p.Datasets.SaveDataset(outgoing, p.Classifier.Export()); err != nil && p.Logger != nil {
			p.Logger.Error("save dataset", "variant", outgoing, "error", err)
		}
	}

	p.App.SetVariant(variant)
	p.App.SetMode(inspect.ModeSetup)

	regions, err := p.Storage.LoadRegions(variant)
	if err != nil && !errors.Is(err, storage.ErrNotFound) && p.Logger != nil {
		p.Logger.Error("load regions", "variant", variant, "error", err)
	}
	p.Store.Replace(regions)

	ds, err := p.Storage.LoadDataset(variant)
	switch {
	case err == nil:
		if err := p.Classifier.Import(ds); err != nil {
			p.Classifier.ClearAll()
			if p.Logger != nil {
				p.Logger.Error("import dataset", "variant", variant, "error", err)
			}
		}
	case errors.Is(err, storage.ErrNotFound):
		p.Classifier.ClearAll()
	default:
		p.Classifier.ClearAll()
		if p.Logger != nil {
			p.Logger.Error("load dataset", "variant", variant, "error", err)
		}
	}
	p.Messages.Set(fmt.Sprintf("Variante ativa: %s", variant))
}

// SyncRemote replaces the local dataset with the examples stored
// remotely for the current variant and realigns region sample counts.
func (p *VariantPresenter) SyncRemote() {
	if p == nil {
		return
	}
	if p.Remote == nil {
		p.Messages.Set("Banco remoto não configurado")
		return
	}
	if p.Predict != nil && p.Predict.Running() {
		p.Messages.Set("Pare a predição antes de sincronizar")
		return
	}
	variant := p.App.Variant()
	ctx, cancel := context.WithTimeout(context.Background(), remoteUploadTimeout)
	defer cancel()
	samples, err := p.Remote.LoadSamples(ctx, variant)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error("remote sync", "variant", variant, "error", err)
		}
		p.Messages.Set("Falha ao carregar amostras do banco remoto")
		return
	}
	p.Classifier.ClearAll()
	p.Store.ResetAllSamples()
	total := 0
	for label, embs := range samples {
		for _, e := range embs {
			p.Classifier.AddExample(e, label)
		}
		total += len(embs)
		if id, ok := regionIDFromLabel(variant, label); ok {
			if err := p.Store.AddSamples(id, len(embs), p.SampleCap); err != nil && p.Logger != nil {
				p.Logger.Debug("sync sample count", "label", label, "error", err)
			}
		}
	}
	p.Messages.Set(fmt.Sprintf("%d amostras carregadas do banco remoto", total))
}

// regionIDFromLabel inverts classify.RegionLabel. Background labels
// return false: they have no region counter to update.
func regionIDFromLabel(variant, label string) (string, bool) {
	prefix := variant + "::"
	if !strings.HasPrefix(label, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(label, prefix)
	if id == "" || label == classify.BackgroundLabel(variant) {
		return "", false
	}
	return id, true
}
