package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/feature"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

const (
	remoteUploadTimeout = 10 * time.Second

	// deleteConfirmWindow is how long a first "delete all" click stays
	// armed waiting for the confirming second click.
	deleteConfirmWindow = 5 * time.Second
)

// DatasetSaver persists the serialized dataset for a variant. Probe
// verifies the backing store is writable before destructive actions.
type DatasetSaver interface {
	SaveDataset(variant string, ds classify.SerializedDataset) error
	RemoveDataset(variant string) error
	Probe() error
}

// HistoryClearer wipes the recorded inspection history.
type HistoryClearer interface {
	ClearHistory()
}

// RemoteSamples mirrors examples to the remote store. Nil disables it.
type RemoteSamples interface {
	InsertSample(ctx context.Context, variant, label string, e classify.Embedding) error
	DeleteSamples(ctx context.Context, variant string) error
}

// TrainingPresenter owns the setup-mode training actions: capturing
// region and background examples, and clearing datasets.
type TrainingPresenter struct {
	Store      *inspect.Store
	Classifier *classify.Classifier
	Extractor  feature.Extractor
	Source     capture.FrameSource
	App        *model.AppModel
	Messages   *model.MessageModel
	Predict    PredictState
	Display    func() inspect.Space
	Datasets   DatasetSaver
	Remote     RemoteSamples
	History    HistoryClearer
	Variants   []string
	SampleCap  int
	Logger     *slog.Logger

	deleteArmedAt time.Time
}

// CaptureSample takes one training example from the active region.
func (p *TrainingPresenter) CaptureSample() {
	if p == nil || p.Store == nil {
		return
	}
	region, ok := p.Store.Active()
	if !ok {
		return
	}
	variant := p.App.Variant()
	label := classify.RegionLabel(variant, region.ID)
	emb, ok := p.embedBox(region.Box)
	if !ok {
		return
	}
	if err := p.Store.IncrementSamples(region.ID, p.SampleCap); err != nil {
		if errors.Is(err, inspect.ErrSampleCap) {
			p.Messages.Set(fmt.Sprintf("Limite de %d amostras atingido para %s", p.SampleCap, region.Name))
		}
		return
	}
	p.Classifier.AddExample(emb, label)
	p.persistDataset(variant)
	p.upload(variant, label, emb)
	updated, _ := p.Store.Get(region.ID)
	p.Messages.Set(fmt.Sprintf("Amostra %d/%d capturada para %s", updated.Samples, p.SampleCap, region.Name))
}

// CaptureBackground takes one background example from every region's
// crop in a single sweep. The background class teaches the classifier
// what "nothing present" looks like, shared across all regions of the
// variant.
func (p *TrainingPresenter) CaptureBackground() {
	if p == nil || p.Store == nil {
		return
	}
	regions, _ := p.Store.Snapshot()
	variant := p.App.Variant()
	label := classify.BackgroundLabel(variant)
	var added int
	for _, region := range regions {
		emb, ok := p.embedBox(region.Box)
		if !ok {
			continue
		}
		p.Classifier.AddExample(emb, label)
		p.upload(variant, label, emb)
		added++
	}
	if added == 0 {
		return
	}
	p.persistDataset(variant)
	p.Messages.Set(fmt.Sprintf("Fundo capturado (%d amostras)", p.Classifier.NumExamples(label)))
}

// ResetActive removes the active region's examples.
func (p *TrainingPresenter) ResetActive() {
	if p == nil || p.Store == nil {
		return
	}
	region, ok := p.Store.Active()
	if !ok {
		return
	}
	variant := p.App.Variant()
	p.Classifier.ClearLabel(classify.RegionLabel(variant, region.ID))
	if err := p.Store.ResetSamples(region.ID); err != nil {
		return
	}
	p.persistDataset(variant)
	p.Messages.Set(fmt.Sprintf("Amostras de %s removidas", region.Name))
}

// DeleteAll clears the stored datasets of every variant plus the
// inspection history. Refused while the verdict loop runs so operators
// cannot wipe training data mid-inspection; a second click within
// deleteConfirmWindow confirms the action.
func (p *TrainingPresenter) DeleteAll() {
	if p == nil {
		return
	}
	if p.Predict != nil && p.Predict.Running() {
		p.Messages.Set("Pare a predição antes de excluir as amostras")
		return
	}
	now := time.Now()
	if now.Sub(p.deleteArmedAt) > deleteConfirmWindow {
		p.deleteArmedAt = now
		p.Messages.SetFor("Essa ação é permanente: clique novamente para confirmar", deleteConfirmWindow)
		return
	}
	p.deleteArmedAt = time.Time{}
	if p.Datasets != nil {
		if err := p.Datasets.Probe(); err != nil {
			if p.Logger != nil {
				p.Logger.Error("storage probe", "error", err)
			}
			p.Messages.Set("Sem permissão para escrever no armazenamento local")
			return
		}
	}
	variant := p.App.Variant()
	variants := p.Variants
	if len(variants) == 0 {
		variants = []string{variant}
	}
	total := p.sampleTotal(variant)
	p.Classifier.ClearAll()
	p.Store.ResetAllSamples()
	if p.Datasets != nil {
		for _, v := range variants {
			if err := p.Datasets.RemoveDataset(v); err != nil && p.Logger != nil {
				p.Logger.Error("remove dataset", "variant", v, "error", err)
			}
		}
	}
	if p.History != nil {
		p.History.ClearHistory()
	}
	if p.Remote != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), remoteUploadTimeout)
			defer cancel()
			if err := p.Remote.DeleteSamples(ctx, variant); err != nil && p.Logger != nil {
				p.Logger.Warn("remote delete", "variant", variant, "error", err)
			}
		}()
	}
	if p.Logger != nil {
		p.Logger.Info("dataset deleted", "variant", variant, "samples", total)
	}
	p.Messages.Set("Todas as amostras foram excluídas")
}

// sampleTotal counts stored examples for the audit entry before they
// are cleared.
func (p *TrainingPresenter) sampleTotal(variant string) int {
	regions, _ := p.Store.Snapshot()
	total := p.Classifier.NumExamples(classify.BackgroundLabel(variant))
	for _, r := range regions {
		total += r.Samples
	}
	return total
}

func (p *TrainingPresenter) embedBox(box inspect.Box) (classify.Embedding, bool) {
	snap := p.Source.LatestFrame()
	if snap.Image == nil {
		return nil, false
	}
	nw, nh := snap.Size()
	rect, ok := inspect.NativeCrop(box, p.Display(), inspect.Space{W: nw, H: nh})
	if !ok {
		return nil, false
	}
	crop, err := capture.Crop(snap.Image, rect)
	if err != nil {
		return nil, false
	}
	emb, err := p.Extractor.Embed(crop)
	if err != nil {
		p.embedFailed(err)
		return nil, false
	}
	return emb, true
}

func (p *TrainingPresenter) embedFailed(err error) {
	if p.Logger != nil {
		p.Logger.Error("embed sample", "error", err)
	}
	p.Messages.Set("Falha ao extrair características da imagem")
}

// persistDataset saves locally after every change; losing examples to
// a crash wastes operator time.
func (p *TrainingPresenter) persistDataset(variant string) {
	if p.Datasets == nil {
		return
	}
	if err := p.Datasets.SaveDataset(variant, p.Classifier.Export()); err != nil {
		if p.Logger != nil {
			p.Logger.Error("save dataset", "variant", variant, "error", err)
		}
		p.Messages.Set("Falha ao salvar amostras no disco")
	}
}

// upload mirrors an example to the remote store without blocking the
// UI thread.
func (p *TrainingPresenter) upload(variant, label string, emb classify.Embedding) {
	if p.Remote == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteUploadTimeout)
		defer cancel()
		if err := p.Remote.InsertSample(ctx, variant, label, emb); err != nil && p.Logger != nil {
			p.Logger.Warn("remote upload", "label", label, "error", err)
		}
	}()
}
