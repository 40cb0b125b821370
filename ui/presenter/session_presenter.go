package presenter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/domain/session"
	"github.com/dcamarg/smart-inspector-go/ui/images"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

// PredictControl starts and stops the verdict loop.
type PredictControl interface {
	Start()
	Stop()
	Running() bool
}

// SessionCloser force-closes an open session on mode or variant
// changes.
type SessionCloser interface {
	ForceClose()
}

// SessionView shows gate state and the inspection history.
type SessionView interface {
	SetSessionLabel(text string)
	SetHistory(entries []session.Entry)
	ClearBarcode()
}

// SessionPresenter drives the barcode gate: opening a session, running
// the verdict loop, and recording the outcome.
type SessionPresenter struct {
	Gate     *session.Gate
	Store    *inspect.Store
	Source   capture.FrameSource
	App      *model.AppModel
	Messages *model.MessageModel
	Predict  PredictControl
	View     SessionView
	Logger   *slog.Logger
}

// OpenSession reads a barcode and arms the gate.
func (p *SessionPresenter) OpenSession(code string) {
	if p == nil || p.Gate == nil {
		return
	}
	if err := p.Gate.Open(code); err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyCode):
			p.Messages.Set("Leia o código de barras antes de iniciar")
		case errors.Is(err, session.ErrSessionOpen):
			p.Messages.Set("Sessão em andamento: salve ou abandone antes de abrir outra")
		}
		return
	}
	if p.Predict != nil {
		p.Predict.Start()
	}
	p.refresh()
	p.Messages.Set(fmt.Sprintf("Sessão aberta: %s", p.Gate.Code()))
}

// TogglePredict starts or stops the verdict loop. Starting requires an
// open session so every verdict is traceable to a barcode.
func (p *SessionPresenter) TogglePredict() {
	if p == nil || p.Predict == nil {
		return
	}
	if p.Predict.Running() {
		p.Predict.Stop()
		return
	}
	if p.Gate == nil || !p.Gate.Active() {
		p.Messages.Set("Leia o código de barras antes de iniciar")
		return
	}
	p.Predict.Start()
}

// SaveSession records the current verdicts with a frame snapshot,
// stops the loop and closes the gate.
func (p *SessionPresenter) SaveSession() {
	if p == nil || p.Gate == nil || p.Store == nil {
		return
	}
	regions, _ := p.Store.Snapshot()
	var snapshot []byte
	if snap := p.Source.LatestFrame(); snap.Image != nil {
		snapshot = images.EncodePNG(images.Thumbnail(snap.Image, 160))
	}
	entry, err := p.Gate.Save(regions, snapshot)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			p.Messages.Set("Nenhuma sessão aberta para salvar")
		}
		return
	}
	if p.Predict != nil {
		p.Predict.Stop()
	}
	if p.Logger != nil {
		p.Logger.Info("inspection recorded", "code", entry.Code, "overall", entry.Overall.String())
	}
	p.refresh()
	p.Messages.Set(fmt.Sprintf("Inspeção %s registrada: %s", entry.Code, entry.Overall))
}

// AbandonSession closes the gate without recording anything.
func (p *SessionPresenter) AbandonSession() {
	if p == nil || p.Gate == nil {
		return
	}
	p.Gate.Abandon()
	if p.Predict != nil {
		p.Predict.Stop()
	}
	p.refresh()
	p.Messages.Set("Sessão abandonada")
}

// ForceClose abandons any open session without operator feedback. Mode
// and variant switches call it so a stale session never outlives its
// context.
func (p *SessionPresenter) ForceClose() {
	if p == nil || p.Gate == nil || !p.Gate.Active() {
		return
	}
	p.Gate.Abandon()
	if p.Predict != nil {
		p.Predict.Stop()
	}
	p.refresh()
}

// ClearHistory wipes the recorded inspections.
func (p *SessionPresenter) ClearHistory() {
	if p == nil || p.Gate == nil {
		return
	}
	p.Gate.ClearHistory()
	p.refresh()
}

func (p *SessionPresenter) refresh() {
	if p.View == nil {
		return
	}
	if p.Gate.Active() {
		p.View.SetSessionLabel("Sessão: " + p.Gate.Code())
	} else {
		p.View.SetSessionLabel("Sessão: —")
		p.View.ClearBarcode()
	}
	p.View.SetHistory(p.Gate.History())
}
