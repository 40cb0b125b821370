package presenter

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

// RegionListView shows the region list and selection.
type RegionListView interface {
	SetRegions(regions []inspect.Region, activeID string)
	SetModeLabel(text string)
}

// RegionPresenter owns the region panel actions and the pass threshold.
type RegionPresenter struct {
	Store    *inspect.Store
	App      *model.AppModel
	Messages *model.MessageModel
	Predict  PredictState
	Session  SessionCloser
	View     RegionListView

	threshold atomic.Uint64 // math.Float64bits
}

// Threshold returns the current pass threshold, for the scheduler.
func (p *RegionPresenter) Threshold() float64 {
	bits := p.threshold.Load()
	if bits == 0 {
		return 0.85
	}
	return math.Float64frombits(bits)
}

// SetThreshold clamps and stores the slider value. It applies from the
// next prediction pass onward.
func (p *RegionPresenter) SetThreshold(v float64) {
	if v < 0.5 {
		v = 0.5
	}
	if v > 0.99 {
		v = 0.99
	}
	p.threshold.Store(math.Float64bits(v))
}

// AddRegion appends a region named after its position in the list.
func (p *RegionPresenter) AddRegion() {
	if p == nil || p.Store == nil {
		return
	}
	name := fmt.Sprintf("Objeto %d", p.Store.Len()+1)
	p.Store.Add(name, inspect.DefaultBox)
	p.refresh()
}

// RemoveActive deletes the selected region, keeping at least one.
func (p *RegionPresenter) RemoveActive() {
	if p == nil || p.Store == nil {
		return
	}
	region, ok := p.Store.Active()
	if !ok {
		return
	}
	if err := p.Store.Remove(region.ID); err != nil {
		if errors.Is(err, inspect.ErrLastRegion) {
			p.Messages.Set("Pelo menos uma região é necessária")
		}
		return
	}
	p.refresh()
}

// RenameActive renames the selected region.
func (p *RegionPresenter) RenameActive(name string) {
	if p == nil || p.Store == nil || name == "" {
		return
	}
	region, ok := p.Store.Active()
	if !ok {
		return
	}
	if err := p.Store.Rename(region.ID, name); err != nil {
		return
	}
	p.refresh()
}

// SelectIndex activates the region at a list position.
func (p *RegionPresenter) SelectIndex(i int) {
	if p == nil || p.Store == nil {
		return
	}
	regions, _ := p.Store.Snapshot()
	if i < 0 || i >= len(regions) {
		return
	}
	_ = p.Store.SetActive(regions[i].ID)
	p.refresh()
}

// ToggleMode flips between setup and operator mode. Leaving setup
// cancels any in-progress drag.
func (p *RegionPresenter) ToggleMode(fsm *inspect.InteractionFSM) {
	if p == nil {
		return
	}
	if p.App.Mode() == inspect.ModeSetup {
		p.App.SetMode(inspect.ModeOperator)
		if fsm != nil {
			fsm.Cancel()
		}
	} else {
		if p.Predict != nil && p.Predict.Running() {
			p.Messages.Set("Pare a predição antes de editar as regiões")
			return
		}
		p.App.SetMode(inspect.ModeSetup)
		if p.Session != nil {
			p.Session.ForceClose()
		}
	}
	p.refresh()
}

// Tick keeps the list in sync with store changes made elsewhere.
func (p *RegionPresenter) Tick() { p.refresh() }

func (p *RegionPresenter) refresh() {
	if p.View == nil {
		return
	}
	regions, activeID := p.Store.Snapshot()
	p.View.SetRegions(regions, activeID)
	if p.App.Mode() == inspect.ModeSetup {
		p.View.SetModeLabel("Modo: configuração")
	} else {
		p.View.SetModeLabel("Modo: operador")
	}
}
