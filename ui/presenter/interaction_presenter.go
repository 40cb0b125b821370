package presenter

import (
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// InteractionPresenter funnels canvas pointer events into the region
// interaction machine. The view reports coordinates in display space,
// which is exactly the space region boxes live in.
type InteractionPresenter struct {
	FSM *inspect.InteractionFSM
}

func (p *InteractionPresenter) PointerDown(x, y int) {
	if p == nil || p.FSM == nil {
		return
	}
	p.FSM.PointerDown(float64(x), float64(y))
}

func (p *InteractionPresenter) PointerMove(x, y int) {
	if p == nil || p.FSM == nil {
		return
	}
	p.FSM.PointerMove(float64(x), float64(y))
}

func (p *InteractionPresenter) PointerUp() {
	if p == nil || p.FSM == nil {
		return
	}
	p.FSM.PointerUp()
}
