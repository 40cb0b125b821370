package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates from
// the Tk after-callback. The zero value is usable (methods are
// nil-safe).
type Loop struct {
	Render   *RenderPresenter
	Regions  *RegionPresenter
	Schedule func()
}

func NewLoop(render *RenderPresenter, regions *RegionPresenter, schedule func()) *Loop {
	return &Loop{Render: render, Regions: regions, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Render != nil {
		l.Render.Tick(now)
	}
	if l.Regions != nil {
		l.Regions.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
