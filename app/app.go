// Package app boots the Tk application and owns the update loop.
package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/dcamarg/smart-inspector-go/config"
	"github.com/dcamarg/smart-inspector-go/ui/presenter"
	"github.com/dcamarg/smart-inspector-go/ui/theme"
	"github.com/dcamarg/smart-inspector-go/ui/view"
)

// tick drives rendering and list refresh. Prediction runs on its own
// goroutine with its own throttle.
const tick = 100 * time.Millisecond

type application struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	container *AppContainer
	root      *view.RootView
	afterID   string
}

// NewApp prepares the Tk root window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *application {
	a := &application{cfg: cfg, cfgPath: cfgPath, logger: logger}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	return a
}

// Start builds the container, wires the view and enters the Tk loop.
// A failed startup shows a retry screen instead of exiting: the
// operator fixes the model path or camera and tries again.
func (a *application) Start() {
	theme.InitStyles()
	if !a.boot() {
		a.buildRetryView()
	}
	App.Wait()
}

func (a *application) boot() bool {
	container, err := BuildContainer(a.cfg, a.logger)
	if err != nil {
		a.logger.Error("startup failed", "error", err)
		return false
	}
	a.container = container
	a.buildView()
	a.scheduleUpdate()
	return true
}

func (a *application) buildView() {
	c := a.container
	a.root = view.NewRootView(a.logger)
	a.root.Build(a.cfg.CaptureWidth, a.cfg.CaptureHeight, c.Regions.Threshold(), a.cfg.Variants, c.Devices, view.Callbacks{
		Pointer: c.Interaction,
		Region: view.RegionCallbacks{
			OnSelect:            c.Regions.SelectIndex,
			OnAdd:               c.Regions.AddRegion,
			OnRemove:            c.Regions.RemoveActive,
			OnRename:            c.Regions.RenameActive,
			OnCaptureSample:     c.Training.CaptureSample,
			OnCaptureBackground: c.Training.CaptureBackground,
			OnResetSamples:      c.Training.ResetActive,
			OnDeleteAll:         c.Training.DeleteAll,
			OnThreshold:         a.applyThreshold,
			OnToggleMode:        func() { c.Regions.ToggleMode(c.FSM) },
		},
		Session: view.SessionCallbacks{
			OnOpen:          c.Session.OpenSession,
			OnTogglePredict: c.Session.TogglePredict,
			OnSave:          c.Session.SaveSession,
			OnAbandon:       c.Session.AbandonSession,
			OnClearHistory:  c.Session.ClearHistory,
		},
		Settings: view.SettingsCallbacks{
			OnVariant: a.switchVariant,
			OnCamera:  c.Cam.SwitchDevice,
			OnSync:    c.Variant.SyncRemote,
			OnExit:    a.exitHandler,
		},
	})
	c.Render.View = a.root
	c.Regions.View = a.root
	c.Session.View = a.root
	c.Loop = presenter.NewLoop(c.Render, c.Regions, a.scheduleUpdate)
}

// applyThreshold stores the slider value and persists it.
func (a *application) applyThreshold(v float64) {
	a.container.Regions.SetThreshold(v)
	a.cfg.Threshold = a.container.Regions.Threshold()
	if err := a.cfg.Save(a.cfgPath); err != nil {
		a.logger.Error("save config", "error", err)
	}
}

// switchVariant delegates to the presenter and persists the choice.
func (a *application) switchVariant(name string) {
	a.container.Variant.Switch(name)
	a.cfg.Variant = a.container.App.Variant()
	if err := a.cfg.Save(a.cfgPath); err != nil {
		a.logger.Error("save config", "error", err)
	}
}

func (a *application) update() {
	if a.container != nil && a.container.Loop != nil {
		a.container.Loop.Tick()
	}
}

func (a *application) scheduleUpdate() {
	// Schedule on Tk's event loop thread; widget access stays there.
	a.afterID = TclAfter(tick, func() { a.update() })
}

// buildRetryView replaces the normal layout with the startup error and
// a retry button.
func (a *application) buildRetryView() {
	msg := Label(Txt(fmt.Sprintf("Falha ao iniciar: verifique o modelo em %q e a câmera", a.cfg.ModelPath)),
		Borderwidth(1), Relief("ridge"))
	Grid(msg, Row(0), Column(0), Sticky("we"), Padx("0.6m"), Pady("0.6m"))
	var retryBtn *ButtonWidget
	retryBtn = Button(Txt("Tentar novamente"), Command(func() {
		if a.boot() {
			Destroy(msg)
			Destroy(retryBtn)
		}
	}))
	Grid(retryBtn, Row(1), Column(0), Sticky("we"), Padx("0.6m"), Pady("0.3m"))
}

func (a *application) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.container.Close()
	Destroy(App)
}
