package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dcamarg/smart-inspector-go/config"
	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/domain/classify"
	"github.com/dcamarg/smart-inspector-go/domain/feature"
	"github.com/dcamarg/smart-inspector-go/domain/inspect"
	"github.com/dcamarg/smart-inspector-go/domain/predict"
	"github.com/dcamarg/smart-inspector-go/domain/session"
	"github.com/dcamarg/smart-inspector-go/storage"
	"github.com/dcamarg/smart-inspector-go/ui/model"
	"github.com/dcamarg/smart-inspector-go/ui/presenter"
)

// dsnEnv names the environment variable carrying the remote Postgres
// connection string.
const dsnEnv = "INSPECTOR_DB_DSN"

// Container assembles models, domain services and presenters. The view
// is built separately because Tk must be initialized first.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger

	App      *model.AppModel
	Messages *model.MessageModel

	Store      *inspect.Store
	Classifier *classify.Classifier
	Extractor  feature.Extractor
	Capture    presenter.SwitchableSource
	Devices    []capture.Device
	Gate       *session.Gate
	Scheduler  *predict.Scheduler
	FSM        *inspect.InteractionFSM

	Variants *storage.VariantStore
	Remote   *storage.SampleStore

	Render      *presenter.RenderPresenter
	Interaction *presenter.InteractionPresenter
	Regions     *presenter.RegionPresenter
	Training    *presenter.TrainingPresenter
	Session     *presenter.SessionPresenter
	Variant     *presenter.VariantPresenter
	Cam         *presenter.CapturePresenter
	Loop        *presenter.Loop
}

// screenFallback adapts the screen capture service to the switchable
// camera contract for bench setups without a webcam.
type screenFallback struct {
	*capture.ScreenService
}

func (screenFallback) SwitchDevice(int) error { return capture.ErrUnavailable }

// BuildContainer constructs everything below the view layer. A missing
// embedding model is the one fatal error: without features there is
// nothing to inspect.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.App = model.NewAppModel(cfg.Variant)
	c.Messages = model.NewMessageModel()
	c.Gate = session.NewGate()

	extractor, err := feature.NewMobileNet(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	c.Extractor = extractor

	fileStore, err := storage.NewFileStore("smart-inspector")
	if err != nil {
		return nil, err
	}
	c.Variants = storage.NewVariantStore(fileStore)

	regions, err := c.Variants.LoadRegions(cfg.Variant)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("load regions", "variant", cfg.Variant, "error", err)
	}
	c.Store = inspect.NewStore(regions, float64(cfg.MinRegionSize), logger)
	c.Store.SetPersister(func(regions []inspect.Region) {
		if err := c.Variants.SaveRegions(c.App.Variant(), regions); err != nil {
			logger.Error("save regions", "error", err)
			c.Messages.Set("Falha ao salvar regiões no disco")
		}
	})

	c.Classifier = classify.NewClassifier(cfg.NeighbourCount)
	if ds, err := c.Variants.LoadDataset(cfg.Variant); err == nil {
		if err := c.Classifier.Import(ds); err != nil {
			logger.Error("import dataset", "variant", cfg.Variant, "error", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Error("load dataset", "variant", cfg.Variant, "error", err)
	}

	c.buildCapture()
	c.buildRemote()
	c.buildPresenters()
	return c, nil
}

// buildCapture starts the camera, falling back to screen capture when
// no camera backend is available.
func (c *AppContainer) buildCapture() {
	camera := capture.NewCameraService(c.Config.CameraDevice, c.Config.CaptureWidth, c.Config.CaptureHeight, c.Logger)
	if err := camera.Start(); err != nil {
		c.Logger.Warn("camera unavailable, using screen capture", "error", err)
		screen := capture.NewScreenService(50*time.Millisecond, c.Logger)
		if serr := screen.Start(); serr != nil {
			c.Logger.Error("screen capture failed", "error", serr)
		}
		c.Capture = screenFallback{screen}
		c.Messages.SetFor(presenterCameraMessage(err), 30*time.Second)
		return
	}
	c.Capture = camera
	c.Devices = capture.Devices()
}

func presenterCameraMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrNoCamera):
		return "Nenhuma câmera encontrada: usando captura de tela"
	case errors.Is(err, capture.ErrCameraDenied):
		return "Acesso à câmera negado: usando captura de tela"
	default:
		return "Câmera indisponível: usando captura de tela"
	}
}

// buildRemote connects the sample mirror when enabled. Failures only
// log: the remote store is an optional convenience.
func (c *AppContainer) buildRemote() {
	if !c.Config.RemoteSamples {
		return
	}
	dsn := os.Getenv(dsnEnv)
	remote, err := storage.NewSampleStore(context.Background(), dsn, c.Logger)
	if err != nil {
		c.Logger.Warn("remote sample store disabled", "error", err)
		return
	}
	c.Remote = remote
}

func (c *AppContainer) buildPresenters() {
	cfg := c.Config
	c.FSM = inspect.NewInteractionFSM(c.Store,
		func() bool { return c.App.Mode() == inspect.ModeSetup },
		float64(cfg.MinRegionSize), float64(cfg.HandleTolerance), c.Logger)

	c.Regions = &presenter.RegionPresenter{
		Store:    c.Store,
		App:      c.App,
		Messages: c.Messages,
	}
	c.Regions.SetThreshold(cfg.Threshold)

	cache, err := feature.NewCache(64)
	if err != nil {
		c.Logger.Error("embedding cache", "error", err)
	}
	c.Render = &presenter.RenderPresenter{
		Source:   c.Capture,
		Store:    c.Store,
		FSM:      c.FSM,
		App:      c.App,
		Messages: c.Messages,
		MaxW:     cfg.CaptureWidth,
		MaxH:     cfg.CaptureHeight,
	}
	c.Render.SetBackground(presenter.Background{
		Counter: c.Classifier,
		Label:   func() string { return classify.BackgroundLabel(c.App.Variant()) },
	})

	c.Scheduler = predict.NewScheduler(predict.Options{
		Store:      c.Store,
		Classifier: c.Classifier,
		Extractor:  c.Extractor,
		Cache:      cache,
		Source:     c.Capture,
		Gate:       c.Gate,
		Variant:    c.App.Variant,
		Threshold:  c.Regions.Threshold,
		Display:    c.Render.Display,
		Interval:   time.Duration(cfg.PredictIntervalMs) * time.Millisecond,
		Logger:     c.Logger,
	})
	c.Regions.Predict = c.Scheduler
	c.Render.Predict = c.Scheduler

	c.Interaction = &presenter.InteractionPresenter{FSM: c.FSM}

	c.Training = &presenter.TrainingPresenter{
		Store:      c.Store,
		Classifier: c.Classifier,
		Extractor:  c.Extractor,
		Source:     c.Capture,
		App:        c.App,
		Messages:   c.Messages,
		Predict:    c.Scheduler,
		Display:    c.Render.Display,
		Datasets:   c.Variants,
		History:    c.Gate,
		Variants:   cfg.Variants,
		SampleCap:  cfg.SampleCap,
		Logger:     c.Logger,
	}
	c.Session = &presenter.SessionPresenter{
		Gate:     c.Gate,
		Store:    c.Store,
		Source:   c.Capture,
		App:      c.App,
		Messages: c.Messages,
		Predict:  c.Scheduler,
		Logger:   c.Logger,
	}
	c.Variant = &presenter.VariantPresenter{
		Store:      c.Store,
		Classifier: c.Classifier,
		App:        c.App,
		Messages:   c.Messages,
		Predict:    c.Scheduler,
		Storage:    c.Variants,
		SampleCap:  cfg.SampleCap,
		Logger:     c.Logger,
	}
	c.Cam = &presenter.CapturePresenter{
		Service:  c.Capture,
		Messages: c.Messages,
		Predict:  c.Scheduler,
		Logger:   c.Logger,
	}
	c.Regions.Session = c.Session
	c.Variant.Session = c.Session
	c.Variant.Datasets = c.Variants
	if c.Remote != nil {
		c.Training.Remote = c.Remote
		c.Variant.Remote = c.Remote
		// Bootstrap a fresh station from the shared sample history.
		if c.Classifier.NumClasses() == 0 {
			c.Variant.SyncRemote()
		}
	}
}

// Close releases long-lived resources.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Capture != nil {
		c.Capture.Stop()
	}
	if closer, ok := c.Extractor.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	c.Remote.Close()
}
