package presenter

import (
	"errors"
	"log/slog"

	"github.com/dcamarg/smart-inspector-go/domain/capture"
	"github.com/dcamarg/smart-inspector-go/ui/model"
)

// SwitchableSource is a capture service whose input device can change
// at runtime. The screen fallback source satisfies it with a no-op.
type SwitchableSource interface {
	capture.Service
	SwitchDevice(device int) error
}

// CapturePresenter owns camera lifecycle actions triggered from the
// settings panel.
type CapturePresenter struct {
	Service  SwitchableSource
	Messages *model.MessageModel
	Predict  PredictControl
	Logger   *slog.Logger
}

// SwitchDevice changes the camera. The verdict loop is stopped first:
// verdicts from two different viewpoints must never mix in one run.
func (p *CapturePresenter) SwitchDevice(device int) {
	if p == nil || p.Service == nil {
		return
	}
	if p.Predict != nil && p.Predict.Running() {
		p.Predict.Stop()
	}
	if err := p.Service.SwitchDevice(device); err != nil {
		if p.Logger != nil {
			p.Logger.Error("switch camera", "device", device, "error", err)
		}
		p.Messages.Set(cameraErrorMessage(err))
	}
}

// cameraErrorMessage maps the capture error taxonomy to operator text.
func cameraErrorMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrNoCamera):
		return "Nenhuma câmera encontrada"
	case errors.Is(err, capture.ErrCameraDenied):
		return "Acesso à câmera negado"
	case errors.Is(err, capture.ErrUnavailable):
		return "Captura de câmera indisponível nesta compilação"
	default:
		return "Falha ao iniciar a câmera"
	}
}
