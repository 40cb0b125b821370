//go:build !gocv
// +build !gocv

package capture

import "log/slog"

// CameraService stub for builds without the gocv tag. Start fails with
// ErrUnavailable; the app falls back to the screen source in dev setups.
type CameraService struct {
	frameLoop
	device int
	width  int
	height int
}

// NewCameraService constructs the stub service.
func NewCameraService(device, width, height int, logger *slog.Logger) *CameraService {
	return &CameraService{device: device, width: width, height: height, frameLoop: frameLoop{logger: logger}}
}

// Start reports that camera support is not built in.
func (s *CameraService) Start() error { return ErrUnavailable }

// Stop is a no-op.
func (s *CameraService) Stop() {}

// SwitchDevice reports that camera support is not built in.
func (s *CameraService) SwitchDevice(device int) error { return ErrUnavailable }

// Devices returns no cameras.
func Devices() []Device { return nil }
