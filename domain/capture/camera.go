//go:build gocv
// +build gocv

package capture

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// CameraService streams frames from a webcam through OpenCV. Opening
// falls through progressively less constrained attempts: the preferred
// device at the requested resolution, then the default device at that
// resolution, then the default device with no constraints at all.
type CameraService struct {
	frameLoop
	device int
	width  int
	height int
	stop   chan struct{}
}

// NewCameraService constructs a camera service for the given device id
// and preferred capture resolution.
func NewCameraService(device, width, height int, logger *slog.Logger) *CameraService {
	return &CameraService{device: device, width: width, height: height, frameLoop: frameLoop{logger: logger}}
}

// Start opens the camera and launches the capture loop. The returned
// error is one of the taxonomy errors in types.go, never a raw driver
// error.
func (s *CameraService) Start() error {
	if s.running.Load() {
		return nil
	}
	vc, err := s.open()
	if err != nil {
		return err
	}
	s.stop = make(chan struct{})
	s.running.Store(true)
	go s.loop(vc)
	return nil
}

// Stop halts the capture loop. Idempotent.
func (s *CameraService) Stop() {
	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	close(s.stop)
}

// SwitchDevice stops the loop, changes the preferred device and starts
// again.
func (s *CameraService) SwitchDevice(device int) error {
	s.Stop()
	// Give the loop a moment to release the device handle.
	time.Sleep(50 * time.Millisecond)
	s.device = device
	return s.Start()
}

// open walks the constraint fallback chain.
func (s *CameraService) open() (*gocv.VideoCapture, error) {
	attempts := []struct {
		device      int
		constrained bool
	}{
		{s.device, true},
		{0, true},
		{0, false},
	}
	var lastErr error
	for _, a := range attempts {
		vc, err := gocv.OpenVideoCapture(a.device)
		if err != nil {
			lastErr = err
			continue
		}
		if a.constrained {
			vc.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
			vc.Set(gocv.VideoCaptureFrameHeight, float64(s.height))
		}
		if !vc.IsOpened() {
			vc.Close()
			lastErr = fmt.Errorf("device %d did not open", a.device)
			continue
		}
		if s.logger != nil {
			s.logger.Info("camera opened", "device", a.device, "constrained", a.constrained)
		}
		return vc, nil
	}
	return nil, classifyOpenError(lastErr)
}

func (s *CameraService) loop(vc *gocv.VideoCapture) {
	defer vc.Close()
	mat := gocv.NewMat()
	defer mat.Close()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()

	for s.running.Load() {
		start := time.Now()
		if ok := vc.Read(&mat); !ok || mat.Empty() {
			s.recordSkip()
			select {
			case <-s.stop:
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		img, err := mat.ToImage()
		if err != nil {
			s.recordSkip()
			continue
		}
		frame := toRGBA(img)
		s.publish(frame, time.Since(start))
		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}
	}
}

// Devices probes video device nodes and returns the enumerable cameras.
// Labels are synthetic; V4L does not expose friendly names through
// OpenCV.
func Devices() []Device {
	nodes, _ := filepath.Glob("/dev/video*")
	out := make([]Device, 0, len(nodes))
	for i := range nodes {
		out = append(out, Device{ID: i, Label: fmt.Sprintf("Camera %d", i)})
	}
	return out
}

// classifyOpenError maps an open failure onto the camera taxonomy using
// the device nodes actually present on the system.
func classifyOpenError(err error) error {
	nodes, _ := filepath.Glob("/dev/video*")
	if len(nodes) == 0 {
		return ErrNoCamera
	}
	for _, n := range nodes {
		f, openErr := os.Open(n)
		if openErr == nil {
			f.Close()
			continue
		}
		if os.IsPermission(openErr) {
			return ErrCameraDenied
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraFailed, err)
	}
	return ErrCameraFailed
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		b := rgba.Bounds()
		dst := acquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), rgba, b.Min, draw.Src)
		return dst
	}
	return copyToPooled(src)
}
