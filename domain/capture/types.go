package capture

import (
	"errors"
	"image"
	"time"
)

// Camera failure taxonomy. Each maps to a distinct operator-facing
// message; raw driver errors never reach the UI.
var (
	ErrNoCamera     = errors.New("no camera found")
	ErrCameraDenied = errors.New("camera permission denied")
	ErrCameraFailed = errors.New("camera failed")
	// ErrUnavailable is returned by builds without camera support.
	ErrUnavailable = errors.New("camera support not built in (gocv tag missing)")
)

// FrameSnapshot carries the latest captured frame and metadata. The
// Sequence increases monotonically; consumers use it to skip work when
// no new frame arrived.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Size returns the native capture dimensions of the snapshot.
func (s FrameSnapshot) Size() (w, h int) {
	if s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// FrameSource provides read-only access to captured frames.
// LatestFrame returns the freshest snapshot while Running reports activity.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// Service is the lifecycle contract shared by frame producers.
type Service interface {
	FrameSource
	Start() error
	Stop()
	Stats() CaptureStats
}

// Device identifies one enumerable camera.
type Device struct {
	ID    int
	Label string
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
