package capture

import (
	"log/slog"
	"time"

	"github.com/vova616/screenshot"
)

// ScreenService captures the desktop instead of a camera. It exists for
// bench setups without a webcam: point the tool at a window playing a
// recorded assembly video and the rest of the pipeline behaves exactly
// as with live capture.
type ScreenService struct {
	frameLoop
	interval time.Duration
	stop     chan struct{}
}

// NewScreenService constructs a screen source capturing at the given
// interval.
func NewScreenService(interval time.Duration, logger *slog.Logger) *ScreenService {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &ScreenService{interval: interval, frameLoop: frameLoop{logger: logger}}
}

// Start launches the capture loop.
func (s *ScreenService) Start() error {
	if s.running.Load() {
		return nil
	}
	s.stop = make(chan struct{})
	s.running.Store(true)
	go s.loop()
	return nil
}

// Stop halts the capture loop. Idempotent.
func (s *ScreenService) Stop() {
	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	close(s.stop)
}

func (s *ScreenService) loop() {
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for s.running.Load() {
		start := time.Now()
		img, err := screenshot.CaptureScreen()
		if err != nil || img == nil {
			s.recordSkip()
			if err != nil && s.logger != nil {
				s.logger.Error("screen capture", "error", err)
			}
		} else {
			s.publish(copyToPooled(img), time.Since(start))
		}
		select {
		case <-s.stop:
			return
		case <-time.After(s.interval):
		}
		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}
	}
}
