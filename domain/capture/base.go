package capture

import (
	"image"
	"image/draw"
	"log/slog"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// frameLoop is the shared publishing core of frame producers: a latest
// snapshot behind an atomic pointer, a monotonic sequence and basic
// instrumentation counters. Producers call publish from their loop;
// consumers read LatestFrame from any goroutine without blocking.
type frameLoop struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	sequence     atomic.Uint64
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	logger       *slog.Logger
}

func (l *frameLoop) LatestFrame() FrameSnapshot {
	snap := l.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (l *frameLoop) Running() bool { return l.running.Load() }

func (l *frameLoop) Stats() CaptureStats {
	captures := l.captures.Load()
	skipped := l.skipped.Load()
	total := l.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := l.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          skipped,
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (l *frameLoop) publish(img *image.RGBA, elapsed time.Duration) {
	l.captureNanos.Add(uint64(elapsed.Nanoseconds()))
	l.captures.Add(1)
	seq := l.sequence.Add(1)
	l.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})
}

func (l *frameLoop) recordSkip() { l.skipped.Add(1) }

func (l *frameLoop) logStats() {
	if l.logger == nil {
		return
	}
	s := l.Stats()
	l.logger.Info("capture-stats",
		slog.Uint64("captures", s.Captures),
		slog.Uint64("skipped", s.Skipped),
		slog.Float64("avg_capture_us", s.AvgCaptureMicros),
		slog.Uint64("sequence", s.Sequence),
	)
}

// copyToPooled copies an arbitrary captured image into a pooled RGBA
// buffer so producers do not retain library-owned backing arrays.
func copyToPooled(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := acquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
