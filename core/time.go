package core

import (
	"context"
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	t := &Time{
		fps:   cfg.FramesPerSecond,
		start: time.Now(),
	}
	if cfg.FramesPerSecond > 0 {
		t.fpsTicker = time.NewTicker(time.Second / time.Duration(cfg.FramesPerSecond))
	}
	return t
}

// Time paces the frame loop and keeps frame statistics.
type Time struct {
	fps       int
	fpsTicker *time.Ticker

	start     time.Time
	last      time.Time
	frames    int64
	slowest   time.Duration
	recreated int64
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker, nil when unlimited
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Wait blocks until the next frame is due. It returns the
// context error when ctx is done first.
func (t *Time) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || t.fpsTicker == nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.fpsTicker.C:
		return nil
	}
}

// Frame records that a frame was presented.
func (t *Time) Frame() {
	now := time.Now()
	if !t.last.IsZero() {
		if d := now.Sub(t.last); d > t.slowest {
			t.slowest = d
		}
	}
	t.last = now
	t.frames++
}

// Recreated records a swapchain recreation.
func (t *Time) Recreated() {
	t.recreated++
}

// Stop releases the ticker.
func (t *Time) Stop() {
	if t.fpsTicker != nil {
		t.fpsTicker.Stop()
	}
}

// FrameStats summarizes the frames since the time service was created.
type FrameStats struct {
	Frames    int64
	Elapsed   time.Duration
	Average   float64
	Slowest   time.Duration
	Recreated int64
}

// Stats returns the frame statistics so far.
func (t *Time) Stats() FrameStats {
	stats := FrameStats{
		Frames:    t.frames,
		Elapsed:   time.Since(t.start),
		Slowest:   t.slowest,
		Recreated: t.recreated,
	}
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		stats.Average = float64(t.frames) / secs
	}
	return stats
}
