package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pomodoro/internal/core/phasetimer"
	"pomodoro/internal/platform"
)

const idleCheckInterval = 5 * time.Second

// IdleWatcher pauses a running focus phase once the user has been inactive
// for longer than the threshold.
type IdleWatcher struct {
	provider  platform.IdleProvider
	timer     Timer
	threshold func() time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewIdleWatcher creates an IdleWatcher. threshold is read on every check so
// settings changes apply without a restart; zero disables pausing.
func NewIdleWatcher(provider platform.IdleProvider, timer Timer, threshold func() time.Duration, logger *slog.Logger) *IdleWatcher {
	return &IdleWatcher{
		provider:  provider,
		timer:     timer,
		threshold: threshold,
		interval:  idleCheckInterval,
		logger:    logger,
	}
}

// Run checks idle time until ctx is done or idle detection turns out to be
// unsupported.
func (watcher *IdleWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !watcher.check() {
				return
			}
		}
	}
}

// check returns false when the watcher should stop.
func (watcher *IdleWatcher) check() bool {
	threshold := watcher.threshold()
	if threshold <= 0 {
		return true
	}
	snapshot := watcher.timer.Snapshot()
	if !snapshot.Running || snapshot.Phase != phasetimer.PhaseFocus {
		return true
	}

	idle, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			watcher.logger.Warn("idle detection unavailable, idle pause disabled")
			return false
		}
		watcher.logger.Debug("idle check failed", "error", err)
		return true
	}

	if idle >= threshold {
		watcher.timer.PauseTimer()
		watcher.logger.Info("focus paused after inactivity", "idle", idle.Round(time.Second).String())
	}
	return true
}
