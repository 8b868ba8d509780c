package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pomodoro/internal/core/phasetimer"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Config contains runtime options for Dispatcher.
type Config struct {
	QueueSize int
	Timeout   time.Duration
	// Enabled gates delivery. Nil means always enabled.
	Enabled func() bool
}

// Dispatcher is a phasetimer.Notifier that hands events to a background
// worker. Enqueueing never blocks; delivery failures are logged and dropped.
type Dispatcher struct {
	composer *Composer
	sender   Sender
	logger   *slog.Logger
	options  Config

	mu     sync.RWMutex
	queue  chan phasetimer.PhaseStarted
	closed bool
	wg     conc.WaitGroup
}

// NewDispatcher creates a Dispatcher and starts its worker.
func NewDispatcher(composer *Composer, sender Sender, logger *slog.Logger, options Config) *Dispatcher {
	if options.QueueSize <= 0 {
		options.QueueSize = 4
	}
	if options.Timeout <= 0 {
		options.Timeout = 5 * time.Second
	}
	if options.Enabled == nil {
		options.Enabled = func() bool { return true }
	}
	if composer == nil {
		composer = NewComposer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := &Dispatcher{
		composer: composer,
		sender:   sender,
		logger:   logger,
		options:  options,
		queue:    make(chan phasetimer.PhaseStarted, options.QueueSize),
	}
	dispatcher.wg.Go(dispatcher.run)
	return dispatcher
}

// PhaseStarted queues event for delivery.
func (dispatcher *Dispatcher) PhaseStarted(event phasetimer.PhaseStarted) {
	dispatcher.mu.RLock()
	defer dispatcher.mu.RUnlock()
	if dispatcher.closed {
		return
	}
	select {
	case dispatcher.queue <- event:
	default:
		dispatcher.logger.Warn("notification queue full, dropping", "phase", string(event.Phase))
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (dispatcher *Dispatcher) Close() {
	dispatcher.mu.Lock()
	if dispatcher.closed {
		dispatcher.mu.Unlock()
		return
	}
	dispatcher.closed = true
	close(dispatcher.queue)
	dispatcher.mu.Unlock()

	dispatcher.wg.Wait()
}

func (dispatcher *Dispatcher) run() {
	for event := range dispatcher.queue {
		var catcher panics.Catcher
		catcher.Try(func() {
			dispatcher.deliver(event)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			dispatcher.logger.Error("notification sender panicked", "phase", string(event.Phase), "error", recovered.AsError())
		}
	}
}

func (dispatcher *Dispatcher) deliver(event phasetimer.PhaseStarted) {
	if !dispatcher.options.Enabled() {
		dispatcher.logger.Debug("notifications disabled", "phase", string(event.Phase))
		return
	}

	content := dispatcher.composer.Compose(event)
	ctx, cancel := context.WithTimeout(context.Background(), dispatcher.options.Timeout)
	defer cancel()

	if err := dispatcher.sender.Send(ctx, content); err != nil {
		dispatcher.logger.Warn("notification not delivered", "phase", string(event.Phase), "error", err)
		return
	}
	dispatcher.logger.Debug("notification delivered", "phase", string(event.Phase), "title", content.Title)
}
