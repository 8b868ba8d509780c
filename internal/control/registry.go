package control

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Signal is an external request routed to the live timer.
type Signal string

const (
	SignalSkipBreak Signal = "SKIP_BREAK"
)

// ErrUnknownSignal indicates the signal name is not recognised.
var ErrUnknownSignal = errors.New("unknown signal")

// ParseSignal converts a wire name into a Signal.
func ParseSignal(value string) (Signal, error) {
	switch Signal(strings.ToUpper(strings.TrimSpace(value))) {
	case SignalSkipBreak:
		return SignalSkipBreak, nil
	default:
		return "", fmt.Errorf("parse signal %q: %w", value, ErrUnknownSignal)
	}
}

// Skipper is the operation set external signals can reach.
type Skipper interface {
	SkipBreak()
}

// Registry holds the reference to the single live timer for signal handlers.
type Registry struct {
	mu      sync.RWMutex
	skipper Skipper
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Attach makes skipper the live target. The returned func detaches it again,
// unless another instance has been attached in the meantime.
func (registry *Registry) Attach(skipper Skipper) (detach func()) {
	registry.mu.Lock()
	registry.skipper = skipper
	registry.mu.Unlock()

	return func() {
		registry.mu.Lock()
		defer registry.mu.Unlock()
		if registry.skipper == skipper {
			registry.skipper = nil
		}
	}
}

// Dispatch routes signal to the live target and reports whether it was
// delivered. Signals without a live target are dropped.
func (registry *Registry) Dispatch(signal Signal) bool {
	registry.mu.RLock()
	skipper := registry.skipper
	registry.mu.RUnlock()

	if skipper == nil {
		registry.logger.Debug("signal dropped: no live timer", "signal", string(signal))
		return false
	}

	switch signal {
	case SignalSkipBreak:
		skipper.SkipBreak()
		return true
	default:
		registry.logger.Debug("signal dropped: unknown", "signal", string(signal))
		return false
	}
}
