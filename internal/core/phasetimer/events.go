package phasetimer

import (
	"fmt"
	"time"
)

// Phase is one of the two alternating intervals.
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// Fixed phase durations.
const (
	FocusDuration = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// TickInterval is the countdown granularity.
const TickInterval = time.Second

// Duration returns the full length of the phase.
func (phase Phase) Duration() time.Duration {
	switch phase {
	case PhaseFocus:
		return FocusDuration
	case PhaseBreak:
		return BreakDuration
	default:
		panic(fmt.Sprintf("phasetimer: invalid phase %q", string(phase)))
	}
}

// Snapshot is the observable timer state published on every mutation.
type Snapshot struct {
	Phase            Phase
	Display          string
	Remaining        time.Duration
	Total            time.Duration
	Running          bool
	Progress         float64
	SkipBreakVisible bool
	At               time.Time
}

// PhaseStarted is fired exactly once per phase start.
type PhaseStarted struct {
	Phase Phase
	Title string
	Body  string
	At    time.Time
}

// Notifier receives phase start events.
// PhaseStarted is called while the timer holds its lock: it must not block
// and must not call back into the timer.
type Notifier interface {
	PhaseStarted(event PhaseStarted)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event PhaseStarted)

// PhaseStarted calls fn(event).
func (fn NotifierFunc) PhaseStarted(event PhaseStarted) {
	fn(event)
}

// FormatDisplay renders remaining time as zero-padded MM:SS, truncated to
// whole seconds.
func FormatDisplay(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int64(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func defaultContent(phase Phase) (string, string) {
	switch phase {
	case PhaseFocus:
		return "Focus started", "The focus session has started."
	case PhaseBreak:
		return "Break started", "The break has started."
	default:
		panic(fmt.Sprintf("phasetimer: invalid phase %q", string(phase)))
	}
}
