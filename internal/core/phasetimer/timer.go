package phasetimer

import (
	"fmt"
	"sync"
	"time"
)

// Config contains runtime collaborators for PhaseTimer.
type Config struct {
	Clock    Clock
	Notifier Notifier
	// TickInterval overrides the fixed one second tick. Tests use it to run a
	// real clock quickly; the application leaves it zero.
	TickInterval time.Duration
	Now          func() time.Time
}

// PhaseTimer is a state machine alternating focus and break phases.
type PhaseTimer struct {
	mu               sync.Mutex
	options          Config
	phase            Phase
	total            time.Duration
	remaining        time.Duration
	running          bool
	progress         float64
	skipBreakVisible bool
	countdown        Countdown
	generation       uint64
	observers        []chan Snapshot
	closed           bool
}

// New creates a stopped PhaseTimer at the start of a focus phase.
func New(options Config) *PhaseTimer {
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Notifier == nil {
		options.Notifier = NotifierFunc(func(PhaseStarted) {})
	}
	if options.TickInterval <= 0 {
		options.TickInterval = TickInterval
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	timer := &PhaseTimer{options: options}
	timer.resetStateLocked()
	return timer
}

// Subscribe registers a new observer channel. The current state is delivered
// first. Slow observers miss snapshots instead of blocking the timer.
func (timer *PhaseTimer) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		close(ch)
		return ch
	}
	ch <- timer.snapshotLocked()
	timer.observers = append(timer.observers, ch)
	return ch
}

// Snapshot returns the current observable state.
func (timer *PhaseTimer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

// StartFocusSession begins a fresh focus phase and starts the countdown.
func (timer *PhaseTimer) StartFocusSession() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.startFocusLocked()
}

// StartTimer starts or resumes the countdown from the current remaining time.
func (timer *PhaseTimer) StartTimer() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.startTimerLocked()
}

// PauseTimer stops the countdown and keeps the remaining time.
func (timer *PhaseTimer) PauseTimer() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.cancelCountdownLocked()
	timer.running = false
	timer.publishLocked()
}

// ResetTimer returns to a stopped, full-length focus phase without notifying.
func (timer *PhaseTimer) ResetTimer() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.closed {
		return
	}
	timer.cancelCountdownLocked()
	timer.resetStateLocked()
	timer.publishLocked()
}

// SkipBreak forces a fresh focus session. It does not check the current
// phase: calling it during focus restarts the focus phase.
func (timer *PhaseTimer) SkipBreak() {
	timer.StartFocusSession()
}

// Close cancels the countdown and closes all observers.
func (timer *PhaseTimer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.cancelCountdownLocked()
	timer.running = false
	observers := timer.observers
	timer.observers = nil
	timer.mu.Unlock()

	for _, ch := range observers {
		close(ch)
	}
}

func (timer *PhaseTimer) startFocusLocked() {
	timer.cancelCountdownLocked()
	timer.enterPhaseLocked(PhaseFocus)
	timer.startTimerLocked()
}

func (timer *PhaseTimer) startBreakLocked() {
	timer.cancelCountdownLocked()
	timer.enterPhaseLocked(PhaseBreak)
	timer.startTimerLocked()
}

func (timer *PhaseTimer) enterPhaseLocked(phase Phase) {
	timer.phase = phase
	timer.total = phase.Duration()
	timer.remaining = timer.total
	timer.progress = 0
	timer.skipBreakVisible = phase == PhaseBreak

	title, body := defaultContent(phase)
	timer.options.Notifier.PhaseStarted(PhaseStarted{
		Phase: phase,
		Title: title,
		Body:  body,
		At:    timer.options.Now(),
	})
}

func (timer *PhaseTimer) startTimerLocked() {
	timer.cancelCountdownLocked()
	timer.running = true
	generation := timer.generation
	timer.countdown = timer.options.Clock.Countdown(timer.remaining, timer.options.TickInterval, Callbacks{
		OnTick: func(left time.Duration) {
			timer.tick(generation, left)
		},
		OnFinish: func() {
			timer.expire(generation)
		},
	})
	timer.publishLocked()
}

// cancelCountdownLocked stops the live countdown and invalidates any callback
// it may still have in flight.
func (timer *PhaseTimer) cancelCountdownLocked() {
	if timer.countdown != nil {
		timer.countdown.Stop()
		timer.countdown = nil
	}
	timer.generation++
}

func (timer *PhaseTimer) resetStateLocked() {
	timer.phase = PhaseFocus
	timer.total = FocusDuration
	timer.remaining = FocusDuration
	timer.running = false
	timer.progress = 0
	timer.skipBreakVisible = false
}

func (timer *PhaseTimer) tick(generation uint64, left time.Duration) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if generation != timer.generation || !timer.running {
		return
	}
	if left > timer.remaining {
		left = timer.remaining
	}
	if left < 0 {
		left = 0
	}
	timer.remaining = left
	timer.progress = progressOf(left, timer.total)
	timer.publishLocked()
}

func (timer *PhaseTimer) expire(generation uint64) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if generation != timer.generation || !timer.running {
		return
	}
	timer.cancelCountdownLocked()
	timer.running = false
	timer.remaining = 0
	timer.progress = 1
	timer.publishLocked()

	switch timer.phase {
	case PhaseFocus:
		timer.startBreakLocked()
	case PhaseBreak:
		timer.startFocusLocked()
	default:
		panic(fmt.Sprintf("phasetimer: invalid phase %q at expiry", string(timer.phase)))
	}
}

func (timer *PhaseTimer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:            timer.phase,
		Display:          FormatDisplay(timer.remaining),
		Remaining:        timer.remaining,
		Total:            timer.total,
		Running:          timer.running,
		Progress:         timer.progress,
		SkipBreakVisible: timer.skipBreakVisible && timer.running,
		At:               timer.options.Now(),
	}
}

func (timer *PhaseTimer) publishLocked() {
	snapshot := timer.snapshotLocked()
	for _, ch := range timer.observers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func progressOf(left, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	progress := 1 - float64(left)/float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
