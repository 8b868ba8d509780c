package phasetimer

import (
	"sync"
	"time"
)

// Callbacks receives countdown notifications.
type Callbacks struct {
	OnTick   func(left time.Duration)
	OnFinish func()
}

// Countdown is a cancellable countdown handle.
type Countdown interface {
	// Stop cancels the countdown. It is safe to call more than once.
	Stop()
}

// Clock arms countdowns. Implementations must deliver callbacks
// asynchronously, never from inside Countdown itself, and in increasing time
// order.
type Clock interface {
	Countdown(total, interval time.Duration, callbacks Callbacks) Countdown
}

// SystemClock is the default Clock implementation backed by time.Timer.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Countdown(total, interval time.Duration, callbacks Callbacks) Countdown {
	if interval <= 0 {
		interval = TickInterval
	}
	countdown := &timerCountdown{stopCh: make(chan struct{})}
	go countdown.run(total, interval, callbacks)
	return countdown
}

type timerCountdown struct {
	stopOnce sync.Once
	stopCh   chan struct{}
}

func (countdown *timerCountdown) Stop() {
	countdown.stopOnce.Do(func() {
		close(countdown.stopCh)
	})
}

func (countdown *timerCountdown) stopped() bool {
	select {
	case <-countdown.stopCh:
		return true
	default:
		return false
	}
}

// run schedules ticks on an absolute grid anchored at start, so callback
// latency does not accumulate and every reported value is total minus a
// whole number of intervals.
func (countdown *timerCountdown) run(total, interval time.Duration, callbacks Callbacks) {
	start := time.Now()
	var elapsed time.Duration
	for {
		elapsed = min(elapsed+interval, max(total, 0))
		wait := time.NewTimer(time.Until(start.Add(elapsed)))
		select {
		case <-countdown.stopCh:
			wait.Stop()
			return
		case <-wait.C:
		}
		if countdown.stopped() {
			return
		}

		left := total - elapsed
		if left <= 0 {
			if callbacks.OnFinish != nil {
				callbacks.OnFinish()
			}
			return
		}
		if callbacks.OnTick != nil {
			callbacks.OnTick(left)
		}
	}
}
