package phasetimer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdownRecorder struct {
	mu       sync.Mutex
	ticks    []time.Duration
	finished int
}

func (recorder *countdownRecorder) callbacks() Callbacks {
	return Callbacks{
		OnTick: func(left time.Duration) {
			recorder.mu.Lock()
			recorder.ticks = append(recorder.ticks, left)
			recorder.mu.Unlock()
		},
		OnFinish: func() {
			recorder.mu.Lock()
			recorder.finished++
			recorder.mu.Unlock()
		},
	}
}

func (recorder *countdownRecorder) state() ([]time.Duration, int) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]time.Duration(nil), recorder.ticks...), recorder.finished
}

func TestSystemClock_TicksThenFinishes(t *testing.T) {
	recorder := &countdownRecorder{}

	SystemClock.Countdown(50*time.Millisecond, 10*time.Millisecond, recorder.callbacks())

	require.Eventually(t, func() bool {
		_, finished := recorder.state()
		return finished == 1
	}, 2*time.Second, 5*time.Millisecond)

	ticks, _ := recorder.state()
	assert.Equal(t, []time.Duration{
		40 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
		10 * time.Millisecond,
	}, ticks)
}

func TestSystemClock_PartialLastInterval(t *testing.T) {
	recorder := &countdownRecorder{}

	SystemClock.Countdown(25*time.Millisecond, 10*time.Millisecond, recorder.callbacks())

	require.Eventually(t, func() bool {
		_, finished := recorder.state()
		return finished == 1
	}, 2*time.Second, 5*time.Millisecond)

	ticks, _ := recorder.state()
	assert.Equal(t, []time.Duration{15 * time.Millisecond, 5 * time.Millisecond}, ticks)
}

func TestSystemClock_ZeroTotalFinishesImmediately(t *testing.T) {
	recorder := &countdownRecorder{}

	SystemClock.Countdown(0, time.Second, recorder.callbacks())

	require.Eventually(t, func() bool {
		_, finished := recorder.state()
		return finished == 1
	}, 2*time.Second, 5*time.Millisecond)
	ticks, _ := recorder.state()
	assert.Empty(t, ticks)
}

func TestSystemClock_StopPreventsFinish(t *testing.T) {
	recorder := &countdownRecorder{}

	countdown := SystemClock.Countdown(200*time.Millisecond, 50*time.Millisecond, recorder.callbacks())
	countdown.Stop()
	countdown.Stop()

	time.Sleep(300 * time.Millisecond)
	ticks, finished := recorder.state()
	assert.Empty(t, ticks)
	assert.Zero(t, finished)
}

func TestPhaseTimer_WithSystemClock(t *testing.T) {
	timer := New(Config{TickInterval: 10 * time.Millisecond})
	defer timer.Close()
	updates := timer.Subscribe(64)

	timer.StartFocusSession()

	require.Eventually(t, func() bool {
		return timer.Snapshot().Remaining < FocusDuration
	}, 2*time.Second, 5*time.Millisecond)

	timer.PauseTimer()
	paused := timer.Snapshot().Remaining
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused, timer.Snapshot().Remaining)

	previous := FocusDuration
	for _, snapshot := range drain(updates) {
		assert.LessOrEqual(t, snapshot.Remaining, previous)
		previous = snapshot.Remaining
	}
}
