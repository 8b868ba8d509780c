package app

import "pomodoro/internal/core/phasetimer"

// Timer is the set of PhaseTimer operations the application drives.
type Timer interface {
	Snapshot() phasetimer.Snapshot
	StartFocusSession()
	StartTimer()
	PauseTimer()
	ResetTimer()
	SkipBreak()
}

// toggle pauses a running timer, otherwise starts it. A fresh, untouched
// focus phase starts as a new session so the phase notification fires.
func toggle(timer Timer) {
	snapshot := timer.Snapshot()
	switch {
	case snapshot.Running:
		timer.PauseTimer()
	case snapshot.Phase == phasetimer.PhaseFocus && snapshot.Remaining == snapshot.Total:
		timer.StartFocusSession()
	default:
		timer.StartTimer()
	}
}
