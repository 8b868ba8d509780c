package notify

import (
	"image/color"
	"math/rand"
	"sync"
	"time"

	"pomodoro/internal/control"
	"pomodoro/internal/core/phasetimer"
)

// Urgency mirrors the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Action is a button attached to a notification.
type Action struct {
	Key    string
	Label  string
	Signal control.Signal
}

// Content is a fully composed notification.
type Content struct {
	Phase   phasetimer.Phase
	Title   string
	Body    string
	Color   color.NRGBA
	Urgency Urgency
	Action  *Action
}

var (
	focusColor   = color.NRGBA{R: 255, G: 69, B: 0, A: 255}
	breakColor   = color.NRGBA{R: 60, G: 179, B: 113, A: 255}
	neutralColor = color.NRGBA{R: 70, G: 130, B: 180, A: 255}
)

var motivationalMessages = map[phasetimer.Phase][]string{
	phasetimer.PhaseFocus: {
		"You are getting great things done! 💪",
		"Every minute counts, keep going! 🚀",
		"Remember: focus on one thing at a time 🌟",
	},
	phasetimer.PhaseBreak: {
		"Time to relax a little! ☕",
		"Great work! Now recharge 🌿",
		"Use this break to clear your mind 🧘",
	},
}

// PhaseColor returns the accent color of phase.
func PhaseColor(phase phasetimer.Phase) color.NRGBA {
	switch phase {
	case phasetimer.PhaseFocus:
		return focusColor
	case phasetimer.PhaseBreak:
		return breakColor
	default:
		return neutralColor
	}
}

// Composer turns phase events into notification content.
type Composer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewComposer creates a Composer. A nil rng is seeded from the clock.
func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Compose builds the notification for event.
func (composer *Composer) Compose(event phasetimer.PhaseStarted) Content {
	content := Content{
		Phase:   event.Phase,
		Title:   event.Title,
		Body:    composer.pick(motivationalMessages[event.Phase], event.Body),
		Color:   PhaseColor(event.Phase),
		Urgency: UrgencyNormal,
	}

	switch event.Phase {
	case phasetimer.PhaseFocus:
		content.Title = "🎯 Time to shine!"
		content.Urgency = UrgencyCritical
	case phasetimer.PhaseBreak:
		content.Title = "☕ Take a well-earned breather!"
		content.Action = &Action{
			Key:    "skip-break",
			Label:  "Back to work",
			Signal: control.SignalSkipBreak,
		}
	}
	return content
}

func (composer *Composer) pick(messages []string, fallback string) string {
	if len(messages) == 0 {
		return fallback
	}
	composer.mu.Lock()
	defer composer.mu.Unlock()
	return messages[composer.rng.Intn(len(messages))]
}
