package model

// NotifierBackend selects how phase notifications are delivered.
type NotifierBackend string

const (
	NotifierAuto NotifierBackend = "auto"
	NotifierDBus NotifierBackend = "dbus"
	NotifierFyne NotifierBackend = "fyne"
	NotifierLog  NotifierBackend = "log"
)

// Valid reports whether backend is a known value.
func (backend NotifierBackend) Valid() bool {
	switch backend {
	case NotifierAuto, NotifierDBus, NotifierFyne, NotifierLog:
		return true
	default:
		return false
	}
}

// Settings defines user preferences. Phase durations are fixed and are not
// part of the settings.
type Settings struct {
	NotificationsEnabled bool
	NotifierBackend      NotifierBackend
	StartOnLaunch        bool
	// IdlePauseMinutes pauses a running focus phase after this much user
	// inactivity. Zero disables it.
	IdlePauseMinutes int
	LogLevel         string
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		NotifierBackend:      NotifierAuto,
		StartOnLaunch:        false,
		IdlePauseMinutes:     0,
		LogLevel:             "info",
	}
}
