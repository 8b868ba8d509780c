package tray

import (
	"fmt"

	"pomodoro/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStartFocus  func()
	OnTogglePause func()
	OnReset       func()
	OnSkipBreak   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	title      string
	statusItem *fyne.MenuItem
	showItem   *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resetItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	prefsItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem
}

// New creates a tray manager. A nil app builds the menu without installing it.
func New(app desktop.App, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:   app,
		title: title,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.showItem = fyne.NewMenuItem("Show timer", safe(callbacks.OnShow))
	manager.startItem = fyne.NewMenuItem("Start focus", safe(callbacks.OnStartFocus))
	manager.pauseItem = fyne.NewMenuItem("Resume", safe(callbacks.OnTogglePause))
	manager.resetItem = fyne.NewMenuItem("Reset", safe(callbacks.OnReset))
	manager.skipItem = fyne.NewMenuItem("Skip break", safe(callbacks.OnSkipBreak))
	manager.skipItem.Disabled = true
	manager.prefsItem = fyne.NewMenuItem("Settings", safe(callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("Quit", safe(callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update applies snapshot from any goroutine.
func (manager *Manager) Update(snapshot phasetimer.Snapshot) {
	fyne.Do(func() {
		manager.Apply(snapshot)
	})
}

// Apply renders snapshot into the menu. It must run on the fyne main goroutine.
func (manager *Manager) Apply(snapshot phasetimer.Snapshot) {
	manager.statusItem.Label = StatusLine(snapshot)
	if snapshot.Running {
		manager.pauseItem.Label = "Pause"
	} else {
		manager.pauseItem.Label = "Resume"
	}
	manager.skipItem.Disabled = !snapshot.SkipBreakVisible
	manager.refreshMenu()
}

// Menu returns the current menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(manager.title,
		manager.statusItem,
		manager.showItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	)
}

// StatusLine formats the tray status label.
func StatusLine(snapshot phasetimer.Snapshot) string {
	var phase string
	switch snapshot.Phase {
	case phasetimer.PhaseFocus:
		phase = "Focus"
	case phasetimer.PhaseBreak:
		phase = "Break"
	}
	status := fmt.Sprintf("%s %s", phase, snapshot.Display)
	if !snapshot.Running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	return fmt.Sprintf("Status: %s", status)
}

func safe(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
