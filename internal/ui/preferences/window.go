package preferences

import (
	"strconv"
	"strings"

	"pomodoro/internal/core/model"
	"pomodoro/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	backendOptions  = []string{string(model.NotifierAuto), string(model.NotifierDBus), string(model.NotifierFyne), string(model.NotifierLog)}
	logLevelOptions = []string{"debug", "info", "warn", "error"}
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	notifications *widget.Check
	backend       *widget.Select
	startOnLaunch *widget.Check
	idlePause     *widget.Entry
	logLevel      *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		notifications: widget.NewCheck("Show notifications when a phase starts", nil),
		backend:       widget.NewSelect(backendOptions, nil),
		startOnLaunch: widget.NewCheck("Start a focus session on launch", nil),
		idlePause:     widget.NewEntry(),
		logLevel:      widget.NewSelect(logLevelOptions, nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		container.NewHBox(widget.NewLabel("Delivery"), prefs.backend),
		widget.NewLabelWithStyle("Session", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.startOnLaunch,
		container.NewHBox(widget.NewLabel("Pause focus after idle"), prefs.idlePause, widget.NewLabel("min (0 = off)")),
		container.NewHBox(widget.NewLabel("Log level"), prefs.logLevel),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.backend.SetSelected(string(settings.NotifierBackend))
	prefs.startOnLaunch.SetChecked(settings.StartOnLaunch)
	prefs.idlePause.SetText(strconv.Itoa(settings.IdlePauseMinutes))
	if name, ok := logger.CanonicalName(settings.LogLevel); ok {
		prefs.logLevel.SetSelected(name)
	} else {
		prefs.logLevel.ClearSelected()
	}
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.NotificationsEnabled = prefs.notifications.Checked
	if backend := model.NotifierBackend(prefs.backend.Selected); backend.Valid() {
		settings.NotifierBackend = backend
	}
	settings.StartOnLaunch = prefs.startOnLaunch.Checked
	if minutes, ok := parseNonNegativeInt(prefs.idlePause.Text); ok {
		settings.IdlePauseMinutes = minutes
	}
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
