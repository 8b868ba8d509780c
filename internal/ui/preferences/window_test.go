package preferences

import (
	"testing"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSave_CollectsEditedValues(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	var saved *model.Settings
	prefs := New(app, model.DefaultSettings(), func(settings model.Settings) {
		saved = &settings
	})

	prefs.notifications.SetChecked(false)
	prefs.backend.SetSelected(string(model.NotifierLog))
	prefs.startOnLaunch.SetChecked(true)
	prefs.idlePause.SetText(" 15 ")
	prefs.logLevel.SetSelected("debug")
	prefs.handleSave()

	require.NotNil(t, saved)
	assert.Equal(t, model.Settings{
		NotificationsEnabled: false,
		NotifierBackend:      model.NotifierLog,
		StartOnLaunch:        true,
		IdlePauseMinutes:     15,
		LogLevel:             "debug",
	}, *saved)
}

func TestHandleSave_InvalidIdleKeepsPrevious(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	initial := model.DefaultSettings()
	initial.IdlePauseMinutes = 5
	var saved model.Settings
	prefs := New(app, initial, func(settings model.Settings) {
		saved = settings
	})

	prefs.idlePause.SetText("soon")
	prefs.handleSave()

	assert.Equal(t, 5, saved.IdlePauseMinutes)
	assert.Equal(t, initial, saved)
}

func TestUpdateSettings_SelectsLogLevelAlias(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	initial := model.DefaultSettings()
	initial.LogLevel = "warning"
	var saved model.Settings
	prefs := New(app, initial, func(settings model.Settings) {
		saved = settings
	})

	assert.Equal(t, "warn", prefs.logLevel.Selected)

	prefs.handleSave()
	assert.Equal(t, "warn", saved.LogLevel)
}
