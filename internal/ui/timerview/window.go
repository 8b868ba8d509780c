package timerview

import (
	"image/color"

	"pomodoro/internal/core/phasetimer"
	"pomodoro/internal/notify"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines button handlers.
type Callbacks struct {
	OnToggle    func()
	OnReset     func()
	OnSkipBreak func()
}

// Window is the main countdown window.
type Window struct {
	window      fyne.Window
	callbacks   Callbacks
	background  *canvas.Rectangle
	phaseLabel  *canvas.Text
	timerLabel  *canvas.Text
	progress    *widget.ProgressBar
	startButton *widget.Button
	resetButton *widget.Button
	skipButton  *widget.Button
}

const backgroundAlpha = 48

// New creates the timer window. It starts hidden.
func New(app fyne.App, title string, callbacks Callbacks) *Window {
	window := app.NewWindow(title)

	background := canvas.NewRectangle(color.Transparent)

	phaseLabel := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 18

	timerLabel := canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 56

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	view := &Window{
		window:     window,
		callbacks:  callbacks,
		background: background,
		phaseLabel: phaseLabel,
		timerLabel: timerLabel,
		progress:   progress,
	}

	view.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if view.callbacks.OnToggle != nil {
			view.callbacks.OnToggle()
		}
	})
	view.startButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	})
	view.skipButton = widget.NewButtonWithIcon("Skip break", theme.MediaSkipNextIcon(), func() {
		if view.callbacks.OnSkipBreak != nil {
			view.callbacks.OnSkipBreak()
		}
	})
	view.skipButton.Hide()

	buttons := container.NewHBox(layout.NewSpacer(), view.startButton, view.resetButton, view.skipButton, layout.NewSpacer())
	content := container.NewVBox(phaseLabel, timerLabel, progress, buttons)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(360, 240))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Window returns the underlying fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Update applies snapshot from any goroutine.
func (view *Window) Update(snapshot phasetimer.Snapshot) {
	fyne.Do(func() {
		view.Apply(snapshot)
	})
}

// Apply renders snapshot. It must run on the fyne main goroutine.
func (view *Window) Apply(snapshot phasetimer.Snapshot) {
	view.phaseLabel.Text = PhaseTitle(snapshot.Phase)
	view.phaseLabel.Refresh()

	view.timerLabel.Text = snapshot.Display
	view.timerLabel.Refresh()

	view.progress.SetValue(snapshot.Progress)

	accent := notify.PhaseColor(snapshot.Phase)
	accent.A = backgroundAlpha
	view.background.FillColor = accent
	view.background.Refresh()

	if snapshot.Running {
		view.startButton.SetText("Pause")
		view.startButton.SetIcon(theme.MediaPauseIcon())
	} else {
		view.startButton.SetText("Start")
		view.startButton.SetIcon(theme.MediaPlayIcon())
	}

	if snapshot.SkipBreakVisible {
		view.skipButton.Show()
	} else {
		view.skipButton.Hide()
	}
}

// PhaseTitle returns the human readable phase name.
func PhaseTitle(phase phasetimer.Phase) string {
	switch phase {
	case phasetimer.PhaseFocus:
		return "Focus"
	case phasetimer.PhaseBreak:
		return "Break"
	default:
		return ""
	}
}
