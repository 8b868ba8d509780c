package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"pomodoro/internal/control"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/phasetimer"
	"pomodoro/internal/logger"
	"pomodoro/internal/notify"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/timerview"
	"pomodoro/internal/ui/tray"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Options configures a Run.
type Options struct {
	AppName    string
	AppID      string
	ConfigPath string
	// LogLevel overrides the level stored in settings when non-empty.
	LogLevel string
	Headless bool
	Logger   *slog.Logger
}

// Run starts the single timer instance and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, options Options) error {
	log := options.Logger
	if log == nil {
		log = slog.Default()
	}

	guard, err := platform.AcquireSingleInstance(options.AppName, log)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(options.ConfigPath)
	if err != nil {
		log.Warn("settings unreadable, using defaults", "path", options.ConfigPath, "error", err)
	}
	applyLogLevel(settings.LogLevel, options.LogLevel, log)

	var current atomic.Pointer[model.Settings]
	current.Store(&settings)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fyneApp fyne.App
	if !options.Headless {
		fyneApp = fyneapp.NewWithID(options.AppID)
		fyneApp.SetIcon(theme.HistoryIcon())
	}

	registry := control.NewRegistry(log)
	sender, closeSender, err := newSender(settings.NotifierBackend, options.AppName, fyneApp, registry, log)
	if err != nil {
		log.Warn("notifier unavailable, logging notifications instead", "error", err)
		sender = notify.NewLogSender(log)
	}
	defer closeSender()

	dispatcher := notify.NewDispatcher(notify.NewComposer(nil), sender, log, notify.Config{
		Enabled: func() bool {
			return current.Load().NotificationsEnabled
		},
	})
	defer dispatcher.Close()

	timer := phasetimer.New(phasetimer.Config{Notifier: dispatcher})
	defer timer.Close()
	detach := registry.Attach(timer)
	defer detach()

	go func() {
		if err := guard.Serve(ctx, registry.Dispatch); err != nil {
			log.Error("signal listener stopped", "error", err)
		}
	}()

	watcher := NewIdleWatcher(platform.NewIdleProvider(), timer, func() time.Duration {
		return time.Duration(current.Load().IdlePauseMinutes) * time.Minute
	}, log)
	go watcher.Run(ctx)

	if startsOnLaunch(settings, options.Headless) {
		timer.StartFocusSession()
	}

	if options.Headless {
		log.Info("running headless", "app", options.AppName)
		logSnapshots(ctx, timer.Subscribe(8), log)
		return nil
	}

	save := func(updated model.Settings) {
		current.Store(&updated)
		logger.Level.SetByName(updated.LogLevel)
		if err := storage.SaveSettings(options.ConfigPath, updated); err != nil {
			log.Error("save settings", "path", options.ConfigPath, "error", err)
		}
	}
	runDesktop(ctx, fyneApp, options.AppName, timer, settings, save, log)
	return nil
}

func runDesktop(ctx context.Context, fyneApp fyne.App, title string, timer *phasetimer.PhaseTimer, settings model.Settings, save func(model.Settings), log *slog.Logger) {
	view := timerview.New(fyneApp, title, timerview.Callbacks{
		OnToggle:    func() { toggle(timer) },
		OnReset:     timer.ResetTimer,
		OnSkipBreak: timer.SkipBreak,
	})
	prefs := preferences.New(fyneApp, settings, save)

	var trayDesktop desktop.App
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayDesktop = desktopApp
		desktopApp.SetSystemTrayWindow(view.Window())
	} else {
		log.Info("system tray unsupported on this platform")
	}
	trayManager := tray.New(trayDesktop, title, tray.Callbacks{
		OnShow:        view.Show,
		OnStartFocus:  timer.StartFocusSession,
		OnTogglePause: func() { toggle(timer) },
		OnReset:       timer.ResetTimer,
		OnSkipBreak:   timer.SkipBreak,
		OnPreferences: prefs.Show,
		OnQuit:        fyneApp.Quit,
	})

	snapshots := timer.Subscribe(8)
	go func() {
		for snapshot := range snapshots {
			view.Update(snapshot)
			trayManager.Update(snapshot)
		}
	}()
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(fyneApp.Quit)
		case <-stopped:
		}
	}()

	view.Show()
	fyneApp.Run()
	close(stopped)
}

// startsOnLaunch reports whether the first focus session starts right away.
// Headless runs have no start control, so they always do.
func startsOnLaunch(settings model.Settings, headless bool) bool {
	return headless || settings.StartOnLaunch
}

func logSnapshots(ctx context.Context, snapshots <-chan phasetimer.Snapshot, log *slog.Logger) {
	var last phasetimer.Snapshot
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if snapshot.Phase != last.Phase || snapshot.Running != last.Running {
				log.Info("timer", "phase", string(snapshot.Phase), "running", snapshot.Running, "remaining", snapshot.Display)
			} else {
				log.Debug("tick", "phase", string(snapshot.Phase), "remaining", snapshot.Display, "progress", snapshot.Progress)
			}
			last = snapshot
		}
	}
}

func applyLogLevel(fromSettings, override string, log *slog.Logger) {
	level := fromSettings
	if override != "" {
		level = override
	}
	if level == "" {
		return
	}
	if !logger.Level.SetByName(level) {
		log.Warn("unknown log level", "level", level)
	}
}

// IsAlreadyRunning reports whether err came from a second instance.
func IsAlreadyRunning(err error) bool {
	return errors.Is(err, platform.ErrAlreadyRunning)
}
