package app

import (
	"errors"
	"fmt"
	"log/slog"

	"pomodoro/internal/control"
	"pomodoro/internal/core/model"
	"pomodoro/internal/notify"

	"fyne.io/fyne/v2"
)

// newSender builds the notification sender for backend. The returned close
// func releases any bus connection. fyneApp is nil in headless mode.
func newSender(backend model.NotifierBackend, appName string, fyneApp fyne.App, registry *control.Registry, logger *slog.Logger) (notify.Sender, func(), error) {
	noop := func() {}
	logSender := notify.NewLogSender(logger)

	switch backend {
	case model.NotifierLog:
		return logSender, noop, nil
	case model.NotifierFyne:
		if fyneApp == nil {
			return logSender, noop, nil
		}
		return notify.NewFyneSender(fyneApp), noop, nil
	case model.NotifierDBus:
		dbusSender, err := notify.NewDBusSender(appName, dispatchAction(registry), logger)
		if err != nil {
			return nil, noop, fmt.Errorf("dbus notifier: %w", err)
		}
		return dbusSender, closeQuietly(dbusSender.Close), nil
	case model.NotifierAuto:
		var senders []notify.Sender
		closer := noop
		dbusSender, err := notify.NewDBusSender(appName, dispatchAction(registry), logger)
		if err != nil {
			logger.Debug("dbus notifier unavailable", "error", err)
		} else {
			senders = append(senders, dbusSender)
			closer = closeQuietly(dbusSender.Close)
		}
		if fyneApp != nil {
			senders = append(senders, notify.NewFyneSender(fyneApp))
		}
		senders = append(senders, logSender)
		return notify.Fallback(senders...), closer, nil
	default:
		return nil, noop, errors.New("unknown notifier backend " + string(backend))
	}
}

func dispatchAction(registry *control.Registry) func(control.Signal) {
	return func(signal control.Signal) {
		registry.Dispatch(signal)
	}
}

func closeQuietly(closeFn func() error) func() {
	return func() {
		_ = closeFn()
	}
}
