package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
)

// ErrUnavailable indicates the delivery channel refused the notification,
// for example because no notification service is permitted or present.
var ErrUnavailable = errors.New("notification delivery unavailable")

// Sender delivers composed notifications.
type Sender interface {
	Send(ctx context.Context, content Content) error
}

// FyneSender delivers through the fyne application.
type FyneSender struct {
	app fyne.App
}

// NewFyneSender creates a sender for app.
func NewFyneSender(app fyne.App) *FyneSender {
	return &FyneSender{app: app}
}

// Send posts the notification.
func (sender *FyneSender) Send(ctx context.Context, content Content) error {
	if sender.app == nil {
		return fmt.Errorf("fyne notification: %w", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sender.app.SendNotification(fyne.NewNotification(content.Title, content.Body))
	return nil
}

// LogSender writes notifications to a logger. Used in headless mode.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (sender *LogSender) Send(_ context.Context, content Content) error {
	attrs := []any{
		"phase", string(content.Phase),
		"title", content.Title,
		"body", content.Body,
	}
	if content.Action != nil {
		attrs = append(attrs, "action", content.Action.Label)
	}
	sender.logger.Info("notification", attrs...)
	return nil
}

type fallbackSender []Sender

// Fallback tries senders in order until one succeeds.
func Fallback(senders ...Sender) Sender {
	return fallbackSender(senders)
}

func (senders fallbackSender) Send(ctx context.Context, content Content) error {
	if len(senders) == 0 {
		return ErrUnavailable
	}
	var errs []error
	for _, sender := range senders {
		err := sender.Send(ctx, content)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
