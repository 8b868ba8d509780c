package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pomodoro/internal/control"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName      = "org.freedesktop.Notifications"
	notificationsPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsInterface = "org.freedesktop.Notifications"

	memberActionInvoked      = "ActionInvoked"
	memberNotificationClosed = "NotificationClosed"
)

// notificationBus is the part of the session bus DBusSender talks to.
type notificationBus interface {
	NameHasOwner(ctx context.Context, name string) (bool, error)
	Notify(ctx context.Context, appName, title, body string, actions []string, hints map[string]dbus.Variant) (uint32, error)
	Close() error
}

type sessionBus struct {
	conn *dbus.Conn
}

func (bus sessionBus) NameHasOwner(ctx context.Context, name string) (bool, error) {
	var owned bool
	err := bus.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned)
	return owned, err
}

func (bus sessionBus) Notify(ctx context.Context, appName, title, body string, actions []string, hints map[string]dbus.Variant) (uint32, error) {
	var id uint32
	err := bus.conn.Object(notificationsName, notificationsPath).CallWithContext(ctx,
		notificationsInterface+".Notify", 0,
		appName, uint32(0), "", title, body, actions, hints, int32(-1),
	).Store(&id)
	return id, err
}

func (bus sessionBus) Close() error {
	return bus.conn.Close()
}

// DBusSender delivers freedesktop notifications over the session bus and
// forwards invoked actions as control signals.
type DBusSender struct {
	bus      notificationBus
	appName  string
	onAction func(control.Signal)
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[uint32]map[string]control.Signal
}

// NewDBusSender connects to the session bus.
func NewDBusSender(appName string, onAction func(control.Signal), logger *slog.Logger) (*DBusSender, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	for _, member := range []string{memberActionInvoked, memberNotificationClosed} {
		err := conn.AddMatchSignal(
			dbus.WithMatchObjectPath(notificationsPath),
			dbus.WithMatchInterface(notificationsInterface),
			dbus.WithMatchMember(member),
		)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("subscribe %s: %w", member, err)
		}
	}

	sender := &DBusSender{
		bus:      sessionBus{conn: conn},
		appName:  appName,
		onAction: onAction,
		logger:   logger,
		pending:  make(map[uint32]map[string]control.Signal),
	}

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	go sender.listen(signals)

	return sender, nil
}

// Send posts the notification if a notification service owns its bus name.
func (sender *DBusSender) Send(ctx context.Context, content Content) error {
	if !sender.available(ctx) {
		return fmt.Errorf("dbus notification: %w", ErrUnavailable)
	}

	var actions []string
	if content.Action != nil {
		actions = []string{content.Action.Key, content.Action.Label}
	}
	hints := map[string]dbus.Variant{
		"urgency":    dbus.MakeVariant(byte(content.Urgency)),
		"sound-name": dbus.MakeVariant("message-new-instant"),
	}

	id, err := sender.bus.Notify(ctx, sender.appName, content.Title, content.Body, actions, hints)
	if err != nil {
		return fmt.Errorf("dbus notify: %w", err)
	}

	if content.Action != nil {
		sender.mu.Lock()
		sender.pending[id] = map[string]control.Signal{content.Action.Key: content.Action.Signal}
		sender.mu.Unlock()
	}
	return nil
}

// Close disconnects from the bus.
func (sender *DBusSender) Close() error {
	return sender.bus.Close()
}

func (sender *DBusSender) available(ctx context.Context) bool {
	owned, err := sender.bus.NameHasOwner(ctx, notificationsName)
	if err != nil {
		sender.logger.Debug("query notification service", "error", err)
		return false
	}
	return owned
}

func (sender *DBusSender) listen(signals <-chan *dbus.Signal) {
	for signal := range signals {
		if len(signal.Body) < 2 {
			continue
		}
		id, ok := signal.Body[0].(uint32)
		if !ok {
			continue
		}

		switch signal.Name {
		case notificationsInterface + "." + memberActionInvoked:
			key, _ := signal.Body[1].(string)
			sender.mu.Lock()
			target, found := sender.pending[id][key]
			delete(sender.pending, id)
			sender.mu.Unlock()
			if found && sender.onAction != nil {
				sender.logger.Info("notification action", "action", key)
				sender.onAction(target)
			}
		case notificationsInterface + "." + memberNotificationClosed:
			sender.mu.Lock()
			delete(sender.pending, id)
			sender.mu.Unlock()
		}
	}
}
