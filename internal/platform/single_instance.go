package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"pomodoro/internal/control"

	"github.com/sourcegraph/conc"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// ErrNotRunning indicates no instance is listening for signals.
var ErrNotRunning = errors.New("no running instance")

const (
	replyOK      = "ok"
	replyDropped = "dropped"
	replyError   = "error"

	connDeadline = 5 * time.Second
)

// SignalHandler delivers a signal and reports whether it reached a live timer.
type SignalHandler func(control.Signal) bool

// InstanceGuard holds the single-instance lock and serves signals sent by
// other invocations of the program.
type InstanceGuard struct {
	listener  net.Listener
	address   string
	logger    *slog.Logger
	closeOnce sync.Once
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(appName string, logger *slog.Logger) (*InstanceGuard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	address := addressFromName(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address, logger: logger}, nil
}

// Serve accepts signal connections until ctx is cancelled or the guard is
// released. It waits for in-flight connections before returning.
func (guard *InstanceGuard) Serve(ctx context.Context, handler SignalHandler) error {
	var wg conc.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() {
		_ = guard.Release()
	})
	defer stop()

	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept signal connection: %w", err)
		}
		wg.Go(func() {
			guard.handleConn(conn, handler)
		})
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	var err error
	guard.closeOnce.Do(func() {
		err = guard.listener.Close()
	})
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) handleConn(conn net.Conn, handler SignalHandler) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connDeadline))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		guard.logger.Debug("read signal", "error", err)
		return
	}

	signal, err := control.ParseSignal(line)
	if err != nil {
		guard.logger.Warn("reject signal", "error", err)
		_, _ = fmt.Fprintf(conn, "%s %s\n", replyError, err.Error())
		return
	}

	reply := replyDropped
	if handler(signal) {
		reply = replyOK
	}
	guard.logger.Info("signal received", "signal", string(signal), "result", reply)
	_, _ = fmt.Fprintln(conn, reply)
}

// SendSignal delivers signal to the running instance of appName. It returns
// delivered=false when the instance had no live timer to act on.
func SendSignal(ctx context.Context, appName string, signal control.Signal) (delivered bool, err error) {
	dialer := net.Dialer{Timeout: connDeadline}
	conn, err := dialer.DialContext(ctx, "tcp", addressFromName(appName))
	if err != nil {
		return false, fmt.Errorf("send %s: %w", signal, ErrNotRunning)
	}
	defer conn.Close()

	deadline := time.Now().Add(connDeadline)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	if _, err := fmt.Fprintln(conn, string(signal)); err != nil {
		return false, fmt.Errorf("send %s: %w", signal, err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	switch {
	case reply == replyOK:
		return true, nil
	case reply == replyDropped:
		return false, nil
	case strings.HasPrefix(reply, replyError):
		return false, fmt.Errorf("send %s: %s", signal, strings.TrimSpace(strings.TrimPrefix(reply, replyError)))
	default:
		return false, fmt.Errorf("send %s: unexpected reply %q", signal, reply)
	}
}

func addressFromName(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
