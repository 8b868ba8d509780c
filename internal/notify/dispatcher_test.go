package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pomodoro/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	contents []Content
	err      error
	block    chan struct{}
}

func (sender *recordingSender) Send(ctx context.Context, content Content) error {
	if sender.block != nil {
		<-sender.block
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.contents = append(sender.contents, content)
	return sender.err
}

func (sender *recordingSender) sent() []Content {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	return append([]Content(nil), sender.contents...)
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, Content) error {
	panic("boom")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher(nil, sender, quietLogger(), Config{})

	dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})
	dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseBreak})
	dispatcher.Close()

	sent := sender.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, phasetimer.PhaseFocus, sent[0].Phase)
	assert.Equal(t, phasetimer.PhaseBreak, sent[1].Phase)
}

func TestDispatcher_DisabledSkipsDelivery(t *testing.T) {
	sender := &recordingSender{}
	var enabled atomic.Bool
	dispatcher := NewDispatcher(nil, sender, quietLogger(), Config{Enabled: enabled.Load})

	dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})
	dispatcher.Close()

	assert.Empty(t, sender.sent())
}

func TestDispatcher_FailuresDoNotPropagate(t *testing.T) {
	failing := &recordingSender{err: ErrUnavailable}
	dispatcher := NewDispatcher(nil, failing, quietLogger(), Config{})

	assert.NotPanics(t, func() {
		dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})
		dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseBreak})
		dispatcher.Close()
	})
	assert.Len(t, failing.sent(), 2)
}

func TestDispatcher_SenderPanicIsContained(t *testing.T) {
	dispatcher := NewDispatcher(nil, panickingSender{}, quietLogger(), Config{})

	assert.NotPanics(t, func() {
		dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})
		dispatcher.Close()
	})
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	dispatcher := NewDispatcher(nil, sender, quietLogger(), Config{QueueSize: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PhaseStarted blocked")
	}

	close(sender.block)
	dispatcher.Close()
	sent := sender.sent()
	assert.NotEmpty(t, sent)
	assert.LessOrEqual(t, len(sent), 2)
}

func TestDispatcher_AfterCloseIgnored(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher(nil, sender, quietLogger(), Config{})
	dispatcher.Close()
	dispatcher.Close()

	dispatcher.PhaseStarted(phasetimer.PhaseStarted{Phase: phasetimer.PhaseFocus})

	assert.Empty(t, sender.sent())
}

func TestFallback(t *testing.T) {
	first := &recordingSender{err: ErrUnavailable}
	second := &recordingSender{}
	third := &recordingSender{}

	err := Fallback(first, second, third).Send(context.Background(), Content{Title: "x"})

	require.NoError(t, err)
	assert.Len(t, first.sent(), 1)
	assert.Len(t, second.sent(), 1)
	assert.Empty(t, third.sent())
}

func TestFallback_AllFail(t *testing.T) {
	boom := errors.New("boom")

	err := Fallback(&recordingSender{err: ErrUnavailable}, &recordingSender{err: boom}).Send(context.Background(), Content{})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, Fallback().Send(context.Background(), Content{}), ErrUnavailable)
}

func TestFyneSender(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	sender := NewFyneSender(app)

	test.AssertNotificationSent(t, fyne.NewNotification("🎯 Time to shine!", "go"), func() {
		require.NoError(t, sender.Send(context.Background(), Content{Title: "🎯 Time to shine!", Body: "go"}))
	})
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender(quietLogger()).Send(context.Background(), Content{Title: "x"}))
}
