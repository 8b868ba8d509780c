package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pomodoro/internal/control"
	"pomodoro/internal/platform"

	"github.com/spf13/cobra"
)

const signalTimeout = 3 * time.Second

var skipBreakCmd = &cobra.Command{
	Use:   "skip-break",
	Short: "End the running instance's phase and start a new focus session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(commandContext(cmd), signalTimeout)
		defer cancel()
		return skipBreak(ctx, appName, cmd.OutOrStdout())
	},
}

func skipBreak(ctx context.Context, name string, out io.Writer) error {
	delivered, err := platform.SendSignal(ctx, name, control.SignalSkipBreak)
	if errors.Is(err, platform.ErrNotRunning) {
		return fmt.Errorf("%s is not running", name)
	}
	if err != nil {
		return err
	}

	if !delivered {
		fmt.Fprintln(out, "signal dropped: no live timer")
		return nil
	}
	fmt.Fprintln(out, "focus session started")
	return nil
}
