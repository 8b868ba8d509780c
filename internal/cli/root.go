package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pomodoro/internal/app"
	"pomodoro/internal/logger"
	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
)

const (
	appName = "pomodoro"
	appID   = "io.github.pomodoro"
)

var (
	configPath string
	logLevel   string
	headless   bool
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Single-session Pomodoro timer",
		Long: `pomodoro alternates a 25 minute focus phase with a 5 minute break.

Without a subcommand it starts the timer window and tray icon. Only one
instance runs at a time; use "pomodoro skip-break" to reach it from a shell.`,
		RunE:          runTimer,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without a window, start focusing and log notifications")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(skipBreakCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runTimer(cmd *cobra.Command, _ []string) error {
	log := logger.Default()

	path := configPath
	if path == "" {
		defaultPath, err := storage.DefaultPath(appName)
		if err != nil {
			return fmt.Errorf("resolve settings path: %w", err)
		}
		path = defaultPath
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, app.Options{
		AppName:    appName,
		AppID:      appID,
		ConfigPath: path,
		LogLevel:   logLevel,
		Headless:   headless,
		Logger:     log,
	})
	if app.IsAlreadyRunning(err) {
		return fmt.Errorf("%s is already running", appName)
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
