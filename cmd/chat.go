package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/archbot/internal/dependency"
)

var (
	chatMessage string
	chatLogs    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive console",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Handle a single input line and exit")
	chatCmd.Flags().BoolVar(&chatLogs, "logs", false, "Show runtime logs below WARN")
}

func runChat(cmd *cobra.Command, _ []string) error {
	minLevel := slog.LevelWarn
	if chatLogs {
		minLevel = slog.LevelDebug
	}
	cfg, err := loadConfig(minLevel)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config (run `archbot onboard` and edit %s):\n%w", resolvedConfigPath(), err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := dependency.New(ctx, cfg, dependency.IO{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		return err
	}
	dispatcher := container.Dispatcher()

	if chatMessage != "" {
		dispatcher.Handle(ctx, chatMessage)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if monitor := container.HealthMonitor(); monitor != nil {
		g.Go(func() error { return monitor.Start(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return dispatcher.Run(gctx)
	})
	return g.Wait()
}
