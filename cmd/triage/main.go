package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/triage/adapter/cli"
	"github.com/felixgeelhaar/triage/internal/app"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	logger := observability.NewLogger(observability.NewLogConfig(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// version and help still work when the container cannot be built
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize triage", "error", err)
	} else {
		defer func() {
			if err := container.Close(); err != nil {
				logger.Warn("shutdown error", "error", err)
			}
		}()
		cli.SetApp(cli.NewApp(container))
	}

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
