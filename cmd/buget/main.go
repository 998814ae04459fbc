package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"buget/internal/cli"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}

	// Logs go to stderr so command output stays clean on stdout.
	logger := cli.SetupLogger(cfg, os.Stderr)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdout, cli.Deps{})
	if err != nil {
		logger.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	runErr := cli.Run(ctx, app, os.Args[1:], os.Stdin)
	if err := app.Close(); err != nil {
		logger.Warn("Cleanup failed", "error", err)
	}
	if runErr != nil {
		if errors.Is(runErr, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
