package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Logger:    logger,
		UseColors: formatter.ResolveColors(),
	})

	app := &cli.Command{
		Name:     "solvex",
		Usage:    "Track programming problems, their solutions and learning resources",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		After:    runner.After,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(reportError(logger, err))
	}
}

// reportError logs err and returns the process exit code.
func reportError(logger *log.Logger, err error) int {
	switch {
	case errors.Is(err, shared.ErrCancelled):
		logger.Warn("cancelled")
		return 0
	case services.IsNotFound(err):
		logger.Error("not found", "error", err, "hint", "check the id with a list command")
	case errors.Is(err, shared.ErrNotAuthenticated):
		logger.Error(err, "hint", "run `solvex auth login` first")
	default:
		logger.Errorf("application error: %v", err)
	}
	return 1
}
