package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/shared"
)

// SetupInit writes the config file when missing, then opens the database and runs migrations.
func (r *Runner) SetupInit(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.printer.Success("Wrote %s", configPath)
			if config, err := shared.LoadConfig(configPath); err == nil {
				r.config = config
				r.config.ApplyEnv()
			}
		}
	} else {
		r.printer.Info("Using existing %s", configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if err := r.openDatabase(ctx); err != nil {
		return err
	}

	r.printer.Success("Database ready at %s", r.config.Database.Path)
	r.printer.Info("API: %s", r.config.API.BaseURL)
	r.printer.Info("Next: run `solvex auth login` or `solvex auth signup`")
	return nil
}

// SetupStatus lists every known migration and whether it has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(ctx); err != nil {
		return err
	}

	statuses, err := shared.Migrations(ctx, r.db)
	if err != nil {
		return err
	}

	table := formatter.NewTable(r.printer.Out(), "Version", "Name", "Applied")
	for _, s := range statuses {
		applied := "no"
		if s.Applied {
			applied = "yes"
		}
		table.AddRow(fmt.Sprintf("%04d", s.Version), s.Name, applied)
	}
	return table.Render()
}

// SetupRollback undoes the most recent migration after confirmation.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(ctx, r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ok, err := r.confirmer().Confirm(ctx, "Roll back the latest migration? Stored data in that table is lost.")
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrCancelled
	}

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.printer.Success("Rolled back the latest migration")
	return nil
}
