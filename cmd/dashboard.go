package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/pages"
)

// Dashboard prints the signed-in user's recent activity and top tags and resources.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	dashboard := pages.NewDashboard(r.api.Dashboard, sessions)
	if err := dashboard.Load(ctx); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(dashboard.Data(), true)
	}
	return formatter.DashboardTables(r.printer.Out(), dashboard.Data())
}

// Health checks that the API answers.
func (r *Runner) Health(ctx context.Context, cmd *cli.Command) error {
	health, err := r.api.Dashboard.Health(ctx)
	if err != nil {
		return fmt.Errorf("API at %s is unreachable: %w", r.config.API.BaseURL, err)
	}
	r.printer.Success("API at %s is %s", r.config.API.BaseURL, health.Status)
	return nil
}
