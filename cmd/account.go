package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/shared"
)

func (r *Runner) loadAccount(ctx context.Context) (*pages.Account, error) {
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return nil, err
	}
	account := pages.NewAccount(r.api.Users, r.api.Problems, sessions, r.confirmer())
	if err := account.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// AccountShow prints the signed-in user's profile and problems.
func (r *Runner) AccountShow(ctx context.Context, cmd *cli.Command) error {
	account, err := r.loadAccount(ctx)
	if err != nil {
		return err
	}
	user := account.User()
	problems := account.Problems().Items

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"user": user, "problems": problems}, true)
	}

	r.printer.Header(user.DisplayName())
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email:    %s\n", user.Email)
	if date := user.CreatedAt.Date(); date != "" {
		r.writePlain("Joined:   %s\n", date)
	}

	r.writePlainln("My problems (%d)", len(problems))
	if len(problems) == 0 {
		return nil
	}
	return formatter.ProblemsTable(r.printer.Out(), problems)
}

// AccountUpdate edits the profile fields given on the command line.
func (r *Runner) AccountUpdate(ctx context.Context, cmd *cli.Command) error {
	flags := []string{"username", "email", "first-name", "last-name"}
	changed := false
	for _, name := range flags {
		changed = changed || cmd.IsSet(name)
	}
	if !changed {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	account, err := r.loadAccount(ctx)
	if err != nil {
		return err
	}

	account.BeginEdit()
	form, _ := account.Form()
	if cmd.IsSet("username") {
		form.Username = cmd.String("username")
	}
	if cmd.IsSet("email") {
		form.Email = cmd.String("email")
	}
	if cmd.IsSet("first-name") {
		form.FirstName = cmd.String("first-name")
	}
	if cmd.IsSet("last-name") {
		form.LastName = cmd.String("last-name")
	}
	account.SetForm(form)

	if err := account.Save(ctx); err != nil {
		account.CancelEdit()
		return fmt.Errorf("failed to update profile: %w", err)
	}
	r.printer.Success("Profile updated for %s", account.User().Username)
	return nil
}

// AccountResources lists the resources saved by the signed-in user.
func (r *Runner) AccountResources(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}
	user, err := pages.CurrentUser(ctx, sessions)
	if err != nil {
		return err
	}

	resources, err := r.api.Users.Resources(ctx, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	if len(resources) == 0 {
		r.printer.Info("No saved resources")
		return nil
	}
	return formatter.ResourcesTable(r.printer.Out(), resources)
}
