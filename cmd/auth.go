package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/shared"
)

func (r *Runner) auth(ctx context.Context) (*pages.Auth, repositories.SessionStore, error) {
	sessions, err := r.sessionStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return pages.NewAuth(r.api.Users, sessions, r.config.Account.SignupPassword), sessions, nil
}

// AuthLogin signs in through /users/login and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	auth, _, err := r.auth(ctx)
	if err != nil {
		return err
	}

	user, err := auth.Login(ctx, pages.LoginForm{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.logger.Info("signed in", "user_id", user.UserID)
	r.printer.Success("Signed in as %s", user.DisplayName())
	return nil
}

// AuthSignup creates an account and signs in.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	auth, _, err := r.auth(ctx)
	if err != nil {
		return err
	}

	user, err := auth.Signup(ctx, pages.SignupForm{
		Username:  cmd.String("username"),
		Email:     cmd.String("email"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	r.logger.Info("account created", "user_id", user.UserID)
	r.printer.Success("Welcome, %s", user.DisplayName())
	return nil
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	auth, _, err := r.auth(ctx)
	if err != nil {
		return err
	}
	if err := auth.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	r.printer.Success("Signed out")
	return nil
}

// AuthStatus reports the signed-in user and when the session was stored.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	auth, sessions, err := r.auth(ctx)
	if err != nil {
		return err
	}

	user, err := auth.Current(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		r.printer.Warning("Not signed in. Run `solvex auth login` first.")
		return nil
	}
	if err != nil {
		return err
	}

	r.printer.Success("Signed in as %s (%s, user #%d)", user.DisplayName(), user.Email, user.UserID)
	if store, ok := sessions.(*repositories.SQLiteSessionStore); ok {
		if at, err := store.UpdatedAt(ctx); err == nil && !at.IsZero() {
			r.printer.Info("Session stored %s", at.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}
