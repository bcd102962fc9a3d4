package pages

import (
	"context"
	"strings"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
)

// Auth signs users in and out. It keeps no view state of its own.
type Auth struct {
	users    services.UserService
	sessions repositories.SessionStore
	password string
}

// NewAuth builds the sign-in flows. password is sent on sign-up, since the
// form does not collect one.
func NewAuth(users services.UserService, sessions repositories.SessionStore, password string) *Auth {
	return &Auth{users: users, sessions: sessions, password: password}
}

// Login finds the account matching form and stores it as the session.
func (a *Auth) Login(ctx context.Context, form LoginForm) (*models.User, error) {
	form = LoginForm{Username: strings.TrimSpace(form.Username), Email: strings.TrimSpace(form.Email)}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	user, err := a.users.Login(ctx, models.LoginRequest{Username: form.Username, Email: form.Email})
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates an account with the configured password and stores it as the session.
func (a *Auth) Signup(ctx context.Context, form SignupForm) (*models.User, error) {
	form = SignupForm{
		Username:  strings.TrimSpace(form.Username),
		Email:     strings.TrimSpace(form.Email),
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	user, err := a.users.Create(ctx, models.CreateUserRequest{
		Username:  form.Username,
		Email:     form.Email,
		Password:  a.password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignOut clears the stored session.
func (a *Auth) SignOut(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

// Current returns the signed-in user.
func (a *Auth) Current(ctx context.Context) (*models.User, error) {
	return CurrentUser(ctx, a.sessions)
}
