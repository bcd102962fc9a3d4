package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/solvex/internal/models"
)

// UsersAPI implements [UserService].
type UsersAPI struct {
	client *Client
}

func NewUsersAPI(c *Client) *UsersAPI { return &UsersAPI{client: c} }

// Create registers a user.
//
// Calls POST /users.
func (u *UsersAPI) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	var user models.User
	if err := u.client.Do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges a username and email for the matching user record.
//
// Calls POST /users/login.
func (u *UsersAPI) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := u.client.Do(ctx, http.MethodPost, "/users/login", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Get calls GET /users/{id}.
func (u *UsersAPI) Get(ctx context.Context, userID int) (*models.User, error) {
	var user models.User
	if err := u.client.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update calls PATCH /users/{id} with only the set fields of req.
func (u *UsersAPI) Update(ctx context.Context, userID int, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := u.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", userID), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Problems calls GET /users/{id}/problems.
func (u *UsersAPI) Problems(ctx context.Context, userID int) ([]models.Problem, error) {
	return getList[models.Problem](ctx, u.client, fmt.Sprintf("/users/%d/problems", userID))
}

// Resources calls GET /users/{id}/resources.
func (u *UsersAPI) Resources(ctx context.Context, userID int) ([]models.Resource, error) {
	return getList[models.Resource](ctx, u.client, fmt.Sprintf("/users/%d/resources", userID))
}
