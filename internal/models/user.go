package models

import "strings"

// User is a SolveX account. It is also the record persisted as the local session.
type User struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	CreatedAt Time   `json:"created_at"`
}

func (u *User) Validate() error {
	switch {
	case u.UserID <= 0:
		return invalid("user", "missing user_id")
	case strings.TrimSpace(u.Username) == "":
		return invalid("user", "missing username")
	}
	return nil
}

// DisplayName returns the full name when known, otherwise the username.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Author is the public projection of a user embedded in problem payloads.
type Author struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateUserRequest is the body of PATCH /users/{id}. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
