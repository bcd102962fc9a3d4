// package repositories provides the session store and export history over SQLite
package repositories

import (
	"context"
	"encoding/json"

	"github.com/desertthunder/solvex/internal/models"
)

// SessionKey is the sessions row holding the signed-in user.
const SessionKey = "solvex.user"

// SessionStore persists the last signed-in user.
//
// Load returns (nil, nil) when nothing is stored or the stored value cannot be
// decoded. Save replaces the whole record.
type SessionStore interface {
	Save(ctx context.Context, user *models.User) error
	Load(ctx context.Context) (*models.User, error)
	Clear(ctx context.Context) error
}

// decodeSession parses a stored session, treating corrupt data as absent.
func decodeSession(data []byte) *models.User {
	if len(data) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	if err := user.Validate(); err != nil {
		return nil
	}
	return &user
}
