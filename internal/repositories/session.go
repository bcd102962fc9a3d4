package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/solvex/internal/models"
)

// SQLiteSessionStore keeps the session as one JSON row in the sessions table.
type SQLiteSessionStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteSessionStore creates a store over db using [SessionKey].
func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db, key: SessionKey}
}

// Save overwrites the stored user.
func (s *SQLiteSessionStore) Save(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("cannot save empty session")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO sessions (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored user, or nil when absent or unparsable.
func (s *SQLiteSessionStore) Load(ctx context.Context) (*models.User, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM sessions WHERE key = ?", s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession([]byte(value)), nil
}

// Clear removes the stored user. Clearing an empty store is not an error.
func (s *SQLiteSessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE key = ?", s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdatedAt reports when the session was last written, or the zero time when absent.
func (s *SQLiteSessionStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updated time.Time
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM sessions WHERE key = ?", s.key).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read session timestamp: %w", err)
	}
	return updated, nil
}

// MemorySessionStore keeps the session in process memory. It stores the
// encoded form so it behaves like the SQLite store on corrupt data.
type MemorySessionStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySessionStore() *MemorySessionStore { return &MemorySessionStore{} }

func (m *MemorySessionStore) Save(_ context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("cannot save empty session")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeSession(m.data), nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// SetRaw stores data verbatim, bypassing encoding.
func (m *MemorySessionStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}
