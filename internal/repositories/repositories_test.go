package repositories

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := shared.NewDatabase(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func sampleUser() *models.User {
	return &models.User{
		UserID:    7,
		Username:  "ada",
		Email:     "ada@example.com",
		FirstName: "Ada",
		CreatedAt: models.NewTime(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)),
	}
}

func TestSessionStores(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) (SessionStore, func(raw string)){
		"SQLite": func(t *testing.T) (SessionStore, func(string)) {
			db := setupTestDB(t)
			corrupt := func(raw string) {
				if _, err := db.Exec("INSERT OR REPLACE INTO sessions (key, value) VALUES (?, ?)", SessionKey, raw); err != nil {
					t.Fatalf("failed to write raw session: %v", err)
				}
			}
			return NewSQLiteSessionStore(db), corrupt
		},
		"Memory": func(t *testing.T) (SessionStore, func(string)) {
			store := NewMemorySessionStore()
			return store, func(raw string) { store.SetRaw([]byte(raw)) }
		},
	}

	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("Load Empty", func(t *testing.T) {
				store, _ := setup(t)
				user, err := store.Load(ctx)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if user != nil {
					t.Errorf("expected nil user, got %+v", user)
				}
			})

			t.Run("Save Then Load Round Trips", func(t *testing.T) {
				store, _ := setup(t)
				want := sampleUser()

				if err := store.Save(ctx, want); err != nil {
					t.Fatalf("failed to save session: %v", err)
				}
				got, err := store.Load(ctx)
				if err != nil {
					t.Fatalf("failed to load session: %v", err)
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("expected %+v, got %+v", want, got)
				}
			})

			t.Run("Save Overwrites", func(t *testing.T) {
				store, _ := setup(t)
				first := sampleUser()
				second := sampleUser()
				second.Username = "grace"

				if err := store.Save(ctx, first); err != nil {
					t.Fatalf("failed to save session: %v", err)
				}
				if err := store.Save(ctx, second); err != nil {
					t.Fatalf("failed to save session: %v", err)
				}

				got, _ := store.Load(ctx)
				if got == nil || got.Username != "grace" {
					t.Errorf("expected overwritten session, got %+v", got)
				}
			})

			t.Run("Load After Clear", func(t *testing.T) {
				store, _ := setup(t)
				if err := store.Save(ctx, sampleUser()); err != nil {
					t.Fatalf("failed to save session: %v", err)
				}
				if err := store.Clear(ctx); err != nil {
					t.Fatalf("failed to clear session: %v", err)
				}

				got, err := store.Load(ctx)
				if err != nil || got != nil {
					t.Errorf("expected nil session after clear, got %+v (%v)", got, err)
				}

				if err := store.Clear(ctx); err != nil {
					t.Errorf("clearing an empty store should succeed, got %v", err)
				}
			})

			t.Run("Load Corrupt Data", func(t *testing.T) {
				for _, raw := range []string{"{not json", "null", "{}", `{"user_id":0,"username":"ada"}`, `{"user_id":3}`} {
					store, corrupt := setup(t)
					corrupt(raw)

					got, err := store.Load(ctx)
					if err != nil {
						t.Fatalf("corrupt data %q must not be an error, got %v", raw, err)
					}
					if got != nil {
						t.Errorf("expected nil user for %q, got %+v", raw, got)
					}
				}
			})

			t.Run("Round Trips Zone Offset", func(t *testing.T) {
				store, _ := setup(t)
				want := sampleUser()
				want.CreatedAt = models.NewTime(time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("", 8*60*60)))

				if err := store.Save(ctx, want); err != nil {
					t.Fatalf("failed to save session: %v", err)
				}
				got, err := store.Load(ctx)
				if err != nil || got == nil {
					t.Fatalf("failed to load session: %+v (%v)", got, err)
				}
				if !got.CreatedAt.Equal(want.CreatedAt.Time) {
					t.Errorf("expected %v, got %v", want.CreatedAt, got.CreatedAt)
				}
				if _, offset := got.CreatedAt.Zone(); offset != 8*60*60 {
					t.Errorf("expected +08:00 offset to survive, got %v", got.CreatedAt)
				}
				if got.CreatedAt.Hour() != 9 {
					t.Errorf("expected local hour 9, got %d", got.CreatedAt.Hour())
				}
			})

			t.Run("Save Nil", func(t *testing.T) {
				store, _ := setup(t)
				if err := store.Save(ctx, nil); err == nil {
					t.Error("expected error saving nil user")
				}
			})
		})
	}
}

func TestSQLiteSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdatedAt", func(t *testing.T) {
		store := NewSQLiteSessionStore(setupTestDB(t))

		ts, err := store.UpdatedAt(ctx)
		if err != nil || !ts.IsZero() {
			t.Fatalf("expected zero time for empty store, got %v (%v)", ts, err)
		}

		before := time.Now().Add(-time.Second)
		if err := store.Save(ctx, sampleUser()); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		ts, err = store.UpdatedAt(ctx)
		if err != nil {
			t.Fatalf("failed to read timestamp: %v", err)
		}
		if ts.Before(before) {
			t.Errorf("expected recent timestamp, got %v", ts)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db, err := shared.NewDatabase(ctx, ":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		db.Close()

		store := NewSQLiteSessionStore(db)
		if _, err := store.Load(ctx); err == nil {
			t.Error("expected error loading from closed database")
		}
		if err := store.Save(ctx, sampleUser()); err == nil {
			t.Error("expected error saving to closed database")
		}
	})
}

func TestExportRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Start Finish Recent", func(t *testing.T) {
		repo := NewExportRunRepository(setupTestDB(t))

		older := &ExportRun{OutputDir: "/tmp/a", Format: "json", StartedAt: time.Now().Add(-time.Hour)}
		newer := &ExportRun{OutputDir: "/tmp/b", Format: "markdown"}

		for _, run := range []*ExportRun{older, newer} {
			if err := repo.Start(ctx, run); err != nil {
				t.Fatalf("failed to start run: %v", err)
			}
			if run.ID == "" {
				t.Error("expected generated id")
			}
		}

		if err := repo.Finish(ctx, newer.ID, 4, 1); err != nil {
			t.Fatalf("failed to finish run: %v", err)
		}

		runs, err := repo.Recent(ctx, 5)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID != newer.ID {
			t.Errorf("expected newest run first")
		}
		if runs[0].Exported != 4 || runs[0].Failed != 1 || runs[0].FinishedAt == nil {
			t.Errorf("unexpected finished run %+v", runs[0])
		}
		if runs[1].FinishedAt != nil {
			t.Errorf("expected unfinished run, got %+v", runs[1])
		}
	})

	t.Run("Start Validates", func(t *testing.T) {
		repo := NewExportRunRepository(setupTestDB(t))
		if err := repo.Start(ctx, &ExportRun{Format: "json"}); err == nil {
			t.Error("expected error for missing output dir")
		}
	})

	t.Run("Finish Unknown Run", func(t *testing.T) {
		repo := NewExportRunRepository(setupTestDB(t))
		if err := repo.Finish(ctx, "missing", 0, 0); err == nil {
			t.Error("expected error for unknown run")
		}
	})
}
