package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/solvex/internal/shared"
)

// ExportRun is one invocation of a bulk export.
type ExportRun struct {
	ID         string
	OutputDir  string
	Format     string
	Exported   int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// ExportRunRepository records bulk export history in the export_runs table.
type ExportRunRepository struct {
	db *sql.DB
}

func NewExportRunRepository(db *sql.DB) *ExportRunRepository {
	return &ExportRunRepository{db: db}
}

// Start inserts a run and assigns its ID when empty.
func (r *ExportRunRepository) Start(ctx context.Context, run *ExportRun) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.OutputDir == "" || run.Format == "" {
		return fmt.Errorf("%w: export run needs an output dir and format", shared.ErrInvalidInput)
	}

	query := `INSERT INTO export_runs (id, output_dir, format, started_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.OutputDir, run.Format, run.StartedAt); err != nil {
		return fmt.Errorf("failed to insert export run: %w", err)
	}
	return nil
}

// Finish records the outcome counts of a run.
func (r *ExportRunRepository) Finish(ctx context.Context, id string, exported, failed int) error {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE export_runs SET exported = ?, failed = ?, finished_at = ? WHERE id = ?`,
		exported, failed, now, id)
	if err != nil {
		return fmt.Errorf("failed to update export run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("export run not found: %s", id)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *ExportRunRepository) Recent(ctx context.Context, limit int) ([]ExportRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, output_dir, format, exported, failed, started_at, finished_at
		FROM export_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var (
			run      ExportRun
			finished sql.NullTime
		)
		if err := rows.Scan(&run.ID, &run.OutputDir, &run.Format, &run.Exported, &run.Failed, &run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan export run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
