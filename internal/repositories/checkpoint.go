package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytlikes/internal/tasks"
)

// CheckpointRepository implements [tasks.CheckpointStore] on the import_checkpoints log.
//
// Each save appends a row and mirrors the value onto import_runs.committed_index,
// so `likes history` can tell the user where to resume after a crash.
type CheckpointRepository struct {
	db *sql.DB
}

var _ tasks.CheckpointStore = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository with the given database connection
func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Save records committed for the run with ID jobID.
func (r *CheckpointRepository) Save(ctx context.Context, jobID string, committed int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_checkpoints (run_id, committed_index, recorded_at) VALUES (?, ?, ?)`,
		jobID, committed, now,
	); err != nil {
		return fmt.Errorf("failed to insert checkpoint: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE import_runs SET committed_index = ?, updated_at = ? WHERE id = ?`,
		committed, now, jobID,
	); err != nil {
		return fmt.Errorf("failed to update run checkpoint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkpoint: %w", err)
	}
	return nil
}

// Load returns the most recently recorded checkpoint for jobID.
func (r *CheckpointRepository) Load(ctx context.Context, jobID string) (int, bool, error) {
	var committed int
	err := r.db.QueryRowContext(ctx,
		`SELECT committed_index FROM import_checkpoints WHERE run_id = ? ORDER BY rowid DESC LIMIT 1`,
		jobID,
	).Scan(&committed)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return committed, true, nil
}

// History lists every checkpoint recorded for jobID in order.
func (r *CheckpointRepository) History(ctx context.Context, jobID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT committed_index FROM import_checkpoints WHERE run_id = ? ORDER BY rowid`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer rows.Close()

	var history []int
	for rows.Next() {
		var committed int
		if err := rows.Scan(&committed); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		history = append(history, committed)
	}
	return history, rows.Err()
}
