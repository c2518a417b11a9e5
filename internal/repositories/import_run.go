package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

const importRunColumns = `
	id, sequence, source_id, source_name, collection, status,
	total_items, start_index, committed_index, mutations, rollbacks,
	reversed, error_message, started_at, completed_at, created_at, updated_at
`

// ImportRunRepository implements models.Repository[*models.ImportRun] for import history.
type ImportRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.ImportRun] = (*ImportRunRepository)(nil)

// NewImportRunRepository creates a new ImportRunRepository with the given database connection
func NewImportRunRepository(db *sql.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

// Create inserts a new run with generated ID and sequence
func (r *ImportRunRepository) Create(run *models.ImportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "import_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	query := `INSERT INTO import_runs (` + importRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		run.ID(),
		sequence,
		run.SourceID(),
		run.SourceName(),
		run.Collection(),
		run.Status(),
		run.TotalItems(),
		run.StartIndex(),
		run.CommittedIndex(),
		run.Mutations(),
		run.Rollbacks(),
		run.Reversed(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *ImportRunRepository) Get(id string) (*models.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs WHERE id = ?`

	run, err := scanImportRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return run, err
}

// GetBySequence retrieves a run by the number shown in `likes history`
func (r *ImportRunRepository) GetBySequence(sequence int) (*models.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs WHERE sequence = ?`

	run, err := scanImportRun(r.db.QueryRow(query, sequence))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", shared.ErrRunNotFound, sequence)
	}
	return run, err
}

// Update writes the run's mutable columns
func (r *ImportRunRepository) Update(run *models.ImportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE import_runs
		SET status = ?, committed_index = ?, mutations = ?, rollbacks = ?,
			error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Status(),
		run.CommittedIndex(),
		run.Mutations(),
		run.Rollbacks(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}

	return requireRow(result, run.ID())
}

// Delete removes a run and its checkpoint log
func (r *ImportRunRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM import_checkpoints WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete checkpoints: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM import_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete import run: %w", err)
	}
	if err := requireRow(result, id); err != nil {
		return err
	}

	return tx.Commit()
}

// List retrieves runs newest first.
//
// Recognized criteria: "status" (string or models.RunStatus), "source_id" (string), "limit" (int).
func (r *ImportRunRepository) List(criteria map[string]any) ([]*models.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs WHERE 1 = 1`
	args := []any{}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.RunStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	}

	if sourceID, ok := criteria["source_id"].(string); ok && sourceID != "" {
		query += " AND source_id = ?"
		args = append(args, sourceID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanImportRun scans a [sql.Row] or the current row of [sql.Rows] into a [models.ImportRun].
// sql.ErrNoRows is returned unwrapped.
func scanImportRun(s scanner) (*models.ImportRun, error) {
	var (
		id             string
		sequence       int
		sourceID       string
		sourceName     string
		collection     string
		status         string
		totalItems     int
		startIndex     int
		committedIndex int
		mutations      int
		rollbacks      int
		reversed       bool
		errorMessage   sql.NullString
		startedAt      sql.NullTime
		completedAt    sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := s.Scan(
		&id, &sequence, &sourceID, &sourceName, &collection, &status,
		&totalItems, &startIndex, &committedIndex, &mutations, &rollbacks,
		&reversed, &errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import run: %w", err)
	}

	return models.RestoreImportRun(
		id, sequence, sourceID, sourceName, collection, models.RunStatus(status),
		totalItems, startIndex, committedIndex, mutations, rollbacks, reversed,
		errorMessage.String, nullTime(startedAt), nullTime(completedAt), createdAt, updatedAt,
	), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}
