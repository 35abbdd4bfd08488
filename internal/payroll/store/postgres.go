package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stipend/internal/payroll/models"
	"stipend/internal/sentinel"
)

// PostgresStore persists payroll runs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed payroll run store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateRun creates a pending run for the office.
func (s *PostgresStore) CreateRun(ctx context.Context, familyOfficeID int64) (*models.PayrollRun, error) {
	query := `
		INSERT INTO payroll_runs (family_office_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	run := &models.PayrollRun{
		FamilyOfficeID: familyOfficeID,
		Status:         models.StatusPending,
	}
	err := s.db.QueryRowContext(ctx, query, familyOfficeID, models.StatusPending).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create payroll run: %w", err)
	}
	return run, nil
}

// GetRun retrieves a run scoped to one office. An absent id and a foreign id
// are indistinguishable; both return sentinel.ErrNotFound.
func (s *PostgresStore) GetRun(ctx context.Context, runID, familyOfficeID int64) (*models.PayrollRun, error) {
	query := `
		SELECT id, family_office_id, status, pdf_path, created_at, completed_at
		FROM payroll_runs
		WHERE id = $1 AND family_office_id = $2
	`
	return scanRun(s.db.QueryRowContext(ctx, query, runID, familyOfficeID))
}

// FindRun retrieves a run by id without tenant scoping. Worker-only.
func (s *PostgresStore) FindRun(ctx context.Context, runID int64) (*models.PayrollRun, error) {
	query := `
		SELECT id, family_office_id, status, pdf_path, created_at, completed_at
		FROM payroll_runs
		WHERE id = $1
	`
	return scanRun(s.db.QueryRowContext(ctx, query, runID))
}

// UpdateRun persists status, pdf path, and completion transitions.
func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.PayrollRun) error {
	query := `
		UPDATE payroll_runs
		SET status = $2, pdf_path = NULLIF($3, ''), completed_at = $4
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, run.ID, run.Status, run.PDFPath, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("update payroll run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payroll run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payroll run %d: %w", run.ID, sentinel.ErrNotFound)
	}
	return nil
}

func scanRun(row *sql.Row) (*models.PayrollRun, error) {
	run := &models.PayrollRun{}
	var pdfPath sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&run.ID, &run.FamilyOfficeID, &run.Status, &pdfPath, &run.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan payroll run: %w", err)
	}
	if pdfPath.Valid {
		run.PDFPath = pdfPath.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}
