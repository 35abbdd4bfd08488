package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"stipend/internal/office/models"
	"stipend/internal/sentinel"
)

// PostgresStore persists family offices and employees in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed office store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateOffice creates a family office with a unique name.
func (s *PostgresStore) CreateOffice(ctx context.Context, name string) (*models.FamilyOffice, error) {
	query := `
		INSERT INTO family_offices (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`
	office := &models.FamilyOffice{}
	err := s.db.QueryRowContext(ctx, query, name).Scan(&office.ID, &office.Name, &office.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("family office name must be unique: %w", sentinel.ErrInvalidInput)
		}
		return nil, fmt.Errorf("create family office: %w", err)
	}
	return office, nil
}

// FindOfficeByName looks up an office by its name (case-insensitive).
func (s *PostgresStore) FindOfficeByName(ctx context.Context, name string) (*models.FamilyOffice, error) {
	query := `
		SELECT id, name, created_at
		FROM family_offices
		WHERE lower(name) = lower($1)
	`
	office := &models.FamilyOffice{}
	err := s.db.QueryRowContext(ctx, query, name).Scan(&office.ID, &office.Name, &office.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("family office %q: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find family office by name: %w", err)
	}
	return office, nil
}

// CountOffices returns the number of offices.
func (s *PostgresStore) CountOffices(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM family_offices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count family offices: %w", err)
	}
	return count, nil
}

// CreateEmployee persists an employee under the given office.
func (s *PostgresStore) CreateEmployee(ctx context.Context, familyOfficeID int64, name string, salary decimal.Decimal) (*models.Employee, error) {
	emp, err := models.NewEmployee(familyOfficeID, name, salary)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO employees (family_office_id, name, salary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err = s.db.QueryRowContext(ctx, query, emp.FamilyOfficeID, emp.Name, emp.Salary).
		Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return emp, nil
}

// ListEmployees returns the office's employees in insertion order.
func (s *PostgresStore) ListEmployees(ctx context.Context, familyOfficeID int64) ([]*models.Employee, error) {
	query := `
		SELECT id, family_office_id, name, salary, created_at
		FROM employees
		WHERE family_office_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, familyOfficeID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	return scanEmployees(rows)
}

// FindEmployeesByIDs resolves the given ids within one office. Unknown or
// foreign ids are absent from the result.
func (s *PostgresStore) FindEmployeesByIDs(ctx context.Context, familyOfficeID int64, ids []int64) ([]*models.Employee, error) {
	query := `
		SELECT id, family_office_id, name, salary, created_at
		FROM employees
		WHERE family_office_id = $1 AND id = ANY($2)
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, familyOfficeID, ids)
	if err != nil {
		return nil, fmt.Errorf("find employees by ids: %w", err)
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func scanEmployees(rows *sql.Rows) ([]*models.Employee, error) {
	var out []*models.Employee
	for rows.Next() {
		e := &models.Employee{}
		if err := rows.Scan(&e.ID, &e.FamilyOfficeID, &e.Name, &e.Salary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
