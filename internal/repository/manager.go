package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
)

// PostgresManagerRepository stores manager identities and password hashes.
type PostgresManagerRepository struct {
	DB *sql.DB
}

// NewPostgresManagerRepository creates a PostgresManagerRepository on top of db.
func NewPostgresManagerRepository(db *sql.DB) *PostgresManagerRepository {
	return &PostgresManagerRepository{DB: db}
}

// FindByEmail returns the manager registered under email or common.ErrNotFound.
func (r *PostgresManagerRepository) FindByEmail(ctx context.Context, email string) (*models.Manager, error) {
	var m models.Manager
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, hashed_password, created_at, updated_at
		 FROM managers WHERE email = $1`,
		email,
	).Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.HashedPassword, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &m, nil
}

// Create inserts m, which must already carry the hashed password, and fills
// in the server-assigned fields. A taken email yields common.ErrDuplicateEmail.
func (r *PostgresManagerRepository) Create(ctx context.Context, m *models.Manager) (*models.Manager, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO managers (email, first_name, last_name, hashed_password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		m.Email, m.FirstName, m.LastName, m.HashedPassword,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapConstraintError(fmt.Errorf("insert manager: %w", err), common.ErrDuplicateEmail, nil)
	}
	return m, nil
}
