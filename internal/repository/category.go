// Package repository provides the PostgreSQL persistence of categories,
// pieces of art and managers, including the uniqueness and referential checks
// that guard them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/dbx"
	"github.com/atinyakov/museum/internal/models"
)

const categoryColumns = `id, name, description, created_at, updated_at`

// PostgresCategoryRepository stores categories in the categories table.
type PostgresCategoryRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCategoryRepository creates a PostgresCategoryRepository on top of db.
func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{DB: db}
}

func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func getCategory(ctx context.Context, db dbx.DBTX, query string, arg any) (*models.Category, error) {
	c, err := scanCategory(db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Get returns the category with the given id or common.ErrNotFound.
func (r *PostgresCategoryRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	return getCategory(ctx, r.DB, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// GetByName returns the category with the given name or common.ErrNotFound.
func (r *PostgresCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return getCategory(ctx, r.DB, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
}

// List returns a page of categories ordered by id. The result is never nil.
func (r *PostgresCategoryRepository) List(ctx context.Context, offset, limit int) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY id OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create inserts a category. It returns common.ErrDuplicateName when the name
// is taken, whether that is seen by the pre-check or by the unique constraint
// when a concurrent insert wins the race.
func (r *PostgresCategoryRepository) Create(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	taken, err := nameTaken(ctx, r.DB, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrDuplicateName
	}

	c, err := scanCategory(r.DB.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING `+categoryColumns,
		in.Name, in.Description,
	))
	if err != nil {
		return nil, mapConstraintError(fmt.Errorf("insert category: %w", err), common.ErrDuplicateName, nil)
	}
	return c, nil
}

// Update applies the present fields of in to the category with the given id.
// The row is locked for the duration of the merge.
func (r *PostgresCategoryRepository) Update(ctx context.Context, id int64, in models.CategoryUpdate) (*models.Category, error) {
	var updated *models.Category

	err := dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := getCategory(ctx, tx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		oldName := c.Name
		in.Apply(c)

		if c.Name != oldName {
			taken, err := nameTaken(ctx, tx, c.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrDuplicateName
			}
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE categories SET name = $1, description = $2, updated_at = now() WHERE id = $3 RETURNING updated_at`,
			c.Name, c.Description, id,
		).Scan(&c.UpdatedAt)
		if err != nil {
			return mapConstraintError(fmt.Errorf("update category: %w", err), common.ErrDuplicateName, nil)
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the category with the given id and returns it. A category
// that is still referenced by a piece of art is not removed: the call fails
// with common.ErrCategoryInUse.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) (*models.Category, error) {
	var deleted *models.Category

	err := dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := getCategory(ctx, tx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		var referenced bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM pieces_of_art WHERE category_id = $1)`, id,
		).Scan(&referenced); err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return common.ErrCategoryInUse
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return mapConstraintError(fmt.Errorf("delete category: %w", err), nil, common.ErrCategoryInUse)
		}

		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// nameTaken reports whether a category other than exceptID already uses name.
func nameTaken(ctx context.Context, db dbx.DBTX, name string, exceptID int64) (bool, error) {
	var taken bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`,
		name, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return taken, nil
}
