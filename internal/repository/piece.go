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

const (
	pieceColumns = `id, name, description, image_url, category_id, created_at, updated_at`

	pieceWithCategorySelect = `SELECT p.id, p.name, p.description, p.image_url, p.category_id, p.created_at, p.updated_at,
		c.id, c.name, c.description, c.created_at, c.updated_at
		FROM pieces_of_art p JOIN categories c ON c.id = p.category_id`
)

// PostgresPieceRepository stores pieces of art in the pieces_of_art table.
type PostgresPieceRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresPieceRepository creates a PostgresPieceRepository on top of db.
func NewPostgresPieceRepository(db *sql.DB) *PostgresPieceRepository {
	return &PostgresPieceRepository{DB: db}
}

func scanPiece(row scanner) (*models.PieceOfArt, error) {
	var p models.PieceOfArt
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPieceWithCategory(row scanner) (*models.PieceOfArt, error) {
	var (
		p models.PieceOfArt
		c models.Category
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// Get returns the piece with the given id, with its category resolved.
func (r *PostgresPieceRepository) Get(ctx context.Context, id int64) (*models.PieceOfArt, error) {
	p, err := scanPieceWithCategory(r.DB.QueryRowContext(ctx, pieceWithCategorySelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// List returns a page of pieces ordered by id. When f.CategoryID is set only
// pieces of that category are returned. The result is never nil.
func (r *PostgresPieceRepository) List(ctx context.Context, f models.PieceFilter) ([]models.PieceOfArt, error) {
	query := pieceWithCategorySelect
	args := []any{f.Offset, f.Limit}
	if f.CategoryID != nil {
		query += ` WHERE p.category_id = $3`
		args = append(args, *f.CategoryID)
	}
	query += ` ORDER BY p.id OFFSET $1 LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pieces: %w", err)
	}
	defer rows.Close()

	pieces := make([]models.PieceOfArt, 0)
	for rows.Next() {
		p, err := scanPieceWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		pieces = append(pieces, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pieces: %w", err)
	}
	return pieces, nil
}

// ExistsInCategory reports whether a piece with the given name exists in the category.
func (r *PostgresPieceRepository) ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM pieces_of_art WHERE category_id = $1 AND name = $2)`,
		categoryID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check piece: %w", err)
	}
	return exists, nil
}

// Create inserts a piece of art. The referenced category is resolved and
// share-locked in the same transaction as the insert, so it cannot be deleted
// in between; a missing category yields common.ErrCategoryNotFound and
// nothing is written.
func (r *PostgresPieceRepository) Create(ctx context.Context, in models.PieceCreate) (*models.PieceOfArt, error) {
	var created *models.PieceOfArt

	err := dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		c, err := lockCategory(ctx, tx, in.CategoryID)
		if err != nil {
			return err
		}

		p, err := scanPiece(tx.QueryRowContext(ctx,
			`INSERT INTO pieces_of_art (name, description, image_url, category_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+pieceColumns,
			in.Name, in.Description, in.ImageURL, in.CategoryID,
		))
		if err != nil {
			return mapConstraintError(fmt.Errorf("insert piece: %w", err), nil, common.ErrCategoryNotFound)
		}

		p.Category = c
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the present fields of in to the piece with the given id.
// The resulting category is resolved and share-locked before the write.
func (r *PostgresPieceRepository) Update(ctx context.Context, id int64, in models.PieceUpdate) (*models.PieceOfArt, error) {
	var updated *models.PieceOfArt

	err := dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := scanPiece(tx.QueryRowContext(ctx,
			`SELECT `+pieceColumns+` FROM pieces_of_art WHERE id = $1 FOR UPDATE`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		in.Apply(p)

		c, err := lockCategory(ctx, tx, p.CategoryID)
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE pieces_of_art
			 SET name = $1, description = $2, image_url = $3, category_id = $4, updated_at = now()
			 WHERE id = $5
			 RETURNING updated_at`,
			p.Name, p.Description, p.ImageURL, p.CategoryID, id,
		).Scan(&p.UpdatedAt)
		if err != nil {
			return mapConstraintError(fmt.Errorf("update piece: %w", err), nil, common.ErrCategoryNotFound)
		}

		p.Category = c
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the piece with the given id and returns it.
func (r *PostgresPieceRepository) Delete(ctx context.Context, id int64) (*models.PieceOfArt, error) {
	p, err := scanPiece(r.DB.QueryRowContext(ctx,
		`DELETE FROM pieces_of_art WHERE id = $1 RETURNING `+pieceColumns, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete piece: %w", err)
	}
	return p, nil
}

// lockCategory loads a category with FOR SHARE, which blocks a concurrent
// delete of that row until the surrounding transaction ends.
func lockCategory(ctx context.Context, tx dbx.DBTX, id int64) (*models.Category, error) {
	c, err := getCategory(ctx, tx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR SHARE`, id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrCategoryNotFound)
	}
	return c, err
}
