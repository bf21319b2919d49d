package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mapConstraintError translates PostgreSQL constraint violations into domain
// errors. A nil target leaves that violation untouched.
func mapConstraintError(err error, onUnique, onForeignKey error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch {
	case pqErr.Code == uniqueViolation && onUnique != nil:
		return onUnique
	case pqErr.Code == foreignKeyViolation && onForeignKey != nil:
		return onForeignKey
	}
	return err
}
