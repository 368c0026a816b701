package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

const pgForeignKeyViolation = "23503"

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsForeignKeyViolation reports whether err is the store rejecting a row
// whose foreign key has no matching parent, for Postgres and SQLite alike.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgForeignKeyViolation
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
