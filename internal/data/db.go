// Package data is the persistence layer (C2): it owns the durable rows the
// rest of the system reads and writes, and nothing else. It never reaches
// into the similarity index, the presence map, or any in-memory state — the
// core packages call it, never the reverse.
package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// ErrRecordNotFound is returned by every Get-style method when no row matches.
var ErrRecordNotFound = errors.New("record not found")

// ErrUniqueViolation is returned when an insert collides with a unique
// constraint. Callers (notably the attendance gate) rely on this rather
// than an application-level lock — see internal/attendance.
var ErrUniqueViolation = errors.New("unique constraint violation")

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories can run
// inside or outside a transaction without duplicating their query code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// isUniqueViolation inspects a *pq.Error for SQLSTATE 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
