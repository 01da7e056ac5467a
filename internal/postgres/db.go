// Package postgres implements the repository contracts on PostgreSQL
// using sqlx and squirrel. Unique and foreign key violations from the
// driver are translated into the domain error types, which makes the
// database constraints the backstop for the check-then-act races the
// application-level validation cannot close.
package postgres

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/taskops/taskboard/internal/postgres")

// psql builds queries with PostgreSQL dollar placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// tableCount returns the current row count of a table for the entity
// gauges. Gauge callbacks cannot fail usefully, so errors read as zero.
func tableCount(db *sqlx.DB, table string) int64 {
	var count int64
	if err := db.Get(&count, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0
	}
	return count
}

// uniqueViolation extracts the violated constraint name when err is a
// unique violation, so callers can map it to the conflicting field.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// isForeignKeyViolation reports whether err is a referential failure.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation
}
