package db

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Storage is the data-access layer for the marketplace. One instance wraps
// one database handle; construct it in main and pass it down.
type Storage struct {
	db *sqlx.DB
}

// Connect opens a database handle for the given Postgres DSN and verifies it
// with a ping.
func Connect(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", dsn)
}

// NewStorage wraps an already-open database handle.
func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// qb is the statement builder for all dynamically constructed queries.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// now returns the instant used for audit timestamps. All tables store UTC.
func now() time.Time {
	return time.Now().UTC()
}
