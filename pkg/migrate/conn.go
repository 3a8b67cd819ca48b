// Package migrate executes schema changes against a live SQLite database:
// it turns a slice of diff.Operation values into the concrete DDL and, for
// operations SQLite's ALTER TABLE can't express directly, the 12-step
// table-rebuild protocol that creates a replacement table, copies rows
// across, and swaps it into place.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// Conn is the narrow façade the executor and the introspector need over a
// SQL connection — enough to run statements and queries and to manage the
// pragma toggles and transaction boundaries SQLite's schema-change rules
// require, without committing either package to *sql.DB or *sql.Tx
// specifically.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context) (Tx, error)
	Pragma(ctx context.Context, name string) (string, error)
	SetPragma(ctx context.Context, name, value string) error
}

// Tx is the subset of *sql.Tx the executor drives a migration through.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Commit() error
	Rollback() error
}

// DBConn adapts a *sql.DB to Conn.
type DBConn struct {
	DB *sql.DB
}

func NewConn(db *sql.DB) *DBConn {
	return &DBConn{DB: db}
}

func (c *DBConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

func (c *DBConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

func (c *DBConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}

func (c *DBConn) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("migrate: begin transaction: %w", err)
	}
	return tx, nil
}

// Pragma reads a single-valued PRAGMA (e.g. "foreign_keys").
func (c *DBConn) Pragma(ctx context.Context, name string) (string, error) {
	var value string
	if err := c.DB.QueryRowContext(ctx, "PRAGMA "+name).Scan(&value); err != nil {
		return "", fmt.Errorf("migrate: read pragma %s: %w", name, err)
	}
	return value, nil
}

// SetPragma sets a PRAGMA. SQLite requires foreign_keys in particular to
// be set outside any open transaction (spec.md §5); callers are
// responsible for ensuring that's true when it matters.
func (c *DBConn) SetPragma(ctx context.Context, name, value string) error {
	if _, err := c.DB.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", name, value)); err != nil {
		return fmt.Errorf("migrate: set pragma %s: %w", name, err)
	}
	return nil
}
