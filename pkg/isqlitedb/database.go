// Package isqlitedb is the host-language façade: it binds a single
// *sql.DB, wires the introspector, diff engine, and migration executor
// together, and exposes the operations a caller (a CRUD layer, a CLI, a
// test) needs without making them assemble those three packages
// themselves.
package isqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
	"github.com/mizuchilabs/go-isqlite/pkg/introspect"
	"github.com/mizuchilabs/go-isqlite/pkg/migrate"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"

	_ "modernc.org/sqlite"
)

type config struct {
	readOnly        bool
	foreignKeys     bool
	epochTimestamps bool
	autoTransaction bool
}

// Option configures Open.
type Option func(*config)

// WithReadOnly opens the database read-only. Diff still works; ApplyDiff,
// Migrate, and the rename helpers fail with a *PreconditionError before
// writing anything (Migrate still reads the live schema for its Diff
// first).
func WithReadOnly() Option {
	return func(c *config) { c.readOnly = true }
}

// WithForeignKeys sets whether foreign_keys enforcement is on once
// Database is open and outside a migration (default true).
func WithForeignKeys(enabled bool) Option {
	return func(c *config) { c.foreignKeys = enabled }
}

// WithEpochTimestamps selects integer-seconds-since-epoch for every
// AutoTable built against this Database, instead of the default
// ISO-8601 text form.
func WithEpochTimestamps() Option {
	return func(c *config) { c.epochTimestamps = true }
}

// WithAutoTransaction sets whether Migrate/ApplyDiff wrap their work in a
// transaction (default true). Set false only when the caller manages its
// own outer transaction and is prepared to forgo the executor's
// rollback-on-error guarantee.
func WithAutoTransaction(enabled bool) Option {
	return func(c *config) { c.autoTransaction = enabled }
}

// Database binds one *sql.DB for its lifetime, the way spec.md §5
// requires: one owning value, released by Close.
type Database struct {
	db   *sql.DB
	conn *migrate.DBConn
	cfg  config
}

// Open opens path (a file path or a modernc.org/sqlite DSN) and applies
// the configured foreign_keys pragma.
func Open(path string, opts ...Option) (*Database, error) {
	cfg := config{foreignKeys: true, autoTransaction: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := path
	if cfg.readOnly {
		dsn += "?mode=ro"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("isqlitedb: open %q: %w", path, err)
	}

	d := &Database{db: db, conn: migrate.NewConn(db), cfg: cfg}
	if !cfg.readOnly {
		if err := d.conn.SetPragma(context.Background(), "foreign_keys", pragmaBool(cfg.foreignKeys)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("isqlitedb: set foreign_keys pragma: %w", err)
		}
	}
	return d, nil
}

// Close releases the underlying connection. Any transaction left open by
// a caller bypassing ApplyDiff/Migrate is the caller's responsibility;
// Database itself never leaves one open across a public method call.
func (d *Database) Close() error {
	return d.db.Close()
}

// RowCount reports the number of rows currently in table, for callers
// (the CLI's "copied N rows" reporting) that want to size an operation
// before running it.
func (d *Database) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	row := d.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, schema.QuoteIdent(table)))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("isqlitedb: count rows in %q: %w", table, err)
	}
	return count, nil
}

// TimestampMode reports the AutoTable timestamp representation this
// Database was opened with.
func (d *Database) TimestampMode() schema.TimestampMode {
	if d.cfg.epochTimestamps {
		return schema.EpochSeconds
	}
	return schema.ISO8601
}

// Diff reads the live schema and computes the change list against
// declared. It performs no writes.
func (d *Database) Diff(ctx context.Context, declared *schema.Schema, opts diff.Options) (diff.Result, error) {
	live, err := introspect.Load(ctx, d.conn)
	if err != nil {
		return diff.Result{}, err
	}
	return diff.Diff(declared, live, opts)
}

// ApplyDiff executes ops against the live database, following §4.F's
// preamble/postamble. It refuses outright on a read-only Database.
func (d *Database) ApplyDiff(ctx context.Context, ops []diff.Operation) error {
	if d.cfg.readOnly {
		return &PreconditionError{Reason: "database was opened read-only"}
	}
	aux, err := introspect.LoadAuxiliary(ctx, d.conn)
	if err != nil {
		return err
	}
	var execOpts []migrate.ExecutorOption
	if !d.cfg.autoTransaction {
		execOpts = append(execOpts, migrate.WithoutAutoTransaction())
	}
	return migrate.NewExecutor(d.conn, aux, execOpts...).Apply(ctx, ops)
}

// Migrate is Diff followed by ApplyDiff of the resulting operations.
func (d *Database) Migrate(ctx context.Context, declared *schema.Schema, opts diff.Options) error {
	result, err := d.Diff(ctx, declared, opts)
	if err != nil {
		return err
	}
	return d.ApplyDiff(ctx, result.Operations)
}

// RenameColumn applies a single RenameColumn operation, after checking
// the table and old column exist and the new name doesn't already
// collide with a sibling column — the single-op precondition checks
// spec.md §7 assigns to PreconditionError.
func (d *Database) RenameColumn(ctx context.Context, table, old, new string) error {
	if d.cfg.readOnly {
		return &PreconditionError{Reason: "database was opened read-only"}
	}
	live, err := introspect.Load(ctx, d.conn)
	if err != nil {
		return err
	}
	tbl, ok := live.Get(table)
	if !ok {
		return &PreconditionError{Reason: fmt.Sprintf("table %q does not exist", table)}
	}
	if !tbl.HasColumn(old) {
		return &PreconditionError{Reason: fmt.Sprintf("table %q has no column %q", table, old)}
	}
	if tbl.HasColumn(new) {
		return &PreconditionError{Reason: fmt.Sprintf("table %q already has a column %q", table, new)}
	}
	return d.ApplyDiff(ctx, []diff.Operation{diff.RenameColumnOp{TableName: table, OldName: old, NewName: new}})
}

// RenameTable applies a single RenameTable operation, after checking the
// old table exists and the new name doesn't collide with an existing
// table.
func (d *Database) RenameTable(ctx context.Context, old, new string) error {
	if d.cfg.readOnly {
		return &PreconditionError{Reason: "database was opened read-only"}
	}
	live, err := introspect.Load(ctx, d.conn)
	if err != nil {
		return err
	}
	if _, ok := live.Get(old); !ok {
		return &PreconditionError{Reason: fmt.Sprintf("table %q does not exist", old)}
	}
	if _, ok := live.Get(new); ok {
		return &PreconditionError{Reason: fmt.Sprintf("table %q already exists", new)}
	}
	return d.ApplyDiff(ctx, []diff.Operation{diff.RenameTableOp{OldName: old, NewName: new}})
}

func pragmaBool(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}
