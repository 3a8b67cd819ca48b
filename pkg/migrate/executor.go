package migrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"
)

// Executor applies a diff.Result's operations to a live database inside a
// single transaction, following the preamble/postamble spec.md §4.F fixes:
// foreign_keys is disabled before the transaction opens (SQLite refuses to
// toggle it inside one), restored after the transaction ends, and
// PRAGMA foreign_key_check runs once more, outside the transaction, after
// commit.
type Executor struct {
	conn            Conn
	aux             *schema.Auxiliary
	autoTransaction bool
}

// ExecutorOption configures NewExecutor.
type ExecutorOption func(*Executor)

// WithoutAutoTransaction disables the executor's own BeginTx/Commit: the
// caller is managing an outer transaction already and Apply's operations
// run directly against conn. The executor still toggles the foreign_keys
// pragma and runs the post-check, so the caller must ensure no
// transaction is open around the Apply call at those two points.
func WithoutAutoTransaction() ExecutorOption {
	return func(e *Executor) { e.autoTransaction = false }
}

// NewExecutor builds an Executor. aux may be nil if the caller knows the
// migration touches no table with indexes or triggers attached; a table
// rebuild that needs to reattach one without aux information is reported
// as an execution error rather than silently dropping it.
func NewExecutor(conn Conn, aux *schema.Auxiliary, opts ...ExecutorOption) *Executor {
	e := &Executor{conn: conn, aux: aux, autoTransaction: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs every operation in ops in order, inside one transaction. On
// any failure it rolls back, restores the prior foreign_keys setting, and
// returns an *ExecutionError carrying a correlation ID that also appears
// in any log line the caller emits for this call. On success it returns
// nil, unless the post-commit foreign key check finds dangling
// references, in which case it returns *IntegrityViolation — the
// migration has already committed at that point (spec.md §4.F).
func (e *Executor) Apply(ctx context.Context, ops []diff.Operation) error {
	correlationID := uuid.NewString()

	priorFK, err := e.conn.Pragma(ctx, "foreign_keys")
	if err != nil {
		return &ExecutionError{CorrelationID: correlationID, Operation: "read foreign_keys pragma", Err: err}
	}
	if err := e.conn.SetPragma(ctx, "foreign_keys", "OFF"); err != nil {
		return &ExecutionError{CorrelationID: correlationID, Operation: "disable foreign_keys", Err: err}
	}

	var tx Tx
	if e.autoTransaction {
		tx, err = e.conn.BeginTx(ctx)
		if err != nil {
			e.restorePragma(ctx, priorFK)
			return &ExecutionError{CorrelationID: correlationID, Operation: "begin transaction", Err: err}
		}
	} else {
		tx = nopTx{Conn: e.conn}
	}

	rb := &rebuilder{tx: tx, aux: e.aux}
	for _, op := range ops {
		if err := applyOne(ctx, tx, rb, op); err != nil {
			_ = tx.Rollback()
			e.restorePragma(ctx, priorFK)
			return &ExecutionError{CorrelationID: correlationID, Operation: describeOp(op), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		e.restorePragma(ctx, priorFK)
		return &ExecutionError{CorrelationID: correlationID, Operation: "commit", Err: err}
	}

	e.restorePragma(ctx, priorFK)

	violations, err := e.foreignKeyCheck(ctx)
	if err != nil {
		return &ExecutionError{CorrelationID: correlationID, Operation: "post-commit foreign_key_check", Err: err}
	}
	if len(violations) > 0 {
		return &IntegrityViolation{CorrelationID: correlationID, Violations: violations}
	}
	return nil
}

// nopTx adapts a Conn to Tx for the WithoutAutoTransaction path: Commit
// and Rollback are no-ops because an outer transaction the caller owns is
// what actually bounds the work.
type nopTx struct {
	Conn
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func (e *Executor) restorePragma(ctx context.Context, priorValue string) {
	_ = e.conn.SetPragma(ctx, "foreign_keys", priorValue)
}

// foreignKeyCheck runs PRAGMA foreign_key_check and decodes every row it
// returns into an FKViolation. The pragma's column order is fixed by
// SQLite: table, rowid, parent, fkid.
func (e *Executor) foreignKeyCheck(ctx context.Context) ([]FKViolation, error) {
	rows, err := e.conn.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return nil, fmt.Errorf("migrate: run foreign_key_check: %w", err)
	}
	defer rows.Close()

	var violations []FKViolation
	for rows.Next() {
		var v FKViolation
		if err := rows.Scan(&v.Table, &v.RowID, &v.Parent, &v.ForeignKeyID); err != nil {
			return nil, fmt.Errorf("migrate: scan foreign_key_check row: %w", err)
		}
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migrate: iterate foreign_key_check rows: %w", err)
	}
	return violations, nil
}

// applyOne executes a single operation, using the table-rebuild protocol
// for the operation kinds SQLite's ALTER TABLE cannot express directly.
func applyOne(ctx context.Context, tx Tx, rb *rebuilder, op diff.Operation) error {
	switch o := op.(type) {
	case diff.CreateTableOp:
		_, err := tx.ExecContext(ctx, o.NewTable.Render())
		return err

	case diff.DropTableOp:
		_, err := tx.ExecContext(ctx, "DROP TABLE "+schema.QuoteIdent(o.Name))
		return err

	case diff.AddColumnOp:
		// AddColumn always runs as a plain ALTER TABLE ADD COLUMN; there is
		// no rebuild path for it. The diff engine emits AddColumnOp for
		// every added column, so a column SQLite refuses to add this way
		// (UNIQUE, PRIMARY KEY, a non-constant DEFAULT, NOT NULL with no
		// default) fails here and the whole migration rolls back.
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", schema.QuoteIdent(o.TableName), o.Column.Render())
		_, err := tx.ExecContext(ctx, stmt)
		return err

	case diff.DropColumnOp:
		current, err := rb.currentTable(ctx, o.TableName)
		if err != nil {
			return err
		}
		newColumns, selectExprs, err := planDropColumn(current, o)
		if err != nil {
			return err
		}
		return rb.rebuild(ctx, current, newColumns, selectExprs)

	case diff.AlterColumnOp:
		current, err := rb.currentTable(ctx, o.TableName)
		if err != nil {
			return err
		}
		newColumns, selectExprs, err := planAlterColumn(current, o)
		if err != nil {
			return err
		}
		return rb.rebuild(ctx, current, newColumns, selectExprs)

	case diff.ReorderColumnsOp:
		current, err := rb.currentTable(ctx, o.TableName)
		if err != nil {
			return err
		}
		newColumns, selectExprs, err := planReorder(current, o)
		if err != nil {
			return err
		}
		return rb.rebuild(ctx, current, newColumns, selectExprs)

	case diff.RenameColumnOp:
		// modernc.org/sqlite bundles a SQLite release well past 3.25,
		// which added native ALTER TABLE RENAME COLUMN; a rebuild-based
		// fallback for pre-3.25 engines is not implemented.
		stmt := fmt.Sprintf(
			"ALTER TABLE %s RENAME COLUMN %s TO %s",
			schema.QuoteIdent(o.TableName), schema.QuoteIdent(o.OldName), schema.QuoteIdent(o.NewName),
		)
		_, err := tx.ExecContext(ctx, stmt)
		return err

	case diff.RenameTableOp:
		stmt := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", schema.QuoteIdent(o.OldName), schema.QuoteIdent(o.NewName))
		_, err := tx.ExecContext(ctx, stmt)
		return err

	default:
		return fmt.Errorf("migrate: unrecognized operation %T", op)
	}
}

func describeOp(op diff.Operation) string {
	return fmt.Sprintf("%T on %s", op, op.Table())
}
