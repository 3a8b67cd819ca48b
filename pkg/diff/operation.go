// Package diff computes the ordered list of schema changes needed to turn
// a live database's schema into a declared one, including rename
// detection — grounded on original_source/isqlite/schema.py's
// diff_schemas/diff_tables/is_renamed_column.
package diff

import "github.com/mizuchilabs/go-isqlite/pkg/schema"

// Operation is one schema change. The concrete types below are the
// variants; Table identifies which table an operation applies to (for
// RenameTable and CreateTable of a new table, the "table" is the
// operation's own subject).
type Operation interface {
	// Table returns the table name this operation concerns.
	Table() string
	isOperation()
}

// CreateTableOp creates a table that exists in the declared schema but
// not in the live one.
type CreateTableOp struct {
	NewTable schema.Table
}

func (op CreateTableOp) Table() string { return op.NewTable.Name }
func (CreateTableOp) isOperation()     {}

// DropTableOp drops a table that exists live but not in the declared
// schema.
type DropTableOp struct {
	Name string
}

func (op DropTableOp) Table() string { return op.Name }
func (DropTableOp) isOperation()     {}

// AddColumnOp adds a column declared but not present live.
type AddColumnOp struct {
	TableName string
	Column    schema.Column
}

func (op AddColumnOp) Table() string { return op.TableName }
func (AddColumnOp) isOperation()     {}

// DropColumnOp drops a column present live but not declared.
type DropColumnOp struct {
	TableName  string
	ColumnName string
}

func (op DropColumnOp) Table() string { return op.TableName }
func (DropColumnOp) isOperation()     {}

// AlterColumnOp replaces a column's definition in place, keeping its name
// and position.
type AlterColumnOp struct {
	TableName  string
	ColumnName string
	NewColumn  schema.Column
}

func (op AlterColumnOp) Table() string { return op.TableName }
func (AlterColumnOp) isOperation()     {}

// RenameColumnOp renames a column whose definition is otherwise
// unchanged.
type RenameColumnOp struct {
	TableName string
	OldName   string
	NewName   string
}

func (op RenameColumnOp) Table() string { return op.TableName }
func (RenameColumnOp) isOperation()     {}

// ReorderColumnsOp changes column order without changing any column's
// definition.
type ReorderColumnsOp struct {
	TableName string
	NewOrder  []string
}

func (op ReorderColumnsOp) Table() string { return op.TableName }
func (ReorderColumnsOp) isOperation()     {}

// RenameTableOp renames a table. It is produced only on explicit request
// — the diff engine never infers a table rename from a drop/create pair.
type RenameTableOp struct {
	OldName string
	NewName string
}

func (op RenameTableOp) Table() string { return op.OldName }
func (RenameTableOp) isOperation()     {}
