package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
	"github.com/mizuchilabs/go-isqlite/pkg/isqlitedb"
)

var commands = []*cli.Command{
	migrateCMD,
	createTableCMD,
	dropTableCMD,
	addColumnCMD,
	dropColumnCMD,
	alterColumnCMD,
	renameColumnCMD,
	renameTableCMD,
	reorderColumnsCMD,
	dumpCMD,
}

var migrateCMD = &cli.Command{
	Name:      "migrate",
	Usage:     "Diff a declared schema directory against a database and apply the result",
	ArgsUsage: "<db> <schema-dir>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "no-rename", Usage: "Disable rename detection; emit drop/add pairs instead"},
		&cli.BoolFlag{Name: "write", Usage: "Apply the migration instead of only printing it"},
		&cli.BoolFlag{Name: "strict-ambiguity", Usage: "Fail instead of warning on an ambiguous rename candidate"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("usage: isqlite migrate <db> <schema-dir>")
		}
		dbPath, schemaDir := cmd.Args().Get(0), cmd.Args().Get(1)

		declared, err := loadSchemaDir(schemaDir)
		if err != nil {
			return err
		}

		d, err := isqlitedb.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = d.Close() }()

		opts := diff.Options{DetectRenaming: !cmd.Bool("no-rename"), StrictAmbiguity: cmd.Bool("strict-ambiguity")}
		result, err := d.Diff(ctx, declared, opts)
		if err != nil {
			return err
		}
		if len(result.Operations) == 0 {
			fmt.Println("No schema changes detected.")
			return nil
		}

		printOperations(result.Operations)
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s\n", w.Message)
		}

		if !cmd.Bool("write") {
			fmt.Println("\nDry run — rerun with --write to apply.")
			return nil
		}

		if err := confirmDestructive(result.Operations); err != nil {
			return err
		}

		if err := d.ApplyDiff(ctx, result.Operations); err != nil {
			return err
		}
		fmt.Printf("Applied %s operation(s).\n", humanize.Comma(int64(len(result.Operations))))
		return nil
	},
}

var createTableCMD = &cli.Command{
	Name:      "create-table",
	Usage:     "Create a table from a CREATE TABLE statement",
	ArgsUsage: "<db>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "sql", Usage: "Full CREATE TABLE statement", Required: true},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return fmt.Errorf("usage: isqlite create-table <db> --sql \"CREATE TABLE ...\"")
		}
		table, err := parseCreateTableSQL(cmd.String("sql"))
		if err != nil {
			return err
		}
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			return d.ApplyDiff(ctx, []diff.Operation{diff.CreateTableOp{NewTable: table}})
		})(ctx)
	},
}

var dropTableCMD = &cli.Command{
	Name:      "drop-table",
	Usage:     "Drop a table",
	ArgsUsage: "<db> <table>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("usage: isqlite drop-table <db> <table>")
		}
		table := cmd.Args().Get(1)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			ops := []diff.Operation{diff.DropTableOp{Name: table}}
			if err := confirmDestructive(ops); err != nil {
				return err
			}
			return d.ApplyDiff(ctx, ops)
		})(ctx)
	},
}

var addColumnCMD = &cli.Command{
	Name:      "add-column",
	Usage:     "Add a column to a table",
	ArgsUsage: "<db> <table>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "column", Usage: `Column fragment, e.g. "bio TEXT"`, Required: true},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("usage: isqlite add-column <db> <table> --column \"name TYPE ...\"")
		}
		col, err := parseColumnFragment(cmd.String("column"))
		if err != nil {
			return err
		}
		table := cmd.Args().Get(1)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			return d.ApplyDiff(ctx, []diff.Operation{diff.AddColumnOp{TableName: table, Column: col}})
		})(ctx)
	},
}

var dropColumnCMD = &cli.Command{
	Name:      "drop-column",
	Usage:     "Drop a column from a table",
	ArgsUsage: "<db> <table> <column>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 3 {
			return fmt.Errorf("usage: isqlite drop-column <db> <table> <column>")
		}
		table, column := cmd.Args().Get(1), cmd.Args().Get(2)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			ops := []diff.Operation{diff.DropColumnOp{TableName: table, ColumnName: column}}
			if err := confirmDestructive(ops); err != nil {
				return err
			}
			return applyRebuildOp(ctx, d, table, ops)
		})(ctx)
	},
}

var alterColumnCMD = &cli.Command{
	Name:      "alter-column",
	Usage:     "Replace a column's definition in place",
	ArgsUsage: "<db> <table> <column>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "column", Usage: `New column fragment, e.g. "age INTEGER NOT NULL"`, Required: true},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 3 {
			return fmt.Errorf("usage: isqlite alter-column <db> <table> <column> --column \"name TYPE ...\"")
		}
		newCol, err := parseColumnFragment(cmd.String("column"))
		if err != nil {
			return err
		}
		table, column := cmd.Args().Get(1), cmd.Args().Get(2)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			ops := []diff.Operation{diff.AlterColumnOp{TableName: table, ColumnName: column, NewColumn: newCol}}
			return applyRebuildOp(ctx, d, table, ops)
		})(ctx)
	},
}

var renameColumnCMD = &cli.Command{
	Name:      "rename-column",
	Usage:     "Rename a column",
	ArgsUsage: "<db> <table> <old> <new>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 4 {
			return fmt.Errorf("usage: isqlite rename-column <db> <table> <old> <new>")
		}
		table, oldName, newName := cmd.Args().Get(1), cmd.Args().Get(2), cmd.Args().Get(3)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			return d.RenameColumn(ctx, table, oldName, newName)
		})(ctx)
	},
}

var renameTableCMD = &cli.Command{
	Name:      "rename-table",
	Usage:     "Rename a table",
	ArgsUsage: "<db> <old> <new>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 3 {
			return fmt.Errorf("usage: isqlite rename-table <db> <old> <new>")
		}
		oldName, newName := cmd.Args().Get(1), cmd.Args().Get(2)
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			return d.RenameTable(ctx, oldName, newName)
		})(ctx)
	},
}

var reorderColumnsCMD = &cli.Command{
	Name:      "reorder-columns",
	Usage:     "Change a table's column order",
	ArgsUsage: "<db> <table> <col1> <col2> ...",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() < 3 {
			return fmt.Errorf("usage: isqlite reorder-columns <db> <table> <col1> <col2> ...")
		}
		table := cmd.Args().Get(1)
		newOrder := cmd.Args().Slice()[2:]
		return withDatabase(cmd.Args().Get(0), func(ctx context.Context, d *isqlitedb.Database) error {
			ops := []diff.Operation{diff.ReorderColumnsOp{TableName: table, NewOrder: newOrder}}
			return applyRebuildOp(ctx, d, table, ops)
		})(ctx)
	},
}

var dumpCMD = &cli.Command{
	Name:      "dump",
	Usage:     "Dump the live schema back out as declared .sql files",
	ArgsUsage: "<db> <out-dir>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 2 {
			return fmt.Errorf("usage: isqlite dump <db> <out-dir>")
		}
		return dumpSchema(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
	},
}

// withDatabase opens dbPath, runs fn, and always closes the database
// afterward, matching the teacher's defer-close idiom used throughout
// parser.go and apply.go.
func withDatabase(dbPath string, fn func(ctx context.Context, d *isqlitedb.Database) error) func(context.Context) error {
	return func(ctx context.Context) error {
		d, err := isqlitedb.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = d.Close() }()
		return fn(ctx, d)
	}
}

// applyRebuildOp runs a single column-shape operation that the executor
// can only satisfy via the table-rebuild protocol, and reports the row
// count it carried across — ops that don't touch row data (create/drop
// table, rename column/table) skip straight to ApplyDiff instead.
func applyRebuildOp(ctx context.Context, d *isqlitedb.Database, table string, ops []diff.Operation) error {
	before, err := d.RowCount(ctx, table)
	if err != nil {
		return err
	}
	if err := d.ApplyDiff(ctx, ops); err != nil {
		return err
	}
	fmt.Printf("copied %s rows\n", humanize.Comma(before))
	return nil
}

func printOperations(ops []diff.Operation) {
	fmt.Println("Schema changes:")
	for _, op := range ops {
		fmt.Printf("  %s\n", describeOperation(op))
	}
}

func describeOperation(op diff.Operation) string {
	switch o := op.(type) {
	case diff.CreateTableOp:
		return fmt.Sprintf("create table %q", o.NewTable.Name)
	case diff.DropTableOp:
		return fmt.Sprintf("drop table %q", o.Name)
	case diff.AddColumnOp:
		return fmt.Sprintf("add column %q.%q", o.TableName, o.Column.Name)
	case diff.DropColumnOp:
		return fmt.Sprintf("drop column %q.%q", o.TableName, o.ColumnName)
	case diff.AlterColumnOp:
		return fmt.Sprintf("alter column %q.%q", o.TableName, o.ColumnName)
	case diff.RenameColumnOp:
		return fmt.Sprintf("rename column %q.%q -> %q", o.TableName, o.OldName, o.NewName)
	case diff.ReorderColumnsOp:
		return fmt.Sprintf("reorder columns of %q to %v", o.TableName, o.NewOrder)
	case diff.RenameTableOp:
		return fmt.Sprintf("rename table %q -> %q", o.OldName, o.NewName)
	default:
		return fmt.Sprintf("%T", op)
	}
}
