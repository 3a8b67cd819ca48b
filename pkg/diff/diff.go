package diff

import (
	"fmt"
	"regexp"

	"github.com/mizuchilabs/go-isqlite/pkg/schema"
)

// Options configures Diff.
type Options struct {
	// DetectRenaming enables the rename-detection heuristic (spec.md
	// §4.E.d). It is off in the zero value Options{}, which yields plain
	// drop/add pairs instead of renames.
	DetectRenaming bool
	// StrictAmbiguity turns an ambiguous rename candidate into an
	// AmbiguityError instead of a Warning.
	StrictAmbiguity bool
}

// Result is the ordered change list Diff produces, plus any non-fatal
// findings made along the way.
type Result struct {
	Operations []Operation
	Warnings   []Warning
}

// Diff computes the ordered Operation list that turns live into declared.
// Across tables, CreateTable operations come first in declared order,
// then per-table modifications (also in declared order), then DropTable
// operations last. See diffTable for the ordering of operations within
// one table.
func Diff(declared, live *schema.Schema, opts Options) (Result, error) {
	var creates, drops, modifications []Operation
	var warnings []Warning

	for _, name := range declared.Names() {
		newTable, _ := declared.Get(name)
		oldTable, existsLive := live.Get(name)
		if !existsLive {
			creates = append(creates, CreateTableOp{NewTable: newTable})
			continue
		}
		tableOps, tableWarnings, err := diffTable(oldTable, newTable, opts)
		if err != nil {
			return Result{}, err
		}
		modifications = append(modifications, tableOps...)
		warnings = append(warnings, tableWarnings...)
	}

	for _, name := range live.Names() {
		if _, existsDeclared := declared.Get(name); !existsDeclared {
			drops = append(drops, DropTableOp{Name: name})
		}
	}

	if opts.StrictAmbiguity {
		for _, w := range warnings {
			if w.Kind == AmbiguousRename {
				return Result{}, &AmbiguityError{Table: w.Table, OldName: w.OldName, NewName: w.NewName}
			}
		}
	}

	ops := make([]Operation, 0, len(creates)+len(modifications)+len(drops))
	ops = append(ops, creates...)
	ops = append(ops, modifications...)
	ops = append(ops, drops...)

	return Result{Operations: ops, Warnings: warnings}, nil
}

// diffTable computes the column-level changes for one table present in
// both schemas, grounded on original_source/isqlite/schema.py's
// diff_tables. Operations within the table are emitted in the canonical
// order AlterColumn, RenameColumn, DropColumn, AddColumn, ReorderColumns
// (spec.md §4.E.3), independent of the order columns are declared in.
func diffTable(old, new schema.Table, opts Options) ([]Operation, []Warning, error) {
	oldIndex := make(map[string]int, len(old.Columns))
	for i, c := range old.Columns {
		oldIndex[c.Name] = i
	}
	newIndex := make(map[string]int, len(new.Columns))
	for i, c := range new.Columns {
		newIndex[c.Name] = i
	}

	var alters, renames, adds []Operation
	renamedOldNames := make(map[string]bool)
	reordered := false

	for newIdx, col := range new.Columns {
		oldIdx, ok := oldIndex[col.Name]
		if !ok {
			if rename, oldName := matchRenameCandidate(col, newIdx, old, newIndex, opts); rename {
				renames = append(renames, RenameColumnOp{TableName: new.Name, OldName: oldName, NewName: col.Name})
				renamedOldNames[oldName] = true
				continue
			}
			adds = append(adds, AddColumnOp{TableName: new.Name, Column: col})
			continue
		}
		if oldIdx != newIdx {
			reordered = true
		}
		if !old.Columns[oldIdx].Equal(col) {
			alters = append(alters, AlterColumnOp{TableName: new.Name, ColumnName: col.Name, NewColumn: col})
		}
	}

	var dropsOps []Operation
	droppedNames := make(map[string]bool)
	for _, c := range old.Columns {
		if _, stillDeclared := newIndex[c.Name]; !stillDeclared && !renamedOldNames[c.Name] {
			droppedNames[c.Name] = true
			dropsOps = append(dropsOps, DropColumnOp{TableName: new.Name, ColumnName: c.Name})
		}
	}

	var reorderOps []Operation
	if reordered {
		newOrder := new.ColumnNames()
		var oldExceptDropped []string
		for _, c := range old.Columns {
			if !droppedNames[c.Name] {
				oldExceptDropped = append(oldExceptDropped, c.Name)
			}
		}
		if !equalStringSlices(newOrder, oldExceptDropped) {
			reorderOps = append(reorderOps, ReorderColumnsOp{TableName: new.Name, NewOrder: newOrder})
		}
	}

	warnings := ambiguousRenameWarnings(new.Name, old, new, renamedOldNames, droppedNames)
	warnings = append(warnings, unrewrittenReferenceWarnings(new.Name, renames, new.Constraints)...)

	ops := make([]Operation, 0, len(alters)+len(renames)+len(dropsOps)+len(adds)+len(reorderOps))
	ops = append(ops, alters...)
	ops = append(ops, renames...)
	ops = append(ops, dropsOps...)
	ops = append(ops, adds...)
	ops = append(ops, reorderOps...)

	return ops, warnings, nil
}

// matchRenameCandidate implements the positional rename heuristic: the
// declared column at newIdx is a rename of the live column at the same
// index if and only if renaming detection is on, that index exists in
// the old table, the old column's name isn't still declared anywhere in
// the new table (it would otherwise be a genuine add alongside a
// retained column of that name), and the two columns are equal once the
// name difference is ignored.
func matchRenameCandidate(
	col schema.Column,
	newIdx int,
	old schema.Table,
	newIndex map[string]int,
	opts Options,
) (bool, string) {
	if !opts.DetectRenaming || newIdx >= len(old.Columns) {
		return false, ""
	}
	oldCandidate := old.Columns[newIdx]
	if _, stillDeclared := newIndex[oldCandidate.Name]; stillDeclared {
		return false, ""
	}
	if !col.EqualModuloName(oldCandidate) {
		return false, ""
	}
	return true, oldCandidate.Name
}

// ambiguousRenameWarnings flags dropped/added column pairs that are
// structurally equal modulo name but weren't chosen as a rename by the
// positional heuristic above — i.e. more than one candidate fit
// structurally (spec.md Testable Property "Ambiguity", scenario f).
func ambiguousRenameWarnings(
	table string,
	old, new schema.Table,
	renamedOldNames, droppedNames map[string]bool,
) []Warning {
	var warnings []Warning
	oldIndex := make(map[string]int, len(old.Columns))
	for i, c := range old.Columns {
		oldIndex[c.Name] = i
	}
	for _, oldCol := range old.Columns {
		if !droppedNames[oldCol.Name] || renamedOldNames[oldCol.Name] {
			continue
		}
		for _, newCol := range new.Columns {
			if _, existedOld := oldIndex[newCol.Name]; existedOld {
				// newCol isn't an added column — it already existed live
				// under its own name, so it can't be a rename candidate.
				continue
			}
			if newCol.EqualModuloName(oldCol) {
				warnings = append(warnings, Warning{
					Kind:    AmbiguousRename,
					Table:   table,
					OldName: oldCol.Name,
					NewName: newCol.Name,
					Message: fmt.Sprintf(
						"column %q and %q are structurally equal but were not treated as a rename",
						oldCol.Name, newCol.Name,
					),
				})
			}
		}
	}
	return warnings
}

// unrewrittenReferenceWarnings flags a renamed column's old name surviving
// as a bare identifier inside the declared table's own constraint text —
// e.g. a table-level CHECK or FOREIGN KEY clause that referenced the
// column under its previous name and was not updated to match. Diff has
// no way to know whether a bare identifier match is a real reference or a
// coincidence, so this is always a warning, never a rewrite.
func unrewrittenReferenceWarnings(table string, renames []Operation, constraints []string) []Warning {
	if len(renames) == 0 || len(constraints) == 0 {
		return nil
	}
	var warnings []Warning
	for _, op := range renames {
		rename, ok := op.(RenameColumnOp)
		if !ok {
			continue
		}
		pattern := regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_"])` + regexp.QuoteMeta(rename.OldName) + `($|[^A-Za-z0-9_"])`)
		for _, constraint := range constraints {
			if !pattern.MatchString(constraint) {
				continue
			}
			warnings = append(warnings, Warning{
				Kind:    UnrewrittenReference,
				Table:   table,
				OldName: rename.OldName,
				NewName: rename.NewName,
				Message: fmt.Sprintf(
					"table constraint %q may still reference renamed column %q by its old name",
					constraint, rename.OldName,
				),
			})
		}
	}
	return warnings
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
