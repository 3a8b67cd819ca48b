package diff

import "fmt"

// WarningKind classifies a non-fatal observation the diff engine makes
// while computing a Result.
type WarningKind int

const (
	// AmbiguousRename marks a dropped/added column pair that is
	// structurally equal modulo name but was not emitted as a
	// RenameColumn, because it didn't satisfy the positional guard
	// (spec.md §4.E.d/Testable Property "Ambiguity").
	AmbiguousRename WarningKind = iota
	// UnrewrittenReference marks a renamed column's old name surviving as
	// a bare identifier inside another column's constraint text or a
	// table-level constraint string. Diff only rewrites the renamed
	// column's own declaration; it does not parse or rewrite sibling
	// constraint text (spec.md §9, "tools built on top should surface a
	// warning").
	UnrewrittenReference
)

// Warning is a non-fatal finding attached to a Result.
type Warning struct {
	Kind    WarningKind
	Table   string
	OldName string
	NewName string
	Message string
}

// AmbiguityError is returned instead of a Result when opts.StrictAmbiguity
// is set and the diff engine finds an ambiguous rename candidate.
type AmbiguityError struct {
	Table   string
	OldName string
	NewName string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf(
		"diff: table %q: column %q and %q are structurally equal but were not treated as a rename; "+
			"rerun with detect_renaming positioning resolved, or accept the drop/add pair",
		e.Table, e.OldName, e.NewName,
	)
}
