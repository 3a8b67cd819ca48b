package migrate

import (
	"fmt"
	"strings"
)

// ExecutionError reports that applying one operation in a migration
// failed. CorrelationID ties it back to the Executor.Apply call that
// produced it, for tracing a failing multi-statement rebuild back to one
// invocation in logs.
type ExecutionError struct {
	CorrelationID string
	Operation     string
	Err           error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("migrate[%s]: %s: %v", e.CorrelationID, e.Operation, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// FKViolation is one row PRAGMA foreign_key_check reported after a
// migration committed.
type FKViolation struct {
	Table        string
	RowID        int64
	Parent       string
	ForeignKeyID int64
}

// IntegrityViolation reports that a migration committed successfully but
// left dangling foreign key references behind. Per spec.md §4.F, the
// commit has already happened; the executor reports the breach rather
// than silently succeeding.
type IntegrityViolation struct {
	CorrelationID string
	Violations    []FKViolation
}

func (e *IntegrityViolation) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s row %d -> %s", v.Table, v.RowID, v.Parent)
	}
	return fmt.Sprintf("migrate[%s]: foreign key check failed after commit: %s", e.CorrelationID, strings.Join(parts, "; "))
}
