// Package introspect reads the live schema out of a SQLite database by
// querying sqlite_master and feeding each table's stored CREATE TABLE text
// through pkg/ddl, then mapping the result onto pkg/schema's types —
// grounded on the teacher's parser.go (extractSchema/extractTables) and
// original_source/isqlite/database.py's _get_sql_schema.
package introspect

import "fmt"

// Error reports a live table whose stored SQL this package couldn't
// parse or map onto the schema model.
type Error struct {
	Table  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("introspect: table %q: %s", e.Table, e.Reason)
}

func errorf(table, format string, args ...any) error {
	return &Error{Table: table, Reason: fmt.Sprintf(format, args...)}
}
