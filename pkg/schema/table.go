package schema

import "strings"

// Table is the ordered list of columns and table-level constraints that
// make up a SQL table declaration. Column order is significant: it is the
// table's column order on disk.
type Table struct {
	Name         string
	Columns      []Column
	Constraints  []string
	WithoutRowID bool
}

// TableOption configures a Table built with NewTable.
type TableOption func(*Table)

// WithConstraints appends opaque SQL constraint strings (e.g. "CHECK(a <
// b)") after the table's columns.
func WithConstraints(constraints ...string) TableOption {
	return func(t *Table) { t.Constraints = append(t.Constraints, constraints...) }
}

// WithoutRowID marks the table WITHOUT ROWID.
func WithoutRowID() TableOption {
	return func(t *Table) { t.WithoutRowID = true }
}

// NewTable builds and validates a Table: column names must be unique
// within the table, and at most one column may be a primary key.
func NewTable(name string, columns []Column, opts ...TableOption) (Table, error) {
	t := Table{Name: name, Columns: append([]Column(nil), columns...)}
	for _, opt := range opts {
		opt(&t)
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func (t Table) validate() error {
	if !validIdentifier(t.Name) {
		return buildErrorf(t.Name, "table name is not a valid identifier")
	}
	seen := make(map[string]bool, len(t.Columns))
	pkCount := 0
	for _, c := range t.Columns {
		if seen[c.Name] {
			return buildErrorf(t.Name, "column %q is declared more than once", c.Name)
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			pkCount++
		}
	}
	if pkCount > 1 {
		return buildErrorf(t.Name, "a table may have at most one primary key column")
	}
	return nil
}

// Render produces the CREATE TABLE fragment for this table:
//
//	CREATE TABLE "<name>" ( <col1>, <col2>, …, <constraint1>, … ) [WITHOUT ROWID]
func (t Table) Render() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(t.Name))
	b.WriteString(" (")
	parts := make([]string, 0, len(t.Columns)+len(t.Constraints))
	for _, c := range t.Columns {
		parts = append(parts, c.Render())
	}
	parts = append(parts, t.Constraints...)
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	if t.WithoutRowID {
		b.WriteString(" WITHOUT ROWID")
	}
	return b.String()
}

// ColumnNames returns the table's column names in declared order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table declares a column with the given
// name.
func (t Table) HasColumn(name string) bool {
	return t.GetColumn(name) != nil
}

// GetColumn returns the column with the given name, or nil if the table
// has no such column.
func (t Table) GetColumn(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
