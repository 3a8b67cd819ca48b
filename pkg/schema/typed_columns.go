package schema

// The functions below are typed convenience constructors over NewColumn,
// one per SQLite storage class plus the two structural shortcuts
// (ForeignKeyColumn, PrimaryKeyColumn) — grounded on
// original_source/isqlite/columns.py's Text/Integer/Real/Blob/Timestamp/
// Boolean/Decimal/ForeignKey classes. Each just fixes sqlType and, where
// the Python class does, a starting option or two; every other column
// attribute still comes from the same ColumnOption values NewColumn takes.

// Text builds a TEXT column.
func Text(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "TEXT", opts...)
}

// Integer builds an INTEGER column.
func Integer(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "INTEGER", opts...)
}

// Real builds a REAL column.
func Real(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "REAL", opts...)
}

// Blob builds a BLOB column.
func Blob(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "BLOB", opts...)
}

// Boolean builds a BOOLEAN column.
func Boolean(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "BOOLEAN", opts...)
}

// Timestamp builds a TIMESTAMP column.
func Timestamp(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "TIMESTAMP", opts...)
}

// Decimal builds a DECIMAL column.
func Decimal(name string, opts ...ColumnOption) (Column, error) {
	return NewColumn(name, "DECIMAL", opts...)
}

// ForeignKeyColumn builds the INTEGER column a foreign_key reference to
// table requires, with the WithForeignKey option already applied —
// columns.py's ForeignKey class always stores its reference as an
// INTEGER rowid regardless of the referenced table's own key type.
func ForeignKeyColumn(name, table string, onDelete ForeignKeyAction, opts ...ColumnOption) (Column, error) {
	all := append([]ColumnOption{WithForeignKey(table, onDelete)}, opts...)
	return NewColumn(name, "INTEGER", all...)
}

// PrimaryKeyColumn builds the INTEGER PRIMARY KEY column columns.py's
// Integer(primary_key=True) produces, with WithPrimaryKey already applied.
func PrimaryKeyColumn(name string, opts ...ColumnOption) (Column, error) {
	all := append([]ColumnOption{WithPrimaryKey()}, opts...)
	return NewColumn(name, "INTEGER", all...)
}
