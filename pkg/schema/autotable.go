package schema

// TimestampMode selects the SQL type used for the created_at/last_updated_at
// columns an AutoTable adds automatically. It is passed explicitly to
// NewAutoTable rather than read from global state (see SPEC_FULL.md §4.C).
type TimestampMode int

const (
	// ISO8601 stores timestamps as TEXT in ISO 8601 form.
	ISO8601 TimestampMode = iota
	// EpochSeconds stores timestamps as INTEGER seconds since the Unix epoch.
	EpochSeconds
)

// NewAutoTable builds a Table that prepends an auto-incrementing "id"
// primary key column and appends required "created_at"/"last_updated_at"
// columns, in the type selected by mode. The result is a plain Table: an
// AutoTable has no runtime identity distinct from the Table it expands
// into once built (spec.md §4.C).
func NewAutoTable(name string, columns []Column, mode TimestampMode) (Table, error) {
	id, err := NewColumn("id", "INTEGER", WithPrimaryKey())
	if err != nil {
		return Table{}, err
	}

	timestampType := "TEXT"
	if mode == EpochSeconds {
		timestampType = "INTEGER"
	}
	createdAt, err := NewColumn("created_at", timestampType, Required())
	if err != nil {
		return Table{}, err
	}
	lastUpdatedAt, err := NewColumn("last_updated_at", timestampType, Required())
	if err != nil {
		return Table{}, err
	}

	full := make([]Column, 0, len(columns)+3)
	full = append(full, id)
	full = append(full, columns...)
	full = append(full, createdAt, lastUpdatedAt)

	return NewTable(name, full)
}
