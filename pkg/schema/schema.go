package schema

// Schema is an ordered collection of tables. Declaration order is
// preserved and is significant: it is the order the CLI and the diff
// engine walk tables in, and the order a dump reproduces them in.
type Schema struct {
	order  []string
	byName map[string]Table
}

// NewSchema builds a Schema from tables in the given order. It fails if
// two tables share a name.
func NewSchema(tables ...Table) (*Schema, error) {
	s := &Schema{byName: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if _, exists := s.byName[t.Name]; exists {
			return nil, buildErrorf(t.Name, "table is declared more than once in schema")
		}
		s.byName[t.Name] = t
		s.order = append(s.order, t.Name)
	}
	return s, nil
}

// Names returns the table names in declaration order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// Get returns the table with the given name and whether it was found.
func (s *Schema) Get(name string) (Table, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []Table {
	tables := make([]Table, len(s.order))
	for i, name := range s.order {
		tables[i] = s.byName[name]
	}
	return tables
}

// Len returns the number of tables in the schema.
func (s *Schema) Len() int {
	return len(s.order)
}

// Auxiliary holds the incidental schema objects SQLite tracks alongside
// tables — indexes, views, and triggers — as raw CREATE statement text.
// The diff engine never inspects these (they stay out of scope per
// spec.md's Non-goals); the migration executor uses them only to decide
// what to drop and recreate around a table rebuild (spec.md §4.F step 6).
type Auxiliary struct {
	// IndexesOn maps table name to the indexes declared on it, by index
	// name to CREATE INDEX text.
	IndexesOn map[string]map[string]string
	// TriggersOn maps table name to the triggers declared on it, by
	// trigger name to CREATE TRIGGER text.
	TriggersOn map[string]map[string]string
	Views      map[string]string
}
