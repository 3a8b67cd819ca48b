package schema

import (
	"sort"
	"strings"
)

// ForeignKeyAction is the ON DELETE behavior of a foreign key reference.
type ForeignKeyAction string

const (
	NoAction   ForeignKeyAction = "NO ACTION"
	Restrict   ForeignKeyAction = "RESTRICT"
	SetNull    ForeignKeyAction = "SET NULL"
	SetDefault ForeignKeyAction = "SET DEFAULT"
	Cascade    ForeignKeyAction = "CASCADE"
)

// ForeignKey describes the table a column references and what happens to
// the referencing row when the referenced row is deleted. It stores the
// referenced table's name, not a pointer to it — the graph of cross-table
// relationships is resolved by SQLite at execution time, not in this model
// (spec.md §9, "Foreign-key references").
type ForeignKey struct {
	Table    string
	OnDelete ForeignKeyAction
}

// Column is the typed, immutable representation of a single column
// declaration and its constraints.
type Column struct {
	Name       string
	SQLType    string
	Required   bool
	Choices    []string
	Default    *string
	Unique     bool
	PrimaryKey bool
	ForeignKey *ForeignKey
}

// NewColumn builds and validates a Column. It fails fast, before any I/O,
// on an invalid identifier, a column that is both a primary key and a
// foreign key, or choices incompatible with sqlType.
func NewColumn(name, sqlType string, opts ...ColumnOption) (Column, error) {
	c := Column{Name: name, SQLType: sqlType}
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.validate(); err != nil {
		return Column{}, err
	}
	return c, nil
}

// ColumnOption configures a Column built with NewColumn.
type ColumnOption func(*Column)

func Required() ColumnOption {
	return func(c *Column) { c.Required = true }
}

func WithChoices(choices ...string) ColumnOption {
	return func(c *Column) { c.Choices = append([]string(nil), choices...) }
}

func WithDefault(expr string) ColumnOption {
	return func(c *Column) { c.Default = &expr }
}

func WithUnique() ColumnOption {
	return func(c *Column) { c.Unique = true }
}

func WithPrimaryKey() ColumnOption {
	return func(c *Column) { c.PrimaryKey = true }
}

func WithForeignKey(table string, onDelete ForeignKeyAction) ColumnOption {
	return func(c *Column) { c.ForeignKey = &ForeignKey{Table: table, OnDelete: onDelete} }
}

func (c Column) validate() error {
	if !validIdentifier(c.Name) {
		return buildErrorf(c.Name, "column name is not a valid identifier")
	}
	if c.PrimaryKey && c.ForeignKey != nil {
		return buildErrorf(c.Name, "a column cannot be both a primary key and a foreign key")
	}
	if c.ForeignKey != nil {
		if !validIdentifier(c.ForeignKey.Table) {
			return buildErrorf(c.Name, "foreign key table name %q is not a valid identifier", c.ForeignKey.Table)
		}
		// spec.md §3's INTEGER requirement on a foreign_key column only
		// applies when the referenced table's primary key is an
		// auto-integer one; Column has no visibility into the referenced
		// table here, so that half of the invariant can't be checked at
		// this layer (DESIGN.md, pkg/schema). Enforcing sql_type == INTEGER
		// unconditionally would reject live tables like
		// child(parent_code TEXT REFERENCES parent(code)), breaking
		// introspection's "never reject valid SQL" rule (spec.md §4.D).
	}
	for _, choice := range c.Choices {
		if !typeAcceptsLiteral(c.SQLType, choice) {
			return buildErrorf(c.Name, "choice %q is incompatible with sql_type %q", choice, c.SQLType)
		}
	}
	return nil
}

// Render produces the canonical SQL fragment for this column, in the
// deterministic clause order fixed by spec.md §4.A:
//
//	"<name>" <type> [NOT NULL] [DEFAULT <expr>] [UNIQUE] [PRIMARY KEY]
//	  [REFERENCES "<ft>" ON DELETE <action>] [CHECK("<name>" IN (<v1>,<v2>,…))]
func (c Column) Render() string {
	var b strings.Builder
	b.WriteString(quoteIdent(c.Name))
	b.WriteByte(' ')
	b.WriteString(c.SQLType)
	if c.Required {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(*c.Default)
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.ForeignKey != nil {
		b.WriteString(" REFERENCES ")
		b.WriteString(quoteIdent(c.ForeignKey.Table))
		b.WriteString(" ON DELETE ")
		b.WriteString(string(c.ForeignKey.OnDelete))
	}
	if len(c.Choices) > 0 {
		b.WriteString(" CHECK(")
		b.WriteString(quoteIdent(c.Name))
		b.WriteString(" IN (")
		for i, v := range c.Choices {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(quoteLiteral(v))
		}
		b.WriteString("))")
	}
	return b.String()
}

// Equal reports whether c and other have identical attributes, including
// name.
func (c Column) Equal(other Column) bool {
	return c.Name == other.Name && c.equalIgnoringName(other)
}

// EqualModuloName reports whether c and other are identical in every
// attribute except Name. It is the comparison used by rename detection
// (spec.md §4.E.d).
func (c Column) EqualModuloName(other Column) bool {
	return c.equalIgnoringName(other)
}

func (c Column) equalIgnoringName(other Column) bool {
	if !strings.EqualFold(c.SQLType, other.SQLType) {
		return false
	}
	if c.Required != other.Required || c.Unique != other.Unique || c.PrimaryKey != other.PrimaryKey {
		return false
	}
	if !sameDefault(c.Default, other.Default) {
		return false
	}
	if !sameChoices(c.Choices, other.Choices) {
		return false
	}
	return sameForeignKey(c.ForeignKey, other.ForeignKey)
}

func sameDefault(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

func sameChoices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := append([]string(nil), a...), append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func sameForeignKey(a, b *ForeignKey) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Table == b.Table && a.OnDelete == b.OnDelete
}
