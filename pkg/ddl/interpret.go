package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef is one column declaration pulled out of a CREATE TABLE body.
type ColumnDef struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
	Unique     bool
	// Default holds the raw text of the DEFAULT expression, literal
	// quoting included, or nil if the column has none.
	Default *string
	// References is non-nil if the column carries an inline REFERENCES
	// constraint.
	References *ForeignKeyRef
	// Check is the parenthesized CHECK expression attached directly to
	// this column, or nil. ExtractChoices interprets the common
	// CHECK(col IN (...)) shape.
	Check *Paren
}

// ForeignKeyRef is a column's inline REFERENCES constraint.
type ForeignKeyRef struct {
	Table string
	// OnDelete is the action named after ON DELETE (e.g. "CASCADE",
	// "SET NULL", "NO ACTION"), or "" if the constraint didn't specify
	// one.
	OnDelete string
}

// TableDef is the interpreted shape of a CREATE TABLE statement: its
// columns plus any table-level constraints, kept as opaque raw SQL text
// since schema.Table treats them the same way.
type TableDef struct {
	Name         string
	Columns      []*ColumnDef
	Constraints  []string
	WithoutRowID bool
}

var tableConstraintKeywords = map[string]bool{
	"PRIMARY":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"FOREIGN":    true,
	"CONSTRAINT": true,
}

var columnConstraintKeywords = map[string]bool{
	"NOT": true, "NULL": true, "PRIMARY": true, "UNIQUE": true,
	"DEFAULT": true, "REFERENCES": true, "CHECK": true,
	"COLLATE": true, "ON": true, "CONSTRAINT": true, "AUTOINCREMENT": true,
	"GENERATED": true, "AS": true,
}

// Interpret walks a parsed CreateTableStmt's body and classifies each
// comma-separated item as a column definition or a table-level
// constraint.
func Interpret(stmt *CreateTableStmt) (*TableDef, error) {
	def := &TableDef{
		Name:         UnquoteIdent(stmt.Name),
		WithoutRowID: stmt.WithoutRowID,
	}
	for _, item := range stmt.Body.Items() {
		if len(item) == 0 {
			continue
		}
		first := item[0]
		if first.Token != nil && tableConstraintKeywords[strings.ToUpper(*first.Token)] {
			def.Constraints = append(def.Constraints, joinRaw(item))
			continue
		}
		col, err := interpretColumn(item)
		if err != nil {
			return nil, err
		}
		def.Columns = append(def.Columns, col)
	}
	return def, nil
}

func interpretColumn(atoms []*Atom) (*ColumnDef, error) {
	if len(atoms) == 0 || atoms[0].Token == nil {
		return nil, fmt.Errorf("ddl: column definition must begin with a column name")
	}
	col := &ColumnDef{Name: UnquoteIdent(*atoms[0].Token)}
	idx := 1

	if idx < len(atoms) && atoms[idx].Token != nil && !columnConstraintKeywords[strings.ToUpper(*atoms[idx].Token)] {
		typeText := *atoms[idx].Token
		idx++
		if idx < len(atoms) && atoms[idx].Paren != nil {
			typeText += atoms[idx].Paren.Raw()
			idx++
		}
		col.Type = typeText
	}

	for idx < len(atoms) {
		tok := atoms[idx]
		if tok.Token == nil {
			return nil, fmt.Errorf("ddl: column %q: unexpected token %q", col.Name, tok.Text())
		}
		kw := strings.ToUpper(*tok.Token)
		switch kw {
		case "NOT":
			if idx+1 >= len(atoms) || atoms[idx+1].Token == nil || strings.ToUpper(*atoms[idx+1].Token) != "NULL" {
				return nil, fmt.Errorf("ddl: column %q: expected NULL after NOT", col.Name)
			}
			col.NotNull = true
			idx += 2
		case "NULL":
			idx++
		case "PRIMARY":
			if idx+1 >= len(atoms) || atoms[idx+1].Token == nil || strings.ToUpper(*atoms[idx+1].Token) != "KEY" {
				return nil, fmt.Errorf("ddl: column %q: expected KEY after PRIMARY", col.Name)
			}
			col.PrimaryKey = true
			idx += 2
			if idx < len(atoms) && atoms[idx].Token != nil && strings.ToUpper(*atoms[idx].Token) == "AUTOINCREMENT" {
				idx++
			}
		case "UNIQUE":
			col.Unique = true
			idx++
		case "DEFAULT":
			idx++
			if idx >= len(atoms) {
				return nil, fmt.Errorf("ddl: column %q: DEFAULT with no value", col.Name)
			}
			value := atoms[idx].Text()
			col.Default = &value
			idx++
		case "REFERENCES":
			idx++
			if idx >= len(atoms) || atoms[idx].Token == nil {
				return nil, fmt.Errorf("ddl: column %q: REFERENCES with no table", col.Name)
			}
			ref := &ForeignKeyRef{Table: UnquoteIdent(*atoms[idx].Token)}
			idx++
			if idx < len(atoms) && atoms[idx].Paren != nil {
				idx++
			}
			for idx+1 < len(atoms) &&
				atoms[idx].Token != nil && strings.ToUpper(*atoms[idx].Token) == "ON" &&
				atoms[idx+1].Token != nil {
				event := strings.ToUpper(*atoms[idx+1].Token)
				if event != "DELETE" && event != "UPDATE" {
					break
				}
				idx += 2
				var parts []string
				for idx < len(atoms) && atoms[idx].Token != nil {
					word := strings.ToUpper(*atoms[idx].Token)
					// NULL and DEFAULT right after SET complete the action
					// (SET NULL, SET DEFAULT) rather than start a new constraint.
					afterSet := len(parts) == 1 && parts[0] == "SET"
					if word == "ON" || (columnConstraintKeywords[word] && !afterSet) {
						break
					}
					parts = append(parts, word)
					idx++
				}
				if event == "DELETE" {
					ref.OnDelete = strings.Join(parts, " ")
				}
			}
			col.References = ref
		case "CHECK":
			idx++
			if idx >= len(atoms) || atoms[idx].Paren == nil {
				return nil, fmt.Errorf("ddl: column %q: CHECK with no expression", col.Name)
			}
			col.Check = atoms[idx].Paren
			idx++
		case "COLLATE":
			idx++
			if idx < len(atoms) {
				idx++
			}
		case "ON":
			// Stray ON CONFLICT clause following UNIQUE/PRIMARY KEY; not
			// modeled, skip it and its resolution keyword.
			idx++
			if idx < len(atoms) {
				idx++
			}
			if idx < len(atoms) {
				idx++
			}
		default:
			return nil, fmt.Errorf("ddl: column %q: unrecognized constraint keyword %q", col.Name, *tok.Token)
		}
	}
	return col, nil
}

func joinRaw(atoms []*Atom) string {
	var b strings.Builder
	for i, a := range atoms {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Text())
	}
	return b.String()
}
