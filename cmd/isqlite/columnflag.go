package main

import (
	"fmt"

	"github.com/mizuchilabs/go-isqlite/pkg/ddl"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"
)

// parseColumnFragment interprets fragment (e.g. `bio TEXT`, `age INTEGER
// NOT NULL DEFAULT 0`) as a single column declaration, by wrapping it in
// a one-column CREATE TABLE and running it through the same pkg/ddl
// grammar the introspector uses — so add-column/alter-column never need
// a second, CLI-specific column grammar.
func parseColumnFragment(fragment string) (schema.Column, error) {
	wrapped := fmt.Sprintf("CREATE TABLE _isqlite_cli_column (%s)", fragment)
	stmt, err := ddl.Parse(wrapped)
	if err != nil {
		return schema.Column{}, fmt.Errorf("parse column %q: %w", fragment, err)
	}
	def, err := ddl.Interpret(stmt)
	if err != nil {
		return schema.Column{}, fmt.Errorf("interpret column %q: %w", fragment, err)
	}
	if len(def.Columns) != 1 {
		return schema.Column{}, fmt.Errorf("expected exactly one column in %q, got %d", fragment, len(def.Columns))
	}
	col, _, err := ddl.ToColumn(def.Columns[0])
	return col, err
}

// parseCreateTableSQL interprets a full CREATE TABLE statement as a
// schema.Table, for the create-table command's --sql flag.
func parseCreateTableSQL(sqlText string) (schema.Table, error) {
	stmt, err := ddl.Parse(sqlText)
	if err != nil {
		return schema.Table{}, fmt.Errorf("parse table: %w", err)
	}
	def, err := ddl.Interpret(stmt)
	if err != nil {
		return schema.Table{}, fmt.Errorf("interpret table: %w", err)
	}
	return ddl.ToTable(def)
}
