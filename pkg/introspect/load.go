package introspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mizuchilabs/go-isqlite/pkg/ddl"
	"github.com/mizuchilabs/go-isqlite/pkg/migrate"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"
)

// Load reads every user table out of sqlite_master and returns the live
// schema in table-name order.
func Load(ctx context.Context, conn migrate.Conn) (*schema.Schema, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT name, sql FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("introspect: query sqlite_master: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		var sqlText sql.NullString
		if err := rows.Scan(&name, &sqlText); err != nil {
			return nil, fmt.Errorf("introspect: scan sqlite_master row: %w", err)
		}
		if !sqlText.Valid {
			// A table row with no stored SQL has nothing to parse. Internal
			// tables such as sqlite_sequence never get here: the name
			// filter above already excludes them.
			continue
		}
		tbl, err := parseTable(sqlText.String)
		if err != nil {
			return nil, errorf(name, "%s", err)
		}
		tables = append(tables, tbl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect: iterate sqlite_master: %w", err)
	}

	return schema.NewSchema(tables...)
}

// LoadAuxiliary reads the indexes, views, and triggers recorded in
// sqlite_master, bucketed by the table they're declared on. The diff
// engine never sees these — they exist only so the migration executor
// knows what to drop and recreate around a table rebuild (spec.md §4.F
// step 6, supplemented from original_source/isqlite/database.py which
// tracks these as incidental schema objects).
func LoadAuxiliary(ctx context.Context, conn migrate.Conn) (*schema.Auxiliary, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT type, name, tbl_name, sql FROM sqlite_master
		WHERE type IN ('index', 'view', 'trigger') AND sql IS NOT NULL
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("introspect: query sqlite_master auxiliary objects: %w", err)
	}
	defer rows.Close()

	aux := &schema.Auxiliary{
		IndexesOn:  make(map[string]map[string]string),
		TriggersOn: make(map[string]map[string]string),
		Views:      make(map[string]string),
	}
	for rows.Next() {
		var kind, name, tblName, sqlText string
		if err := rows.Scan(&kind, &name, &tblName, &sqlText); err != nil {
			return nil, fmt.Errorf("introspect: scan auxiliary row: %w", err)
		}
		switch kind {
		case "index":
			if aux.IndexesOn[tblName] == nil {
				aux.IndexesOn[tblName] = make(map[string]string)
			}
			aux.IndexesOn[tblName][name] = sqlText
		case "trigger":
			if aux.TriggersOn[tblName] == nil {
				aux.TriggersOn[tblName] = make(map[string]string)
			}
			aux.TriggersOn[tblName][name] = sqlText
		case "view":
			aux.Views[name] = sqlText
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect: iterate auxiliary objects: %w", err)
	}
	return aux, nil
}

func parseTable(sqlText string) (schema.Table, error) {
	stmt, err := ddl.Parse(sqlText)
	if err != nil {
		return schema.Table{}, err
	}
	def, err := ddl.Interpret(stmt)
	if err != nil {
		return schema.Table{}, err
	}
	return ddl.ToTable(def)
}
