package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mizuchilabs/go-isqlite/pkg/introspect"
	"github.com/mizuchilabs/go-isqlite/pkg/migrate"

	_ "modernc.org/sqlite"
)

// dumpSchema reads the live schema out of dbPath and writes it back out as
// one .sql file per table under outDir, plus an indexes.sql and
// triggers.sql for the incidental objects declared on those tables — the
// inverse of loadSchemaDir, grounded on the teacher's parser.ReadFiles
// round trip and original_source/isqlite/database.py's dump support.
func dumpSchema(ctx context.Context, dbPath, outDir string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	conn := migrate.NewConn(db)
	tables, err := introspect.Load(ctx, conn)
	if err != nil {
		return err
	}
	aux, err := introspect.LoadAuxiliary(ctx, conn)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	for _, table := range tables.Tables() {
		path := filepath.Join(outDir, table.Name+".sql")
		if err := os.WriteFile(path, []byte(table.Render()+";\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if indexSQL := renderAuxiliary(tables.Names(), aux.IndexesOn); indexSQL != "" {
		if err := os.WriteFile(filepath.Join(outDir, "indexes.sql"), []byte(indexSQL), 0o644); err != nil {
			return fmt.Errorf("write indexes.sql: %w", err)
		}
	}
	if triggerSQL := renderAuxiliary(tables.Names(), aux.TriggersOn); triggerSQL != "" {
		if err := os.WriteFile(filepath.Join(outDir, "triggers.sql"), []byte(triggerSQL), 0o644); err != nil {
			return fmt.Errorf("write triggers.sql: %w", err)
		}
	}
	if len(aux.Views) > 0 {
		var viewSQL string
		for _, name := range sortedKeys(aux.Views) {
			viewSQL += aux.Views[name] + ";\n"
		}
		if err := os.WriteFile(filepath.Join(outDir, "views.sql"), []byte(viewSQL), 0o644); err != nil {
			return fmt.Errorf("write views.sql: %w", err)
		}
	}

	fmt.Printf("Dumped %d table(s) to %s\n", len(tables.Names()), outDir)
	return nil
}

// renderAuxiliary concatenates the raw CREATE statement text for every
// object declared on the given tables, walked in table order so the
// output is stable across runs.
func renderAuxiliary(tableNames []string, byTable map[string]map[string]string) string {
	var out string
	for _, table := range tableNames {
		objects := byTable[table]
		for _, name := range sortedKeys(objects) {
			out += objects[name] + ";\n"
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
