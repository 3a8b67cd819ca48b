package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mizuchilabs/go-isqlite/pkg/introspect"
	"github.com/mizuchilabs/go-isqlite/pkg/migrate"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"

	_ "modernc.org/sqlite"
)

// loadSchemaDir reads every .sql file under dir (sorted, so authors
// control table-creation order the way they already must for
// foreign-key ordering), executes them in order against a fresh
// in-memory database, and introspects the result — the same technique
// the teacher's pkg/parser.ReadFiles uses, and the one spec.md §6
// prescribes for a host language with no stable way to import a
// module-level symbol by path string.
func loadSchemaDir(dir string) (*schema.Schema, error) {
	files, err := sqlFilesIn(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("schema directory %q contains no .sql files", dir)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database for schema load: %w", err)
	}
	defer func() { _ = db.Close() }()

	for _, path := range files {
		content, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return nil, fmt.Errorf("execute %s: %w", filepath.Base(path), err)
		}
	}

	return introspect.Load(context.Background(), migrate.NewConn(db))
}

func sqlFilesIn(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".sql") {
			return err
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk schema directory %q: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}
