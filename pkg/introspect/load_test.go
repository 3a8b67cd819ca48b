package introspect

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mizuchilabs/go-isqlite/pkg/migrate"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, statements ...string) migrate.Conn {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return migrate.NewConn(db)
}

func TestLoadBasicTable(t *testing.T) {
	conn := openTestDB(t, `CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		bio TEXT
	)`)

	s, err := Load(context.Background(), conn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	table, ok := s.Get("authors")
	if !ok {
		t.Fatalf("schema missing table authors")
	}
	if !table.HasColumn("id") || !table.HasColumn("name") || !table.HasColumn("bio") {
		t.Fatalf("table columns = %v, missing expected columns", table.ColumnNames())
	}
	name := table.GetColumn("name")
	if name == nil || !name.Required {
		t.Errorf("name column = %+v, want NOT NULL", name)
	}
}

func TestLoadForeignKeyAndChoices(t *testing.T) {
	conn := openTestDB(t,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE books (
			id INTEGER PRIMARY KEY,
			author_id INTEGER REFERENCES authors ON DELETE CASCADE,
			status TEXT CHECK(status IN ('draft','published'))
		)`,
	)

	s, err := Load(context.Background(), conn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	books, ok := s.Get("books")
	if !ok {
		t.Fatalf("schema missing table books")
	}

	authorID := books.GetColumn("author_id")
	if authorID == nil || authorID.ForeignKey == nil {
		t.Fatalf("author_id.ForeignKey = nil, want set")
	}
	if authorID.ForeignKey.Table != "authors" {
		t.Errorf("author_id.ForeignKey.Table = %q, want authors", authorID.ForeignKey.Table)
	}

	status := books.GetColumn("status")
	if status == nil || len(status.Choices) != 2 {
		t.Fatalf("status.Choices = %v, want [draft published]", status)
	}
}

func TestLoadSkipsInternalTables(t *testing.T) {
	conn := openTestDB(t,
		`CREATE TABLE counters (id INTEGER PRIMARY KEY AUTOINCREMENT)`,
	)
	s, err := Load(context.Background(), conn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range s.Names() {
		if name == "sqlite_sequence" {
			t.Errorf("Names() contains internal table sqlite_sequence")
		}
	}
}

func TestLoadAuxiliaryIndexesAndTriggers(t *testing.T) {
	conn := openTestDB(t,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY, email TEXT)`,
		`CREATE INDEX idx_authors_email ON authors(email)`,
		`CREATE TRIGGER trg_authors_touch AFTER UPDATE ON authors BEGIN SELECT 1; END`,
	)

	aux, err := LoadAuxiliary(context.Background(), conn)
	if err != nil {
		t.Fatalf("LoadAuxiliary: %v", err)
	}
	if _, ok := aux.IndexesOn["authors"]["idx_authors_email"]; !ok {
		t.Errorf("IndexesOn[authors] missing idx_authors_email: %v", aux.IndexesOn)
	}
	if _, ok := aux.TriggersOn["authors"]["trg_authors_touch"]; !ok {
		t.Errorf("TriggersOn[authors] missing trg_authors_touch: %v", aux.TriggersOn)
	}
}
