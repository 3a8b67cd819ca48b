package migrate

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mizuchilabs/go-isqlite/pkg/diff"
	"github.com/mizuchilabs/go-isqlite/pkg/schema"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, statements ...string) (*sql.DB, Conn) {
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
	return db, NewConn(db)
}

func columnNamesOf(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("table_info(%s): %v", table, err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dflt       sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			t.Fatalf("scan table_info row: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func TestExecutorCreateAndDropTable(t *testing.T) {
	_, conn := openTestDB(t)
	ex := NewExecutor(conn, nil)

	authors, err := schema.NewTable("authors", []schema.Column{
		mustColumnE(t, "id", "INTEGER", schema.WithPrimaryKey()),
		mustColumnE(t, "name", "TEXT", schema.Required()),
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if err := ex.Apply(context.Background(), []diff.Operation{diff.CreateTableOp{NewTable: authors}}); err != nil {
		t.Fatalf("Apply create: %v", err)
	}
	if err := ex.Apply(context.Background(), []diff.Operation{diff.DropTableOp{Name: "authors"}}); err != nil {
		t.Fatalf("Apply drop: %v", err)
	}
}

func TestExecutorAddColumn(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (id INTEGER PRIMARY KEY)`)
	ex := NewExecutor(conn, nil)

	col := mustColumnE(t, "bio", "TEXT")
	err := ex.Apply(context.Background(), []diff.Operation{
		diff.AddColumnOp{TableName: "authors", Column: col},
	})
	if err != nil {
		t.Fatalf("Apply add column: %v", err)
	}

	names := columnNamesOf(t, db, "authors")
	if len(names) != 2 || names[1] != "bio" {
		t.Errorf("columns = %v, want [id bio]", names)
	}
}

func TestExecutorDropColumnRebuildsTable(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		bio TEXT
	)`)
	if _, err := db.Exec(`INSERT INTO authors (id, name, bio) VALUES (1, 'Ada', 'mathematician')`); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	ex := NewExecutor(conn, nil)
	err := ex.Apply(context.Background(), []diff.Operation{
		diff.DropColumnOp{TableName: "authors", ColumnName: "bio"},
	})
	if err != nil {
		t.Fatalf("Apply drop column: %v", err)
	}

	names := columnNamesOf(t, db, "authors")
	if len(names) != 2 {
		t.Fatalf("columns = %v, want 2 columns", names)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM authors WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("select after rebuild: %v", err)
	}
	if name != "Ada" {
		t.Errorf("name = %q, want Ada", name)
	}
}

func TestExecutorAlterColumnRebuildsTable(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		age TEXT
	)`)
	if _, err := db.Exec(`INSERT INTO authors (id, age) VALUES (1, '42')`); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	ex := NewExecutor(conn, nil)
	newCol := mustColumnE(t, "age", "INTEGER")
	err := ex.Apply(context.Background(), []diff.Operation{
		diff.AlterColumnOp{TableName: "authors", ColumnName: "age", NewColumn: newCol},
	})
	if err != nil {
		t.Fatalf("Apply alter column: %v", err)
	}

	var age int
	if err := db.QueryRow(`SELECT age FROM authors WHERE id = 1`).Scan(&age); err != nil {
		t.Fatalf("select after rebuild: %v", err)
	}
	if age != 42 {
		t.Errorf("age = %d, want 42", age)
	}
}

func TestExecutorReorderColumns(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		name TEXT,
		bio TEXT
	)`)
	if _, err := db.Exec(`INSERT INTO authors (id, name, bio) VALUES (1, 'Ada', 'mathematician')`); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	ex := NewExecutor(conn, nil)
	err := ex.Apply(context.Background(), []diff.Operation{
		diff.ReorderColumnsOp{TableName: "authors", NewOrder: []string{"id", "bio", "name"}},
	})
	if err != nil {
		t.Fatalf("Apply reorder: %v", err)
	}

	names := columnNamesOf(t, db, "authors")
	want := []string{"id", "bio", "name"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("columns = %v, want %v", names, want)
			break
		}
	}
}

func TestExecutorRenameColumnAndTable(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT)`)
	ex := NewExecutor(conn, nil)

	err := ex.Apply(context.Background(), []diff.Operation{
		diff.RenameColumnOp{TableName: "authors", OldName: "name", NewName: "full_name"},
	})
	if err != nil {
		t.Fatalf("Apply rename column: %v", err)
	}
	names := columnNamesOf(t, db, "authors")
	if len(names) != 2 || names[1] != "full_name" {
		t.Errorf("columns = %v, want [id full_name]", names)
	}

	err = ex.Apply(context.Background(), []diff.Operation{
		diff.RenameTableOp{OldName: "authors", NewName: "writers"},
	})
	if err != nil {
		t.Fatalf("Apply rename table: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'writers'`).Scan(&n); err != nil {
		t.Fatalf("check renamed table: %v", err)
	}
	if n != 1 {
		t.Errorf("table writers not found after rename")
	}
}

func TestExecutorReattachesIndexAfterRebuild(t *testing.T) {
	db, conn := openTestDB(t, `CREATE TABLE authors (
		id INTEGER PRIMARY KEY,
		name TEXT,
		bio TEXT
	)`, `CREATE INDEX idx_authors_name ON authors(name)`)

	aux := &schema.Auxiliary{
		IndexesOn: map[string]map[string]string{
			"authors": {"idx_authors_name": "CREATE INDEX idx_authors_name ON authors(name)"},
		},
		TriggersOn: map[string]map[string]string{},
		Views:      map[string]string{},
	}
	ex := NewExecutor(conn, aux)

	err := ex.Apply(context.Background(), []diff.Operation{
		diff.DropColumnOp{TableName: "authors", ColumnName: "bio"},
	})
	if err != nil {
		t.Fatalf("Apply drop column: %v", err)
	}

	var n int
	if err := db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_authors_name'`,
	).Scan(&n); err != nil {
		t.Fatalf("check reattached index: %v", err)
	}
	if n != 1 {
		t.Errorf("index idx_authors_name not reattached after rebuild")
	}
}

func TestExecutorIntegrityViolationAfterCommit(t *testing.T) {
	_, conn := openTestDB(t,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE books (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES authors)`,
		`INSERT INTO authors (id) VALUES (1)`,
		`INSERT INTO books (id, author_id) VALUES (1, 1)`,
	)
	ex := NewExecutor(conn, nil)

	err := ex.Apply(context.Background(), []diff.Operation{
		diff.DropTableOp{Name: "authors"},
	})
	if err == nil {
		t.Fatalf("Apply: want *IntegrityViolation, got nil")
	}
	var iv *IntegrityViolation
	if !asIntegrityViolation(err, &iv) {
		t.Fatalf("Apply err = %v (%T), want *IntegrityViolation", err, err)
	}
	if len(iv.Violations) == 0 {
		t.Errorf("IntegrityViolation.Violations is empty, want at least one dangling reference")
	}
}

func asIntegrityViolation(err error, target **IntegrityViolation) bool {
	iv, ok := err.(*IntegrityViolation)
	if !ok {
		return false
	}
	*target = iv
	return true
}

func mustColumnE(t *testing.T, name, sqlType string, opts ...schema.ColumnOption) schema.Column {
	t.Helper()
	c, err := schema.NewColumn(name, sqlType, opts...)
	if err != nil {
		t.Fatalf("NewColumn(%s): %v", name, err)
	}
	return c
}
