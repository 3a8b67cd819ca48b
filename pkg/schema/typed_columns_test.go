package schema

import "testing"

func TestTypedColumnConstructors(t *testing.T) {
	tests := []struct {
		name string
		col  func() (Column, error)
		want string
	}{
		{"Text", func() (Column, error) { return Text("title", Required()) }, `"title" TEXT NOT NULL`},
		{"Integer", func() (Column, error) { return Integer("age") }, `"age" INTEGER`},
		{"Real", func() (Column, error) { return Real("weight") }, `"weight" REAL`},
		{"Blob", func() (Column, error) { return Blob("payload") }, `"payload" BLOB`},
		{"Boolean", func() (Column, error) { return Boolean("active") }, `"active" BOOLEAN`},
		{"Timestamp", func() (Column, error) { return Timestamp("created_at") }, `"created_at" TIMESTAMP`},
		{"Decimal", func() (Column, error) { return Decimal("price") }, `"price" DECIMAL`},
		{
			"ForeignKeyColumn",
			func() (Column, error) { return ForeignKeyColumn("author_id", "authors", Cascade) },
			`"author_id" INTEGER REFERENCES "authors" ON DELETE CASCADE`,
		},
		{
			"PrimaryKeyColumn",
			func() (Column, error) { return PrimaryKeyColumn("id") },
			`"id" INTEGER PRIMARY KEY`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.col()
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			if got := c.Render(); got != tt.want {
				t.Errorf("%s.Render() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestForeignKeyColumnRejectsInvalidTable(t *testing.T) {
	_, err := ForeignKeyColumn("author_id", "1bad", NoAction)
	if err == nil {
		t.Fatal("ForeignKeyColumn: expected error for invalid referenced table name, got nil")
	}
}
