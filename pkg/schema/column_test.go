package schema

import (
	"errors"
	"testing"
)

func TestNewColumnRender(t *testing.T) {
	tests := []struct {
		name string
		col  func() (Column, error)
		want string
	}{
		{
			name: "bare",
			col:  func() (Column, error) { return NewColumn("age", "INTEGER") },
			want: `"age" INTEGER`,
		},
		{
			name: "required with default",
			col: func() (Column, error) {
				return NewColumn("status", "TEXT", Required(), WithDefault("'active'"))
			},
			want: `"status" TEXT NOT NULL DEFAULT 'active'`,
		},
		{
			name: "unique primary key",
			col: func() (Column, error) {
				return NewColumn("id", "INTEGER", WithUnique(), WithPrimaryKey())
			},
			want: `"id" INTEGER UNIQUE PRIMARY KEY`,
		},
		{
			name: "foreign key",
			col: func() (Column, error) {
				return NewColumn("author_id", "INTEGER", WithForeignKey("authors", Cascade))
			},
			want: `"author_id" INTEGER REFERENCES "authors" ON DELETE CASCADE`,
		},
		{
			name: "choices",
			col: func() (Column, error) {
				return NewColumn("color", "TEXT", WithChoices("red", "green", "blue"))
			},
			want: `"color" TEXT CHECK("color" IN ('red','green','blue'))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.col()
			if err != nil {
				t.Fatalf("NewColumn: unexpected error: %v", err)
			}
			if got := c.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewColumnValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		col  func() (Column, error)
	}{
		{
			name: "invalid identifier",
			col:  func() (Column, error) { return NewColumn("1bad", "TEXT") },
		},
		{
			name: "primary key and foreign key",
			col: func() (Column, error) {
				return NewColumn("id", "INTEGER", WithPrimaryKey(), WithForeignKey("authors", NoAction))
			},
		},
		{
			name: "foreign key references invalid identifier",
			col: func() (Column, error) {
				return NewColumn("author_id", "INTEGER", WithForeignKey("1bad", NoAction))
			},
		},
		{
			name: "choice incompatible with integer type",
			col: func() (Column, error) {
				return NewColumn("age", "INTEGER", WithChoices("young", "old"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.col()
			if err == nil {
				t.Fatalf("NewColumn: expected error, got nil")
			}
			var buildErr *BuildError
			if !errors.As(err, &buildErr) {
				t.Errorf("NewColumn: error %v is not a *BuildError", err)
			}
		})
	}
}

func TestColumnEqual(t *testing.T) {
	a, err := NewColumn("age", "INTEGER", Required(), WithDefault("0"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	b, err := NewColumn("age", "INTEGER", Required(), WithDefault("0"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Equal() = false, want true for identical columns")
	}

	renamed, err := NewColumn("years", "INTEGER", Required(), WithDefault("0"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	if a.Equal(renamed) {
		t.Errorf("Equal() = true, want false across differing names")
	}
	if !a.EqualModuloName(renamed) {
		t.Errorf("EqualModuloName() = false, want true for otherwise-identical columns")
	}

	retyped, err := NewColumn("age", "TEXT", Required(), WithDefault("0"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	if a.EqualModuloName(retyped) {
		t.Errorf("EqualModuloName() = true, want false across differing sql_type")
	}
}

func TestColumnEqualChoicesOrderIndependent(t *testing.T) {
	a, err := NewColumn("color", "TEXT", WithChoices("red", "green", "blue"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	b, err := NewColumn("color", "TEXT", WithChoices("blue", "red", "green"))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Equal() = false, want true for same choices in different order")
	}
}

func TestNewColumnForeignKeyNonIntegerAllowed(t *testing.T) {
	// A foreign key column referencing a table keyed on a non-auto-integer
	// column (e.g. parent(code) TEXT PRIMARY KEY) is valid SQLite; Column
	// has no visibility into the referenced table's key type to reject it
	// selectively, so it must not reject it at all (spec.md §4.D).
	c, err := NewColumn("parent_code", "TEXT", WithForeignKey("parent", NoAction))
	if err != nil {
		t.Fatalf("NewColumn: unexpected error: %v", err)
	}
	want := `"parent_code" TEXT REFERENCES "parent" ON DELETE NO ACTION`
	if got := c.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestColumnEqualForeignKey(t *testing.T) {
	a, err := NewColumn("author_id", "INTEGER", WithForeignKey("authors", Cascade))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	b, err := NewColumn("author_id", "INTEGER", WithForeignKey("authors", SetNull))
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	if a.Equal(b) {
		t.Errorf("Equal() = true, want false across differing ON DELETE action")
	}
}
