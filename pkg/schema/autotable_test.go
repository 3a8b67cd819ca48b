package schema

import "testing"

func TestNewAutoTableISO8601(t *testing.T) {
	name, err := NewColumn("name", "TEXT", Required())
	if err != nil {
		t.Fatalf("NewColumn: %v", err)
	}
	table, err := NewAutoTable("authors", []Column{name}, ISO8601)
	if err != nil {
		t.Fatalf("NewAutoTable: %v", err)
	}

	want := []string{"id", "name", "created_at", "last_updated_at"}
	if got := table.ColumnNames(); !equalStrings(got, want) {
		t.Fatalf("ColumnNames() = %v, want %v", got, want)
	}

	created := table.GetColumn("created_at")
	if created == nil {
		t.Fatalf("GetColumn(created_at) = nil")
	}
	if created.SQLType != "TEXT" || !created.Required {
		t.Errorf("created_at = %+v, want TEXT NOT NULL", created)
	}

	id := table.GetColumn("id")
	if id == nil || !id.PrimaryKey {
		t.Errorf("id column missing or not primary key: %+v", id)
	}
}

func TestNewAutoTableEpochSeconds(t *testing.T) {
	table, err := NewAutoTable("authors", nil, EpochSeconds)
	if err != nil {
		t.Fatalf("NewAutoTable: %v", err)
	}
	lastUpdated := table.GetColumn("last_updated_at")
	if lastUpdated == nil {
		t.Fatalf("GetColumn(last_updated_at) = nil")
	}
	if lastUpdated.SQLType != "INTEGER" || !lastUpdated.Required {
		t.Errorf("last_updated_at = %+v, want INTEGER NOT NULL", lastUpdated)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
