package migration

import (
	"strings"
	"testing"

	"cth/internal/config"
	"cth/internal/storage"
)

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"cth", true},
		{"cth_results_2", true},
		{"", false},
		{"cth;DROP", false},
		{"cth`", false},
		{"a-b", false},
		{strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		if got := isValidDatabaseName(tt.name); got != tt.valid {
			t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestNewDatabaseManager(t *testing.T) {
	t.Run("from host settings", func(t *testing.T) {
		dm, err := NewDatabaseManager(config.New())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dm.Name() != config.DefaultDBName {
			t.Errorf("expected %s, got %s", config.DefaultDBName, dm.Name())
		}
		if strings.Contains(dm.serverDSN, "/"+config.DefaultDBName) {
			t.Errorf("server DSN should not select a database: %s", dm.serverDSN)
		}
	})

	t.Run("from explicit DSN", func(t *testing.T) {
		cfg := config.New()
		cfg.Database.DSN = "u:p@tcp(db:3306)/results_db"
		dm, err := NewDatabaseManager(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dm.Name() != "results_db" {
			t.Errorf("expected results_db, got %s", dm.Name())
		}
	})

	t.Run("rejects unsafe names", func(t *testing.T) {
		cfg := config.New()
		cfg.Database.Name = "x; DROP TABLE"
		if _, err := NewDatabaseManager(cfg); err == nil {
			t.Error("expected error for unsafe database name")
		}
	})
}

func TestMigrations(t *testing.T) {
	migrations := Migrations()
	seen := make(map[string]bool)
	for i, m := range migrations {
		if seen[m.Name] {
			t.Errorf("duplicate migration %s", m.Name)
		}
		seen[m.Name] = true
		if i > 0 && migrations[i-1].Name >= m.Name {
			t.Errorf("migrations out of order: %s before %s", migrations[i-1].Name, m.Name)
		}
	}
	if !strings.Contains(migrations[0].Statement, storage.RunsTable) {
		t.Error("first migration should create the runs table")
	}
	if !strings.Contains(migrations[1].Statement, storage.FailuresTable) {
		t.Error("second migration should create the failures table")
	}
}

func TestPending(t *testing.T) {
	migrations := Migrations()
	pending := Pending(migrations, map[string]bool{migrations[0].Name: true})
	if len(pending) != len(migrations)-1 {
		t.Fatalf("expected %d pending, got %d", len(migrations)-1, len(pending))
	}
	if pending[0].Name != migrations[1].Name {
		t.Errorf("expected %s first, got %s", migrations[1].Name, pending[0].Name)
	}
	if len(Pending(migrations, nil)) != len(migrations) {
		t.Error("nothing applied should leave every migration pending")
	}
}
