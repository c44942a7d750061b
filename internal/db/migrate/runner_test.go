package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"employee-auth/internal/db"
)

func TestRunRequiresDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := Run(dsn, Up)
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("Run(%q): expected a DATABASE_URL error, got %v", dsn, err)
		}
	}
}

func TestRunRejectsUnknownDirection(t *testing.T) {
	for _, dir := range []string{"", "sideways", "UP", "Down"} {
		err := Run("postgres://localhost/employees", dir)
		if err == nil || !strings.Contains(err.Error(), "direction") {
			t.Fatalf("Run(%q): expected a direction error, got %v", dir, err)
		}
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(db.MigrationFS, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %q", name)
		}
	}
	if len(ups) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
	for v := range downs {
		if !ups[v] {
			t.Fatalf("migration %s has no up file", v)
		}
	}
}
