package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE habits (id TEXT);")},
		"002_logs.sql": {Data: []byte("CREATE TABLE logs (habit_id TEXT);")},
		"README.md":    {Data: []byte("ignored")},
	}

	runner := NewRunner(db, fsys)
	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("second Apply() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply() applied %d, want 0", applied)
	}
}

func TestMigrationsSortedAndParsed(t *testing.T) {
	fsys := fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 1;")},
		"002_early.sql": {Data: []byte("SELECT 1;")},
	}
	migrations, err := NewRunner(nil, fsys).Migrations()
	if err != nil {
		t.Fatalf("Migrations() failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 2 || migrations[0].Name != "early" {
		t.Errorf("first migration = %+v", migrations[0])
	}
	if migrations[1].Version != 10 || migrations[1].Name != "late" {
		t.Errorf("second migration = %+v", migrations[1])
	}
}

func TestMigrationsInvalidNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing underscore", fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{"non-numeric version", fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"001_b.sql": {Data: []byte("")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(nil, tt.fsys).Migrations(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE habits (id TEXT);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE nonsense (;")},
	}

	runner := NewRunner(db, fsys)
	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if version, _ := runner.CurrentVersion(); version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestValidateNewerSchema(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{"001_init.sql": {Data: []byte("CREATE TABLE habits (id TEXT);")}}
	runner := NewRunner(db, fsys)
	if _, err := runner.Apply(); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if err := runner.Validate(); err != nil {
		t.Errorf("Validate() on current schema failed: %v", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("bumping version: %v", err)
	}
	err := runner.Validate()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Validate() error = %v, want newer-schema error", err)
	}
}
