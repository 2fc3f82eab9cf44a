package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	open := func() *sql.DB {
		t.Helper()
		conn, err := NewSQLiteConnection(DefaultConnectionConfig(dbPath))
		if err != nil {
			t.Fatal(err)
		}
		return conn
	}

	if v, _, err := MigrationVersion(open()); err != nil || v != 0 {
		t.Fatalf("fresh version = %d, %v; want 0", v, err)
	}

	if err := MigrateUp(open()); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := MigrateUp(open()); err != nil {
		t.Errorf("second MigrateUp() error = %v; no change is not an error", err)
	}

	v, dirty, err := MigrationVersion(open())
	if err != nil || v != 1 || dirty {
		t.Errorf("version = %d dirty=%v err=%v; want 1 clean", v, dirty, err)
	}

	if err := MigrateDown(open()); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	conn := open()
	defer conn.Close()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'builds'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("builds table still exists after MigrateDown")
	}
}
