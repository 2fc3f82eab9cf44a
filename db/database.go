package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Database owns the history connection.
//
//	database, err := db.NewDatabase(".fsr2/history.db")
//	if err != nil {
//	    return err
//	}
//	defer database.Close()
//
//	repo := db.NewRepository(database)
type Database struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// NewDatabase creates the file and its parent directories if needed,
// applies pending migrations and opens the connection.
func NewDatabase(path string) (*Database, error) {
	return NewDatabaseWithConfig(DefaultConnectionConfig(path))
}

// NewDatabaseWithConfig is NewDatabase with a custom connection
// configuration.
func NewDatabaseWithConfig(config ConnectionConfig) (*Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// golang-migrate closes its connection, so it gets its own.
	if err := migrateFromPath(config.Path); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	conn, err := NewSQLiteConnection(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	return &Database{db: conn, path: config.Path}, nil
}

// DB returns the underlying connection. Close the Database, not the
// returned value.
func (d *Database) DB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Ping verifies the connection is alive.
func (d *Database) Ping() error {
	conn := d.DB()
	if conn == nil {
		return fmt.Errorf("database is closed")
	}
	return conn.Ping()
}

// SchemaVersion reports the applied migration version.
func (d *Database) SchemaVersion() (version uint, dirty bool, err error) {
	conn, err := NewSQLiteConnection(DefaultConnectionConfig(d.path))
	if err != nil {
		return 0, false, err
	}
	return MigrationVersion(conn)
}

// Reset rolls every migration back and applies them again, deleting all
// recorded builds. The open connection stays usable.
func (d *Database) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return fmt.Errorf("database is closed")
	}
	conn, err := NewSQLiteConnection(DefaultConnectionConfig(d.path))
	if err != nil {
		return err
	}
	if err := MigrateDown(conn); err != nil {
		return err
	}
	if err := migrateFromPath(d.path); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close closes the connection. It is safe to call more than once.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
