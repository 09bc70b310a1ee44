// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite, a pure-Go translation of SQLite, so
// the binary builds without CGo. The UNIQUE constraints declared in the
// schema are the authoritative backstop for the uniqueness invariants the
// service layer checks: under truly concurrent writers the service's
// read-then-check window can race, and the constraint is what actually
// holds the line.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection pool and hands out the per-entity stores.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs the migrations. Use a file
// path even in tests: with ":memory:" every pooled connection gets its
// own empty database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default; the users.role_id ON DELETE SET NULL
	// behavior depends on them being enforced.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Users returns the user store backed by this connection.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// Roles returns the role store backed by this connection.
func (db *DB) Roles() *RoleStore {
	return &RoleStore{conn: db.conn}
}

// Ping verifies the underlying connection. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, so it is safe on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS roles (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating roles table: %w", err)
	}

	// username, email and cpf each carry a UNIQUE constraint; deleting a
	// role nullifies the references users hold to it.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			cpf           TEXT NOT NULL UNIQUE,
			birthday      DATETIME NOT NULL,
			role_id       TEXT REFERENCES roles(id) ON DELETE SET NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_role_id ON users(role_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
