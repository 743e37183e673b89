// Package sqlite implements the storage contracts on a local SQLite file,
// the default engine for single-node deployments. One database handle backs
// separate store values per concern, so services depend only on the
// interface they consume.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	security_level INTEGER NOT NULL DEFAULT 0,
	is_super_admin INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS objects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	content TEXT,
	security_level INTEGER NOT NULL,
	owner_id TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id TEXT PRIMARY KEY,
	event_type TEXT NOT NULL,
	subject_id TEXT,
	object_id TEXT,
	timestamp TEXT NOT NULL,
	details TEXT,
	success INTEGER NOT NULL,
	request_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_objects_level ON objects(security_level);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
`

// DB owns the SQLite handle. database/sql serializes access; the engine's
// native consistency is the only cross-writer guarantee, matching the core
// contract.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Users returns the user store view over this handle.
func (d *DB) Users() *UserStore { return &UserStore{db: d.db} }

// Objects returns the object store view over this handle.
func (d *DB) Objects() *ObjectStore { return &ObjectStore{db: d.db} }

// Audit returns the audit store view over this handle.
func (d *DB) Audit() *AuditStore { return &AuditStore{db: d.db} }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
