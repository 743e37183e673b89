// Package postgres implements the storage contracts on PostgreSQL for
// multi-node deployments. Layout mirrors the sqlite engine: one handle,
// separate store values per concern.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	security_level INTEGER NOT NULL DEFAULT 0,
	is_super_admin BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS objects (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	content TEXT,
	security_level INTEGER NOT NULL,
	owner_id UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	event_type TEXT NOT NULL,
	subject_id UUID,
	object_id UUID,
	timestamp TIMESTAMPTZ NOT NULL,
	details TEXT,
	success BOOLEAN NOT NULL,
	request_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_objects_level ON objects(security_level);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
`

// DB owns the PostgreSQL handle.
type DB struct {
	db *sql.DB
}

// Open connects to the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
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
