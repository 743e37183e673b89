package storage

import dErrors "blpgate/pkg/domain-errors"

var (
	// ErrNotFound keeps storage-specific lookup misses consistent across the
	// in-memory, SQLite, and PostgreSQL implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")
)
