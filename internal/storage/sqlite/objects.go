package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blpgate/internal/domain"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
)

// ObjectStore implements storage.ObjectStore on SQLite.
type ObjectStore struct {
	db *sql.DB
}

func (s *ObjectStore) Insert(ctx context.Context, object *domain.Object) error {
	query := `
		INSERT INTO objects (id, name, content, security_level, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		object.ID.String(),
		object.Name,
		object.Content,
		object.SecurityLevel.Int(),
		object.OwnerID.String(),
		object.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert object: %w", err)
	}
	return nil
}

func (s *ObjectStore) FindByID(ctx context.Context, objectID id.ObjectID) (*domain.Object, error) {
	query := `
		SELECT id, name, content, security_level, owner_id, created_at
		FROM objects WHERE id = ?
	`
	var (
		rawID, name, content, rawOwner, createdAt string
		level                                     int
	)
	err := s.db.QueryRowContext(ctx, query, objectID.String()).
		Scan(&rawID, &name, &content, &level, &rawOwner, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find object: %w", err)
	}
	oid, err := id.ParseObjectID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt object id %q: %w", rawID, err)
	}
	owner, err := id.ParseUserID(rawOwner)
	if err != nil {
		return nil, fmt.Errorf("corrupt owner id %q: %w", rawOwner, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt object timestamp %q: %w", createdAt, err)
	}
	return &domain.Object{
		ID:            oid,
		Name:          name,
		Content:       content,
		SecurityLevel: id.SecurityLevel(level),
		OwnerID:       owner,
		CreatedAt:     created,
	}, nil
}

func (s *ObjectStore) UpdateContent(ctx context.Context, objectID id.ObjectID, content string) error {
	return s.exec(ctx, "UPDATE objects SET content = ? WHERE id = ?", content, objectID.String())
}

func (s *ObjectStore) Delete(ctx context.Context, objectID id.ObjectID) error {
	return s.exec(ctx, "DELETE FROM objects WHERE id = ?", objectID.String())
}

func (s *ObjectStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mutate object: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mutate object: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *ObjectStore) ListByMaxLevel(ctx context.Context, maxLevel id.SecurityLevel) ([]domain.Summary, error) {
	query := `
		SELECT id, name, security_level, owner_id, created_at
		FROM objects
		WHERE security_level <= ?
		ORDER BY security_level DESC, name ASC
	`
	return s.querySummaries(ctx, query, maxLevel.Int())
}

func (s *ObjectStore) SearchByName(ctx context.Context, pattern string, maxLevel id.SecurityLevel) ([]domain.Summary, error) {
	query := `
		SELECT id, name, security_level, owner_id, created_at
		FROM objects
		WHERE name LIKE ? AND security_level <= ?
		ORDER BY security_level DESC, name ASC
	`
	return s.querySummaries(ctx, query, "%"+pattern+"%", maxLevel.Int())
}

func (s *ObjectStore) ListByLevel(ctx context.Context, level id.SecurityLevel) ([]domain.Summary, error) {
	query := `
		SELECT id, name, security_level, owner_id, created_at
		FROM objects
		WHERE security_level = ?
		ORDER BY name ASC
	`
	return s.querySummaries(ctx, query, level.Int())
}

func (s *ObjectStore) CountByLevel(ctx context.Context) (map[id.SecurityLevel]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT security_level, COUNT(*) FROM objects GROUP BY security_level")
	if err != nil {
		return nil, fmt.Errorf("count objects: %w", err)
	}
	defer rows.Close()

	counts := make(map[id.SecurityLevel]int)
	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("count objects: %w", err)
		}
		counts[id.SecurityLevel(level)] = count
	}
	return counts, rows.Err()
}

func (s *ObjectStore) querySummaries(ctx context.Context, query string, args ...any) ([]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var (
			rawID, name, rawOwner, createdAt string
			level                            int
		)
		if err := rows.Scan(&rawID, &name, &level, &rawOwner, &createdAt); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		oid, perr := id.ParseObjectID(rawID)
		if perr != nil {
			return nil, fmt.Errorf("corrupt object id %q: %w", rawID, perr)
		}
		owner, perr := id.ParseUserID(rawOwner)
		if perr != nil {
			return nil, fmt.Errorf("corrupt owner id %q: %w", rawOwner, perr)
		}
		created, perr := time.Parse(time.RFC3339Nano, createdAt)
		if perr != nil {
			return nil, fmt.Errorf("corrupt object timestamp %q: %w", createdAt, perr)
		}
		out = append(out, domain.Summary{
			ID:            oid,
			Name:          name,
			SecurityLevel: id.SecurityLevel(level),
			OwnerID:       owner,
			CreatedAt:     created,
		})
	}
	return out, rows.Err()
}
