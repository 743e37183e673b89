package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blpgate/internal/domain"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
)

// UserStore implements storage.UserStore on PostgreSQL.
type UserStore struct {
	db *sql.DB
}

func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, security_level, is_super_admin, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Username,
		user.PasswordHash,
		user.SecurityLevel.Int(),
		user.IsSuperAdmin,
		user.IsActive,
		user.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("username already taken: %w", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, userID id.UserID) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, security_level, is_super_admin, is_active, created_at
		FROM users WHERE id = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, userID.String()))
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, security_level, is_super_admin, is_active, created_at
		FROM users WHERE username = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *UserStore) UpdateSecurityLevel(ctx context.Context, userID id.UserID, level id.SecurityLevel) error {
	return s.exec(ctx, "UPDATE users SET security_level = $1 WHERE id = $2", level.Int(), userID.String())
}

func (s *UserStore) SetActive(ctx context.Context, userID id.UserID, active bool) error {
	return s.exec(ctx, "UPDATE users SET is_active = $1 WHERE id = $2", active, userID.String())
}

func (s *UserStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, password_hash, security_level, is_super_admin, is_active, created_at
		FROM users
		ORDER BY security_level DESC, username ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, serr := scanUserRow(rows)
		if serr != nil {
			return nil, serr
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *UserStore) Counts(ctx context.Context) (storage.UserCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE is_super_admin)
		FROM users
	`
	var counts storage.UserCounts
	err := s.db.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Active, &counts.SuperAdmins)
	if err != nil {
		return storage.UserCounts{}, fmt.Errorf("count users: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var (
		rawID, username, passwordHash string
		level                         int
		superAdmin, active            bool
		created                       time.Time
	)
	if err := row.Scan(&rawID, &username, &passwordHash, &level, &superAdmin, &active, &created); err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", rawID, err)
	}
	return &domain.User{
		ID:            userID,
		Username:      username,
		PasswordHash:  passwordHash,
		SecurityLevel: id.SecurityLevel(level),
		IsSuperAdmin:  superAdmin,
		IsActive:      active,
		CreatedAt:     created,
	}, nil
}
