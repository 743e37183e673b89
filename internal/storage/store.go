// Package storage declares the persistence contracts and the in-memory
// implementations used by tests and ephemeral runs. Stores are
// interface-driven to keep the domain logic testable and to allow swapping
// in-memory, SQLite, or PostgreSQL persistence without rewiring business
// code.
package storage

import (
	"context"

	"blpgate/internal/domain"
	id "blpgate/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

// UserCounts aggregates the principal population for system statistics.
type UserCounts struct {
	Total       int
	Active      int
	SuperAdmins int
}

type UserStore interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, userID id.UserID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateSecurityLevel(ctx context.Context, userID id.UserID, level id.SecurityLevel) error
	SetActive(ctx context.Context, userID id.UserID, active bool) error
	List(ctx context.Context) ([]*domain.User, error)
	Counts(ctx context.Context) (UserCounts, error)
}

// ObjectStore persists classified objects. Enumeration methods return
// summaries ordered by (level desc, name asc) and already filtered by the
// caller-supplied maximum level; the visibility decision itself stays in the
// policy layer.
type ObjectStore interface {
	Insert(ctx context.Context, object *domain.Object) error
	FindByID(ctx context.Context, objectID id.ObjectID) (*domain.Object, error)
	UpdateContent(ctx context.Context, objectID id.ObjectID, content string) error
	Delete(ctx context.Context, objectID id.ObjectID) error
	ListByMaxLevel(ctx context.Context, maxLevel id.SecurityLevel) ([]domain.Summary, error)
	SearchByName(ctx context.Context, pattern string, maxLevel id.SecurityLevel) ([]domain.Summary, error)
	ListByLevel(ctx context.Context, level id.SecurityLevel) ([]domain.Summary, error)
	CountByLevel(ctx context.Context) (map[id.SecurityLevel]int, error)
}
