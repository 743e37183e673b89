// Package directory is a thin read model over storage: enumeration and
// search of objects filtered by a subject's clearance. It applies the same
// visibility inequality as the policy engine's existence rule, so partial
// name matches can never surface objects above the subject's level.
package directory

import (
	"context"
	"errors"

	"blpgate/internal/domain"
	"blpgate/internal/policy"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

type Service struct {
	users   storage.UserStore
	objects storage.ObjectStore
}

func New(users storage.UserStore, objects storage.ObjectStore) (*Service, error) {
	if users == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user store is required")
	}
	if objects == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "object store is required")
	}
	return &Service{users: users, objects: objects}, nil
}

// Search returns objects whose names contain the term, restricted to the
// subject's visibility. An unknown subject sees nothing.
func (s *Service) Search(ctx context.Context, subjectID id.UserID, term string) ([]domain.Summary, error) {
	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.Summary{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up subject")
	}
	summaries, err := s.objects.SearchByName(ctx, term, subject.SecurityLevel)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search objects")
	}
	return summaries, nil
}

// ListByLevel returns objects at exactly the given level, name ascending.
// Levels above the subject's clearance yield an empty sequence rather than
// an error: the subject must not learn whether anything lives there.
func (s *Service) ListByLevel(ctx context.Context, subjectID id.UserID, level id.SecurityLevel) ([]domain.Summary, error) {
	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.Summary{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up subject")
	}
	if !policy.CanViewExistence(subject.SecurityLevel, level) {
		return []domain.Summary{}, nil
	}
	summaries, err := s.objects.ListByLevel(ctx, level)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list objects")
	}
	return summaries, nil
}

// ObjectInfo returns an object's metadata without content, or not-found when
// the object is missing or invisible to the subject. Both cases share one
// error shape.
func (s *Service) ObjectInfo(ctx context.Context, subjectID id.UserID, objectID id.ObjectID) (*domain.Summary, error) {
	subject, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "object not found")
	}
	object, err := s.objects.FindByID(ctx, objectID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "object not found")
	}
	if !policy.CanViewExistence(subject.SecurityLevel, object.SecurityLevel) {
		return nil, dErrors.New(dErrors.CodeNotFound, "object not found")
	}
	summary := object.Summary()
	return &summary, nil
}
