// Package users holds the administrative operations over accounts. These
// are governed by role checks (super admin, Top Secret clearance), not by
// the read/write lattice rules; mixing the two would blur the mediation
// boundary.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/policy"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

// Statistics aggregates the system view shown to Top Secret operators.
type Statistics struct {
	Users          storage.UserCounts
	ObjectsByLevel map[id.SecurityLevel]int
	Audit          audit.Statistics
}

// Service performs account administration.
type Service struct {
	users   storage.UserStore
	objects storage.ObjectStore
	reports *audit.Service
	auditor *audit.Publisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(users storage.UserStore, objects storage.ObjectStore, reports *audit.Service, auditor *audit.Publisher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user store is required")
	}
	if objects == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "object store is required")
	}
	if reports == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit reporting service is required")
	}
	if auditor == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit publisher is required")
	}
	svc := &Service{
		users:   users,
		objects: objects,
		reports: reports,
		auditor: auditor,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ListUsers returns every account. Restricted to Top Secret clearance.
func (s *Service) ListUsers(ctx context.Context, actorID id.UserID) ([]*domain.User, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.SecurityLevel != id.LevelTopSecret {
		s.emit(ctx, audit.Event{
			Type:      audit.EventListUsers,
			SubjectID: actorID,
			Details:   "User list denied: requires Top Secret clearance",
			Success:   false,
		})
		return nil, dErrors.New(dErrors.CodeForbidden, "requires Top Secret clearance")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list users")
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventListUsers,
		SubjectID: actorID,
		Details:   fmt.Sprintf("Listed %d users", len(users)),
		Success:   true,
	})
	return users, nil
}

// ChangeUserLevel re-classifies an account. Super admin only; the level must
// be in the closed catalog. Existing objects keep their levels, which is how
// an owner can end up unable to delete their own object.
func (s *Service) ChangeUserLevel(ctx context.Context, actorID, targetID id.UserID, level id.SecurityLevel) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsSuperAdmin {
		s.emit(ctx, audit.Event{
			Type:      audit.EventChangeUserLevel,
			SubjectID: actorID,
			Details:   "Level change denied: requires super admin",
			Success:   false,
		})
		return dErrors.New(dErrors.CodeForbidden, "requires super admin")
	}
	if !policy.ValidateLevel(level) {
		s.emit(ctx, audit.Event{
			Type:      audit.EventChangeUserLevel,
			SubjectID: actorID,
			Details:   fmt.Sprintf("Invalid security level: %d", level.Int()),
			Success:   false,
		})
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("Invalid security level: %d", level.Int()))
	}
	if err := s.users.UpdateSecurityLevel(ctx, targetID, level); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.emit(ctx, audit.Event{
				Type:      audit.EventChangeUserLevel,
				SubjectID: actorID,
				Details:   "Level change failed: user not found",
				Success:   false,
			})
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update security level")
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventChangeUserLevel,
		SubjectID: actorID,
		Details:   fmt.Sprintf("Security level of %s changed to: %s", targetID.String(), level.String()),
		Success:   true,
	})
	s.logger.Info("user level changed",
		"actor_id", actorID.String(),
		"target_id", targetID.String(),
		"security_level", level.String(),
	)
	return nil
}

// ActivateUser re-enables a deactivated account. Super admin only.
func (s *Service) ActivateUser(ctx context.Context, actorID, targetID id.UserID) error {
	return s.setActive(ctx, actorID, targetID, true)
}

// DeactivateUser disables an account. Super admin only; admins cannot
// deactivate themselves or a deployment could lock itself out.
func (s *Service) DeactivateUser(ctx context.Context, actorID, targetID id.UserID) error {
	if actorID == targetID {
		s.emit(ctx, audit.Event{
			Type:      audit.EventDeactivateUser,
			SubjectID: actorID,
			Details:   "Deactivation denied: cannot deactivate own account",
			Success:   false,
		})
		return dErrors.New(dErrors.CodeForbidden, "cannot deactivate own account")
	}
	return s.setActive(ctx, actorID, targetID, false)
}

func (s *Service) setActive(ctx context.Context, actorID, targetID id.UserID, active bool) error {
	eventType := audit.EventDeactivateUser
	verb := "Deactivation"
	if active {
		eventType = audit.EventActivateUser
		verb = "Activation"
	}

	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsSuperAdmin {
		s.emit(ctx, audit.Event{
			Type:      eventType,
			SubjectID: actorID,
			Details:   verb + " denied: requires super admin",
			Success:   false,
		})
		return dErrors.New(dErrors.CodeForbidden, "requires super admin")
	}
	if err := s.users.SetActive(ctx, targetID, active); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.emit(ctx, audit.Event{
				Type:      eventType,
				SubjectID: actorID,
				Details:   verb + " failed: user not found",
				Success:   false,
			})
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "set active")
	}
	s.emit(ctx, audit.Event{
		Type:      eventType,
		SubjectID: actorID,
		Details:   fmt.Sprintf("%s of %s succeeded", verb, targetID.String()),
		Success:   true,
	})
	return nil
}

// GetUserInfo returns one account record. A subject may always see their own
// record; everyone else's requires Top Secret clearance.
func (s *Service) GetUserInfo(ctx context.Context, actorID, targetID id.UserID) (*domain.User, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actorID != targetID && actor.SecurityLevel != id.LevelTopSecret {
		s.emit(ctx, audit.Event{
			Type:      audit.EventViewUserInfo,
			SubjectID: actorID,
			Details:   "User info denied: requires Top Secret clearance",
			Success:   false,
		})
		return nil, dErrors.New(dErrors.CodeForbidden, "requires Top Secret clearance")
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.emit(ctx, audit.Event{
				Type:      audit.EventViewUserInfo,
				SubjectID: actorID,
				Details:   "User info failed: user not found",
				Success:   false,
			})
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	s.emit(ctx, audit.Event{
		Type:      audit.EventViewUserInfo,
		SubjectID: actorID,
		Details:   "Viewed user info of " + targetID.String(),
		Success:   true,
	})
	return target, nil
}

// SystemStatistics aggregates user, object, and audit counters. Restricted
// to Top Secret clearance.
func (s *Service) SystemStatistics(ctx context.Context, actorID id.UserID) (Statistics, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return Statistics{}, err
	}
	if actor.SecurityLevel != id.LevelTopSecret {
		s.emit(ctx, audit.Event{
			Type:      audit.EventViewStatistics,
			SubjectID: actorID,
			Details:   "Statistics denied: requires Top Secret clearance",
			Success:   false,
		})
		return Statistics{}, dErrors.New(dErrors.CodeForbidden, "requires Top Secret clearance")
	}

	counts, err := s.users.Counts(ctx)
	if err != nil {
		return Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "count users")
	}
	byLevel, err := s.objects.CountByLevel(ctx)
	if err != nil {
		return Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "count objects")
	}
	auditStats, err := s.reports.Statistics(ctx)
	if err != nil {
		return Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "audit statistics")
	}

	s.emit(ctx, audit.Event{
		Type:      audit.EventViewStatistics,
		SubjectID: actorID,
		Details:   "Viewed system statistics",
		Success:   true,
	})
	return Statistics{
		Users:          counts,
		ObjectsByLevel: byLevel,
		Audit:          auditStats,
	}, nil
}

func (s *Service) loadActor(ctx context.Context, actorID id.UserID) (*domain.User, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find user")
	}
	return actor, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	_ = s.auditor.Emit(ctx, event)
}
