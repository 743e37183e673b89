package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

type UsersSuite struct {
	suite.Suite
	users      *storage.InMemoryUserStore
	objects    *storage.InMemoryObjectStore
	auditStore *storage.InMemoryAuditStore
	service    *Service
	ctx        context.Context

	admin   *domain.User // Top Secret super admin
	analyst *domain.User // Secret, no admin rights
	clerk   *domain.User // Public
}

func TestUsersSuite(t *testing.T) {
	suite.Run(t, new(UsersSuite))
}

func (s *UsersSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = storage.NewInMemoryUserStore()
	s.objects = storage.NewInMemoryObjectStore()
	s.auditStore = storage.NewInMemoryAuditStore()

	reports, err := audit.NewService(s.auditStore)
	s.Require().NoError(err)
	service, err := New(s.users, s.objects, reports, audit.NewPublisher(s.auditStore))
	s.Require().NoError(err)
	s.service = service

	s.admin = s.newUser("root", id.LevelTopSecret, true)
	s.analyst = s.newUser("analyst", id.LevelSecret, false)
	s.clerk = s.newUser("clerk", id.LevelPublic, false)
}

func (s *UsersSuite) newUser(username string, level id.SecurityLevel, superAdmin bool) *domain.User {
	user, err := domain.NewUser(id.NewUserID(), username, "$2a$10$hash", level, superAdmin, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(s.ctx, user))
	return user
}

func (s *UsersSuite) lastEvent() audit.Event {
	events := s.auditStore.Events()
	s.Require().NotEmpty(events)
	return events[len(events)-1]
}

func (s *UsersSuite) TestListUsers() {
	s.Run("top secret actor sees everyone", func() {
		listed, err := s.service.ListUsers(s.ctx, s.admin.ID)
		s.Require().NoError(err)
		s.Len(listed, 3)
		s.Equal("root", listed[0].Username, "ordered by level descending")
	})

	s.Run("lower clearance denied", func() {
		_, err := s.service.ListUsers(s.ctx, s.analyst.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.False(s.lastEvent().Success)
	})

	s.Run("unknown actor", func() {
		_, err := s.service.ListUsers(s.ctx, id.NewUserID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *UsersSuite) TestChangeUserLevel() {
	s.Run("super admin re-classifies an account", func() {
		err := s.service.ChangeUserLevel(s.ctx, s.admin.ID, s.clerk.ID, id.LevelSecret)
		s.Require().NoError(err)

		updated, err := s.users.FindByID(s.ctx, s.clerk.ID)
		s.Require().NoError(err)
		s.Equal(id.LevelSecret, updated.SecurityLevel)

		event := s.lastEvent()
		s.Equal(audit.EventChangeUserLevel, event.Type)
		s.True(event.Success)
	})

	s.Run("non-admin denied even at top secret clearance", func() {
		ts := s.newUser("watcher", id.LevelTopSecret, false)
		err := s.service.ChangeUserLevel(s.ctx, ts.ID, s.clerk.ID, id.LevelPublic)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("level outside the catalog rejected", func() {
		err := s.service.ChangeUserLevel(s.ctx, s.admin.ID, s.clerk.ID, id.SecurityLevel(7))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Contains(err.Error(), "Invalid security level: 7")
	})

	s.Run("unknown target", func() {
		err := s.service.ChangeUserLevel(s.ctx, s.admin.ID, id.NewUserID(), id.LevelPublic)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *UsersSuite) TestDeactivateAndActivate() {
	s.Run("super admin deactivates an account", func() {
		s.Require().NoError(s.service.DeactivateUser(s.ctx, s.admin.ID, s.clerk.ID))
		updated, err := s.users.FindByID(s.ctx, s.clerk.ID)
		s.Require().NoError(err)
		s.False(updated.IsActive)
	})

	s.Run("and reactivates it", func() {
		s.Require().NoError(s.service.ActivateUser(s.ctx, s.admin.ID, s.clerk.ID))
		updated, err := s.users.FindByID(s.ctx, s.clerk.ID)
		s.Require().NoError(err)
		s.True(updated.IsActive)
	})

	s.Run("cannot deactivate own account", func() {
		err := s.service.DeactivateUser(s.ctx, s.admin.ID, s.admin.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Contains(err.Error(), "own account")
	})

	s.Run("non-admin denied", func() {
		err := s.service.DeactivateUser(s.ctx, s.analyst.ID, s.clerk.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *UsersSuite) TestGetUserInfo() {
	s.Run("anyone sees their own record", func() {
		info, err := s.service.GetUserInfo(s.ctx, s.clerk.ID, s.clerk.ID)
		s.Require().NoError(err)
		s.Equal("clerk", info.Username)
	})

	s.Run("top secret sees others", func() {
		info, err := s.service.GetUserInfo(s.ctx, s.admin.ID, s.analyst.ID)
		s.Require().NoError(err)
		s.Equal("analyst", info.Username)
	})

	s.Run("lower clearance cannot see others", func() {
		_, err := s.service.GetUserInfo(s.ctx, s.analyst.ID, s.clerk.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *UsersSuite) TestSystemStatistics() {
	object, err := domain.NewObject(id.NewObjectID(), "dossier", "x", id.LevelSecret, s.admin.ID, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.objects.Insert(s.ctx, object))

	_, err = s.service.ListUsers(s.ctx, s.admin.ID)
	s.Require().NoError(err)

	s.Run("top secret actor gets aggregates", func() {
		stats, err := s.service.SystemStatistics(s.ctx, s.admin.ID)
		s.Require().NoError(err)
		s.Equal(3, stats.Users.Total)
		s.Equal(1, stats.Users.SuperAdmins)
		s.Equal(1, stats.ObjectsByLevel[id.LevelSecret])
		s.Equal(1, stats.Audit.ByType[audit.EventListUsers])
	})

	s.Run("lower clearance denied", func() {
		_, err := s.service.SystemStatistics(s.ctx, s.clerk.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
