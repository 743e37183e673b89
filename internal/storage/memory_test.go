package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	users   *storage.InMemoryUserStore
	objects *storage.InMemoryObjectStore
	ctx     context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = storage.NewInMemoryUserStore()
	s.objects = storage.NewInMemoryObjectStore()
}

func (s *MemoryStoreSuite) newUser(username string, level id.SecurityLevel, superAdmin bool) *domain.User {
	user, err := domain.NewUser(id.NewUserID(), username, "$2a$10$hash", level, superAdmin, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(s.ctx, user))
	return user
}

func (s *MemoryStoreSuite) newObject(owner id.UserID, name string, level id.SecurityLevel) *domain.Object {
	object, err := domain.NewObject(id.NewObjectID(), name, "content", level, owner, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.objects.Insert(s.ctx, object))
	return object
}

func (s *MemoryStoreSuite) TestUserStore() {
	user := s.newUser("alice", id.LevelSecret, false)

	s.Run("find by id and username", func() {
		found, err := s.users.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("alice", found.Username)

		found, err = s.users.FindByUsername(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("missing user yields ErrNotFound", func() {
		_, err := s.users.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, storage.ErrNotFound)
		_, err = s.users.FindByUsername(s.ctx, "nobody")
		s.Require().ErrorIs(err, storage.ErrNotFound)
	})

	s.Run("duplicate username rejected", func() {
		dup, err := domain.NewUser(id.NewUserID(), "alice", "$2a$10$hash", id.LevelPublic, false, time.Now())
		s.Require().NoError(err)
		s.Require().Error(s.users.Save(s.ctx, dup))
	})

	s.Run("mutations apply to stored copy", func() {
		s.Require().NoError(s.users.UpdateSecurityLevel(s.ctx, user.ID, id.LevelTopSecret))
		s.Require().NoError(s.users.SetActive(s.ctx, user.ID, false))
		found, err := s.users.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(id.LevelTopSecret, found.SecurityLevel)
		s.False(found.IsActive)
	})

	s.Run("counts", func() {
		s.newUser("root", id.LevelTopSecret, true)
		counts, err := s.users.Counts(s.ctx)
		s.Require().NoError(err)
		s.Equal(storage.UserCounts{Total: 2, Active: 1, SuperAdmins: 1}, counts)
	})
}

func (s *MemoryStoreSuite) TestReturnedUsersAreCopies() {
	user := s.newUser("bob", id.LevelPublic, false)

	found, err := s.users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	found.SecurityLevel = id.LevelTopSecret

	again, err := s.users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(id.LevelPublic, again.SecurityLevel, "caller mutations must not leak into the store")
}

func (s *MemoryStoreSuite) TestObjectStore() {
	owner := s.newUser("carol", id.LevelTopSecret, false)
	object := s.newObject(owner.ID, "dossier", id.LevelSecret)

	s.Run("update and delete", func() {
		s.Require().NoError(s.objects.UpdateContent(s.ctx, object.ID, "revised"))
		found, err := s.objects.FindByID(s.ctx, object.ID)
		s.Require().NoError(err)
		s.Equal("revised", found.Content)

		s.Require().NoError(s.objects.Delete(s.ctx, object.ID))
		_, err = s.objects.FindByID(s.ctx, object.ID)
		s.Require().ErrorIs(err, storage.ErrNotFound)
		s.Require().ErrorIs(s.objects.Delete(s.ctx, object.ID), storage.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestSummaryOrdering() {
	owner := s.newUser("dave", id.LevelTopSecret, false)
	s.newObject(owner.ID, "zulu", id.LevelPublic)
	s.newObject(owner.ID, "alpha", id.LevelSecret)
	s.newObject(owner.ID, "bravo", id.LevelSecret)
	s.newObject(owner.ID, "omega", id.LevelTopSecret)

	summaries, err := s.objects.ListByMaxLevel(s.ctx, id.LevelSecret)
	s.Require().NoError(err)
	s.Require().Len(summaries, 3)
	s.Equal("alpha", summaries[0].Name, "level descending, then name ascending")
	s.Equal("bravo", summaries[1].Name)
	s.Equal("zulu", summaries[2].Name)

	matches, err := s.objects.SearchByName(s.ctx, "a", id.LevelSecret)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)

	atLevel, err := s.objects.ListByLevel(s.ctx, id.LevelTopSecret)
	s.Require().NoError(err)
	s.Require().Len(atLevel, 1)

	counts, err := s.objects.CountByLevel(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[id.LevelSecret])
}

func TestInMemoryAuditStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryAuditStore()
	subject := id.NewUserID()

	record := func(eventType audit.EventType, success bool) {
		err := store.Append(ctx, audit.Event{
			ID:        id.NewAuditEventID(),
			Type:      eventType,
			SubjectID: subject,
			Timestamp: time.Now(),
			Success:   success,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	record(audit.EventReadAccess, true)
	record(audit.EventReadAccess, false)
	record(audit.EventWriteAccess, true)

	events, err := store.List(ctx, audit.Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 || events[0].Type != audit.EventWriteAccess {
		t.Fatalf("expected 3 events newest first, got %d", len(events))
	}

	failed := false
	events, err = store.List(ctx, audit.Query{Type: audit.EventReadAccess, Success: &failed})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 filtered event, got %d", len(events))
	}

	events, err = store.List(ctx, audit.Query{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected limit 2, got %d", len(events))
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalEvents != 3 || stats.SuccessEvents != 2 || stats.FailedEvents != 1 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}
