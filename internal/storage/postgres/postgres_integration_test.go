//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blpgate/internal/audit"
	"blpgate/internal/domain"
	"blpgate/internal/storage"
	"blpgate/internal/storage/postgres"
	id "blpgate/pkg/domain"
	"blpgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	db        *postgres.DB
	raw       *sql.DB
	ctx       context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewPostgresContainer(s.T())

	db, err := postgres.Open(s.ctx, s.container.DSN)
	s.Require().NoError(err)
	s.db = db

	raw, err := sql.Open("pgx", s.container.DSN)
	s.Require().NoError(err)
	s.raw = raw
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.raw != nil {
		_ = s.raw.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.container.TruncateTables(s.ctx, s.raw, "users", "objects", "audit_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newUser(username string, level id.SecurityLevel) *domain.User {
	user, err := domain.NewUser(id.NewUserID(), username, "$2a$10$hash", level, false, time.Now())
	s.Require().NoError(err)
	return user
}

func (s *PostgresStoreSuite) TestUserRoundTrip() {
	users := s.db.Users()
	user := s.newUser("carol", id.LevelSecret)
	s.Require().NoError(users.Save(s.ctx, user))

	found, err := users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Username, found.Username)
	s.Equal(user.SecurityLevel, found.SecurityLevel)
	s.True(found.IsActive)

	byName, err := users.FindByUsername(s.ctx, "carol")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)
}

func (s *PostgresStoreSuite) TestUserNotFound() {
	_, err := s.db.Users().FindByID(s.ctx, id.NewUserID())
	s.Require().ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateUsernameRejected() {
	users := s.db.Users()
	s.Require().NoError(users.Save(s.ctx, s.newUser("dave", id.LevelPublic)))
	err := users.Save(s.ctx, s.newUser("dave", id.LevelSecret))
	s.Require().Error(err)
	s.Contains(err.Error(), "username already taken")
}

func (s *PostgresStoreSuite) TestUpdateSecurityLevelAndActive() {
	users := s.db.Users()
	user := s.newUser("erin", id.LevelConfidential)
	s.Require().NoError(users.Save(s.ctx, user))

	s.Require().NoError(users.UpdateSecurityLevel(s.ctx, user.ID, id.LevelTopSecret))
	s.Require().NoError(users.SetActive(s.ctx, user.ID, false))

	found, err := users.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(id.LevelTopSecret, found.SecurityLevel)
	s.False(found.IsActive)

	s.Require().ErrorIs(users.UpdateSecurityLevel(s.ctx, id.NewUserID(), id.LevelPublic), storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestObjectLifecycle() {
	owner := s.newUser("frank", id.LevelSecret)
	s.Require().NoError(s.db.Users().Save(s.ctx, owner))

	objects := s.db.Objects()
	object, err := domain.NewObject(id.NewObjectID(), "report-q3", "draft", id.LevelSecret, owner.ID, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(objects.Insert(s.ctx, object))

	found, err := objects.FindByID(s.ctx, object.ID)
	s.Require().NoError(err)
	s.Equal("draft", found.Content)

	s.Require().NoError(objects.UpdateContent(s.ctx, object.ID, "final"))
	found, err = objects.FindByID(s.ctx, object.ID)
	s.Require().NoError(err)
	s.Equal("final", found.Content)

	s.Require().NoError(objects.Delete(s.ctx, object.ID))
	_, err = objects.FindByID(s.ctx, object.ID)
	s.Require().ErrorIs(err, storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSummaryQueriesRespectLevelCeiling() {
	owner := s.newUser("grace", id.LevelTopSecret)
	s.Require().NoError(s.db.Users().Save(s.ctx, owner))

	objects := s.db.Objects()
	for name, level := range map[string]id.SecurityLevel{
		"alpha": id.LevelPublic,
		"bravo": id.LevelSecret,
		"zulu":  id.LevelTopSecret,
	} {
		object, err := domain.NewObject(id.NewObjectID(), name, "x", level, owner.ID, time.Now())
		s.Require().NoError(err)
		s.Require().NoError(objects.Insert(s.ctx, object))
	}

	summaries, err := objects.ListByMaxLevel(s.ctx, id.LevelSecret)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("bravo", summaries[0].Name)
	s.Equal("alpha", summaries[1].Name)

	matches, err := objects.SearchByName(s.ctx, "a", id.LevelSecret)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)

	counts, err := objects.CountByLevel(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[id.LevelTopSecret])
	s.Equal(1, counts[id.LevelSecret])
	s.Equal(1, counts[id.LevelPublic])
}

func (s *PostgresStoreSuite) TestAuditAppendListStatistics() {
	store := s.db.Audit()
	subject := id.NewUserID()

	for i := 0; i < 3; i++ {
		event := audit.Event{
			ID:        id.NewAuditEventID(),
			Type:      audit.EventReadAccess,
			SubjectID: subject,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			Details:   "READ granted",
			Success:   true,
		}
		s.Require().NoError(store.Append(s.ctx, event))
	}
	denied := audit.Event{
		ID:        id.NewAuditEventID(),
		Type:      audit.EventWriteAccess,
		SubjectID: subject,
		Timestamp: time.Now().Add(time.Hour),
		Details:   "WRITE denied",
		Success:   false,
	}
	s.Require().NoError(store.Append(s.ctx, denied))

	events, err := store.List(s.ctx, audit.Query{SubjectID: subject})
	s.Require().NoError(err)
	s.Require().Len(events, 4)
	s.Equal(audit.EventWriteAccess, events[0].Type, "newest first")

	failed := false
	events, err = store.List(s.ctx, audit.Query{Success: &failed})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("WRITE denied", events[0].Details)

	stats, err := store.Statistics(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, stats.TotalEvents)
	s.Equal(3, stats.SuccessEvents)
	s.Equal(1, stats.FailedEvents)
	s.Equal(3, stats.ByType[audit.EventReadAccess])
}
