package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blpgate/internal/domain"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	dErrors "blpgate/pkg/domain-errors"
)

type DirectorySuite struct {
	suite.Suite
	users   *storage.InMemoryUserStore
	objects *storage.InMemoryObjectStore
	service *Service
	ctx     context.Context

	reader id.UserID // Confidential clearance
	owner  id.UserID // Top Secret owner of everything
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.users = storage.NewInMemoryUserStore()
	s.objects = storage.NewInMemoryObjectStore()
	s.ctx = context.Background()

	var err error
	s.service, err = New(s.users, s.objects)
	s.Require().NoError(err)

	owner, err := domain.NewUser(id.NewUserID(), "owner", "hash", id.LevelTopSecret, false, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(s.ctx, owner))
	s.owner = owner.ID

	reader, err := domain.NewUser(id.NewUserID(), "reader", "hash", id.LevelConfidential, false, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(s.ctx, reader))
	s.reader = reader.ID

	for _, spec := range []struct {
		name  string
		level id.SecurityLevel
	}{
		{"project-alpha", id.LevelPublic},
		{"project-beta", id.LevelConfidential},
		{"project-gamma", id.LevelSecret},
		{"project-delta", id.LevelTopSecret},
	} {
		object, oerr := domain.NewObject(id.NewObjectID(), spec.name, "content", spec.level, s.owner, time.Now())
		s.Require().NoError(oerr)
		s.Require().NoError(s.objects.Insert(s.ctx, object))
	}
}

func (s *DirectorySuite) TestSearch() {
	s.Run("substring match never leaks above clearance", func() {
		results, err := s.service.Search(s.ctx, s.reader, "project")
		s.Require().NoError(err)
		s.Require().Len(results, 2)
		// Level desc, name asc.
		s.Equal("project-beta", results[0].Name)
		s.Equal("project-alpha", results[1].Name)
	})

	s.Run("top secret subject sees everything", func() {
		results, err := s.service.Search(s.ctx, s.owner, "project")
		s.Require().NoError(err)
		s.Len(results, 4)
	})

	s.Run("unknown subject sees nothing", func() {
		results, err := s.service.Search(s.ctx, id.NewUserID(), "project")
		s.Require().NoError(err)
		s.Empty(results)
	})

	s.Run("empty term lists all visible objects", func() {
		results, err := s.service.Search(s.ctx, s.reader, "")
		s.Require().NoError(err)
		s.Len(results, 2)
	})
}

func (s *DirectorySuite) TestListByLevel() {
	s.Run("level within clearance lists by name", func() {
		results, err := s.service.ListByLevel(s.ctx, s.reader, id.LevelConfidential)
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("project-beta", results[0].Name)
	})

	s.Run("level above clearance is an empty sequence, not an error", func() {
		results, err := s.service.ListByLevel(s.ctx, s.reader, id.LevelSecret)
		s.Require().NoError(err)
		s.Empty(results)
	})
}

func (s *DirectorySuite) TestObjectInfo() {
	s.Run("visible object returns metadata without content", func() {
		visible, err := s.service.Search(s.ctx, s.reader, "project-beta")
		s.Require().NoError(err)
		s.Require().Len(visible, 1)

		info, err := s.service.ObjectInfo(s.ctx, s.reader, visible[0].ID)
		s.Require().NoError(err)
		s.Equal("project-beta", info.Name)
		s.Equal(id.LevelConfidential, info.SecurityLevel)
	})

	s.Run("invisible object and missing object share the not-found shape", func() {
		hidden, err := s.service.Search(s.ctx, s.owner, "project-delta")
		s.Require().NoError(err)
		s.Require().Len(hidden, 1)

		_, errHidden := s.service.ObjectInfo(s.ctx, s.reader, hidden[0].ID)
		_, errMissing := s.service.ObjectInfo(s.ctx, s.reader, id.NewObjectID())

		s.Require().Error(errHidden)
		s.Require().Error(errMissing)
		s.True(dErrors.HasCode(errHidden, dErrors.CodeNotFound))
		s.Equal(errMissing.Error(), errHidden.Error())
	})
}
