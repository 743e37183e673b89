//go:build integration

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"blpgate/internal/auth"
	"blpgate/pkg/testutil/containers"
)

type RedisLockoutSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *auth.RedisLockoutStore
	ctx   context.Context
}

func TestRedisLockoutSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockoutSuite))
}

func (s *RedisLockoutSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.store = auth.NewRedisLockoutStore(s.redis.Client, 2*time.Second)
}

func (s *RedisLockoutSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisLockoutSuite) TestCountersAccumulateAndClear() {
	now := time.Now()

	count, err := s.store.RecordFailure(s.ctx, "alice", now)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.store.RecordFailure(s.ctx, "alice", now)
	s.Require().NoError(err)
	s.Equal(2, count)

	count, err = s.store.FailureCount(s.ctx, "alice", now)
	s.Require().NoError(err)
	s.Equal(2, count)

	// Other usernames are independent.
	count, err = s.store.FailureCount(s.ctx, "bob", now)
	s.Require().NoError(err)
	s.Zero(count)

	s.Require().NoError(s.store.Clear(s.ctx, "alice"))
	count, err = s.store.FailureCount(s.ctx, "alice", now)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *RedisLockoutSuite) TestCountersExpireWithWindow() {
	now := time.Now()
	_, err := s.store.RecordFailure(s.ctx, "carol", now)
	s.Require().NoError(err)

	time.Sleep(2500 * time.Millisecond)

	count, err := s.store.FailureCount(s.ctx, "carol", now)
	s.Require().NoError(err)
	s.Zero(count)
}
