//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cohort/internal/session"
	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCreateFindInvalidate() {
	ctx := context.Background()
	accountID := domain.NewAccountID()
	now := time.Now()

	first := session.New(accountID, "api", now, time.Hour)
	second := session.New(accountID, "api", now, time.Hour)
	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))

	found, err := s.store.FindByID(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(accountID, found.AccountID)

	sessions, err := s.store.ListByAccount(ctx, accountID)
	s.Require().NoError(err)
	s.Len(sessions, 2)

	s.Require().NoError(s.store.InvalidateByAccount(ctx, accountID))

	_, err = s.store.FindByID(ctx, second.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	exists, err := s.redis.Client.Exists(ctx, "account_sessions:"+accountID.String()).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *RedisStoreSuite) TestRejectsExpiredSession() {
	sess := session.New(domain.NewAccountID(), "api", time.Now().Add(-2*time.Hour), time.Hour)
	s.Error(s.store.Create(context.Background(), sess))
}
