//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"cohort/pkg/domain"
	"cohort/pkg/platform/audit"
	auditpostgres "cohort/pkg/platform/audit/store/postgres"
	txcontext "cohort/pkg/platform/tx"
	"cohort/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditpostgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = auditpostgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func (s *AuditStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	accountID := domain.AccountID(uuid.New())
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base,
		AccountID: accountID,
		StudyID:   "api",
		Subject:   "pat@example.org",
		Action:    string(audit.EventParticipantCreated),
		RequestID: "req-1",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		// category is re-derived from the action
		Category:  audit.CategoryOperations,
		Timestamp: base.Add(time.Minute),
		AccountID: accountID,
		StudyID:   "api",
		Subject:   "pat@example.org",
		Action:    string(audit.EventParticipantDeleteFailed),
		Reason:    "lock held",
		ActorID:   "admin-7",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		Timestamp: base.Add(2 * time.Minute),
		StudyID:   "api",
		Action:    string(audit.EventParticipantDeleteFailed),
	}))

	byAccount, err := s.store.ListByAccount(ctx, accountID)
	s.Require().NoError(err)
	s.Require().Len(byAccount, 2)
	s.Equal(string(audit.EventParticipantDeleteFailed), byAccount[0].Action, "newest first")
	s.Equal(audit.CategoryCompliance, byAccount[0].Category)
	s.Equal("admin-7", byAccount[0].ActorID)
	s.Equal("lock held", byAccount[0].Reason)
	s.Equal(accountID, byAccount[1].AccountID)

	failed, err := s.store.ListByAction(ctx, audit.EventParticipantDeleteFailed)
	s.Require().NoError(err)
	s.Require().Len(failed, 2)
	s.True(failed[0].Timestamp.Before(failed[1].Timestamp), "oldest first")
	s.True(failed[1].AccountID.IsNil())

	recent, err := s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.True(recent[0].Timestamp.Equal(base.Add(2 * time.Minute)))
}

func (s *AuditStoreSuite) TestAppendJoinsTransaction() {
	ctx := context.Background()
	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Append(txcontext.WithTx(ctx, tx), audit.Event{
		Timestamp: time.Now(),
		Action:    string(audit.EventParticipantSignedOut),
	}))
	s.Require().NoError(tx.Rollback())

	events, err := s.store.ListByAction(ctx, audit.EventParticipantSignedOut)
	s.Require().NoError(err)
	s.Empty(events, "rolled back with the transaction")
}
