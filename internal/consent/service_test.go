package consent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/requestcontext"
)

type fixedRevisions map[domain.SubpopulationGUID]time.Time

func (f fixedRevisions) ActiveConsentCreatedOn(_ domain.StudyID, subpop domain.SubpopulationGUID) (time.Time, bool) {
	t, ok := f[subpop]
	return t, ok
}

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
	rev1    time.Time
	rev2    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemory()
	s.rev1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.rev2 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	revisions := fixedRevisions{"api": s.rev2}
	var err error
	s.service, err = New(s.store, WithRevisionSource(revisions))
	s.Require().NoError(err)
}

func (s *ServiceSuite) at(day int) context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(2024, 7, day, 9, 0, 0, 0, time.UTC))
}

func (s *ServiceSuite) TestHistoryWithoutHealthCodeIsEmpty() {
	history, err := s.service.History(context.Background(), "api", "api", "")
	s.Require().NoError(err)
	s.NotNil(history)
	s.Empty(history)
}

func (s *ServiceSuite) TestSignWithdrawAndResign() {
	hc := domain.HealthCode("hc-1")

	_, err := s.service.Sign(s.at(1), "api", "api", hc, SignRequest{Name: "Pat", ConsentCreatedOn: s.rev1})
	s.Require().NoError(err)

	_, err = s.service.Sign(s.at(2), "api", "api", hc, SignRequest{Name: "Pat"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "open signature blocks a second one")

	s.Require().NoError(s.service.Withdraw(s.at(3), "api", "api", hc))
	s.True(dErrors.HasCode(s.service.Withdraw(s.at(3), "api", "api", hc), dErrors.CodeNotFound))

	_, err = s.service.Sign(s.at(4), "api", "api", hc, SignRequest{Name: "Pat"})
	s.Require().NoError(err)

	history, err := s.service.History(context.Background(), "api", "api", hc)
	s.Require().NoError(err)
	s.Require().Len(history, 2)

	s.Equal(s.rev1, history[0].ConsentCreatedOn)
	s.NotNil(history[0].WithdrewOn)
	s.False(history[0].HasSignedActiveConsent)

	s.Equal(s.rev2, history[1].ConsentCreatedOn, "defaults to the published revision")
	s.Nil(history[1].WithdrewOn)
	s.True(history[1].HasSignedActiveConsent)
}

func (s *ServiceSuite) TestSignValidation() {
	_, err := s.service.Sign(context.Background(), "api", "api", "", SignRequest{Name: "Pat"})
	s.True(dErrors.HasCode(err, dErrors.CodePrecondition))

	_, err = s.service.Sign(context.Background(), "api", "api", "hc-1", SignRequest{Name: " "})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestDeleteAllForHealthCode() {
	_, err := s.service.Sign(s.at(1), "api", "api", "hc-1", SignRequest{Name: "Pat"})
	s.Require().NoError(err)
	_, err = s.service.Sign(s.at(1), "other", "api", "hc-1", SignRequest{Name: "Pat"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteAllForHealthCode(context.Background(), "api", "hc-1"))
	s.Equal(1, s.store.Count("hc-1"), "signatures in other studies survive")

	s.NoError(s.service.DeleteAllForHealthCode(context.Background(), "api", ""))
}
