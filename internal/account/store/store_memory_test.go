package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"cohort/internal/account/models"
	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
)

type stubMinter struct {
	calls int
	err   error
}

func (m *stubMinter) Create(context.Context, domain.StudyID) (domain.HealthID, domain.HealthCode, error) {
	m.calls++
	if m.err != nil {
		return domain.HealthID{}, "", m.err
	}
	return domain.NewHealthID(), domain.HealthCode(fmt.Sprintf("hc-%d", m.calls)), nil
}

type InMemoryAccountStoreSuite struct {
	suite.Suite
	minter *stubMinter
	store  *InMemoryAccountStore
}

func TestInMemoryAccountStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryAccountStoreSuite))
}

func (s *InMemoryAccountStoreSuite) SetupTest() {
	s.minter = &stubMinter{}
	s.store = NewInMemory(WithHealthCodeMinter(s.minter), WithBcryptCost(bcrypt.MinCost))
}

func (s *InMemoryAccountStoreSuite) signUp(ctx context.Context, email string, roles ...domain.Role) *models.Account {
	acct, err := s.store.Create(ctx, "api", models.SignUp{Email: email, Password: "P4ssword!", Roles: domain.NewRoles(roles...)}, false)
	s.Require().NoError(err)
	return acct
}

func (s *InMemoryAccountStoreSuite) TestCreate() {
	ctx := context.Background()

	s.Run("mints a health ID and hashes the password", func() {
		acct := s.signUp(ctx, "Create.Me@Example.org")

		s.Equal("create.me@example.org", acct.Email)
		s.True(acct.HasHealthID())
		s.Equal(models.AccountStatusEnabled, acct.Status)
		s.NotEqual("P4ssword!", acct.PasswordHash)
		s.True(CheckPassword(acct.PasswordHash, "P4ssword!"))
	})

	s.Run("email verification leaves the account unverified", func() {
		acct, err := s.store.Create(ctx, "api", models.SignUp{Email: "verify@example.org", Password: "P4ssword!"}, true)
		s.Require().NoError(err)
		s.Equal(models.AccountStatusUnverified, acct.Status)
	})

	s.Run("duplicate email in the same study conflicts", func() {
		s.signUp(ctx, "dup@example.org")
		_, err := s.store.Create(ctx, "api", models.SignUp{Email: "DUP@example.org", Password: "x"}, false)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same email in another study is allowed", func() {
		s.signUp(ctx, "shared@example.org")
		_, err := s.store.Create(ctx, "other-study", models.SignUp{Email: "shared@example.org", Password: "x"}, false)
		s.NoError(err)
	})

	s.Run("minter failure creates nothing", func() {
		s.minter.err = errors.New("mapping unavailable")
		defer func() { s.minter.err = nil }()

		_, err := s.store.Create(ctx, "api", models.SignUp{Email: "nomint@example.org", Password: "x"}, false)
		s.Error(err)
		_, err = s.store.Get(ctx, "api", "nomint@example.org")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryAccountStoreSuite) TestGetUpdateDelete() {
	ctx := context.Background()
	acct := s.signUp(ctx, "p@example.org")

	s.Run("lookup is case-insensitive", func() {
		found, err := s.store.Get(ctx, "api", "P@EXAMPLE.ORG")
		s.Require().NoError(err)
		s.Equal(acct.ID, found.ID)
	})

	s.Run("update persists profile fields only", func() {
		acct.FirstName = "Pat"
		acct.SetAttribute("phone", "555-0100")
		acct.HealthID = domain.NewHealthID()
		s.Require().NoError(s.store.Update(ctx, acct))

		found, err := s.store.Get(ctx, "api", "p@example.org")
		s.Require().NoError(err)
		s.Equal("Pat", found.FirstName)
		s.Equal("555-0100", found.Attribute("phone"))
		s.NotEqual(acct.HealthID, found.HealthID, "health ID is immutable")
	})

	s.Run("returned accounts are copies", func() {
		found, err := s.store.Get(ctx, "api", "p@example.org")
		s.Require().NoError(err)
		found.Attributes["phone"] = "changed"

		again, err := s.store.Get(ctx, "api", "p@example.org")
		s.Require().NoError(err)
		s.Equal("555-0100", again.Attribute("phone"))
	})

	s.Run("update of an absent account is not found", func() {
		err := s.store.Update(ctx, &models.Account{StudyID: "api", Email: "ghost@example.org"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete is idempotent", func() {
		s.Require().NoError(s.store.Delete(ctx, "api", "p@example.org"))
		s.Require().NoError(s.store.Delete(ctx, "api", "p@example.org"))
		_, err := s.store.Get(ctx, "api", "p@example.org")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryAccountStoreSuite) TestAll() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		s.signUp(ctx, fmt.Sprintf("user%d@example.org", i))
	}

	s.Run("yields every account in creation order", func() {
		var emails []string
		for acct, err := range s.store.All(context.Background()) {
			s.Require().NoError(err)
			emails = append(emails, acct.Email)
		}
		s.Equal([]string{
			"user0@example.org", "user1@example.org", "user2@example.org",
			"user3@example.org", "user4@example.org",
		}, emails)
	})

	s.Run("stops when the consumer breaks", func() {
		count := 0
		for range s.store.All(context.Background()) {
			count++
			if count == 2 {
				break
			}
		}
		s.Equal(2, count)
	})

	s.Run("cancelled context yields the error", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		for acct, err := range s.store.All(ctx) {
			s.Nil(acct)
			s.ErrorIs(err, context.Canceled)
		}
	})
}

func (s *InMemoryAccountStoreSuite) TestPage() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 12 {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		email := fmt.Sprintf("alpha%02d@example.org", i)
		if i%3 == 0 {
			email = fmt.Sprintf("beta%02d@example.org", i)
		}
		s.signUp(ctx, email)
	}
	ctx := context.Background()

	s.Run("returns the requested window and the total", func() {
		page, err := s.store.Page(ctx, "api", 5, 5, "")
		s.Require().NoError(err)
		s.Equal(12, page.Total)
		s.Require().Len(page.Items, 5)
		s.Equal("alpha05@example.org", page.Items[0].Email)
	})

	s.Run("filters by email substring", func() {
		page, err := s.store.Page(ctx, "api", 0, 10, "BETA")
		s.Require().NoError(err)
		s.Equal(4, page.Total)
		s.Len(page.Items, 4)
	})

	s.Run("offset past the end is an empty page", func() {
		page, err := s.store.Page(ctx, "api", 50, 10, "")
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(12, page.Total)
	})

	s.Run("other studies are excluded", func() {
		page, err := s.store.Page(ctx, "other-study", 0, 10, "")
		s.Require().NoError(err)
		s.Zero(page.Total)
	})
}
