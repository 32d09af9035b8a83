package service

import (
	"context"

	accountmodels "cohort/internal/account/models"
	"cohort/internal/consent"
	"cohort/internal/options"
	"cohort/internal/session"
	"cohort/internal/study"
	"cohort/pkg/domain"
	"cohort/pkg/platform/audit"
)

// AccountStore reports absence with sentinel.ErrNotFound and duplicate
// sign-ups with sentinel.ErrConflict.
type AccountStore interface {
	Get(ctx context.Context, studyID domain.StudyID, email string) (*accountmodels.Account, error)
	Create(ctx context.Context, studyID domain.StudyID, signUp accountmodels.SignUp, verifyEmail bool) (*accountmodels.Account, error)
	Update(ctx context.Context, acct *accountmodels.Account) error
	Page(ctx context.Context, studyID domain.StudyID, offset, size int, emailFilter string) (*accountmodels.PagedAccountSummaries, error)
}

type HealthCodes interface {
	Resolve(ctx context.Context, healthID domain.HealthID) (domain.HealthCode, error)
}

// ExternalIDs returns domain errors: CodeValidation for unknown IDs and
// CodeConflict for IDs held by someone else.
type ExternalIDs interface {
	Reserve(ctx context.Context, studyID domain.StudyID, id string) error
	Assign(ctx context.Context, studyID domain.StudyID, id string, healthCode domain.HealthCode) error
	Release(ctx context.Context, studyID domain.StudyID, id string) error
}

type OptionsStore interface {
	GetAll(ctx context.Context, healthCode domain.HealthCode) (options.Lookup, error)
	SetAll(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode, values map[domain.OptionKey]string) error
}

type Consents interface {
	History(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) ([]consent.ConsentHistory, error)
	Sign(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode, req consent.SignRequest) (*consent.ConsentHistory, error)
}

type Subpopulations interface {
	Subpopulations(studyID domain.StudyID) ([]study.Subpopulation, error)
}

type SessionCache interface {
	Create(ctx context.Context, sess *session.Session) error
	InvalidateByAccount(ctx context.Context, accountID domain.AccountID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
