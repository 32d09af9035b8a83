package teardown

import (
	"context"
	"iter"

	accountmodels "cohort/internal/account/models"
	"cohort/pkg/domain"
	"cohort/pkg/platform/audit"
)

// Accounts reports absence with sentinel.ErrNotFound. Delete of an absent
// account is not an error.
type Accounts interface {
	Get(ctx context.Context, studyID domain.StudyID, email string) (*accountmodels.Account, error)
	Delete(ctx context.Context, studyID domain.StudyID, email string) error
	All(ctx context.Context) iter.Seq2[*accountmodels.Account, error]
}

type HealthCodes interface {
	Resolve(ctx context.Context, healthID domain.HealthID) (domain.HealthCode, error)
}

// Locker is non-blocking; a held lock fails with sentinel.ErrLockHeld.
type Locker interface {
	Acquire(ctx context.Context, kind, key string) (string, error)
	Release(ctx context.Context, kind, key, token string) error
}

type Consents interface {
	DeleteAllForHealthCode(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error
}

type HealthData interface {
	DeleteRecordsForHealthCode(ctx context.Context, healthCode domain.HealthCode) (int, error)
}

type Activities interface {
	DeleteActivitiesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error
	DeleteEventsForHealthCode(ctx context.Context, healthCode domain.HealthCode) error
}

type Surveys interface {
	DeleteResponsesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error
}

type Options interface {
	DeleteAll(ctx context.Context, healthCode domain.HealthCode) error
}

type Sessions interface {
	InvalidateByAccount(ctx context.Context, accountID domain.AccountID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
