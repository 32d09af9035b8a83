package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	accountmodels "cohort/internal/account/models"
	"cohort/internal/consent"
	"cohort/internal/participant/models"
	"cohort/internal/study"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

// GetParticipant assembles the participant view of an account. Accounts
// without a health code are returned with empty consent histories and unset
// option fields.
func (s *Service) GetParticipant(ctx context.Context, st *study.Study, email string) (_ *models.Participant, err error) {
	ctx, finish := s.start(ctx, "get", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return nil, err
	}
	if err := requireEmail(email); err != nil {
		return nil, err
	}

	acct, err := s.getAccount(ctx, st, email)
	if err != nil {
		return nil, err
	}
	healthCode, err := s.lookupHealthCode(ctx, acct)
	if err != nil {
		return nil, err
	}

	histories, err := s.consentHistories(ctx, st, healthCode)
	if err != nil {
		return nil, err
	}

	p := &models.Participant{
		FirstName:        acct.FirstName,
		LastName:         acct.LastName,
		Email:            acct.Email,
		Roles:            acct.Roles,
		Attributes:       configuredAttributes(st, acct),
		ConsentHistories: histories,
	}

	if !healthCode.IsEmpty() {
		lookup, err := s.deps.Options.GetAll(ctx, healthCode)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participant options")
		}
		notify := lookup.Bool(domain.OptionEmailNotifications)
		p.SharingScope = lookup.SharingScope()
		p.NotifyByEmail = &notify
		p.ExternalID = lookup.String(domain.OptionExternalIdentifier)
		p.DataGroups = lookup.StringSet(domain.OptionDataGroups)
		p.Languages = lookup.OrderedStringSet(domain.OptionLanguages)
	}

	if st.HealthCodeExportEnabled {
		p.HealthCode = healthCode
	}
	return p, nil
}

// consentHistories fetches one history per subpopulation concurrently. The
// result has an entry for every subpopulation, empty without a health code.
func (s *Service) consentHistories(ctx context.Context, st *study.Study, healthCode domain.HealthCode) (map[domain.SubpopulationGUID][]consent.ConsentHistory, error) {
	subpops, err := s.deps.Subpopulations.Subpopulations(st.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subpopulations")
	}

	results := make([][]consent.ConsentHistory, len(subpops))
	if !healthCode.IsEmpty() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentHistoryLookups)
		for i, sp := range subpops {
			g.Go(func() error {
				history, err := s.deps.Consents.History(gctx, st.ID, sp.GUID, healthCode)
				if err != nil {
					return fmt.Errorf("subpopulation %s: %w", sp.GUID, err)
				}
				results[i] = history
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent history")
		}
	}

	histories := make(map[domain.SubpopulationGUID][]consent.ConsentHistory, len(subpops))
	for i, sp := range subpops {
		if results[i] == nil {
			results[i] = []consent.ConsentHistory{}
		}
		histories[sp.GUID] = results[i]
	}
	return histories, nil
}

// configuredAttributes copies only the keys the study configures. Keys with
// no stored value are present with an empty value.
func configuredAttributes(st *study.Study, acct *accountmodels.Account) map[string]string {
	out := make(map[string]string, len(st.UserProfileAttributes))
	for _, key := range st.UserProfileAttributes {
		out[key] = acct.Attribute(key)
	}
	return out
}

// GetPagedAccountSummaries lists a page of the study roster.
func (s *Service) GetPagedAccountSummaries(ctx context.Context, st *study.Study, offsetBy, pageSize int, emailFilter string) (_ *accountmodels.PagedAccountSummaries, err error) {
	ctx, finish := s.start(ctx, "list", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return nil, err
	}
	if offsetBy < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "offsetBy cannot be less than 0")
	}
	if pageSize < s.minPageSize || pageSize > s.maxPageSize {
		return nil, dErrors.Newf(dErrors.CodeValidation, "pageSize must be from %d-%d records", s.minPageSize, s.maxPageSize)
	}
	page, err := s.deps.Accounts.Page(ctx, st.ID, offsetBy, pageSize, emailFilter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list accounts")
	}
	return page, nil
}
