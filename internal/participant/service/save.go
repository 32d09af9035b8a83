package service

import (
	"context"
	"errors"
	"maps"
	"strings"

	accountmodels "cohort/internal/account/models"
	"cohort/internal/participant/models"
	"cohort/internal/participant/validation"
	"cohort/internal/study"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/audit"
	"cohort/pkg/platform/sentinel"
)

// CreateParticipant signs up a new participant.
func (s *Service) CreateParticipant(ctx context.Context, st *study.Study, p *models.Participant) error {
	return s.SaveParticipant(ctx, st, "", p, true)
}

// UpdateParticipant rewrites an existing participant's options and profile.
func (s *Service) UpdateParticipant(ctx context.Context, st *study.Study, email string, p *models.Participant) error {
	return s.SaveParticipant(ctx, st, email, p, false)
}

// SaveParticipant validates p and then writes, in order: the account (new
// participants only), the full option set, the account profile and, for new
// participants under strict external ID validation, the external ID
// assignment. Nothing is written when validation fails.
func (s *Service) SaveParticipant(ctx context.Context, st *study.Study, email string, p *models.Participant, isNew bool) (err error) {
	operation := "update"
	if isNew {
		operation = "create"
	}
	ctx, finish := s.start(ctx, operation, st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return err
	}
	if !isNew {
		if err := requireEmail(email); err != nil {
			return err
		}
	}
	if err := validation.NewParticipantValidator(st, isNew).Validate(p); err != nil {
		return err
	}

	if isNew {
		return s.createParticipant(ctx, st, p)
	}
	return s.updateParticipant(ctx, st, email, p)
}

func (s *Service) createParticipant(ctx context.Context, st *study.Study, p *models.Participant) error {
	strict := st.ExternalIDValidationEnabled
	externalID := strings.TrimSpace(p.ExternalID)

	// Reserve first so a taken or unknown ID fails before an account exists.
	if strict {
		if err := s.deps.ExternalIDs.Reserve(ctx, st.ID, externalID); err != nil {
			return err
		}
	}
	assigned := false
	defer func() {
		if strict && !assigned {
			s.releaseReservation(ctx, st, externalID)
		}
	}()

	acct, err := s.signUp(ctx, st, accountmodels.SignUp{
		Email:    p.Email,
		Password: p.Password,
		Roles:    p.Roles,
	}, st.EmailVerificationEnabled)
	if err != nil {
		return err
	}

	healthCode, err := s.requireHealthCode(ctx, acct)
	if err != nil {
		return err
	}

	if err := s.writeOptions(ctx, st, healthCode, p.OptionValues()); err != nil {
		return err
	}

	copyProfile(st, acct, p.FirstName, p.LastName, p.Attributes)
	if err := s.updateAccount(ctx, acct); err != nil {
		return err
	}

	// Assigned last: the ID is only bound once everything else exists.
	if strict {
		if err := s.deps.ExternalIDs.Assign(ctx, st.ID, externalID, healthCode); err != nil {
			return err
		}
		assigned = true
		s.logAudit(ctx, audit.EventExternalIDAssigned, acct)
	}

	s.logAudit(ctx, audit.EventParticipantCreated, acct)
	return nil
}

func (s *Service) signUp(ctx context.Context, st *study.Study, signUp accountmodels.SignUp, verifyEmail bool) (*accountmodels.Account, error) {
	acct, err := s.deps.Accounts.Create(ctx, st.ID, signUp, verifyEmail)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		case dErrors.CodeOf(err) != dErrors.CodeInternal:
			return nil, err
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
		}
	}
	return acct, nil
}

// releaseReservation compensates a failed creation so the ID can be used again.
func (s *Service) releaseReservation(ctx context.Context, st *study.Study, externalID string) {
	if err := s.deps.ExternalIDs.Release(context.WithoutCancel(ctx), st.ID, externalID); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to release external id reservation",
				"study_id", string(st.ID),
				"error", err,
			)
		}
		return
	}
	s.metrics.incReservationReleased()
}

func (s *Service) updateParticipant(ctx context.Context, st *study.Study, email string, p *models.Participant) error {
	acct, err := s.getAccount(ctx, st, email)
	if err != nil {
		return err
	}
	healthCode, err := s.requireHealthCode(ctx, acct)
	if err != nil {
		return err
	}

	// Checked before any other write so a rejected transition changes nothing.
	if st.ExternalIDValidationEnabled {
		if err := s.applyExternalIDTransition(ctx, st, acct, healthCode, p.ExternalID); err != nil {
			return err
		}
	}

	if err := s.writeOptions(ctx, st, healthCode, p.OptionValues()); err != nil {
		return err
	}

	copyProfile(st, acct, p.FirstName, p.LastName, p.Attributes)
	if err := s.updateAccount(ctx, acct); err != nil {
		return err
	}

	s.logAudit(ctx, audit.EventParticipantUpdated, acct)
	return nil
}

// applyExternalIDTransition enforces write-once external IDs. With current
// value current and requested value requested:
//
//	current == requested (both may be blank) -> no-op
//	current blank, requested set             -> assign through the registry
//	anything else                            -> validation error
func (s *Service) applyExternalIDTransition(ctx context.Context, st *study.Study, acct *accountmodels.Account, healthCode domain.HealthCode, requested string) error {
	lookup, err := s.deps.Options.GetAll(ctx, healthCode)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load participant options")
	}
	current := strings.TrimSpace(lookup.String(domain.OptionExternalIdentifier))
	requested = strings.TrimSpace(requested)

	switch {
	case current == requested:
		return nil
	case current == "" && requested != "":
		if err := s.deps.ExternalIDs.Assign(ctx, st.ID, requested, healthCode); err != nil {
			return err
		}
		s.logAudit(ctx, audit.EventExternalIDAssigned, acct)
		return nil
	default:
		return dErrors.New(dErrors.CodeValidation, "external IDs are write-once: they cannot be changed or removed after assignment")
	}
}

// writeOptions stores values as one batch. Under strict external ID
// validation the registry owns the external ID option, so it is dropped here.
func (s *Service) writeOptions(ctx context.Context, st *study.Study, healthCode domain.HealthCode, values map[domain.OptionKey]string) error {
	batch := maps.Clone(values)
	if st.ExternalIDValidationEnabled {
		delete(batch, domain.OptionExternalIdentifier)
	}
	if len(batch) == 0 {
		return nil
	}
	if err := s.deps.Options.SetAll(ctx, st.ID, healthCode, batch); err != nil {
		if dErrors.CodeOf(err) != dErrors.CodeInternal {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write participant options")
	}
	return nil
}
