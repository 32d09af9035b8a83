package service

import (
	"context"
	"maps"
	"strings"

	"cohort/internal/participant/models"
	"cohort/internal/participant/validation"
	"cohort/internal/study"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/audit"
	pstrings "cohort/pkg/platform/strings"
)

// UpdateParticipantOptions writes the supplied options for one participant.
// Keys that are not supplied keep their stored values.
func (s *Service) UpdateParticipantOptions(ctx context.Context, st *study.Study, email string, values map[domain.OptionKey]string) (err error) {
	ctx, finish := s.start(ctx, "update_options", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return err
	}
	if err := requireEmail(email); err != nil {
		return err
	}
	acct, err := s.getAccount(ctx, st, email)
	if err != nil {
		return err
	}
	healthCode, err := s.requireHealthCode(ctx, acct)
	if err != nil {
		return err
	}

	batch, err := normalizeOptions(st, values)
	if err != nil {
		return err
	}

	if externalID, ok := batch[domain.OptionExternalIdentifier]; ok && st.ExternalIDValidationEnabled {
		if err := s.applyExternalIDTransition(ctx, st, acct, healthCode, externalID); err != nil {
			return err
		}
	}
	if err := s.writeOptions(ctx, st, healthCode, batch); err != nil {
		return err
	}

	keys := make([]string, 0, len(batch))
	for key := range batch {
		keys = append(keys, string(key))
	}
	s.logAudit(ctx, audit.EventParticipantOptionsUpdated, acct, "options", strings.Join(keys, ","))
	return nil
}

// normalizeOptions validates the supplied values before anything is written.
// Data groups are reduced to an ordered set of known groups.
func normalizeOptions(st *study.Study, values map[domain.OptionKey]string) (map[domain.OptionKey]string, error) {
	batch := maps.Clone(values)
	if batch == nil {
		batch = map[domain.OptionKey]string{}
	}
	for key, value := range batch {
		if !key.IsValid() {
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown option: %s", key)
		}
		switch key {
		case domain.OptionDataGroups:
			groups := pstrings.CommaListToOrderedSet(value)
			if err := validation.ValidateDataGroups(st.DataGroups, groups); err != nil {
				return nil, err
			}
			batch[key] = pstrings.SetToCommaList(groups)
		case domain.OptionLanguages:
			batch[key] = pstrings.SetToCommaList(pstrings.CommaListToOrderedSet(value))
		case domain.OptionSharingScope:
			// blank leaves the stored scope untouched
			if strings.TrimSpace(value) == "" {
				delete(batch, key)
				continue
			}
			scope, err := domain.ParseSharingScope(value)
			if err != nil {
				return nil, dErrors.Newf(dErrors.CodeValidation, "sharingScope %q is not valid", value)
			}
			batch[key] = string(scope)
		}
	}
	return batch, nil
}

// UpdateProfile copies the name and configured attributes onto the account.
func (s *Service) UpdateProfile(ctx context.Context, st *study.Study, email string, profile models.UserProfile) (err error) {
	ctx, finish := s.start(ctx, "update_profile", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return err
	}
	if err := requireEmail(email); err != nil {
		return err
	}
	acct, err := s.getAccount(ctx, st, email)
	if err != nil {
		return err
	}
	copyProfile(st, acct, profile.FirstName, profile.LastName, profile.Attributes)
	if err := s.updateAccount(ctx, acct); err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventParticipantProfileUpdated, acct)
	return nil
}

// SignUserOut drops every cached session of the participant.
func (s *Service) SignUserOut(ctx context.Context, st *study.Study, email string) (err error) {
	ctx, finish := s.start(ctx, "sign_out", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return err
	}
	if err := requireEmail(email); err != nil {
		return err
	}
	acct, err := s.getAccount(ctx, st, email)
	if err != nil {
		return err
	}
	if err := s.deps.Sessions.InvalidateByAccount(ctx, acct.ID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate sessions")
	}
	s.logAudit(ctx, audit.EventParticipantSignedOut, acct)
	return nil
}
