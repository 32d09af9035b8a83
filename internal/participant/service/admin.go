package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	accountmodels "cohort/internal/account/models"
	"cohort/internal/consent"
	"cohort/internal/session"
	"cohort/internal/study"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/audit"
	"cohort/pkg/requestcontext"
)

// DefaultSessionTTL bounds sessions opened by CreateUser.
const DefaultSessionTTL = 12 * time.Hour

// adminConsentBirthdate is recorded on signatures made on a user's behalf.
const adminConsentBirthdate = "1989-08-19"

// CreateUserRequest is the input to CreateUser.
type CreateUserRequest struct {
	SignUp accountmodels.SignUp
	// Subpopulation to consent to. Empty means the study's default
	// subpopulation, whose GUID is the study ID.
	Subpopulation domain.SubpopulationGUID
	// Consent signs the subpopulation's consent for the user with sharing
	// scope no_sharing.
	Consent bool
	// SignIn keeps a session open for the new user and returns it.
	SignIn bool
}

// CreateUser is the administrative sign-up used to provision test and
// researcher accounts. Email verification is skipped. It returns the new
// session when req.SignIn is set and nil otherwise.
func (s *Service) CreateUser(ctx context.Context, st *study.Study, req CreateUserRequest) (_ *session.Session, err error) {
	ctx, finish := s.start(ctx, "admin_create", st)
	defer finish(&err)

	if err := requireStudy(st); err != nil {
		return nil, err
	}
	if err := req.SignUp.Validate(); err != nil {
		return nil, err
	}
	subpop := req.Subpopulation
	if subpop == "" {
		subpop = domain.SubpopulationGUID(st.ID)
	}
	if req.Consent {
		if err := s.requireSubpopulation(st, subpop); err != nil {
			return nil, err
		}
	}

	acct, err := s.signUp(ctx, st, req.SignUp, false)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventParticipantCreated, acct, "admin", true)

	if req.Consent {
		if err := s.consentOnBehalf(ctx, st, acct, subpop); err != nil {
			return nil, err
		}
	}

	if !req.SignIn {
		return nil, nil
	}
	sess := session.New(acct.ID, st.ID, requestcontext.Now(ctx), s.sessionTTL)
	if err := s.deps.Sessions.Create(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open session")
	}
	return sess, nil
}

func (s *Service) requireSubpopulation(st *study.Study, guid domain.SubpopulationGUID) error {
	subpops, err := s.deps.Subpopulations.Subpopulations(st.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subpopulations")
	}
	if !slices.ContainsFunc(subpops, func(sp study.Subpopulation) bool { return sp.GUID == guid }) {
		return dErrors.Newf(dErrors.CodeValidation, "unknown subpopulation: %s", guid)
	}
	return nil
}

// consentOnBehalf signs the consent and records the no_sharing scope the
// signature implies.
func (s *Service) consentOnBehalf(ctx context.Context, st *study.Study, acct *accountmodels.Account, subpop domain.SubpopulationGUID) error {
	healthCode, err := s.requireHealthCode(ctx, acct)
	if err != nil {
		return err
	}
	if _, err := s.deps.Consents.Sign(ctx, st.ID, subpop, healthCode, consent.SignRequest{
		Name:      fmt.Sprintf("[Signature for %s]", acct.Email),
		Birthdate: adminConsentBirthdate,
	}); err != nil {
		return err
	}
	if err := s.writeOptions(ctx, st, healthCode, map[domain.OptionKey]string{
		domain.OptionSharingScope: string(domain.SharingScopeNone),
	}); err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventConsentSigned, acct, "subpopulation", string(subpop))
	return nil
}
