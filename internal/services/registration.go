package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const (
	actionRegister   = "register"
	actionUnregister = "unregister"
)

type registrationService struct {
	tx      domain.TxRunner
	metrics *metrics.Metrics
}

// NewRegistrationService creates a RegistrationService. m may be nil.
func NewRegistrationService(tx domain.TxRunner, m *metrics.Metrics) domain.RegistrationService {
	return &registrationService{tx: tx, metrics: m}
}

// Register adds the conference to the caller's attending list and takes one seat. The profile
// and conference rows are locked and written in one transaction, so two callers racing for
// the last seat cannot both succeed.
func (s *registrationService) Register(ctx context.Context, p *domain.Principal, websafeKey string) (bool, error) {
	ok, err := s.run(ctx, p, websafeKey, func(prof *domain.Profile, conf *domain.Conference, key string) (bool, error) {
		if prof.IsAttending(key) {
			return false, fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
		}
		if conf.SeatsAvailable <= 0 {
			return false, fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
		}
		prof.ConferenceKeysToAttend = append(prof.ConferenceKeysToAttend, key)
		conf.SeatsAvailable--
		return true, nil
	})
	s.record(actionRegister, ok, err)
	return ok, err
}

// Unregister removes the conference from the caller's attending list and frees one seat.
// It returns false without writing anything when the caller was not registered.
func (s *registrationService) Unregister(ctx context.Context, p *domain.Principal, websafeKey string) (bool, error) {
	ok, err := s.run(ctx, p, websafeKey, func(prof *domain.Profile, conf *domain.Conference, key string) (bool, error) {
		if !prof.IsAttending(key) {
			return false, nil
		}
		prof.ConferenceKeysToAttend = slices.DeleteFunc(prof.ConferenceKeysToAttend, func(k string) bool { return k == key })
		if conf.SeatsAvailable < conf.MaxAttendees {
			conf.SeatsAvailable++
		}
		return true, nil
	})
	s.record(actionUnregister, ok, err)
	return ok, err
}

// run loads and locks both rows, lets mutate decide, and writes both back when it reports a change.
func (s *registrationService) run(
	ctx context.Context,
	p *domain.Principal,
	websafeKey string,
	mutate func(prof *domain.Profile, conf *domain.Conference, canonicalKey string) (bool, error),
) (bool, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return false, err
	}
	var changed bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st domain.Stores) error {
		changed = false
		prof, err := ensureProfile(ctx, st.Profiles, p, true)
		if err != nil {
			return err
		}
		conf, err := loadConference(ctx, st.Conferences, websafeKey, true)
		if err != nil {
			return err
		}
		ok, err := mutate(prof, conf, conf.Key().Encode())
		if err != nil || !ok {
			return err
		}
		if err := st.Profiles.Update(ctx, prof); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if err := st.Conferences.Update(ctx, conf); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (s *registrationService) record(action string, ok bool, err error) {
	switch {
	case err == nil && ok:
		s.metrics.IncRegistration(action, metrics.ResultSuccess)
	case err == nil:
		s.metrics.IncRegistration(action, metrics.ResultNoop)
	case errors.Is(err, domain.ErrConflict):
		s.metrics.IncRegistration(action, metrics.ResultConflict)
	default:
		s.metrics.IncRegistration(action, metrics.ResultError)
	}
}
