package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"conferencecentral/internal/domain"
)

type sessionService struct {
	stores domain.Stores
	tasks  domain.TaskDispatcher
	logger *slog.Logger
}

// NewSessionService creates a SessionService. tasks receives a featured-speaker job after each create.
func NewSessionService(stores domain.Stores, tasks domain.TaskDispatcher, logger *slog.Logger) domain.SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{stores: stores, tasks: tasks, logger: logger}
}

// resolveConference loads the conference a ref points at, by websafe key or by name.
func resolveConference(ctx context.Context, repo domain.ConferenceRepository, ref domain.ConferenceRef) (*domain.Conference, error) {
	switch {
	case ref.WebsafeKey != "":
		return loadConference(ctx, repo, ref.WebsafeKey, false)
	case strings.TrimSpace(ref.Name) != "":
		conf, found, err := repo.FindByName(ctx, strings.TrimSpace(ref.Name))
		if err != nil {
			return nil, fmt.Errorf("find conference by name: %w", err)
		}
		if !found {
			return nil, fmt.Errorf("%w: no conference named %q", domain.ErrNotFound, ref.Name)
		}
		return conf, nil
	default:
		return nil, fmt.Errorf("%w: a conference key or name is required", domain.ErrInvalidInput)
	}
}

func (s *sessionService) Create(ctx context.Context, p *domain.Principal, ref domain.ConferenceRef, form *domain.SessionForm) (*domain.SessionForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, fmt.Errorf("%w: session form is required", domain.ErrInvalidInput)
	}
	conf, err := resolveConference(ctx, s.stores.Conferences, ref)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != p.UserID {
		return nil, fmt.Errorf("%w: only the conference organizer can add sessions", domain.ErrForbidden)
	}
	session, err := sessionFromForm(form, conf)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	params := map[string]string{
		domain.ParamSpeaker:              session.SpeakerDisplayName,
		domain.ParamWebsafeConferenceKey: conf.Key().Encode(),
	}
	if err := s.tasks.Enqueue(ctx, domain.TaskSetFeaturedSpeaker, params); err != nil {
		s.logger.WarnContext(ctx, "enqueue featured speaker failed", "session", session.Key().String(), "err", err)
	}
	return sessionToForm(session), nil
}

func (s *sessionService) ListByConference(ctx context.Context, ref domain.ConferenceRef) (*domain.SessionForms, error) {
	conf, err := resolveConference(ctx, s.stores.Conferences, ref)
	if err != nil {
		return nil, err
	}
	sessions, err := s.stores.Sessions.ListByConference(ctx, conf.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by conference: %w", err)
	}
	return sessionsToForms(sessions), nil
}

func parseSessionType(s string) (domain.SessionType, error) {
	t, ok := domain.SessionTypes.Lookup(strings.TrimSpace(s))
	if !ok {
		return "", fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func (s *sessionService) ListByType(ctx context.Context, ref domain.ConferenceRef, sessionType string) (*domain.SessionForms, error) {
	t, err := parseSessionType(sessionType)
	if err != nil {
		return nil, err
	}
	conf, err := resolveConference(ctx, s.stores.Conferences, ref)
	if err != nil {
		return nil, err
	}
	sessions, err := s.stores.Sessions.ListByType(ctx, &conf.ID, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessionsToForms(sessions), nil
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speaker string) (*domain.SessionForms, error) {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return nil, fmt.Errorf("%w: speaker is required", domain.ErrInvalidInput)
	}
	sessions, err := s.stores.Sessions.ListBySpeaker(ctx, speaker, nil)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessionsToForms(sessions), nil
}

// QueryExcludingType returns sessions of any type but the excluded one that start at or
// after sessionAfterTime and strictly before sessionBeforeTime. Either bound may be omitted.
func (s *sessionService) QueryExcludingType(ctx context.Context, form *domain.SessionsExcludingTypeForm) (*domain.SessionForms, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: query form is required", domain.ErrInvalidInput)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	t, err := parseSessionType(form.SessionType)
	if err != nil {
		return nil, err
	}
	notBefore, err := parseClock("sessionAfterTime", form.SessionAfterTime)
	if err != nil {
		return nil, err
	}
	notAfter, err := parseClock("sessionBeforeTime", form.SessionBeforeTime)
	if err != nil {
		return nil, err
	}
	if notBefore != nil && notAfter != nil && !notBefore.Before(*notAfter) {
		return nil, fmt.Errorf("%w: sessionAfterTime must be earlier than sessionBeforeTime", domain.ErrInvalidInput)
	}
	w := domain.SessionWindow{ExcludeType: t, NotBefore: notBefore, NotAfter: notAfter}
	if form.WebsafeConferenceKey != "" {
		conf, err := loadConference(ctx, s.stores.Conferences, form.WebsafeConferenceKey, false)
		if err != nil {
			return nil, err
		}
		w.ConferenceID = &conf.ID
	}
	sessions, err := s.stores.Sessions.QueryExcludingType(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("query sessions excluding type: %w", err)
	}
	return sessionsToForms(sessions), nil
}
