package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

type conferenceService struct {
	stores domain.Stores
	tx     domain.TxRunner
	tasks  domain.TaskDispatcher
	logger *slog.Logger
}

// NewConferenceService creates a ConferenceService. tasks receives the confirmation email
// job after each successful create.
func NewConferenceService(stores domain.Stores, tx domain.TxRunner, tasks domain.TaskDispatcher, logger *slog.Logger) domain.ConferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &conferenceService{stores: stores, tx: tx, tasks: tasks, logger: logger}
}

// loadConference decodes a websafe conference key and loads the conference it addresses.
// A key whose organizer does not match the stored row addresses nothing.
func loadConference(ctx context.Context, repo domain.ConferenceRepository, websafeKey string, forUpdate bool) (*domain.Conference, error) {
	key, err := domain.DecodeKeyOfKind(websafeKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	get := repo.Get
	if forUpdate {
		get = repo.GetForUpdate
	}
	conf, err := get(ctx, key.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, websafeKey)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerUserID != key.Parent.Name {
		return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, websafeKey)
	}
	return conf, nil
}

func (s *conferenceService) displayName(ctx context.Context, userID string) (string, error) {
	prof, err := s.stores.Profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get organizer profile: %w", err)
	}
	return prof.DisplayName, nil
}

// toForms maps conferences with their organizers' display names, fetched in one batch.
func (s *conferenceService) toForms(ctx context.Context, confs []*domain.Conference) (*domain.ConferenceForms, error) {
	seen := make(map[string]bool, len(confs))
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		if !seen[c.OrganizerUserID] {
			seen[c.OrganizerUserID] = true
			ids = append(ids, c.OrganizerUserID)
		}
	}
	profiles, err := s.stores.Profiles.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get organizer profiles: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}
	out := &domain.ConferenceForms{Items: make([]*domain.ConferenceForm, 0, len(confs))}
	for _, c := range confs {
		out.Items = append(out.Items, conferenceToForm(c, names[c.OrganizerUserID]))
	}
	return out, nil
}

func (s *conferenceService) Create(ctx context.Context, p *domain.Principal, form *domain.ConferenceForm) (*domain.ConferenceForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, fmt.Errorf("%w: conference form is required", domain.ErrInvalidInput)
	}
	conf, err := conferenceFromForm(form, p.UserID)
	if err != nil {
		return nil, err
	}
	var organizer *domain.Profile
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st domain.Stores) error {
		prof, err := ensureProfile(ctx, st.Profiles, p, false)
		if err != nil {
			return err
		}
		c := *conf
		if err := st.Conferences.Create(ctx, &c); err != nil {
			return fmt.Errorf("create conference: %w", err)
		}
		conf.ID = c.ID
		organizer = prof
		return nil
	})
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		domain.ParamEmail:          p.Email,
		domain.ParamConferenceInfo: conferenceSummary(conf),
	}
	if err := s.tasks.Enqueue(ctx, domain.TaskSendConfirmationEmail, params); err != nil {
		s.logger.WarnContext(ctx, "enqueue confirmation email failed", "conference", conf.Key().String(), "err", err)
	}
	return conferenceToForm(conf, organizer.DisplayName), nil
}

func (s *conferenceService) Get(ctx context.Context, websafeKey string) (*domain.ConferenceForm, error) {
	conf, err := loadConference(ctx, s.stores.Conferences, websafeKey, false)
	if err != nil {
		return nil, err
	}
	name, err := s.displayName(ctx, conf.OrganizerUserID)
	if err != nil {
		return nil, err
	}
	return conferenceToForm(conf, name), nil
}

// Update applies form to the conference inside a transaction. Only the organizer may update.
func (s *conferenceService) Update(ctx context.Context, p *domain.Principal, websafeKey string, form *domain.ConferenceForm) (*domain.ConferenceForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	if form == nil {
		form = &domain.ConferenceForm{}
	}
	var updated *domain.Conference
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st domain.Stores) error {
		conf, err := loadConference(ctx, st.Conferences, websafeKey, true)
		if err != nil {
			return err
		}
		if conf.OrganizerUserID != p.UserID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}
		if err := applyConferenceUpdate(conf, form); err != nil {
			return err
		}
		if err := st.Conferences.Update(ctx, conf); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		updated = conf
		return nil
	})
	if err != nil {
		return nil, err
	}
	name, err := s.displayName(ctx, updated.OrganizerUserID)
	if err != nil {
		return nil, err
	}
	return conferenceToForm(updated, name), nil
}

func (s *conferenceService) ListCreated(ctx context.Context, p *domain.Principal) (*domain.ConferenceForms, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	confs, err := s.stores.Conferences.ListByOrganizer(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	name, err := s.displayName(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := &domain.ConferenceForms{Items: make([]*domain.ConferenceForm, 0, len(confs))}
	for _, c := range confs {
		out.Items = append(out.Items, conferenceToForm(c, name))
	}
	return out, nil
}

func (s *conferenceService) Query(ctx context.Context, form *domain.ConferenceQueryForms) (*domain.ConferenceForms, error) {
	var specs []domain.ConferenceQueryForm
	if form != nil {
		specs = form.Filters
	}
	q, err := query.Compile(specs)
	if err != nil {
		return nil, err
	}
	confs, err := s.stores.Conferences.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return s.toForms(ctx, confs)
}

// ListAttending returns the conferences in the caller's attending list. Keys that no
// longer resolve are skipped.
func (s *conferenceService) ListAttending(ctx context.Context, p *domain.Principal) (*domain.ConferenceForms, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	prof, err := ensureProfile(ctx, s.stores.Profiles, p, false)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(prof.ConferenceKeysToAttend))
	for _, k := range prof.ConferenceKeysToAttend {
		key, err := domain.DecodeKeyOfKind(k, domain.KindConference)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable attending key", "user_id", p.UserID, "key", k)
			continue
		}
		ids = append(ids, key.ID)
	}
	confs, err := s.stores.Conferences.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get attending conferences: %w", err)
	}
	return s.toForms(ctx, confs)
}

func (s *conferenceService) KeyByName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	conf, found, err := s.stores.Conferences.FindByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find conference by name: %w", err)
	}
	if !found {
		return "", fmt.Errorf("%w: no conference named %q", domain.ErrNotFound, name)
	}
	return conf.Key().Encode(), nil
}
