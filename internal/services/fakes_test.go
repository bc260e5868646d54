package services

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"

	"conferencecentral/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory entity store implementing every repository for tests.
// Reads return copies so callers cannot mutate stored rows without an Update.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	profiles    map[string]*domain.Profile
	conferences map[int64]*domain.Conference
	sessions    map[int64]*domain.Session
	wishlists   map[string]*domain.Wishlist
	reviews     []*domain.Review

	// err, if set, is returned by every call.
	err error
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    make(map[string]*domain.Profile),
		conferences: make(map[int64]*domain.Conference),
		sessions:    make(map[int64]*domain.Session),
		wishlists:   make(map[string]*domain.Wishlist),
	}
}

func (m *memStore) Stores() domain.Stores {
	return domain.Stores{
		Profiles:    memProfiles{m},
		Conferences: memConferences{m},
		Sessions:    memSessions{m},
		Wishlists:   memWishlists{m},
		Reviews:     memReviews{m},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func copyProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.ConferenceKeysToAttend = append([]string{}, p.ConferenceKeysToAttend...)
	return &c
}

func copyConference(c *domain.Conference) *domain.Conference {
	out := *c
	out.Topics = append([]string{}, c.Topics...)
	return &out
}

func copySession(s *domain.Session) *domain.Session {
	out := *s
	out.Highlights = append([]string{}, s.Highlights...)
	return &out
}

// seedProfile stores a profile directly.
func (m *memStore) seedProfile(p *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = copyProfile(p)
}

// seedConference stores a conference directly and returns it with its id.
func (m *memStore) seedConference(c *domain.Conference) *domain.Conference {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.conferences[c.ID] = copyConference(c)
	return c
}

func (m *memStore) seedSession(s *domain.Session) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	if conf, ok := m.conferences[s.ConferenceID]; ok {
		s.OrganizerUserID = conf.OrganizerUserID
	}
	m.sessions[s.ID] = copySession(s)
	return s
}

func (m *memStore) conference(id int64) *domain.Conference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyConference(m.conferences[id])
}

func (m *memStore) profile(userID string) *domain.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil
	}
	return copyProfile(p)
}

type memProfiles struct{ m *memStore }

func (r memProfiles) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	p, ok := r.m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyProfile(p), nil
}

func (r memProfiles) GetForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.Get(ctx, userID)
}

func (r memProfiles) GetMulti(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*domain.Profile{}
	for _, id := range userIDs {
		if p, ok := r.m.profiles[id]; ok {
			out = append(out, copyProfile(p))
		}
	}
	return out, nil
}

func (r memProfiles) Create(ctx context.Context, p *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	if _, ok := r.m.profiles[p.UserID]; !ok {
		r.m.profiles[p.UserID] = copyProfile(p)
	}
	return nil
}

func (r memProfiles) Update(ctx context.Context, p *domain.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.m.profiles[p.UserID] = copyProfile(p)
	return nil
}

type memConferences struct{ m *memStore }

func (r memConferences) Create(ctx context.Context, c *domain.Conference) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	c.ID = r.m.id()
	r.m.conferences[c.ID] = copyConference(c)
	return nil
}

func (r memConferences) Get(ctx context.Context, id int64) (*domain.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	c, ok := r.m.conferences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyConference(c), nil
}

func (r memConferences) GetForUpdate(ctx context.Context, id int64) (*domain.Conference, error) {
	return r.Get(ctx, id)
}

func (r memConferences) Update(ctx context.Context, c *domain.Conference) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.conferences[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if c.SeatsAvailable < 0 || c.SeatsAvailable > c.MaxAttendees {
		return errors.New("seat invariant violated")
	}
	r.m.conferences[c.ID] = copyConference(c)
	return nil
}

func (r memConferences) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*domain.Conference{}
	for _, id := range ids {
		if c, ok := r.m.conferences[id]; ok {
			out = append(out, copyConference(c))
		}
	}
	sortConferences(out, []domain.ConferenceField{domain.FieldName})
	return out, nil
}

func (r memConferences) all(keep func(*domain.Conference) bool) []*domain.Conference {
	out := []*domain.Conference{}
	for _, c := range r.m.conferences {
		if keep(c) {
			out = append(out, copyConference(c))
		}
	}
	return out
}

func (r memConferences) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(func(c *domain.Conference) bool { return c.OrganizerUserID == organizerUserID })
	sortConferences(out, []domain.ConferenceField{domain.FieldName})
	return out, nil
}

func (r memConferences) FindByName(ctx context.Context, name string) (*domain.Conference, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, false, r.m.err
	}
	matches := r.all(func(c *domain.Conference) bool { return c.Name == name })
	if len(matches) == 0 {
		return nil, false, nil
	}
	slices.SortFunc(matches, func(a, b *domain.Conference) int { return cmp.Compare(a.ID, b.ID) })
	return matches[0], true, nil
}

func (r memConferences) Query(ctx context.Context, q domain.ConferenceQuery) ([]*domain.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(func(c *domain.Conference) bool {
		for _, f := range q.Filters {
			if !matchFilter(c, f) {
				return false
			}
		}
		return true
	})
	sortConferences(out, q.Order)
	return out, nil
}

func (r memConferences) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(func(c *domain.Conference) bool { return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats })
	sortConferences(out, []domain.ConferenceField{domain.FieldName})
	return out, nil
}

func compareOp[T cmp.Ordered](a, b T, op domain.Operator) bool {
	c := cmp.Compare(a, b)
	switch op {
	case domain.OpEQ:
		return c == 0
	case domain.OpNE:
		return c != 0
	case domain.OpGT:
		return c > 0
	case domain.OpGTEQ:
		return c >= 0
	case domain.OpLT:
		return c < 0
	case domain.OpLTEQ:
		return c <= 0
	}
	return false
}

func matchFilter(c *domain.Conference, f domain.Filter) bool {
	switch f.Field {
	case domain.FieldCity:
		return compareOp(c.City, f.Value.(string), f.Op)
	case domain.FieldMonth:
		return compareOp(c.Month, f.Value.(int), f.Op)
	case domain.FieldMaxAttendees:
		return compareOp(c.MaxAttendees, f.Value.(int), f.Op)
	case domain.FieldTopics:
		for _, t := range c.Topics {
			if compareOp(t, f.Value.(string), f.Op) {
				return true
			}
		}
	}
	return false
}

func sortConferences(cs []*domain.Conference, order []domain.ConferenceField) {
	slices.SortFunc(cs, func(a, b *domain.Conference) int {
		for _, f := range order {
			var c int
			switch f {
			case domain.FieldName:
				c = cmp.Compare(a.Name, b.Name)
			case domain.FieldCity:
				c = cmp.Compare(a.City, b.City)
			case domain.FieldMonth:
				c = cmp.Compare(a.Month, b.Month)
			case domain.FieldMaxAttendees:
				c = cmp.Compare(a.MaxAttendees, b.MaxAttendees)
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

type memSessions struct{ m *memStore }

func (r memSessions) Create(ctx context.Context, s *domain.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	s.ID = r.m.id()
	r.m.sessions[s.ID] = copySession(s)
	return nil
}

func (r memSessions) Get(ctx context.Context, id int64) (*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copySession(s), nil
}

func (r memSessions) filter(keep func(*domain.Session) bool) []*domain.Session {
	out := []*domain.Session{}
	for _, s := range r.m.sessions {
		if keep(s) {
			out = append(out, copySession(s))
		}
	}
	slices.SortFunc(out, func(a, b *domain.Session) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r memSessions) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filter(func(s *domain.Session) bool { return slices.Contains(ids, s.ID) }), nil
}

func (r memSessions) FindByName(ctx context.Context, name string) (*domain.Session, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matches := r.filter(func(s *domain.Session) bool { return s.Name == name })
	if len(matches) == 0 {
		return nil, false, nil
	}
	return matches[0], true, nil
}

func (r memSessions) ListByConference(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filter(func(s *domain.Session) bool { return s.ConferenceID == conferenceID }), nil
}

func (r memSessions) ListByType(ctx context.Context, conferenceID *int64, t domain.SessionType) ([]*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filter(func(s *domain.Session) bool {
		return s.Type == t && (conferenceID == nil || s.ConferenceID == *conferenceID)
	}), nil
}

func (r memSessions) ListBySpeaker(ctx context.Context, speaker string, conferenceID *int64) ([]*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.filter(func(s *domain.Session) bool {
		return s.SpeakerDisplayName == speaker && (conferenceID == nil || s.ConferenceID == *conferenceID)
	}), nil
}

func (r memSessions) QueryExcludingType(ctx context.Context, w domain.SessionWindow) ([]*domain.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filter(func(s *domain.Session) bool {
		if s.Type == w.ExcludeType {
			return false
		}
		if w.ConferenceID != nil && s.ConferenceID != *w.ConferenceID {
			return false
		}
		if w.NotBefore != nil && (s.StartTime == nil || s.StartTime.Before(*w.NotBefore)) {
			return false
		}
		if w.NotAfter != nil && (s.StartTime == nil || !s.StartTime.Before(*w.NotAfter)) {
			return false
		}
		return true
	})
	// Same order as the SQL: start time (unset last), then name.
	slices.SortStableFunc(out, func(a, b *domain.Session) int {
		switch {
		case a.StartTime == nil && b.StartTime == nil:
			return 0
		case a.StartTime == nil:
			return 1
		case b.StartTime == nil:
			return -1
		}
		return a.StartTime.Compare(*b.StartTime)
	})
	return out, nil
}

type memWishlists struct{ m *memStore }

func (r memWishlists) Ensure(ctx context.Context, userID, email string) (*domain.Wishlist, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	w, ok := r.m.wishlists[userID]
	if !ok {
		w = &domain.Wishlist{ID: r.m.id(), UserID: userID, UserEmail: email, SessionIDs: []int64{}}
		r.m.wishlists[userID] = w
	}
	out := *w
	out.SessionIDs = append([]int64{}, w.SessionIDs...)
	return &out, nil
}

func (r memWishlists) GetByUser(ctx context.Context, userID string) (*domain.Wishlist, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	w, ok := r.m.wishlists[userID]
	if !ok {
		return nil, false, nil
	}
	out := *w
	out.SessionIDs = append([]int64{}, w.SessionIDs...)
	return &out, true, nil
}

func (r memWishlists) AddSession(ctx context.Context, wishlistID, sessionID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, w := range r.m.wishlists {
		if w.ID == wishlistID && !slices.Contains(w.SessionIDs, sessionID) {
			w.SessionIDs = append(w.SessionIDs, sessionID)
		}
	}
	return nil
}

type memReviews struct{ m *memStore }

func (r memReviews) Create(ctx context.Context, rev *domain.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rev.ID = r.m.id()
	c := *rev
	r.m.reviews = append(r.m.reviews, &c)
	return nil
}

func (r memReviews) ListBySessionName(ctx context.Context, sessionName string) ([]*domain.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*domain.Review{}
	for _, rev := range r.m.reviews {
		if rev.SessionName == sessionName {
			c := *rev
			out = append(out, &c)
		}
	}
	return out, nil
}

// serialTx runs transactions one at a time against the in-memory store.
type serialTx struct {
	mu    sync.Mutex
	store *memStore
	runs  int
}

func (t *serialTx) RunInTx(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs++
	return fn(ctx, t.store.Stores())
}

type enqueued struct {
	name   string
	params map[string]string
}

// fakeTasks records enqueued jobs.
type fakeTasks struct {
	mu   sync.Mutex
	jobs []enqueued
	err  error
}

func (f *fakeTasks) Enqueue(ctx context.Context, name string, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, enqueued{name: name, params: params})
	return nil
}

// fakeCache is a map-backed Cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.data, key)
	return nil
}
