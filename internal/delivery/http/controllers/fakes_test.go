package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var caller = &domain.Principal{UserID: "user-1", Email: "ada@example.com", Nickname: "ada"}

// newRequest builds a request with an optional JSON body and principal.
func newRequest(t *testing.T, method, target string, body any, p *domain.Principal) *http.Request {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if p != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), p))
	}
	return req
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when given.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

type fakeConferenceService struct {
	conf      *domain.ConferenceForm
	confs     *domain.ConferenceForms
	key       string
	err       error
	lastP     *domain.Principal
	lastKey   string
	lastName  string
	lastForm  *domain.ConferenceForm
	lastQuery *domain.ConferenceQueryForms
}

func (f *fakeConferenceService) Create(ctx context.Context, p *domain.Principal, form *domain.ConferenceForm) (*domain.ConferenceForm, error) {
	f.lastP, f.lastForm = p, form
	return f.conf, f.err
}

func (f *fakeConferenceService) Get(ctx context.Context, websafeKey string) (*domain.ConferenceForm, error) {
	f.lastKey = websafeKey
	return f.conf, f.err
}

func (f *fakeConferenceService) Update(ctx context.Context, p *domain.Principal, websafeKey string, form *domain.ConferenceForm) (*domain.ConferenceForm, error) {
	f.lastP, f.lastKey, f.lastForm = p, websafeKey, form
	return f.conf, f.err
}

func (f *fakeConferenceService) ListCreated(ctx context.Context, p *domain.Principal) (*domain.ConferenceForms, error) {
	f.lastP = p
	return f.confs, f.err
}

func (f *fakeConferenceService) Query(ctx context.Context, form *domain.ConferenceQueryForms) (*domain.ConferenceForms, error) {
	f.lastQuery = form
	return f.confs, f.err
}

func (f *fakeConferenceService) ListAttending(ctx context.Context, p *domain.Principal) (*domain.ConferenceForms, error) {
	f.lastP = p
	return f.confs, f.err
}

func (f *fakeConferenceService) KeyByName(ctx context.Context, name string) (string, error) {
	f.lastName = name
	return f.key, f.err
}

type fakeRegistrationService struct {
	ok      bool
	err     error
	action  string
	lastKey string
}

func (f *fakeRegistrationService) Register(ctx context.Context, p *domain.Principal, websafeKey string) (bool, error) {
	f.action, f.lastKey = "register", websafeKey
	if p == nil {
		return false, domain.ErrUnauthorized
	}
	return f.ok, f.err
}

func (f *fakeRegistrationService) Unregister(ctx context.Context, p *domain.Principal, websafeKey string) (bool, error) {
	f.action, f.lastKey = "unregister", websafeKey
	if p == nil {
		return false, domain.ErrUnauthorized
	}
	return f.ok, f.err
}

type fakeSessionService struct {
	session  *domain.SessionForm
	sessions *domain.SessionForms
	err      error
	lastRef  domain.ConferenceRef
	lastArg  string
	lastForm *domain.SessionForm
	lastEx   *domain.SessionsExcludingTypeForm
}

func (f *fakeSessionService) Create(ctx context.Context, p *domain.Principal, ref domain.ConferenceRef, form *domain.SessionForm) (*domain.SessionForm, error) {
	f.lastRef, f.lastForm = ref, form
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return f.session, f.err
}

func (f *fakeSessionService) ListByConference(ctx context.Context, ref domain.ConferenceRef) (*domain.SessionForms, error) {
	f.lastRef = ref
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByType(ctx context.Context, ref domain.ConferenceRef, sessionType string) (*domain.SessionForms, error) {
	f.lastRef, f.lastArg = ref, sessionType
	return f.sessions, f.err
}

func (f *fakeSessionService) ListBySpeaker(ctx context.Context, speaker string) (*domain.SessionForms, error) {
	f.lastArg = speaker
	return f.sessions, f.err
}

func (f *fakeSessionService) QueryExcludingType(ctx context.Context, form *domain.SessionsExcludingTypeForm) (*domain.SessionForms, error) {
	f.lastEx = form
	return f.sessions, f.err
}

type fakeProfileService struct {
	profile  *domain.ProfileForm
	err      error
	lastForm *domain.ProfileMiniForm
}

func (f *fakeProfileService) Get(ctx context.Context, p *domain.Principal) (*domain.ProfileForm, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return f.profile, f.err
}

func (f *fakeProfileService) Save(ctx context.Context, p *domain.Principal, form *domain.ProfileMiniForm) (*domain.ProfileForm, error) {
	f.lastForm = form
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return f.profile, f.err
}

type fakeWishlistService struct {
	ok       bool
	sessions *domain.SessionForms
	err      error
	lastArg  string
}

func (f *fakeWishlistService) AddByKey(ctx context.Context, p *domain.Principal, websafeSessionKey string) (bool, error) {
	f.lastArg = websafeSessionKey
	return f.ok, f.err
}

func (f *fakeWishlistService) AddByName(ctx context.Context, p *domain.Principal, sessionName string) (bool, error) {
	f.lastArg = sessionName
	return f.ok, f.err
}

func (f *fakeWishlistService) List(ctx context.Context, p *domain.Principal) (*domain.SessionForms, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return f.sessions, f.err
}

type fakeReviewService struct {
	review   *domain.ReviewForm
	reviews  *domain.ReviewForms
	err      error
	lastForm *domain.ReviewForm
	lastName string
}

func (f *fakeReviewService) Post(ctx context.Context, p *domain.Principal, form *domain.ReviewForm) (*domain.ReviewForm, error) {
	f.lastForm = form
	return f.review, f.err
}

func (f *fakeReviewService) ListBySession(ctx context.Context, p *domain.Principal, sessionName string) (*domain.ReviewForms, error) {
	f.lastName = sessionName
	return f.reviews, f.err
}

type fakeAnnouncementService struct {
	announcement string
	featured     string
	err          error
	refreshed    int
}

func (f *fakeAnnouncementService) RefreshAnnouncement(ctx context.Context) (string, error) {
	f.refreshed++
	return f.announcement, f.err
}

func (f *fakeAnnouncementService) Announcement(ctx context.Context) (string, error) {
	return f.announcement, f.err
}

func (f *fakeAnnouncementService) RefreshFeaturedSpeaker(ctx context.Context, speaker, websafeConferenceKey string) (bool, error) {
	return false, f.err
}

func (f *fakeAnnouncementService) FeaturedSpeaker(ctx context.Context) (string, error) {
	return f.featured, f.err
}
