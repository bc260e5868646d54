package domain

import (
	"context"
	"fmt"
	"time"
)

// Session is a talk or activity within a conference.
type Session struct {
	ID           int64
	ConferenceID int64
	// OrganizerUserID is the owner of the parent conference, loaded with the session
	// so the full ancestor key can be built without another lookup.
	OrganizerUserID    string
	Name               string
	Highlights         []string
	SpeakerDisplayName string
	Duration           int
	Type               SessionType
	Date               *time.Time
	StartTime          *time.Time
}

// Key returns the session's full ancestor key.
func (s *Session) Key() *Key {
	return SessionKey(ConferenceKey(s.OrganizerUserID, s.ConferenceID), s.ID)
}

// SessionWindow selects sessions not of ExcludeType that start inside [NotBefore, NotAfter).
// Nil bounds are open; a nil ConferenceID spans every conference.
type SessionWindow struct {
	ExcludeType  SessionType
	NotBefore    *time.Time
	NotAfter     *time.Time
	ConferenceID *int64
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id int64) (*Session, error)
	// GetMulti returns the sessions that exist among ids; missing ids are skipped.
	GetMulti(ctx context.Context, ids []int64) ([]*Session, error)
	// FindByName returns the first session with the given name, or found=false.
	FindByName(ctx context.Context, name string) (session *Session, found bool, err error)
	ListByConference(ctx context.Context, conferenceID int64) ([]*Session, error)
	ListByType(ctx context.Context, conferenceID *int64, sessionType SessionType) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string, conferenceID *int64) ([]*Session, error)
	QueryExcludingType(ctx context.Context, w SessionWindow) ([]*Session, error)
}

// ConferenceRef addresses a conference either by websafe key or by name,
// depending on the configured endpoint variant.
type ConferenceRef struct {
	WebsafeKey string
	Name       string
}

// SessionService defines the interface for session business logic.
type SessionService interface {
	Create(ctx context.Context, p *Principal, ref ConferenceRef, form *SessionForm) (*SessionForm, error)
	ListByConference(ctx context.Context, ref ConferenceRef) (*SessionForms, error)
	ListByType(ctx context.Context, ref ConferenceRef, sessionType string) (*SessionForms, error)
	ListBySpeaker(ctx context.Context, speaker string) (*SessionForms, error)
	QueryExcludingType(ctx context.Context, form *SessionsExcludingTypeForm) (*SessionForms, error)
}

// SessionEndpointVariant selects how session endpoints address their conference.
type SessionEndpointVariant string

const (
	// VariantWebsafeKey addresses the conference by websafe key in the URL path.
	VariantWebsafeKey SessionEndpointVariant = "websafe_key"
	// VariantConferenceName addresses the conference by name in the request body.
	VariantConferenceName SessionEndpointVariant = "conference_name"
)

// UnmarshalText accepts only the known variants.
func (v *SessionEndpointVariant) UnmarshalText(text []byte) error {
	switch SessionEndpointVariant(text) {
	case VariantWebsafeKey, VariantConferenceName:
		*v = SessionEndpointVariant(text)
		return nil
	}
	return fmt.Errorf("%w: unknown session endpoint variant %q", ErrInvalidInput, string(text))
}
