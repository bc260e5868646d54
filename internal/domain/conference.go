package domain

import (
	"context"
	"time"
)

// Conference is an event organized by a user. It is a child of the organizer's profile.
type Conference struct {
	ID              int64
	OrganizerUserID string
	Name            string
	Description     string
	Topics          []string
	City            string
	StartDate       *time.Time
	EndDate         *time.Time
	Month           int
	MaxAttendees    int
	SeatsAvailable  int
}

// Key returns the conference's full ancestor key.
func (c *Conference) Key() *Key {
	return ConferenceKey(c.OrganizerUserID, c.ID)
}

// Registered returns the number of seats currently taken.
func (c *Conference) Registered() int {
	return c.MaxAttendees - c.SeatsAvailable
}

// Conference defaults applied on create for fields the client left empty.
const (
	DefaultConferenceCity         = "Default City"
	DefaultConferenceMaxAttendees = 0
	DefaultConferenceSeats        = 0
)

// DefaultConferenceTopics returns a fresh copy of the default topic list.
func DefaultConferenceTopics() []string {
	return []string{"Default", "Topic"}
}

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	Create(ctx context.Context, conf *Conference) error
	Get(ctx context.Context, id int64) (*Conference, error)
	// GetForUpdate locks the row for the rest of the enclosing transaction.
	GetForUpdate(ctx context.Context, id int64) (*Conference, error)
	Update(ctx context.Context, conf *Conference) error
	// GetMulti returns the conferences that exist among ids; missing ids are skipped.
	GetMulti(ctx context.Context, ids []int64) ([]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	// FindByName returns the first conference with the given name, or found=false.
	FindByName(ctx context.Context, name string) (conf *Conference, found bool, err error)
	Query(ctx context.Context, q ConferenceQuery) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 1..maxSeats seats left, ordered by name.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*Conference, error)
}

// ConferenceService defines the interface for conference business logic.
type ConferenceService interface {
	Create(ctx context.Context, p *Principal, form *ConferenceForm) (*ConferenceForm, error)
	Get(ctx context.Context, websafeKey string) (*ConferenceForm, error)
	Update(ctx context.Context, p *Principal, websafeKey string, form *ConferenceForm) (*ConferenceForm, error)
	ListCreated(ctx context.Context, p *Principal) (*ConferenceForms, error)
	Query(ctx context.Context, form *ConferenceQueryForms) (*ConferenceForms, error)
	ListAttending(ctx context.Context, p *Principal) (*ConferenceForms, error)
	KeyByName(ctx context.Context, name string) (string, error)
}

// RegistrationService registers and unregisters profiles for conferences.
type RegistrationService interface {
	Register(ctx context.Context, p *Principal, websafeKey string) (bool, error)
	Unregister(ctx context.Context, p *Principal, websafeKey string) (bool, error)
}
