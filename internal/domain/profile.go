package domain

import "context"

// Profile is a user's root record. Conferences and wishlists hang off it.
type Profile struct {
	UserID       string
	DisplayName  string
	MainEmail    string
	TeeShirtSize TeeShirtSize
	// ConferenceKeysToAttend holds canonical websafe conference keys.
	ConferenceKeysToAttend []string
}

// Key returns the profile's root key.
func (p *Profile) Key() *Key {
	return ProfileKey(p.UserID)
}

// IsAttending reports whether websafeKey is in the attending list.
func (p *Profile) IsAttending(websafeKey string) bool {
	for _, k := range p.ConferenceKeysToAttend {
		if k == websafeKey {
			return true
		}
	}
	return false
}

// NewProfileFor returns the profile lazily created for a principal on first use.
func NewProfileFor(pr *Principal) *Profile {
	return &Profile{
		UserID:                 pr.UserID,
		DisplayName:            pr.Nickname,
		MainEmail:              pr.Email,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{},
	}
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	GetForUpdate(ctx context.Context, userID string) (*Profile, error)
	// GetMulti returns the profiles that exist among userIDs; missing ids are skipped.
	GetMulti(ctx context.Context, userIDs []string) ([]*Profile, error)
	// Create inserts the profile unless one already exists for the user.
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}

// ProfileService defines the interface for profile business logic.
type ProfileService interface {
	Get(ctx context.Context, p *Principal) (*ProfileForm, error)
	Save(ctx context.Context, p *Principal, form *ProfileMiniForm) (*ProfileForm, error)
}
