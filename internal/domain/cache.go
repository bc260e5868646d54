package domain

import "context"

// Cache keys for the precomputed announcement and featured-speaker strings.
const (
	CacheKeyAnnouncement    = "RECENT_ANNOUNCEMENTS"
	CacheKeyFeaturedSpeaker = "FEATURED_SPEAKER"
)

// Cache is an ephemeral key-string store.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AnnouncementService maintains and serves the cached side-channel strings.
type AnnouncementService interface {
	// RefreshAnnouncement recomputes the nearly-sold-out announcement and returns it.
	RefreshAnnouncement(ctx context.Context) (string, error)
	Announcement(ctx context.Context) (string, error)
	// RefreshFeaturedSpeaker caches a featured-speaker message when speaker has more
	// than one session in the conference. It reports whether the entry was written.
	RefreshFeaturedSpeaker(ctx context.Context, speaker, websafeConferenceKey string) (bool, error)
	FeaturedSpeaker(ctx context.Context) (string, error)
}
