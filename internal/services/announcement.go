package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const (
	// NearlySoldOutSeats is the highest remaining seat count announced as nearly sold out.
	NearlySoldOutSeats = 5

	announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

	// FeaturedSpeakerPlaceholder is served while no featured speaker is cached.
	FeaturedSpeakerPlaceholder = "Check back for our upcoming featured speaker!"

	cacheEntryAnnouncement    = "announcement"
	cacheEntryFeaturedSpeaker = "featured_speaker"
)

type announcementService struct {
	conferences domain.ConferenceRepository
	sessions    domain.SessionRepository
	cache       domain.Cache
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewAnnouncementService creates an AnnouncementService backed by cache. m may be nil.
func NewAnnouncementService(stores domain.Stores, cache domain.Cache, m *metrics.Metrics, logger *slog.Logger) domain.AnnouncementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &announcementService{
		conferences: stores.Conferences,
		sessions:    stores.Sessions,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// RefreshAnnouncement lists conferences with 1..NearlySoldOutSeats seats left. With any,
// the announcement is cached; with none, the cache entry is removed.
func (s *announcementService) RefreshAnnouncement(ctx context.Context) (string, error) {
	confs, err := s.conferences.ListNearlySoldOut(ctx, NearlySoldOutSeats)
	if err != nil {
		s.metrics.IncCacheRefresh(cacheEntryAnnouncement, metrics.ResultError)
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, domain.CacheKeyAnnouncement); err != nil {
			s.metrics.IncCacheRefresh(cacheEntryAnnouncement, metrics.ResultError)
			return "", fmt.Errorf("delete announcement: %w", err)
		}
		s.metrics.IncCacheRefresh(cacheEntryAnnouncement, metrics.ResultDeleted)
		return "", nil
	}
	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	announcement := announcementPrefix + strings.Join(names, ", ")
	if err := s.cache.Set(ctx, domain.CacheKeyAnnouncement, announcement); err != nil {
		s.metrics.IncCacheRefresh(cacheEntryAnnouncement, metrics.ResultError)
		return "", fmt.Errorf("set announcement: %w", err)
	}
	s.metrics.IncCacheRefresh(cacheEntryAnnouncement, metrics.ResultSuccess)
	s.logger.DebugContext(ctx, "announcement refreshed", "conferences", len(names))
	return announcement, nil
}

func (s *announcementService) Announcement(ctx context.Context) (string, error) {
	v, ok, err := s.cache.Get(ctx, domain.CacheKeyAnnouncement)
	if err != nil {
		return "", fmt.Errorf("get announcement: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// RefreshFeaturedSpeaker features speaker when they hold more than one session in the conference.
func (s *announcementService) RefreshFeaturedSpeaker(ctx context.Context, speaker, websafeConferenceKey string) (bool, error) {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return false, fmt.Errorf("%w: speaker is required", domain.ErrInvalidInput)
	}
	conf, err := loadConference(ctx, s.conferences, websafeConferenceKey, false)
	if err != nil {
		return false, err
	}
	sessions, err := s.sessions.ListBySpeaker(ctx, speaker, &conf.ID)
	if err != nil {
		s.metrics.IncCacheRefresh(cacheEntryFeaturedSpeaker, metrics.ResultError)
		return false, fmt.Errorf("list sessions by speaker: %w", err)
	}
	if len(sessions) <= 1 {
		s.metrics.IncCacheRefresh(cacheEntryFeaturedSpeaker, metrics.ResultNoop)
		return false, nil
	}
	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	msg := fmt.Sprintf("Our featured speaker is %s. Sessions: %s", speaker, strings.Join(names, ", "))
	if err := s.cache.Set(ctx, domain.CacheKeyFeaturedSpeaker, msg); err != nil {
		s.metrics.IncCacheRefresh(cacheEntryFeaturedSpeaker, metrics.ResultError)
		return false, fmt.Errorf("set featured speaker: %w", err)
	}
	s.metrics.IncCacheRefresh(cacheEntryFeaturedSpeaker, metrics.ResultSuccess)
	return true, nil
}

func (s *announcementService) FeaturedSpeaker(ctx context.Context) (string, error) {
	v, ok, err := s.cache.Get(ctx, domain.CacheKeyFeaturedSpeaker)
	if err != nil {
		return "", fmt.Errorf("get featured speaker: %w", err)
	}
	if !ok {
		return FeaturedSpeakerPlaceholder, nil
	}
	return v, nil
}
