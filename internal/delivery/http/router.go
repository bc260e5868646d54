package http

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes groups what NewRouter mounts.
type Routes struct {
	Conferences   *controllers.ConferenceController
	Sessions      *controllers.SessionController
	Profiles      *controllers.ProfileController
	Reviews       *controllers.ReviewController
	Announcements *controllers.AnnouncementController
	Health        *controllers.HealthController
	// Metrics serves the Prometheus exposition; nil leaves /metrics unmounted.
	Metrics http.Handler
}

// NewRouter initializes the HTTP router with all application routes.
// The session routes follow rt.Sessions.Variant.
func NewRouter(rt Routes, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	optional := middleware.OptionalAuth(verifier, logger)

	// Conferences
	mux.HandleFunc("POST /conference", auth(rt.Conferences.CreateConference))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}", optional(rt.Conferences.GetConference))
	mux.HandleFunc("PUT /conference/{websafeConferenceKey}", auth(rt.Conferences.UpdateConference))
	mux.HandleFunc("POST /getConferencesCreated", auth(rt.Conferences.GetConferencesCreated))
	mux.HandleFunc("POST /queryConferences", optional(rt.Conferences.QueryConferences))
	mux.HandleFunc("GET /conferences/attending", auth(rt.Conferences.GetConferencesToAttend))
	mux.HandleFunc("POST /conference/{websafeConferenceKey}/registration", auth(rt.Conferences.RegisterForConference))
	mux.HandleFunc("DELETE /conference/{websafeConferenceKey}/registration", auth(rt.Conferences.UnregisterFromConference))
	mux.HandleFunc("GET /query/getWebsafeConferenceKey", optional(rt.Conferences.GetConferenceKey))

	// Announcements
	mux.HandleFunc("GET /conference/announcement/get", rt.Announcements.GetAnnouncement)
	mux.HandleFunc("GET /conference/featured_speaker", rt.Announcements.GetFeaturedSpeaker)
	mux.HandleFunc("POST /crons/set_announcement", rt.Announcements.SetAnnouncement)

	// Sessions
	if rt.Sessions.Variant == domain.VariantConferenceName {
		mux.HandleFunc("POST /session", auth(rt.Sessions.CreateSession))
		mux.HandleFunc("POST /session/query_by_conference", optional(rt.Sessions.GetConferenceSessions))
		mux.HandleFunc("POST /session/query_by_type", optional(rt.Sessions.GetConferenceSessionsByType))
	} else {
		mux.HandleFunc("POST /session/{websafeConferenceKey}", auth(rt.Sessions.CreateSession))
		mux.HandleFunc("POST /session/query_by_conference/{websafeConferenceKey}", optional(rt.Sessions.GetConferenceSessions))
		mux.HandleFunc("POST /session/query_by_type/{websafeConferenceKey}", optional(rt.Sessions.GetConferenceSessionsByType))
	}
	mux.HandleFunc("POST /session/query_by_speaker", optional(rt.Sessions.GetSessionsBySpeaker))
	mux.HandleFunc("POST /session/query_excluding_type", optional(rt.Sessions.QuerySessionsExcludingType))

	// Reviews
	mux.HandleFunc("POST /session/review", auth(rt.Reviews.PostReview))
	mux.HandleFunc("POST /session/review_query", auth(rt.Reviews.GetReviews))

	// Profile and wishlist
	mux.HandleFunc("GET /profile", auth(rt.Profiles.GetProfile))
	mux.HandleFunc("POST /profile", auth(rt.Profiles.SaveProfile))
	mux.HandleFunc("POST /wishlist/add", auth(rt.Profiles.AddSessionToWishlist))
	mux.HandleFunc("POST /wishlist/add_by_name", auth(rt.Profiles.AddSessionToWishlistByName))
	mux.HandleFunc("GET /wishlist/get", auth(rt.Profiles.GetSessionsInWishlist))

	// Ops
	mux.HandleFunc("GET /healthz", rt.Health.Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
