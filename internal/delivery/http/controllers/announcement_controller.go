package controllers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// CronTokenHeader carries the shared secret for cron-triggered endpoints.
const CronTokenHeader = "X-Cron-Token"

type AnnouncementController struct {
	Logger    *slog.Logger
	Service   domain.AnnouncementService
	CronToken string
}

// NewAnnouncementController returns a controller for the cached announcement strings.
// An empty cronToken leaves the cron endpoint open.
func NewAnnouncementController(logger *slog.Logger, svc domain.AnnouncementService, cronToken string) *AnnouncementController {
	return &AnnouncementController{
		Logger:    logger,
		Service:   svc,
		CronToken: cronToken,
	}
}

// GetAnnouncement godoc
// @Summary Get the nearly-sold-out announcement
// @Description Returns the cached announcement, or an empty string when none is set.
// @Tags conference
// @Produce json
// @Success 200 {object} helpers.StringResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/announcement/get [get]
func (c *AnnouncementController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	msg, err := c.Service.Announcement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker message
// @Tags conference
// @Produce json
// @Success 200 {object} helpers.StringResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/featured_speaker [get]
func (c *AnnouncementController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	msg, err := c.Service.FeaturedSpeaker(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}

// SetAnnouncement godoc
// @Summary Recompute the announcement
// @Description Cron hook. Requires the X-Cron-Token header when a token is configured.
// @Tags crons
// @Produce json
// @Param X-Cron-Token header string false "Cron token"
// @Success 200 {object} helpers.StringResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crons/set_announcement [post]
func (c *AnnouncementController) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	if c.CronToken != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(CronTokenHeader)), []byte(c.CronToken)) != 1 {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "invalid cron token")
		return
	}
	msg, err := c.Service.RefreshAnnouncement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msg)
}
