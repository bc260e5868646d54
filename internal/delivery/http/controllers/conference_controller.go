package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ConferenceController struct {
	Logger        *slog.Logger
	Conferences   domain.ConferenceService
	Registrations domain.RegistrationService
}

func NewConferenceController(logger *slog.Logger, conferences domain.ConferenceService, registrations domain.RegistrationService) *ConferenceController {
	return &ConferenceController{
		Logger:        logger,
		Conferences:   conferences,
		Registrations: registrations,
	}
}

// ConferenceSuccessResponse is the success envelope for endpoints returning one conference.
type ConferenceSuccessResponse struct {
	Data  *domain.ConferenceForm `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ConferencesSuccessResponse is the success envelope for endpoints returning a list of conferences.
type ConferencesSuccessResponse struct {
	Data  *domain.ConferenceForms `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// conferencePatch decodes an update body without the create-time validation.
type conferencePatch domain.ConferenceForm

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. Empty fields take defaults and seatsAvailable starts at maxAttendees. A confirmation email is queued.
// @Tags conference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.ConferenceForm true "Conference (name required)"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req domain.ConferenceForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Conferences.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conf)
}

// GetConference godoc
// @Summary Get a conference
// @Tags conference
// @Produce json
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conf, err := c.Conferences.Get(r.Context(), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Copies the non-empty fields of the body onto the conference. Only the organizer may update. A new maxAttendees shifts seatsAvailable by the same delta.
// @Tags conference
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Param body body domain.ConferenceForm true "Fields to change"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conference/{websafeConferenceKey} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	var req conferencePatch
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	form := domain.ConferenceForm(req)
	conf, err := c.Conferences.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), r.PathValue("websafeConferenceKey"), &form)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConferencesCreated godoc
// @Summary List conferences created by the caller
// @Tags conference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferencesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /getConferencesCreated [post]
func (c *ConferenceController) GetConferencesCreated(w http.ResponseWriter, r *http.Request) {
	confs, err := c.Conferences.ListCreated(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Applies symbolic filters (fields CITY, TOPIC, MONTH, MAX_ATTENDEES; operators EQ, GT, GTEQ, LT, LTEQ, NE). At most one field may carry inequality operators.
// @Tags conference
// @Accept json
// @Produce json
// @Param body body domain.ConferenceQueryForms false "Filters"
// @Success 200 {object} controllers.ConferencesSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /queryConferences [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req domain.ConferenceQueryForms
	if !helpers.Decode(w, r, &req, true) {
		return
	}
	confs, err := c.Conferences.Query(r.Context(), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// GetConferencesToAttend godoc
// @Summary List conferences the caller is registered for
// @Tags conference
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferencesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) GetConferencesToAttend(w http.ResponseWriter, r *http.Request) {
	confs, err := c.Conferences.ListAttending(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// RegisterForConference godoc
// @Summary Register the caller for a conference
// @Description Takes one seat. Fails with conflict when already registered or when no seats are left.
// @Tags conference
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} helpers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conference/{websafeConferenceKey}/registration [post]
func (c *ConferenceController) RegisterForConference(w http.ResponseWriter, r *http.Request) {
	ok, err := c.Registrations.Register(r.Context(), middleware.PrincipalFromContext(r.Context()), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ok)
}

// UnregisterFromConference godoc
// @Summary Unregister the caller from a conference
// @Description Returns a seat. data is false when the caller was not registered.
// @Tags conference
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} helpers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /conference/{websafeConferenceKey}/registration [delete]
func (c *ConferenceController) UnregisterFromConference(w http.ResponseWriter, r *http.Request) {
	ok, err := c.Registrations.Unregister(r.Context(), middleware.PrincipalFromContext(r.Context()), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ok)
}

// GetConferenceKey godoc
// @Summary Look up a conference's websafe key by name
// @Tags conference
// @Produce json
// @Param name query string true "Conference name"
// @Success 200 {object} helpers.StringResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /query/getWebsafeConferenceKey [get]
func (c *ConferenceController) GetConferenceKey(w http.ResponseWriter, r *http.Request) {
	key, err := c.Conferences.KeyByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, key)
}
