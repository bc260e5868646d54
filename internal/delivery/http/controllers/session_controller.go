package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// SessionController serves session endpoints. Variant decides whether the parent
// conference comes from the {websafeConferenceKey} path value or from a name in the body.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
	Variant domain.SessionEndpointVariant
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService, variant domain.SessionEndpointVariant) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
		Variant: variant,
	}
}

// SessionSuccessResponse is the success envelope for endpoints returning one session.
type SessionSuccessResponse struct {
	Data  *domain.SessionForm `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SessionsSuccessResponse is the success envelope for endpoints returning a list of sessions.
type SessionsSuccessResponse struct {
	Data  *domain.SessionForms `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SessionsByTypeRequest is the body of the by-type query. ConferenceName is read
// only when conferences are addressed by name.
type SessionsByTypeRequest struct {
	ConferenceName string `json:"conferenceName,omitempty"`
	Query          string `json:"query"`
}

// Validate implements helpers.Validator.
func (r *SessionsByTypeRequest) Validate() []string {
	if strings.TrimSpace(r.Query) == "" {
		return []string{"query (session type) is required"}
	}
	return nil
}

func (c *SessionController) conferenceRef(r *http.Request, name string) domain.ConferenceRef {
	if c.Variant == domain.VariantConferenceName {
		return domain.ConferenceRef{Name: name}
	}
	return domain.ConferenceRef{WebsafeKey: r.PathValue("websafeConferenceKey")}
}

// CreateSession godoc
// @Summary Create a session
// @Description Creates a session in a conference owned by the caller and queues a featured-speaker check. With the conference_name variant the conference is taken from conferenceName in the body and the path has no key.
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Param body body domain.SessionForm true "Session (name and speakerDisplayName required)"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /session/{websafeConferenceKey} [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	s, err := c.Service.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), c.conferenceRef(r, req.ConferenceName), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, s)
}

// GetConferenceSessions godoc
// @Summary List a conference's sessions
// @Description With the conference_name variant the body is {"query": "<conference name>"} and the path has no key.
// @Tags session
// @Accept json
// @Produce json
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Param body body domain.SessionQueryForm false "Conference name (conference_name variant)"
// @Success 200 {object} controllers.SessionsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /session/query_by_conference/{websafeConferenceKey} [post]
func (c *SessionController) GetConferenceSessions(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionQueryForm
	if !helpers.Decode(w, r, &req, c.Variant != domain.VariantConferenceName) {
		return
	}
	sessions, err := c.Service.ListByConference(r.Context(), c.conferenceRef(r, req.Query))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetConferenceSessionsByType godoc
// @Summary List a conference's sessions of one type
// @Description query holds the session type (workshop, lecture, demonstration, party, NOT_SPECIFIED).
// @Tags session
// @Accept json
// @Produce json
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Param body body controllers.SessionsByTypeRequest true "Session type"
// @Success 200 {object} controllers.SessionsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /session/query_by_type/{websafeConferenceKey} [post]
func (c *SessionController) GetConferenceSessionsByType(w http.ResponseWriter, r *http.Request) {
	var req SessionsByTypeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Service.ListByType(r.Context(), c.conferenceRef(r, req.ConferenceName), req.Query)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// GetSessionsBySpeaker godoc
// @Summary List sessions by speaker across all conferences
// @Tags session
// @Accept json
// @Produce json
// @Param body body domain.SessionQueryForm true "Speaker display name"
// @Success 200 {object} controllers.SessionsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /session/query_by_speaker [post]
func (c *SessionController) GetSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionQueryForm
	if !helpers.Decode(w, r, &req, false) {
		return
	}
	sessions, err := c.Service.ListBySpeaker(r.Context(), req.Query)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}

// QuerySessionsExcludingType godoc
// @Summary Sessions not of a type within a start-time window
// @Description Returns sessions whose type differs from sessionType and whose start time is at or after sessionAfterTime and before sessionBeforeTime (HH:MM, both optional).
// @Tags session
// @Accept json
// @Produce json
// @Param body body domain.SessionsExcludingTypeForm true "Excluded type and window"
// @Success 200 {object} controllers.SessionsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /session/query_excluding_type [post]
func (c *SessionController) QuerySessionsExcludingType(w http.ResponseWriter, r *http.Request) {
	var req domain.SessionsExcludingTypeForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Service.QueryExcludingType(r.Context(), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
