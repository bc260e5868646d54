package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ProfileController struct {
	Logger    *slog.Logger
	Profiles  domain.ProfileService
	Wishlists domain.WishlistService
}

func NewProfileController(logger *slog.Logger, profiles domain.ProfileService, wishlists domain.WishlistService) *ProfileController {
	return &ProfileController{
		Logger:    logger,
		Profiles:  profiles,
		Wishlists: wishlists,
	}
}

// ProfileSuccessResponse is the success envelope for profile endpoints.
type ProfileSuccessResponse struct {
	Data  *domain.ProfileForm `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Creates the profile on first access with the caller's nickname and email.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := c.Profiles.Get(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prof)
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Description Updates displayName and teeShirtSize when non-empty. Unknown sizes become NOT_SPECIFIED.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.ProfileMiniForm false "Fields to change"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileMiniForm
	if !helpers.Decode(w, r, &req, true) {
		return
	}
	prof, err := c.Profiles.Save(r.Context(), middleware.PrincipalFromContext(r.Context()), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, prof)
}

// AddSessionToWishlist godoc
// @Summary Add a session to the caller's wishlist by websafe key
// @Tags wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.WishlistForm true "Websafe session key"
// @Success 200 {object} helpers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wishlist/add [post]
func (c *ProfileController) AddSessionToWishlist(w http.ResponseWriter, r *http.Request) {
	var req domain.WishlistForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ok, err := c.Wishlists.AddByKey(r.Context(), middleware.PrincipalFromContext(r.Context()), req.WebsafeSessionKey)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ok)
}

// AddSessionToWishlistByName godoc
// @Summary Add a session to the caller's wishlist by name
// @Tags wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.WishlistFormName true "Session name"
// @Success 200 {object} helpers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /wishlist/add_by_name [post]
func (c *ProfileController) AddSessionToWishlistByName(w http.ResponseWriter, r *http.Request) {
	var req domain.WishlistFormName
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ok, err := c.Wishlists.AddByName(r.Context(), middleware.PrincipalFromContext(r.Context()), req.SessionName)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ok)
}

// GetSessionsInWishlist godoc
// @Summary List the sessions in the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wishlist/get [get]
func (c *ProfileController) GetSessionsInWishlist(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Wishlists.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
