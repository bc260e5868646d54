package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{Logger: logger, Service: svc}
}

// ReviewSuccessResponse is the success envelope for a posted review.
type ReviewSuccessResponse struct {
	Data  *domain.ReviewForm `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ReviewsSuccessResponse is the success envelope for a review listing.
type ReviewsSuccessResponse struct {
	Data  *domain.ReviewForms `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// PostReview godoc
// @Summary Review a session
// @Description Stores a rating (very_unsatisfied, unsatisfied, satisfied, very_satisfied, excellent) for the named session. Unknown ratings are stored as NO_OPINION.
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.ReviewForm true "Review"
// @Success 201 {object} controllers.ReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /session/review [post]
func (c *ReviewController) PostReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	review, err := c.Service.Post(r.Context(), middleware.PrincipalFromContext(r.Context()), &req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// GetReviews godoc
// @Summary List reviews of a session
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.ReviewQueryForm true "Session name"
// @Success 200 {object} controllers.ReviewsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /session/review_query [post]
func (c *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewQueryForm
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reviews, err := c.Service.ListBySession(r.Context(), middleware.PrincipalFromContext(r.Context()), req.SessionName)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}
