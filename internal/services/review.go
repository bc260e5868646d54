package services

import (
	"context"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

type reviewService struct {
	stores domain.Stores
}

// NewReviewService creates a ReviewService.
func NewReviewService(stores domain.Stores) domain.ReviewService {
	return &reviewService{stores: stores}
}

// Post stores a review under the session named in form. An unrecognized rating is stored as NO_OPINION.
func (s *reviewService) Post(ctx context.Context, p *domain.Principal, form *domain.ReviewForm) (*domain.ReviewForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, fmt.Errorf("%w: review form is required", domain.ErrInvalidInput)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	sessionName := strings.TrimSpace(form.SessionName)
	session, found, err := s.stores.Sessions.FindByName(ctx, sessionName)
	if err != nil {
		return nil, fmt.Errorf("find session by name: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: no session named %q", domain.ErrNotFound, sessionName)
	}
	speaker := strings.TrimSpace(form.SpeakerName)
	if speaker == "" {
		speaker = session.SpeakerDisplayName
	}
	review := &domain.Review{
		SessionID:      session.ID,
		ConferenceName: strings.TrimSpace(form.ConferenceName),
		SessionName:    session.Name,
		SpeakerName:    speaker,
		Rating:         domain.ReviewRatings.Parse(strings.TrimSpace(form.Review)),
	}
	if err := s.stores.Reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return reviewToForm(review), nil
}

func (s *reviewService) ListBySession(ctx context.Context, p *domain.Principal, sessionName string) (*domain.ReviewForms, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(sessionName)
	if name == "" {
		return nil, fmt.Errorf("%w: session_name is required", domain.ErrInvalidInput)
	}
	reviews, err := s.stores.Reviews.ListBySessionName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := &domain.ReviewForms{Items: make([]*domain.ReviewForm, 0, len(reviews))}
	for _, r := range reviews {
		out.Items = append(out.Items, reviewToForm(r))
	}
	return out, nil
}
