package domain

import "context"

// Review is a user's rating of a session. It is a child of the session.
type Review struct {
	ID             int64
	SessionID      int64
	ConferenceName string
	SessionName    string
	SpeakerName    string
	Rating         ReviewRating
}

// ReviewRepository defines the interface for review storage.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	ListBySessionName(ctx context.Context, sessionName string) ([]*Review, error)
}

// ReviewService defines the interface for review business logic.
type ReviewService interface {
	Post(ctx context.Context, p *Principal, form *ReviewForm) (*ReviewForm, error)
	ListBySession(ctx context.Context, p *Principal, sessionName string) (*ReviewForms, error)
}
