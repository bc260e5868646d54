package postgres

import (
	"context"

	"conferencecentral/internal/domain"
)

type reviewRepository struct {
	DB DBTX
}

func NewReviewRepository(db DBTX) domain.ReviewRepository {
	return &reviewRepository{
		DB: db,
	}
}

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `
		INSERT INTO reviews (session_id, conference_name, session_name, speaker_name, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rev.SessionID, rev.ConferenceName, rev.SessionName, rev.SpeakerName, string(rev.Rating),
	).Scan(&rev.ID)
}

func (r *reviewRepository) ListBySessionName(ctx context.Context, sessionName string) ([]*domain.Review, error) {
	query := `
		SELECT id, session_id, conference_name, session_name, speaker_name, rating
		FROM reviews
		WHERE session_name = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, sessionName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		rev := &domain.Review{}
		var rating string
		if err := rows.Scan(&rev.ID, &rev.SessionID, &rev.ConferenceName, &rev.SessionName, &rev.SpeakerName, &rating); err != nil {
			return nil, err
		}
		rev.Rating = domain.ReviewRatings.Parse(rating)
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
