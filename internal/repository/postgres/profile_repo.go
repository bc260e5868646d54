package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type profileRepository struct {
	DB DBTX
}

func NewProfileRepository(db DBTX) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend`

func scanProfile(row interface{ Scan(...any) error }) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	if err := row.Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size, pq.Array(&p.ConferenceKeysToAttend)); err != nil {
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSizes.Parse(size)
	p.ConferenceKeysToAttend = nonNil(p.ConferenceKeysToAttend)
	return p, nil
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *profileRepository) GetForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 FOR UPDATE`
	return r.getOne(ctx, query, userID)
}

func (r *profileRepository) getOne(ctx context.Context, query, userID string) (*domain.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) GetMulti(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return []*domain.Profile{}, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := make([]*domain.Profile, 0, len(userIDs))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize), pq.Array(nonNil(p.ConferenceKeysToAttend)))
	return err
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, main_email = $3, tee_shirt_size = $4, conference_keys_to_attend = $5
		WHERE user_id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize), pq.Array(nonNil(p.ConferenceKeysToAttend)))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
