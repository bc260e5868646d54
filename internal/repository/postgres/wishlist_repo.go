package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type wishlistRepository struct {
	DB DBTX
}

func NewWishlistRepository(db DBTX) domain.WishlistRepository {
	return &wishlistRepository{
		DB: db,
	}
}

func scanWishlist(row interface{ Scan(...any) error }) (*domain.Wishlist, error) {
	w := &domain.Wishlist{}
	if err := row.Scan(&w.ID, &w.UserID, &w.UserEmail, pq.Array(&w.SessionIDs)); err != nil {
		return nil, err
	}
	w.SessionIDs = nonNil(w.SessionIDs)
	return w, nil
}

// Ensure relies on the unique user_id constraint; the no-op update makes RETURNING
// yield the existing row on conflict.
func (r *wishlistRepository) Ensure(ctx context.Context, userID, email string) (*domain.Wishlist, error) {
	query := `
		INSERT INTO wishlists (user_id, user_email, session_ids)
		VALUES ($1, $2, '{}')
		ON CONFLICT (user_id) DO UPDATE SET user_email = wishlists.user_email
		RETURNING id, user_id, user_email, session_ids
	`
	return scanWishlist(r.DB.QueryRowContext(ctx, query, userID, email))
}

func (r *wishlistRepository) GetByUser(ctx context.Context, userID string) (*domain.Wishlist, bool, error) {
	query := `SELECT id, user_id, user_email, session_ids FROM wishlists WHERE user_id = $1`
	w, err := scanWishlist(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return w, true, nil
}

func (r *wishlistRepository) AddSession(ctx context.Context, wishlistID, sessionID int64) error {
	query := `
		UPDATE wishlists
		SET session_ids = array_append(session_ids, $2::bigint)
		WHERE id = $1 AND NOT ($2::bigint = ANY(session_ids))
	`
	_, err := r.DB.ExecContext(ctx, query, wishlistID, sessionID)
	return err
}
