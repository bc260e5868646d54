package domain

import "context"

// Wishlist holds the sessions a user wants to attend. Each profile owns at most one.
type Wishlist struct {
	ID         int64
	UserID     string
	UserEmail  string
	SessionIDs []int64
}

// WishlistRepository defines the interface for wishlist storage.
type WishlistRepository interface {
	// Ensure returns the user's wishlist, creating an empty one if none exists.
	Ensure(ctx context.Context, userID, email string) (*Wishlist, error)
	// GetByUser returns the user's wishlist or found=false.
	GetByUser(ctx context.Context, userID string) (w *Wishlist, found bool, err error)
	// AddSession appends sessionID unless it is already present.
	AddSession(ctx context.Context, wishlistID, sessionID int64) error
}

// WishlistService defines the interface for wishlist business logic.
type WishlistService interface {
	AddByKey(ctx context.Context, p *Principal, websafeSessionKey string) (bool, error)
	AddByName(ctx context.Context, p *Principal, sessionName string) (bool, error)
	List(ctx context.Context, p *Principal) (*SessionForms, error)
}
