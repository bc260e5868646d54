package domain

import "context"

// Stores groups the repositories that share one database handle, either the pool or an open transaction.
type Stores struct {
	Profiles    ProfileRepository
	Conferences ConferenceRepository
	Sessions    SessionRepository
	Wishlists   WishlistRepository
	Reviews     ReviewRepository
}

// TxRunner runs fn inside a serializable transaction. fn may be invoked more than once
// when the store retries a contended transaction, so it must not have side effects
// outside the stores it is handed. When retries are exhausted the error wraps
// ErrTransactionAborted.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
