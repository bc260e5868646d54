package postgres

import (
	"context"
	"database/sql"
	"time"

	"conferencecentral/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// either on the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStores returns every repository bound to db.
func NewStores(db DBTX) domain.Stores {
	return domain.Stores{
		Profiles:    NewProfileRepository(db),
		Conferences: NewConferenceRepository(db),
		Sessions:    NewSessionRepository(db),
		Wishlists:   NewWishlistRepository(db),
		Reviews:     NewReviewRepository(db),
	}
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// dateArg converts an optional date into a query argument.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// clockArg converts an optional time of day into a query argument.
func clockArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(clockLayout)
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// nonNil keeps array columns from being written as NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
