package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	retryBaseDelay               = 20 * time.Millisecond
)

// TxRunner runs units of work in SERIALIZABLE transactions and retries the whole
// unit when Postgres reports a serialization failure or deadlock.
type TxRunner struct {
	db         *sql.DB
	maxRetries int
	logger     *slog.Logger
}

func NewTxRunner(db *sql.DB, maxRetries int, logger *slog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TxRunner{db: db, maxRetries: maxRetries, logger: logger}
}

var _ domain.TxRunner = (*TxRunner)(nil)

func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	for attempt := 0; ; attempt++ {
		err := t.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= t.maxRetries {
			return fmt.Errorf("%w after %d attempts: %v", domain.ErrTransactionAborted, attempt+1, err)
		}
		t.logger.DebugContext(ctx, "retrying contended transaction", "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrTransactionAborted, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * retryBaseDelay):
		}
	}
}

func (t *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, NewStores(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == sqlStateSerializationFailure || pqErr.Code == sqlStateDeadlockDetected
}
