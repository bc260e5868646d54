package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTxRunner_RunInTx(t *testing.T) {
	serialization := &pq.Error{Code: sqlStateSerializationFailure, Message: "could not serialize access"}
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		retries   int
		mock      func(mock sqlmock.Sqlmock)
		fnErrs    []error
		wantErr   error
		wantCalls int
	}{
		{
			name:    "commits on success",
			retries: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fnErrs:    []error{nil},
			wantCalls: 1,
		},
		{
			name:    "retries serialization failure then commits",
			retries: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fnErrs:    []error{serialization, nil},
			wantCalls: 2,
		},
		{
			name:    "retries serialization failure on commit",
			retries: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(serialization)
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fnErrs:    []error{nil, nil},
			wantCalls: 2,
		},
		{
			name:    "exhausted retries abort",
			retries: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErrs:    []error{serialization, serialization},
			wantErr:   domain.ErrTransactionAborted,
			wantCalls: 2,
		},
		{
			name:    "business error is not retried",
			retries: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErrs:    []error{domain.ErrConflict},
			wantErr:   domain.ErrConflict,
			wantCalls: 1,
		},
		{
			name:    "unknown error is returned as is",
			retries: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErrs:    []error{errBoom},
			wantErr:   errBoom,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			runner := NewTxRunner(db, tt.retries, discardLogger())
			calls := 0
			err = runner.RunInTx(context.Background(), func(ctx context.Context, s domain.Stores) error {
				require.NotNil(t, s.Conferences)
				require.NotNil(t, s.Profiles)
				e := tt.fnErrs[calls]
				calls++
				return e
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
