package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationFixture(seats int) (*memStore, *domain.Conference, domain.RegistrationService, *metrics.Metrics) {
	store := newMemStore()
	conf := store.seedConference(&domain.Conference{
		OrganizerUserID: "user-1", Name: "GopherCon", MaxAttendees: 10, SeatsAvailable: seats,
	})
	m := metrics.New(prometheus.NewRegistry())
	return store, conf, NewRegistrationService(&serialTx{store: store}, m), m
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()
	store, conf, svc, m := newRegistrationFixture(10)
	key := conf.Key().Encode()

	ok, err := svc.Register(ctx, attendee, key)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 9, store.conference(conf.ID).SeatsAvailable)
	prof := store.profile(attendee.UserID)
	require.NotNil(t, prof, "profile is created lazily")
	assert.Equal(t, []string{key}, prof.ConferenceKeysToAttend)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("register", metrics.ResultSuccess)))
}

func TestRegistrationService_RegisterTwice_Conflict(t *testing.T) {
	ctx := context.Background()
	store, conf, svc, m := newRegistrationFixture(10)
	key := conf.Key().Encode()

	_, err := svc.Register(ctx, attendee, key)
	require.NoError(t, err)

	ok, err := svc.Register(ctx, attendee, key)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, ok)
	assert.Equal(t, 9, store.conference(conf.ID).SeatsAvailable, "seat count decremented exactly once")
	assert.Len(t, store.profile(attendee.UserID).ConferenceKeysToAttend, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("register", metrics.ResultConflict)))
}

func TestRegistrationService_NoSeats_Conflict(t *testing.T) {
	store, conf, svc, _ := newRegistrationFixture(0)

	ok, err := svc.Register(context.Background(), attendee, conf.Key().Encode())
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, ok)
	assert.Equal(t, 0, store.conference(conf.ID).SeatsAvailable)
}

func TestRegistrationService_UnregisterNotRegistered_Noop(t *testing.T) {
	store, conf, svc, m := newRegistrationFixture(4)

	ok, err := svc.Unregister(context.Background(), attendee, conf.Key().Encode())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, store.conference(conf.ID).SeatsAvailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("unregister", metrics.ResultNoop)))
}

func TestRegistrationService_UnregisterRestoresSeat(t *testing.T) {
	ctx := context.Background()
	store, conf, svc, _ := newRegistrationFixture(1)
	key := conf.Key().Encode()

	ok, err := svc.Register(ctx, attendee, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, store.conference(conf.ID).SeatsAvailable)

	ok, err = svc.Unregister(ctx, attendee, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, store.conference(conf.ID).SeatsAvailable)
	assert.Empty(t, store.profile(attendee.UserID).ConferenceKeysToAttend)
}

func TestRegistrationService_Errors(t *testing.T) {
	ctx := context.Background()
	_, conf, svc, _ := newRegistrationFixture(5)

	tests := []struct {
		name    string
		p       *domain.Principal
		key     string
		wantErr error
	}{
		{name: "anonymous", p: nil, key: conf.Key().Encode(), wantErr: domain.ErrUnauthorized},
		{name: "empty user id", p: &domain.Principal{Email: "x@y"}, key: conf.Key().Encode(), wantErr: domain.ErrUnauthorized},
		{name: "missing conference", p: attendee, key: domain.ConferenceKey("user-1", 404).Encode(), wantErr: domain.ErrNotFound},
		{name: "malformed key", p: attendee, key: "not-a-key", wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.p, tt.key)
			require.ErrorIs(t, err, tt.wantErr)
			_, err = svc.Unregister(ctx, tt.p, tt.key)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistrationService_ConcurrentLastSeat(t *testing.T) {
	ctx := context.Background()
	store, conf, svc, _ := newRegistrationFixture(1)
	key := conf.Key().Encode()

	const callers = 12
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := &domain.Principal{UserID: fmt.Sprintf("racer-%d", i), Email: "r@example.com"}
			_, results[i] = svc.Register(ctx, p, key)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 0, store.conference(conf.ID).SeatsAvailable)
}

// abortingTx simulates a store that gave up retrying.
type abortingTx struct{}

func (abortingTx) RunInTx(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	return fmt.Errorf("%w after 4 attempts", domain.ErrTransactionAborted)
}

func TestRegistrationService_TransactionAborted(t *testing.T) {
	svc := NewRegistrationService(abortingTx{}, nil)
	_, err := svc.Register(context.Background(), attendee, domain.ConferenceKey("user-1", 1).Encode())
	require.ErrorIs(t, err, domain.ErrTransactionAborted)
}
