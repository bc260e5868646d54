package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileController_GetProfile(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		wantCode  int
	}{
		{name: "signed in", principal: caller, wantCode: http.StatusOK},
		{name: "anonymous", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProfileService{profile: &domain.ProfileForm{DisplayName: "ada", MainEmail: "ada@example.com", TeeShirtSize: "NOT_SPECIFIED"}}
			ctrl := NewProfileController(testLogger, svc, &fakeWishlistService{})
			rr := httptest.NewRecorder()

			ctrl.GetProfile(rr, newRequest(t, http.MethodGet, "/profile", nil, tt.principal))

			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				var got domain.ProfileForm
				require.Nil(t, decodeEnvelope(t, rr, &got))
				assert.Equal(t, "NOT_SPECIFIED", got.TeeShirtSize)
			}
		})
	}
}

func TestProfileController_SaveProfile(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
		wantForm domain.ProfileMiniForm
	}{
		{name: "empty body", wantCode: http.StatusOK},
		{
			name:     "fields",
			body:     domain.ProfileMiniForm{DisplayName: "Ada L", TeeShirtSize: "M_W"},
			wantCode: http.StatusOK,
			wantForm: domain.ProfileMiniForm{DisplayName: "Ada L", TeeShirtSize: "M_W"},
		},
		{name: "malformed json", body: `{"displayName":`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeProfileService{profile: &domain.ProfileForm{DisplayName: "Ada L"}}
			ctrl := NewProfileController(testLogger, svc, &fakeWishlistService{})
			rr := httptest.NewRecorder()

			ctrl.SaveProfile(rr, newRequest(t, http.MethodPost, "/profile", tt.body, caller))

			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				require.NotNil(t, svc.lastForm)
				assert.Equal(t, tt.wantForm, *svc.lastForm)
			}
		})
	}
}

func TestProfileController_Wishlist(t *testing.T) {
	t.Run("add by key", func(t *testing.T) {
		wl := &fakeWishlistService{ok: true}
		ctrl := NewProfileController(testLogger, &fakeProfileService{}, wl)
		rr := httptest.NewRecorder()

		ctrl.AddSessionToWishlist(rr, newRequest(t, http.MethodPost, "/wishlist/add", domain.WishlistForm{WebsafeSessionKey: "s-1"}, caller))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "s-1", wl.lastArg)
		var got bool
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.True(t, got)
	})

	t.Run("add by key requires key", func(t *testing.T) {
		wl := &fakeWishlistService{}
		ctrl := NewProfileController(testLogger, &fakeProfileService{}, wl)
		rr := httptest.NewRecorder()

		ctrl.AddSessionToWishlist(rr, newRequest(t, http.MethodPost, "/wishlist/add", domain.WishlistForm{}, caller))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, wl.lastArg)
	})

	t.Run("add by name not found", func(t *testing.T) {
		wl := &fakeWishlistService{err: fmt.Errorf("%w: no session named %q", domain.ErrNotFound, "Nope")}
		ctrl := NewProfileController(testLogger, &fakeProfileService{}, wl)
		rr := httptest.NewRecorder()

		ctrl.AddSessionToWishlistByName(rr, newRequest(t, http.MethodPost, "/wishlist/add_by_name", domain.WishlistFormName{SessionName: "Nope"}, caller))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Nope", wl.lastArg)
		apiErr := decodeEnvelope(t, rr, nil)
		require.NotNil(t, apiErr)
		assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
	})

	t.Run("list", func(t *testing.T) {
		wl := &fakeWishlistService{sessions: &domain.SessionForms{Items: []*domain.SessionForm{{Name: "Go Basics"}}}}
		ctrl := NewProfileController(testLogger, &fakeProfileService{}, wl)
		rr := httptest.NewRecorder()

		ctrl.GetSessionsInWishlist(rr, newRequest(t, http.MethodGet, "/wishlist/get", nil, caller))

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.SessionForms
		require.Nil(t, decodeEnvelope(t, rr, &got))
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Go Basics", got.Items[0].Name)
	})

	t.Run("list anonymous", func(t *testing.T) {
		ctrl := NewProfileController(testLogger, &fakeProfileService{}, &fakeWishlistService{})
		rr := httptest.NewRecorder()

		ctrl.GetSessionsInWishlist(rr, newRequest(t, http.MethodGet, "/wishlist/get", nil, nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
