package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

type profileService struct {
	stores domain.Stores
	tx     domain.TxRunner
}

// NewProfileService creates a ProfileService. Profiles are created lazily on first access.
func NewProfileService(stores domain.Stores, tx domain.TxRunner) domain.ProfileService {
	return &profileService{stores: stores, tx: tx}
}

// ensureProfile returns the caller's profile, creating it from the principal when absent.
// With forUpdate the row is locked for the rest of the enclosing transaction.
func ensureProfile(ctx context.Context, profiles domain.ProfileRepository, p *domain.Principal, forUpdate bool) (*domain.Profile, error) {
	get := profiles.Get
	if forUpdate {
		get = profiles.GetForUpdate
	}
	prof, err := get(ctx, p.UserID)
	if err == nil {
		return prof, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := profiles.Create(ctx, domain.NewProfileFor(p)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	prof, err = get(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return prof, nil
}

func (s *profileService) Get(ctx context.Context, p *domain.Principal) (*domain.ProfileForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	prof, err := ensureProfile(ctx, s.stores.Profiles, p, false)
	if err != nil {
		return nil, err
	}
	return profileToForm(prof), nil
}

// Save updates the non-empty fields of form and makes sure the profile owns exactly one wishlist.
func (s *profileService) Save(ctx context.Context, p *domain.Principal, form *domain.ProfileMiniForm) (*domain.ProfileForm, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	if form == nil {
		form = &domain.ProfileMiniForm{}
	}
	var saved *domain.Profile
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st domain.Stores) error {
		prof, err := ensureProfile(ctx, st.Profiles, p, true)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(form.DisplayName); name != "" {
			prof.DisplayName = name
		}
		if form.TeeShirtSize != "" {
			prof.TeeShirtSize = domain.TeeShirtSizes.Parse(form.TeeShirtSize)
		}
		if err := st.Profiles.Update(ctx, prof); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if _, err := st.Wishlists.Ensure(ctx, prof.UserID, prof.MainEmail); err != nil {
			return fmt.Errorf("ensure wishlist: %w", err)
		}
		saved = prof
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profileToForm(saved), nil
}
