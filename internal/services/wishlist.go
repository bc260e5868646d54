package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	stores domain.Stores
	tx     domain.TxRunner
}

// NewWishlistService creates a WishlistService. Each profile owns one wishlist, created on demand.
func NewWishlistService(stores domain.Stores, tx domain.TxRunner) domain.WishlistService {
	return &wishlistService{stores: stores, tx: tx}
}

func (s *wishlistService) AddByKey(ctx context.Context, p *domain.Principal, websafeSessionKey string) (bool, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return false, err
	}
	key, err := domain.DecodeKeyOfKind(websafeSessionKey, domain.KindSession)
	if err != nil {
		return false, err
	}
	session, err := s.stores.Sessions.Get(ctx, key.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, websafeSessionKey)
		}
		return false, fmt.Errorf("get session: %w", err)
	}
	if !session.Key().Equal(key) {
		return false, fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, websafeSessionKey)
	}
	return s.add(ctx, p, session)
}

func (s *wishlistService) AddByName(ctx context.Context, p *domain.Principal, sessionName string) (bool, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return false, err
	}
	name := strings.TrimSpace(sessionName)
	if name == "" {
		return false, fmt.Errorf("%w: sessionName is required", domain.ErrInvalidInput)
	}
	session, found, err := s.stores.Sessions.FindByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("find session by name: %w", err)
	}
	if !found {
		return false, fmt.Errorf("%w: no session named %q", domain.ErrNotFound, name)
	}
	return s.add(ctx, p, session)
}

// add is idempotent: a session already on the wishlist is left as is.
func (s *wishlistService) add(ctx context.Context, p *domain.Principal, session *domain.Session) (bool, error) {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st domain.Stores) error {
		prof, err := ensureProfile(ctx, st.Profiles, p, false)
		if err != nil {
			return err
		}
		w, err := st.Wishlists.Ensure(ctx, prof.UserID, prof.MainEmail)
		if err != nil {
			return fmt.Errorf("ensure wishlist: %w", err)
		}
		if err := st.Wishlists.AddSession(ctx, w.ID, session.ID); err != nil {
			return fmt.Errorf("add session to wishlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *wishlistService) List(ctx context.Context, p *domain.Principal) (*domain.SessionForms, error) {
	if err := domain.RequirePrincipal(p); err != nil {
		return nil, err
	}
	w, found, err := s.stores.Wishlists.GetByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	if !found {
		return sessionsToForms(nil), nil
	}
	sessions, err := s.stores.Sessions.GetMulti(ctx, w.SessionIDs)
	if err != nil {
		return nil, fmt.Errorf("get wishlist sessions: %w", err)
	}
	return sessionsToForms(sessions), nil
}
