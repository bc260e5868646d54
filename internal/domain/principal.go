package domain

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Email    string
	Nickname string
}

// TokenVerifier resolves a bearer token to a principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

// RequirePrincipal returns ErrUnauthorized when p is nil or carries no user id.
func RequirePrincipal(p *Principal) error {
	if p == nil || p.UserID == "" {
		return ErrUnauthorized
	}
	return nil
}
