package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"conferencecentral/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

type jwtVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// ErrMissingSecret is returned when a verifier is built without a signing secret.
var ErrMissingSecret = errors.New("jwt secret is not configured")

// NewJWTVerifier returns a TokenVerifier that accepts HS256 JWTs signed with secret.
// Tokens must carry sub and exp; email and name are optional.
func NewJWTVerifier(secret string) (domain.TokenVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &jwtVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (v *jwtVerifier) Verify(tokenString string) (*domain.Principal, error) {
	claims := &jwtClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return &domain.Principal{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Nickname: nickname(claims),
	}, nil
}

// nickname prefers the name claim and falls back to the local part of the email.
func nickname(c *jwtClaims) string {
	if n := strings.TrimSpace(c.Name); n != "" {
		return n
	}
	local, _, found := strings.Cut(c.Email, "@")
	if found {
		return local
	}
	return c.Email
}

