package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stayseek/venue-bookings/internal/domain"
)

const accessTokenTTL = 24 * time.Hour

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	Name         string
	VenueManager bool
}

// NewAccessToken signs an HS256 JWT for a profile. Claims: sub is the
// profile name, manager gates venue CRUD.
func NewAccessToken(secret string, p domain.Profile) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":     p.Name,
		"manager": p.VenueManager,
		"exp":     now.Add(accessTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAccessToken verifies the signature and expiry and returns the caller
// identity.
func ParseAccessToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	name, _ := claims["sub"].(string)
	if name == "" {
		return nil, domain.ErrUnauthorized
	}
	manager, _ := claims["manager"].(bool)

	return &Identity{Name: name, VenueManager: manager}, nil
}
