package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"infinite-experiment/flightdeck/internal/constants"
)

var ErrInvalidToken = errors.New("invalid token")

// tokenClaims is the HS256 payload: sub carries the account id.
type tokenClaims struct {
	Role constants.Role `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 bearer token and returns its claims.
// Issuing tokens belongs to the external identity provider; IssueToken exists
// for tooling and tests.
func ParseToken(secret, raw string) (*JWTClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: bearer tokens are disabled", ErrInvalidToken)
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}

	return &JWTClaims{Subject: claims.Subject, RoleValue: claims.Role}, nil
}

func IssueToken(secret, accountID string, role constants.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
