// Package auth holds the primitives behind admin sessions: bcrypt password
// hashing and signed, time-bounded session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal carried by a session token.
type Identity struct {
	UserID string
	Role   string
}

// Claims is the exact payload of a session token. Subject carries the user
// id; every field is required when parsing.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

var knownRoles = map[string]struct{}{
	common.RoleAdmin: {},
}

// GenerateToken signs an HS256 token for identity, valid from issuedAt for
// validity. It returns the token and its expiry.
func GenerateToken(identity Identity, secretKey []byte, issuedAt time.Time, validity time.Duration) (string, time.Time, error) {
	expiresAt := issuedAt.Add(validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: identity.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken verifies signature and expiry as of now and returns the embedded
// identity. Expired tokens yield common.ErrTokenExpired; anything else that
// does not verify, including a missing subject or an unknown role, yields an
// error wrapping common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	if _, ok := knownRoles[claims.Role]; !ok {
		return nil, fmt.Errorf("%w: unknown role", common.ErrInvalidToken)
	}

	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
