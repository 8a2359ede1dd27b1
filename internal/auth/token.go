// Package auth mints and verifies the signed session tokens that gate the
// admin area.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by an admin session token.
type Claims struct {
	AdminID  string `json:"aid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewClaims builds claims for an admin session of the given lifetime.
func NewClaims(adminID uuid.UUID, username string, ttl time.Duration) *Claims {
	now := time.Now().UTC()
	return &Claims{
		AdminID:  adminID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

// GenerateToken signs the claims with the shared secret.
func GenerateToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// AdminUUID parses the admin identifier out of verified claims.
func (c *Claims) AdminUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.AdminID)
	if err != nil {
		return uuid.Nil, errors.New("malformed admin id in token")
	}
	return id, nil
}
