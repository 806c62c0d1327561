// Package auth issues and verifies the HS256 access tokens handed out on
// login. Tokens carry the account id and username and are not stored
// server-side.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims: the registered set plus the account identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// TokenClaims is the outcome of CheckToken. A token that failed
// verification yields InvalidTokenClaims, so callers must treat
// UserID == 0 as unauthenticated.
type TokenClaims struct {
	UserID   int64   `json:"userId"`
	Username *string `json:"username"`
	Message  string  `json:"message,omitempty"`
}

// InvalidTokenClaims is the sentinel returned for any unusable token.
var InvalidTokenClaims = TokenClaims{UserID: 0, Username: nil, Message: common.MsgInvalidToken}

// Valid reports whether c identifies an account.
func (c TokenClaims) Valid() bool {
	return c.UserID != 0 && c.Username != nil
}

// GenerateToken signs a token for the account. A zero validity leaves the
// token without an expiry.
func GenerateToken(userID int64, username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
	}
	if validity != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken verifies tokenString and returns its claims. Expired tokens
// yield common.ErrTokenExpired; every other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// CheckToken is ParseToken without an error path: failures are folded into
// InvalidTokenClaims.
func CheckToken(tokenString string, secretKey []byte) TokenClaims {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return InvalidTokenClaims
	}

	username := claims.Username
	return TokenClaims{UserID: claims.UserID, Username: &username}
}
