// Package token issues and verifies the signed claims that stand in for a
// session. Tokens are self-contained: verification needs only the token, the
// clock, and the signing secret, never the database.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only failure Verify exposes. Expired, forged, and
// malformed tokens all collapse into it so a caller cannot probe which check
// rejected them; the wrapped cause stays available for internal logging.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the account identity asserted by a token
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}

// Identity is the verified result of a token
type Identity struct {
	UserID int64
	Email  string
}

// Service signs and verifies session tokens
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service with the given signing secret and lifetime
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token asserting the given account identity, valid for the
// service's configured lifetime.
func (s *Service) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure wraps ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
