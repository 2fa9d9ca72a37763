package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session subject. Session tokens have no expiry claim;
// they stay valid for as long as the signing secret does.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// SessionIssuer signs and verifies session tokens with a fixed HS256 secret.
type SessionIssuer struct {
	secret []byte
}

// NewSessionIssuer returns an issuer bound to a private copy of secret.
func NewSessionIssuer(secret []byte) *SessionIssuer {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &SessionIssuer{secret: s}
}

// Issue returns a signed session token for userID.
func (s *SessionIssuer) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	return tokenString, nil
}

// Verify checks the token signature and returns the embedded user id.
func (s *SessionIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(common.ErrInvalidSession, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidSession
	}

	return claims.UserID, nil
}
