package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CSRFManager issues and validates CSRF tokens. A token is a short-lived
// HS256 JWT carrying the session id it was minted for, so a token stolen
// from one session is useless against another and nothing needs to be
// stored server-side.
type CSRFManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewCSRFManager(secret string, ttl time.Duration) *CSRFManager {
	return &CSRFManager{Secret: []byte(secret), TTL: ttl}
}

type csrfClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (m *CSRFManager) Issue(sessionID string) (string, error) {
	claims := &csrfClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

// Verify checks the token signature and that it was issued for sessionID.
func (m *CSRFManager) Verify(token, sessionID string) error {
	claims := &csrfClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid || claims.SessionID != sessionID {
		return errors.New("csrf token does not match session")
	}
	return nil
}
