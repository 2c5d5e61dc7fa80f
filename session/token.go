package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/academia/caixa/ledger"
)

// Session tokens are HS256 JWTs carrying the username; role and existence
// are re-checked against the live account list on every Verify.

var (
	// ErrBadCredentials is returned on an unknown user or wrong password.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrBadToken is returned when a token is missing, malformed, expired,
	// or refers to a removed account.
	ErrBadToken = errors.New("invalid session token")
)

const tokenTTL = 12 * time.Hour

func (m *Manager) issueToken(actor ledger.Actor) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   actor.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return "", ErrBadToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrBadToken
	}
	return claims.Subject, nil
}
