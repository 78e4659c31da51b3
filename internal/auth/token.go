package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued bearer token stays valid. Expired
// tokens require a fresh login; there is no refresh flow.
const tokenTTL = 2 * time.Hour

// Claims are the JWT claims carried by a dashboard bearer token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with an HMAC secret.
type TokenIssuer struct {
	secret []byte

	// now is replaceable in tests.
	now func() time.Time
}

// NewTokenIssuer creates a token issuer with the given signing secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// Issue signs a new token for the given user.
func (i *TokenIssuer) Issue(u *User) (string, error) {
	now := i.now()
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning its claims.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return &claims, nil
}
