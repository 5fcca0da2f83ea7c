// Package utils provides token and password helpers shared by the auth
// handlers and middleware.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded identity carried by an access token.  ID is the
// account id of the admin, recruiter or client the token was issued to.
type Claims struct {
	ID    string
	Email string
	Role  string
}

// Token parse failures.  Middleware maps these to distinct 401 messages
// so clients can tell an expired session from a bad token.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// NewToken builds and signs an HS256 JWT for an account.  The token
// carries the account id, email and role, and expires ttlDays from now.
func NewToken(secret, id, email, role string, ttlDays int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(ttlDays) * 24 * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry of a token and returns its
// claims.  Only HS256 is accepted; a token signed with any other method
// fails verification.
func ParseToken(secret, token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}
	c := Claims{}
	if c.ID, ok = mc["id"].(string); !ok || c.ID == "" {
		return Claims{}, ErrTokenInvalid
	}
	c.Email, _ = mc["email"].(string)
	if c.Role, ok = mc["role"].(string); !ok || c.Role == "" {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
