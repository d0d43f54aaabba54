package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Claims is the decoded view of the backend's JWT payload, used only for
// display (who am I, when does this expire). The signature is never verified
// client-side; the server remains the authority on validity.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past. Tokens
// without an exp claim are treated as unexpired.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the current token without verification.
func (s *Store) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNotAuthenticated
	}

	mapClaims := jwt.MapClaims{}
	parser := new(jwt.Parser)
	if _, _, err := parser.ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("session: decode token: %w", err)
	}

	claims := Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if role, ok := mapClaims["rol"].(string); ok {
		claims.Role = role
	} else if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
