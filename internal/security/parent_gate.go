package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// The parental gate is UX friction around destructive and profile-creating
// actions, not a security boundary: a shared code is checked, and a
// short-lived token lets the parent finish a batch of gated actions without
// retyping it.

// HashParentCode hashes the parent code with bcrypt for storage in settings
func HashParentCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash parent code: %w", err)
	}
	return string(hash), nil
}

// CheckParentCode reports whether input matches the stored hash
func CheckParentCode(hash, input string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(input)) == nil
}

// GateTokens issues and validates short-lived parent-gate tokens.
type GateTokens struct {
	secret   []byte
	duration time.Duration
}

// NewGateTokens creates a gate token issuer
func NewGateTokens(secret string, duration time.Duration) *GateTokens {
	return &GateTokens{secret: []byte(secret), duration: duration}
}

// Issue returns a signed token valid for the configured duration
func (g *GateTokens) Issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "parent-gate",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.duration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign gate token: %w", err)
	}
	return signed, nil
}

// Validate checks a token's signature, subject and expiry
func (g *GateTokens) Validate(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid gate token: %w", err)
	}
	if !token.Valid || claims.Subject != "parent-gate" {
		return fmt.Errorf("invalid gate token")
	}
	return nil
}
