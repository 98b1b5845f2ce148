package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/backoffice/internal/models"
)

// DefaultTokenTTL applies when no positive lifetime is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the payload carried by a session token.
type Claims struct {
	IdentityID int64  `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	BranchID   int64  `json:"branchId"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed, time-limited session tokens.
// The secret and lifetime are fixed at construction.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *TokenManager) {
		t.now = now
	}
}

// NewTokenManager creates a manager with the provided secret and lifetime.
func NewTokenManager(secret string, ttl time.Duration, opts ...Option) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	t := &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TTL returns the configured token lifetime.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for the identity, expiring one TTL from now.
func (t *TokenManager) Issue(identity models.Identity) (string, error) {
	now := t.now()
	claims := Claims{
		IdentityID: identity.ID,
		Username:   identity.Username,
		Email:      identity.Email,
		Role:       identity.Role.Name,
		BranchID:   identity.BranchID(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry and returns the embedded claims.
// A token is live only while its expiry is strictly after now. Any failure,
// including expiry, yields ok == false.
func (t *TokenManager) Validate(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ExpiresAt == nil {
		return nil, false
	}
	return claims, true
}

// IsValid reports whether the token is authentic and unexpired.
func (t *TokenManager) IsValid(token string) bool {
	_, ok := t.Validate(token)
	return ok
}

// UsernameOf returns the username claim of an authentic token.
func (t *TokenManager) UsernameOf(token string) (string, bool) {
	claims, ok := t.Validate(token)
	if !ok {
		return "", false
	}
	return claims.Username, true
}

// IdentityIDOf returns the identity id claim of an authentic token.
func (t *TokenManager) IdentityIDOf(token string) (int64, bool) {
	claims, ok := t.Validate(token)
	if !ok {
		return 0, false
	}
	return claims.IdentityID, true
}

// RoleOf returns the role name claim of an authentic token.
func (t *TokenManager) RoleOf(token string) (string, bool) {
	claims, ok := t.Validate(token)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
