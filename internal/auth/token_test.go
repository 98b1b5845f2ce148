package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/backoffice/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testIdentity() models.Identity {
	return models.Identity{
		ID:       42,
		Username: "staff1",
		Email:    "staff1@example.com",
		Role:     models.Role{ID: 3, Name: models.RoleStaff, Permissions: []string{"orders.*"}},
		Branch:   &models.Branch{ID: 7, Name: "Downtown"},
	}
}

func TestIssueValidateRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tm := NewTokenManager("test-secret", time.Hour, WithClock(clock.Now))

	token, err := tm.Issue(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, ok := tm.Validate(token)
	require.True(t, ok)
	assert.Equal(t, int64(42), claims.IdentityID)
	assert.Equal(t, "staff1", claims.Username)
	assert.Equal(t, "staff1@example.com", claims.Email)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, int64(7), claims.BranchID)
	assert.Equal(t, "staff1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, clock.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	assert.True(t, tm.IsValid(token))
}

func TestUnbranchedIdentityCarriesZeroBranch(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	identity := testIdentity()
	identity.Branch = nil

	token, err := tm.Issue(identity)
	require.NoError(t, err)
	claims, ok := tm.Validate(token)
	require.True(t, ok)
	assert.Equal(t, int64(0), claims.BranchID)
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tm := NewTokenManager("test-secret", 30*time.Minute, WithClock(clock.Now))

	token, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	assert.True(t, tm.IsValid(token))

	clock.Advance(time.Minute)
	assert.False(t, tm.IsValid(token), "expiry must be strictly in the future")

	clock.Advance(time.Hour)
	assert.False(t, tm.IsValid(token))

	_, ok := tm.Validate(token)
	assert.False(t, ok)
	_, ok = tm.UsernameOf(token)
	assert.False(t, ok)
	_, ok = tm.IdentityIDOf(token)
	assert.False(t, ok)
	_, ok = tm.RoleOf(token)
	assert.False(t, ok)
}

func TestTokenWithoutExpiryIsRejected(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	unbounded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "staff1"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, ok := tm.Validate(unbounded)
	assert.False(t, ok)
}

func TestTamperedTokenIsInvalid(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		b := []byte(token)
		b[i] ^= 0x01
		_, ok := tm.Validate(string(b))
		assert.False(t, ok, "flipping byte %d should invalidate the token", i)
	}
}

func TestValidateRejectsForeignAndMalformedTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	foreign, err := other.Issue(testIdentity())
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c", foreign} {
		_, ok := tm.Validate(token)
		assert.False(t, ok, token)
		assert.False(t, tm.IsValid(token))
	}
}

func TestAccessorsOnInvalidToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, ok := tm.UsernameOf("garbage")
	assert.False(t, ok)
	_, ok = tm.IdentityIDOf("garbage")
	assert.False(t, ok)
	_, ok = tm.RoleOf("garbage")
	assert.False(t, ok)
}

func TestAccessorsOnValidToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	id, ok := tm.IdentityIDOf(token)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	role, ok := tm.RoleOf(token)
	assert.True(t, ok)
	assert.Equal(t, models.RoleStaff, role)
}

func TestNewTokenManagerDefaultsTTL(t *testing.T) {
	assert.Equal(t, DefaultTokenTTL, NewTokenManager("s", 0).TTL())
}
