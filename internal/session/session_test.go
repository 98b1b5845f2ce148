package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/backoffice/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func staff() models.Identity {
	return models.Identity{
		ID:       1,
		Username: "staff1",
		Status:   models.StatusActive,
		Role:     models.Role{Name: "Staff", Permissions: []string{"orders.*", "menu.view"}},
	}
}

func TestLoginLogout(t *testing.T) {
	s := New(time.Minute)
	assert.False(t, s.IsLoggedIn())
	_, ok := s.CurrentIdentity()
	assert.False(t, ok)

	s.Login(staff(), "tok-1")
	require.True(t, s.IsLoggedIn())

	got, ok := s.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, "staff1", got.Username)
	assert.Equal(t, "tok-1", got.Token)

	token, ok := s.CurrentToken()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", token)

	s.Logout()
	assert.False(t, s.IsLoggedIn())
	token, ok = s.CurrentToken()
	assert.False(t, ok)
	assert.Empty(t, token)
	assert.True(t, s.LoginTime().IsZero())
	assert.True(t, s.LastActivity().IsZero())

	// idempotent
	s.Logout()
	assert.False(t, s.IsLoggedIn())
}

func TestLoginOverwritesPriorSession(t *testing.T) {
	s := New(time.Minute)
	s.Login(staff(), "tok-1")

	other := staff()
	other.ID = 2
	other.Username = "manager1"
	s.Login(other, "tok-2")

	got, ok := s.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, "manager1", got.Username)
	token, _ := s.CurrentToken()
	assert.Equal(t, "tok-2", token)
}

func TestPermissionAndRoleChecks(t *testing.T) {
	s := New(time.Minute)
	assert.False(t, s.HasPermission(models.PermOrdersCreate))
	assert.False(t, s.HasRole(models.RoleStaff))

	s.Login(staff(), "tok")
	assert.True(t, s.HasPermission(models.PermOrdersCreate))
	assert.True(t, s.HasPermission(models.PermMenuView))
	assert.False(t, s.HasPermission(models.PermInventoryView))
	assert.True(t, s.HasRole("staff"))
	assert.True(t, s.HasRole("STAFF"))
	assert.False(t, s.HasRole("admin"))
}

func TestIdleTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := New(30*time.Minute, WithClock(clock.Now))

	assert.True(t, s.IsSessionExpired(), "never logged in counts as expired")

	s.Login(staff(), "tok")
	assert.False(t, s.IsSessionExpired())
	assert.Equal(t, clock.now, s.LoginTime())

	clock.Advance(20 * time.Minute)
	_, _ = s.CurrentIdentity()
	assert.Equal(t, clock.now, s.LastActivity())

	clock.Advance(30 * time.Minute)
	assert.False(t, s.IsSessionExpired(), "exactly at the timeout is not yet expired")

	clock.Advance(time.Millisecond)
	assert.True(t, s.IsSessionExpired())

	// non-refreshing reads do not extend the session
	assert.True(t, s.HasPermission(models.PermOrdersView))
	assert.True(t, s.IsSessionExpired())
}

func TestDefaultIdleTimeout(t *testing.T) {
	assert.Equal(t, DefaultIdleTimeout, New(0).idleTimeout)
}
