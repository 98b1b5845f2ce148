// Package session holds the process-local record of who is currently logged in.
//
// A Session is constructed once by the process owner and passed to the
// components that need it. Login overwrites any previous state; there is no
// multi-session support. Methods are safe for concurrent use so the UI bridge
// may read the session from request goroutines.
package session

import (
	"sync"
	"time"

	"github.com/hongminglow/backoffice/internal/models"
)

// DefaultIdleTimeout applies when no positive timeout is configured.
const DefaultIdleTimeout = 30 * time.Minute

// Session tracks the authenticated identity, its token, and activity timestamps.
type Session struct {
	mu          sync.Mutex
	idleTimeout time.Duration
	now         func() time.Time

	identity     *models.Identity
	token        string
	loginTime    time.Time
	lastActivity time.Time
}

// Option customises a Session.
type Option func(*Session)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New returns an empty (logged out) session with the given idle timeout.
func New(idleTimeout time.Duration, opts ...Option) *Session {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	s := &Session{idleTimeout: idleTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login replaces any prior session state unconditionally.
func (s *Session) Login(identity models.Identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	identity.Token = token
	s.identity = &identity
	s.token = token
	s.loginTime = now
	s.lastActivity = now
}

// Logout clears every field. Calling it while logged out is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.token = ""
	s.loginTime = time.Time{}
	s.lastActivity = time.Time{}
}

// Refresh replaces the held identity's fields when it is the same account,
// keeping the token and timestamps.
func (s *Session) Refresh(identity models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil || s.identity.ID != identity.ID {
		return
	}
	identity.Token = s.token
	s.identity = &identity
}

// IsLoggedIn reports whether an identity is held.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// CurrentIdentity returns the logged-in identity and refreshes the activity timestamp.
func (s *Session) CurrentIdentity() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return models.Identity{}, false
	}
	s.lastActivity = s.now()
	return *s.identity, true
}

// CurrentToken returns the token issued at login.
func (s *Session) CurrentToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.identity != nil
}

// HasPermission evaluates name against the current identity's role. False when logged out.
func (s *Session) HasPermission(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	return s.identity.HasPermission(name)
}

// HasRole compares the current role name case-insensitively. False when logged out.
func (s *Session) HasRole(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	return s.identity.HasRole(name)
}

// IsSessionExpired reports whether the last activity is older than the idle
// timeout, or no login has happened.
func (s *Session) IsSessionExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil || s.lastActivity.IsZero() {
		return true
	}
	return s.now().Sub(s.lastActivity) > s.idleTimeout
}

// LoginTime returns when the current session began.
func (s *Session) LoginTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginTime
}

// LastActivity returns the last time the current identity was read.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}
