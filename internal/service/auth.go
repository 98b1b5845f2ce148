package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/session"
	"github.com/hongminglow/backoffice/internal/storage"
)

// AuthService orchestrates credentials, tokens, and the session for login,
// logout, registration, and password changes.
type AuthService struct {
	identities  storage.IdentityStore
	roles       storage.RoleStore
	tokens      *auth.TokenManager
	session     *session.Session
	log         *logging.Logger
	defaultRole string
	now         func() time.Time
}

// NewAuthService wires the service. defaultRole names the role given to
// registrations that do not carry one.
func NewAuthService(identities storage.IdentityStore, roles storage.RoleStore, tokens *auth.TokenManager,
	sess *session.Session, log *logging.Logger, defaultRole string) *AuthService {
	return &AuthService{
		identities:  identities,
		roles:       roles,
		tokens:      tokens,
		session:     sess,
		log:         log.With("component", "auth"),
		defaultRole: defaultRole,
		now:         time.Now,
	}
}

// Session exposes the session this service drives.
func (s *AuthService) Session() *session.Session {
	return s.session
}

// Tokens exposes the manager that signs and checks session tokens.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}

// Authenticate verifies the credentials of an active identity, issues a token,
// and records the identity in the session. The returned identity carries the token.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.Identity, error) {
	identity, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("login rejected", "username", username, "reason", "unknown username")
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, unavailable(err)
	}

	if !identity.IsActive() {
		s.log.Warn("login rejected", "username", username, "reason", "account "+identity.Status)
		return models.Identity{}, ErrAccountInactive
	}

	if !auth.VerifyPassword(password, identity.PasswordHash) {
		s.log.Warn("login rejected", "username", username, "reason", "password mismatch")
		return models.Identity{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return models.Identity{}, fmt.Errorf("issue token: %w", err)
	}
	identity.Token = token

	// last-login is best effort; a failed write never blocks the login
	at := s.now()
	if err := s.identities.UpdateLastLogin(ctx, identity.ID, at); err != nil {
		s.log.Warn("update last login failed", "identity_id", identity.ID, "error", err)
	} else {
		identity.LastLogin = &at
	}

	s.session.Login(identity, token)
	s.log.Info("login succeeded", "identity_id", identity.ID, "username", identity.Username, "role", identity.Role.Name)
	return identity, nil
}

// Logout clears the session. Calling it while logged out is a no-op.
func (s *AuthService) Logout() {
	if identity, ok := s.session.CurrentIdentity(); ok {
		s.log.Info("logout", "identity_id", identity.ID)
	}
	s.session.Logout()
}

// IsLoggedIn reports whether the session holds an identity.
func (s *AuthService) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}

// CurrentIdentity returns the logged-in identity.
func (s *AuthService) CurrentIdentity() (models.Identity, bool) {
	return s.session.CurrentIdentity()
}

// HasPermission checks the current identity's role.
func (s *AuthService) HasPermission(name string) bool {
	return s.session.HasPermission(name)
}

// Register creates an active identity with a hashed password and returns its id.
// Username uniqueness is checked before email uniqueness.
func (s *AuthService) Register(ctx context.Context, identity models.Identity, password string) (int64, error) {
	identity.Username = strings.TrimSpace(identity.Username)
	identity.Email = strings.TrimSpace(identity.Email)

	taken, err := s.identities.UsernameExists(ctx, identity.Username)
	if err != nil {
		return 0, unavailable(err)
	}
	if taken {
		return 0, ErrDuplicateUsername
	}
	taken, err = s.identities.EmailExists(ctx, identity.Email)
	if err != nil {
		return 0, unavailable(err)
	}
	if taken {
		return 0, ErrDuplicateEmail
	}

	role, err := s.resolveRole(ctx, identity.Role)
	if err != nil {
		return 0, err
	}
	identity.Role = role

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	identity.PasswordHash = hash
	identity.Status = models.StatusActive
	identity.Token = ""

	created, err := s.identities.CreateIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return 0, s.conflict(ctx, identity)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrUnknownRole
		}
		return 0, unavailable(err)
	}

	s.log.Info("identity registered", "identity_id", created.ID, "username", created.Username, "role", created.Role.Name)
	return created.ID, nil
}

// ChangePassword replaces the password after verifying the old one. Outstanding
// tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, oldPassword, newPassword string) error {
	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return lookupErr(err, ErrNotFound)
	}
	if !auth.VerifyPassword(oldPassword, identity.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.identities.UpdatePassword(ctx, identityID, hash); err != nil {
		return lookupErr(err, ErrNotFound)
	}
	s.log.Info("password changed", "identity_id", identityID)
	return nil
}

// UpdateProfile rewrites the contact fields of an identity. A held session for
// the same identity sees the new values.
func (s *AuthService) UpdateProfile(ctx context.Context, identityID int64, fullName, phone, email string) (models.Identity, error) {
	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return models.Identity{}, lookupErr(err, ErrNotFound)
	}

	email = strings.TrimSpace(email)
	if email != "" && email != identity.Email {
		taken, err := s.identities.EmailExists(ctx, email)
		if err != nil {
			return models.Identity{}, unavailable(err)
		}
		if taken {
			return models.Identity{}, ErrDuplicateEmail
		}
		identity.Email = email
	}
	identity.FullName = strings.TrimSpace(fullName)
	identity.Phone = strings.TrimSpace(phone)

	if err := s.identities.UpdateProfile(ctx, identity); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.Identity{}, ErrDuplicateEmail
		case errors.Is(err, storage.ErrNotFound):
			return models.Identity{}, ErrNotFound
		default:
			return models.Identity{}, unavailable(err)
		}
	}
	s.session.Refresh(identity)
	return identity, nil
}

// SetStatus activates, deactivates, or suspends an account. Existing sessions
// and tokens are unaffected.
func (s *AuthService) SetStatus(ctx context.Context, identityID int64, status string) error {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusSuspended:
	default:
		return ErrInvalidStatus
	}
	if err := s.identities.UpdateStatus(ctx, identityID, status); err != nil {
		return lookupErr(err, ErrNotFound)
	}
	s.log.Info("account status changed", "identity_id", identityID, "status", status)
	return nil
}

// FindByEmail looks up one identity by email address.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	identity, err := s.identities.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.Identity{}, lookupErr(err, ErrNotFound)
	}
	return identity, nil
}

// ListIdentities returns every registered identity.
func (s *AuthService) ListIdentities(ctx context.Context) ([]models.Identity, error) {
	identities, err := s.identities.ListIdentities(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return identities, nil
}

func (s *AuthService) resolveRole(ctx context.Context, requested models.Role) (models.Role, error) {
	var (
		role models.Role
		err  error
	)
	switch {
	case requested.ID != 0:
		role, err = s.roles.FindRoleByID(ctx, requested.ID)
	case requested.Name != "":
		role, err = s.roles.FindRoleByName(ctx, requested.Name)
	default:
		role, err = s.roles.FindRoleByName(ctx, s.defaultRole)
	}
	if err != nil {
		return models.Role{}, lookupErr(err, ErrUnknownRole)
	}
	return role, nil
}

// conflict decides which uniqueness rule a failed insert tripped.
func (s *AuthService) conflict(ctx context.Context, identity models.Identity) error {
	taken, err := s.identities.UsernameExists(ctx, identity.Username)
	if err != nil {
		return unavailable(err)
	}
	if taken {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}
