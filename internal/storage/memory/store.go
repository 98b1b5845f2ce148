// Package memory is an in-process implementation of storage.Store used for
// tests and for running the back office without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps identities and roles in maps keyed by id.
type Store struct {
	mu         sync.RWMutex
	identities map[int64]models.Identity
	roles      map[int64]models.Role
	stats      models.DashboardStats
	nextUser   int64
	nextRole   int64
	now        func() time.Time
}

// NewStore returns a store seeded with the default roles.
func NewStore() *Store {
	s := &Store{
		identities: make(map[int64]models.Identity),
		roles:      make(map[int64]models.Role),
		now:        time.Now,
	}
	for _, role := range SeedRoles() {
		s.nextRole++
		role.ID = s.nextRole
		role.CreatedAt = s.now()
		role.UpdatedAt = role.CreatedAt
		s.roles[role.ID] = role
	}
	return s
}

// SeedRoles returns the roles every fresh store starts with.
func SeedRoles() []models.Role {
	return []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator", Permissions: []string{models.Wildcard}},
		{Name: models.RoleManager, Description: "Branch manager", Permissions: []string{
			"orders.*", "menu.*", "inventory.*", "tables.*", "reports.*", models.PermUsersView, models.PermDashboardView,
		}},
		{Name: models.RoleStaff, Description: "Floor staff", Permissions: []string{
			"orders.*", "tables.*", models.PermMenuView, models.PermDashboardView,
		}},
		{Name: models.RoleKitchen, Description: "Kitchen staff", Permissions: []string{
			models.PermOrdersView, models.PermOrdersUpdate, models.PermInventoryView,
		}},
	}
}

// SetDashboardStats replaces the statistics returned by DashboardStats.
func (s *Store) SetDashboardStats(stats models.DashboardStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// Ping always succeeds; there is nothing to reach.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// FindByID returns the identity with id and its current role.
func (s *Store) FindByID(_ context.Context, id int64) (models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return models.Identity{}, storage.ErrNotFound
	}
	return s.withRole(identity), nil
}

// FindByUsername matches username exactly.
func (s *Store) FindByUsername(_ context.Context, username string) (models.Identity, error) {
	return s.findBy(func(i models.Identity) bool { return i.Username == username })
}

// FindByEmail matches email exactly.
func (s *Store) FindByEmail(_ context.Context, email string) (models.Identity, error) {
	return s.findBy(func(i models.Identity) bool { return i.Email == email })
}

// ListIdentities returns every identity, newest first.
func (s *Store) ListIdentities(context.Context) ([]models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		out = append(out, s.withRole(identity))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UsernameExists reports whether an identity already uses username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return err == nil, nil
}

// EmailExists reports whether an identity already uses email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

// CreateIdentity assigns an id and stores identity. A taken username or
// email yields storage.ErrAlreadyExists.
func (s *Store) CreateIdentity(_ context.Context, identity models.Identity) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[identity.Role.ID]; !ok {
		return models.Identity{}, storage.ErrNotFound
	}
	for _, existing := range s.identities {
		if existing.Username == identity.Username || existing.Email == identity.Email {
			return models.Identity{}, storage.ErrAlreadyExists
		}
	}
	s.nextUser++
	identity.ID = s.nextUser
	identity.CreatedAt = s.now()
	identity.UpdatedAt = identity.CreatedAt
	identity.Token = ""
	s.identities[identity.ID] = identity
	return s.withRole(identity), nil
}

// UpdateProfile rewrites the name, phone, and email of an identity.
func (s *Store) UpdateProfile(_ context.Context, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.identities[identity.ID]
	if !ok {
		return storage.ErrNotFound
	}
	for id, existing := range s.identities {
		if id != identity.ID && existing.Email == identity.Email {
			return storage.ErrAlreadyExists
		}
	}
	current.FullName = identity.FullName
	current.Phone = identity.Phone
	current.Email = identity.Email
	current.UpdatedAt = s.now()
	s.identities[identity.ID] = current
	return nil
}

// UpdateStatus sets the account status.
func (s *Store) UpdateStatus(_ context.Context, id int64, status string) error {
	return s.update(id, func(i *models.Identity) {
		i.Status = status
		i.UpdatedAt = s.now()
	})
}

// UpdatePassword replaces the stored hash.
func (s *Store) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	return s.update(id, func(i *models.Identity) {
		i.PasswordHash = passwordHash
		i.UpdatedAt = s.now()
	})
}

// UpdateLastLogin records a successful login time.
func (s *Store) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	return s.update(id, func(i *models.Identity) {
		i.LastLogin = &at
	})
}

// FindRoleByID returns the role with id.
func (s *Store) FindRoleByID(_ context.Context, id int64) (models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[id]
	if !ok {
		return models.Role{}, storage.ErrNotFound
	}
	return cloneRole(role), nil
}

// FindRoleByName matches the role name exactly.
func (s *Store) FindRoleByName(_ context.Context, name string) (models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, role := range s.roles {
		if role.Name == name {
			return cloneRole(role), nil
		}
	}
	return models.Role{}, storage.ErrNotFound
}

// ListRoles returns every role ordered by name.
func (s *Store) ListRoles(context.Context) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Role, 0, len(s.roles))
	for _, role := range s.roles {
		out = append(out, cloneRole(role))
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

// CreateRole assigns an id and stores role unless its name is taken.
func (s *Store) CreateRole(_ context.Context, role models.Role) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if existing.Name == role.Name {
			return models.Role{}, storage.ErrAlreadyExists
		}
	}
	s.nextRole++
	role.ID = s.nextRole
	role.CreatedAt = s.now()
	role.UpdatedAt = role.CreatedAt
	role = cloneRole(role)
	s.roles[role.ID] = role
	return cloneRole(role), nil
}

// UpdateRole replaces the name, description, and permissions of a role.
func (s *Store) UpdateRole(_ context.Context, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.roles[role.ID]
	if !ok {
		return storage.ErrNotFound
	}
	for id, existing := range s.roles {
		if id != role.ID && existing.Name == role.Name {
			return storage.ErrAlreadyExists
		}
	}
	role.CreatedAt = current.CreatedAt
	role.UpdatedAt = s.now()
	s.roles[role.ID] = cloneRole(role)
	return nil
}

// DashboardStats returns the figures set by SetDashboardStats.
func (s *Store) DashboardStats(context.Context) (models.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *Store) findBy(match func(models.Identity) bool) (models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, identity := range s.identities {
		if match(identity) {
			return s.withRole(identity), nil
		}
	}
	return models.Identity{}, storage.ErrNotFound
}

func (s *Store) update(id int64, mutate func(*models.Identity)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return storage.ErrNotFound
	}
	mutate(&identity)
	s.identities[id] = identity
	return nil
}

// withRole refreshes the embedded role from the role table, as a join would.
func (s *Store) withRole(identity models.Identity) models.Identity {
	if role, ok := s.roles[identity.Role.ID]; ok {
		identity.Role = cloneRole(role)
	}
	return identity
}

func cloneRole(role models.Role) models.Role {
	role.Permissions = append([]string(nil), role.Permissions...)
	return role
}
