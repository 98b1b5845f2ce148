package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/backoffice/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// IdentityStore captures persistence operations on back-office accounts.
// Returned identities carry their role by value.
type IdentityStore interface {
	FindByID(ctx context.Context, id int64) (models.Identity, error)
	FindByUsername(ctx context.Context, username string) (models.Identity, error)
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	ListIdentities(ctx context.Context) ([]models.Identity, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error)
	UpdateProfile(ctx context.Context, identity models.Identity) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// RoleStore captures persistence operations on roles.
type RoleStore interface {
	FindRoleByID(ctx context.Context, id int64) (models.Role, error)
	FindRoleByName(ctx context.Context, name string) (models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, role models.Role) (models.Role, error)
	UpdateRole(ctx context.Context, role models.Role) error
}

// DashboardStore reads the headline statistics shown after login.
type DashboardStore interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// Store is the full persistence surface used by the back office.
type Store interface {
	IdentityStore
	RoleStore
	DashboardStore
	Ping(ctx context.Context) error
	Close()
}
