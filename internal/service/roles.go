package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/storage"
)

// ErrInvalidRole reports a role without a usable name.
var ErrInvalidRole = errors.New("role name is required")

// RoleService administers roles and their permission sets.
type RoleService struct {
	roles storage.RoleStore
	log   *logging.Logger
}

// NewRoleService wires the service.
func NewRoleService(roles storage.RoleStore, log *logging.Logger) *RoleService {
	return &RoleService{roles: roles, log: log.With("component", "roles")}
}

// ListRoles returns every role ordered by name.
func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return roles, nil
}

// Role fetches one role by id.
func (s *RoleService) Role(ctx context.Context, id int64) (models.Role, error) {
	role, err := s.roles.FindRoleByID(ctx, id)
	if err != nil {
		return models.Role{}, lookupErr(err, ErrUnknownRole)
	}
	return role, nil
}

// CreateRole stores a new role after validating its permission patterns.
func (s *RoleService) CreateRole(ctx context.Context, name, description string, permissions []string) (models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Role{}, ErrInvalidRole
	}
	perms, err := models.NormalizePermissions(permissions)
	if err != nil {
		return models.Role{}, err
	}

	created, err := s.roles.CreateRole(ctx, models.Role{Name: name, Description: strings.TrimSpace(description), Permissions: perms})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Role{}, ErrDuplicateRole
		}
		return models.Role{}, unavailable(err)
	}
	s.log.Info("role created", "role_id", created.ID, "role", created.Name, "permissions", created.Permissions)
	return created, nil
}

// SetPermissions replaces the permission set of a role.
func (s *RoleService) SetPermissions(ctx context.Context, id int64, permissions []string) (models.Role, error) {
	perms, err := models.NormalizePermissions(permissions)
	if err != nil {
		return models.Role{}, err
	}
	return s.mutate(ctx, id, func(r *models.Role) { r.Permissions = perms })
}

// GrantPermission adds one permission; granting an existing entry changes nothing.
func (s *RoleService) GrantPermission(ctx context.Context, id int64, permission string) (models.Role, error) {
	permission = strings.TrimSpace(permission)
	if err := models.ValidatePermission(permission); err != nil {
		return models.Role{}, err
	}
	return s.mutate(ctx, id, func(r *models.Role) { r.AddPermission(permission) })
}

// RevokePermission removes one permission if present.
func (s *RoleService) RevokePermission(ctx context.Context, id int64, permission string) (models.Role, error) {
	return s.mutate(ctx, id, func(r *models.Role) { r.RemovePermission(strings.TrimSpace(permission)) })
}

func (s *RoleService) mutate(ctx context.Context, id int64, change func(*models.Role)) (models.Role, error) {
	role, err := s.roles.FindRoleByID(ctx, id)
	if err != nil {
		return models.Role{}, lookupErr(err, ErrUnknownRole)
	}
	change(&role)
	if err := s.roles.UpdateRole(ctx, role); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.Role{}, ErrUnknownRole
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.Role{}, ErrDuplicateRole
		default:
			return models.Role{}, unavailable(err)
		}
	}
	s.log.Info("role permissions updated", "role_id", role.ID, "permissions", role.Permissions)
	return role, nil
}
