package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Seeded role names.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleKitchen = "kitchen"
)

// Wildcard grants every permission.
const Wildcard = "*"

const prefixSuffix = ".*"

// Permission names checked by the back office.
const (
	PermOrdersView      = "orders.view"
	PermOrdersCreate    = "orders.create"
	PermOrdersUpdate    = "orders.update"
	PermMenuView        = "menu.view"
	PermMenuManage      = "menu.manage"
	PermInventoryView   = "inventory.view"
	PermInventoryManage = "inventory.manage"
	PermTablesView      = "tables.view"
	PermReportsView     = "reports.view"
	PermUsersView       = "users.view"
	PermUsersCreate     = "users.create"
	PermUsersManage     = "users.manage"
	PermRolesManage     = "roles.manage"
	PermDashboardView   = "dashboard.view"
)

// ErrInvalidPermission reports a permission string outside the accepted grammar.
var ErrInvalidPermission = errors.New("invalid permission")

var permissionName = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

// Role is a named bundle of permission grants.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"role"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether the role grants name. The first matching rule wins:
// the "*" wildcard, an exact entry, then any "prefix.*" entry covering name.
func (r Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p == Wildcard {
			return true
		}
	}
	for _, p := range r.Permissions {
		if p == name {
			return true
		}
	}
	for _, p := range r.Permissions {
		if !strings.HasSuffix(p, prefixSuffix) {
			continue
		}
		prefix := strings.TrimSuffix(p, prefixSuffix)
		if strings.HasPrefix(name, prefix+".") {
			return true
		}
	}
	return false
}

// AddPermission appends p unless it is already present.
func (r *Role) AddPermission(p string) {
	for _, existing := range r.Permissions {
		if existing == p {
			return
		}
	}
	r.Permissions = append(r.Permissions, p)
}

// RemovePermission drops p, keeping the order of the remaining entries.
func (r *Role) RemovePermission(p string) {
	out := r.Permissions[:0]
	for _, existing := range r.Permissions {
		if existing != p {
			out = append(out, existing)
		}
	}
	r.Permissions = out
}

// IsNamed compares the role name case-insensitively.
func (r Role) IsNamed(name string) bool {
	return r.Name != "" && strings.EqualFold(r.Name, name)
}

// ValidatePermission accepts "*", a dotted permission name, or a dotted prefix ending in ".*".
func ValidatePermission(p string) error {
	if p == Wildcard {
		return nil
	}
	name := strings.TrimSuffix(p, prefixSuffix)
	if !permissionName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPermission, p)
	}
	return nil
}

// NormalizePermissions validates every entry and removes duplicates, preserving first-seen order.
func NormalizePermissions(perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if err := ValidatePermission(p); err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}
