package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleHasPermission(t *testing.T) {
	cases := []struct {
		name  string
		perms []string
		check string
		want  bool
	}{
		{"prefix grants create", []string{"orders.*"}, "orders.create", true},
		{"prefix grants view", []string{"orders.*"}, "orders.view", true},
		{"prefix does not leak", []string{"orders.*"}, "inventory.view", false},
		{"prefix needs dot boundary", []string{"orders.*"}, "ordersx.view", false},
		{"prefix does not grant bare name", []string{"orders.*"}, "orders", false},
		{"nested prefix", []string{"reports.sales.*"}, "reports.sales.daily", true},
		{"wildcard", []string{"*"}, "anything.at.all", true},
		{"exact", []string{"menu.view"}, "menu.view", true},
		{"exact mismatch", []string{"menu.view"}, "menu.manage", false},
		{"empty set", nil, "orders.view", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role := Role{Name: "tester", Permissions: tc.perms}
			assert.Equal(t, tc.want, role.HasPermission(tc.check))
		})
	}
}

func TestRoleNamedAdminWithoutWildcardGrantsNothing(t *testing.T) {
	role := Role{Name: "admin"}
	assert.False(t, role.HasPermission(PermOrdersView))
	assert.True(t, role.IsNamed("ADMIN"))
}

func TestRoleAddRemovePermission(t *testing.T) {
	role := Role{Name: RoleStaff}
	role.AddPermission("orders.*")
	role.AddPermission("menu.view")
	role.AddPermission("orders.*")
	assert.Equal(t, []string{"orders.*", "menu.view"}, role.Permissions)

	role.RemovePermission("orders.*")
	assert.Equal(t, []string{"menu.view"}, role.Permissions)
	assert.False(t, role.HasPermission(PermOrdersCreate))

	role.RemovePermission("missing")
	assert.Equal(t, []string{"menu.view"}, role.Permissions)
}

func TestValidatePermission(t *testing.T) {
	for _, ok := range []string{"*", "orders.view", "orders.*", "reports.sales.*", "settings"} {
		assert.NoError(t, ValidatePermission(ok), ok)
	}
	for _, bad := range []string{"", ".*", "orders.", "orders*", "Orders.View", "orders..view", "* "} {
		err := ValidatePermission(bad)
		assert.True(t, errors.Is(err, ErrInvalidPermission), bad)
	}
}

func TestNormalizePermissions(t *testing.T) {
	got, err := NormalizePermissions([]string{" orders.* ", "menu.view", "orders.*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.*", "menu.view"}, got)

	_, err = NormalizePermissions([]string{"menu.view", "bad perm"})
	assert.ErrorIs(t, err, ErrInvalidPermission)
}

func TestIdentityBranchID(t *testing.T) {
	assert.Equal(t, int64(0), Identity{}.BranchID())
	assert.Equal(t, int64(4), Identity{Branch: &Branch{ID: 4}}.BranchID())
}
