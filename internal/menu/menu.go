// Package menu builds the navigation shown to the logged-in operator.
package menu

import "github.com/hongminglow/backoffice/internal/models"

// Authorizer answers permission and role questions for the current operator.
// *session.Session satisfies it.
type Authorizer interface {
	HasPermission(name string) bool
	HasRole(name string) bool
}

// Item is a single action inside a group.
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Group is a top-level menu. An empty Permission and no AnyRole means always shown.
type Group struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Permission string   `json:"-"`
	AnyRole    []string `json:"-"`
	Items      []Item   `json:"items"`
}

func (g Group) allowed(authz Authorizer) bool {
	if g.Permission != "" && !authz.HasPermission(g.Permission) {
		return false
	}
	if len(g.AnyRole) == 0 {
		return true
	}
	for _, role := range g.AnyRole {
		if authz.HasRole(role) {
			return true
		}
	}
	return false
}

// Catalog is the full back-office navigation before filtering.
var Catalog = []Group{
	{Key: "file", Label: "File", Items: []Item{
		{Key: "logout", Label: "Logout"},
		{Key: "exit", Label: "Exit"},
	}},
	{Key: "dashboard", Label: "Dashboard", Permission: models.PermDashboardView, Items: []Item{
		{Key: "dashboard.overview", Label: "Overview"},
	}},
	{Key: "orders", Label: "Orders", Permission: models.PermOrdersView, Items: []Item{
		{Key: "orders.new", Label: "New Order"},
		{Key: "orders.list", Label: "View Orders"},
	}},
	{Key: "menu", Label: "Menu", Permission: models.PermMenuView, Items: []Item{
		{Key: "menu.list", Label: "View Menu Items"},
		{Key: "menu.add", Label: "Add Menu Item"},
	}},
	{Key: "inventory", Label: "Inventory", Permission: models.PermInventoryView, Items: []Item{
		{Key: "inventory.list", Label: "View Inventory"},
		{Key: "inventory.add", Label: "Add Stock"},
	}},
	{Key: "reports", Label: "Reports", Permission: models.PermReportsView, Items: []Item{
		{Key: "reports.sales", Label: "Sales Report"},
		{Key: "reports.inventory", Label: "Inventory Report"},
	}},
	{Key: "users", Label: "Users", Permission: models.PermUsersView, Items: []Item{
		{Key: "users.list", Label: "View Users"},
	}},
	{Key: "roles", Label: "Roles", Permission: models.PermRolesManage, Items: []Item{
		{Key: "roles.list", Label: "Manage Roles"},
	}},
	{Key: "help", Label: "Help", Items: []Item{
		{Key: "help.about", Label: "About"},
	}},
}

// Visible filters groups down to what authz may see, keeping catalog order.
func Visible(groups []Group, authz Authorizer) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.allowed(authz) {
			out = append(out, g)
		}
	}
	return out
}
