package models

import "time"

// Account statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Branch is the physical location an identity may belong to.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Identity captures a registered back-office account. The role is embedded by value.
type Identity struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	Status       string     `json:"status"`
	Role         Role       `json:"role"`
	Branch       *Branch    `json:"branch,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Token        string     `json:"token,omitempty"`
}

// IsActive reports whether the account may sign in.
func (i Identity) IsActive() bool {
	return i.Status == StatusActive
}

// BranchID returns the assigned branch id, or 0 when unbranched.
func (i Identity) BranchID() int64 {
	if i.Branch == nil {
		return 0
	}
	return i.Branch.ID
}

// HasPermission delegates to the identity's role.
func (i Identity) HasPermission(name string) bool {
	return i.Role.HasPermission(name)
}

// HasRole compares the role name case-insensitively.
func (i Identity) HasRole(name string) bool {
	return i.Role.IsNamed(name)
}
