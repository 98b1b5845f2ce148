package dto

import (
	"github.com/hongminglow/backoffice/internal/menu"
	"github.com/hongminglow/backoffice/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	RoleID   int64  `json:"role_id"`
	BranchID int64  `json:"branch_id"`
}

type RegisterResponse struct {
	ID       int64  `json:"id"`
	Strength string `json:"password_strength"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	User    models.Identity `json:"user"`
	Menu    []menu.Group    `json:"menu"`
	Expired bool            `json:"expired"`
}

type RoleRequest struct {
	Name        string   `json:"role"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type SettingsResponse struct {
	Currency string  `json:"currency"`
	TaxRate  float64 `json:"tax_rate"`
}
