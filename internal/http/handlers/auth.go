package handlers

import (
	"net/http"
	"strings"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/menu"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/models/dto"
	"github.com/hongminglow/backoffice/internal/service"
)

// AuthHandler exposes login, logout, the current session, and account changes.
type AuthHandler struct {
	svc  *service.AuthService
	gate *middleware.Gate
	out  *respond.Responder
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *service.AuthService, gate *middleware.Gate, log *logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, gate: gate, out: respond.New(log.With("component", "auth_handler"))}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)
	mux.HandleFunc("GET /session", h.gate.RequireLogin(h.handleSession))
	mux.HandleFunc("PUT /password", h.gate.RequireLogin(h.handlePassword))
	mux.HandleFunc("PUT /profile", h.gate.RequireLogin(h.handleProfile))
	mux.HandleFunc("POST /register", h.gate.RequirePermission(models.PermUsersCreate, h.handleRegister))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		h.out.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	identity, err := h.svc.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: identity.Token, User: identity})
}

// handleLogout is a no-op without a session. A live session can only be ended
// by the caller holding its token.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if h.svc.IsLoggedIn() && !h.gate.HoldsSession(r) {
		h.out.Error(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	h.svc.Logout()
	h.out.JSON(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Session()
	identity, ok := sess.CurrentIdentity()
	if !ok {
		h.out.Error(w, http.StatusUnauthorized, "login required")
		return
	}
	h.out.JSON(w, http.StatusOK, "ok", dto.SessionResponse{
		User:    identity,
		Menu:    menu.Visible(menu.Catalog, sess),
		Expired: sess.IsSessionExpired(),
	})
}

func (h *AuthHandler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		h.out.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	identity, ok := h.svc.CurrentIdentity()
	if !ok {
		h.out.Error(w, http.StatusUnauthorized, "login required")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "password changed", map[string]string{
		"password_strength": auth.PasswordStrength(req.NewPassword),
	})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	if err := validateProfile(req); err != nil {
		h.out.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	identity, ok := h.svc.CurrentIdentity()
	if !ok {
		h.out.Error(w, http.StatusUnauthorized, "login required")
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), identity.ID, req.FullName, req.Phone, req.Email)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "profile updated", updated)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	if err := validateRegister(req); err != nil {
		h.out.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	identity := models.Identity{
		Username: req.Username,
		Email:    req.Email,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     models.Role{ID: req.RoleID},
	}
	if req.BranchID != 0 {
		identity.Branch = &models.Branch{ID: req.BranchID}
	}

	id, err := h.svc.Register(r.Context(), identity, req.Password)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusCreated, "user created", dto.RegisterResponse{
		ID:       id,
		Strength: auth.PasswordStrength(req.Password),
	})
}
