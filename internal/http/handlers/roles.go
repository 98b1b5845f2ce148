package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/models/dto"
	"github.com/hongminglow/backoffice/internal/service"
)

// RolesHandler administers roles and their permission sets.
type RolesHandler struct {
	svc  *service.RoleService
	gate *middleware.Gate
	out  *respond.Responder
}

func NewRolesHandler(svc *service.RoleService, gate *middleware.Gate, log *logging.Logger) *RolesHandler {
	return &RolesHandler{svc: svc, gate: gate, out: respond.New(log.With("component", "roles_handler"))}
}

func (h *RolesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /roles", h.gate.RequirePermission(models.PermRolesManage, h.handleList))
	mux.HandleFunc("POST /roles", h.gate.RequirePermission(models.PermRolesManage, h.handleCreate))
	mux.HandleFunc("GET /roles/{id}", h.gate.RequirePermission(models.PermRolesManage, h.handleGet))
	mux.HandleFunc("PUT /roles/{id}/permissions", h.gate.RequirePermission(models.PermRolesManage, h.handlePermissions))
	mux.HandleFunc("POST /roles/{id}/permissions/{perm}", h.gate.RequirePermission(models.PermRolesManage, h.handleGrant))
	mux.HandleFunc("DELETE /roles/{id}/permissions/{perm}", h.gate.RequirePermission(models.PermRolesManage, h.handleRevoke))
}

func roleID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *RolesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.ListRoles(r.Context())
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "ok", roles)
}

func (h *RolesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.RoleRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	role, err := h.svc.CreateRole(r.Context(), req.Name, req.Description, req.Permissions)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusCreated, "role created", role)
}

func (h *RolesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := roleID(r)
	if !ok {
		h.out.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	role, err := h.svc.Role(r.Context(), id)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "ok", role)
}

func (h *RolesHandler) handlePermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := roleID(r)
	if !ok {
		h.out.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	var req dto.PermissionsRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	role, err := h.svc.SetPermissions(r.Context(), id, req.Permissions)
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "permissions updated", role)
}

func (h *RolesHandler) handleGrant(w http.ResponseWriter, r *http.Request) {
	h.changePermission(w, r, h.svc.GrantPermission, "permission granted")
}

func (h *RolesHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	h.changePermission(w, r, h.svc.RevokePermission, "permission revoked")
}

func (h *RolesHandler) changePermission(w http.ResponseWriter, r *http.Request,
	change func(ctx context.Context, id int64, permission string) (models.Role, error), message string) {
	id, ok := roleID(r)
	if !ok {
		h.out.Error(w, http.StatusBadRequest, "invalid role id")
		return
	}
	role, err := change(r.Context(), id, r.PathValue("perm"))
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, message, role)
}
