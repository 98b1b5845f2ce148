package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/models/dto"
	"github.com/hongminglow/backoffice/internal/service"
)

// UsersHandler lists accounts and changes their status.
type UsersHandler struct {
	svc  *service.AuthService
	gate *middleware.Gate
	out  *respond.Responder
}

func NewUsersHandler(svc *service.AuthService, gate *middleware.Gate, log *logging.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, gate: gate, out: respond.New(log.With("component", "users_handler"))}
}

func (h *UsersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.gate.RequirePermission(models.PermUsersView, h.handleList))
	mux.HandleFunc("PUT /users/{id}/status", h.gate.RequirePermission(models.PermUsersManage, h.handleStatus))
}

// handleList returns every account, or the single account matching ?email=.
func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		identity, err := h.svc.FindByEmail(r.Context(), email)
		if err != nil {
			h.out.ServiceError(w, err)
			return
		}
		h.out.JSON(w, http.StatusOK, "ok", []models.Identity{identity})
		return
	}

	identities, err := h.svc.ListIdentities(r.Context())
	if err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "ok", identities)
}

func (h *UsersHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.out.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req dto.StatusRequest
	if !bind(h.out, w, r, &req) {
		return
	}
	if err := h.svc.SetStatus(r.Context(), id, strings.TrimSpace(req.Status)); err != nil {
		h.out.ServiceError(w, err)
		return
	}
	h.out.JSON(w, http.StatusOK, "status updated", map[string]any{"id": id, "status": strings.TrimSpace(req.Status)})
}
