package handlers

import (
	"context"
	"net/http"

	"github.com/hongminglow/backoffice/internal/dashboard"
	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/models"
)

// DashboardHandler serves the statistics panel.
type DashboardHandler struct {
	refresher *dashboard.Refresher
	gate      *middleware.Gate
	out       *respond.Responder
}

func NewDashboardHandler(refresher *dashboard.Refresher, gate *middleware.Gate, log *logging.Logger) *DashboardHandler {
	return &DashboardHandler{refresher: refresher, gate: gate, out: respond.New(log.With("component", "dashboard_handler"))}
}

func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard", h.gate.RequirePermission(models.PermDashboardView, h.handleView))
	mux.HandleFunc("POST /dashboard/refresh", h.gate.RequirePermission(models.PermDashboardView, h.handleRefresh))
}

func (h *DashboardHandler) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.refresher.Snapshot(r.Context())
	if err != nil {
		h.out.Error(w, http.StatusServiceUnavailable, "dashboard unavailable")
		return
	}
	h.out.JSON(w, http.StatusOK, "ok", view)
}

// handleRefresh answers before the fetch finishes; clients poll GET /dashboard.
func (h *DashboardHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.refresher.Refresh(context.WithoutCancel(r.Context()))
	h.out.JSON(w, http.StatusAccepted, "refresh started", nil)
}
