package handlers

import (
	"net/http"

	"github.com/hongminglow/backoffice/internal/config"
	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/models/dto"
)

// SettingsHandler exposes the read-only display settings.
type SettingsHandler struct {
	settings dto.SettingsResponse
	gate     *middleware.Gate
	out      *respond.Responder
}

func NewSettingsHandler(cfg config.Config, gate *middleware.Gate, log *logging.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: dto.SettingsResponse{Currency: cfg.Currency, TaxRate: cfg.TaxRate},
		gate:     gate,
		out:      respond.New(log.With("component", "settings_handler")),
	}
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /settings", h.gate.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		h.out.JSON(w, http.StatusOK, "ok", h.settings)
	}))
}
