package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/session"
)

// Pinger checks the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime, store reachability, and whether someone is logged in.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
	session   *session.Session
	out       *respond.Responder
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, db Pinger, sess *session.Session, log *logging.Logger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db, session: sess, out: respond.New(log.With("component", "health"))}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database := http.StatusOK, "ok"
	if err := h.db.Ping(ctx); err != nil {
		status, database = http.StatusServiceUnavailable, "unreachable"
	}
	h.out.JSON(w, status, "health", map[string]any{
		"status":    http.StatusText(status),
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
		"database":  database,
		"logged_in": h.session.IsLoggedIn(),
	})
}
