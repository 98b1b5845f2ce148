package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/backoffice/internal/config"
	"github.com/hongminglow/backoffice/internal/dashboard"
	"github.com/hongminglow/backoffice/internal/http/handlers"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/middleware"
	"github.com/hongminglow/backoffice/internal/service"
	"github.com/hongminglow/backoffice/internal/storage"
)

// Deps are the long-lived components the bridge routes into.
type Deps struct {
	Store     storage.Store
	Auth      *service.AuthService
	Roles     *service.RoleService
	Dashboard *dashboard.Refresher
	Log       *logging.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	mux := http.NewServeMux()
	sess := deps.Auth.Session()
	gate := middleware.NewGate(sess, deps.Auth.Tokens(), deps.Log)

	handlers.NewHealthHandler(time.Now(), deps.Store, sess, deps.Log).Register(mux)
	handlers.NewAuthHandler(deps.Auth, gate, deps.Log).Register(mux)
	handlers.NewUsersHandler(deps.Auth, gate, deps.Log).Register(mux)
	handlers.NewRolesHandler(deps.Roles, gate, deps.Log).Register(mux)
	handlers.NewDashboardHandler(deps.Dashboard, gate, deps.Log).Register(mux)
	handlers.NewSettingsHandler(cfg, gate, deps.Log).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(deps.Log, mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
