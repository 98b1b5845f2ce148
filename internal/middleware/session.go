package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/logging"
	"github.com/hongminglow/backoffice/internal/session"
)

// Gate guards bridge routes with the process session. A request is authorized
// only when it presents the session's own token as a Bearer credential.
type Gate struct {
	session *session.Session
	tokens  *auth.TokenManager
	out     *respond.Responder
	log     *logging.Logger
}

// NewGate builds a gate over sess, checking tokens with tokens.
func NewGate(sess *session.Session, tokens *auth.TokenManager, log *logging.Logger) *Gate {
	log = log.With("component", "gate")
	return &Gate{session: sess, tokens: tokens, out: respond.New(log), log: log}
}

// BearerToken extracts the credential from an `Authorization: Bearer` header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// HoldsSession reports whether r carries the live session token and that token
// is authentic and unexpired.
func (g *Gate) HoldsSession(r *http.Request) bool {
	presented := BearerToken(r)
	current, ok := g.session.CurrentToken()
	if !ok || presented == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(current)) != 1 {
		return false
	}
	return g.tokens.IsValid(presented)
}

// RequireLogin rejects requests without the session token. An idle session is
// logged out first. Passing requests count as activity.
func (g *Gate) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.session.IsLoggedIn() {
			g.out.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		if !g.HoldsSession(r) {
			g.log.Warn("token rejected", "request_id", RequestID(r.Context()), "path", r.URL.Path,
				"origin", r.Header.Get("Origin"), "presented", BearerToken(r) != "")
			g.out.Error(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		if g.session.IsSessionExpired() {
			g.log.Info("session expired", "request_id", RequestID(r.Context()), "last_activity", g.session.LastActivity())
			g.session.Logout()
			g.out.Error(w, http.StatusUnauthorized, "session expired")
			return
		}
		g.session.CurrentIdentity()
		next(w, r)
	}
}

// RequirePermission is RequireLogin plus a permission check.
func (g *Gate) RequirePermission(permission string, next http.HandlerFunc) http.HandlerFunc {
	return g.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		if !g.session.HasPermission(permission) {
			g.log.Warn("permission denied", "request_id", RequestID(r.Context()), "permission", permission)
			g.out.Error(w, http.StatusForbidden, "permission denied")
			return
		}
		next(w, r)
	})
}
