package web

import (
	"net/http"

	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/byhelaman/sched-planner/internal/web/middleware"
)

// SessionHeader carries the session id for clients that do not keep cookies.
const SessionHeader = "X-Session-ID"

// requestMetadata adds the client IP to the request context for logging.
func (s *Server) requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithIPAddress(r.Context(), middleware.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// session resolves the caller's session id from the cookie, falling back to
// SessionHeader. Malformed ids are treated as no session.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}
		if id == "" {
			id = r.Header.Get(SessionHeader)
		}
		if id != "" && !store.ValidID(id) {
			id = ""
		}
		next.ServeHTTP(w, r.WithContext(core.ContextWithSessionID(r.Context(), id)))
	})
}

// setSession hands the session id back to the client.
func (s *Server) setSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.service.MaxAge().Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
}

// clearSession tells the client to forget its session id.
func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
