// Package router sets up all HTTP routes and middleware chains for
// docstudio. It organizes routes into the public docs site and the
// per-project studio dashboard with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docstudio/internal/handlers"
	"docstudio/internal/middleware"
	"docstudio/internal/session"
	"docstudio/web"
)

// Rate limits for the studio endpoints that write or check credentials.
const (
	loginLimit  = 10
	copyLimit   = 60
	limitWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned stop function ends the rate
// limiters' cleanup goroutines.
func New(sessionStore *session.Store, docs *handlers.Docs, connect *handlers.Connect, auth *handlers.Auth, secureCookies bool) (chi.Router, func()) {
	r := chi.NewRouter()

	// Applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// No session, no CSRF.
	r.Get("/health", healthHandler)

	// Compiled CSS and vendored HTMX.
	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	loginLimiter := middleware.NewRateLimiter(loginLimit, limitWindow, middleware.ByIPAndRef)
	copyLimiter := middleware.NewRateLimiter(copyLimit, limitWindow, middleware.ByIPAndRef)

	// Studio routes need a CSRF token and, past login, an unlocked project.
	r.Route("/project/{ref}", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.NewCSRF(secureCookies))

		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireProject)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/project/"+chi.URLParam(r, "ref")+"/connect", http.StatusSeeOther)
			})
			r.Get("/connect", connect.Panel)
			r.Get("/connect.json", connect.JSON)
			r.Post("/connect/database", connect.SelectDatabase)
			r.Post("/connect/pooler", connect.TogglePooler)
			r.With(copyLimiter.Middleware).Post("/connect/copy", connect.Copy)
		})
	})

	// Public docs site.
	r.Get("/", docs.Home)
	r.Get("/guides/{section}", docs.Guide)
	r.Get("/guides/{section}/*", docs.Guide)
	r.Get("/reference/{lib}", docs.Reference)
	r.Get("/reference/{lib}/{slug}", docs.Reference)
	r.NotFound(docs.NotFound)

	stop := func() {
		loginLimiter.Stop()
		copyLimiter.Stop()
	}
	return r, stop
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
