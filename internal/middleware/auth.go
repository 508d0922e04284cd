package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docstudio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SessionKey is the context key LoadSession stores the session under.
const SessionKey contextKey = "session"

// LoginPath is the studio login page for a project.
func LoginPath(ref string) string {
	return "/project/" + ref + "/login"
}

// WithSession returns ctx carrying data the way LoadSession stores it.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// SessionFromCtx returns the session LoadSession found, or nil.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// LoadSession puts the visitor's session, if any, in the request context.
// A Valkey failure is logged and the request continues without a session,
// which RequireProject then treats as locked.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			switch {
			case err != nil:
				slog.Warn("session load failed", "path", r.URL.Path, "error", err)
			case data != nil:
				r = r.WithContext(WithSession(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireProject lets a request through only when its session unlocked the
// {ref} in the URL. Others go to that project's login page: a 303 for page
// loads, a 401 with HX-Redirect for HTMX so the browser navigates instead
// of swapping the form into a panel.
func RequireProject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "ref")
		if sess := SessionFromCtx(r.Context()); ref != "" && sess != nil && sess.ProjectRef == ref {
			next.ServeHTTP(w, r)
			return
		}

		login := LoginPath(ref)
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", login)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, login, http.StatusSeeOther)
	})
}
