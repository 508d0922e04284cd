package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docstudio/internal/middleware"
	"docstudio/internal/render"
	"docstudio/internal/session"
	"docstudio/internal/store"
)

// Auth groups the handlers that unlock a project's dashboard with its
// access key.
type Auth struct {
	renderer     *render.Renderer
	sessions     *session.Store
	projectStore *store.ProjectStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, projectStore *store.ProjectStore) *Auth {
	return &Auth{
		renderer:     renderer,
		sessions:     sessions,
		projectStore: projectStore,
	}
}

func connectURL(ref string) string { return "/project/" + ref + "/connect" }

// LoginPage renders the access key form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if !validRef(ref) {
		http.NotFound(w, r)
		return
	}

	// Already unlocked for this project.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.ProjectRef == ref {
		http.Redirect(w, r, connectURL(ref), http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Unlock project",
		Data:  map[string]any{"Ref": ref},
	})
}

// LoginSubmit checks the access key and opens a dashboard session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if !validRef(ref) {
		http.NotFound(w, r)
		return
	}
	key := r.FormValue("access_key")

	fail := func(msg string) {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Unlock project",
			Data:  map[string]any{"Ref": ref, "Error": msg},
		})
	}

	if msg := validateAccessKey(key); msg != "" {
		fail(msg)
		return
	}

	project, err := a.projectStore.FindByRef(ref)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		fail("An unexpected error occurred.")
		return
	}
	// Same message for an unknown project and a wrong key.
	if project == nil || !a.projectStore.CheckAccessKey(project, key) {
		slog.Info("project unlock rejected", "ref", ref, "ip", r.RemoteAddr)
		fail("Invalid access key.")
		return
	}

	// Replace any session held for another project.
	a.sessions.Destroy(r.Context(), w, r)
	_, err = a.sessions.Create(r.Context(), w, &session.Data{ProjectRef: project.Ref})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("project unlocked", "ref", project.Ref)
	http.Redirect(w, r, connectURL(project.Ref), http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	login := middleware.LoginPath(ref)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", login)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, login, http.StatusSeeOther)
}
