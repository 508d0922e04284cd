// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docstudio/internal/connstr"
	"docstudio/internal/middleware"
	"docstudio/internal/models"
	"docstudio/internal/render"
	"docstudio/internal/session"
	"docstudio/internal/store"
)

// Telemetry labels of the Connect panel.
const (
	telemetryCategory = "settings"
	telemetryCopy     = "copy_connection_string"
)

// errProjectNotFound is returned by load when {ref} names no project.
var errProjectNotFound = errors.New("project not found")

// Connect groups the handlers of the studio Connect panel. The selected
// database and the pooler toggle live in the dashboard session.
type Connect struct {
	renderer  *render.Renderer
	sessions  *session.Store
	projects  *store.ProjectStore
	databases *store.DatabaseStore
	pooling   *store.PoolingStore
	addons    *store.AddonStore
	telemetry *store.TelemetryStore
}

// NewConnect creates a new Connect handler group.
func NewConnect(renderer *render.Renderer, sessions *session.Store, projects *store.ProjectStore, databases *store.DatabaseStore, pooling *store.PoolingStore, addons *store.AddonStore, telemetry *store.TelemetryStore) *Connect {
	return &Connect{
		renderer:  renderer,
		sessions:  sessions,
		projects:  projects,
		databases: databases,
		pooling:   pooling,
		addons:    addons,
		telemetry: telemetry,
	}
}

// panelState is everything the panel is composed from.
type panelState struct {
	project   *models.Project
	databases []models.Database
	selected  *models.Database
	pooling   *models.PoolingConfiguration
	hasIPv4   bool
	usePooler bool
	// fetchErr is set when the database list could not be loaded; the
	// panel then shows an error and composes nothing.
	fetchErr error
}

// load reads the project and its databases, pooling configurations and
// add-ons. Only a failed project lookup is returned as an error; the other
// lookups degrade the panel instead.
func (c *Connect) load(r *http.Request, sess *session.Data) (*panelState, error) {
	ref := chi.URLParam(r, "ref")

	project, err := c.projects.FindByRef(ref)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errProjectNotFound
	}
	st := &panelState{project: project, usePooler: sess.UsePoolerConnection}

	st.databases, err = c.databases.ListByProject(ref)
	if err != nil {
		slog.Error("list databases failed", "error", err, "ref", ref)
		st.fetchErr = err
		return st, nil
	}
	st.selected = selectDatabase(st.databases, sess.SelectedDatabaseID)

	configs, err := c.pooling.ListByProject(ref)
	if err != nil {
		slog.Warn("list pooling configurations failed", "error", err, "ref", ref)
	} else if st.selected != nil {
		st.pooling = models.FindPooling(configs, st.selected.Identifier)
	}

	addons, err := c.addons.ListByProject(ref)
	if err != nil {
		slog.Warn("list addons failed", "error", err, "ref", ref)
	}
	st.hasIPv4 = models.HasAddon(addons, models.AddonIPv4)

	return st, nil
}

// selectDatabase returns the database with identifier id, else the
// primary, else the first one. It returns nil for an empty list.
func selectDatabase(dbs []models.Database, id string) *models.Database {
	if len(dbs) == 0 {
		return nil
	}
	for i := range dbs {
		if id != "" && dbs[i].Identifier == id {
			return &dbs[i]
		}
	}
	for i := range dbs {
		if dbs[i].IsPrimary {
			return &dbs[i]
		}
	}
	return &dbs[0]
}

// compose builds the connection strings and notices for tab.
func (st *panelState) compose(tab connstr.Tab) (*connstr.Result, []connstr.Notice) {
	if st.fetchErr != nil || st.selected == nil {
		return nil, nil
	}

	var pooling *connstr.Pooling
	if st.pooling != nil {
		pooling = st.pooling.Pooling()
	}
	region := st.selected.Region
	if region == "" {
		region = st.project.Region
	}

	result := connstr.Compose(st.selected.ConnectionInfo(), pooling, tab, connstr.Options{
		ProjectRef:    st.project.Ref,
		CloudProvider: st.project.CloudProvider,
		Region:        region,
		RestURL:       st.project.RestURL,
		UsePooler:     st.usePooler,
	})
	return &result, connstr.Notices(tab, pooling, st.usePooler, st.hasIPv4)
}

// Panel renders the Connect panel for the tab in the "tab" query or form
// value.
func (c *Connect) Panel(w http.ResponseWriter, r *http.Request) {
	tab, err := connstr.ParseTab(r.FormValue("tab"))
	if err != nil {
		http.Error(w, "Unknown connection type", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	st, err := c.load(r, sess)
	if !c.loadOK(w, r, err) {
		return
	}

	data := map[string]any{
		"Ref":       st.project.Ref,
		"Project":   st.project,
		"Databases": st.databases,
		"UsePooler": st.usePooler,
		"Tabs":      connstr.Tabs,
		"Tab":       tab,
	}
	if st.fetchErr != nil {
		data["FetchError"] = "The database list could not be loaded. Try again in a moment."
	} else {
		if st.selected != nil {
			data["SelectedID"] = st.selected.Identifier
		}
		result, notices := st.compose(tab)
		data["Result"] = result
		data["Notices"] = notices
	}

	c.renderer.Page(w, r, "connect", &render.PageData{
		Title:   "Connect",
		Section: "connect",
		Session: sess,
		Data:    data,
	})
}

// SelectDatabase stores the database chosen in the selector and re-renders
// the panel.
func (c *Connect) SelectDatabase(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	id := r.FormValue("database")
	if msg := validateIdentifier(id); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	db, err := c.databases.FindByIdentifier(id)
	if err != nil {
		slog.Error("find database failed", "error", err, "identifier", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if db == nil || db.ProjectRef != ref {
		http.Error(w, "Unknown database", http.StatusBadRequest)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if err := c.sessions.SelectDatabase(r.Context(), r, db.Identifier); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sess.SelectedDatabaseID = db.Identifier

	c.Panel(w, r)
}

// TogglePooler stores the pooler toggle and re-renders the panel.
func (c *Connect) TogglePooler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	sess.UsePoolerConnection = r.FormValue("use_pooler") == "true"
	if err := c.sessions.SetUsePooler(r.Context(), r, sess.UsePoolerConnection); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	c.Panel(w, r)
}

// Copy records that a connection string of the given tab was copied.
func (c *Connect) Copy(w http.ResponseWriter, r *http.Request) {
	tab, err := connstr.ParseTab(r.FormValue("tab"))
	if err != nil {
		http.Error(w, "Unknown connection type", http.StatusBadRequest)
		return
	}

	c.telemetry.Log(telemetryCategory, telemetryCopy, connstr.Label(tab), chi.URLParam(r, "ref"))
	w.WriteHeader(http.StatusNoContent)
}

// connectJSON is the machine-readable form of the panel.
type connectJSON struct {
	ProjectRef string            `json:"project_ref"`
	Databases  []models.Database `json:"databases"`
	Selected   string            `json:"selected_database_id,omitempty"`
	UsePooler  bool              `json:"use_pooler_connection"`
	Result     *connstr.Result   `json:"result,omitempty"`
	Notices    []connstr.Notice  `json:"notices,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// JSON returns the composed panel as JSON.
func (c *Connect) JSON(w http.ResponseWriter, r *http.Request) {
	tab, err := connstr.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	st, err := c.load(r, middleware.SessionFromCtx(r.Context()))
	if errors.Is(err, errProjectNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "project not found"})
		return
	}
	if err != nil {
		slog.Error("load connect panel failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	out := connectJSON{
		ProjectRef: st.project.Ref,
		Databases:  st.databases,
		UsePooler:  st.usePooler,
	}
	if st.fetchErr != nil {
		out.Error = "failed to retrieve databases"
		writeJSON(w, http.StatusBadGateway, out)
		return
	}
	if st.selected != nil {
		out.Selected = st.selected.Identifier
	}
	out.Result, out.Notices = st.compose(tab)
	writeJSON(w, http.StatusOK, out)
}

// loadOK maps a load error to a response and reports whether the handler
// may continue.
func (c *Connect) loadOK(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, errProjectNotFound) {
		http.NotFound(w, r)
		return false
	}
	if err != nil {
		slog.Error("load connect panel failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
