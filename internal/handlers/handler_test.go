// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"docstudio/internal/cache"
	"docstudio/internal/database"
	"docstudio/internal/middleware"
	"docstudio/internal/models"
	"docstudio/internal/render"
	"docstudio/internal/session"
	"docstudio/internal/store"
)

const testAccessKey = "handler-test-key"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "docstudio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "docstudio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	Projects  *store.ProjectStore
	Databases *store.DatabaseStore
	Pooling   *store.PoolingStore
	Addons    *store.AddonStore
	Telemetry *store.TelemetryStore
	PageCache *cache.PageCache
	Connect   *Connect
	Auth      *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		DB:        db,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  session.NewStore(vk, false),
		Projects:  store.NewProjectStore(db),
		Databases: store.NewDatabaseStore(db),
		Pooling:   store.NewPoolingStore(db),
		Addons:    store.NewAddonStore(db),
		Telemetry: store.NewTelemetryStore(db),
		PageCache: cache.NewPageCache(vk, time.Minute),
	}
	env.Connect = NewConnect(renderer, env.Sessions, env.Projects, env.Databases, env.Pooling, env.Addons, env.Telemetry)
	env.Auth = NewAuth(renderer, env.Sessions, env.Projects)
	return env
}

// testRef returns a fresh twenty-letter project reference.
func testRef() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	ref := make([]byte, refLen)
	for i := range ref {
		ref[i] = 'a' + hex[i]%26
	}
	return string(ref)
}

// createProject inserts a project with a primary database, a read replica
// and a transaction-mode pooler on the primary. Everything is removed when
// the test finishes.
func createProject(t *testing.T, env *testEnv) *models.Project {
	t.Helper()
	ref := testRef()
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM telemetry_events WHERE project_ref = $1", ref)
		env.DB.Exec("DELETE FROM projects WHERE ref = $1", ref)
	})

	p, err := env.Projects.Create(&models.Project{
		Ref:           ref,
		Name:          "Handler test",
		CloudProvider: "AWS",
		Region:        "eu-west-1",
		RestURL:       "https://" + ref + ".supabase.co",
	}, testAccessKey)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	for _, d := range []models.Database{
		{Identifier: ref, ProjectRef: ref, Host: "db." + ref + ".supabase.co", Port: 5432, User: "postgres", Name: "postgres", Region: "eu-west-1", IsPrimary: true},
		{Identifier: ref + "-rr-us-east-1", ProjectRef: ref, Host: "db." + ref + "-rr.supabase.co", Port: 5432, User: "postgres", Name: "postgres", Region: "us-east-1"},
	} {
		if err := env.Databases.Create(&d); err != nil {
			t.Fatalf("create database: %v", err)
		}
	}

	err = env.Pooling.Upsert(&models.PoolingConfiguration{
		Identifier:       ref,
		PoolMode:         "transaction",
		Port:             6543,
		ConnectionString: "postgres://postgres." + ref + ":[YOUR-PASSWORD]@aws-0-eu-west-1.pooler.supabase.com:6543/postgres",
	})
	if err != nil {
		t.Fatalf("upsert pooling: %v", err)
	}
	return p
}

// openSession stores a session for ref in Valkey and returns the cookie
// that identifies it along with the stored data.
func openSession(t *testing.T, env *testEnv, ref string) (*http.Cookie, *session.Data) {
	t.Helper()
	data := &session.Data{ProjectRef: ref}
	rec := httptest.NewRecorder()
	if _, err := env.Sessions.Create(context.Background(), rec, data); err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c, data
		}
	}
	t.Fatal("session cookie not set")
	return nil, nil
}

// studioRequest builds a request carrying {ref}, the session cookie and the
// session in context, the way the router hands it to a studio handler.
func studioRequest(method, target, ref string, cookie *http.Cookie, sess *session.Data, form string) *http.Request {
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	req = withChiURLParam(req, "ref", ref)
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
