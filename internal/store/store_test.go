// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"docstudio/internal/database"
	"docstudio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "docstudio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "docstudio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestProject inserts a project with a primary database and removes
// it (and everything cascading from it) when the test finishes.
func createTestProject(t *testing.T, db *sql.DB, ref string) *models.Project {
	t.Helper()

	// A leftover from an aborted run would violate the unique ref.
	db.Exec("DELETE FROM projects WHERE ref = $1", ref)
	t.Cleanup(func() { cleanProjects(t, db, ref) })

	p, err := NewProjectStore(db).Create(&models.Project{
		Ref:           ref,
		Name:          "Store test " + ref,
		CloudProvider: "AWS",
		Region:        "eu-west-2",
		RestURL:       "https://" + ref + ".supabase.co",
	}, "test-key")
	if err != nil {
		t.Fatalf("create test project: %v", err)
	}

	err = NewDatabaseStore(db).Create(&models.Database{
		Identifier: ref,
		ProjectRef: ref,
		Host:       "db." + ref + ".supabase.co",
		Port:       5432,
		User:       "postgres",
		Name:       "postgres",
		Region:     "eu-west-2",
		IsPrimary:  true,
	})
	if err != nil {
		t.Fatalf("create primary database: %v", err)
	}
	return p
}

// cleanProjects removes test projects by ref. Call in t.Cleanup().
func cleanProjects(t *testing.T, db *sql.DB, refs ...string) {
	t.Helper()
	for _, ref := range refs {
		db.Exec("DELETE FROM telemetry_events WHERE project_ref = $1", ref)
		db.Exec("DELETE FROM projects WHERE ref = $1", ref)
	}
}
