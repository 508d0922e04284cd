package database

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(context.Background(), testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into an empty projects table, so a second call is a
	// no-op. Other packages may share the database, so nothing is cleared.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var hash string
	err = db.QueryRow("SELECT access_key_hash FROM projects WHERE ref = $1", DevProjectRef).Scan(&hash)
	if err != nil {
		t.Skipf("dev project not present (database seeded by another run): %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(DevAccessKey)) != nil {
		t.Error("seeded access key hash does not match DevAccessKey")
	}

	var dbCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM databases WHERE project_ref = $1", DevProjectRef).Scan(&dbCount); err != nil {
		t.Fatalf("count databases: %v", err)
	}
	if dbCount != 2 {
		t.Errorf("expected primary and replica, got %d databases", dbCount)
	}

	var poolCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pooling_configurations p
		JOIN databases d ON d.identifier = p.identifier WHERE d.project_ref = $1`, DevProjectRef).Scan(&poolCount); err != nil {
		t.Fatalf("count pooling configurations: %v", err)
	}
	if poolCount != 2 {
		t.Errorf("expected 2 pooling configurations, got %d", poolCount)
	}
}
