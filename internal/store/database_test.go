package store

import (
	"testing"
	"time"

	"docstudio/internal/models"
)

func TestDatabaseStoreListByProject(t *testing.T) {
	db := testDB(t)
	s := NewDatabaseStore(db)

	ref := "storetestdatabasesaa"
	createTestProject(t, db, ref)

	replica := &models.Database{
		Identifier: ref + "-rr-us-east-1-abcde",
		ProjectRef: ref,
		Host:       ref + "-rr-us-east-1-abcde.supabase.co",
		Port:       5432,
		User:       "postgres",
		Name:       "postgres",
		Region:     "us-east-1",
		Status:     models.DatabaseComingUp,
	}
	if err := s.Create(replica); err != nil {
		t.Fatalf("Create replica: %v", err)
	}
	if replica.InsertedAt.IsZero() || time.Since(replica.InsertedAt) > time.Minute {
		t.Errorf("unexpected inserted_at: %v", replica.InsertedAt)
	}

	dbs, err := s.ListByProject(ref)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(dbs) != 2 {
		t.Fatalf("expected 2 databases, got %d", len(dbs))
	}
	if !dbs[0].IsPrimary || dbs[0].Identifier != ref {
		t.Errorf("primary must come first, got %+v", dbs[0])
	}
	if dbs[1].Status != models.DatabaseComingUp {
		t.Errorf("replica status: got %q", dbs[1].Status)
	}
}

func TestDatabaseStoreFindByIdentifier(t *testing.T) {
	db := testDB(t)
	s := NewDatabaseStore(db)

	ref := "storetestdatabasesbb"
	createTestProject(t, db, ref)

	d, err := s.FindByIdentifier(ref)
	if err != nil {
		t.Fatalf("FindByIdentifier: %v", err)
	}
	if d == nil || d.Host != "db."+ref+".supabase.co" || d.Status != models.DatabaseActiveHealthy {
		t.Errorf("unexpected database: %+v", d)
	}

	missing, err := s.FindByIdentifier("nope")
	if err != nil {
		t.Fatalf("FindByIdentifier (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing database")
	}
}
