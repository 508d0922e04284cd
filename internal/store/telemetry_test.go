// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestTelemetryStoreLogAndRecent(t *testing.T) {
	db := testDB(t)
	s := NewTelemetryStore(db)

	ref := "storetesttelemetryaa"
	createTestProject(t, db, ref)

	first := s.Log("settings", "copy_connection_string", "URI", ref)
	second := s.Log("settings", "copy_connection_string", "PSQL", ref)
	if first == uuid.Nil || second == uuid.Nil {
		t.Fatal("Log should return the event id")
	}

	events, err := s.Recent(ref, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	labels := map[string]bool{}
	for _, e := range events {
		labels[e.Label] = true
		if e.ProjectRef == nil || *e.ProjectRef != ref {
			t.Errorf("event project ref: got %v", e.ProjectRef)
		}
	}
	if !labels["URI"] || !labels["PSQL"] {
		t.Errorf("missing labels: %v", labels)
	}

	limited, err := s.Recent(ref, 1)
	if err != nil {
		t.Fatalf("Recent(limit 1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: got %d", len(limited))
	}
}
