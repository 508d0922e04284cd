// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestCacheLogStoreLog(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	scope := "guide:" + uuid.NewString()
	s.Log(scope, 3, PurgeManual)

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_purges WHERE scope = $1", scope)
	})

	var removed int
	var reason string
	err := db.QueryRow(
		"SELECT removed, reason FROM cache_purges WHERE scope = $1", scope,
	).Scan(&removed, &reason)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if removed != 3 || reason != PurgeManual {
		t.Errorf("entry: got removed=%d reason=%q", removed, reason)
	}
}

func TestCacheLogStoreRecentEntries(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	first := "ref:" + uuid.NewString()
	second := "guide:" + uuid.NewString()
	s.Log(first, 1, PurgeContent)
	s.Log(second, 0, PurgeManual)

	t.Cleanup(func() {
		db.Exec("DELETE FROM cache_purges WHERE scope IN ($1, $2)", first, second)
	})

	entries, err := s.RecentEntries(10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 entries, got %d", len(entries))
	}
	if entries[0].PurgedAt.Before(entries[1].PurgedAt) {
		t.Error("expected entries ordered by purged_at DESC")
	}
	if entries[0].Scope != second {
		t.Errorf("newest entry: got %q, want %q", entries[0].Scope, second)
	}
}
