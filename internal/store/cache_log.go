// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records docs page cache purges in the database for audit
// and debugging. Each entry captures the key scope that was purged, how
// many pages were dropped and why (content push, manual purge).
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Purge reasons.
const (
	PurgeManual  = "manual"
	PurgeContent = "content_push"
)

// CacheLogStore handles page cache purge log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a purge. scope is the key prefix that was purged, "*" for
// the whole cache.
func (s *CacheLogStore) Log(scope string, removed int, reason string) {
	_, err := s.db.Exec(`
		INSERT INTO cache_purges (scope, removed, reason)
		VALUES ($1, $2, $3)
	`, scope, removed, reason)
	if err != nil {
		// Best-effort: a failed audit row never fails the purge.
		slog.Warn("failed to log cache purge",
			"scope", scope,
			"removed", removed,
			"reason", reason,
			"error", err,
		)
		return
	}
	slog.Debug("cache purge logged", "scope", scope, "removed", removed, "reason", reason)
}

// RecentEntries returns the most recent purges, newest first.
func (s *CacheLogStore) RecentEntries(limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, scope, removed, reason, purged_at
		FROM cache_purges
		ORDER BY purged_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.Scope, &e.Removed, &e.Reason, &e.PurgedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry is a single purge event.
type CacheLogEntry struct {
	ID       int64
	Scope    string
	Removed  int
	Reason   string
	PurgedAt time.Time
}
