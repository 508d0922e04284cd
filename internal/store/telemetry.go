// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// telemetry.go records dashboard interaction events, such as copying a
// connection string, for product analytics.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"docstudio/internal/models"
)

// TelemetryStore handles telemetry event operations.
type TelemetryStore struct {
	db *sql.DB
}

// NewTelemetryStore creates a new TelemetryStore.
func NewTelemetryStore(db *sql.DB) *TelemetryStore {
	return &TelemetryStore{db: db}
}

// Log records an event. Failures are logged and swallowed; telemetry is
// best-effort and never blocks the user action that triggered it.
func (s *TelemetryStore) Log(category, action, label, projectRef string) uuid.UUID {
	id := uuid.New()
	var ref *string
	if projectRef != "" {
		ref = &projectRef
	}
	_, err := s.db.Exec(`
		INSERT INTO telemetry_events (id, category, action, label, project_ref)
		VALUES ($1, $2, $3, $4, $5)
	`, id, category, action, label, ref)
	if err != nil {
		slog.Warn("failed to record telemetry event",
			"category", category,
			"action", action,
			"label", label,
			"error", err,
		)
		return uuid.Nil
	}
	slog.Debug("telemetry event recorded",
		"category", category,
		"action", action,
		"label", label,
	)
	return id
}

// Recent returns the most recent events for a project, newest first.
func (s *TelemetryStore) Recent(projectRef string, limit int) ([]models.TelemetryEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, category, action, label, project_ref, created_at
		FROM telemetry_events
		WHERE project_ref = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, projectRef, limit)
	if err != nil {
		return nil, fmt.Errorf("query telemetry events: %w", err)
	}
	defer rows.Close()

	var events []models.TelemetryEvent
	for rows.Next() {
		var e models.TelemetryEvent
		if err := rows.Scan(&e.ID, &e.Category, &e.Action, &e.Label, &e.ProjectRef, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
