package models

import (
	"time"

	"github.com/google/uuid"
)

// TelemetryEvent is one recorded dashboard interaction.
type TelemetryEvent struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	Action     string    `json:"action"`
	Label      string    `json:"label"`
	ProjectRef *string   `json:"project_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
