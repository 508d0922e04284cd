// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a hosted project whose databases are shown in the Connect panel.
type Project struct {
	ID            uuid.UUID `json:"id"`
	Ref           string    `json:"ref"`
	Name          string    `json:"name"`
	CloudProvider string    `json:"cloud_provider"` // "AWS", "FLY", ...
	Region        string    `json:"region"`
	RestURL       string    `json:"rest_url"`
	AccessKeyHash string    `json:"-"` // bcrypt hash; never serialize
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
