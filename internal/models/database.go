package models

import (
	"time"

	"docstudio/internal/connstr"
)

// Database statuses.
const (
	DatabaseActiveHealthy = "ACTIVE_HEALTHY"
	DatabaseComingUp      = "COMING_UP"
	DatabaseUnhealthy     = "UNHEALTHY"
)

// Database is one database of a project: the primary or a read replica.
type Database struct {
	Identifier string    `json:"identifier"`
	ProjectRef string    `json:"project_ref"`
	Host       string    `json:"db_host"`
	Port       int       `json:"db_port"`
	User       string    `json:"db_user"`
	Name       string    `json:"db_name"`
	Region     string    `json:"region"`
	Status     string    `json:"status"`
	IsPrimary  bool      `json:"is_primary"`
	InsertedAt time.Time `json:"inserted_at"`
}

// ConnectionInfo returns the fields the connection-string composer needs.
func (d *Database) ConnectionInfo() connstr.ConnectionInfo {
	return connstr.ConnectionInfo{Host: d.Host, Port: d.Port, User: d.User, Name: d.Name}
}

// Label is the name shown in the database selector.
func (d *Database) Label() string {
	if d.IsPrimary {
		return "Primary database"
	}
	return "Read replica (" + d.Region + ")"
}

// IsHealthy reports whether the database accepts connections.
func (d *Database) IsHealthy() bool {
	return d.Status == DatabaseActiveHealthy
}
