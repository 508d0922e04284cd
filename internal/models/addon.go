package models

import (
	"time"

	"github.com/google/uuid"
)

// Add-on types.
const (
	AddonIPv4        = "ipv4"
	AddonComputeSize = "compute_instance"
	AddonPITR        = "pitr"
)

// Addon is an add-on a project has selected.
type Addon struct {
	ID         uuid.UUID `json:"id"`
	ProjectRef string    `json:"project_ref"`
	Type       string    `json:"type"`
	Variant    string    `json:"variant"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasAddon reports whether addons contains one of the given type.
func HasAddon(addons []Addon, addonType string) bool {
	for _, a := range addons {
		if a.Type == addonType {
			return true
		}
	}
	return false
}
